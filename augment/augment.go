// Package augment merges derived lexical facts into the knowledge
// base. The augmentation pipeline (WordNet-driven, external to this
// repository) emits synonym/2 and is_a/2 facts in the same kb.pl
// syntax as the base fact file; this package is the boundary that
// loads them and appends them after the base facts, preserving order
// so query output stays deterministic.
package augment

import (
	"fmt"
	"os"

	"github.com/wbrown/privalog/kb"
	"github.com/wbrown/privalog/kb/parser"
)

// Predicates contributed by augmentation.
const (
	PredSynonym = "synonym"
	PredIsA     = "is_a"
)

// Source supplies derived facts, fully materialized before any query
// runs. Loading is a one-shot step; sources are never consulted during
// query execution.
type Source interface {
	// Name identifies the source in reports and trace events.
	Name() string
	// Facts returns the derived facts in a stable order.
	Facts() ([]kb.Fact, error)
}

// Register declares the augmentation predicates in the registry. Must
// run before augmentation facts are added to a store.
func Register(reg *kb.Registry) error {
	if err := reg.Register(PredSynonym, 2); err != nil {
		return err
	}
	return reg.Register(PredIsA, 2)
}

// FileSource reads a kb_aug.pl-style fact file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string {
	return s.Path
}

func (s *FileSource) Facts() ([]kb.Fact, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open augmentation file: %w", err)
	}
	defer f.Close()

	facts, err := parser.ParseFactFile(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return facts, nil
}

// StaticSource serves a fixed fact list; used in tests and for
// embedded demo data.
type StaticSource struct {
	Label string
	List  []kb.Fact
}

func (s *StaticSource) Name() string {
	return s.Label
}

func (s *StaticSource) Facts() ([]kb.Fact, error) {
	return s.List, nil
}

// Merge appends each source's facts to the store in source order,
// after the base facts that are already present. Returns the number
// of facts offered (duplicates are absorbed by the store). A schema
// error halts the merge: an augmentation fact that does not fit the
// schema must not reach the query session.
func Merge(store *kb.Store, sources ...Source) (int, error) {
	offered := 0
	for _, src := range sources {
		facts, err := src.Facts()
		if err != nil {
			return offered, fmt.Errorf("augmentation source %s: %w", src.Name(), err)
		}
		for _, f := range facts {
			if err := store.Add(f); err != nil {
				return offered, fmt.Errorf("augmentation fact %s: %w", f, err)
			}
			offered++
		}
	}
	return offered, nil
}

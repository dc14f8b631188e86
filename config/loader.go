package config

import (
	"fmt"
	"os"

	"github.com/wbrown/privalog/augment"
	"github.com/wbrown/privalog/kb"
	"github.com/wbrown/privalog/kb/parser"
)

// Loader assembles a ready-to-query knowledge base from configuration
// and fact files. Empty paths fall back to the built-in defaults.
type Loader struct {
	SchemaPath   string
	QueriesPath  string
	FactPaths    []string // base fact files, loaded in order
	AugmentPaths []string // augmentation fact files, loaded after base

	// FactList overrides FactPaths and the built-in defaults when
	// non-nil; used when facts come from persistent storage.
	FactList []kb.Fact
}

// Query is a named query with its goal parsed and validated.
type Query struct {
	ID       string
	Question string
	Goal     kb.Goal
}

// Components holds the loaded knowledge base and its fixed queries.
type Components struct {
	Registry  *kb.Registry
	Store     *kb.Store
	Validator *kb.Validator
	Queries   []Query

	BaseCount    int // facts loaded before augmentation
	AugmentCount int // augmentation facts offered to the store
}

// Load builds the registry, fills the store (base facts first, then
// augmentation), and parses the named queries. Any schema conflict,
// parse failure, or invalid query goal halts loading: an inconsistent
// knowledge base must not be queried.
func (l *Loader) Load() (*Components, error) {
	schema := DefaultSchema()
	if l.SchemaPath != "" {
		loaded, err := LoadSchemaFile(l.SchemaPath)
		if err != nil {
			return nil, err
		}
		schema = loaded
	}

	reg, err := schema.Registry()
	if err != nil {
		return nil, err
	}
	if err := augment.Register(reg); err != nil {
		return nil, err
	}

	store := kb.NewStore(reg)

	if l.FactList != nil {
		if err := store.AddAll(l.FactList); err != nil {
			return nil, err
		}
	} else if len(l.FactPaths) == 0 {
		if err := store.AddAll(DefaultFacts()); err != nil {
			return nil, err
		}
	} else {
		for _, path := range l.FactPaths {
			if err := loadFactFile(store, path); err != nil {
				return nil, err
			}
		}
	}
	baseCount := store.Len()

	sources := make([]augment.Source, len(l.AugmentPaths))
	for i, path := range l.AugmentPaths {
		sources[i] = &augment.FileSource{Path: path}
	}
	augCount, err := augment.Merge(store, sources...)
	if err != nil {
		return nil, err
	}

	queriesFile := DefaultQueries()
	if l.QueriesPath != "" {
		loaded, err := LoadQueriesFile(l.QueriesPath)
		if err != nil {
			return nil, err
		}
		queriesFile = loaded
	}

	validator := kb.NewValidator(reg)
	queries := make([]Query, 0, len(queriesFile.Queries))
	for _, def := range queriesFile.Queries {
		goal, err := parser.ParseGoal(def.Goal)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", def.ID, err)
		}
		if !validator.ValidGoal(goal) {
			return nil, fmt.Errorf("query %s: goal %q is not well-formed against the schema", def.ID, def.Goal)
		}
		queries = append(queries, Query{ID: def.ID, Question: def.Question, Goal: goal})
	}

	return &Components{
		Registry:     reg,
		Store:        store,
		Validator:    validator,
		Queries:      queries,
		BaseCount:    baseCount,
		AugmentCount: augCount,
	}, nil
}

func loadFactFile(store *kb.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open facts: %w", err)
	}
	defer f.Close()

	facts, err := parser.ParseFactFile(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, fact := range facts {
		if err := store.Add(fact); err != nil {
			return fmt.Errorf("%s: fact %s: %w", path, fact, err)
		}
	}
	return nil
}

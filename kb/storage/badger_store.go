// Package storage persists a fact base in BadgerDB so a knowledge base
// can be built once and queried across process restarts.
package storage

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/wbrown/privalog/kb"
)

// Key layout:
//
//	s:<8-byte big-endian seq> -> predicate \x1f arg \x1f arg ...
//	f:<fact key>              -> <seq>
//	m:next                    -> next sequence number
//
// Sequence keys sort in insertion order, so a prefix scan over "s:"
// replays facts exactly as they were appended. The "f:" index makes
// appends idempotent across repeated loads.
var (
	seqPrefix  = []byte("s:")
	factPrefix = []byte("f:")
	nextKey    = []byte("m:next")
)

// BadgerStore is a persistent, insertion-order-preserving fact log.
type BadgerStore struct {
	db *badger.DB
}

// Open opens (or creates) a fact store at the given path.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Append adds facts in order, skipping exact duplicates already
// persisted. Returns the number of newly written facts. Schema
// validation is the caller's responsibility: facts are validated
// against the registry before they reach persistence.
func (s *BadgerStore) Append(facts []kb.Fact) (int, error) {
	added := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		next, err := readNext(txn)
		if err != nil {
			return err
		}
		for _, f := range facts {
			dupKey := make([]byte, 0, len(factPrefix)+len(f.Key()))
			dupKey = append(dupKey, factPrefix...)
			dupKey = append(dupKey, f.Key()...)
			if _, err := txn.Get(dupKey); err == nil {
				continue
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			seqKey := make([]byte, len(seqPrefix)+8)
			copy(seqKey, seqPrefix)
			binary.BigEndian.PutUint64(seqKey[len(seqPrefix):], next)

			if err := txn.Set(seqKey, encodeFact(f)); err != nil {
				return err
			}
			seqVal := make([]byte, 8)
			binary.BigEndian.PutUint64(seqVal, next)
			if err := txn.Set(dupKey, seqVal); err != nil {
				return err
			}
			next++
			added++
		}
		return writeNext(txn, next)
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// All returns every persisted fact in append order.
func (s *BadgerStore) All() ([]kb.Fact, error) {
	var facts []kb.Fact
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = seqPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				fact, err := decodeFact(val)
				if err != nil {
					return err
				}
				facts = append(facts, fact)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return facts, nil
}

// Len returns the number of persisted facts.
func (s *BadgerStore) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = seqPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// LoadInto replays the persisted facts into an in-memory session
// store, preserving append order. Schema errors surface immediately:
// a persisted fact that no longer fits the registry must halt loading
// rather than be dropped silently.
func (s *BadgerStore) LoadInto(store *kb.Store) (int, error) {
	facts, err := s.All()
	if err != nil {
		return 0, err
	}
	for i, f := range facts {
		if err := store.Add(f); err != nil {
			return i, fmt.Errorf("persisted fact %s: %w", f, err)
		}
	}
	return len(facts), nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func encodeFact(f kb.Fact) []byte {
	parts := append([]string{f.Predicate}, f.Args...)
	return []byte(strings.Join(parts, "\x1f"))
}

func decodeFact(val []byte) (kb.Fact, error) {
	parts := strings.Split(string(val), "\x1f")
	if len(parts) < 2 {
		return kb.Fact{}, fmt.Errorf("corrupt fact record: %q", val)
	}
	return kb.NewFact(parts[0], parts[1:]...), nil
}

func readNext(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get(nextKey)
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var next uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt sequence counter")
		}
		next = binary.BigEndian.Uint64(val)
		return nil
	})
	return next, err
}

func writeNext(txn *badger.Txn, next uint64) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, next)
	return txn.Set(nextKey, val)
}

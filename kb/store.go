package kb

// Store holds the ground fact base. Every insertion is validated
// against the registry: an unregistered predicate or a wrong argument
// count is rejected outright, since an arity-mismatched fact in the
// store would silently break every later query against that predicate.
// Exact duplicates are dropped without error, so repeated loads of the
// same fact file are harmless.
//
// Facts are kept in insertion order, both globally and per predicate.
// The query engine depends on this order for deterministic results.
// Once loading finishes the store is treated as read-only for the
// lifetime of a query session.
type Store struct {
	schema *Registry
	facts  []Fact
	byPred map[string][]int // indices into facts, insertion order
	seen   map[string]struct{}
}

// NewStore creates an empty fact store over the given registry.
func NewStore(schema *Registry) *Store {
	return &Store{
		schema: schema,
		byPred: make(map[string][]int),
		seen:   make(map[string]struct{}),
	}
}

// Schema returns the registry the store validates against.
func (s *Store) Schema() *Registry {
	return s.schema
}

// Add validates and inserts a fact. Inserting an exact duplicate is a
// no-op. Returns a schema error if the predicate is unregistered or the
// argument count does not match its registered arity.
func (s *Store) Add(f Fact) error {
	want, err := s.schema.ArityOf(f.Predicate)
	if err != nil {
		return err
	}
	if want != len(f.Args) {
		return &ArityMismatchError{Predicate: f.Predicate, Want: want, Got: len(f.Args)}
	}
	key := f.Key()
	if _, dup := s.seen[key]; dup {
		return nil
	}
	s.seen[key] = struct{}{}
	s.byPred[f.Predicate] = append(s.byPred[f.Predicate], len(s.facts))
	s.facts = append(s.facts, f)
	return nil
}

// AddAll inserts facts in order, stopping at the first schema error.
func (s *Store) AddAll(facts []Fact) error {
	for _, f := range facts {
		if err := s.Add(f); err != nil {
			return err
		}
	}
	return nil
}

// FactsFor returns all stored facts for a predicate in insertion order.
func (s *Store) FactsFor(predicate string) []Fact {
	idxs := s.byPred[predicate]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Fact, len(idxs))
	for i, idx := range idxs {
		out[i] = s.facts[idx]
	}
	return out
}

// Contains is an exact ground-tuple membership test.
func (s *Store) Contains(f Fact) bool {
	_, ok := s.seen[f.Key()]
	return ok
}

// All returns every stored fact in global insertion order.
func (s *Store) All() []Fact {
	out := make([]Fact, len(s.facts))
	copy(out, s.facts)
	return out
}

// Len returns the number of stored facts.
func (s *Store) Len() int {
	return len(s.facts)
}

// Predicates returns the predicates with at least one stored fact,
// ordered by first fact insertion.
func (s *Store) Predicates() []string {
	out := make([]string, 0, len(s.byPred))
	seen := make(map[string]struct{}, len(s.byPred))
	for _, f := range s.facts {
		if _, ok := seen[f.Predicate]; ok {
			continue
		}
		seen[f.Predicate] = struct{}{}
		out = append(out, f.Predicate)
	}
	return out
}

// CountByPredicate returns the fact census, keyed by predicate name.
func (s *Store) CountByPredicate() map[string]int {
	counts := make(map[string]int, len(s.byPred))
	for pred, idxs := range s.byPred {
		counts[pred] = len(idxs)
	}
	return counts
}

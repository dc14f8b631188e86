package kb

// Registry maps predicate names to their required arity. It is the
// single source of truth for which predicates are legal: the validator,
// the fact store, and the query engine all consult it.
//
// A registry is populated once during knowledge-base construction and
// treated as read-only afterwards. Registering a name twice with the
// same arity is a no-op; registering it with a different arity is a
// SchemaConflictError.
type Registry struct {
	arities map[string]int
	names   []string // registration order, for deterministic listings
}

// NewRegistry creates an empty predicate registry.
func NewRegistry() *Registry {
	return &Registry{arities: make(map[string]int)}
}

// Register adds a predicate signature. Arity must be positive.
func (r *Registry) Register(name string, arity int) error {
	if name == "" {
		return &UnknownPredicateError{Predicate: name}
	}
	if arity < 1 {
		return &ArityMismatchError{Predicate: name, Want: 1, Got: arity}
	}
	if existing, ok := r.arities[name]; ok {
		if existing != arity {
			return &SchemaConflictError{Predicate: name, Existing: existing, Proposed: arity}
		}
		return nil
	}
	r.arities[name] = arity
	r.names = append(r.names, name)
	return nil
}

// ArityOf returns the registered arity for a predicate name.
func (r *Registry) ArityOf(name string) (int, error) {
	arity, ok := r.arities[name]
	if !ok {
		return 0, &UnknownPredicateError{Predicate: name}
	}
	return arity, nil
}

// Known reports whether the name/arity pair is a legal predicate use.
func (r *Registry) Known(name string, arity int) bool {
	existing, ok := r.arities[name]
	return ok && existing == arity
}

// Predicates returns all registered names in registration order.
func (r *Registry) Predicates() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered predicates.
func (r *Registry) Len() int {
	return len(r.names)
}

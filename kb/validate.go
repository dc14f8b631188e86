package kb

// Validator checks structural well-formedness of formulas against the
// predicate registry. It is pure: it never consults fact data, never
// evaluates truth, and repeated calls on the same formula always return
// the same verdict. Malformed input yields false, not a panic, so a UI
// can report "not a valid query" for arbitrary user text.
type Validator struct {
	schema *Registry
}

// NewValidator creates a validator over the given registry.
func NewValidator(schema *Registry) *Validator {
	return &Validator{schema: schema}
}

// Valid reports whether the formula is well-formed: every atomic
// application uses a registered predicate at its registered arity with
// well-formed terms, and every connective has well-formed children.
// The bound variable of a quantifier is an opaque identifier and only
// required to be non-empty.
func (v *Validator) Valid(f Formula) bool {
	switch f := f.(type) {
	case Atom:
		return v.validAtom(f)
	case And:
		return v.Valid(f.L) && v.Valid(f.R)
	case Or:
		return v.Valid(f.L) && v.Valid(f.R)
	case Not:
		return v.Valid(f.Body)
	case ForAll:
		return f.Var != "" && v.Valid(f.Body)
	case Exists:
		return f.Var != "" && v.Valid(f.Body)
	default:
		// nil or an unrecognized shape
		return false
	}
}

// ValidGoal reports whether every conjunct of a goal is a well-formed
// atomic application. An empty goal is not a query.
func (v *Validator) ValidGoal(g Goal) bool {
	if len(g) == 0 {
		return false
	}
	for _, atom := range g {
		if !v.validAtom(atom) {
			return false
		}
	}
	return true
}

func (v *Validator) validAtom(a Atom) bool {
	if !v.schema.Known(a.Predicate, len(a.Args)) {
		return false
	}
	for _, t := range a.Args {
		switch t := t.(type) {
		case Constant:
			if t.Value == "" {
				return false
			}
		case Var:
			if t.Name == "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

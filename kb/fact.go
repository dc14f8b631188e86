package kb

import "strings"

// Fact is a single ground tuple: a predicate name plus its ordered
// constant arguments. Facts never contain variables.
type Fact struct {
	Predicate string
	Args      []string
}

// NewFact builds a fact from a predicate name and its arguments.
func NewFact(predicate string, args ...string) Fact {
	return Fact{Predicate: predicate, Args: args}
}

// Arity returns the number of arguments.
func (f Fact) Arity() int {
	return len(f.Args)
}

// Equal reports exact tuple equality.
func (f Fact) Equal(other Fact) bool {
	if f.Predicate != other.Predicate || len(f.Args) != len(other.Args) {
		return false
	}
	for i, a := range f.Args {
		if a != other.Args[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string for duplicate detection. The unit
// separator cannot appear in identifiers, so the key is collision-free.
func (f Fact) Key() string {
	return f.Predicate + "\x1f" + strings.Join(f.Args, "\x1f")
}

// String renders the fact in the kb.pl syntax, e.g.
// "collects(google, information)".
func (f Fact) String() string {
	return f.Predicate + "(" + strings.Join(f.Args, ", ") + ")"
}

// Atom converts the fact into an atomic formula with constant arguments.
func (f Fact) Atom() Atom {
	args := make([]Term, len(f.Args))
	for i, a := range f.Args {
		args[i] = Constant{Value: a}
	}
	return Atom{Predicate: f.Predicate, Args: args}
}

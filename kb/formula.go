package kb

import "strings"

// Formula is the closed set of formula shapes the validator accepts:
// atomic predicate application, conjunction, disjunction, negation, and
// the two quantifiers. Formulas are trees by construction; validation
// recursion is bounded by tree depth.
type Formula interface {
	formula()
	String() string
}

// Atom is an atomic predicate application, e.g. collects(google, X).
type Atom struct {
	Predicate string
	Args      []Term
}

// And is the conjunction of two formulas.
type And struct {
	L, R Formula
}

// Or is the disjunction of two formulas.
type Or struct {
	L, R Formula
}

// Not is the negation of a formula.
type Not struct {
	Body Formula
}

// ForAll is universal quantification over a variable.
type ForAll struct {
	Var  string
	Body Formula
}

// Exists is existential quantification over a variable.
type Exists struct {
	Var  string
	Body Formula
}

func (Atom) formula()   {}
func (And) formula()    {}
func (Or) formula()     {}
func (Not) formula()    {}
func (ForAll) formula() {}
func (Exists) formula() {}

func (a Atom) String() string {
	parts := make([]string, len(a.Args))
	for i, t := range a.Args {
		if t == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = t.String()
	}
	return a.Predicate + "(" + strings.Join(parts, ", ") + ")"
}

func (f And) String() string    { return "and(" + formulaString(f.L) + ", " + formulaString(f.R) + ")" }
func (f Or) String() string     { return "or(" + formulaString(f.L) + ", " + formulaString(f.R) + ")" }
func (f Not) String() string    { return "not(" + formulaString(f.Body) + ")" }
func (f ForAll) String() string { return "forall(" + f.Var + ", " + formulaString(f.Body) + ")" }
func (f Exists) String() string { return "exists(" + f.Var + ", " + formulaString(f.Body) + ")" }

func formulaString(f Formula) string {
	if f == nil {
		return "<nil>"
	}
	return f.String()
}

// Goal is the executable query subset: a conjunction of atoms sharing
// logical variables. Richer formulas are accepted by the validator but
// only conjunctive goals are evaluated.
type Goal []Atom

// String renders the goal as comma-separated conjuncts.
func (g Goal) String() string {
	parts := make([]string, len(g))
	for i, a := range g {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// FreeVars returns the goal's variables in first-appearance order,
// scanning conjuncts left to right. The order fixes the result columns.
func (g Goal) FreeVars() []string {
	var vars []string
	seen := make(map[string]struct{})
	for _, atom := range g {
		for _, t := range atom.Args {
			v, ok := t.(Var)
			if !ok {
				continue
			}
			if _, dup := seen[v.Name]; dup {
				continue
			}
			seen[v.Name] = struct{}{}
			vars = append(vars, v.Name)
		}
	}
	return vars
}

// Ground reports whether the goal has no variables, i.e. solving it
// answers a yes/no question.
func (g Goal) Ground() bool {
	return len(g.FreeVars()) == 0
}

// Formula converts the goal into a right-nested conjunction so it can
// be passed through the validator.
func (g Goal) Formula() Formula {
	if len(g) == 0 {
		return nil
	}
	f := Formula(g[len(g)-1])
	for i := len(g) - 2; i >= 0; i-- {
		f = And{L: g[i], R: f}
	}
	return f
}

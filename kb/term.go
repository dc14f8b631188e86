// Package kb implements a schema-constrained ground fact base with a
// structural formula validator and a deterministic conjunctive query
// engine. The knowledge base is built once (schema, then base facts,
// then augmentation facts) and is read-only while queries run.
package kb

import (
	"unicode"
	"unicode/utf8"
)

// Term is a single argument position in an atom: either a ground
// constant or a logical variable.
type Term interface {
	IsVariable() bool
	String() string
}

// Constant is a ground vocabulary identifier (lower_snake by convention,
// e.g. "google" or "personal_information").
type Constant struct {
	Value string
}

func (c Constant) IsVariable() bool { return false }
func (c Constant) String() string   { return c.Value }

// Var is a logical variable whose scope is the enclosing formula or goal.
type Var struct {
	Name string
}

func (v Var) IsVariable() bool { return true }
func (v Var) String() string   { return v.Name }

// IsVariableName reports whether an identifier denotes a variable.
// The fact files use the Prolog convention: an identifier starting with
// an upper-case letter or underscore is a variable, anything else is a
// constant. This keeps variables and constants syntactically disjoint.
func IsVariableName(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsUpper(r)
}

// NewTerm classifies an identifier into a Var or Constant according to
// IsVariableName.
func NewTerm(s string) Term {
	if IsVariableName(s) {
		return Var{Name: s}
	}
	return Constant{Value: s}
}

package kb

import (
	"strings"
	"time"

	"github.com/wbrown/privalog/kb/annotations"
)

// Substitution maps variable names to the constants they are bound to.
// It is built incrementally during resolution.
type Substitution map[string]string

// clone returns an independent copy so sibling candidates never share
// mutable state.
func (s Substitution) clone() Substitution {
	out := make(Substitution, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Result is the outcome of solving a goal. A ground goal reports Truth;
// a goal with free variables reports Columns (first-appearance order)
// and deduplicated Rows in derivation order.
type Result struct {
	Goal    Goal
	Columns []string
	Rows    [][]string
	Truth   bool
}

// Ground reports whether the result answers a yes/no question.
func (r *Result) Ground() bool {
	return len(r.Columns) == 0
}

// Values returns the single projected column for one-variable goals.
// Multi-column results return the first column.
func (r *Result) Values() []string {
	if len(r.Columns) == 0 {
		return nil
	}
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row[0]
	}
	return out
}

// Engine evaluates conjunctive goals against a fact store. Resolution
// is a depth-first enumeration of substitutions with facts tried in
// store insertion order, so output is reproducible across runs given
// the same fact list. Solving never mutates the store, and independent
// engines over the same store share no mutable state.
type Engine struct {
	store     *Store
	collector *annotations.Collector
}

// NewEngine creates an engine over a loaded store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store, collector: annotations.NewCollector(nil)}
}

// NewEngineWithHandler creates an engine that reports resolution events
// to the given handler.
func NewEngineWithHandler(store *Store, handler annotations.Handler) *Engine {
	return &Engine{store: store, collector: annotations.NewCollector(handler)}
}

// Solve finds all variable bindings for which every conjunct is
// simultaneously satisfied by facts in the store.
//
// Conjuncts are processed left to right over a worklist of partial
// substitutions. For each live substitution and each fact of the
// conjunct's predicate: constant positions must match exactly, free
// variable positions bind, and a variable bound earlier (or repeated
// within the conjunct) must agree with the fact's value or the
// candidate is dropped. Survivors of the last conjunct are projected
// onto the goal's free variables, deduplicated, first-seen order.
//
// A goal referencing an unregistered predicate is an error, never an
// empty result. An empty result for a registered goal is a legitimate
// answer, not an error.
func (e *Engine) Solve(goal Goal) (*Result, error) {
	start := time.Now()

	// Reject malformed goals up front so a missing predicate cannot be
	// confused with a legitimate empty answer.
	for _, atom := range goal {
		want, err := e.store.Schema().ArityOf(atom.Predicate)
		if err != nil {
			e.annotateError(start, err)
			return nil, err
		}
		if want != len(atom.Args) {
			err := &ArityMismatchError{Predicate: atom.Predicate, Want: want, Got: len(atom.Args)}
			e.annotateError(start, err)
			return nil, err
		}
	}

	if e.collector.Enabled() {
		e.collector.AddTiming(annotations.SolveInvoked, start, map[string]interface{}{
			"goal": goal.String(),
		})
	}

	worklist := []Substitution{{}}
	for _, atom := range goal {
		conjunctStart := time.Now()
		facts := e.store.FactsFor(atom.Predicate)

		var next []Substitution
		for _, sub := range worklist {
			for _, fact := range facts {
				if extended, ok := unify(atom, fact, sub); ok {
					next = append(next, extended)
				}
			}
		}
		worklist = next

		if e.collector.Enabled() {
			e.collector.AddTiming(annotations.SolveConjunct, conjunctStart, map[string]interface{}{
				"conjunct":            atom.String(),
				"facts.count":         len(facts),
				"substitutions.count": len(worklist),
			})
		}
		if len(worklist) == 0 {
			break
		}
	}

	result := project(goal, worklist)

	if e.collector.Enabled() {
		e.collector.AddTiming(annotations.SolveComplete, start, map[string]interface{}{
			"ground":     result.Ground(),
			"truth":      result.Truth,
			"rows.count": len(result.Rows),
		})
	}
	return result, nil
}

func (e *Engine) annotateError(start time.Time, err error) {
	if e.collector.Enabled() {
		e.collector.AddTiming(annotations.ErrorSchema, start, map[string]interface{}{
			"error": err,
		})
	}
}

// unify matches a conjunct's argument list against a fact's argument
// list under a base substitution. The base is cloned lazily: candidates
// that bind nothing share the parent map, which is safe because
// substitutions are never mutated after being placed on the worklist.
func unify(atom Atom, fact Fact, base Substitution) (Substitution, bool) {
	out := base
	cloned := false
	for i, t := range atom.Args {
		switch t := t.(type) {
		case Constant:
			if fact.Args[i] != t.Value {
				return nil, false
			}
		case Var:
			if bound, ok := out[t.Name]; ok {
				// Repeated variable: both occurrences must agree.
				if bound != fact.Args[i] {
					return nil, false
				}
				continue
			}
			if !cloned {
				out = out.clone()
				cloned = true
			}
			out[t.Name] = fact.Args[i]
		default:
			return nil, false
		}
	}
	return out, true
}

// project turns surviving substitutions into a Result: boolean truth
// for ground goals, deduplicated variable bindings otherwise.
func project(goal Goal, survivors []Substitution) *Result {
	result := &Result{Goal: goal, Columns: goal.FreeVars()}
	if len(result.Columns) == 0 {
		result.Truth = len(survivors) > 0
		return result
	}

	seen := make(map[string]struct{})
	for _, sub := range survivors {
		row := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			row[i] = sub[col]
		}
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Rows = append(result.Rows, row)
	}
	result.Truth = len(result.Rows) > 0
	return result
}

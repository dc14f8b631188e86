package kb

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wbrown/privalog/kb/annotations"
)

func solveStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(testRegistry(t))
	err := store.AddAll([]Fact{
		NewFact("collects", "google", "information"),
		NewFact("collects", "google", "personal_information"),
		NewFact("varies_by", "data_collection", "privacy_controls"),
		NewFact("stores_under_identifier", "google", "unique_identifier", "not_signed_in", "remember_preferences"),
		NewFact("retains", "google", "data", "retention_policy"),
		NewFact("allows_setting", "google", "delete"),
		NewFact("allows_setting", "google", "auto_delete"),
		NewFact("uses_for", "google", "provide_services"),
		NewFact("uses_for", "google", "improve_services"),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return store
}

func TestSolveSingleFreeVariable(t *testing.T) {
	engine := NewEngine(solveStore(t))

	result, err := engine.Solve(Goal{atom("collects", "google", "X")})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	// Store insertion order fixes result order.
	want := []string{"information", "personal_information"}
	if !reflect.DeepEqual(result.Values(), want) {
		t.Errorf("expected %v, got %v", want, result.Values())
	}
	if result.Ground() {
		t.Error("goal with a free variable is not ground")
	}
	if !result.Truth {
		t.Error("non-empty result should report truth")
	}
}

func TestSolveGroundGoal(t *testing.T) {
	engine := NewEngine(solveStore(t))

	result, err := engine.Solve(Goal{atom("varies_by", "data_collection", "privacy_controls")})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !result.Ground() || !result.Truth {
		t.Error("matching ground goal should be true")
	}

	result, err = engine.Solve(Goal{atom("varies_by", "data_collection", "legal")})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !result.Ground() || result.Truth {
		t.Error("non-matching ground goal should be false, not an error")
	}
}

func TestSolveProjectsBoundPosition(t *testing.T) {
	engine := NewEngine(solveStore(t))

	result, err := engine.Solve(Goal{
		atom("stores_under_identifier", "google", "unique_identifier", "not_signed_in", "Purpose"),
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	want := []string{"remember_preferences"}
	if !reflect.DeepEqual(result.Values(), want) {
		t.Errorf("expected %v, got %v", want, result.Values())
	}
}

func TestSolveConjunction(t *testing.T) {
	engine := NewEngine(solveStore(t))

	result, err := engine.Solve(Goal{
		atom("retains", "google", "data", "Policy"),
		atom("allows_setting", "google", "delete"),
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !reflect.DeepEqual(result.Values(), []string{"retention_policy"}) {
		t.Errorf("expected [retention_policy], got %v", result.Values())
	}
}

func TestSolveSharedVariableAcrossConjuncts(t *testing.T) {
	store := NewStore(testRegistry(t))
	// collects(google, X), uses_for(google, X): X must take the same
	// value in both conjuncts.
	err := store.AddAll([]Fact{
		NewFact("collects", "google", "information"),
		NewFact("collects", "google", "telemetry"),
		NewFact("uses_for", "google", "telemetry"),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	engine := NewEngine(store)
	result, err := engine.Solve(Goal{
		atom("collects", "google", "X"),
		atom("uses_for", "google", "X"),
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !reflect.DeepEqual(result.Values(), []string{"telemetry"}) {
		t.Errorf("expected [telemetry], got %v", result.Values())
	}
}

func TestSolveRepeatedVariableWithinConjunct(t *testing.T) {
	store := NewStore(testRegistry(t))
	// varies_by(X, X) must only unify when both positions agree.
	err := store.AddAll([]Fact{
		NewFact("varies_by", "data_collection", "privacy_controls"),
		NewFact("varies_by", "data_collection", "data_collection"),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	engine := NewEngine(store)
	result, err := engine.Solve(Goal{atom("varies_by", "X", "X")})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !reflect.DeepEqual(result.Values(), []string{"data_collection"}) {
		t.Errorf("expected [data_collection], got %v", result.Values())
	}
}

func TestSolveRepeatedVariableNoAgreement(t *testing.T) {
	store := NewStore(testRegistry(t))
	err := store.AddAll([]Fact{
		NewFact("varies_by", "data_collection", "privacy_controls"),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	engine := NewEngine(store)
	result, err := engine.Solve(Goal{atom("varies_by", "X", "X")})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Errorf("unequal positions must yield zero solutions, got %v", result.Rows)
	}
}

func TestSolveDeduplicatesProjection(t *testing.T) {
	engine := NewEngine(solveStore(t))

	// Y ranges over two allows_setting facts, but the projection of X
	// must stay duplicate-free in first-seen order.
	result, err := engine.Solve(Goal{
		atom("collects", "google", "X"),
		atom("allows_setting", "google", "Y"),
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(result.Columns) != 2 {
		t.Fatalf("expected columns [X Y], got %v", result.Columns)
	}
	if len(result.Rows) != 4 {
		t.Errorf("expected 4 distinct rows, got %d", len(result.Rows))
	}
	if !reflect.DeepEqual(result.Values(), []string{"information", "information", "personal_information", "personal_information"}) {
		t.Errorf("unexpected X projection order: %v", result.Values())
	}
}

func TestSolveUnknownPredicateIsError(t *testing.T) {
	engine := NewEngine(solveStore(t))

	_, err := engine.Solve(Goal{atom("no_such_pred", "a", "b")})
	if err == nil {
		t.Fatal("unknown predicate must be an error, not an empty result")
	}
	if !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("expected schema violation, got %v", err)
	}
}

func TestSolveGoalArityMismatchIsError(t *testing.T) {
	engine := NewEngine(solveStore(t))

	_, err := engine.Solve(Goal{atom("collects", "google")})
	if err == nil {
		t.Fatal("goal arity mismatch must be an error")
	}
	var mismatch *ArityMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected ArityMismatchError, got %T", err)
	}
}

func TestSolveDoesNotMutateStore(t *testing.T) {
	store := solveStore(t)
	before := store.Len()

	engine := NewEngine(store)
	for i := 0; i < 3; i++ {
		if _, err := engine.Solve(Goal{atom("collects", "google", "X")}); err != nil {
			t.Fatalf("solve failed: %v", err)
		}
	}
	if store.Len() != before {
		t.Error("solving must not mutate the store")
	}
}

func TestSolveRoundTripGroundConjunction(t *testing.T) {
	store := solveStore(t)
	engine := NewEngine(store)

	// A fully ground conjunction is true iff each conjunct is a stored
	// fact.
	result, err := engine.Solve(Goal{
		atom("retains", "google", "data", "retention_policy"),
		atom("allows_setting", "google", "delete"),
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !result.Truth {
		t.Error("present conjunction should be true")
	}

	result, err = engine.Solve(Goal{
		atom("retains", "google", "data", "retention_policy"),
		atom("allows_setting", "google", "export"),
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if result.Truth {
		t.Error("conjunction with an absent conjunct should be false")
	}
}

func TestSolveEmitsAnnotations(t *testing.T) {
	store := solveStore(t)

	var events []annotations.Event
	engine := NewEngineWithHandler(store, func(e annotations.Event) {
		events = append(events, e)
	})

	if _, err := engine.Solve(Goal{atom("collects", "google", "X")}); err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	var names []string
	for _, e := range events {
		names = append(names, e.Name)
	}
	want := []string{annotations.SolveInvoked, annotations.SolveConjunct, annotations.SolveComplete}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected events %v, got %v", want, names)
	}
}

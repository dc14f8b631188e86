package kb

import (
	"errors"
	"testing"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	sigs := []struct {
		name  string
		arity int
	}{
		{"collects", 2},
		{"varies_by", 2},
		{"uses_for", 2},
		{"retains", 3},
		{"allows_setting", 2},
		{"stores_under_identifier", 4},
	}
	for _, sig := range sigs {
		if err := reg.Register(sig.name, sig.arity); err != nil {
			t.Fatalf("register %s/%d: %v", sig.name, sig.arity, err)
		}
	}
	return reg
}

func TestStoreAddAndContains(t *testing.T) {
	store := NewStore(testRegistry(t))
	fact := NewFact("collects", "google", "information")

	if err := store.Add(fact); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !store.Contains(fact) {
		t.Error("store should contain the added fact")
	}
	if store.Contains(NewFact("collects", "google", "content")) {
		t.Error("store should not contain an absent fact")
	}
}

func TestStoreDuplicateIsIdempotent(t *testing.T) {
	store := NewStore(testRegistry(t))
	fact := NewFact("collects", "google", "information")

	if err := store.Add(fact); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add(fact); err != nil {
		t.Fatalf("duplicate add should be a no-op, got %v", err)
	}

	if got := len(store.FactsFor("collects")); got != 1 {
		t.Errorf("expected 1 fact after duplicate insert, got %d", got)
	}
	if store.Len() != 1 {
		t.Errorf("expected store length 1, got %d", store.Len())
	}
}

func TestStoreRejectsUnregisteredPredicate(t *testing.T) {
	store := NewStore(testRegistry(t))

	err := store.Add(NewFact("unknown_pred", "a"))
	if err == nil {
		t.Fatal("expected error for unregistered predicate")
	}
	if !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("expected schema violation, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("rejected fact must not enter the store")
	}
}

func TestStoreRejectsArityMismatch(t *testing.T) {
	store := NewStore(testRegistry(t))

	// collects/2 in the schema; a three-argument fact must be rejected
	// and never appear in a later query result.
	err := store.Add(NewFact("collects", "google", "information", "extra"))
	if err == nil {
		t.Fatal("expected arity mismatch error")
	}
	var mismatch *ArityMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ArityMismatchError, got %T", err)
	}
	if mismatch.Want != 2 || mismatch.Got != 3 {
		t.Errorf("expected want=2 got=3, have want=%d got=%d", mismatch.Want, mismatch.Got)
	}

	if len(store.FactsFor("collects")) != 0 {
		t.Error("rejected fact leaked into the store")
	}

	engine := NewEngine(store)
	result, err := engine.Solve(Goal{{Predicate: "collects", Args: []Term{Constant{"google"}, Var{"X"}}}})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Error("rejected fact must not surface in query results")
	}
}

func TestStoreInsertionOrder(t *testing.T) {
	store := NewStore(testRegistry(t))
	facts := []Fact{
		NewFact("collects", "google", "information"),
		NewFact("uses_for", "google", "provide_services"),
		NewFact("collects", "google", "personal_information"),
	}
	if err := store.AddAll(facts); err != nil {
		t.Fatalf("add all failed: %v", err)
	}

	collects := store.FactsFor("collects")
	if len(collects) != 2 {
		t.Fatalf("expected 2 collects facts, got %d", len(collects))
	}
	if collects[0].Args[1] != "information" || collects[1].Args[1] != "personal_information" {
		t.Errorf("per-predicate insertion order lost: %v", collects)
	}

	all := store.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 facts, got %d", len(all))
	}
	for i, f := range facts {
		if !all[i].Equal(f) {
			t.Errorf("global order lost at %d: %s", i, all[i])
		}
	}
}

func TestStoreAddAllStopsOnError(t *testing.T) {
	store := NewStore(testRegistry(t))
	err := store.AddAll([]Fact{
		NewFact("collects", "google", "information"),
		NewFact("bogus", "x"),
		NewFact("collects", "google", "content"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if store.Len() != 1 {
		t.Errorf("expected load to halt after first fact, got %d facts", store.Len())
	}
}

func TestStorePredicatesFirstFactOrder(t *testing.T) {
	store := NewStore(testRegistry(t))
	if err := store.AddAll([]Fact{
		NewFact("uses_for", "google", "provide_services"),
		NewFact("collects", "google", "information"),
		NewFact("uses_for", "google", "improve_services"),
	}); err != nil {
		t.Fatalf("add all failed: %v", err)
	}

	preds := store.Predicates()
	if len(preds) != 2 || preds[0] != "uses_for" || preds[1] != "collects" {
		t.Errorf("unexpected predicate order: %v", preds)
	}
}

func TestStoreCountByPredicate(t *testing.T) {
	store := NewStore(testRegistry(t))
	if err := store.AddAll([]Fact{
		NewFact("collects", "google", "information"),
		NewFact("collects", "google", "personal_information"),
		NewFact("uses_for", "google", "provide_services"),
	}); err != nil {
		t.Fatalf("add all failed: %v", err)
	}

	counts := store.CountByPredicate()
	if counts["collects"] != 2 || counts["uses_for"] != 1 {
		t.Errorf("unexpected census: %v", counts)
	}
}

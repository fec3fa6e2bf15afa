package ripple

import (
	"errors"
	"testing"
)

var errTest = errors.New("test")

func failure(id string) Failure {
	return Failure{CheckID: id, Err: errors.New(id)}
}

func TestFailureRing_NilSafe(t *testing.T) {
	var r *failureRing

	// All operations should be safe on nil
	r.push(failure("a"))
	r.clear()

	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestFailureRing_ZeroSize(t *testing.T) {
	if r := newFailureRing(0); r != nil {
		t.Error("expected nil ring for size 0")
	}
	if r := newFailureRing(-1); r != nil {
		t.Error("expected nil ring for negative size")
	}
}

func TestFailureRing_FillsWithoutWrapping(t *testing.T) {
	r := newFailureRing(3)
	r.push(failure("c1"))
	r.push(failure("c2"))

	got := r.all()
	if len(got) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(got))
	}
	if got[0].CheckID != "c1" || got[1].CheckID != "c2" {
		t.Errorf("expected oldest first, got %v", got)
	}
}

func TestFailureRing_WrapsAndEvictsOldest(t *testing.T) {
	r := newFailureRing(3)
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		r.push(failure(id))
	}

	got := r.all()
	if len(got) != 3 {
		t.Fatalf("expected 3 failures, got %d", len(got))
	}
	for i, want := range []string{"c3", "c4", "c5"} {
		if got[i].CheckID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].CheckID)
		}
	}
}

func TestFailureRing_Clear(t *testing.T) {
	r := newFailureRing(2)
	r.push(failure("c1"))
	r.clear()

	if got := r.all(); got != nil {
		t.Errorf("expected nil after clear, got %v", got)
	}

	r.push(failure("c2"))
	if got := r.all(); len(got) != 1 || got[0].CheckID != "c2" {
		t.Errorf("expected ring to be reusable after clear, got %v", got)
	}
}

func TestFailureRing_SizeOne(t *testing.T) {
	r := newFailureRing(1)
	r.push(failure("c1"))
	r.push(failure("c2"))

	got := r.all()
	if len(got) != 1 || got[0].CheckID != "c2" {
		t.Errorf("expected c2 to replace c1, got %v", got)
	}
}

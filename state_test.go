package ripple

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateDebouncing, "debouncing"},
		{StateChecking, "checking"},
		{StateStopped, "stopped"},
		{State(999), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_Values(t *testing.T) {
	// Verify iota ordering
	if StateIdle != 0 {
		t.Errorf("expected StateIdle=0, got %d", StateIdle)
	}
	if StateDebouncing != 1 {
		t.Errorf("expected StateDebouncing=1, got %d", StateDebouncing)
	}
	if StateChecking != 2 {
		t.Errorf("expected StateChecking=2, got %d", StateChecking)
	}
	if StateStopped != 3 {
		t.Errorf("expected StateStopped=3, got %d", StateStopped)
	}
}

func TestAvailability_String(t *testing.T) {
	tests := []struct {
		a    Availability
		want string
	}{
		{AvailabilityUnknown, "unknown"},
		{AvailabilityAvailable, "available"},
		{AvailabilityTaken, "taken"},
		{Availability(42), "invalid"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("Availability(%d).String() = %q, want %q", tt.a, got, tt.want)
		}
	}
}

func TestAvailability_OK(t *testing.T) {
	if !AvailabilityAvailable.OK() {
		t.Error("expected available to be OK")
	}
	if AvailabilityTaken.OK() {
		t.Error("expected taken not to be OK")
	}
	if AvailabilityUnknown.OK() {
		t.Error("expected unknown not to be OK")
	}
}

func TestAvailabilityOf(t *testing.T) {
	if got := availabilityOf(true, nil); got != AvailabilityAvailable {
		t.Errorf("expected available, got %s", got)
	}
	if got := availabilityOf(false, nil); got != AvailabilityTaken {
		t.Errorf("expected taken, got %s", got)
	}
	if got := availabilityOf(true, errTest); got != AvailabilityUnknown {
		t.Errorf("expected unknown on error, got %s", got)
	}
}

package main

import (
	"strings"
	"testing"

	"github.com/zoobzio/ripple"
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTerminalView_RendersChanges(t *testing.T) {
	out := &safeBuffer{}
	v := newTerminalView(newPrinter(out, false))

	v.ShowPasswordLength(false)
	v.ShowPasswordLength(false)
	v.ShowChecking(true)
	v.ShowChecking(false)
	v.ShowUsername(ripple.AvailabilityAvailable)

	got := lines(out.String())
	want := []string{
		"username ?  length ✗  characters ✗  match ✗  [create account disabled]",
		"username …  length ✗  characters ✗  match ✗  [create account disabled]",
		"username ?  length ✗  characters ✗  match ✗  [create account disabled]",
		"username ✓  length ✗  characters ✗  match ✗  [create account disabled]",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(got), out.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d:\nwant %q\ngot  %q", i, want[i], got[i])
		}
	}
}

func TestTerminalView_UsernameStates(t *testing.T) {
	tests := []struct {
		a    ripple.Availability
		want string
	}{
		{ripple.AvailabilityAvailable, "username ✓"},
		{ripple.AvailabilityTaken, "username ✗ taken"},
		{ripple.AvailabilityUnknown, "username ? unknown"},
	}
	for _, tt := range tests {
		out := &safeBuffer{}
		v := newTerminalView(newPrinter(out, false))
		v.ShowUsername(tt.a)

		if !strings.HasPrefix(out.String(), tt.want+"  ") {
			t.Errorf("%s: expected prefix %q, got %q", tt.a, tt.want, out.String())
		}
	}
}

func TestTerminalView_SubmitEnabled(t *testing.T) {
	out := &safeBuffer{}
	v := newTerminalView(newPrinter(out, false))
	v.ShowUsername(ripple.AvailabilityAvailable)
	v.ShowPasswordLength(true)
	v.ShowPasswordCharacters(true)
	v.ShowPasswordsMatch(true)
	v.SetSubmitEnabled(true)

	got := lines(out.String())
	if last := got[len(got)-1]; last != "username ✓  length ✓  characters ✓  match ✓  [create account]" {
		t.Errorf("unexpected final line %q", last)
	}
}

func TestTerminalView_Colors(t *testing.T) {
	out := &safeBuffer{}
	v := newTerminalView(newPrinter(out, true))

	v.ShowChecking(true)
	if !strings.Contains(out.String(), yellow+"username …"+reset) {
		t.Errorf("expected yellow checking indicator, got %q", out.String())
	}

	v.ShowChecking(false)
	v.ShowUsername(ripple.AvailabilityTaken)
	if !strings.Contains(out.String(), red+"username ✗ taken"+reset) {
		t.Errorf("expected red taken indicator, got %q", out.String())
	}

	v.ShowPasswordLength(true)
	if !strings.Contains(out.String(), green+"length ✓"+reset) {
		t.Errorf("expected green length indicator, got %q", out.String())
	}
}

func TestColorFor(t *testing.T) {
	if colorFor(true) != green {
		t.Error("expected green for valid")
	}
	if colorFor(false) != red {
		t.Error("expected red for invalid")
	}
}

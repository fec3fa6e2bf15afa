package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd_Short(t *testing.T) {
	cmd := versionCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != version {
		t.Errorf("expected %q, got %q", version, got)
	}
}

func TestVersionCmd_Full(t *testing.T) {
	cmd := versionCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Version:", "Commit:", "Go version:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestRunCmd_Flags(t *testing.T) {
	cmd := runCmd()
	for _, name := range []string{"debounce", "latency", "timeout", "reserved", "metrics", "tracing", "no-color"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
	if got := cmd.Flags().Lookup("debounce").DefValue; got != "500ms" {
		t.Errorf("expected default debounce 500ms, got %s", got)
	}
}

func TestRunCmd_Executes(t *testing.T) {
	cmd := runCmd()
	out := &safeBuffer{}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader("quit\n"))
	cmd.SetArgs([]string{"--debounce", "1ms", "--latency", "0s", "--no-color"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "availability is simulated") {
		t.Errorf("expected session output, got:\n%s", out.String())
	}
}

package main

import (
	"strings"

	"github.com/zoobzio/ripple"
)

// terminalView renders the form as one status line per visible change.
// It is only called from the event loop.
type terminalView struct {
	p *printer

	username    ripple.Availability
	hasUsername bool
	checking    bool
	length      bool
	characters  bool
	match       bool
	submit      bool

	last string
}

func newTerminalView(p *printer) *terminalView {
	return &terminalView{p: p}
}

func (v *terminalView) ShowUsername(a ripple.Availability) {
	v.username, v.hasUsername = a, true
	v.render()
}

func (v *terminalView) ShowChecking(busy bool) {
	v.checking = busy
	v.render()
}

func (v *terminalView) ShowPasswordLength(ok bool) {
	v.length = ok
	v.render()
}

func (v *terminalView) ShowPasswordCharacters(ok bool) {
	v.characters = ok
	v.render()
}

func (v *terminalView) ShowPasswordsMatch(ok bool) {
	v.match = ok
	v.render()
}

func (v *terminalView) SetSubmitEnabled(enabled bool) {
	v.submit = enabled
	v.render()
}

// colorFor maps a field's validity onto its indicator color.
func colorFor(ok bool) string {
	if ok {
		return green
	}
	return red
}

func (v *terminalView) mark(label string, ok bool) string {
	sym := "✗"
	if ok {
		sym = "✓"
	}
	return v.p.paint(colorFor(ok), label+" "+sym)
}

func (v *terminalView) usernameField() string {
	switch {
	case v.checking:
		return v.p.paint(yellow, "username …")
	case !v.hasUsername:
		return "username ?"
	case v.username == ripple.AvailabilityUnknown:
		return v.p.paint(red, "username ? unknown")
	case v.username == ripple.AvailabilityTaken:
		return v.p.paint(red, "username ✗ taken")
	default:
		return v.mark("username", true)
	}
}

func (v *terminalView) submitField() string {
	if v.submit {
		return v.p.paint(green, "[create account]")
	}
	return "[create account disabled]"
}

// render prints the status line if it differs from the previous one.
func (v *terminalView) render() {
	line := strings.Join([]string{
		v.usernameField(),
		v.mark("length", v.length),
		v.mark("characters", v.characters),
		v.mark("match", v.match),
		v.submitField(),
	}, "  ")
	if line == v.last {
		return
	}
	v.last = line
	v.p.println(line)
}

var _ ripple.View = (*terminalView)(nil)

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/ripple"
	"github.com/zoobzio/ripple/pkg/file"
	"github.com/zoobzio/ripple/pkg/metrics"
	"github.com/zoobzio/ripple/pkg/registry"
)

// pollInterval is how often wait checks whether the validator has settled.
const pollInterval = 10 * time.Millisecond

type sessionConfig struct {
	debounce time.Duration
	latency  time.Duration
	timeout  time.Duration
	reserved []string
	metrics  bool
	tracing  bool
	color    bool

	clock clockz.Clock

	// coin overrides the simulated checker's answer.
	coin func() bool
}

// command is one parsed input line.
type command struct {
	name string
	arg  string
}

var errUnknownCommand = errors.New("unknown command")

// parseCommand splits a line into a command name and its argument. The
// argument is everything after the first space, so field text may itself
// contain spaces.
func parseCommand(line string) (command, error) {
	line = strings.TrimRight(line, "\r\n")
	name, arg, _ := strings.Cut(line, " ")
	switch name {
	case "username", "password", "confirm":
		return command{name: name, arg: arg}, nil
	case "wait", "submit", "help", "quit":
		if strings.TrimSpace(arg) != "" {
			return command{}, fmt.Errorf("%s takes no argument", name)
		}
		return command{name: name}, nil
	case "":
		return command{}, nil
	default:
		return command{}, fmt.Errorf("%w: %q", errUnknownCommand, name)
	}
}

// session is one run of the form against a checker.
type session struct {
	cfg  sessionConfig
	p    *printer
	loop *ripple.Loop
	form *ripple.Form
}

// runSession reads commands from in until EOF or quit, then waits for
// pending checks and optionally prints metrics.
func runSession(ctx context.Context, cfg sessionConfig, in io.Reader, out io.Writer) error {
	if cfg.clock == nil {
		cfg.clock = clockz.RealClock
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := newPrinter(out, cfg.color)
	loop := ripple.NewLoop(cfg.clock)
	go loop.Run(ctx)

	checker, err := newChecker(ctx, cfg, p, loop)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	var opts []ripple.Option[string]
	if cfg.tracing {
		opts = append(opts, ripple.WithTracing[string](nil))
	}
	form := ripple.NewForm(checker, opts...).
		Scheduler(loop).
		Debounce(cfg.debounce).
		Timeout(cfg.timeout).
		Metrics(metrics.New(metrics.WithRegistry(reg)))
	defer form.Close()

	s := &session{cfg: cfg, p: p, loop: loop, form: form}

	view := newTerminalView(p)
	defer runtime.KeepAlive(view)
	if err := s.onLoop(ctx, func() error {
		ripple.Bind(form, view)
		form.Own(ripple.Filter(form.AllValid(), func(ok bool) bool { return ok }).Subscribe(func(bool) {
			p.info("all fields valid, submit to create the account")
		}))
		return form.Start(ctx)
	}); err != nil {
		return err
	}

	if err := s.read(ctx, in); err != nil {
		return err
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	if cfg.metrics {
		return dumpMetrics(p, reg)
	}
	return nil
}

// newChecker returns the registry checker when reserved files are
// configured, and the simulated checker otherwise.
func newChecker(ctx context.Context, cfg sessionConfig, p *printer, loop *ripple.Loop) (ripple.Checker[string], error) {
	if len(cfg.reserved) == 0 {
		c := newSimulatedChecker(cfg.clock, cfg.latency)
		if cfg.coin != nil {
			c.coin = cfg.coin
		}
		p.warn("no reserved usernames file, availability is simulated")
		return c, nil
	}

	reg := registry.New().OnApply(func(size int) {
		loop.Dispatch(func() { p.info("loaded %d reserved usernames", size) })
	})
	for _, path := range cfg.reserved {
		reg.Source(file.New(path), ripple.CodecForPath(path))
	}
	if err := reg.Start(ctx); err != nil {
		return nil, fmt.Errorf("load reserved usernames: %w", err)
	}
	return reg, nil
}

// onLoop runs fn on the event loop and waits for it.
func (s *session) onLoop(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	s.loop.Dispatch(func() { done <- fn() })
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *session) read(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			s.p.errorMsg("%v", err)
			continue
		}

		switch cmd.name {
		case "":
			continue
		case "quit":
			return nil
		case "help":
			s.help()
			continue
		case "wait":
			if err := s.wait(ctx); err != nil {
				return err
			}
			continue
		}

		if err := s.onLoop(ctx, func() error {
			s.apply(ctx, cmd)
			return nil
		}); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// apply executes an edit or submit. Runs on the event loop.
func (s *session) apply(ctx context.Context, cmd command) {
	switch cmd.name {
	case "username":
		s.form.OnUsernameChanged(cmd.arg)
	case "password":
		s.form.OnPasswordChanged(cmd.arg)
	case "confirm":
		s.form.OnPasswordConfirmedChanged(cmd.arg)
	case "submit":
		creds, err := s.form.Submit(ctx)
		if err != nil {
			s.p.errorMsg("cannot create account: %v", err)
			return
		}
		s.p.success("account created for %s", creds.Username)
	}
}

// wait blocks until the username validator has no pending timer or check.
func (s *session) wait(ctx context.Context) error {
	// Edits queued on the loop must land before the state means anything.
	if err := s.onLoop(ctx, func() error { return nil }); err != nil {
		return err
	}
	v := s.form.Validator()
	for {
		switch v.State() {
		case ripple.StateIdle, ripple.StateStopped:
			return nil
		}
		timer := s.cfg.clock.NewTimer(pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C():
		}
	}
}

func (s *session) help() {
	for _, line := range []string{
		"username <text>   set the username field",
		"password <text>   set the password field",
		"confirm <text>    set the password confirmation field",
		"wait              wait for pending availability checks",
		"submit            create the account",
		"quit              exit",
	} {
		s.p.info("%s", line)
	}
}

// dumpMetrics prints every gathered series as name{labels} value.
func dumpMetrics(p *printer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetGauge() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetGauge().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%g", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)

	p.info("metrics:")
	for _, line := range lines {
		p.info("  %s", line)
	}
	return nil
}

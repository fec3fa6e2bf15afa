package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Reactive form validation in the terminal",
		Long: `Ripple drives an account creation form from the terminal.

Each field is validated as you type:

  • Username availability is checked after a quiet period
  • Password length and character classes update immediately
  • The create button is enabled only when every field is valid`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

const (
	green  = "\033[32m"
	red    = "\033[31m"
	yellow = "\033[33m"
	reset  = "\033[0m"
)

// printer writes CLI messages. Writes are serialized so the event loop and
// the input reader can share one output.
type printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: w, color: color}
}

// paint wraps s in an ANSI color when color output is enabled.
func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + reset
}

func (p *printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

// success prints a success message.
func (p *printer) success(format string, args ...any) {
	p.println(p.paint(green, "✓") + " " + fmt.Sprintf(format, args...))
}

// info prints an info message.
func (p *printer) info(format string, args ...any) {
	p.println("  " + fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (p *printer) warn(format string, args ...any) {
	p.println(p.paint(yellow, "⚠") + " " + fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func (p *printer) errorMsg(format string, args ...any) {
	p.println(p.paint(red, "✗") + " " + fmt.Sprintf(format, args...))
}

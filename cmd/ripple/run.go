package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/ripple"
)

func runCmd() *cobra.Command {
	cfg := sessionConfig{clock: clockz.RealClock}
	var noColor bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill in the account creation form",
		Long: `Read form edits from standard input, one per line, and print the
form's status after every visible change.

Commands:
  username <text>   set the username field
  password <text>   set the password field
  confirm <text>    set the password confirmation field
  wait              wait for pending availability checks
  submit            create the account
  help              list commands
  quit              exit

Without --reserved, availability is simulated: each check takes
--latency and returns a random answer.

Examples:
  ripple run
  ripple run --reserved reserved.yaml --debounce 300ms
  ripple run -r staff.json -r brands.yaml
  printf 'username alice\nwait\n' | ripple run --metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.color = !noColor
			return runSession(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&cfg.debounce, "debounce", ripple.DefaultDebounce, "Quiet period before the username is checked")
	flags.DurationVar(&cfg.latency, "latency", time.Second, "Latency of the simulated availability check")
	flags.DurationVar(&cfg.timeout, "timeout", 3*time.Second, "Maximum duration of an availability check (0 disables)")
	flags.StringSliceVarP(&cfg.reserved, "reserved", "r", nil, "JSON or YAML files of reserved usernames, reloaded on change (repeatable)")
	flags.BoolVar(&cfg.metrics, "metrics", false, "Print validator metrics on exit")
	flags.BoolVar(&cfg.tracing, "tracing", false, "Trace availability checks with the global OpenTelemetry provider")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

type globalOptions struct {
	logLevel string
	logger   zerolog.Logger
}

// NewRootCmd builds the mgun command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:     "mgun",
		Short:   "Call HTTP APIs by spelling out their paths",
		Version: version,
		Long: `mgun builds request URLs from a chain of path tokens and sends them
with the verb that ends the chain:

  mgun call --url https://httpbin.org anything users 1 get -q q=12

Clients with default headers can be defined in a JSON or YAML file and
selected with --config and --client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newCallCmd(opts))
	cmd.AddCommand(newURLCmd(opts))
	cmd.AddCommand(newClientsCmd(opts))
	return cmd
}

// Execute runs the root command with os.Args and prints any error to stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

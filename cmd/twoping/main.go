package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/irctrakz/twoping/pkg/cli"
	"github.com/irctrakz/twoping/pkg/config"
	"github.com/irctrakz/twoping/pkg/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	if err := setupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "twoping: %v\n", err)
		os.Exit(exitFailure)
	}
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:], handoff))
}

// setupLogging applies the environment toggles that exist before any
// flag is parsed: TWOPING_LOG_FILE and TWOPING_LOG_FORMAT.
func setupLogging() error {
	if strings.ToLower(strings.TrimSpace(os.Getenv("TWOPING_LOG_FORMAT"))) == "json" {
		logging.SetFormatter(&logrus.JSONFormatter{})
	}
	if path := strings.TrimSpace(os.Getenv("TWOPING_LOG_FILE")); path != "" {
		if err := logging.EnableFileLogging(filepath.Dir(path), filepath.Base(path), 10, 3, 7); err != nil {
			return fmt.Errorf("failed to enable file logging: %w", err)
		}
	}
	return nil
}

// run parses args, builds the configuration and passes it to next. It
// returns the process exit code.
func run(stdout, stderr io.Writer, args []string, next func(config.Config) error) int {
	cmd, err := newRootCmd(cli.DefaultSchema(), next)
	if err != nil {
		fmt.Fprintf(stderr, "twoping: %v\n", err)
		return exitFailure
	}
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err = cmd.Execute()

	var usageErr *cli.UsageError
	var validationErr *config.ValidationError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrHelpRequested):
		if err := cmd.Help(); err != nil {
			fmt.Fprintf(stderr, "twoping: %v\n", err)
			return exitFailure
		}
		return exitOK
	case errors.As(err, &usageErr):
		fmt.Fprint(stderr, cmd.UsageString())
		fmt.Fprintf(stderr, "twoping: error: %v\n", err)
		return exitUsage
	case errors.As(err, &validationErr):
		fmt.Fprintf(stderr, "twoping: error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "twoping: %v\n", err)
		return exitFailure
	}
}

// newRootCmd builds the command. cobra renders help from the registered
// flags, but parsing is left to cli.Parse so the command and the library
// share one path.
func newRootCmd(schema cli.Schema, next func(config.Config) error) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:                "twoping [flags] [host]",
		Short:              fmt.Sprintf("2ping (%s)", version),
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := cli.Parse(schema, args)
			switch {
			case errors.Is(err, cli.ErrHelp):
				return cmd.Help()
			case errors.Is(err, cli.ErrVersion):
				_, err = fmt.Fprintln(cmd.OutOrStdout(), version)
				return err
			case err != nil:
				return err
			}
			cfg, err := config.Build(fields)
			if err != nil {
				return err
			}
			return next(cfg)
		},
	}
	if err := schema.Register(cmd.Flags()); err != nil {
		return nil, err
	}
	return cmd, nil
}

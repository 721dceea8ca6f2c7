// Command commitcoach analyzes personal commit history into a style
// profile and coaches draft commit messages against it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/kalambet/commitcoach/internal/config"
)

var version = "dev"

var noColor bool

// usageError marks errors caused by how the command was invoked rather
// than by what it did; they exit with status 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	if err := run(); err != nil {
		printError("%v", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		buildProfile bool
		coachMode    bool
		insights     bool
		feedback     string
	)

	rootCmd := &cobra.Command{
		Use:   "commitcoach [flags] [message...]",
		Short: "Commit style profiling and message coaching",
		Long: `commitcoach learns how you write commit messages and coaches new ones.

Examples:
  commitcoach --build-profile
  commitcoach --coach "fix stuff"
  commitcoach --coach
  commitcoach --insights
  commitcoach --feedback good`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := 0
			for _, on := range []bool{buildProfile, coachMode, insights, feedback != ""} {
				if on {
					ops++
				}
			}
			if ops != 1 {
				return usageError{msg: "exactly one of --build-profile, --coach, --insights, or --feedback is required"}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg.Log.Level)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := newApp(cfg)
			switch {
			case buildProfile:
				return app.buildProfile(ctx)
			case coachMode:
				return app.coach(ctx, strings.Join(args, " "))
			case insights:
				return app.insights(ctx)
			default:
				return app.feedback(ctx, feedback)
			}
		},
	}

	rootCmd.Flags().BoolVar(&buildProfile, "build-profile", false, "scan dev paths and rebuild the style profile")
	rootCmd.Flags().BoolVar(&coachMode, "coach", false, "coach a draft commit message (message as args, empty to synthesize)")
	rootCmd.Flags().BoolVar(&insights, "insights", false, "show the learned style profile and recent sessions")
	rootCmd.Flags().StringVar(&feedback, "feedback", "", "grade the last coaching session: good or bad")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd.Execute()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "config",
		Short:         "Show or update configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			for _, k := range config.ShowAll(cfg) {
				fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.SetKey(key, value); err != nil {
				return usageError{msg: fmt.Sprintf("%v (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))}
			}
			printSuccess("Set %s = %s", key, value)
			return nil
		},
	})

	return cmd
}

func setupLogging(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   lvl,
		NoColor: noColor,
	})))
}

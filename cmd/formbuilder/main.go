// Command formbuilder generates, renders and previews forms described by
// table schema files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pthm/formbuilder"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// app holds the state shared by the subcommands once the persistent flags
// are parsed.
type app struct {
	configPath string
	verbose    bool

	logger   *slog.Logger
	registry *prometheus.Registry
	factory  *formbuilder.Factory
	settings *settings
}

func main() {
	if err := rootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formbuilder",
		Short: "Build HTML forms from table schemas",
		Long: `formbuilder turns table schema files (*.form.yaml) into HTML forms.

It can generate Go code that builds the forms, render a form to stdout,
or serve a preview that validates submissions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML file with option overrides and decorators")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		generateCmd(a),
		cleanCmd(a),
		renderCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return cmd
}

func (a *app) setup() error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := loadSettings(a.configPath)
	if err != nil {
		return err
	}
	a.settings = s
	a.registry = prometheus.NewRegistry()

	factory, err := s.factory(a.logger, a.registry)
	if err != nil {
		return err
	}
	a.factory = factory
	return nil
}

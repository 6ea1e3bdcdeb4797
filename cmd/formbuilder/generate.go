package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/formbuilder/lib/generator"
)

func generateCmd(a *app) *cobra.Command {
	var opts generator.Options

	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Generate Go code for schema files",
		Long: `Generate writes a *_form.go file next to every *.form.yaml schema.

Patterns are schema files, directories, or directories followed by /...
to include subdirectories. The default is ./...`,
		Example: `  formbuilder generate ./...
  formbuilder generate --dry-run ./models
  formbuilder generate --package forms models/user.form.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			opts.Out = cmd.OutOrStdout()
			a.logger.Debug("generating", "patterns", args, "dry_run", opts.DryRun)
			return generator.New(opts).Generate(cmd.Context(), args...)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would be generated without writing files")
	cmd.Flags().StringVar(&opts.Package, "package", "", "Package name of the generated files (default: directory name)")
	cmd.Flags().IntVarP(&opts.Concurrency, "jobs", "j", 4, "Number of schemas processed at once")
	return cmd
}

func cleanCmd(a *app) *cobra.Command {
	var opts generator.Options

	cmd := &cobra.Command{
		Use:   "clean [patterns...]",
		Short: "Remove generated *_form.go files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			opts.Out = cmd.OutOrStdout()
			return generator.New(opts).Clean(args...)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would be removed without deleting files")
	return cmd
}

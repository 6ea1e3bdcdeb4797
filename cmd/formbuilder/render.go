package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/formbuilder/lib/generator"
)

func renderCmd(a *app) *cobra.Command {
	var (
		indent     bool
		decorators []string
	)

	cmd := &cobra.Command{
		Use:   "render <schema>",
		Short: "Render the form of a schema file as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := generator.Load(args[0])
			if err != nil {
				return err
			}
			form, err := generator.Build(a.factory, s)
			if err != nil {
				return err
			}
			if indent {
				decorators = append(decorators, "indent")
			}
			if err := a.settings.decorate(a.factory, form, decorators...); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), form.HTML())
			return err
		},
	}

	cmd.Flags().BoolVar(&indent, "indent", false, "Indent the HTML output")
	cmd.Flags().StringSliceVarP(&decorators, "decorator", "d", nil, "Decorators to attach (tidy, indent, bootstrap, metrics)")
	return cmd
}

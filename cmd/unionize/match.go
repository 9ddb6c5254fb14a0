package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/reoring/unionize"
	"github.com/reoring/unionize/internal/exprcase"
	"github.com/spf13/cobra"
)

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var (
		cases []string
		def   string
	)
	cmd := &cobra.Command{
		Use:   "match --case tag=expr... [--default expr] [file]",
		Short: "Evaluate an expression per variant, chosen by its tag",
		Long: `match compiles one expression per tag and prints the result for every variant.
Expressions see "value" (the payload), "tag", and "fields" (the payload fields when it is an object).
Every tag needs a case unless --default is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bundle()
			if err != nil {
				return err
			}
			specs := make([]exprcase.Spec, 0, len(cases))
			for _, c := range cases {
				s, err := exprcase.Parse(c)
				if err != nil {
					return err
				}
				specs = append(specs, s)
			}
			compiled, err := exprcase.Compile(b, specs, def)
			if err != nil {
				return err
			}
			m, err := unionize.Match(b, compiled...)
			if err != nil {
				return err
			}
			opts.logger().Debug("matcher built", "cases", len(specs), "default", def != "")

			r, err := input(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()

			failed := 0
			err = eachVariant(r, func(i int, v unionize.Variant) error {
				res, err := m.Apply(v)
				if err == nil {
					err = res.Err
				}
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%d\t%s\n", i, color.YellowString("%v", err))
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), res.Value)
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d variant(s) failed to match", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&cases, "case", "c", nil, "tag=expression (repeatable)")
	cmd.Flags().StringVarP(&def, "default", "d", "", "expression for tags without a case")
	return cmd
}

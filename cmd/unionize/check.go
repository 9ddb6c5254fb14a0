package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/reoring/unionize"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Report the tag of each variant and whether it belongs to the union",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bundle()
			if err != nil {
				return err
			}
			r, err := input(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			preds := b.Predicates()
			bad := 0
			err = eachVariant(r, func(i int, v unionize.Variant) error {
				tag, ok := b.TagOf(v)
				if !ok {
					bad++
					fmt.Fprintf(out, "%d\t-\t%s\n", i, color.RedString("missing"))
					return nil
				}
				if is, member := preds[tag]; member && is(v) {
					fmt.Fprintf(out, "%d\t%s\t%s\n", i, tag, color.GreenString("ok"))
					return nil
				}
				bad++
				fmt.Fprintf(out, "%d\t%s\t%s\n", i, tag, color.RedString("unknown"))
				return nil
			})
			if err != nil {
				return err
			}
			if bad > 0 {
				return fmt.Errorf("%d variant(s) are not members of the union", bad)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/reoring/unionize"
	"github.com/spf13/cobra"
)

func newCastCmd(opts *rootOptions) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "cast --tag T [file]",
		Short: "Print the payload of each variant carrying tag T",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bundle()
			if err != nil {
				return err
			}
			if !b.Has(tag) {
				return fmt.Errorf("tag %q is not in the union (have %v)", tag, b.Tags())
			}
			r, err := input(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()

			failed := 0
			err = eachVariant(r, func(i int, v unionize.Variant) error {
				p, err := b.As(tag, v)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%d\t%s\n", i, color.YellowString("%v", err))
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d variant(s) could not be cast to %q", failed, tag)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "tag to narrow to")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}

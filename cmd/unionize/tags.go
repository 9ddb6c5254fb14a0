package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the union's tags and representation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bundle()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			value := b.ValueField()
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(out, "mode: %s\ntag: %s\nvalue: %s\n", b.Mode(), b.TagField(), value)
			for _, t := range b.Tags() {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}

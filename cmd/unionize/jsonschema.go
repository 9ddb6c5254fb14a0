package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newJSONSchemaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the union as a JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bundle()
			if err != nil {
				return err
			}
			s, err := b.JSONSchema()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

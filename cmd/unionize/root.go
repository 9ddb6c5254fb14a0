package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/reoring/unionize"
	"github.com/reoring/unionize/internal/logging"
	"github.com/reoring/unionize/schemafile"
	"github.com/spf13/cobra"
)

// Version is the CLI version.
const Version = "0.1.0"

type rootOptions struct {
	schema  string
	verbose bool
	color   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "unionize",
		Short:         "Inspect tagged-union values against a schema file",
		Long:          `unionize builds a tagged union from a YAML schema file and checks, casts, or matches JSON variants read from a file or stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.applyColor(cmd.OutOrStdout())
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.schema, "schema", "s", "", "schema file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.color, "color", "auto", "colorize output: auto, always or never")

	cmd.AddCommand(
		newTagsCmd(opts),
		newCheckCmd(opts),
		newCastCmd(opts),
		newMatchCmd(opts),
		newJSONSchemaCmd(opts),
		newVersionCmd(),
	)
	wrapErrors(cmd)
	return cmd
}

// wrapErrors reports RunE errors on stderr in red for every subcommand.
func wrapErrors(root *cobra.Command) {
	for _, c := range root.Commands() {
		run := c.RunE
		if run == nil {
			continue
		}
		c.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("error: %v", err))
			}
			return err
		}
	}
}

// applyColor decides whether status output is colored. auto colors only a
// terminal and honors NO_COLOR.
func (o *rootOptions) applyColor(w io.Writer) error {
	switch o.color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "auto":
		f, ok := w.(*os.File)
		color.NoColor = !ok || !isatty.IsTerminal(f.Fd()) || os.Getenv("NO_COLOR") != ""
	default:
		return fmt.Errorf("--color must be auto, always or never, got %q", o.color)
	}
	return nil
}

func (o *rootOptions) logger() *slog.Logger {
	if o.verbose {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// bundle loads the schema file and builds its bundle.
func (o *rootOptions) bundle() (*unionize.Bundle, error) {
	if o.schema == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	log := o.logger()
	f, err := schemafile.LoadFile(o.schema)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", o.schema, err)
	}
	log.Debug("schema loaded", "path", o.schema, "cases", len(f.Cases))
	b, err := f.Build(unionize.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", o.schema, err)
	}
	return b, nil
}

// input opens the first argument, or stdin when there is none or it is "-".
func input(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

// eachVariant decodes a stream of JSON objects and calls fn for each.
func eachVariant(r io.Reader, fn func(i int, v unionize.Variant) error) error {
	dec := json.NewDecoder(r)
	for i := 0; ; i++ {
		var v unionize.Variant
		if err := dec.Decode(&v); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("variant %d: %w", i, err)
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

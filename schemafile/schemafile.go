// Package schemafile loads union schemas from YAML documents.
//
// A schema file names the discriminant and (optionally) the payload field,
// then lists the cases in order with a payload kind each:
//
//	tag: kind
//	value: data
//	cases:
//	  circle: object
//	  label: string
//	  none: empty
//
// Omitting value selects the merged representation, which only accepts
// object and empty cases. JSON documents are valid YAML and load the same
// way, but case order then follows the document text.
package schemafile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/reoring/unionize"
	"github.com/reoring/unionize/i18n"
	"gopkg.in/yaml.v3"
)

// CodeInvalidSchemaFile is the issue code for malformed schema documents.
const CodeInvalidSchemaFile = "invalid_schema_file"

// Kinds maps payload kind names to the Go types used for Dynamic entries.
var Kinds = map[string]reflect.Type{
	"object":  reflect.TypeOf(unionize.Fields(nil)),
	"string":  reflect.TypeOf(""),
	"number":  reflect.TypeOf(float64(0)),
	"integer": reflect.TypeOf(int64(0)),
	"bool":    reflect.TypeOf(false),
	"array":   reflect.TypeOf([]any(nil)),
	"empty":   reflect.TypeOf(struct{}{}),
	"any":     reflect.TypeOf((*any)(nil)).Elem(),
}

// Case is one declared tag.
type Case struct {
	Tag  string
	Kind string
	Line int
}

// File is a parsed schema document.
type File struct {
	Tag   string
	Value string
	Cases []Case
}

// document mirrors the YAML layout; cases stay a node to keep their order.
type document struct {
	Tag   string    `yaml:"tag"`
	Value string    `yaml:"value"`
	Cases yaml.Node `yaml:"cases"`
}

// LoadFile reads a schema file from disk.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load parses a single schema document.
func Load(r io.Reader) (*File, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, issue("/", "empty document")
		}
		return nil, unionize.Issues{{Path: "/", Code: CodeInvalidSchemaFile, Message: i18n.T(CodeInvalidSchemaFile, nil), Hint: err.Error(), Cause: err}}
	}
	out := &File{Tag: doc.Tag, Value: doc.Value}
	if doc.Cases.Kind == 0 {
		return nil, issue("/cases", "cases missing")
	}
	if doc.Cases.Kind != yaml.MappingNode {
		return nil, issue("/cases", fmt.Sprintf("cases must be a mapping (line %d)", doc.Cases.Line))
	}
	var iss unionize.Issues
	first := map[string]int{}
	for i := 0; i+1 < len(doc.Cases.Content); i += 2 {
		k, v := doc.Cases.Content[i], doc.Cases.Content[i+1]
		path := "/cases/" + escape(k.Value)
		if line, dup := first[k.Value]; dup {
			iss = append(iss, issue(path, fmt.Sprintf("duplicate case %q at line %d (first at line %d)", k.Value, k.Line, line))...)
			continue
		}
		first[k.Value] = k.Line
		if v.Kind != yaml.ScalarNode {
			iss = append(iss, issue(path, fmt.Sprintf("kind must be a scalar (line %d)", v.Line))...)
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(v.Value))
		if _, ok := Kinds[kind]; !ok {
			iss = append(iss, issue(path, fmt.Sprintf("unknown kind %q (line %d)", v.Value, v.Line))...)
			continue
		}
		out.Cases = append(out.Cases, Case{Tag: k.Value, Kind: kind, Line: k.Line})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// Schema returns the declared cases as Dynamic entries.
func (f *File) Schema() unionize.Schema {
	parts := make([]unionize.Part, 0, len(f.Cases))
	for _, c := range f.Cases {
		parts = append(parts, unionize.Dynamic(c.Tag, Kinds[c.Kind]))
	}
	return unionize.Record(parts...)
}

// Options returns the build options the file declares. extra options are
// appended, so callers can add a logger.
func (f *File) Options(extra ...unionize.Option) []unionize.Option {
	var opts []unionize.Option
	if f.Tag != "" {
		opts = append(opts, unionize.WithTag(f.Tag))
	}
	if f.Value != "" {
		opts = append(opts, unionize.WithValue(f.Value))
	}
	return append(opts, extra...)
}

// Build builds the bundle the file describes.
func (f *File) Build(extra ...unionize.Option) (*unionize.Bundle, error) {
	return unionize.Build(f.Schema(), f.Options(extra...)...)
}

func issue(path, hint string) unionize.Issues {
	return unionize.Issues{{Path: path, Code: CodeInvalidSchemaFile, Message: i18n.T(CodeInvalidSchemaFile, nil), Hint: hint}}
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

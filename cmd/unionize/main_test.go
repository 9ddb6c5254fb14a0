package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapesYAML = `tag: kind
value: data
cases:
  circle: object
  label: string
  none: empty
`

const variants = `{"kind":"circle","data":{"r":2}}
{"kind":"label","data":"hi"}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shapes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shapesYAML), 0o644))
	return path
}

// run executes the CLI in-process and returns stdout, stderr and the error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTags(t *testing.T) {
	out, _, err := run(t, "", "tags", "-s", writeSchema(t))
	require.NoError(t, err)
	assert.Equal(t, "mode: nested\ntag: kind\nvalue: data\ncircle\nlabel\nnone\n", out)
}

func TestCheck(t *testing.T) {
	s := writeSchema(t)
	out, _, err := run(t, variants, "check", "-s", s)
	require.NoError(t, err)
	assert.Equal(t, "0\tcircle\tok\n1\tlabel\tok\n", out)

	out, stderr, err := run(t, variants+`{"kind":"zzz"}`+"\n"+`{"data":1}`, "check", "-s", s)
	require.Error(t, err)
	assert.Contains(t, out, "2\tzzz\tunknown\n")
	assert.Contains(t, out, "3\t-\tmissing\n")
	assert.Contains(t, stderr, "error: 2 variant(s) are not members of the union")
}

func TestCast(t *testing.T) {
	s := writeSchema(t)
	out, stderr, err := run(t, variants, "cast", "-s", s, "--tag", "label")
	require.Error(t, err)
	assert.Equal(t, "\"hi\"\n", out)
	assert.Contains(t, stderr, `0	unionize:`)
	assert.Contains(t, stderr, "could not be cast")

	_, _, err = run(t, variants, "cast", "-s", s, "--tag", "square")
	assert.ErrorContains(t, err, `tag "square" is not in the union`)
}

func TestCast_FromFile(t *testing.T) {
	s := writeSchema(t)
	in := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"kind":"circle","data":{"r":2}}`), 0o644))
	out, _, err := run(t, "", "cast", "-s", s, "-t", "circle", in)
	require.NoError(t, err)
	assert.Equal(t, "{\"r\":2}\n", out)
}

func TestMatch(t *testing.T) {
	s := writeSchema(t)
	out, _, err := run(t, variants, "match", "-s", s,
		"-c", "circle=fields.r * 2",
		"-c", "label=value",
		"-c", "none=0",
	)
	require.NoError(t, err)
	assert.Equal(t, "4\n\"hi\"\n", out)

	out, _, err = run(t, variants, "match", "-s", s, "-c", "circle=1", "-d", `"other:" + tag`)
	require.NoError(t, err)
	assert.Equal(t, "1\n\"other:label\"\n", out)
}

func TestMatch_NotExhaustive(t *testing.T) {
	_, stderr, err := run(t, variants, "match", "-s", writeSchema(t), "-c", "circle=1")
	require.Error(t, err)
	assert.Contains(t, stderr, "non_exhaustive at /cases/label")
}

func TestJSONSchema(t *testing.T) {
	out, _, err := run(t, "", "jsonschema", "-s", writeSchema(t))
	require.NoError(t, err)
	assert.Contains(t, out, `"propertyName": "kind"`)
	assert.Contains(t, out, `"const": "circle"`)
}

func TestSchemaRequired(t *testing.T) {
	_, stderr, err := run(t, "", "tags")
	require.Error(t, err)
	assert.Contains(t, stderr, "--schema is required")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "unionize version "+Version+"\n", out)
}

func TestColorFlag(t *testing.T) {
	t.Cleanup(func() { color.NoColor = true })
	s := writeSchema(t)

	out, _, err := run(t, variants, "check", "-s", s, "--color", "always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")

	out, _, err = run(t, variants, "check", "-s", s)
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[", "a buffer is not a terminal")

	_, _, err = run(t, variants, "check", "-s", s, "--color", "sometimes")
	assert.ErrorContains(t, err, "--color must be")
}

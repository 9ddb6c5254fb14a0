package unionize_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/reoring/unionize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchema_Merged(t *testing.T) {
	s, err := Shape.JSONSchema()
	require.NoError(t, err)
	require.Len(t, s.OneOf, 3)
	assert.Equal(t, "tag", s.Discriminator.PropertyName)

	circle := s.OneOf[0]
	assert.Equal(t, "object", circle.Type)
	assert.Equal(t, "circle", circle.Properties["tag"].Const)
	assert.Equal(t, "number", circle.Properties["r"].Type)
	assert.ElementsMatch(t, []string{"r", "tag"}, circle.Required)
	assert.Equal(t, false, circle.AdditionalProperties)

	dot := s.OneOf[2]
	assert.Equal(t, []string{"tag"}, dot.Required)
	assert.Len(t, dot.Properties, 1)
}

func TestJSONSchema_Nested(t *testing.T) {
	s, err := Foo.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "flim", s.Discriminator.PropertyName)

	x := s.OneOf[0]
	assert.Equal(t, []string{"flim", "flam"}, x.Required)
	assert.Equal(t, "integer", x.Properties["flam"].Type)
	assert.Equal(t, "x", x.Properties["flim"].Const)
	assert.Equal(t, "string", s.OneOf[1].Properties["flam"].Type)
}

func TestJSONSchema_OptionalAndNestedTypes(t *testing.T) {
	type Node struct {
		Label    string  `json:"label"`
		Note     string  `json:"note,omitempty"`
		Children []*Node `json:"children"`
		internal int
	}
	n := unionize.Of[Node]("node")
	b := unionize.MustBuild(unionize.Record(n))
	s, err := b.JSONSchema()
	require.NoError(t, err)

	node := s.OneOf[0]
	assert.ElementsMatch(t, []string{"label", "children", "tag"}, node.Required)
	assert.NotContains(t, node.Properties, "internal")
	children := node.Properties["children"]
	assert.Equal(t, "array", children.Type)
	// recursion stops at the repeated type
	assert.Equal(t, "object", children.Items.Type)
	assert.Nil(t, children.Items.Properties)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"propertyName":"tag"`)
	assert.Contains(t, string(raw), `"const":"node"`)
}

func TestJSONSchema_UnrepresentablePayload(t *testing.T) {
	type Hook struct {
		Name string `json:"name"`
		Run  func() `json:"run"`
	}
	b := unionize.MustBuild(unionize.Record(
		unionize.Of[chan int]("ch"),
		unionize.Of[Hook]("hook"),
		unionize.Of[int]("n"),
	), unionize.WithValue("value"))

	s, err := b.JSONSchema()
	assert.Nil(t, s)
	iss := mustIssues(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, unionize.CodePayloadType, iss[0].Code)
	assert.Equal(t, "/schema/ch", iss[0].Path)
	assert.Equal(t, "/schema/hook", iss[1].Path)
	assert.Contains(t, iss[1].Hint, "field run")
}

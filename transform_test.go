package unionize_test

import (
	"testing"

	"github.com/reoring/unionize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	Num     = unionize.Of[int]("num")
	Str     = unionize.Of[string]("str")
	Scalars = unionize.MustBuild(unionize.Record(Num, Str), unionize.WithValue("value"))
)

func TestTransform_ReplacesAndPassesThrough(t *testing.T) {
	num := Num.MustBind(Scalars)
	str := Str.MustBind(Scalars)

	tr, err := unionize.Transform(Scalars,
		unionize.On(Str, func(s string) unionize.Variant { return num.New(len(s)) }),
	)
	require.NoError(t, err)

	out, err := tr.Apply(str.New("s"))
	require.NoError(t, err)
	assert.True(t, num.Is(out))
	n, err := num.As(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	in := num.New(7)
	out, err = tr.Apply(in)
	require.NoError(t, err)
	assert.True(t, out.Same(in), "unhandled tags pass through by identity")
}

func TestTransformOn(t *testing.T) {
	num := Num.MustBind(Scalars)
	out, err := unionize.TransformOn(Scalars, num.New(2),
		unionize.On(Num, func(n int) unionize.Variant { return num.New(n * n) }),
	)
	require.NoError(t, err)
	n, err := num.As(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestTransform_RejectsDefault(t *testing.T) {
	_, err := unionize.Transform(Scalars,
		unionize.Default(func(v unionize.Variant) unionize.Variant { return v }),
	)
	iss := mustIssues(t, err)
	assert.Equal(t, unionize.CodeDuplicateCase, iss[0].Code)
	assert.Equal(t, "/cases/default", iss[0].Path)

	assert.Panics(t, func() {
		unionize.MustTransform(Scalars, unionize.On(unionize.Of[int]("nope"), func(int) unionize.Variant { return unionize.Variant{} }))
	})
}

func TestTransform_ReplacementMustBelongToUnion(t *testing.T) {
	foreign := X.MustBind(Foo).New(1)
	tr := unionize.MustTransform(Scalars,
		unionize.On(Num, func(int) unionize.Variant { return foreign }),
		unionize.On(Str, func(string) unionize.Variant { return unionize.FromFields(map[string]any{"tag": "elsewhere"}) }),
	)

	// Foo's discriminant is "flim", so Scalars sees no tag at all
	_, err := tr.Apply(Num.MustBind(Scalars).New(1))
	assert.True(t, mustIssues(t, err).Has(unionize.CodeDiscriminatorMissing))

	_, err = tr.Apply(Str.MustBind(Scalars).New("s"))
	iss := mustIssues(t, err)
	assert.Equal(t, unionize.CodeDiscriminatorUnknown, iss[0].Code)
	assert.Equal(t, "elsewhere", iss[0].Params["tag"])
}

func TestTransform_UnknownInput(t *testing.T) {
	tr := unionize.MustTransform(Scalars)
	_, err := tr.Apply(unionize.FromFields(map[string]any{"tag": "zz"}))
	// nothing routes it, but identity still accepts any tag
	require.NoError(t, err)

	_, err = tr.Apply(unionize.FromFields(map[string]any{"value": 1}))
	assert.True(t, mustIssues(t, err).Has(unionize.CodeDiscriminatorMissing))
}

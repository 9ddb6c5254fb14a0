package unionize_test

import (
	"testing"

	"github.com/reoring/unionize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestUpdate_ShallowMergeOnFields(t *testing.T) {
	bag := unionize.Of[unionize.Fields]("x")
	other := unionize.Empty("other")
	extra := func(unionize.Fields) unionize.Fields { return unionize.Fields{"extra": true} }

	t.Run("nested", func(t *testing.T) {
		b := unionize.MustBuild(unionize.Record(bag, other), unionize.WithValue("value"))
		in, err := b.Construct("x", unionize.Fields{"n": 3})
		require.NoError(t, err)

		out, err := unionize.UpdateOn(b, in, unionize.Patch(bag, extra))
		require.NoError(t, err)
		assert.Equal(t, unionize.Fields{"tag": "x", "value": unionize.Fields{"n": 3, "extra": true}}, out.Fields())
		// the input is untouched
		assert.Equal(t, unionize.Fields{"tag": "x", "value": unionize.Fields{"n": 3}}, in.Fields())
	})

	t.Run("merged", func(t *testing.T) {
		b := unionize.MustBuild(unionize.Record(bag, other))
		in, err := b.Construct("x", unionize.Fields{"n": 3})
		require.NoError(t, err)

		out, err := unionize.UpdateOn(b, in, unionize.Patch(bag, extra))
		require.NoError(t, err)
		assert.Equal(t, unionize.Fields{"tag": "x", "n": 3, "extra": true}, out.Fields())
	})
}

func TestUpdate_PatchCannotRetag(t *testing.T) {
	bag := unionize.Of[unionize.Fields]("x")
	b := unionize.MustBuild(unionize.Record(bag, unionize.Empty("y")))
	in, err := b.Construct("x", unionize.Fields{"n": 1})
	require.NoError(t, err)

	out, err := unionize.UpdateOn(b, in, unionize.Patch(bag, func(unionize.Fields) unionize.Fields {
		return unionize.Fields{"tag": "y", "n": 2}
	}))
	require.NoError(t, err)
	assert.Equal(t, unionize.Fields{"tag": "x", "n": 2}, out.Fields())
}

func TestUpdate_StructPayload(t *testing.T) {
	pt := unionize.Of[Point]("point")
	moveX := unionize.Patch(pt, func(p Point) unionize.Fields { return unionize.Fields{"x": p.X + 10} })

	t.Run("nested", func(t *testing.T) {
		b := unionize.MustBuild(unionize.Record(pt), unionize.WithValue("value"))
		m := pt.MustBind(b)
		out, err := unionize.UpdateOn(b, m.New(Point{X: 1, Y: 2}), moveX)
		require.NoError(t, err)
		got, err := m.As(out)
		require.NoError(t, err)
		assert.Equal(t, Point{X: 11, Y: 2}, got)
	})

	t.Run("merged", func(t *testing.T) {
		b := unionize.MustBuild(unionize.Record(pt))
		m := pt.MustBind(b)
		out, err := unionize.UpdateOn(b, m.New(Point{X: 1, Y: 2}), moveX)
		require.NoError(t, err)
		assert.Equal(t, unionize.Fields{"tag": "point", "x": 11, "y": 2}, out.Fields())
		got, err := m.As(out)
		require.NoError(t, err)
		assert.Equal(t, Point{X: 11, Y: 2}, got)
	})
}

func TestUpdate_UnknownPatchField(t *testing.T) {
	pt := unionize.Of[Point]("point")
	b := unionize.MustBuild(unionize.Record(pt))
	u := unionize.MustUpdate(b, unionize.Patch(pt, func(Point) unionize.Fields {
		return unionize.Fields{"z": 1, "w": 2}
	}))

	_, err := u.Apply(pt.MustBind(b).New(Point{}))
	iss := mustIssues(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, unionize.CodePatchField, iss[0].Code)
	assert.Equal(t, "/point/w", iss[0].Path)
	assert.Equal(t, "/point/z", iss[1].Path)
}

func TestUpdate_ReplaceOpaque(t *testing.T) {
	num := Num.MustBind(Scalars)
	out, err := unionize.UpdateOn(Scalars, num.New(3), unionize.Replace(Num, func(n int) int { return n + 1 }))
	require.NoError(t, err)
	n, err := num.As(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestUpdate_PassesThroughByIdentity(t *testing.T) {
	u := unionize.MustUpdate(Scalars, unionize.Replace(Num, func(n int) int { return -n }))
	in := Str.MustBind(Scalars).New("keep")
	out, err := u.Apply(in)
	require.NoError(t, err)
	assert.True(t, out.Same(in))
}

func TestUpdate_MisconfiguredAmendments(t *testing.T) {
	tests := []struct {
		name string
		a    []unionize.Amendment
		code string
	}{
		{"patch on opaque", []unionize.Amendment{unionize.Patch(Num, func(int) unionize.Fields { return nil })}, unionize.CodePayloadType},
		{"unknown tag", []unionize.Amendment{unionize.Replace(unionize.Of[int]("nope"), func(n int) int { return n })}, unionize.CodeUnknownTag},
		{"reserved default", []unionize.Amendment{unionize.Replace(unionize.Of[int]("default"), func(n int) int { return n })}, unionize.CodeUnknownTag},
		{"type mismatch", []unionize.Amendment{unionize.Replace(unionize.Of[string]("num"), func(s string) string { return s })}, unionize.CodePayloadType},
		{"nil handler", []unionize.Amendment{unionize.Replace[int](Num, nil)}, unionize.CodeNilHandler},
		{"duplicate", []unionize.Amendment{
			unionize.Replace(Num, func(n int) int { return n }),
			unionize.Replace(Num, func(n int) int { return n }),
		}, unionize.CodeDuplicateCase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := unionize.Update(Scalars, tt.a...)
			assert.Nil(t, u)
			iss := mustIssues(t, err)
			require.Len(t, iss, 1)
			assert.Equal(t, tt.code, iss[0].Code)
		})
	}
}

func TestUpdate_StructPatchIsTypeChecked(t *testing.T) {
	type Counter struct {
		N int `json:"n"`
	}
	c := unionize.Of[Counter]("counter")
	layouts := []struct {
		name string
		opts []unionize.Option
	}{
		{"merged", nil},
		{"nested", []unionize.Option{unionize.WithValue("value")}},
	}
	for _, l := range layouts {
		t.Run(l.name, func(t *testing.T) {
			b := unionize.MustBuild(unionize.Record(c), l.opts...)
			in := c.MustBind(b).New(Counter{N: 1})

			for _, bad := range []any{"oops", 1.5} {
				_, err := unionize.UpdateOn(b, in, unionize.Patch(c, func(Counter) unionize.Fields {
					return unionize.Fields{"n": bad}
				}))
				assert.True(t, mustIssues(t, err).Has(unionize.CodePayloadDecode), "%v", bad)
			}

			out, err := unionize.UpdateOn(b, in, unionize.Patch(c, func(p Counter) unionize.Fields {
				return unionize.Fields{"n": p.N + 1}
			}))
			require.NoError(t, err)
			got, err := c.MustBind(b).As(out)
			require.NoError(t, err)
			assert.Equal(t, Counter{N: 2}, got)
		})
	}
}

func TestUpdate_RejectedAmendmentStillClaimsTag(t *testing.T) {
	_, err := unionize.Update(Scalars,
		unionize.Replace[int](Num, nil),
		unionize.Replace[int](Num, nil),
	)
	iss := mustIssues(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, unionize.CodeNilHandler, iss[0].Code)
	assert.Equal(t, unionize.CodeDuplicateCase, iss[1].Code)
}

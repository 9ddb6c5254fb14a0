package unionize_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/reoring/unionize"
	"github.com/reoring/unionize/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewWriter(&buf, slog.LevelDebug)

	_, err := unionize.Build(unionize.Record(X, Y), unionize.WithValue("v"), unionize.WithLogger(l))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "unionize: bundle built")
	assert.Contains(t, buf.String(), "tags=x,y")
	assert.Contains(t, buf.String(), "mode=nested")

	buf.Reset()
	_, err = unionize.Build(unionize.Record(), unionize.WithLogger(l))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "unionize: build failed")
	assert.Contains(t, buf.String(), "err=")
}

func TestOptions_Defaults(t *testing.T) {
	b, err := unionize.Build(unionize.Record(Dot), nil, unionize.WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, unionize.DefaultTagField, b.TagField())
	assert.Equal(t, unionize.Merged, b.Mode())
	assert.Equal(t, "merged", b.Mode().String())
	assert.Equal(t, "nested", unionize.Nested.String())

	// an empty value field restores the merged layout
	b = unionize.MustBuild(unionize.Record(Dot), unionize.WithValue("v"), unionize.WithValue(""))
	assert.Equal(t, unionize.Merged, b.Mode())
}

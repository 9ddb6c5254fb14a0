package unionize

import (
	"log/slog"

	"github.com/reoring/unionize/internal/logging"
)

// DefaultTagField is the discriminant field used when WithTag is not given.
const DefaultTagField = "tag"

// DefaultKey is the reserved case key for match fallbacks. No schema tag may
// use it.
const DefaultKey = "default"

// Mode selects how a payload is laid out inside a variant.
type Mode int

const (
	// Merged flattens payload fields next to the discriminant.
	Merged Mode = iota
	// Nested stores the whole payload under the value field.
	Nested
)

func (m Mode) String() string {
	switch m {
	case Nested:
		return "nested"
	default:
		return "merged"
	}
}

// config bundles build options.
type config struct {
	tagField   string
	valueField string // "" selects Merged
	logger     *slog.Logger
}

// Option configures Build.
type Option func(*config)

// WithTag sets the discriminant field name (default "tag").
func WithTag(field string) Option {
	return func(c *config) { c.tagField = field }
}

// WithValue selects the nested representation and sets the field that holds
// the payload. Passing "" restores the merged representation.
func WithValue(field string) Option {
	return func(c *config) { c.valueField = field }
}

// WithLogger sets the logger used for build diagnostics. nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	c := config{tagField: DefaultTagField}
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	return c
}

func (c config) mode() Mode {
	if c.valueField == "" {
		return Merged
	}
	return Nested
}

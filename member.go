package unionize

// Member is the typed view of one tag of a built bundle: constructor,
// predicate, and cast for payload type P.
type Member[P any] struct {
	b *Bundle
	e *entry
}

// Tag returns the tag name.
func (m Member[P]) Tag() string { return m.e.name }

// New constructs a variant carrying p.
func (m Member[P]) New(p P) Variant {
	v, err := m.b.construct(m.e, any(p))
	if err != nil {
		// unreachable: P is the entry's own type
		panic(err)
	}
	return v
}

// Is reports whether v carries this tag.
func (m Member[P]) Is(v Variant) bool { return m.b.is(m.e.name, v) }

// As narrows v to this tag's payload, or returns a *CastError naming both
// tags.
func (m Member[P]) As(v Variant) (P, error) {
	p, err := m.b.casts[m.e.name].apply(v)
	if err != nil {
		var zero P
		return zero, err
	}
	return castTo[P](p), nil
}

package unionize

// Transformer rewrites variants into complete replacement variants of the
// same union.
type Transformer struct {
	d *dispatch[Variant]
}

// Transform builds a reusable transformer. Each case returns the replacement
// for its tag (it may carry a different tag of the same bundle). Tags without
// a case are passed through unchanged, by identity.
func Transform(b *Bundle, cases ...Case[Variant]) (*Transformer, error) {
	d, err := compileCases(b, cases, false, false)
	if err != nil {
		return nil, err
	}
	for tag, r := range d.routes {
		d.routes[tag] = checked(b, r)
	}
	d.fallback = identity
	return &Transformer{d: d}, nil
}

// MustTransform is like Transform but panics on error.
func MustTransform(b *Bundle, cases ...Case[Variant]) *Transformer {
	t, err := Transform(b, cases...)
	if err != nil {
		panic(err)
	}
	return t
}

// TransformOn transforms v immediately.
func TransformOn(b *Bundle, v Variant, cases ...Case[Variant]) (Variant, error) {
	t, err := Transform(b, cases...)
	if err != nil {
		return Variant{}, err
	}
	return t.Apply(v)
}

// Apply returns the replacement for v, or v itself when its tag has no case.
func (t *Transformer) Apply(v Variant) (Variant, error) { return t.d.apply(v) }

func identity(v Variant) (Variant, error) { return v, nil }

// checked rejects replacements that do not belong to b.
func checked(b *Bundle, r route[Variant]) route[Variant] {
	return func(v Variant) (Variant, error) {
		out, err := r(v)
		if err != nil {
			return Variant{}, err
		}
		tag, ok := b.TagOf(out)
		if !ok {
			return Variant{}, Issues{rootRef().Field(b.cfg.tagField).Issue(CodeDiscriminatorMissing, "replacement has no discriminator")}
		}
		if !b.Has(tag) {
			return Variant{}, Issues{rootRef().Field(b.cfg.tagField).Issue(CodeDiscriminatorUnknown, "replacement is '"+tag+"', not a tag of this union", "tag", tag)}
		}
		return out, nil
	}
}

package unionize

import "reflect"

// route handles one tag (or the fallback) of a dispatch table.
type route[A any] func(v Variant) (A, error)

// dispatch is the table shared by matchers, casters, transformers and
// updaters: one direct lookup by tag, then the fallback.
type dispatch[A any] struct {
	b        *Bundle
	routes   map[string]route[A]
	fallback route[A] // nil: an unrouted tag is an error
}

func (d *dispatch[A]) apply(v Variant) (A, error) {
	var zero A
	tag, ok := d.b.TagOf(v)
	if !ok {
		return zero, Issues{rootRef().Field(d.b.cfg.tagField).Issue(CodeDiscriminatorMissing, "")}
	}
	if r, ok := d.routes[tag]; ok {
		return r(v)
	}
	if d.fallback != nil {
		return d.fallback(v)
	}
	return zero, Issues{rootRef().Field(d.b.cfg.tagField).Issue(CodeDiscriminatorUnknown, "no case for '"+tag+"'", "tag", tag)}
}

// Case is one arm of a match: a handler for a tag, or the Default.
type Case[A any] struct {
	tag       string
	typ       reflect.Type // nil: the entry's own type (Handle)
	isDefault bool
	missing   bool // handler given as nil
	call      func(payload any) A
	def       func(v Variant) A
}

// On handles the payload of tag t.
func On[P, A any](t Tag[P], fn func(P) A) Case[A] {
	c := Case[A]{tag: t.name, typ: t.PayloadType(), missing: fn == nil}
	if fn != nil {
		c.call = func(p any) A { return fn(castTo[P](p)) }
	}
	return c
}

// Handle is the untyped form of On for schemas built with Dynamic entries.
// The payload is passed as the entry's declared type.
func Handle[A any](tag string, fn func(payload any) A) Case[A] {
	return Case[A]{tag: tag, missing: fn == nil, call: fn}
}

// Default handles every tag without its own case. It receives the entire,
// unmodified variant.
func Default[A any](fn func(v Variant) A) Case[A] {
	return Case[A]{tag: DefaultKey, isDefault: true, missing: fn == nil, def: fn}
}

// Matcher dispatches variants to the cases it was built with.
type Matcher[A any] struct {
	d *dispatch[A]
}

// Match builds a reusable matcher. Cases must cover every tag of b unless a
// Default is given; a gap is reported as non_exhaustive issues naming the
// missing tags. Nil handlers, unknown tags, repeated cases and payload type
// mismatches are rejected as well.
func Match[A any](b *Bundle, cases ...Case[A]) (*Matcher[A], error) {
	d, err := compileCases(b, cases, true, true)
	if err != nil {
		return nil, err
	}
	return &Matcher[A]{d: d}, nil
}

// MustMatch is like Match but panics on error.
func MustMatch[A any](b *Bundle, cases ...Case[A]) *Matcher[A] {
	m, err := Match(b, cases...)
	if err != nil {
		panic(err)
	}
	return m
}

// MatchOn matches v immediately. It is Match followed by Apply.
func MatchOn[A any](b *Bundle, v Variant, cases ...Case[A]) (A, error) {
	m, err := Match(b, cases...)
	if err != nil {
		var zero A
		return zero, err
	}
	return m.Apply(v)
}

// Apply runs the case for v's tag, or the Default.
func (m *Matcher[A]) Apply(v Variant) (A, error) { return m.d.apply(v) }

// compileCases validates a case set against b and turns it into a dispatch
// table.
func compileCases[A any](b *Bundle, cases []Case[A], allowDefault, exhaustive bool) (*dispatch[A], error) {
	root := rootRef().Field("cases")
	d := &dispatch[A]{b: b, routes: make(map[string]route[A], len(cases))}
	var iss Issues
	hasDefault := false
	for _, c := range cases {
		at := root.Field(c.tag)
		if c.isDefault {
			switch {
			case !allowDefault:
				iss = AppendIssues(iss, at.Issue(CodeDuplicateCase, "the identity default is implicit"))
			case hasDefault:
				iss = AppendIssues(iss, at.Issue(CodeDuplicateCase, "default given twice", "tag", DefaultKey))
			case c.missing:
				iss = AppendIssues(iss, at.Issue(CodeNilHandler, "", "tag", DefaultKey))
			default:
				def := c.def
				d.fallback = func(v Variant) (A, error) { return def(v), nil }
			}
			hasDefault = true
			continue
		}
		e, ok := b.byTag[c.tag]
		if !ok {
			iss = AppendIssues(iss, at.Issue(CodeUnknownTag, "tag not in bundle", "tag", c.tag))
			continue
		}
		if _, dup := d.routes[c.tag]; dup {
			iss = AppendIssues(iss, at.Issue(CodeDuplicateCase, "case given twice", "tag", c.tag))
			continue
		}
		if c.typ != nil && c.typ != e.typ {
			iss = AppendIssues(iss, at.Issue(CodePayloadType, "bundle declares "+e.typ.String()+", case expects "+c.typ.String(), "tag", c.tag))
			// keep the slot so the tag is not also reported as missing
			d.routes[c.tag] = nil
			continue
		}
		if c.missing {
			iss = AppendIssues(iss, at.Issue(CodeNilHandler, "", "tag", c.tag))
			d.routes[c.tag] = nil
			continue
		}
		call := c.call
		d.routes[c.tag] = func(v Variant) (A, error) {
			p, err := b.payload(e, v)
			if err != nil {
				var zero A
				return zero, err
			}
			return call(p), nil
		}
	}
	if exhaustive && !hasDefault {
		for _, tag := range b.order {
			if _, ok := d.routes[tag]; !ok {
				iss = AppendIssues(iss, root.Field(tag).Issue(CodeNonExhaustive, "no case for '"+tag+"' and no default", "tag", tag))
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return d, nil
}

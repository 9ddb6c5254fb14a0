package unionize

import (
	"reflect"
	"sort"
)

// Amendment changes the payload of one tag while keeping the tag.
type Amendment struct {
	tag     string
	typ     reflect.Type
	patch   bool // shallow merge; structured payloads only
	missing bool
	apply   func(b *Bundle, e *entry, v Variant) (Variant, error)
}

// Patch returns the fields to change on a structured payload. Patch fields
// override, unlisted fields are retained.
func Patch[P any](t Tag[P], fn func(P) Fields) Amendment {
	a := Amendment{tag: t.name, typ: t.PayloadType(), patch: true, missing: fn == nil}
	if fn != nil {
		a.apply = func(b *Bundle, e *entry, v Variant) (Variant, error) {
			p, err := b.payload(e, v)
			if err != nil {
				return Variant{}, err
			}
			return b.merge(e, v, p, fn(castTo[P](p)))
		}
	}
	return a
}

// Replace returns a whole new payload. It is the only amendment for payloads
// without fields.
func Replace[P any](t Tag[P], fn func(P) P) Amendment {
	a := Amendment{tag: t.name, typ: t.PayloadType(), missing: fn == nil}
	if fn != nil {
		a.apply = func(b *Bundle, e *entry, v Variant) (Variant, error) {
			p, err := b.payload(e, v)
			if err != nil {
				return Variant{}, err
			}
			return b.construct(e, any(fn(castTo[P](p))))
		}
	}
	return a
}

// Updater applies amendments to variants.
type Updater struct {
	d *dispatch[Variant]
}

// Update builds a reusable updater. Tags without an amendment are returned
// unchanged, by identity.
func Update(b *Bundle, amendments ...Amendment) (*Updater, error) {
	root := rootRef().Field("cases")
	d := &dispatch[Variant]{b: b, routes: make(map[string]route[Variant], len(amendments)), fallback: identity}
	seen := make(map[string]bool, len(amendments))
	var iss Issues
	for _, a := range amendments {
		at := root.Field(a.tag)
		e, ok := b.byTag[a.tag]
		switch {
		case a.tag == DefaultKey || !ok:
			iss = AppendIssues(iss, at.Issue(CodeUnknownTag, "tag not in bundle", "tag", a.tag))
			continue
		case seen[a.tag]:
			iss = AppendIssues(iss, at.Issue(CodeDuplicateCase, "amendment given twice", "tag", a.tag))
			continue
		}
		// rejected amendments still claim their tag
		seen[a.tag] = true
		switch {
		case a.typ != e.typ:
			iss = AppendIssues(iss, at.Issue(CodePayloadType, "bundle declares "+e.typ.String()+", amendment expects "+a.typ.String(), "tag", a.tag))
			continue
		case a.patch && !e.kind.structured():
			iss = AppendIssues(iss, at.Issue(CodePayloadType, e.typ.String()+" has no fields to patch; use Replace", "tag", a.tag))
			continue
		case a.missing:
			iss = AppendIssues(iss, at.Issue(CodeNilHandler, "", "tag", a.tag))
			continue
		}
		apply := a.apply
		d.routes[a.tag] = func(v Variant) (Variant, error) { return apply(b, e, v) }
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return &Updater{d: d}, nil
}

// MustUpdate is like Update but panics on error.
func MustUpdate(b *Bundle, amendments ...Amendment) *Updater {
	u, err := Update(b, amendments...)
	if err != nil {
		panic(err)
	}
	return u
}

// UpdateOn updates v immediately.
func UpdateOn(b *Bundle, v Variant, amendments ...Amendment) (Variant, error) {
	u, err := Update(b, amendments...)
	if err != nil {
		return Variant{}, err
	}
	return u.Apply(v)
}

// Apply amends v, or returns it unchanged when its tag has no amendment.
func (u *Updater) Apply(v Variant) (Variant, error) { return u.d.apply(v) }

// merge shallow-merges delta into the payload p of variant v and rebuilds a
// variant with the same tag.
func (b *Bundle) merge(e *entry, v Variant, p any, delta Fields) (Variant, error) {
	if e.kind == kindStruct || e.kind == kindEmpty {
		if err := checkPatchKeys(e, delta); err != nil {
			return Variant{}, err
		}
	}
	if b.cfg.mode() == Merged && e.kind != kindStruct {
		out := make(map[string]any, len(v.fields)+len(delta))
		for k, x := range v.fields {
			out[k] = cloneValue(x)
		}
		for k, x := range delta {
			out[k] = cloneValue(x)
		}
		out[b.cfg.tagField] = e.name
		return Variant{fields: out}, nil
	}

	switch e.kind {
	case kindMap:
		cur := normalizeFields(p).(Fields)
		for k, x := range delta {
			cur[k] = x
		}
		return b.construct(e, cur)
	case kindStruct:
		// both layouts decode the merged fields back into the payload type
		cur := make(Fields, len(delta))
		flattenStruct(cur, reflect.ValueOf(p))
		for k, x := range delta {
			cur[k] = x
		}
		np, err := decodeValue(cur, e.typ)
		if err != nil {
			return Variant{}, Issues{rootRef().Field(e.name).Issue(CodePayloadDecode, err.Error(), "tag", e.name)}
		}
		return b.construct(e, np)
	default:
		return b.construct(e, p)
	}
}

func checkPatchKeys(e *entry, delta Fields) error {
	var keys []string
	if e.kind == kindStruct {
		keys = structKeys(e.typ)
	}
	known := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		known[k] = struct{}{}
	}
	var unknown []string
	for k := range delta {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	var iss Issues
	for _, k := range unknown {
		iss = AppendIssues(iss, rootRef().Field(e.name).Field(k).Issue(CodePatchField, e.typ.String()+" has no field "+k, "tag", e.name, "field", k))
	}
	return iss
}

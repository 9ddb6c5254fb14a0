package unionize

import (
	"reflect"
	"strings"
)

// Constructor builds a variant from a payload.
type Constructor func(payload any) (Variant, error)

// Predicate reports whether a variant carries a given tag.
type Predicate func(v Variant) bool

type entry struct {
	name string
	typ  reflect.Type
	kind payloadKind
}

// Bundle holds the operators generated for one schema and configuration.
// It is immutable after Build and safe for concurrent use.
type Bundle struct {
	cfg    config
	schema Schema
	order  []string
	byTag  map[string]*entry
	ctors  map[string]Constructor
	preds  map[string]Predicate
	casts  map[string]*dispatch[any]
}

// Build validates the schema and configuration and precomputes the
// constructor, predicate, and cast tables. Problems are reported together as
// Issues.
func Build(s Schema, opts ...Option) (*Bundle, error) {
	cfg := newConfig(opts)
	root := rootRef()
	var iss Issues

	if cfg.tagField == "" {
		iss = AppendIssues(iss, root.Field("tag").Issue(CodeInvalidConfig, "tag field must not be empty"))
	}
	if cfg.valueField != "" && cfg.valueField == cfg.tagField {
		iss = AppendIssues(iss, root.Field("value").Issue(CodeInvalidConfig, "value field must differ from tag field", "field", cfg.valueField))
	}
	list := s.entries()
	if len(list) == 0 {
		iss = AppendIssues(iss, root.Field("schema").Issue(CodeEmptySchema, ""))
	}

	b := &Bundle{cfg: cfg, byTag: make(map[string]*entry, len(list))}
	kept := make([]Entry, 0, len(list))
	for i, en := range list {
		name := en.Name()
		typ := en.PayloadType()
		if typ == nil {
			typ = anyType
		}
		switch {
		case name == "":
			iss = AppendIssues(iss, root.Field("schema").Index(i).Issue(CodeInvalidTag, "tag name must not be empty"))
			continue
		case name == DefaultKey:
			iss = AppendIssues(iss, root.Field("schema").Field(name).Issue(CodeReservedTag, `"default" is reserved for fallback cases`, "tag", name))
			continue
		}
		if prev, ok := b.byTag[name]; ok {
			if prev.typ != typ {
				iss = AppendIssues(iss, root.Field("schema").Field(name).Issue(CodeDuplicateTag, "declared as "+prev.typ.String()+" and "+typ.String(), "tag", name))
			}
			continue
		}
		e := &entry{name: name, typ: typ, kind: kindOf(typ)}
		if cfg.mode() == Merged && !e.kind.structured() {
			iss = AppendIssues(iss, root.Field("schema").Field(name).Issue(CodeMergedOpaque, typ.String()+" has no fields to merge; use WithValue", "tag", name))
		}
		b.byTag[name] = e
		b.order = append(b.order, name)
		kept = append(kept, en)
	}
	if len(iss) > 0 {
		cfg.logger.Debug("unionize: build failed", "error", iss)
		return nil, iss
	}
	b.schema = Schema{list: kept}

	b.ctors = make(map[string]Constructor, len(b.order))
	b.preds = make(map[string]Predicate, len(b.order))
	b.casts = make(map[string]*dispatch[any], len(b.order))
	for _, name := range b.order {
		name := name // per-iteration copy (pre-Go 1.22 loop semantics)
		e := b.byTag[name]
		b.ctors[name] = func(p any) (Variant, error) { return b.construct(e, p) }
		b.preds[name] = func(v Variant) bool { return b.is(name, v) }
		b.casts[name] = b.caster(e)
	}

	cfg.logger.Debug("unionize: bundle built",
		"tags", strings.Join(b.order, ","),
		"mode", cfg.mode().String(),
		"tag_field", cfg.tagField,
		"value_field", cfg.valueField)
	return b, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(s Schema, opts ...Option) *Bundle {
	b, err := Build(s, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Schema returns the bundle's entries so they can be spread into a larger
// union with Record.
func (b *Bundle) Schema() Schema { return Schema{list: b.schema.entries()} }

// Tags lists the tags in declaration order.
func (b *Bundle) Tags() []string { return append([]string(nil), b.order...) }

// Has reports whether tag belongs to the bundle.
func (b *Bundle) Has(tag string) bool {
	_, ok := b.byTag[tag]
	return ok
}

// TagField returns the discriminant field name.
func (b *Bundle) TagField() string { return b.cfg.tagField }

// ValueField returns the payload field name, or "" in merged mode.
func (b *Bundle) ValueField() string { return b.cfg.valueField }

// Mode returns the payload representation.
func (b *Bundle) Mode() Mode { return b.cfg.mode() }

// Constructors returns the constructor table keyed by tag. The map is a copy.
func (b *Bundle) Constructors() map[string]Constructor {
	out := make(map[string]Constructor, len(b.ctors))
	for k, v := range b.ctors {
		out[k] = v
	}
	return out
}

// Predicates returns the predicate table keyed by tag. The map is a copy.
func (b *Bundle) Predicates() map[string]Predicate {
	out := make(map[string]Predicate, len(b.preds))
	for k, v := range b.preds {
		out[k] = v
	}
	return out
}

// Construct builds a variant for tag. A nil payload is accepted for tags
// without required fields (Fields, struct{}, interface payloads).
func (b *Bundle) Construct(tag string, payload any) (Variant, error) {
	e, ok := b.byTag[tag]
	if !ok {
		return Variant{}, Issues{rootRef().Field(tag).Issue(CodeUnknownTag, "tag not in bundle", "tag", tag)}
	}
	return b.construct(e, payload)
}

// Is reports whether v carries tag.
func (b *Bundle) Is(tag string, v Variant) bool { return b.is(tag, v) }

// TagOf returns the discriminant of v, if it has a string one.
func (b *Bundle) TagOf(v Variant) (string, bool) {
	s, ok := v.fields[b.cfg.tagField].(string)
	return s, ok
}

// As narrows v to the payload of tag. A variant carrying another tag yields a
// *CastError.
func (b *Bundle) As(tag string, v Variant) (any, error) {
	d, ok := b.casts[tag]
	if !ok {
		return nil, Issues{rootRef().Field(tag).Issue(CodeUnknownTag, "tag not in bundle", "tag", tag)}
	}
	return d.apply(v)
}

// Lift re-expresses a variant of from under b's configuration. It is the
// bridge between a union and a larger union composed from its schema.
func (b *Bundle) Lift(from *Bundle, v Variant) (Variant, error) {
	tag, ok := from.TagOf(v)
	if !ok {
		return Variant{}, Issues{rootRef().Field(from.cfg.tagField).Issue(CodeDiscriminatorMissing, "")}
	}
	src, ok := from.byTag[tag]
	if !ok {
		return Variant{}, Issues{rootRef().Field(from.cfg.tagField).Issue(CodeDiscriminatorUnknown, "unknown variant: '"+tag+"'", "tag", tag)}
	}
	dst, ok := b.byTag[tag]
	if !ok {
		return Variant{}, Issues{rootRef().Field(tag).Issue(CodeUnknownTag, "target bundle has no tag '"+tag+"'", "tag", tag)}
	}
	p, err := from.payload(src, v)
	if err != nil {
		return Variant{}, err
	}
	if from.cfg.mode() == Merged && src.kind == kindMap {
		// the source discriminant is not part of the payload
		m := normalizeFields(p).(Fields)
		delete(m, from.cfg.tagField)
		p = m
	}
	if dst.typ != src.typ {
		if p, err = decodeValue(p, dst.typ); err != nil {
			return Variant{}, Issues{rootRef().Field(tag).Issue(CodePayloadDecode, err.Error(), "tag", tag)}
		}
	}
	return b.construct(dst, p)
}

func (b *Bundle) is(tag string, v Variant) bool {
	t, ok := b.TagOf(v)
	return ok && t == tag
}

// construct lays out a checked payload. The discriminant is written last in
// merged mode so no payload field can shadow it.
func (b *Bundle) construct(e *entry, p any) (Variant, error) {
	if err := e.checkPayload(p); err != nil {
		return Variant{}, err
	}
	if p == nil {
		p = e.emptyPayload()
	}
	if b.cfg.mode() == Nested {
		return Variant{fields: map[string]any{
			b.cfg.tagField:   e.name,
			b.cfg.valueField: cloneValue(normalizeFields(p)),
		}}, nil
	}
	var out map[string]any
	switch e.kind {
	case kindMap:
		m := normalizeFields(p).(Fields)
		out = make(map[string]any, len(m)+1)
		for k, x := range m {
			out[k] = cloneValue(x)
		}
	case kindStruct:
		rv := reflect.ValueOf(p)
		out = make(map[string]any, rv.NumField()+1)
		flattenStruct(out, rv)
	default:
		out = make(map[string]any, 1)
	}
	out[b.cfg.tagField] = e.name
	return Variant{fields: out}, nil
}

// normalizeFields turns named map types with a Fields underlying type into
// Fields so they are copied like any other field map.
func normalizeFields(p any) any {
	if _, ok := p.(Fields); ok {
		return p
	}
	rv := reflect.ValueOf(p)
	if rv.IsValid() && rv.Kind() == reflect.Map && rv.Type().ConvertibleTo(fieldsType) {
		return rv.Convert(fieldsType).Interface()
	}
	return p
}

// payload extracts the payload of e from v: the whole merged object, or the
// value field in nested mode, decoded to e's payload type.
func (b *Bundle) payload(e *entry, v Variant) (any, error) {
	var raw any
	switch {
	case b.cfg.mode() == Nested:
		raw = v.fields[b.cfg.valueField]
	case e.kind == kindEmpty:
		raw = nil
	default:
		raw = v.fields
	}
	out, err := decodeValue(raw, e.typ)
	if err != nil {
		return nil, Issues{rootRef().Field(e.name).Issue(CodePayloadDecode, err.Error(), "tag", e.name)}
	}
	return out, nil
}

// caster is a matcher whose only case is the identity on e and whose default
// reports the mismatch.
func (b *Bundle) caster(e *entry) *dispatch[any] {
	return &dispatch[any]{
		b: b,
		routes: map[string]route[any]{
			e.name: func(v Variant) (any, error) { return b.payload(e, v) },
		},
		fallback: func(v Variant) (any, error) {
			actual, _ := b.TagOf(v)
			return nil, &CastError{Actual: actual, Expected: e.name}
		},
	}
}

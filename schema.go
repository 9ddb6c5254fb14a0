package unionize

import "reflect"

// Part is anything that can be spread into a Schema: a single entry or a whole
// Schema.
type Part interface {
	entries() []Entry
}

// Entry declares one tag and the Go type of its payload.
type Entry interface {
	Part
	Name() string
	PayloadType() reflect.Type
}

// Tag is a typed schema entry. The type parameter carries the payload type, so
// no runtime witness value is needed:
//
//	var Circle = unionize.Of[Circle]("circle")
type Tag[P any] struct {
	name string
}

// Of declares a tag whose payload has type P.
func Of[P any](name string) Tag[P] { return Tag[P]{name: name} }

// Empty declares a tag without payload fields. Its constructor accepts an
// absent payload.
func Empty(name string) Tag[struct{}] { return Tag[struct{}]{name: name} }

func (t Tag[P]) Name() string              { return t.name }
func (t Tag[P]) PayloadType() reflect.Type { return reflect.TypeOf((*P)(nil)).Elem() }
func (t Tag[P]) entries() []Entry          { return []Entry{t} }

// Bind resolves t against a built bundle, yielding typed operators.
func (t Tag[P]) Bind(b *Bundle) (Member[P], error) {
	e, ok := b.byTag[t.name]
	if !ok {
		return Member[P]{}, Issues{rootRef().Field(t.name).Issue(CodeUnknownTag, "tag not in bundle", "tag", t.name)}
	}
	if want := t.PayloadType(); want != e.typ {
		return Member[P]{}, Issues{rootRef().Field(t.name).Issue(CodePayloadType, "bundle declares "+e.typ.String()+", tag declares "+want.String(), "tag", t.name)}
	}
	return Member[P]{b: b, e: e}, nil
}

// MustBind is like Bind but panics on error.
func (t Tag[P]) MustBind(b *Bundle) Member[P] {
	m, err := t.Bind(b)
	if err != nil {
		panic(err)
	}
	return m
}

type dynamicEntry struct {
	name string
	typ  reflect.Type
}

// Dynamic declares a tag whose payload type is only known at runtime (for
// example, when the schema is loaded from a file). A nil type means any.
func Dynamic(name string, t reflect.Type) Entry {
	if t == nil {
		t = anyType
	}
	return dynamicEntry{name: name, typ: t}
}

func (d dynamicEntry) Name() string              { return d.name }
func (d dynamicEntry) PayloadType() reflect.Type { return d.typ }
func (d dynamicEntry) entries() []Entry          { return []Entry{d} }

// Schema is an ordered list of entries. It is a value: composing schemas
// copies the entries.
type Schema struct {
	list []Entry
}

// Record composes entries and other schemas, in order. Spreading a bundle's
// schema into a larger one is how unions are extended:
//
//	flintstones := unionize.MustBuild(unionize.Record(Pebbles, parents.Schema()))
//
// Repeated identical entries collapse at build time; conflicting ones are
// rejected.
func Record(parts ...Part) Schema {
	var list []Entry
	for _, p := range parts {
		if p == nil {
			continue
		}
		list = append(list, p.entries()...)
	}
	return Schema{list: list}
}

func (s Schema) entries() []Entry { return append([]Entry(nil), s.list...) }

// Entries returns a copy of the declared entries.
func (s Schema) Entries() []Entry { return s.entries() }

// Len reports the number of declared entries.
func (s Schema) Len() int { return len(s.list) }

package unionize

import (
	"fmt"
	"reflect"
	"strings"

	js "github.com/reoring/unionize/jsonschema"
)

// JSONSchema projects the bundle into a JSON Schema: a oneOf with one object
// per tag whose discriminant property is a const. Payload types with no JSON
// form (channels, funcs, complex numbers) are reported as payload_type issues.
func (b *Bundle) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{
		OneOf:         make([]*js.Schema, 0, len(b.order)),
		Discriminator: &js.Discriminator{PropertyName: b.cfg.tagField},
	}
	var iss Issues
	for _, name := range b.order {
		e := b.byTag[name]
		ps, err := typeSchema(e.typ, map[reflect.Type]bool{})
		if err != nil {
			iss = AppendIssues(iss, rootRef().Field("schema").Field(name).Issue(CodePayloadType, err.Error(), "tag", name))
			continue
		}
		s := &js.Schema{Type: "object", Properties: map[string]*js.Schema{}}
		if b.cfg.mode() == Nested {
			s.Properties[b.cfg.valueField] = ps
			s.Required = []string{b.cfg.tagField, b.cfg.valueField}
		} else {
			for k, p := range ps.Properties {
				s.Properties[k] = p
			}
			s.Required = append(s.Required, ps.Required...)
			s.AdditionalProperties = ps.AdditionalProperties
			s.Required = append(s.Required, b.cfg.tagField)
		}
		// the discriminant wins over a payload property of the same name
		s.Properties[b.cfg.tagField] = &js.Schema{Type: "string", Const: name}
		out.OneOf = append(out.OneOf, s)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// typeSchema maps a Go type to a JSON Schema. seen guards recursive types.
func typeSchema(t reflect.Type, seen map[reflect.Type]bool) (*js.Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return &js.Schema{Type: "string"}, nil
	case reflect.Bool:
		return &js.Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &js.Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &js.Schema{Type: "number"}, nil
	case reflect.Slice, reflect.Array:
		items, err := typeSchema(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		s := &js.Schema{Type: "object"}
		if t.Elem() != anyType {
			ap, err := typeSchema(t.Elem(), seen)
			if err != nil {
				return nil, err
			}
			s.AdditionalProperties = ap
		}
		return s, nil
	case reflect.Struct:
		if seen[t] {
			return &js.Schema{Type: "object"}, nil
		}
		seen[t] = true
		defer delete(seen, t)
		s := &js.Schema{Type: "object", Properties: map[string]*js.Schema{}}
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			k := ResolveStructKey(sf)
			if k == "-" {
				continue
			}
			ps, err := typeSchema(sf.Type, seen)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			s.Properties[k] = ps
			if !strings.Contains(sf.Tag.Get("json"), ",omitempty") {
				s.Required = append(s.Required, k)
			}
		}
		s.AdditionalProperties = false
		return s, nil
	case reflect.Interface:
		return &js.Schema{}, nil
	default:
		return nil, fmt.Errorf("%s has no JSON representation", t)
	}
}

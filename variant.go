package unionize

import (
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
)

// Variant is a value of a tagged union: a field map that carries the
// discriminant and the payload. Variants are immutable; accessors return
// copies of any field maps they expose.
type Variant struct {
	fields map[string]any
}

// FromFields copies m into a new Variant. Use it to bring values decoded from
// elsewhere (JSON, YAML, another library) into a bundle's operators.
func FromFields(m map[string]any) Variant {
	if m == nil {
		return Variant{fields: map[string]any{}}
	}
	return Variant{fields: cloneFields(m)}
}

// Get returns the value of a single field.
func (v Variant) Get(name string) (any, bool) {
	x, ok := v.fields[name]
	return cloneValue(x), ok
}

// Fields returns a copy of the variant's fields.
func (v Variant) Fields() Fields {
	if v.fields == nil {
		return Fields{}
	}
	return cloneFields(v.fields)
}

// Len reports the number of top-level fields.
func (v Variant) Len() int { return len(v.fields) }

// IsZero reports whether v is the zero Variant (never constructed).
func (v Variant) IsZero() bool { return v.fields == nil }

// Equal reports whether both variants hold deeply equal fields.
func (v Variant) Equal(o Variant) bool {
	if len(v.fields) != len(o.fields) {
		return false
	}
	return reflect.DeepEqual(v.fields, o.fields)
}

// Same reports whether v and o are the same value by identity, i.e. o was
// passed through unchanged rather than rebuilt.
func (v Variant) Same(o Variant) bool {
	return reflect.ValueOf(v.fields).UnsafePointer() == reflect.ValueOf(o.fields).UnsafePointer()
}

// MarshalJSON encodes the variant as its plain field map.
func (v Variant) MarshalJSON() ([]byte, error) {
	if v.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v.fields)
}

// UnmarshalJSON decodes a JSON object into the variant. Repeated keys are
// rejected with duplicate_key issues.
func (v *Variant) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("unionize: variant must be a JSON object")
	}
	if iss, err := duplicateKeys(b); err == nil && len(iss) > 0 {
		return iss
	}
	v.fields = m
	return nil
}

func (v Variant) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprint(v.fields)
	}
	return string(b)
}

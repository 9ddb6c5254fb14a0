package unionize

import (
	"reflect"
	"strings"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// key inside a variant: json tag name > field name; "-" disables the field.
// The same rule is used when flattening a payload and when decoding it back.
func ResolveStructKey(sf reflect.StructField) string {
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return sf.Name
			}
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// structKeys lists the resolved keys of t's exported fields in declaration
// order.
func structKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		k := ResolveStructKey(sf)
		if k == "-" {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// flattenStruct copies the exported top-level fields of a struct value into
// dst. Field values are deep-copied.
func flattenStruct(dst map[string]any, rv reflect.Value) {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		k := ResolveStructKey(sf)
		if k == "-" {
			continue
		}
		dst[k] = cloneValue(rv.Field(i).Interface())
	}
}

package unionize

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Fields is a structured payload: a field map. It is also the shape of Patch
// results.
type Fields = map[string]any

// payloadKind classifies an entry's payload type once at build time.
type payloadKind int

const (
	kindOpaque payloadKind = iota // scalars, slices, pointers, interfaces
	kindMap                       // Fields or a named map[string]any
	kindStruct                    // struct with fields
	kindEmpty                     // struct{}
)

func (k payloadKind) structured() bool { return k != kindOpaque }

func (k payloadKind) String() string {
	switch k {
	case kindMap:
		return "map"
	case kindStruct:
		return "struct"
	case kindEmpty:
		return "empty"
	default:
		return "opaque"
	}
}

var (
	fieldsType = reflect.TypeOf(Fields(nil))
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
)

func kindOf(t reflect.Type) payloadKind {
	switch {
	case t.Kind() == reflect.Map && t.ConvertibleTo(fieldsType):
		return kindMap
	case t.Kind() == reflect.Struct && t.NumField() == 0:
		return kindEmpty
	case t.Kind() == reflect.Struct:
		return kindStruct
	default:
		return kindOpaque
	}
}

// cloneValue deep-copies v so that variants never share mutable storage with
// their callers: maps, slices, arrays, pointers and the exported fields of
// structs are copied recursively. Unexported struct fields are copied by value.
func cloneValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, int64, float64:
		return v
	case map[string]any:
		return cloneFields(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return deepCopy(reflect.ValueOf(v), map[uintptr]reflect.Value{}).Interface()
}

// deepCopy copies rv. seen maps already copied pointers to their copies so
// cyclic values terminate.
func deepCopy(rv reflect.Value, seen map[uintptr]reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		it := rv.MapRange()
		for it.Next() {
			out.SetMapIndex(it.Key(), deepCopy(it.Value(), seen))
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(deepCopy(rv.Index(i), seen))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(deepCopy(rv.Index(i), seen))
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return rv
		}
		if c, ok := seen[rv.Pointer()]; ok && c.Type() == rv.Type() {
			return c
		}
		out := reflect.New(rv.Type().Elem())
		seen[rv.Pointer()] = out
		out.Elem().Set(deepCopy(rv.Elem(), seen))
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(deepCopy(rv.Elem(), seen))
		return out
	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				out.Field(i).Set(deepCopy(rv.Field(i), seen))
			}
		}
		return out
	default:
		return rv
	}
}

func cloneFields(m map[string]any) Fields {
	if m == nil {
		return nil
	}
	out := make(Fields, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// acceptsNil reports whether a constructor may substitute an empty payload for
// an absent argument.
func (e *entry) acceptsNil() bool {
	return e.kind == kindMap || e.kind == kindEmpty || e.typ.Kind() == reflect.Interface
}

// emptyPayload is the value substituted for an absent payload.
func (e *entry) emptyPayload() any {
	switch e.kind {
	case kindMap:
		return Fields{}
	case kindEmpty:
		return reflect.Zero(e.typ).Interface()
	default:
		return nil
	}
}

// checkPayload verifies that p can be stored for e.
func (e *entry) checkPayload(p any) error {
	if p == nil {
		if e.acceptsNil() {
			return nil
		}
		return Issues{rootRef().Field(e.name).Issue(CodePayloadType, "payload is required: want "+e.typ.String(), "tag", e.name, "want", e.typ.String())}
	}
	got := reflect.TypeOf(p)
	if !got.AssignableTo(e.typ) {
		return Issues{rootRef().Field(e.name).Issue(CodePayloadType, "want "+e.typ.String()+", got "+got.String(), "tag", e.name, "want", e.typ.String(), "got", got.String())}
	}
	return nil
}

// decodeValue converts raw into a value of type t. The result never shares
// storage with raw. Values that are already assignable are copied; everything
// else goes through mapstructure using the json struct tag, so variants decoded
// from JSON (float64 numbers, map[string]any objects) can be read back as
// their declared payload type. Numbers must convert exactly.
func decodeValue(raw any, t reflect.Type) (any, error) {
	if raw == nil {
		if t == fieldsType {
			return Fields{}, nil
		}
		return reflect.Zero(t).Interface(), nil
	}
	if reflect.TypeOf(raw).AssignableTo(t) {
		c := cloneValue(raw)
		if t.Kind() == reflect.Interface {
			return c, nil
		}
		return reflect.ValueOf(c).Convert(t).Interface(), nil
	}
	out := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		DecodeHook: exactNumberHook,
		Result:     out.Interface(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(cloneValue(raw)); err != nil {
		return nil, err
	}
	return out.Elem().Interface(), nil
}

// exactNumberHook rejects numeric conversions that would lose information:
// fractional floats into integers, and values outside the target's range.
func exactNumberHook(from, to reflect.Type, data any) (any, error) {
	if !isInteger(to.Kind()) || data == nil {
		return data, nil
	}
	v := reflect.ValueOf(data)
	target := reflect.New(to).Elem()
	switch {
	case from.Kind() == reflect.Float32 || from.Kind() == reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		if isUnsigned(to.Kind()) {
			if f < 0 || f >= 1<<64 || target.OverflowUint(uint64(f)) {
				return nil, fmt.Errorf("%v overflows %s", f, to)
			}
		} else if f < -(1<<63) || f >= 1<<63 || target.OverflowInt(int64(f)) {
			return nil, fmt.Errorf("%v overflows %s", f, to)
		}
	case isInteger(from.Kind()) && isUnsigned(from.Kind()):
		u := v.Uint()
		if isUnsigned(to.Kind()) {
			if target.OverflowUint(u) {
				return nil, fmt.Errorf("%d overflows %s", u, to)
			}
		} else if u > math.MaxInt64 || target.OverflowInt(int64(u)) {
			return nil, fmt.Errorf("%d overflows %s", u, to)
		}
	case isInteger(from.Kind()):
		n := v.Int()
		if isUnsigned(to.Kind()) {
			if n < 0 || target.OverflowUint(uint64(n)) {
				return nil, fmt.Errorf("%d overflows %s", n, to)
			}
		} else if target.OverflowInt(n) {
			return nil, fmt.Errorf("%d overflows %s", n, to)
		}
	}
	return data, nil
}

func isInteger(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Uintptr
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

// castTo converts a decoded payload to P. A nil payload yields the zero P.
func castTo[P any](p any) P {
	if p == nil {
		var zero P
		return zero
	}
	return p.(P)
}

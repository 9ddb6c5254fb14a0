package unionize

import (
	"bytes"
	"encoding/json"
	"io"
)

// dupFrame is one open container while scanning for repeated object keys.
type dupFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	at           pathRef
	key          string // last key read (objects)
	index        int    // next element (arrays)
}

// duplicateKeys reports object keys that occur more than once within the same
// object of a JSON document. Decoding into a map silently keeps the last one,
// so a repeated discriminant would otherwise go unnoticed.
func duplicateKeys(data []byte) (Issues, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		iss   Issues
		stack []*dupFrame
	)
	// next is the path of the value about to be read.
	next := func() pathRef {
		if len(stack) == 0 {
			return rootRef()
		}
		top := stack[len(stack)-1]
		if top.object {
			return top.at.Field(top.key)
		}
		return top.at.Index(top.index)
	}
	consumed := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return iss, nil
		}
		if err != nil {
			return iss, err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{':
				stack = append(stack, &dupFrame{object: true, keys: map[string]struct{}{}, expectingKey: true, at: next()})
			case '[':
				stack = append(stack, &dupFrame{at: next()})
			default:
				stack = stack[:len(stack)-1]
				consumed()
			}
			continue
		}
		if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
			top := stack[n-1]
			k, _ := tok.(string)
			if _, dup := top.keys[k]; dup {
				iss = AppendIssues(iss, top.at.Field(k).Issue(CodeDuplicateKey, "key '"+k+"' repeated", "key", k))
			}
			top.keys[k] = struct{}{}
			top.key = k
			top.expectingKey = false
			continue
		}
		consumed()
	}
}

package unionize

import (
	"strconv"
	"strings"
)

// pathRef builds JSON Pointer paths for issues in a chain-safe way.
type pathRef struct {
	parts []string
}

func rootRef() pathRef { return pathRef{} }

// Field appends an escaped segment ('~' -> '~0', '/' -> '~1' per RFC6901).
func (p pathRef) Field(name string) pathRef {
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p pathRef) Index(i int) pathRef {
	return pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at this path. kv alternates parameter names and
// values.
func (p pathRef) Issue(code, hint string, kv ...any) Issue {
	var params map[string]any
	if len(kv) > 1 {
		params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k, _ := kv[i].(string)
			params[k] = kv[i+1]
		}
	}
	return issueAt(p.Pointer(), code, hint, params)
}

package bbasis

import (
	"net/url"
	"sort"
	"strings"
)

// decodeValues turns url encoded values into a nested mapping. Keys use bracket notation the way
// html forms do: "a=1" sets a scalar, "a[]=1" appends to a list and "a[b]=1" nests a mapping. For plain
// keys that repeat, the last value wins.
func decodeValues(vals url.Values) map[string]any {
	out := map[string]any{}

	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := splitKey(key)
		if len(path) == 0 {
			continue
		}

		for _, v := range vals[key] {
			out = setPath(out, path, v)
		}
	}

	return out
}

// splitKey splits "a[b][]" into ["a", "b", ""]. Malformed brackets are kept as part of the name.
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		if key == "" {
			return nil
		}

		return []string{key}
	}

	path := []string{key[:open]}
	rest := key[open:]
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}

		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}

	return path
}

func setPath(m map[string]any, path []string, v string) map[string]any {
	head := path[0]
	if len(path) == 1 {
		m[head] = v
		return m
	}

	if path[1] == "" {
		list, _ := m[head].([]any)
		if len(path) == 2 {
			m[head] = append(list, v)
			return m
		}

		m[head] = append(list, setPath(map[string]any{}, path[2:], v))
		return m
	}

	child, ok := m[head].(map[string]any)
	if !ok {
		child = map[string]any{}
	}

	m[head] = setPath(child, path[1:], v)

	return m
}

package node

import "strings"

// line is one front-matter line with its indentation already measured in
// spaces (two spaces per nesting level, per spec.md section 4.1).
type line struct {
	indent int
	text   string
}

// splitFrontMatterLines converts the raw front-matter block into lines
// with blank lines dropped and indentation measured.
func splitFrontMatterLines(block string) []line {
	var out []line
	for _, raw := range strings.Split(block, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		indent := 0
		for indent < len(raw) && raw[indent] == ' ' {
			indent++
		}
		out = append(out, line{indent: indent / 2 * 2, text: strings.TrimRight(raw[indent:], " \t")})
	}
	return out
}

// parseYAMLSubset parses the restricted YAML subset described in spec.md
// section 4.1 into an ordered map. Values are string, []interface{}
// (flat arrays, including lists of *orderedMap items for nested
// connections), or *orderedMap (nested blocks).
func parseYAMLSubset(lines []line) (*orderedMap, error) {
	i := 0
	return parseMap(lines, &i, 0)
}

// orderedMap preserves key insertion order, needed so re-serialization
// (where applicable) and context/custom field iteration stay deterministic.
type orderedMap struct {
	keys   []string
	values map[string]interface{}
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: make(map[string]interface{})}
}

func (m *orderedMap) set(key string, val interface{}) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

func (m *orderedMap) get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func parseMap(lines []line, i *int, indent int) (*orderedMap, error) {
	result := newOrderedMap()
	for *i < len(lines) {
		ln := lines[*i]
		if ln.indent < indent {
			break
		}
		if ln.indent > indent {
			// Malformed/unexpected extra indentation; skip defensively.
			*i++
			continue
		}
		if strings.HasPrefix(ln.text, "- ") {
			break
		}

		key, val, hasColon := splitKeyVal(ln.text)
		*i++
		if !hasColon {
			continue
		}
		val = strings.TrimSpace(val)

		if val == "" {
			if *i < len(lines) && lines[*i].indent > indent {
				childIndent := lines[*i].indent
				if strings.HasPrefix(lines[*i].text, "- ") {
					list, err := parseList(lines, i, childIndent)
					if err != nil {
						return nil, err
					}
					result.set(key, list)
				} else {
					nested, err := parseMap(lines, i, childIndent)
					if err != nil {
						return nil, err
					}
					result.set(key, nested)
				}
			} else {
				result.set(key, "")
			}
			continue
		}

		if strings.HasPrefix(val, "[") {
			result.set(key, parseInlineArray(val))
		} else {
			result.set(key, unquote(val))
		}
	}
	return result, nil
}

func parseList(lines []line, i *int, indent int) ([]interface{}, error) {
	var items []interface{}
	for *i < len(lines) {
		ln := lines[*i]
		if ln.indent != indent || !strings.HasPrefix(ln.text, "- ") {
			break
		}
		itemText := strings.TrimPrefix(ln.text, "- ")
		*i++

		if key, val, hasColon := splitKeyVal(itemText); hasColon {
			m := newOrderedMap()
			m.set(key, unquote(strings.TrimSpace(val)))
			for *i < len(lines) && lines[*i].indent == indent+2 {
				k2, v2, ok := splitKeyVal(lines[*i].text)
				if !ok {
					break
				}
				m.set(k2, unquote(strings.TrimSpace(v2)))
				*i++
			}
			items = append(items, m)
		} else {
			items = append(items, unquote(strings.TrimSpace(itemText)))
		}
	}
	return items, nil
}

// splitKeyVal splits "key: value" into key and value. A line with no
// value ("key:") returns an empty val with hasColon true.
func splitKeyVal(text string) (key, val string, hasColon bool) {
	idx := strings.Index(text, ":")
	if idx == -1 {
		return text, "", false
	}
	return strings.TrimSpace(text[:idx]), text[idx+1:], true
}

// parseInlineArray parses a one-line bracketed array "[a, b, c]".
func parseInlineArray(val string) []interface{} {
	inner := strings.TrimSuffix(strings.TrimPrefix(val, "["), "]")
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return []interface{}{}
	}
	parts := strings.Split(inner, ",")
	result := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		result = append(result, unquote(p))
	}
	return result
}

// unquote strips a single layer of matching quotes and trims whitespace.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// asStringSlice coerces a parsed value (string or []interface{}) into a
// []string, treating a bare scalar as a single-element slice.
func asStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asOrderedMap(v interface{}) (*orderedMap, bool) {
	m, ok := v.(*orderedMap)
	return m, ok
}

func asList(v interface{}) ([]interface{}, bool) {
	l, ok := v.([]interface{})
	return l, ok
}

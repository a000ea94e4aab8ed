package node

import (
	"fmt"
	"strconv"
	"strings"
)

// parseConnections accepts either accepted shape from spec.md section
// 4.1: a flat array of "type:target:weight" strings, or a nested map of
// connection-type -> list of {target_id, weight}.
func parseConnections(raw interface{}) (order []ConnectionKind, buckets map[ConnectionKind][]Connection, err error) {
	buckets = make(map[ConnectionKind][]Connection)

	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			kind, conn, perr := parseFlatConnection(s)
			if perr != nil {
				return nil, nil, perr
			}
			if _, exists := buckets[kind]; !exists {
				order = append(order, kind)
			}
			buckets[kind] = append(buckets[kind], conn)
		}
	case *orderedMap:
		for _, key := range v.keys {
			kind := ConnectionKind(key)
			val, _ := v.get(key)
			items, ok := asList(val)
			if !ok {
				continue
			}
			for _, item := range items {
				m, ok := asOrderedMap(item)
				if !ok {
					continue
				}
				targetRaw, _ := m.get("target_id")
				weightRaw, _ := m.get("weight")
				weight := 0
				if ws := asString(weightRaw); ws != "" {
					weight, _ = strconv.Atoi(ws)
				}
				if _, exists := buckets[kind]; !exists {
					order = append(order, kind)
				}
				buckets[kind] = append(buckets[kind], Connection{TargetID: asString(targetRaw), Weight: weight})
			}
		}
	}

	return order, buckets, nil
}

// parseFlatConnection parses a single "type:target:weight" string.
func parseFlatConnection(s string) (ConnectionKind, Connection, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return "", Connection{}, fmt.Errorf("invalid connection string %q", s)
	}
	weight, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		weight = 0
	}
	return ConnectionKind(strings.TrimSpace(parts[0])), Connection{
		TargetID: strings.TrimSpace(parts[1]),
		Weight:   weight,
	}, nil
}

// serializeConnections always emits the flat "type:target:weight" array
// form, per spec.md section 4.1 ("connections always serialised as the
// flat array form for parser-robustness").
func serializeConnections(order []ConnectionKind, buckets map[ConnectionKind][]Connection) []string {
	var out []string
	for _, kind := range order {
		for _, c := range buckets[kind] {
			out = append(out, fmt.Sprintf("%s:%s:%d", kind, c.TargetID, c.Weight))
		}
	}
	return out
}

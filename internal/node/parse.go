package node

import (
	"strconv"
	"strings"
	"time"

	"github.com/peniel-r/cortex/internal/cerr"
	"github.com/peniel-r/cortex/internal/statemachine"
)

const delimiter = "---"

// Parse parses raw file bytes into a Node (spec.md section 4.1).
func Parse(data []byte) (*Node, error) {
	text := string(data)

	first, second, body, err := splitDelimiters(text)
	if err != nil {
		return nil, err
	}

	if err := checkConnectionsInBody(body); err != nil {
		return nil, err
	}

	lines := splitFrontMatterLines(text[first:second])
	raw, err := parseYAMLSubset(lines)
	if err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeInvalidYaml, err)
	}

	n := &Node{Body: body}

	idVal, hasID := raw.get("id")
	titleVal, hasTitle := raw.get("title")
	if !hasID || asString(idVal) == "" {
		return nil, cerr.New(cerr.ErrCodeMissingRequiredField, "missing required field: id", nil)
	}
	if !hasTitle || asString(titleVal) == "" {
		return nil, cerr.New(cerr.ErrCodeMissingRequiredField, "missing required field: title", nil)
	}
	n.ID = asString(idVal)
	n.Title = asString(titleVal)

	n.Type = TypeConcept
	if typVal, ok := raw.get("type"); ok {
		if t := Type(asString(typVal)); isKnownType(t) {
			n.Type = t
		}
		// Unknown type strings default to concept with no error
		// (spec.md section 4.1 error kinds: forward-compatible).
	}

	n.Tags = asStringSlice(mgetRaw(raw, "tags"))

	n.Language = "en"
	if langVal, ok := raw.get("language"); ok {
		if s := asString(langVal); s != "" {
			n.Language = s
		}
	}

	if updatedVal, ok := raw.get("updated"); ok {
		if s := asString(updatedVal); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				n.Updated = t
				n.HasUpdated = true
			}
		}
	}

	if hashVal, ok := raw.get("hash"); ok {
		n.Hash = asString(hashVal)
	}

	if connVal, ok := raw.get("connections"); ok {
		order, buckets, perr := parseConnections(connVal)
		if perr != nil {
			return nil, cerr.Wrap(cerr.ErrCodeInvalidFormat, perr)
		}
		n.ConnectionOrder = order
		n.Connections = buckets
	}

	n.LLM = parseLLM(raw)

	initialStatus := ""
	if wt, ok := workflowTypeFor(n.Type); ok {
		initialStatus = statemachine.InitialState(wt)
	}
	if ctxVal, ok := raw.get("context"); ok {
		n.Ctx = parseContext(n.Type, ctxVal, initialStatus)
	} else if wt, ok := workflowTypeFor(n.Type); ok {
		n.Ctx = parseContext(n.Type, nil, statemachine.InitialState(wt))
	}

	return n, nil
}

func workflowTypeFor(t Type) (statemachine.WorkflowType, bool) {
	switch t {
	case TypeIssue:
		return statemachine.WorkflowIssue, true
	case TypeTestCase:
		return statemachine.WorkflowTestCase, true
	case TypeRequirement:
		return statemachine.WorkflowRequirement, true
	default:
		return "", false
	}
}

func isKnownType(t Type) bool {
	switch t {
	case TypeConcept, TypeReference, TypeArtifact, TypeStateMachine, TypeLesson,
		TypeRequirement, TypeTestCase, TypeIssue, TypeFeature:
		return true
	default:
		return false
	}
}

// parseLLM accepts both the nested `_llm` block and the legacy flattened
// `_llm_t`/`_llm_d`/`_llm_k`/`_llm_c`/`_llm_strategy` keys (spec.md
// section 4.1 step 5; read-only per section 9).
func parseLLM(raw *orderedMap) *LLMMetadata {
	if nested, ok := raw.get("_llm"); ok {
		if m, ok := asOrderedMap(nested); ok {
			return &LLMMetadata{
				ShortTitle: asString(mgetRaw(m, "t")),
				Density:    atoiOr(mgetRaw(m, "d"), 0),
				Keywords:   asStringSlice(mgetRaw(m, "k")),
				TokenCount: atoiOr(mgetRaw(m, "c"), 0),
				Strategy:   asString(mgetRaw(m, "strategy")),
			}
		}
	}

	hasLegacy := false
	for _, k := range []string{"_llm_t", "_llm_d", "_llm_k", "_llm_c", "_llm_strategy"} {
		if _, ok := raw.get(k); ok {
			hasLegacy = true
			break
		}
	}
	if !hasLegacy {
		return nil
	}

	return &LLMMetadata{
		ShortTitle: asString(mgetRaw(raw, "_llm_t")),
		Density:    atoiOr(mgetRaw(raw, "_llm_d"), 0),
		Keywords:   asStringSlice(mgetRaw(raw, "_llm_k")),
		TokenCount: atoiOr(mgetRaw(raw, "_llm_c"), 0),
		Strategy:   asString(mgetRaw(raw, "_llm_strategy")),
	}
}

func atoiOr(v interface{}, fallback int) int {
	s := asString(v)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func mgetRaw(m *orderedMap, key string) interface{} {
	v, _ := m.get(key)
	return v
}

// splitDelimiters finds the two "---" delimiter lines and returns the
// byte offsets of the front-matter block (between them) and the body.
func splitDelimiters(text string) (frontStart, frontEnd int, body string, err error) {
	lines := strings.SplitAfter(text, "\n")
	offset := 0
	firstIdx := -1
	secondIdx := -1
	for idx, l := range lines {
		trimmed := strings.TrimRight(l, "\n")
		if strings.TrimSpace(trimmed) == delimiter {
			if firstIdx == -1 {
				firstIdx = idx
			} else {
				secondIdx = idx
				break
			}
		}
	}
	if firstIdx == -1 || secondIdx == -1 {
		return 0, 0, "", cerr.New(cerr.ErrCodeInvalidFormat, "missing '---' front-matter delimiters", nil)
	}

	for idx := 0; idx <= firstIdx; idx++ {
		offset += len(lines[idx])
	}
	frontStart = offset
	for idx := firstIdx + 1; idx < secondIdx; idx++ {
		offset += len(lines[idx])
	}
	frontEnd = offset
	offset += len(lines[secondIdx])

	body = text[offset:]
	return frontStart, frontEnd, body, nil
}

// checkConnectionsInBody fails if the body contains a "connections:" line
// at column zero (spec.md section 3 invariant / section 4.1 step 3).
func checkConnectionsInBody(body string) error {
	for _, l := range strings.Split(body, "\n") {
		if strings.HasPrefix(l, "connections:") {
			return cerr.New(cerr.ErrCodeConnectionsInBody, "body contains a connections: line at column zero", nil)
		}
	}
	return nil
}

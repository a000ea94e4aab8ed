package node

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize renders a Node to its on-disk front-matter + body form.
// Field order is fixed: id, title, tags, type, connections, updated,
// language, hash, _llm, context (spec.md section 4.1). type is omitted
// when it equals concept; language is omitted when it equals "en".
func Serialize(n *Node) []byte {
	var b strings.Builder
	b.WriteString("---\n")

	writeScalar(&b, "id", n.ID)
	writeScalar(&b, "title", n.Title)
	if len(n.Tags) > 0 {
		writeArray(&b, "tags", n.Tags)
	}
	if n.Type != "" && n.Type != TypeConcept {
		writeScalar(&b, "type", string(n.Type))
	}
	if conns := serializeConnections(n.ConnectionOrder, n.Connections); len(conns) > 0 {
		writeArray(&b, "connections", conns)
	}
	if n.HasUpdated {
		writeScalar(&b, "updated", n.Updated.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if n.Language != "" && n.Language != "en" {
		writeScalar(&b, "language", n.Language)
	}
	if n.Hash != "" {
		writeScalar(&b, "hash", n.Hash)
	}
	if n.LLM != nil {
		writeLLM(&b, n.LLM)
	}
	if !n.Ctx.IsEmpty() {
		writeContext(&b, n.Ctx)
	}

	b.WriteString("---\n")
	b.WriteString(n.Body)
	return []byte(b.String())
}

func writeScalar(b *strings.Builder, key, val string) {
	fmt.Fprintf(b, "%s: %s\n", key, quoteIfNeeded(val))
}

func writeArray(b *strings.Builder, key string, vals []string) {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = quoteIfNeeded(v)
	}
	fmt.Fprintf(b, "%s: [%s]\n", key, strings.Join(quoted, ", "))
}

func writeLLM(b *strings.Builder, llm *LLMMetadata) {
	b.WriteString("_llm:\n")
	if llm.ShortTitle != "" {
		fmt.Fprintf(b, "  t: %s\n", quoteIfNeeded(llm.ShortTitle))
	}
	if llm.Density != 0 {
		fmt.Fprintf(b, "  d: %d\n", llm.Density)
	}
	if len(llm.Keywords) > 0 {
		quoted := make([]string, len(llm.Keywords))
		for i, k := range llm.Keywords {
			quoted[i] = quoteIfNeeded(k)
		}
		fmt.Fprintf(b, "  k: [%s]\n", strings.Join(quoted, ", "))
	}
	if llm.TokenCount != 0 {
		fmt.Fprintf(b, "  c: %d\n", llm.TokenCount)
	}
	if llm.Strategy != "" {
		fmt.Fprintf(b, "  strategy: %s\n", quoteIfNeeded(llm.Strategy))
	}
}

func writeContext(b *strings.Builder, ctx Context) {
	fields := serializeContext(ctx)
	if len(fields) == 0 {
		return
	}
	b.WriteString("context:\n")
	for _, f := range fields {
		if f.isList {
			quoted := make([]string, len(f.list))
			for i, v := range f.list {
				quoted[i] = quoteIfNeeded(v)
			}
			fmt.Fprintf(b, "  %s: [%s]\n", f.key, strings.Join(quoted, ", "))
		} else {
			fmt.Fprintf(b, "  %s: %s\n", f.key, quoteIfNeeded(f.scalar))
		}
	}
}

// quoteIfNeeded quotes a value if it contains a character that would
// otherwise be ambiguous against the restricted parser (comma, colon,
// brackets, or leading/trailing whitespace), or empty string.
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, ",:[]") || strings.TrimSpace(s) != s {
		return strconv.Quote(s)
	}
	return s
}

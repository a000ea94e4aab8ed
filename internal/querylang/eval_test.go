package querylang

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peniel-r/cortex/internal/node"
)

type fakeResolver map[string]*node.Node

func (r fakeResolver) Lookup(id string) (*node.Node, bool) {
	n, ok := r[id]
	return n, ok
}

func issueNode(id, status string, priority int) *node.Node {
	n := &node.Node{
		ID:    id,
		Title: "Login fails on retry",
		Type:  node.TypeIssue,
		Tags:  []string{"auth", "urgent"},
		Ctx: node.Context{
			Issue: &node.IssueContext{Status: status, Priority: priority},
		},
	}
	return n
}

func TestEvaluate_FieldEq(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	expr, err := Parse(`type:issue`)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, n, nil))
}

func TestEvaluate_FieldNeq(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	expr, err := Parse(`context.status:neq:closed`)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, n, nil))
}

func TestEvaluate_NumericComparison(t *testing.T) {
	n := issueNode("n-1", "open", 4)
	expr, err := Parse(`context.priority:gt:3`)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, n, nil))
}

func TestEvaluate_TagMatchesAnyElement(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	expr, err := Parse(`tag:urgent`)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, n, nil))
}

func TestEvaluate_AndOrLeftToRight_NoPrecedence(t *testing.T) {
	n := issueNode("n-1", "open", 2)

	// (type:test_case AND context.status:closed) OR tag:urgent, evaluated
	// strictly left to right: false AND false -> false, then OR true -> true.
	expr, err := Parse(`type:test_case AND context.status:closed OR tag:urgent`)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, n, nil))
}

func TestEvaluate_LinkLiteralTarget(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	n.AddConnection(node.ConnBlocks, "n-2", 50)

	expr, err := Parse(`link(blocks, n-2)`)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, n, nil))
}

func TestEvaluate_LinkNestedSubQuery_ResolvesTarget(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	n.AddConnection(node.ConnBlocks, "n-2", 50)

	target := issueNode("n-2", "closed", 1)
	resolver := fakeResolver{"n-2": target}

	expr, err := Parse(`link(blocks, context.status:closed)`)
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, n, resolver))
}

func TestEvaluate_LinkNestedSubQuery_NilResolver_NeverMatches(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	n.AddConnection(node.ConnBlocks, "n-2", 50)

	expr, err := Parse(`link(blocks, context.status:closed)`)
	require.NoError(t, err)

	assert.False(t, Evaluate(expr, n, nil))
}

func TestEvaluate_UnknownField_NeverMatches(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	expr, err := Parse(`nonexistent:whatever`)
	require.NoError(t, err)

	assert.False(t, Evaluate(expr, n, nil))
}

func TestFieldValues_UpdatedFormatsUTC(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	n.Updated = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n.HasUpdated = true

	values, ok := fieldValues(n, "updated")
	require.True(t, ok)
	assert.Equal(t, []string{"2026-01-02T03:04:05Z"}, values)
}

func TestFieldValues_LLMField(t *testing.T) {
	n := issueNode("n-1", "open", 2)
	n.LLM = &node.LLMMetadata{ShortTitle: "login retry bug", Density: 2}

	values, ok := fieldValues(n, "_llm.t")
	require.True(t, ok)
	assert.Equal(t, []string{"login retry bug"}, values)
}

func TestFieldValues_CustomContext(t *testing.T) {
	n := &node.Node{ID: "n-3", Type: node.TypeFeature, Ctx: node.Context{Custom: map[string]string{"owner": "team-a"}}}

	values, ok := fieldValues(n, "context.owner")
	require.True(t, ok)
	assert.Equal(t, []string{"team-a"}, values)
}

package querylang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleFieldCondition(t *testing.T) {
	expr, err := Parse(`type:issue`)
	require.NoError(t, err)

	field, ok := expr.First.(*FieldCond)
	require.True(t, ok)
	assert.Equal(t, "type", field.Ident)
	assert.Equal(t, OpEq, field.Op)
	assert.Equal(t, "issue", field.Value)
	assert.Empty(t, expr.Rest)
}

func TestParse_ExplicitOperator(t *testing.T) {
	expr, err := Parse(`context.priority:gt:3`)
	require.NoError(t, err)

	field, ok := expr.First.(*FieldCond)
	require.True(t, ok)
	assert.Equal(t, "context.priority", field.Ident)
	assert.Equal(t, OpGt, field.Op)
	assert.Equal(t, "3", field.Value)
}

func TestParse_AndOrLeftAssociative_NoPrecedence(t *testing.T) {
	expr, err := Parse(`type:issue AND context.status:open OR tag:urgent`)
	require.NoError(t, err)

	require.Len(t, expr.Rest, 2)
	assert.Equal(t, BoolAnd, expr.Rest[0].Op)
	assert.Equal(t, BoolOr, expr.Rest[1].Op)
}

func TestParse_ParenthesizedSubExpr(t *testing.T) {
	expr, err := Parse(`(type:issue OR type:test_case) AND tag:urgent`)
	require.NoError(t, err)

	require.Len(t, expr.Rest, 1)
	sub, ok := expr.First.(*Expr)
	require.True(t, ok)
	require.Len(t, sub.Rest, 1)
	assert.Equal(t, BoolOr, sub.Rest[0].Op)
}

func TestParse_LinkLiteralTarget(t *testing.T) {
	expr, err := Parse(`link(parent, n-1)`)
	require.NoError(t, err)

	link, ok := expr.First.(*LinkCond)
	require.True(t, ok)
	assert.Equal(t, "parent", link.ConnType)
	assert.Equal(t, "n-1", link.Target.LiteralID)
	assert.Nil(t, link.Target.SubQuery)
}

func TestParse_LinkNestedFieldSubQuery(t *testing.T) {
	expr, err := Parse(`link(blocks, context.status:closed)`)
	require.NoError(t, err)

	link, ok := expr.First.(*LinkCond)
	require.True(t, ok)
	require.NotNil(t, link.Target.SubQuery)
	assert.Equal(t, "context.status", link.Target.SubQuery.Ident)
	assert.Equal(t, "closed", link.Target.SubQuery.Value)
}

func TestParse_QuotedValueWithSpaces(t *testing.T) {
	expr, err := Parse(`title:"hello world"`)
	require.NoError(t, err)

	field, ok := expr.First.(*FieldCond)
	require.True(t, ok)
	assert.Equal(t, "hello world", field.Value)
}

func TestParse_TrailingGarbage_Errors(t *testing.T) {
	_, err := Parse(`type:issue )`)
	assert.Error(t, err)
}

func TestParse_MissingColon_Errors(t *testing.T) {
	_, err := Parse(`type issue`)
	assert.Error(t, err)
}

func TestParse_UnclosedParen_Errors(t *testing.T) {
	_, err := Parse(`(type:issue`)
	assert.Error(t, err)
}

package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peniel-r/cortex/internal/cerr"
)

func TestParse_MinimalNode(t *testing.T) {
	// Given: a node with only the required fields
	raw := "---\nid: n1\ntitle: First Node\n---\nSome body text.\n"

	// When: parsed
	n, err := Parse([]byte(raw))

	// Then: required fields are populated and defaults apply
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, "First Node", n.Title)
	assert.Equal(t, TypeConcept, n.Type)
	assert.Equal(t, "en", n.Language)
	assert.Equal(t, "Some body text.\n", n.Body)
}

func TestParse_MissingID(t *testing.T) {
	raw := "---\ntitle: No ID\n---\nbody\n"

	_, err := Parse([]byte(raw))

	require.Error(t, err)
	assert.Equal(t, cerr.ErrCodeMissingRequiredField, cerr.Code(err))
}

func TestParse_MissingDelimiters(t *testing.T) {
	raw := "id: n1\ntitle: oops\nbody text\n"

	_, err := Parse([]byte(raw))

	require.Error(t, err)
	assert.Equal(t, cerr.ErrCodeInvalidFormat, cerr.Code(err))
}

func TestParse_ConnectionsInBody_Rejected(t *testing.T) {
	raw := "---\nid: n1\ntitle: T\n---\nconnections: oops\nbody\n"

	_, err := Parse([]byte(raw))

	require.Error(t, err)
	assert.Equal(t, cerr.ErrCodeConnectionsInBody, cerr.Code(err))
}

func TestParse_FlatConnections(t *testing.T) {
	raw := "---\nid: n1\ntitle: T\nconnections: [parent:n0:100, child:n2:50]\n---\n"

	n, err := Parse([]byte(raw))

	require.NoError(t, err)
	require.Equal(t, []ConnectionKind{ConnParent, ConnChild}, n.ConnectionOrder)
	assert.Equal(t, []Connection{{TargetID: "n0", Weight: 100}}, n.Connections[ConnParent])
	assert.Equal(t, []Connection{{TargetID: "n2", Weight: 50}}, n.Connections[ConnChild])
}

func TestParse_UnknownTypeDefaultsToConcept(t *testing.T) {
	raw := "---\nid: n1\ntitle: T\ntype: made_up\n---\n"

	n, err := Parse([]byte(raw))

	require.NoError(t, err)
	assert.Equal(t, TypeConcept, n.Type)
}

func TestParse_RequirementGetsInitialStatus(t *testing.T) {
	raw := "---\nid: r1\ntitle: Req\ntype: requirement\n---\n"

	n, err := Parse([]byte(raw))

	require.NoError(t, err)
	require.NotNil(t, n.Ctx.Requirement)
	assert.Equal(t, "draft", n.Ctx.Requirement.Status)
}

func TestParse_LegacyLLMFlattenedKeys(t *testing.T) {
	raw := "---\nid: n1\ntitle: T\n_llm_t: Short\n_llm_d: 2\n_llm_c: 42\n---\n"

	n, err := Parse([]byte(raw))

	require.NoError(t, err)
	require.NotNil(t, n.LLM)
	assert.Equal(t, "Short", n.LLM.ShortTitle)
	assert.Equal(t, 2, n.LLM.Density)
	assert.Equal(t, 42, n.LLM.TokenCount)
}

func TestParse_UpdatedTimestamp(t *testing.T) {
	raw := "---\nid: n1\ntitle: T\nupdated: 2024-01-02T03:04:05Z\n---\n"

	n, err := Parse([]byte(raw))

	require.NoError(t, err)
	require.True(t, n.HasUpdated)
	assert.True(t, n.Updated.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestParseSerialize_RoundTrip(t *testing.T) {
	raw := "---\nid: n1\ntitle: Round Trip\ntags: [a, b]\ntype: issue\nconnections: [blocks:n2:10]\nupdated: 2024-05-01T00:00:00Z\nhash: abc123\n---\nBody content here.\n"

	n, err := Parse([]byte(raw))
	require.NoError(t, err)

	out := Serialize(n)
	n2, err := Parse(out)
	require.NoError(t, err)

	assert.Equal(t, n.ID, n2.ID)
	assert.Equal(t, n.Title, n2.Title)
	assert.Equal(t, n.Tags, n2.Tags)
	assert.Equal(t, n.Type, n2.Type)
	assert.Equal(t, n.Connections, n2.Connections)
	assert.Equal(t, n.Hash, n2.Hash)
	assert.Equal(t, n.Body, n2.Body)
}

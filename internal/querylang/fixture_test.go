package querylang

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/peniel-r/cortex/internal/node"
)

type queryCase struct {
	Query      string `yaml:"query"`
	Structured bool   `yaml:"structured"`
	Matches    bool   `yaml:"matches"`
}

type queryFixture struct {
	Cases []queryCase `yaml:"cases"`
}

func loadQueryFixture(t *testing.T) queryFixture {
	t.Helper()
	data, err := os.ReadFile("testdata/queries.yaml")
	require.NoError(t, err)

	var fixture queryFixture
	require.NoError(t, yaml.Unmarshal(data, &fixture))
	return fixture
}

// fixtureSubject is the node every testdata/queries.yaml case is evaluated
// against: an open issue with priority 2, tagged "urgent", blocking "n-2".
func fixtureSubject() *node.Node {
	n := issueNode("n-1", "open", 2)
	n.AddConnection(node.ConnBlocks, "n-2", 50)
	return n
}

func TestQueriesFixture_DetectAndEvaluate(t *testing.T) {
	fixture := loadQueryFixture(t)
	require.NotEmpty(t, fixture.Cases)

	subject := fixtureSubject()

	for _, c := range fixture.Cases {
		t.Run(c.Query, func(t *testing.T) {
			assert.Equal(t, c.Structured, IsStructuredQuery(c.Query))

			if !c.Structured {
				return
			}

			expr, err := Parse(c.Query)
			require.NoError(t, err)
			assert.Equal(t, c.Matches, Evaluate(expr, subject, nil))
		})
	}
}

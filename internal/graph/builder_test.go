package graph

import (
	"testing"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taggedIngress(t *testing.T, doc string) *pipeline.Pipeline {
	t.Helper()
	_, ing, err := pipeline.Parse([]byte(doc))
	require.NoError(t, err)
	tagged, err := nametag.TagInitial(ing)
	require.NoError(t, err)
	return tagged
}

const fixture = `{
  "pipelines": [
    {
      "name": "ingress",
      "init_table": "A",
      "tables": [
        {"name": "A", "base_default_next": "B", "next_tables": {"hit": "C", "miss": null}},
        {"name": "C", "base_default_next": null, "next_tables": {}}
      ],
      "conditionals": [
        {"name": "B", "true_next": "C", "false_next": null}
      ]
    }
  ]
}`

func TestBuildDeterministicVertexOrder(t *testing.T) {
	ing := taggedIngress(t, fixture)
	g, diags, err := Build(ing)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, []string{
		nametag.Root, nametag.Sink,
		"old_tA", "old_tC", "old_cB",
	}, g.Vertices())
}

func TestBuildInvariants(t *testing.T) {
	ing := taggedIngress(t, fixture)
	g, _, err := Build(ing)
	require.NoError(t, err)

	// Invariant 2: root has exactly one outgoing edge, to the init table.
	rootOut := g.OutEdges(nametag.Root)
	require.Len(t, rootOut, 1)
	assert.Equal(t, "old_tA", rootOut[0].To)
	assert.Equal(t, "base_default_next", rootOut[0].Label)

	// Invariant 5: table A has base_default_next plus one edge per
	// next_tables entry; the "miss": null entry is invariant 3
	// (materialized to sink).
	aOut := g.OutEdges("old_tA")
	require.Len(t, aOut, 3)
	labels := map[string]string{}
	for _, e := range aOut {
		labels[e.Label] = e.To
	}
	assert.Equal(t, "old_cB", labels["base_default_next"])
	assert.Equal(t, "old_tC", labels["hit"])
	assert.Equal(t, nametag.Sink, labels["miss"])

	// Invariant 4: conditional B has exactly two outgoing edges.
	bOut := g.OutEdges("old_cB")
	require.Len(t, bOut, 2)
	bLabels := map[string]string{}
	for _, e := range bOut {
		bLabels[e.Label] = e.To
	}
	assert.Equal(t, "old_tC", bLabels["true_next"])
	assert.Equal(t, nametag.Sink, bLabels["false_next"])
}

func TestBuildDanglingReferenceIsNonFatal(t *testing.T) {
	const withDangling = `{
  "pipelines": [
    {
      "name": "ingress",
      "init_table": "A",
      "tables": [
        {"name": "A", "base_default_next": "ghost", "next_tables": {}}
      ],
      "conditionals": []
    }
  ]
}`
	ing := taggedIngress(t, withDangling)
	g, diags, err := Build(ing)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "ghost", diags[0].Ref)
	assert.Empty(t, g.OutEdges("old_tA"))
}

func TestBuildFailsOnUnknownInitTable(t *testing.T) {
	const bad = `{
  "pipelines": [
    {"name": "ingress", "init_table": "missing", "tables": [], "conditionals": []}
  ]
}`
	ing := taggedIngress(t, bad)
	_, _, err := Build(ing)
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.MalformedPipeline))
}

func TestBuildFailsWithoutTags(t *testing.T) {
	_, ing, err := pipeline.Parse([]byte(fixture))
	require.NoError(t, err)
	_, _, err = Build(ing)
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.MissingTag))
}

package pipeline

import (
	"testing"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validIngress = `{
  "pipelines": [
    {
      "name": "ingress",
      "init_table": "A",
      "tables": [
        {"name": "A", "base_default_next": "B", "next_tables": {}}
      ],
      "conditionals": [
        {"name": "B", "true_next": null, "false_next": null}
      ]
    }
  ]
}`

func TestParseExtractsIngress(t *testing.T) {
	_, ing, err := Parse([]byte(validIngress))
	require.NoError(t, err)
	assert.Equal(t, "A", ing.InitTable)
	assert.Len(t, ing.Tables, 1)
	assert.Len(t, ing.Conditionals, 1)
}

func TestParseMissingIngressFails(t *testing.T) {
	_, _, err := Parse([]byte(`{"pipelines": [{"name": "egress", "init_table": "A"}]}`))
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.MalformedPipeline))
}

func TestParseRejectsActionCalls(t *testing.T) {
	const withActionCalls = `{
  "pipelines": [
    {"name": "ingress", "init_table": "A", "action_calls": {"A": ["foo"]}}
  ]
}`
	_, _, err := Parse([]byte(withActionCalls))
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.MalformedPipeline))
}

func TestRequireTagsFailsWhenMissing(t *testing.T) {
	_, ing, err := Parse([]byte(validIngress))
	require.NoError(t, err)

	err = ing.RequireTags()
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.MissingTag))

	ing.Tables[0].FlexName = "old_tA"
	ing.Conditionals[0].FlexName = "old_cB"
	assert.NoError(t, ing.RequireTags())
}

func TestNextTablesPreservesOrder(t *testing.T) {
	const doc = `{
  "pipelines": [
    {
      "name": "ingress",
      "init_table": "A",
      "tables": [
        {"name": "A", "base_default_next": null, "next_tables": {"hit": "B", "miss": "C", "drop": null}}
      ]
    }
  ]
}`
	_, ing, err := Parse([]byte(doc))
	require.NoError(t, err)

	entries := ing.Tables[0].NextTables.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "hit", entries[0].Label)
	assert.Equal(t, "miss", entries[1].Label)
	assert.Equal(t, "drop", entries[2].Label)
	assert.Nil(t, entries[2].Next)
}

func TestDocumentMarshalRoundTripsNextTableOrder(t *testing.T) {
	doc, ing, err := Parse([]byte(`{
  "pipelines": [
    {
      "name": "ingress",
      "init_table": "A",
      "tables": [
        {"name": "A", "base_default_next": null, "next_tables": {"hit": "B", "miss": "C"}}
      ]
    }
  ]
}`))
	require.NoError(t, err)
	ing.Tables[0].FlexName = "old_tA"

	body, err := doc.Marshal()
	require.NoError(t, err)

	_, reparsed, err := Parse(body)
	require.NoError(t, err)

	if diff := cmp.Diff(ing.Tables[0].NextTables.Entries(), reparsed.Tables[0].NextTables.Entries()); diff != "" {
		t.Errorf("next_tables order changed across a marshal round-trip (-want +got):\n%s", diff)
	}
}

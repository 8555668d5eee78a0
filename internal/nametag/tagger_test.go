package nametag

import (
	"encoding/json"
	"testing"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseIngress(t *testing.T, doc string) *pipeline.Pipeline {
	t.Helper()
	_, ing, err := pipeline.Parse([]byte(doc))
	require.NoError(t, err)
	return ing
}

const samplePipeline = `{
  "pipelines": [
    {
      "name": "ingress",
      "init_table": "A",
      "tables": [{"name": "A", "base_default_next": "B", "next_tables": {}}],
      "conditionals": [{"name": "B", "true_next": null, "false_next": null}]
    }
  ]
}`

func TestTagInitial(t *testing.T) {
	ing := parseIngress(t, samplePipeline)
	tagged, err := TagInitial(ing)
	require.NoError(t, err)
	assert.Equal(t, "old_tA", tagged.Tables[0].FlexName)
	assert.Equal(t, "old_cB", tagged.Conditionals[0].FlexName)
	// original is untouched
	assert.Equal(t, "", ing.Tables[0].FlexName)
}

func TestTagMerged(t *testing.T) {
	ing := parseIngress(t, samplePipeline)
	tagged, err := TagMerged(ing)
	require.NoError(t, err)
	assert.Equal(t, "new_tA", tagged.Tables[0].FlexName)
	assert.Equal(t, "new_cB", tagged.Conditionals[0].FlexName)
}

func TestTagMergedRejectsActionCalls(t *testing.T) {
	ing := parseIngress(t, samplePipeline)
	ing.ActionCalls = json.RawMessage(`{"A": ["foo"]}`)
	_, err := TagMerged(ing)
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.MalformedPipeline))
}

func TestTagMigratePreservesFlxAndConvertsOld(t *testing.T) {
	ing := parseIngress(t, samplePipeline)
	ing.Tables[0].FlexName = "old_tA"
	ing.Conditionals[0].FlexName = MountPoint(2)

	migrated, err := TagMigrate(ing)
	require.NoError(t, err)
	assert.Equal(t, "new_tA", migrated.Tables[0].FlexName)
	assert.Equal(t, MountPoint(2), migrated.Conditionals[0].FlexName)
}

func TestTagMigrateRequiresTags(t *testing.T) {
	ing := parseIngress(t, samplePipeline)
	_, err := TagMigrate(ing)
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.MissingTag))
}

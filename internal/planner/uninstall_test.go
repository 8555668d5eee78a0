package planner

import (
	"testing"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/graph"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postInstallRuntime reconstructs the graph scenario A's Install leaves
// behind: old_tA now points at the mount branch, which funnels through
// new_X back to old_cB.
func postInstallRuntime() *graph.Graph {
	mount := nametag.MountPoint(3)
	g := graph.New()
	g.AddEdge(nametag.Root, "old_tA", "base_default_next")
	g.AddEdge("old_tA", mount, "base_default_next")
	g.AddEdge(mount, "new_tX", "true_next")
	g.AddEdge(mount, "old_cB", "false_next")
	g.AddEdge("new_tX", "old_cB", "base_default_next")
	g.AddEdge("old_cB", nametag.Sink, "true_next")
	g.AddEdge("old_cB", nametag.Sink, "false_next")
	return g
}

func TestUninstallScenarioC(t *testing.T) {
	runtime := postInstallRuntime()

	out, err := Uninstall(runtime, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"trigger off 3",
		"delete tabl ingress new_X",
		"change tabl ingress old_A base_default_next old_B",
		"delete flex ingress flx_flex_func_mount_point_number_$3$",
	}, out)
}

func TestUninstallEveryPrimitiveParses(t *testing.T) {
	out, err := Uninstall(postInstallRuntime(), 3)
	require.NoError(t, err)
	for _, cmd := range out {
		_, err := primitive.Parse(cmd)
		assert.NoError(t, err, cmd)
	}
}

func TestUninstallAtRootReconnectsInit(t *testing.T) {
	mount := nametag.MountPoint(3)
	g := graph.New()
	g.AddEdge(nametag.Root, mount, "base_default_next")
	g.AddEdge(mount, "new_tX", "true_next")
	g.AddEdge(mount, "old_cB", "false_next")
	g.AddEdge("new_tX", "old_cB", "base_default_next")
	g.AddEdge("old_cB", nametag.Sink, "true_next")
	g.AddEdge("old_cB", nametag.Sink, "false_next")

	out, err := Uninstall(g, 3)
	require.NoError(t, err)

	assert.Contains(t, out, "change init ingress old_B")
}

func TestUninstallRejectsMissingMountBranch(t *testing.T) {
	_, err := Uninstall(scenarioARuntime(), 3)
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.InvalidCommand))
}

func TestUninstallRejectsSlotOutOfRange(t *testing.T) {
	_, err := Uninstall(postInstallRuntime(), 200)
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.InvalidCommand))
}

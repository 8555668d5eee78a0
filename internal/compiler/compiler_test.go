package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeCompiler writes a shell script standing in for the external P4
// compiler: it writes a fixed payload as pipeline.json into the output
// directory given as its third argument.
func writeFakeCompiler(t *testing.T, dir, payload string, exitCode int) string {
	t.Helper()
	script := filepath.Join(dir, "fake-compiler.sh")
	body := "#!/bin/sh\n"
	if exitCode != 0 {
		body += "exit " + string(rune('0'+exitCode)) + "\n"
	} else {
		body += "mkdir -p \"$3\"\n"
		body += "cat > \"$3/pipeline.json\" <<'EOF'\n" + payload + "\nEOF\n"
	}
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script
}

func TestRunCompilesAndCaches(t *testing.T) {
	dir := t.TempDir()
	headers := filepath.Join(dir, "headers.p4")
	control := filepath.Join(dir, "control.p4")
	require.NoError(t, os.WriteFile(headers, []byte("header H {}"), 0o644))
	require.NoError(t, os.WriteFile(control, []byte("control C {}"), 0o644))

	bin := writeFakeCompiler(t, dir, `{"pipelines":[]}`, 0)
	cacheDir := filepath.Join(dir, "cache")
	r := New(bin, cacheDir)

	out, err := r.Run(context.Background(), headers, control)
	require.NoError(t, err)
	assert.FileExists(t, out)

	info1, err := os.Stat(out)
	require.NoError(t, err)

	// Second run with identical inputs must hit the cache rather than
	// re-invoking the compiler: truncate the script so a re-invocation
	// would fail visibly.
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 1\n"), 0o755))
	out2, err := r.Run(context.Background(), headers, control)
	require.NoError(t, err)
	assert.Equal(t, out, out2)

	info2, err := os.Stat(out2)
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())
}

func TestRunFailsOnNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	headers := filepath.Join(dir, "headers.p4")
	control := filepath.Join(dir, "control.p4")
	require.NoError(t, os.WriteFile(headers, []byte("h"), 0o644))
	require.NoError(t, os.WriteFile(control, []byte("c"), 0o644))

	bin := writeFakeCompiler(t, dir, "", 3)
	r := New(bin, filepath.Join(dir, "cache"))

	_, err := r.Run(context.Background(), headers, control)
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.CompileFailed))
}

func TestRunFailsOnMissingHeaders(t *testing.T) {
	dir := t.TempDir()
	r := New("/bin/true", filepath.Join(dir, "cache"))

	_, err := r.Run(context.Background(), filepath.Join(dir, "nope.p4"), filepath.Join(dir, "also-nope.p4"))
	require.Error(t, err)
	assert.True(t, diagnostics.Of(err, diagnostics.CompileFailed))
}

func TestCacheKeyStableAcrossCalls(t *testing.T) {
	a := CacheKey([]byte("headers"), []byte("control"))
	b := CacheKey([]byte("headers"), []byte("control"))
	assert.Equal(t, a, b)

	c := CacheKey([]byte("headers"), []byte("different"))
	assert.NotEqual(t, a, c)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFleet = `
switch "leaf1" {
  address   = "127.0.0.1:50051"
  device_id = 1
}

switch "leaf2" {
  address   = "127.0.0.1:50052"
  device_id = 2
  options = {
    compiler_bin = "/usr/local/bin/p4c"
    cache_dir    = "/var/cache/p4ctl"
  }
}
`

func writeFleet(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidFleet(t *testing.T) {
	path := writeFleet(t, validFleet)
	fleet, err := Load(path)
	require.NoError(t, err)

	require.Len(t, fleet.Switches, 2)
	assert.ElementsMatch(t, []string{"leaf1", "leaf2"}, fleet.Registry.Names())

	c, err := fleet.Registry.Get("leaf2")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:50052", c.Address)
	assert.Equal(t, 2, c.DeviceID)
}

func TestLoadDuplicateSwitchNameAggregatesErrors(t *testing.T) {
	body := `
switch "leaf1" {
  address   = "127.0.0.1:50051"
  device_id = 1
}

switch "leaf1" {
  address   = "127.0.0.1:50052"
  device_id = 2
}
`
	path := writeFleet(t, body)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")
}

func TestLoadMissingAddressAggregatesErrors(t *testing.T) {
	body := `
switch "leaf1" {
  address   = ""
  device_id = 1
}
`
	path := writeFleet(t, body)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
}

func TestLoadMalformedHCLFails(t *testing.T) {
	path := writeFleet(t, `switch "leaf1" { address = `)
	_, err := Load(path)
	require.Error(t, err)
}

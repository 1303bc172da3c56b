package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portotpc/mantemos/internal/ledger"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database: /tmp/os.db
id_derivation: max
push_latency_ms: 0
admin_passwords: ["alpha", "beta"]
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/os.db", cfg.Database)
	assert.Equal(t, ledger.DeriveFromMax, cfg.Derivation())
	assert.Zero(t, cfg.PushLatency())
	assert.Equal(t, []string{"alpha", "beta"}, cfg.AdminPasswords)
	assert.Equal(t, ":8090", cfg.Listen, "unset keys keep defaults")
}

func TestLoadConfig_RejectsUnknownDerivation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id_derivation: random\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "id_derivation")
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

package config

import (
	"creditmanager/core"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func TestLoad(t *testing.T) {
	file := writeConfig(t, `
app:
  genesis: 1600000000
ledger:
  underlying: usdc
  configurator: admin
health:
  min_health_factor: 11000
`)

	var cfg core.Config
	require.Nil(t, Load(file, &cfg))

	assert.Equal(t, int64(1_600_000_000), cfg.App.Genesis)
	assert.Equal(t, int64(15), cfg.App.SecondsPerBlock)
	assert.Equal(t, "usdc", cfg.Ledger.Name)
	assert.Equal(t, "admin", cfg.Ledger.Facade)
	assert.Equal(t, "@every 1m", cfg.Health.Schedule)
	assert.Equal(t, 8, cfg.Health.Concurrency)
	assert.Equal(t, uint16(11000), cfg.Health.MinHealthFactor)
}

func TestLoadValidation(t *testing.T) {
	file := writeConfig(t, `
app:
  genesis: 1600000000
ledger:
  underlying: usdc
`)

	var cfg core.Config
	assert.NotNil(t, Load(file, &cfg))

	file = writeConfig(t, `
app:
  genesis: 1600000000
ledger:
  underlying: usdc
  configurator: admin
price_oracle:
  end_point: "not a url"
`)
	assert.NotNil(t, Load(file, &cfg))
}

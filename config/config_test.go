package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxgeo/server/geo"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "America/Sao_Paulo", cfg.Database.Timezone)
	assert.Equal(t, 10, cfg.RateLimit.PerMinute)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, geo.Jundiai, cfg.Map.DefaultCenter.Place())
	assert.Equal(t, geo.Manaus, cfg.Demo.Center.Place())
	assert.Equal(t, 50, cfg.Demo.Records)
}

func TestLoadEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "campaign")
	t.Setenv("VOXGEO_STORE_DRIVER", "memory")
	t.Setenv("VOXGEO_RATELIMIT_BURST", "9")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 9, cfg.RateLimit.Burst)
	assert.Equal(t,
		"host=db.internal user=postgres password= dbname=campaign port=5432 sslmode=disable TimeZone=America/Sao_Paulo",
		cfg.Database.ConnString())
}

func TestLoadDatabaseURLWins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@h:5432/d")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5432/d", cfg.Database.ConnString())
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
log:
  format: json
demo:
  records: 20
  center:
    name: Belém
    lat: -1.4558
    lng: -48.4902
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 20, cfg.Demo.Records)
	assert.Equal(t, "Belém", cfg.Demo.Center.Name)
	assert.InDelta(t, -1.4558, cfg.Demo.Center.Lat, 1e-9)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})

	require.NoError(t, SetupLogger(LogConfig{Level: "debug", Format: "json"}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	_, isJSON := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	require.Error(t, SetupLogger(LogConfig{Level: "loud", Format: "text"}))
	require.Error(t, SetupLogger(LogConfig{Level: "info", Format: "xml"}))
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/swarmdfs/types"
)

// --- Defaults ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "first_available", cfg.Swarm.Policy)
	assert.Equal(t, 1, cfg.Swarm.WorkerBurst)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "swarmdfs:trace:", cfg.Store.Redis.KeyPrefix)
	assert.Equal(t, "sqlite", cfg.Store.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Telemetry.Enabled)

	require.NoError(t, cfg.Validate())
}

// --- Loader ---

func TestLoader_LoadFromYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "swarmdfs.yaml")
	yamlContent := `
swarm:
  policy: capability
  worker_rps: 2.5
  worker_burst: 3
  run_timeout: 90s
server:
  http_port: 8888
store:
  type: redis
  redis:
    addr: redis:6379
    ttl: 1h
log:
  level: debug
  format: json
  output_paths: [stdout]
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, "capability", cfg.Swarm.Policy)
	assert.Equal(t, 2.5, cfg.Swarm.WorkerRPS)
	assert.Equal(t, 3, cfg.Swarm.WorkerBurst)
	assert.Equal(t, 90*time.Second, cfg.Swarm.RunTimeout)
	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, "redis", cfg.Store.Type)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	// fields absent from the YAML keep their defaults
	assert.Equal(t, "swarmdfs:trace:", cfg.Store.Redis.KeyPrefix)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "swarmdfs.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  http_port: 7000\n"), 0o644))

	t.Setenv("SWARMDFS_SERVER_HTTP_PORT", "9999")
	t.Setenv("SWARMDFS_SWARM_POLICY", "capability")
	t.Setenv("SWARMDFS_STORE_DATABASE_DRIVER", "postgres")
	t.Setenv("SWARMDFS_SWARM_RUN_TIMEOUT", "2m")
	t.Setenv("SWARMDFS_METRICS_ENABLED", "false")
	t.Setenv("SWARMDFS_LOG_OUTPUT_PATHS", "stdout, /tmp/swarm.log")

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.HTTPPort)
	assert.Equal(t, "capability", cfg.Swarm.Policy)
	assert.Equal(t, "postgres", cfg.Store.Database.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Swarm.RunTimeout)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"stdout", "/tmp/swarm.log"}, cfg.Log.OutputPaths)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER_HTTP_PORT", "6666")

	cfg, err := NewLoader().WithEnvPrefix("MYAPP").Load()
	require.NoError(t, err)
	assert.Equal(t, 6666, cfg.Server.HTTPPort)
}

func TestLoader_BadEnvValue(t *testing.T) {
	t.Setenv("SWARMDFS_SWARM_WORKER_RPS", "fast")

	_, err := NewLoader().Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWARMDFS_SWARM_WORKER_RPS")
}

func TestLoader_WithValidator(t *testing.T) {
	t.Setenv("SWARMDFS_SERVER_HTTP_PORT", "80")

	_, err := NewLoader().
		WithValidator(func(c *Config) error {
			if c.Server.HTTPPort < 1024 {
				return errors.New("privileged port")
			}
			return nil
		}).
		Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "privileged port")
}

func TestLoader_NonExistentFile(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/swarmdfs.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
}

func TestLoader_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("swarm: [\n"), 0o644))

	_, err := NewLoader().WithConfigPath(configPath).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

// --- Validate ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "unknown policy", modify: func(c *Config) { c.Swarm.Policy = "random" }, errMsg: "unknown assignment policy"},
		{name: "rps without burst", modify: func(c *Config) { c.Swarm.WorkerRPS = 1; c.Swarm.WorkerBurst = 0 }, errMsg: "worker_burst"},
		{name: "negative timeout", modify: func(c *Config) { c.Swarm.RunTimeout = -time.Second }, errMsg: "run_timeout"},
		{name: "bad port", modify: func(c *Config) { c.Server.HTTPPort = 70000 }, errMsg: "invalid HTTP port"},
		{name: "bad store", modify: func(c *Config) { c.Store.Type = "s3" }, errMsg: "unsupported store type"},
		{name: "bad driver", modify: func(c *Config) { c.Store.Type = "sql"; c.Store.Database.Driver = "oracle" }, errMsg: "unsupported database driver"},
		{name: "sql sqlite", modify: func(c *Config) { c.Store.Type = "sql" }},
		{name: "bad sample rate", modify: func(c *Config) { c.Telemetry.SampleRate = 2 }, errMsg: "sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.True(t, types.IsErrorCode(err, types.ErrInvalidConfig))
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "swarm", SSLMode: "disable"}

	d.Driver = "postgres"
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=swarm sslmode=disable", d.DSN())

	d.Driver = "mysql"
	d.Port = 3306
	assert.Equal(t, "u:p@tcp(db:3306)/swarm?parseTime=true", d.DSN())

	d.Driver = "sqlite"
	assert.Equal(t, "swarm", d.DSN())

	d.Driver = "oracle"
	assert.Equal(t, "", d.DSN())
}

func TestLoader_UnsetEnvKeepsValue(t *testing.T) {
	t.Setenv("SWARMDFS_SWARM_POLICY", "")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Swarm.Policy, cfg.Swarm.Policy)
}

func TestParseEnvValue_UnsupportedType(t *testing.T) {
	_, err := parseEnvValue(reflect.TypeOf(map[string]int{}), "x")
	require.Error(t, err)
}

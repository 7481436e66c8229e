// =============================================================================
// 📦 swarmdfs configuration
// =============================================================================
// Defaults, then an optional YAML file, then SWARMDFS_* environment overrides.
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("swarmdfs.yaml").
//	    Load()
// =============================================================================
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/types"
)

// =============================================================================
// 🎯 Config sections
// =============================================================================

// Config is the complete swarmdfs configuration.
type Config struct {
	Swarm     SwarmConfig     `yaml:"swarm" env:"SWARM"`
	Server    ServerConfig    `yaml:"server" env:"SERVER"`
	Store     StoreConfig     `yaml:"store" env:"STORE"`
	Log       LogConfig       `yaml:"log" env:"LOG"`
	Metrics   MetricsConfig   `yaml:"metrics" env:"METRICS"`
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// SwarmConfig controls traversal and delegation.
type SwarmConfig struct {
	// Policy is first_available or capability. A playbook policy overrides it.
	Policy string `yaml:"policy" env:"POLICY"`
	// WorkerRPS limits task executions per worker per second; <= 0 disables it.
	WorkerRPS   float64 `yaml:"worker_rps" env:"WORKER_RPS"`
	WorkerBurst int     `yaml:"worker_burst" env:"WORKER_BURST"`
	// RunTimeout bounds one Run; 0 means no timeout.
	RunTimeout time.Duration `yaml:"run_timeout" env:"RUN_TIMEOUT"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects where traces are persisted.
type StoreConfig struct {
	// Type is memory, redis or sql.
	Type     string         `yaml:"type" env:"TYPE"`
	Redis    RedisConfig    `yaml:"redis" env:"REDIS"`
	Database DatabaseConfig `yaml:"database" env:"DATABASE"`
}

// RedisConfig is used when store.type is redis.
type RedisConfig struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	Password  string `yaml:"password" env:"PASSWORD"`
	DB        int    `yaml:"db" env:"DB"`
	PoolSize  int    `yaml:"pool_size" env:"POOL_SIZE"`
	KeyPrefix string `yaml:"key_prefix" env:"KEY_PREFIX"`
	// TTL expires stored traces; 0 keeps them forever.
	TTL time.Duration `yaml:"ttl" env:"TTL"`
}

// DatabaseConfig is used when store.type is sql.
type DatabaseConfig struct {
	// Driver is postgres, mysql or sqlite.
	Driver   string `yaml:"driver" env:"DRIVER"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	// Name is the database name, or the file path for sqlite.
	Name            string        `yaml:"name" env:"NAME"`
	SSLMode         string        `yaml:"ssl_mode" env:"SSL_MODE"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format       string   `yaml:"format" env:"FORMAT"`
	OutputPaths  []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	EnableCaller bool     `yaml:"enable_caller" env:"ENABLE_CALLER"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	ServiceName  string  `yaml:"service_name" env:"SERVICE_NAME"`
	SampleRate   float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// =============================================================================
// 🔧 Loader
// =============================================================================

// DefaultEnvPrefix prefixes every environment override, e.g. SWARMDFS_SWARM_POLICY.
const DefaultEnvPrefix = "SWARMDFS"

var durationType = reflect.TypeOf(time.Duration(0))

// Loader builds a Config from defaults, an optional YAML file and the environment.
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a Loader using DefaultEnvPrefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: DefaultEnvPrefix}
}

// WithConfigPath sets the YAML file. A missing file keeps the defaults.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix replaces the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator adds a check run after all sources are merged.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load merges defaults, the YAML file and env overrides, in that order.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := readYAML(l.configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := applyEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}
	return cfg, nil
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv walks the env-tagged fields of v. Nested structs extend the key,
// so Store.Redis.Addr reads <prefix>_STORE_REDIS_ADDR.
func applyEnv(v reflect.Value, prefix string) error {
	for i := 0; i < v.NumField(); i++ {
		tag := v.Type().Field(i).Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + "_" + tag
		field := v.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field, key); err != nil {
				return err
			}
			continue
		}

		raw, ok := os.LookupEnv(key)
		if !ok || raw == "" || !field.CanSet() {
			continue
		}
		parsed, err := parseEnvValue(field.Type(), raw)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		field.Set(parsed)
	}
	return nil
}

// parseEnvValue converts raw into a value of type t. Durations use
// time.ParseDuration ("30s"); string slices are comma separated.
func parseEnvValue(t reflect.Type, raw string) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	switch {
	case t == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return out, err
		}
		out.SetInt(int64(d))
	case t.Kind() == reflect.String:
		out.SetString(raw)
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetInt(n)
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetFloat(f)
	case t.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String:
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		out.Set(reflect.ValueOf(parts))
	default:
		return out, fmt.Errorf("unsupported field type %s", t)
	}
	return out, nil
}

// =============================================================================
// 🔍 Validation
// =============================================================================

// Validate reports every invalid setting in one INVALID_CONFIG error.
func (c *Config) Validate() error {
	var errs []string

	if _, err := swarm.PolicyByName(c.Swarm.Policy); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Swarm.WorkerRPS > 0 && c.Swarm.WorkerBurst <= 0 {
		errs = append(errs, "worker_burst must be positive when worker_rps is set")
	}
	if c.Swarm.RunTimeout < 0 {
		errs = append(errs, "run_timeout must not be negative")
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "invalid HTTP port")
	}

	switch c.Store.Type {
	case "memory", "redis":
	case "sql":
		switch c.Store.Database.Driver {
		case "postgres", "mysql", "sqlite":
		default:
			errs = append(errs, fmt.Sprintf("unsupported database driver %q", c.Store.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported store type %q", c.Store.Type))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, "telemetry sample_rate must be between 0 and 1")
	}

	if len(errs) > 0 {
		return types.NewError(types.ErrInvalidConfig, "config validation errors: "+strings.Join(errs, "; "))
	}

	return nil
}

// DSN builds the driver-specific connection string. For sqlite it is the file path.
func (d *DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true",
			d.User, d.Password, d.Host, d.Port, d.Name,
		)
	case "sqlite":
		return d.Name
	default:
		return ""
	}
}

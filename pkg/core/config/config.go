package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// Discovery modes
const (
	DiscoveryEtcd   = "etcd"
	DiscoveryRedis  = "redis"
	DiscoveryStatic = "static"
)

// Store kinds for the dev replica
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// DefaultDiscoveryKey is the coordination-store key listing backend endpoints
const DefaultDiscoveryKey = "concert-servers"

// Config holds the complete application configuration
type Config struct {
	Client    ClientConfig    `toml:"client" yaml:"client"`
	Discovery DiscoveryConfig `toml:"discovery" yaml:"discovery"`
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// ClientConfig holds the resilience settings shared by every facade
type ClientConfig struct {
	RetryAttempts int      `toml:"retry_attempts" yaml:"retry_attempts"`
	RetryInterval Duration `toml:"retry_interval" yaml:"retry_interval"`
	CallTimeout   Duration `toml:"call_timeout" yaml:"call_timeout"`
	DrainTimeout  Duration `toml:"drain_timeout" yaml:"drain_timeout"`
	Compression   string   `toml:"compression" yaml:"compression"`
}

// DiscoveryConfig selects how backend endpoints are resolved
type DiscoveryConfig struct {
	Mode            string   `toml:"mode" yaml:"mode"`
	Key             string   `toml:"key" yaml:"key"`
	EtcdEndpoints   []string `toml:"etcd_endpoints" yaml:"etcd_endpoints"`
	RedisAddr       string   `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password" yaml:"redis_password"`
	StaticEndpoints []string `toml:"static_endpoints" yaml:"static_endpoints"`
	Timeout         Duration `toml:"timeout" yaml:"timeout"`
}

// ServerConfig holds the dev replica settings used by `mtix serve`
type ServerConfig struct {
	Host       string `toml:"host" yaml:"host"`
	Port       int    `toml:"port" yaml:"port"`
	Advertise  string `toml:"advertise" yaml:"advertise"`
	Store      string `toml:"store" yaml:"store"`
	SQLitePath string `toml:"sqlite_path" yaml:"sqlite_path"`
	AMQPURL    string `toml:"amqp_url" yaml:"amqp_url"`
	Register   bool   `toml:"register" yaml:"register"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file (by extension),
// applies MTIX_* environment overrides and defaults, and validates.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, tixerror.Config("config file not found: %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, tixerror.Wrap(err, "failed to read config").WithCode(tixerror.CodeConfig)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, tixerror.Wrap(err, "failed to parse config").WithCode(tixerror.CodeConfig)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, tixerror.Wrap(err, "failed to parse config").WithCode(tixerror.CodeConfig)
		}
	}

	return finish(&cfg)
}

// LoadFromEnv reads an optional .env file, then loads the file named by
// MTIX_CONFIG or the first default location found. Without any file the
// defaults are used, so a client works out of the box.
func LoadFromEnv() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	path := os.Getenv("MTIX_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./configs/mtix.toml",
			"./configs/mtix.yaml",
			"./mtix.toml",
			filepath.Join(os.Getenv("HOME"), ".config/mtix/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path != "" {
		return Load(path)
	}
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Client
	if c.Client.RetryAttempts == 0 {
		c.Client.RetryAttempts = 3
	}
	if c.Client.RetryInterval.Duration == 0 {
		c.Client.RetryInterval.Duration = 2000 * time.Millisecond
	}
	if c.Client.CallTimeout.Duration == 0 {
		c.Client.CallTimeout.Duration = 10 * time.Second
	}
	if c.Client.DrainTimeout.Duration == 0 {
		c.Client.DrainTimeout.Duration = 5 * time.Second
	}

	// Discovery
	if c.Discovery.Mode == "" {
		c.Discovery.Mode = DiscoveryEtcd
	}
	if c.Discovery.Key == "" {
		c.Discovery.Key = DefaultDiscoveryKey
	}
	if len(c.Discovery.EtcdEndpoints) == 0 {
		c.Discovery.EtcdEndpoints = []string{"http://localhost:2379"}
	}
	if c.Discovery.RedisAddr == "" {
		c.Discovery.RedisAddr = "localhost:6379"
	}
	if c.Discovery.Timeout.Duration == 0 {
		c.Discovery.Timeout.Duration = 5 * time.Second
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 50051
	}
	if c.Server.Store == "" {
		c.Server.Store = StoreMemory
	}
	if c.Server.SQLitePath == "" {
		c.Server.SQLitePath = "./data/mtix.db"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// applyEnv applies MTIX_* overrides on top of the file values
func (c *Config) applyEnv() error {
	if v := os.Getenv("MTIX_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return tixerror.Config("invalid MTIX_RETRY_ATTEMPTS %q", v)
		}
		c.Client.RetryAttempts = n
	}
	if v := os.Getenv("MTIX_RETRY_INTERVAL_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return tixerror.Config("invalid MTIX_RETRY_INTERVAL_MS %q", v)
		}
		c.Client.RetryInterval.Duration = time.Duration(n) * time.Millisecond
	}
	if v := os.Getenv("MTIX_CALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return tixerror.Config("invalid MTIX_CALL_TIMEOUT %q", v)
		}
		c.Client.CallTimeout.Duration = d
	}
	if v := os.Getenv("MTIX_DISCOVERY_MODE"); v != "" {
		c.Discovery.Mode = v
	}
	if v := os.Getenv("MTIX_DISCOVERY_KEY"); v != "" {
		c.Discovery.Key = v
	}
	if v := os.Getenv("MTIX_ETCD_ENDPOINTS"); v != "" {
		c.Discovery.EtcdEndpoints = splitList(v)
	}
	if v := os.Getenv("MTIX_REDIS_ADDR"); v != "" {
		c.Discovery.RedisAddr = v
	}
	if v := os.Getenv("MTIX_STATIC_ENDPOINTS"); v != "" {
		c.Discovery.StaticEndpoints = splitList(v)
	}
	if v := os.Getenv("MTIX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MTIX_AMQP_URL"); v != "" {
		c.Server.AMQPURL = v
	}
	return nil
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Discovery.RedisPassword = os.ExpandEnv(c.Discovery.RedisPassword)
	c.Server.SQLitePath = os.ExpandEnv(c.Server.SQLitePath)
	c.Server.AMQPURL = os.ExpandEnv(c.Server.AMQPURL)
}

// Validate returns a configuration error for values that would make the
// client unusable. It is the only error class allowed to abort construction.
func (c *Config) Validate() error {
	if c.Client.RetryAttempts < 1 {
		return tixerror.Config("client.retry_attempts must be >= 1, got %d", c.Client.RetryAttempts)
	}
	if c.Client.RetryInterval.Duration < 0 {
		return tixerror.Config("client.retry_interval must not be negative")
	}
	if c.Client.CallTimeout.Duration < 0 {
		return tixerror.Config("client.call_timeout must not be negative")
	}
	switch c.Client.Compression {
	case "", "none", "zstd", "gzip":
	default:
		return tixerror.Config("unknown client.compression %q", c.Client.Compression)
	}

	switch c.Discovery.Mode {
	case DiscoveryEtcd:
		if len(c.Discovery.EtcdEndpoints) == 0 {
			return tixerror.Config("discovery.etcd_endpoints is empty")
		}
	case DiscoveryRedis:
		if c.Discovery.RedisAddr == "" {
			return tixerror.Config("discovery.redis_addr is empty")
		}
	case DiscoveryStatic:
	default:
		return tixerror.Config("unknown discovery.mode %q", c.Discovery.Mode)
	}
	if c.Discovery.Key == "" {
		return tixerror.Config("discovery.key is empty")
	}

	switch c.Server.Store {
	case StoreMemory, StoreSQLite:
	default:
		return tixerror.Config("unknown server.store %q", c.Server.Store)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return tixerror.Config("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// ServerAddress returns the listen address of the dev replica
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AdvertiseAddress returns the address the dev replica registers under
func (c *Config) AdvertiseAddress() string {
	if c.Server.Advertise != "" {
		return c.Server.Advertise
	}
	host := c.Server.Host
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, c.Server.Port)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

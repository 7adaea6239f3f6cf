package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/skein/config.toml. Every field has a working default, so the
// file is optional.
type Config struct {
	Cache     CacheConfig     `toml:"cache"`
	Positions PositionsConfig `toml:"positions"`
	Server    ServerConfig    `toml:"server"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // file (default), redis, none
	Dir     string      `toml:"dir"`     // file backend; empty means XDG cache dir
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// PositionsConfig selects and configures saved-position storage.
type PositionsConfig struct {
	Backend string      `toml:"backend"` // file (default), mongo, none
	Dir     string      `toml:"dir"`     // file backend; empty means XDG data dir
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the mongo position store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache:     CacheConfig{Backend: BackendFile},
		Positions: PositionsConfig{Backend: BackendFile},
		Server:    ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads a TOML config file and applies defaults to unset fields.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return cfg, nil
}

// LoadConfigOrDefault loads the standard config file, returning defaults on
// any failure. CLI startup must not fail on a broken optional file.
func LoadConfigOrDefault() Config {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// ConfigPath returns the standard config file location.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func applyConfigDefaults(cfg *Config) {
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = BackendFile
	}
	if cfg.Positions.Backend == "" {
		cfg.Positions.Backend = BackendFile
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Cache.Backend == BackendRedis && cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}
	if cfg.Positions.Backend == BackendMongo && cfg.Positions.Mongo.URI == "" {
		cfg.Positions.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Positions.Backend == BackendMongo && cfg.Positions.Mongo.Database == "" {
		cfg.Positions.Mongo.Database = appName
	}
}

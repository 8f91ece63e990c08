package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full server configuration.
type Config struct {
	Port      string          `koanf:"port"`
	CachePath string          `koanf:"cache_path"`
	MaxRows   int             `koanf:"max_rows"`
	Ollama    OllamaConfig    `koanf:"ollama"`
	Warehouse WarehouseConfig `koanf:"warehouse"`
}

// OllamaConfig points at the local SQL-generation model.
type OllamaConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
}

// WarehouseConfig holds the Postgres connection settings.
type WarehouseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// DefaultConfigFile is looked for in the working directory when no
// explicit path is given.
const DefaultConfigFile = "courtside.yaml"

// Load reads configuration in precedence order: defaults, then the yaml
// file (if present), then COURTSIDE_ environment variables
// (COURTSIDE_OLLAMA__MODEL maps to ollama.model).
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"port":              "8001",
		"cache_path":        "./courtside-cache.db",
		"max_rows":          500,
		"ollama.base_url":   "http://localhost:11434",
		"ollama.model":      "qwen3-vl:2b",
		"warehouse.host":    "localhost",
		"warehouse.port":    5432,
		"warehouse.user":    "postgres",
		"warehouse.dbname":  "courtside",
		"warehouse.sslmode": "disable",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider("COURTSIDE_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "COURTSIDE_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".odbcx"
	configName = "odbcx"
	configType = "yaml"
	envPrefix  = "ODBCX"
)

// Load reads the configuration from path, or when path is empty from
// odbcx.yaml in the working directory or ~/.odbcx. Environment variables
// prefixed with ODBCX_ override file values, e.g. ODBCX_DSN or
// ODBCX_REWRITE_DECOMPOSE_MODIFY. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("driver", def.Driver)
	v.SetDefault("dsn", def.DSN)
	v.SetDefault("dialect", def.Dialect)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("slow_threshold", def.SlowThreshold)
	v.SetDefault("column_cache_ttl", def.ColumnCacheTTL)
	v.SetDefault("log_level", def.LogLevel)
	// Keys without a default are only seen in the environment when bound.
	for _, key := range []string{
		"prepared_statements",
		"identifiers.quote",
		"identifiers.upcase",
		"rewrite.for_update_commit",
		"rewrite.identity_insert",
		"rewrite.decompose_modify",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, configDir))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Write renders cfg as YAML. The DSN is redacted.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}

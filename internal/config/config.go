package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

/*
Config precedence, highest to lowest:

1. Runtime overrides (CLI flags)
2. Environment variables (TRACETAIL_*, plus a .env file via godotenv)
3. Local project config (.tracetail/*.tracetail.{yaml,json})
4. Global user config ($XDG_CONFIG_HOME/tracetail/*.tracetail.{yaml,json})
5. Embedded defaults (defaults.tracetail.yaml)

Multiple config files in a directory merge alphabetically; maps merge deeply,
scalars and lists override. The merged result is validated against
ConfigSchema before use.
*/

//go:embed defaults.tracetail.yaml
var defaultsYAML []byte

// Config holds the merged configuration and its viper instance.
type Config struct {
	v  *viper.Viper
	mu sync.RWMutex
}

// findConfigFiles returns all *.tracetail.{yaml,json} files in dir, sorted.
func findConfigFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".tracetail.yaml") ||
			strings.HasSuffix(name, ".tracetail.json") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// New loads and merges configuration from all sources.
func New() (*Config, error) {
	c := &Config{v: viper.New()}

	c.v.SetConfigType("yaml")
	if err := c.v.ReadConfig(bytes.NewReader(defaultsYAML)); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := loadEnv(c.v); err != nil {
		return nil, err
	}

	if err := c.loadConfigDirs(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) loadConfigDirs() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	globalDir := filepath.Join(xdgConfig, "tracetail")
	localDir := ".tracetail"

	for _, dir := range []string{globalDir, localDir} {
		files, err := findConfigFiles(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		for _, f := range files {
			v := viper.New()
			v.SetConfigFile(f)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config file %s: %w", f, err)
			}
			if err := c.v.MergeConfigMap(v.AllSettings()); err != nil {
				return fmt.Errorf("error merging config from %s: %w", f, err)
			}
		}
	}
	return nil
}

// Validate checks the merged configuration against the schema.
func (c *Config) Validate() error {
	schema, err := c.Schema()
	if err != nil {
		return err
	}

	validate := validator.New()
	if err := validate.Struct(schema); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// Schema unmarshals the merged configuration into its typed form.
func (c *Config) Schema() (*ConfigSchema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var schema ConfigSchema
	if err := c.v.Unmarshal(&schema); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &schema, nil
}

// Print writes the merged configuration as YAML to stdout.
func (c *Config) Print() error {
	c.mu.RLock()
	settings := c.v.AllSettings()
	c.mu.RUnlock()

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

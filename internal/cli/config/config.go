package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/psviderski/cpualloc/internal/cli/output"
	"github.com/shopspring/decimal"
)

const (
	DefaultConfigPath = "~/.config/cpualloc/config.yaml"
	DefaultHours      = 1
)

type Config struct {
	// Catalog is a path or an HTTP(S) URL of the catalog of server offers.
	Catalog string        `yaml:"catalog,omitempty"`
	Request RequestConfig `yaml:"request"`
	Output  OutputConfig  `yaml:"output"`

	// path is the file path config is read from.
	path string
}

// RequestConfig holds the default allocation request parameters.
type RequestConfig struct {
	// File is a path to a request file in YAML or .properties format that overrides the parameters below.
	File     string           `yaml:"file,omitempty"`
	Hours    int              `yaml:"hours,omitempty"`
	MinCPUs  *int             `yaml:"min_cpus,omitempty"`
	MaxPrice *decimal.Decimal `yaml:"max_price,omitempty"`
}

type OutputConfig struct {
	// Format is the report format: table, json, or yaml.
	Format string `yaml:"format,omitempty"`
	// Path is a file path the report is additionally written to.
	Path string `yaml:"path,omitempty"`
}

// Default returns a config with the default values that is saved to path.
func Default(path string) *Config {
	return &Config{
		Request: RequestConfig{Hours: DefaultHours},
		Output:  OutputConfig{Format: output.FormatTable},
		path:    path,
	}
}

func NewFromFile(path string) (*Config, error) {
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("check file permissions '%s': %w", path, err)
	}
	c := Default(path)
	if os.IsNotExist(err) {
		return c, nil
	}

	if err = c.Read(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Read() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read config file '%s': %w", c.path, err)
	}
	if err = yaml.UnmarshalWithOptions(data, c, yaml.CustomUnmarshaler(unmarshalDecimal)); err != nil {
		return fmt.Errorf("parse config file '%s': %s", c.path, yaml.FormatError(err, false, true))
	}

	return c.Validate()
}

// Validate checks that the config values are usable.
func (c *Config) Validate() error {
	if c.Request.Hours < 0 {
		return fmt.Errorf("invalid config: request hours must not be negative: %d", c.Request.Hours)
	}
	if c.Output.Format != "" {
		if err := output.ValidateFormat(c.Output.Format); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

func (c *Config) Save() error {
	dir, _ := filepath.Split(c.path)
	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create config directory '%s': %w", dir, err)
		}
	}

	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("write config file '%s': %w", c.path, err)
	}

	encoder := yaml.NewEncoder(f, yaml.Indent(2), yaml.IndentSequence(true))
	if err = encoder.Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode config file '%s': %w", c.path, err)
	}
	return f.Close()
}

// unmarshalDecimal decodes a YAML number or a quoted string into a decimal without a float conversion.
func unmarshalDecimal(d *decimal.Decimal, b []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"'`))
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal number %q: %w", s, err)
	}
	*d = v
	return nil
}

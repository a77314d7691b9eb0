package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config
// is not given.
const DefaultConfigFile = ".ocla.yaml"

// Config is the optional project configuration. Every field has a
// working zero value; command-line flags override file values.
type Config struct {
	// CoreSuffix and SubsystemSuffix override the module names the
	// classifier matches against.
	CoreSuffix      string `yaml:"core_suffix,omitempty"`
	SubsystemSuffix string `yaml:"subsystem_suffix,omitempty"`

	// Database is the run history SQLite path. Empty disables history.
	Database string `yaml:"database,omitempty"`

	// Top pins the top module name instead of the netlist attribute.
	Top string `yaml:"top,omitempty"`
}

// LoadConfig reads a YAML config file. A missing default config file is
// not an error; a missing explicit path is.
func LoadConfig(path string, explicit bool) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

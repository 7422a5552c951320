// Configuration loading for the facet CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/fusion-tools/facet/pkg/types"
)

// Configuration file constants.
const (
	configFileName = "config"
	configFileType = "yaml"
)

// Configuration keys in config.yaml.
const (
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyFacetingTol = "faceting_tol"
)

// defaultConfigYAML is written to the config directory on first run.
const defaultConfigYAML = `# facet configuration
#
# backend selects the storage backend for geometry databases.
# Supported values: sqlite
backend: sqlite

# data_dir sets the geometry database directory. Leave empty to use
# $(CWD)/.facet-db. The --data-dir flag and FACET_DATA_DIR environment
# variable take precedence over this value.
data_dir: ""

# faceting_tol records the tolerance used when the surface mesh was
# faceted from the source CAD model. Stored as metadata in every
# database built with this configuration.
faceting_tol: 0.001
`

// loadConfig reads config.yaml from the given directory. A missing file
// is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyFacetingTol, types.DefaultFacetingTol)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// ensureConfigDir creates the configuration directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile writes the default config.yaml if none exists.
// Returns the path of the config file and whether it was created.
func ensureDefaultConfigFile(configDir string) (string, bool, error) {
	path := filepath.Join(configDir, configFileName+"."+configFileType)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, err
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}

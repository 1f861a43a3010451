package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked for in the input directory when no --config
// flag is given. A missing default file is not an error.
const DefaultFileName = "clipstitch.yaml"

// LoadFile overlays settings from a YAML file onto cfg. Only keys present
// in the file are touched; everything else keeps its current value, so the
// precedence is defaults < settings file < flags < prompt answers.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse settings file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

// LoadDefaultFile loads DefaultFileName from dir when it exists. Returns
// (false, nil) when the file is absent.
func LoadDefaultFile(dir string, cfg *Config) (bool, error) {
	path := dir + string(os.PathSeparator) + DefaultFileName
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := LoadFile(path, cfg); err != nil {
		return false, err
	}
	return true, nil
}

package cli

// This file contains the optional YAML defaults file for the run command.
// Explicit command-line flags always win over file values.

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Collection string `yaml:"collection"`
	VardirRoot string `yaml:"vardir_root"`
	PortBase   int    `yaml:"port_base"`
	ResultsDir string `yaml:"results_dir"`
	Preload    string `yaml:"preload"`
	JUnit      bool   `yaml:"junit"`
}

func parseFileConfig(data []byte) (fileConfig, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

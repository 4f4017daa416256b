package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from repograph.yml.
type ProjectConfig struct {
	OutputDir    string   `yaml:"outputDir,omitempty"`
	Languages    []string `yaml:"languages,omitempty"`
	ExcludeDirs  []string `yaml:"excludeDirs,omitempty"`
	UseGitignore *bool    `yaml:"useGitignore,omitempty"`
	MaxWorkers   int      `yaml:"maxWorkers,omitempty"`
	MaxCallSites int      `yaml:"maxCallSites,omitempty"`
	Verbose      bool     `yaml:"verbose,omitempty"`
}

// GitignoreEnabled defaults to true when the key is absent.
func (c *ProjectConfig) GitignoreEnabled() bool {
	return c.UseGitignore == nil || *c.UseGitignore
}

// Load attempts to read repograph.yml or repograph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"repograph.yml", "repograph.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

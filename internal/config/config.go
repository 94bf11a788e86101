// Package config provides configuration management for pagesmith using Viper
// for loading from files, environment variables and command-line flags.
//
// A configuration holds a set of named build targets. Each target maps one or
// more destination directories to source template globs and carries its own
// options, which are layered over the shared defaults section:
//
//	defaults:
//	  layout: src/templates/layouts/layout.hbs
//	  partials: [src/templates/partials/**/*.hbs]
//	  data: [src/data/*.json]
//	targets:
//	  project:
//	    options:
//	      assets: dist/assets
//	    files:
//	      - dest: dist
//	        src: [src/templates/pages/*.hbs]
//	subbuilds:
//	  - themes/**/.pagesmith.yml
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/brandscale/pagesmith/internal/errors"
)

// Config is the decoded configuration file.
type Config struct {
	Defaults  map[string]interface{} `mapstructure:"defaults"`
	Targets   map[string]Target      `mapstructure:"targets"`
	SubBuilds []string               `mapstructure:"subbuilds"`
}

// Target is one named build configuration.
type Target struct {
	Name    string                 `mapstructure:"-" json:"name" yaml:"name"`
	Engine  string                 `mapstructure:"engine" json:"engine,omitempty" yaml:"engine,omitempty"`
	Options map[string]interface{} `mapstructure:"options" json:"options,omitempty" yaml:"options,omitempty"`
	Files   []FileMapping          `mapstructure:"files" json:"files" yaml:"files"`
}

// FileMapping pairs a destination directory with the source globs rendered into it.
type FileMapping struct {
	Dest string   `mapstructure:"dest" json:"dest" yaml:"dest"`
	Src  []string `mapstructure:"src" json:"src" yaml:"src"`
}

// Load decodes the global viper instance into a Config.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes v into a Config and validates it.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Viper's default hooks split strings on commas, which breaks brace globs like *.{json,yml}.
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.WrapConfig(err, "failed to decode configuration")
	}

	if cfg.Defaults == nil {
		cfg.Defaults = make(map[string]interface{})
	}
	if cfg.Targets == nil {
		cfg.Targets = make(map[string]Target)
	}
	for name, target := range cfg.Targets {
		target.Name = name
		cfg.Targets[name] = target
	}

	result := ValidateConfigWithDetails(&cfg)
	if result.HasErrors() {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, strings.TrimSpace(result.String()))
	}

	return &cfg, nil
}

// TargetNames returns the configured target names in sorted order.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named targets, or every target in name order when names is empty.
func (c *Config) Select(names []string) ([]Target, error) {
	if len(names) == 0 {
		names = c.TargetNames()
	}
	if len(names) == 0 {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "no targets configured")
	}

	targets := make([]Target, 0, len(names))
	for _, name := range names {
		target, ok := c.Targets[strings.ToLower(name)]
		if !ok {
			return nil, errors.ErrTargetNotFound(name)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// String renders a short description for log output.
func (t Target) String() string {
	return fmt.Sprintf("%s (%d file mappings)", t.Name, len(t.Files))
}

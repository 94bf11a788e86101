package config

import (
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/brandscale/pagesmith/internal/errors"
)

// Options are the effective settings for one target after defaults and
// overrides have been applied.
type Options struct {
	Engine      string   `mapstructure:"engine" json:"engine,omitempty" yaml:"engine,omitempty"`
	Language    string   `mapstructure:"language" json:"language" yaml:"language"`
	Layout      string   `mapstructure:"layout" json:"layout" yaml:"layout"`
	Partials    []string `mapstructure:"partials" json:"partials,omitempty" yaml:"partials,omitempty"`
	Data        []string `mapstructure:"data" json:"data,omitempty" yaml:"data,omitempty"`
	Assets      string   `mapstructure:"assets" json:"assets" yaml:"assets"`
	Production  bool     `mapstructure:"production" json:"production" yaml:"production"`
	Dev         bool     `mapstructure:"dev" json:"dev" yaml:"dev"`
	SetAccount  string   `mapstructure:"set_account" json:"set_account,omitempty" yaml:"set_account,omitempty"`
	SetSiteID   string   `mapstructure:"set_site_id" json:"set_site_id,omitempty" yaml:"set_site_id,omitempty"`
	Flatten     bool     `mapstructure:"flatten" json:"flatten" yaml:"flatten"`
	BasePath    string   `mapstructure:"base_path" json:"base_path,omitempty" yaml:"base_path,omitempty"`
	ExpandBase  bool     `mapstructure:"expand_base" json:"expand_base" yaml:"expand_base"`
	Manifest    string   `mapstructure:"manifest" json:"manifest,omitempty" yaml:"manifest,omitempty"`
	CheckAssets bool     `mapstructure:"check_assets" json:"check_assets" yaml:"check_assets"`

	// Unknown lists option keys that matched no field.
	Unknown []string `mapstructure:"-" json:"-" yaml:"-"`
}

// DefaultOptions returns the built-in option values that apply before any
// configuration is layered on top.
func DefaultOptions() Options {
	return Options{
		Language:   "en-us",
		Assets:     ".",
		Dev:        true,
		ExpandBase: true,
	}
}

// ResolveOptions merges the config defaults, the target's options and
// overrides (in increasing precedence) and decodes the result.
func (c *Config) ResolveOptions(target Target, overrides map[string]interface{}) (Options, error) {
	merged := MergeOptionMaps(c.Defaults, target.Options, overrides)
	opts, err := DecodeOptions(merged)
	if err != nil {
		return opts, errors.WrapConfig(err, "failed to resolve options").WithTarget(target.Name)
	}
	return opts, nil
}

// MergeOptionMaps shallow-merges layers left to right. Later layers win.
// Keys are compared after normalization so setAccount and set_account collide.
func MergeOptionMaps(layers ...map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for _, layer := range layers {
		for k, v := range layer {
			merged[normalizeKey(k)] = v
		}
	}
	return merged
}

// DecodeOptions decodes a raw option map over DefaultOptions.
func DecodeOptions(raw map[string]interface{}) (Options, error) {
	opts := DefaultOptions()
	var md mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		Metadata:         &md,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	})
	if err != nil {
		return opts, errors.WrapConfig(err, "failed to build options decoder")
	}

	if err := decoder.Decode(raw); err != nil {
		return opts, errors.WrapConfig(err, "invalid target options")
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		opts.Unknown = md.Unused
	}

	return opts, nil
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, "_", "")
	return strings.ReplaceAll(k, "-", "")
}

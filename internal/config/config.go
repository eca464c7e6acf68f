// Package config loads the compiler's GC-mode and output settings from an
// optional YAML file, overridable by CLI flags (spec.md §6 "Configuration").
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// GCMode selects which garbage collector labels codegen emits and whether
// pointer stores into heap objects get the write barrier (spec.md §6).
type GCMode string

const (
	GCNone         GCMode = "none"
	GCGenerational GCMode = "generational"
	GCScanning     GCMode = "scanning"
)

// Valid reports whether m is one of the three recognized modes.
func (m GCMode) Valid() bool {
	switch m {
	case GCNone, GCGenerational, GCScanning:
		return true
	}
	return false
}

// InitializerLabel is the runtime symbol this mode selects for
// `_MemMgr_INITIALIZER` (spec.md §6 required emitted labels).
func (m GCMode) InitializerLabel() string {
	switch m {
	case GCGenerational:
		return "_GenGC_Init"
	case GCScanning:
		return "_ScnGC_Init"
	default:
		return "_NoGC_Init"
	}
}

// CollectorLabel is the runtime symbol this mode selects for
// `_MemMgr_COLLECTOR`.
func (m GCMode) CollectorLabel() string {
	switch m {
	case GCGenerational:
		return "_GenGC_Collect"
	case GCScanning:
		return "_ScnGC_Collect"
	default:
		return "_NoGC_Collect"
	}
}

// gcSection mirrors the `gc:` block of coolc.yaml.
type gcSection struct {
	Mode string `yaml:"mode"`
	Test bool   `yaml:"test"`
}

// fileConfig mirrors the full coolc.yaml document.
type fileConfig struct {
	GC            gcSection `yaml:"gc"`
	OutputSuffix  string    `yaml:"output_suffix"`
}

// Config is the fully resolved set of options driving one compile session.
type Config struct {
	GCMode       GCMode
	GCTest       bool
	OutputSuffix string
}

// Default returns the zero-configuration baseline: no GC, test mode off,
// `.s` output suffix.
func Default() Config {
	return Config{GCMode: GCNone, GCTest: false, OutputSuffix: ".s"}
}

// Load reads path (if non-empty and present) and layers it over Default.
// A missing path is not an error — coolc.yaml is optional (spec.md §6).
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if fc.GC.Mode != "" {
		mode := GCMode(fc.GC.Mode)
		if !mode.Valid() {
			return cfg, fmt.Errorf("config: unrecognized gc.mode %q", fc.GC.Mode)
		}
		cfg.GCMode = mode
	}
	cfg.GCTest = fc.GC.Test
	if fc.OutputSuffix != "" {
		cfg.OutputSuffix = fc.OutputSuffix
	}
	return cfg, nil
}

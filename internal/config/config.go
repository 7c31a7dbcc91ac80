package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no
// --config flag is given.
const DefaultConfigFile = "typedrift.yaml"

// Locator names accepted in the config file.
const (
	LocatorPattern    = "pattern"
	LocatorTreeSitter = "treesitter"
)

// Config holds all typedrift configuration.
//
// The top-level suite fields describe the default suite. When Suites is
// non-empty each entry is verified independently and inherits any field it
// leaves blank from the top level.
type Config struct {
	SuiteConfig `yaml:",inline"`

	// Suites lists additional independent registries.
	Suites []SuiteConfig `yaml:"suites"`

	// Locator selects the definition locator: pattern or treesitter.
	Locator string `yaml:"locator"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SuiteConfig describes one registry verified against one snapshot.
type SuiteConfig struct {
	Name string `yaml:"name"`

	// Snapshot is the file holding the frozen <Type><Marker> declarations.
	Snapshot string `yaml:"snapshot"`
	// SourceRoot is scanned recursively for current definitions.
	SourceRoot string `yaml:"source_root"`
	// SourceSuffix filters collected files (e.g. ".swift").
	SourceSuffix string `yaml:"source_suffix"`
	// SnapshotMarker is appended to type names inside the snapshot.
	SnapshotMarker string `yaml:"snapshot_marker"`
	// SnapshotContainer names the wrapper type written by freeze.
	SnapshotContainer string `yaml:"snapshot_container"`

	// Types is the ordered registry.
	Types []string `yaml:"types"`

	IgnorePatterns []string `yaml:"ignore_patterns"`
	RequiredFiles  []string `yaml:"required_files"`
}

// DefaultTypes is the registry verified when no config overrides it.
var DefaultTypes = []string{
	"PromptSegment",
	"PipelineContext",
	"PipelineConfiguration",
	"AIService",
	"ContentAnalysis",
	"CinematicTaxonomy",
	"SceneModel",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SuiteConfig: SuiteConfig{
			Name:              "default",
			Snapshot:          "Sources/DirectorStudio/Core/CoreTypeSnapshot.swift",
			SourceRoot:        "Sources/DirectorStudio",
			SourceSuffix:      ".swift",
			SnapshotMarker:    "Interface",
			SnapshotContainer: "CoreTypeSnapshot",
			Types:             append([]string(nil), DefaultTypes...),
			IgnorePatterns:    DefaultIgnorePatterns(),
		},
		Locator: LocatorPattern,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads a YAML config file on top of the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the default suite.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("TYPEDRIFT_SNAPSHOT")); v != "" {
		c.Snapshot = v
	}
	if v := strings.TrimSpace(os.Getenv("TYPEDRIFT_SOURCE_ROOT")); v != "" {
		c.SourceRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("TYPEDRIFT_TYPES")); v != "" {
		c.Types = SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("TYPEDRIFT_LOCATOR")); v != "" {
		c.Locator = v
	}
	if v := strings.TrimSpace(os.Getenv("TYPEDRIFT_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, token := range strings.Split(s, ",") {
		if name := strings.TrimSpace(token); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ResolvedSuites returns the suites to verify with inherited fields filled in.
func (c *Config) ResolvedSuites() []SuiteConfig {
	if len(c.Suites) == 0 {
		s := c.SuiteConfig
		if s.Name == "" {
			s.Name = "default"
		}
		return []SuiteConfig{s}
	}

	out := make([]SuiteConfig, 0, len(c.Suites))
	for i, s := range c.Suites {
		if s.Name == "" {
			s.Name = fmt.Sprintf("suite-%d", i+1)
		}
		if s.Snapshot == "" {
			s.Snapshot = c.Snapshot
		}
		if s.SourceRoot == "" {
			s.SourceRoot = c.SourceRoot
		}
		if s.SourceSuffix == "" {
			s.SourceSuffix = c.SourceSuffix
		}
		if s.SnapshotMarker == "" {
			s.SnapshotMarker = c.SnapshotMarker
		}
		if s.SnapshotContainer == "" {
			s.SnapshotContainer = c.SnapshotContainer
		}
		if len(s.Types) == 0 {
			s.Types = c.Types
		}
		if s.IgnorePatterns == nil {
			s.IgnorePatterns = c.IgnorePatterns
		}
		if s.RequiredFiles == nil {
			s.RequiredFiles = c.RequiredFiles
		}
		out = append(out, s)
	}
	return out
}

// Suite returns the resolved suite with the given name.
func (c *Config) Suite(name string) (SuiteConfig, error) {
	for _, s := range c.ResolvedSuites() {
		if s.Name == name {
			return s, nil
		}
	}
	return SuiteConfig{}, fmt.Errorf("unknown suite %q", name)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result error

	switch c.Locator {
	case LocatorPattern, LocatorTreeSitter:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown locator %q (want %s or %s)", c.Locator, LocatorPattern, LocatorTreeSitter))
	}

	seen := make(map[string]bool)
	for _, s := range c.ResolvedSuites() {
		if seen[s.Name] {
			result = multierror.Append(result, fmt.Errorf("duplicate suite name %q", s.Name))
		}
		seen[s.Name] = true
		if err := s.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("suite %s: %w", s.Name, err))
		}
	}

	return result
}

// Validate checks one suite.
func (s SuiteConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Snapshot) == "" {
		errs = append(errs, errors.New("snapshot path is required"))
	}
	if strings.TrimSpace(s.SourceRoot) == "" {
		errs = append(errs, errors.New("source_root is required"))
	}
	if strings.TrimSpace(s.SourceSuffix) == "" {
		errs = append(errs, errors.New("source_suffix is required"))
	}
	if strings.TrimSpace(s.SnapshotMarker) == "" {
		errs = append(errs, errors.New("snapshot_marker is required"))
	}
	if len(s.Types) == 0 {
		errs = append(errs, errors.New("registry is empty"))
	}
	names := make(map[string]bool, len(s.Types))
	for _, name := range s.Types {
		switch {
		case !isIdentifier(name):
			errs = append(errs, fmt.Errorf("invalid type name %q", name))
		case names[name]:
			errs = append(errs, fmt.Errorf("duplicate type %q", name))
		}
		names[name] = true
	}
	return errors.Join(errs...)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/mfer/internal/target"
	"github.com/spf13/afero"
)

const (
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "MFER_CONFIG"
	dirName       = ".mfer"
	fileName      = "config.yaml"
	hclExt        = ".hcl"
)

var (
	// ErrNotFound is returned when the configuration file does not exist.
	ErrNotFound = errors.New("no configuration file detected")
	// ErrParse is returned when the configuration file cannot be decoded.
	ErrParse = errors.New("failed to parse configuration file")
	// ErrInvalid is returned when the configuration fails validation.
	ErrInvalid = errors.New("invalid configuration")
	// ErrWrite is returned when the configuration file cannot be written.
	ErrWrite = errors.New("error writing config file")
	// ErrNoLibConfig is returned by library workflows when no libraries are configured.
	ErrNoLibConfig = errors.New("library configuration not found in config file")
)

// Config is the contents of the configuration file.
type Config struct {
	MfeDirectory  string              `yaml:"mfe_directory"`
	BaseGithubURL string              `yaml:"base_github_url,omitempty"`
	Groups        map[string][]string `yaml:"groups"`
	LibDirectory  string              `yaml:"lib_directory,omitempty"`
	Libs          []string            `yaml:"libs,omitempty"`
}

// Template is written by `mfer init` for the user to fill in.
func Template() *Config {
	return &Config{
		MfeDirectory: "path/to/folder/containing/microfrontends",
		Groups: map[string][]string{
			target.AllGroup: {"repo_name_1", "repo_name_2", "repo_name_3"},
			"customGroup1":  {"repo_name_2", "repo_name_3"},
		},
	}
}

// DefaultPath returns ~/.mfer/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, dirName, fileName)
}

// Path returns the configuration path: the explicit path if set, then MFER_CONFIG, then the default.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}

	return DefaultPath()
}

// StateDir returns the directory holding mfer's own state files.
func StateDir() string {
	return filepath.Dir(DefaultPath())
}

// Exists reports whether a configuration file exists at path.
func Exists(path string) bool {
	ok, err := afero.Exists(FsFactory(), path)
	return err == nil && ok
}

// Load reads, parses and validates the configuration at path.
func Load(path string) (*Config, error) {
	fs := FsFactory()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes data. The format is chosen from the extension of path.
func Parse(path string, data []byte) (*Config, error) {
	if isHCL(path) {
		return parseHCL(path, data)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	cfg.expandHome()

	return cfg, nil
}

// Marshal encodes cfg in the format chosen from the extension of path.
func Marshal(path string, cfg *Config) ([]byte, error) {
	if isHCL(path) {
		return marshalHCL(cfg), nil
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Join(ErrWrite, err)
	}

	return b, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	fs := FsFactory()

	b, err := Marshal(path, cfg)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return errors.Join(ErrWrite, err)
	}

	if err := afero.WriteFile(fs, path, b, 0o644); err != nil { //nolint:mnd
		return errors.Join(ErrWrite, err)
	}

	return nil
}

// Validate checks the fields every workflow relies on.
func (c *Config) Validate() error {
	var result error

	if strings.TrimSpace(c.MfeDirectory) == "" {
		result = multierror.Append(result, errors.New("mfe_directory is required"))
	}

	if len(c.Groups) == 0 {
		result = multierror.Append(result, errors.New("at least one group is required"))
	} else if _, ok := c.Groups[target.AllGroup]; !ok {
		result = multierror.Append(result, fmt.Errorf("group '%s' is required", target.AllGroup))
	}

	if len(c.Libs) > 0 && strings.TrimSpace(c.LibDirectory) == "" {
		result = multierror.Append(result, errors.New("lib_directory is required when libs are configured"))
	}

	if result != nil {
		return errors.Join(ErrInvalid, result)
	}

	return nil
}

// HasLibs reports whether library workflows are configured.
func (c *Config) HasLibs() bool {
	return c.LibDirectory != "" && len(c.Libs) > 0
}

// GroupNames returns the configured group names, sorted.
func (c *Config) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for k := range c.Groups {
		names = append(names, k)
	}

	slices.Sort(names)

	return names
}

// MfeDir returns the directory of the named micro frontend.
func (c *Config) MfeDir(name string) string {
	return filepath.Join(c.MfeDirectory, name)
}

// LibDir returns the directory of the named library.
func (c *Config) LibDir(name string) string {
	return filepath.Join(c.LibDirectory, name)
}

func (c *Config) expandHome() {
	c.MfeDirectory = expandHome(c.MfeDirectory)
	c.LibDirectory = expandHome(c.LibDirectory)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}

	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func isHCL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), hclExt)
}

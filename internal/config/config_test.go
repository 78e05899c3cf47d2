// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `mfe_directory: /src/mfes
base_github_url: https://github.com/acme
groups:
  all: [mfe1, mfe2, mfe3]
  home: [mfe1, mfe2]
lib_directory: /src/libs
libs: [common-utils]
`

func memFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)

	return fs
}

func TestLoad_YAML(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/home/u/.mfer/config.yaml", []byte(yamlConfig), 0o644))

	cfg, err := Load("/home/u/.mfer/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/src/mfes", cfg.MfeDirectory)
	assert.Equal(t, "https://github.com/acme", cfg.BaseGithubURL)
	assert.Equal(t, []string{"mfe1", "mfe2", "mfe3"}, cfg.Groups["all"])
	assert.Equal(t, []string{"mfe1", "mfe2"}, cfg.Groups["home"])
	assert.Equal(t, []string{"all", "home"}, cfg.GroupNames())
	assert.True(t, cfg.HasLibs())
	assert.Equal(t, filepath.Join("/src/libs", "common-utils"), cfg.LibDir("common-utils"))
	assert.Equal(t, filepath.Join("/src/mfes", "mfe1"), cfg.MfeDir("mfe1"))
}

func TestLoad_NotFound(t *testing.T) {
	memFs(t)

	_, err := Load("/nope/config.yaml")
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, Exists("/nope/config.yaml"))
}

func TestLoad_ParseError(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("groups: [unterminated"), 0o644))

	_, err := Load("/c.yaml")
	require.ErrorIs(t, err, ErrParse)
}

func TestValidate(t *testing.T) {
	err := (&Config{Libs: []string{"x"}}).Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "mfe_directory is required")
	assert.Contains(t, err.Error(), "at least one group is required")
	assert.Contains(t, err.Error(), "lib_directory is required")

	err = (&Config{MfeDirectory: "/x", Groups: map[string][]string{"home": {"a"}}}).Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "group 'all' is required")

	require.NoError(t, Template().Validate())
}

func TestLoad_HCL(t *testing.T) {
	fs := memFs(t)
	t.Setenv("MFER_TEST_ROOT", "/work")

	src := `
mfe_directory   = "${env.MFER_TEST_ROOT}/mfes"
base_github_url = "https://github.com/acme"

group "all" {
  targets = ["mfe1", "mfe2"]
}

group "home" {
  targets = ["mfe2"]
}
`
	require.NoError(t, afero.WriteFile(fs, "/c/config.hcl", []byte(src), 0o644))

	cfg, err := Load("/c/config.hcl")
	require.NoError(t, err)
	assert.Equal(t, "/work/mfes", cfg.MfeDirectory)
	assert.Equal(t, []string{"mfe1", "mfe2"}, cfg.Groups["all"])
	assert.Equal(t, []string{"mfe2"}, cfg.Groups["home"])
	assert.False(t, cfg.HasLibs())
}

func TestLoad_HCLParseError(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/c.hcl", []byte(`group "all" {`), 0o644))

	_, err := Load("/c.hcl")
	require.ErrorIs(t, err, ErrParse)
}

func TestSaveRoundTrip(t *testing.T) {
	memFs(t)

	cfg := &Config{
		MfeDirectory:  "/src/mfes",
		BaseGithubURL: "https://github.com/acme",
		Groups: map[string][]string{
			"all":  {"mfe1", "mfe2"},
			"home": {"mfe1"},
			"none": {},
		},
		LibDirectory: "/src/libs",
		Libs:         []string{"lib1"},
	}

	for _, path := range []string{"/out/.mfer/config.yaml", "/out/.mfer/config.hcl"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			require.NoError(t, Save(path, cfg))
			assert.True(t, Exists(path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg.MfeDirectory, got.MfeDirectory)
			assert.Equal(t, cfg.BaseGithubURL, got.BaseGithubURL)
			assert.Equal(t, cfg.LibDirectory, got.LibDirectory)
			assert.Equal(t, cfg.Libs, got.Libs)
			assert.Equal(t, cfg.Groups["all"], got.Groups["all"])
			assert.Equal(t, cfg.Groups["home"], got.Groups["home"])
			assert.Empty(t, got.Groups["none"])
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultPath(), Path(""))
	assert.Equal(t, ".mfer", filepath.Base(StateDir()))

	t.Setenv(EnvConfigPath, "/etc/mfer.yaml")
	assert.Equal(t, "/etc/mfer.yaml", Path(""))
	assert.Equal(t, "/explicit.yaml", Path("/explicit.yaml"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "src"), expandHome("~/src"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestSplitFileNameFromGetterURL(t *testing.T) {
	tests := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/acme/config.git//mfer.yaml?ref=main",
			wantURL:  "git::https://github.com/acme/config.git?ref=main",
			wantFile: "mfer.yaml",
		},
		{
			url:      "git::https://github.com/acme/config.git//team/mfer.yaml",
			wantURL:  "git::https://github.com/acme/config.git//team",
			wantFile: "mfer.yaml",
		},
		{
			url: "https://example.com/mfer.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u, f := splitFileNameFromGetterURL(tt.url)
			assert.Equal(t, tt.wantURL, u)
			assert.Equal(t, tt.wantFile, f)
		})
	}
}

func TestFetch(t *testing.T) {
	_, err := Fetch(context.Background(), "")
	require.ErrorIs(t, err, ErrGetConfigFile)

	b, err := Fetch(context.Background(), "./testdata/config.yaml")
	require.NoError(t, err)

	cfg, err := Parse("config.yaml", b)
	require.NoError(t, err)
	assert.Equal(t, "/src/mfes", cfg.MfeDirectory)
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// hclConfig is the HCL shape of Config.
//
//	mfe_directory = "${env.HOME}/src/mfes"
//	group "all" {
//	  targets = ["mfe1", "mfe2"]
//	}
type hclConfig struct {
	MfeDirectory  string     `hcl:"mfe_directory"`
	BaseGithubURL string     `hcl:"base_github_url,optional"`
	LibDirectory  string     `hcl:"lib_directory,optional"`
	Libs          []string   `hcl:"libs,optional"`
	Groups        []hclGroup `hcl:"group,block"`
}

type hclGroup struct {
	Name    string   `hcl:"name,label"`
	Targets []string `hcl:"targets"`
}

func parseHCL(path string, data []byte) (*Config, error) {
	var hc hclConfig

	if err := hclsimple.Decode(path, data, evalContext(), &hc); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	cfg := &Config{
		MfeDirectory:  hc.MfeDirectory,
		BaseGithubURL: hc.BaseGithubURL,
		LibDirectory:  hc.LibDirectory,
		Libs:          hc.Libs,
		Groups:        make(map[string][]string, len(hc.Groups)),
	}

	for _, g := range hc.Groups {
		cfg.Groups[g.Name] = append(cfg.Groups[g.Name], g.Targets...)
	}

	cfg.expandHome()

	return cfg, nil
}

// evalContext exposes the process environment as env.NAME.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

func marshalHCL(cfg *Config) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("mfe_directory", cty.StringVal(cfg.MfeDirectory))

	if cfg.BaseGithubURL != "" {
		body.SetAttributeValue("base_github_url", cty.StringVal(cfg.BaseGithubURL))
	}

	if cfg.LibDirectory != "" {
		body.SetAttributeValue("lib_directory", cty.StringVal(cfg.LibDirectory))
	}

	if len(cfg.Libs) > 0 {
		body.SetAttributeValue("libs", stringList(cfg.Libs))
	}

	names := make([]string, 0, len(cfg.Groups))
	for k := range cfg.Groups {
		names = append(names, k)
	}

	slices.Sort(names)

	for _, name := range names {
		body.AppendNewline()
		block := body.AppendNewBlock("group", []string{name})
		block.Body().SetAttributeValue("targets", stringList(cfg.Groups[name]))
	}

	return f.Bytes()
}

func stringList(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}

	vals := make([]cty.Value, 0, len(ss))
	for _, s := range ss {
		vals = append(vals, cty.StringVal(s))
	}

	return cty.ListVal(vals)
}

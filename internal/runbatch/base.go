// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"maps"
	"slices"
)

// BaseCommand holds the fields common to every Runnable.
// It should be embedded in other command types.
type BaseCommand struct {
	Label string            // Label for the command, usually the target name
	Cwd   string            // The working directory for the command
	Env   map[string]string // Environment variables added to the inherited environment
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(label, cwd string, env map[string]string) *BaseCommand {
	if env == nil {
		env = make(map[string]string)
	}

	return &BaseCommand{
		Label: label,
		Cwd:   cwd,
		Env:   env,
	}
}

// GetLabel returns the label of the command.
func (c *BaseCommand) GetLabel() string {
	if c.Label == "" {
		return "Command"
	}

	return c.Label
}

// GetCwd returns the working directory of the command.
func (c *BaseCommand) GetCwd() string {
	return c.Cwd
}

// InheritEnv adds environment variables that are not already set on the command.
func (c *BaseCommand) InheritEnv(env map[string]string) {
	if len(c.Env) == 0 {
		c.Env = maps.Clone(env)
		return
	}

	for k, v := range maps.All(env) {
		if _, ok := c.Env[k]; !ok {
			c.Env[k] = v
		}
	}
}

// environ returns base with the command's variables appended in key order.
func (c *BaseCommand) environ(base []string) []string {
	env := slices.Clone(base)
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		env = append(env, k+"="+c.Env[k])
	}

	return env
}

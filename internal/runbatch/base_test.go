// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseCommand_GetLabel(t *testing.T) {
	assert.Equal(t, "Command", NewBaseCommand("", "/tmp", nil).GetLabel())
	assert.Equal(t, "mfe1", NewBaseCommand("mfe1", "/tmp", nil).GetLabel())
	assert.Equal(t, "/tmp", NewBaseCommand("mfe1", "/tmp", nil).GetCwd())
}

func TestBaseCommand_InheritEnv(t *testing.T) {
	c := NewBaseCommand("x", "", nil)
	c.InheritEnv(map[string]string{"A": "1"})
	assert.Equal(t, map[string]string{"A": "1"}, c.Env)

	c = NewBaseCommand("x", "", map[string]string{"A": "keep"})
	c.InheritEnv(map[string]string{"A": "1", "B": "2"})
	assert.Equal(t, map[string]string{"A": "keep", "B": "2"}, c.Env)
}

func TestBaseCommand_Environ(t *testing.T) {
	c := NewBaseCommand("x", "", map[string]string{"Z": "26", "A": "1"})
	assert.Equal(t, []string{"PATH=/bin", "A=1", "Z=26"}, c.environ([]string{"PATH=/bin"}))
}

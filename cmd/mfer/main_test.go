// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil, false))
	assert.Equal(t, 130, exitCode(nil, true))
	assert.Equal(t, 130, exitCode(cli.Exit("", 1), true))
	assert.Equal(t, 1, exitCode(cli.Exit("", 1), false))
	assert.Equal(t, 2, exitCode(cli.Exit("", 2), false))
	assert.Equal(t, 2, exitCode(errors.New("flag provided but not defined: -x"), false))
}

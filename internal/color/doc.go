// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color styles operator-facing console output.
//
// Colour is enabled when stdout is a terminal, unless NO_COLOR is set.
// FORCE_COLOR enables colour regardless of the terminal check.
package color

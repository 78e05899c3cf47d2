// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prefixwriter interleaves the output of several concurrent processes line by line.
// Each process writes through its own Writer, which tags every complete line with a prefix
// and hands it to a shared Sink, so lines from different processes never tear.
// The last complete line of each Writer is kept for failure reports.
package prefixwriter

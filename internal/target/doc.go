// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package target resolves group names from configuration into ordered target lists
// and checks that each target is a usable git checkout on disk.
package target

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads, validates and saves the mfer configuration file.
//
// The file lives at ~/.mfer/config.yaml unless MFER_CONFIG or --config says otherwise.
// Files ending in .hcl are read as HCL, with environment variables available as env.NAME.
package config

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package libs inspects shared libraries and deploys their build output
// into the node_modules of the micro frontends that consume them.
package libs

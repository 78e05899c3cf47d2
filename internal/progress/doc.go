// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress provides per target lifecycle events for an execution.
// The engine emits an event when a target's process starts and when it finishes,
// and reporters turn those events into console banners or debug logs.
package progress

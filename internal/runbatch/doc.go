// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs one shell command per target, either one after another or all at once,
// and collects a result for every target into a RunReport.
//
// Every spawned process is registered with a signalbroker.Controller so that an interrupt
// terminates all of them. In concurrent mode a KillTrigger decides whether one target exiting
// stops its siblings early.
package runbatch

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by nutrilens packages.
//
//   - AtomicWriteFile: crash-safe file replacement for config and reports
//   - Truncate, PadRight, Width: display-width aware string helpers
//   - FormatAmount, FormatPercent: compact number formatting for output
package util

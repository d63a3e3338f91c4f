// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for nutrilens.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// a .env file, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Analysis API location, timeout and rate limit
//   - DefaultsConfig: Initial goal, diet and serving size
//   - UIConfig, ExportConfig, LogConfig: Presentation, report and log settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (NUTRILENS_*), including ones set by a .env file
//   - ~/.nutrilens/config.toml
//   - ~/.nutrilens/config.json
//   - Built-in defaults
//
// NUTRILENS_HOME replaces ~/.nutrilens.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := backend.NewClientWithConfig(cfg.BackendClientConfig())
package config

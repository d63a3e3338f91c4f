// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of nutrilens.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global and command-specific flags
//   - Runtime: Config, backend client and session shared by a command
//   - JSONResponse: Envelope for --json output
//
// # Usage
//
//	cmd, args, err := cli.Parse()
//	switch cmd {
//	case cli.CmdAnalyze:
//	    err = cli.HandleAnalyze(args)
//	case cli.CmdAsk:
//	    err = cli.HandleAsk(args)
//	}
//	os.Exit(cli.GetExitCode(err))
//
// # Commands
//
//   - analyze: One analysis round from --file and --set, optionally watched
//   - ask: One follow-up question, or an interactive question loop
//   - status: Backend readiness
//   - config: Show, initialize and edit the configuration
//
//   - tui: The interactive screen, the default when no command is given
//
// The screen itself lives in internal/ui/analyzer; HandleTUI wires it to the
// runtime and, with --watch, to the label file watcher.
//
// All commands support --json.
package cli

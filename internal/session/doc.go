// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the state of one nutrilens session and the
// controllers that change it.
//
// # Key Types
//
//   - Session: record, selectors, results, conversation turn, readiness and busy flags
//   - Orchestrator: runs the four analysis requests of a round concurrently
//   - Conversation: asks follow-up questions with the latest explanation as context
//   - ReadinessGate: one-shot backend readiness probe
//   - ValidationError: missing input, caught before any request
//   - Failure: a transport or decode failure of a round or question
//
// # Usage
//
// A presentation loop is the only writer of a Session. Work that blocks is
// split into Begin/End pairs so the loop can run the network part elsewhere:
//
//	ticket, err := sess.BeginRound()
//	if err != nil {
//	    return err // validation, busy or not ready
//	}
//	results, err := orch.RunAll(ctx, ticket.Record, ticket.Selector)
//	sess.EndRound(ticket, results, err)
//
// Session.Analyze and Session.Ask do both halves in one call for sequential
// callers such as the CLI.
//
// A round or question that finishes after Clear is discarded.
package session

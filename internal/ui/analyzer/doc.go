// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analyzer is the interactive label screen.
//
// The screen is a Bubble Tea model with three areas:
//   - Form: one text input per label field, the goal and diet selectors,
//     and the Analyze and Clear buttons
//   - Results: a scrollable viewport with the four analysis results and the
//     latest answer
//   - Question: the follow-up question input and the suggestions of the
//     latest answer
//
// All session state lives in a *session.Session and is only touched from
// Update. Backend calls run as commands on ticket copies and report back
// with RoundDoneMsg and AskDoneMsg; the session drops results that arrive
// after a Clear.
package analyzer

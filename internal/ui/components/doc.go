// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the nutrilens
// terminal UI.
//
// # Components
//
//   - Header: Brand, current food name and the readiness badge
//   - StatusBar: Activity, goal and diet, last analysis time, key hints
//   - ToastManager: Non-blocking notifications that dismiss themselves
//   - RenderResults: The four analysis sections with score and daily-value bars
//
// Components hold no session state. The screen model copies what they
// show from a session snapshot before each render.
package components

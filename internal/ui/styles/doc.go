// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the nutrilens terminal UI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. A config theme of "dark" or "light" forces one side.

# Color System (colors.go)

  - Emerald - Brand, success, the ready badge, excellent scores
  - Cyan - Focus and keys
  - Purple - Panel and section titles
  - Amber - Notices, the loading badge, fair scores, high daily values
  - Rose - Errors, health warnings, poor scores

ScoreColor and DailyValueColor map result numbers to colors. Status
messages carry ASCII indicators ([OK], [X], [!], [i]) so they read without
color.

# Theme (theme.go)

Theme holds the lipgloss styles for the header, the label form, buttons,
result sections and the status bar, and the responsive LayoutMode.

# Bars (bars.go)

RenderProgressBar and RenderScoreBar draw ASCII bars for 0-100 values.
SpinnerConfig frames are used with the bubbles spinner.
*/
package styles

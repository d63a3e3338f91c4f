// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nutrilens/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Activity is what the screen is doing.
type Activity int

const (
	ActivityIdle Activity = iota
	ActivityAnalyzing
	ActivityAsking
	ActivityExporting
)

// String returns the display text.
func (a Activity) String() string {
	switch a {
	case ActivityAnalyzing:
		return "Analyzing..."
	case ActivityAsking:
		return "Thinking..."
	case ActivityExporting:
		return "Exporting..."
	default:
		return "Idle"
	}
}

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line.
type StatusBar struct {
	Activity  Activity
	Spinner   string // current spinner frame, shown while busy
	Goal      string
	Diet      string
	LastRound time.Time
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a StatusBar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the bar. Key hints are dropped first when space runs out.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 40 {
		width = 40
	}
	t := s.theme

	var left []string
	if s.Activity != ActivityIdle {
		left = append(left, t.Spinner.Render(s.Spinner)+" "+t.ThinkingText.Render(s.Activity.String()))
	}
	if s.Goal != "" {
		left = append(left, s.Goal+" / "+s.Diet)
	}
	if !s.LastRound.IsZero() {
		left = append(left, "analyzed "+s.LastRound.Format("15:04:05"))
	}
	leftText := strings.Join(left, "  |  ")

	var hints []string
	for _, sc := range s.Shortcuts {
		hints = append(hints, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}
	// Status bar has Padding(0, 1)
	avail := width - 2 - lipgloss.Width(leftText) - 2
	for len(hints) > 0 && lipgloss.Width(strings.Join(hints, "  ")) > avail {
		hints = hints[:len(hints)-1]
	}
	right := strings.Join(hints, "  ")

	gap := width - 2 - lipgloss.Width(leftText) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(width).Render(leftText + strings.Repeat(" ", gap) + right)
}

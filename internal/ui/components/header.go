// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nutrilens/internal/ui/styles"
	"github.com/jeranaias/nutrilens/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Readiness is the state of the startup probe as shown in the header.
type Readiness int

const (
	ReadinessProbing Readiness = iota
	ReadinessReady
	ReadinessNotReady
)

// String returns the badge text.
func (r Readiness) String() string {
	switch r {
	case ReadinessReady:
		return "AI Ready"
	case ReadinessNotReady:
		return "AI Unavailable"
	default:
		return "Loading AI..."
	}
}

// ReadinessOf maps the session's probe flags to a badge state.
func ReadinessOf(probed, ready bool) Readiness {
	switch {
	case !probed:
		return ReadinessProbing
	case ready:
		return ReadinessReady
	default:
		return ReadinessNotReady
	}
}

// Header is the title bar.
type Header struct {
	Title     string
	FoodName  string
	Readiness Readiness
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "nutrilens",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header on one line: brand and food on the left, the
// readiness badge on the right.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	left := h.theme.HeaderBrand.Render(h.Title)
	if h.FoodName != "" {
		left += h.theme.HeaderSubtitle.Render("  " + util.Truncate(h.FoodName, width/2))
	}

	badgeStyle := h.theme.BadgeLoading
	if h.Readiness == ReadinessReady {
		badgeStyle = h.theme.BadgeReady
	}
	badge := badgeStyle.Render(h.Readiness.String())

	// Header has Padding(0, 1)
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	line := left + lipgloss.NewStyle().Width(gap).Render("") + badge
	return h.theme.Header.Width(width).Render(line)
}

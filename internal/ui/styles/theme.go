// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components of the terminal UI.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	BadgeReady     lipgloss.Style
	BadgeLoading   lipgloss.Style

	// ==========================================================================
	// PANELS
	// ==========================================================================

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// ==========================================================================
	// LABEL FORM
	// ==========================================================================

	FieldLabel        lipgloss.Style
	FieldLabelFocused lipgloss.Style
	FieldUnit         lipgloss.Style
	FieldValue        lipgloss.Style
	Selector          lipgloss.Style
	SelectorFocused   lipgloss.Style

	// ==========================================================================
	// BUTTONS
	// ==========================================================================

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// ==========================================================================
	// RESULTS
	// ==========================================================================

	SectionTitle lipgloss.Style
	Verdict      lipgloss.Style
	Compatible   lipgloss.Style
	Incompatible lipgloss.Style
	WarningItem  lipgloss.Style
	Suggestion   lipgloss.Style
	Placeholder  lipgloss.Style

	// ==========================================================================
	// STATUS AND FEEDBACK
	// ==========================================================================

	Notice       lipgloss.Style
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme for the detected terminal.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// NewThemeFor creates a theme for an explicit "dark" or "light" setting;
// anything else detects the terminal.
func NewThemeFor(name string) *Theme {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
	t := NewTheme()
	if name == "dark" || name == "light" {
		t.IsDark = name == "dark"
	}
	return t
}

func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.BadgeReady = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Emerald).
		Padding(0, 1)

	t.BadgeLoading = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1)

	// Panels
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.PanelFocused = t.Panel.
		BorderForeground(Cyan)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	// Form
	t.FieldLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FieldLabelFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.FieldUnit = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.FieldValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Selector = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SelectorFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Buttons
	t.Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 2)

	t.ButtonFocused = t.Button.
		Bold(true).
		Foreground(TextInverse).
		Background(Emerald).
		BorderForeground(Emerald)

	t.ButtonDisabled = t.Button.
		Foreground(TextMuted).
		BorderForeground(Overlay)

	// Results
	t.SectionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginTop(1)

	t.Verdict = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.Compatible = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.Incompatible = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.WarningItem = lipgloss.NewStyle().
		Foreground(Rose)

	t.Suggestion = lipgloss.NewStyle().
		Foreground(Cyan)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status and feedback
	t.Notice = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Cyan)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SuccessStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Cyan)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the layout for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 110 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, compact form
	LayoutMedium                   // 60-110 columns, form above results
	LayoutWide                     // >= 110 columns, form beside results
)

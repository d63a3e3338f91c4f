// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"Panel", theme.Panel},
		{"PanelFocused", theme.PanelFocused},
		{"FieldLabel", theme.FieldLabel},
		{"Button", theme.Button},
		{"ButtonDisabled", theme.ButtonDisabled},
		{"SectionTitle", theme.SectionTitle},
		{"StatusBar", theme.StatusBar},
	}
	for _, s := range styles {
		if s.style.Render("test") == "" {
			t.Errorf("%s style renders empty", s.name)
		}
	}
}

func TestNewThemeFor(t *testing.T) {
	if !NewThemeFor("dark").IsDark {
		t.Error("dark theme should report IsDark")
	}
	if NewThemeFor("light").IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{109, LayoutMedium},
		{110, LayoutWide},
		{200, LayoutWide},
	}
	theme := NewTheme()
	for _, tc := range tests {
		theme.SetSize(tc.width, 40)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("width %d: got %v, want %v", tc.width, got, tc.want)
		}
	}
}

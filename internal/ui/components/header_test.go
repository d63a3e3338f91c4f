// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nutrilens/internal/ui/styles"
)

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestReadinessOf(t *testing.T) {
	tests := []struct {
		probed, ready bool
		want          Readiness
		text          string
	}{
		{false, false, ReadinessProbing, "Loading AI..."},
		{false, true, ReadinessProbing, "Loading AI..."},
		{true, true, ReadinessReady, "AI Ready"},
		{true, false, ReadinessNotReady, "AI Unavailable"},
	}

	for _, tc := range tests {
		got := ReadinessOf(tc.probed, tc.ready)
		if got != tc.want {
			t.Errorf("ReadinessOf(%v, %v) = %v, want %v", tc.probed, tc.ready, got, tc.want)
		}
		if got.String() != tc.text {
			t.Errorf("String() = %q, want %q", got.String(), tc.text)
		}
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	if h.Title != "nutrilens" {
		t.Errorf("Title = %q", h.Title)
	}

	h.SetWidth(80)
	h.FoodName = "Greek Yogurt"
	h.Readiness = ReadinessReady

	view := h.View()
	for _, want := range []string{"nutrilens", "Greek Yogurt", "AI Ready"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q:\n%s", want, view)
		}
	}
	if w := lipgloss.Width(view); w > 80 {
		t.Errorf("header width = %d, want <= 80", w)
	}
}

func TestHeaderView_LongFoodName(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(60)
	h.FoodName = strings.Repeat("Extra Crunchy Peanut Butter ", 5)

	view := h.View()
	if !strings.Contains(view, "Loading AI...") {
		t.Errorf("badge dropped from narrow header:\n%s", view)
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestActivityString(t *testing.T) {
	tests := []struct {
		a    Activity
		want string
	}{
		{ActivityIdle, "Idle"},
		{ActivityAnalyzing, "Analyzing..."},
		{ActivityAsking, "Thinking..."},
		{ActivityExporting, "Exporting..."},
	}
	for _, tc := range tests {
		if got := tc.a.String(); got != tc.want {
			t.Errorf("Activity(%d).String() = %q, want %q", tc.a, got, tc.want)
		}
	}
}

func TestStatusBarView(t *testing.T) {
	s := NewStatusBar(styles.NewTheme())
	s.SetWidth(100)
	s.Activity = ActivityAnalyzing
	s.Spinner = "|"
	s.Goal = "Weight Loss"
	s.Diet = "Balanced"
	s.LastRound = time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC)
	s.Shortcuts = []Shortcut{{"ctrl+r", "analyze"}, {"ctrl+q", "quit"}}

	view := s.View()
	for _, want := range []string{"Analyzing...", "Weight Loss / Balanced", "analyzed 14:05:09", "ctrl+r", "analyze"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing %q:\n%s", want, view)
		}
	}
}

func TestStatusBarView_DropsHints(t *testing.T) {
	s := NewStatusBar(styles.NewTheme())
	s.SetWidth(40)
	s.Goal = "Diabetes Management"
	s.Diet = "Mediterranean"
	s.Shortcuts = []Shortcut{
		{"ctrl+r", "analyze"},
		{"ctrl+l", "clear"},
		{"ctrl+e", "export"},
		{"ctrl+q", "quit"},
	}

	view := s.View()
	if strings.Contains(view, "quit") {
		t.Errorf("expected trailing hints to be dropped:\n%s", view)
	}
	if !strings.Contains(view, "Diabetes Management") {
		t.Errorf("selectors must survive:\n%s", view)
	}
}

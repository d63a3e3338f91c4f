// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	rendererOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

// renderer builds the glamour renderer on first use. The style follows the
// configured theme; "auto" asks the terminal.
func renderer(theme string) *glamour.TermRenderer {
	rendererOnce.Do(func() {
		style := glamour.WithAutoStyle()
		switch theme {
		case "dark":
			style = glamour.WithStandardStyle("dark")
		case "light":
			style = glamour.WithStandardStyle("light")
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(renderWidth()))
		if err == nil {
			markdownRenderer = r
		}
	})
	return markdownRenderer
}

// renderWidth is the terminal width capped at MaxRenderWidth.
func renderWidth() int {
	width := GetTerminalWidth()
	if width > MaxRenderWidth {
		width = MaxRenderWidth
	}
	return width
}

// renderMarkdown renders markdown for the terminal. Piped output is returned
// unchanged; with rendering off the source is wrapped to the terminal.
func renderMarkdown(content, theme string, enabled bool) string {
	if !IsStdoutTTY() {
		return content
	}
	if !enabled {
		return WrapText(content, renderWidth())
	}
	r := renderer(theme)
	if r == nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

// displayMarkdown prints content through renderMarkdown.
func displayMarkdown(content, theme string, enabled bool) {
	fmt.Print(renderMarkdown(content, theme, enabled))
	if !enabled || !IsStdoutTTY() {
		fmt.Println()
	}
}

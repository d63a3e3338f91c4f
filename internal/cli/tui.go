// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - The "nutrilens tui" command and the default when no command is given.
//
// Examples:
//   nutrilens
//   nutrilens tui -f yogurt.toml --diet vegan
//   nutrilens tui -f yogurt.toml --watch
package cli

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nutrilens/internal/config"
	"github.com/jeranaias/nutrilens/internal/export"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/ui/analyzer"
	"github.com/jeranaias/nutrilens/internal/ui/styles"
)

// HandleTUI runs the interactive screen.
func HandleTUI(args Args) error {
	if err := RequiresTTY("run the terminal UI"); err != nil {
		return err
	}

	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	// the screen owns stderr; verbose logs go to a file instead
	if rt.Config.Log.Verbose && rt.Config.Log.File == "" {
		if f := openTUILog(config.DefaultLogPath, config.EnsureConfigDir); f != nil {
			defer f.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	opts := analyzer.Options{
		Theme:          styles.NewThemeFor(rt.Config.UI.Theme),
		Session:        rt.Session,
		Backend:        rt.Client,
		SkipProbe:      rt.Config.Backend.SkipProbe,
		ProbeTimeout:   probeTimeout,
		RenderMarkdown: rt.Config.UI.RenderMarkdown,
		Context:        ctx,
		Export: func(r *export.Report) (string, error) {
			return exportDefault(r, rt.Config)
		},
	}

	if args.Watch {
		w, err := labelfile.NewWatcher(args.File, labelfile.DefaultDebounce)
		if err != nil {
			return NewCommandError("tui", "watch", args.File, err)
		}
		defer w.Close()
		opts.Events = w.Events()
		opts.Reload = func(label *labelfile.Label) error {
			return rt.Reload(label, args)
		}
	}

	p := tea.NewProgram(analyzer.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return NewCommandError("tui", "run", "terminal UI failed", err)
	}
	return nil
}

// openTUILog points the standard logger at the TUI log file. When the file
// cannot be opened logging is discarded, since stderr would draw over the
// screen.
func openTUILog(logPath func() (string, error), ensureDir func() error) *os.File {
	path, err := logPath()
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	if err := ensureDir(); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(path, "nutrilens")
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	return f
}

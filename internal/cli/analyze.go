// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// analyze.go - The "nutrilens analyze" command.
//
// Builds a label from --file and --set, runs one analysis round (the four
// backend requests together) and prints the results as markdown or JSON.
// With --watch the round re-runs each time the label file changes.
//
// Examples:
//   nutrilens analyze --set food_name="Greek Yogurt" --set calories=130 --set protein=17g
//   nutrilens analyze -f yogurt.toml --goal muscle_gain --diet keto
//   nutrilens analyze -f yogurt.toml --export yogurt.pdf
//   nutrilens analyze -f yogurt.toml --watch
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/nutrilens/internal/export"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/session"
)

// HandleAnalyze runs the analyze command.
func HandleAnalyze(args Args) error {
	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !rt.Probe(ctx) {
		return notReady(rt)
	}

	if err := analyzeOnce(ctx, rt, args); err != nil {
		if !args.Watch {
			return err
		}
		DisplayError("analyze", err, args.JSON)
	}

	if args.Watch {
		return watchLabel(ctx, rt, args)
	}
	return nil
}

// notReady explains a failed readiness probe.
func notReady(rt *Runtime) error {
	return NewCommandError("analyze", "start",
		fmt.Sprintf("backend at %s is not ready (use --no-probe to skip the check)", rt.Client.BaseURL()),
		session.ErrBackendNotReady)
}

// analyzeOnce runs one round and prints or exports the results.
func analyzeOnce(ctx context.Context, rt *Runtime, args Args) error {
	if err := rt.Analyze(ctx); err != nil {
		return err
	}

	report := export.NewReport(rt.Session.Snapshot())
	if args.JSON {
		if err := NewJSONResponse("analyze", report).Print(); err != nil {
			return err
		}
	} else if !args.Quiet {
		displayMarkdown(export.Body(report), rt.Config.UI.Theme, rt.Config.UI.RenderMarkdown)
	}

	if args.Export != "" {
		return exportReport(report, args.Export, args)
	}
	return nil
}

// exportReport writes report to path, choosing the format by extension.
func exportReport(report *export.Report, path string, args Args) error {
	exporter, err := export.ForPath(path, export.DefaultOptions())
	if err != nil {
		return NewUsageError("--export", path, err.Error())
	}
	if err := export.ExportTo(report, exporter, path); err != nil {
		return NewCommandError("analyze", "export", path, err)
	}
	if !args.JSON && !args.Quiet {
		fmt.Fprintln(os.Stderr, SuccessStyle.Render("Saved report to "+path))
	}
	return nil
}

// watchLabel re-runs the round whenever the label file changes, until ctx
// is cancelled. Errors are reported and the loop continues.
func watchLabel(ctx context.Context, rt *Runtime, args Args) error {
	w, err := labelfile.NewWatcher(args.File, labelfile.DefaultDebounce)
	if err != nil {
		return NewCommandError("analyze", "watch", args.File, err)
	}
	defer w.Close()

	if !args.JSON && !args.Quiet {
		fmt.Fprintln(os.Stderr, DimStyle.Render("Watching "+args.File+" (Ctrl+C to stop)"))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.Events():
			if ev.Err != nil {
				DisplayError("analyze", ev.Err, args.JSON)
				continue
			}
			if err := rt.Reload(ev.Label, args); err != nil {
				DisplayError("analyze", err, args.JSON)
				continue
			}
			if err := analyzeOnce(ctx, rt, args); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				DisplayError("analyze", err, args.JSON)
			}
		}
	}
}

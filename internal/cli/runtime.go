// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Shared setup for commands that talk to the backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/config"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/session"
)

// probeTimeout bounds the startup readiness check.
const probeTimeout = 10 * time.Second

// Runtime bundles what a command needs: configuration, a backend client and
// a session holding the label from the command line.
type Runtime struct {
	Config  *config.Config
	Client  *backend.Client
	Session *session.Session
	Label   *labelfile.Label // nil without --file

	logFile io.Closer
}

// LoadConfig loads the configuration and applies the global flags.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if cfg == nil {
		return nil, NewCommandError("config", "load", "invalid configuration", err)
	}
	if err != nil && !args.Quiet && !args.JSON {
		// a malformed file falls back to defaults
		fmt.Fprintf(os.Stderr, "%s %v\n", WarningStyle.Render("Warning:"), err)
	}
	if args.BackendURL != "" {
		cfg.Backend.BaseURL = args.BackendURL
		if err := cfg.Validate(); err != nil {
			return nil, NewUsageError("--url", args.BackendURL, err.Error())
		}
	}
	if args.NoProbe {
		cfg.Backend.SkipProbe = true
	}
	if args.Verbose {
		cfg.Log.Verbose = true
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// SetupLogging routes the standard logger. Verbose runs log to stderr,
// otherwise to the configured file or nowhere.
func SetupLogging(cfg *config.Config) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.Log.Verbose {
		log.SetOutput(os.Stderr)
		return nil, nil
	}
	if cfg.Log.File == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

// NewRuntime loads config, sets up logging and builds the session from
// --file, --set, --goal and --diet, in that order.
func NewRuntime(args Args) (*Runtime, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	closer, err := SetupLogging(cfg)
	if err != nil && !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "%s %v\n", WarningStyle.Render("Warning:"), err)
	}

	rt := &Runtime{
		Config:  cfg,
		Client:  backend.NewClientWithConfig(cfg.BackendClientConfig()),
		Session: session.New(cfg.Selector()),
		logFile: closer,
	}
	if err := rt.applyLabel(args); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// Close releases the log file.
func (rt *Runtime) Close() {
	if rt.logFile != nil {
		_ = rt.logFile.Close()
		rt.logFile = nil
	}
}

func (rt *Runtime) applyLabel(args Args) error {
	if err := rt.applyServingDefault(); err != nil {
		return err
	}
	if args.File != "" {
		label, err := labelfile.Load(args.File)
		if err != nil {
			return NewCommandError("label", "load", args.File, err)
		}
		rt.Label = label
		if err := label.Apply(rt.Session, false); err != nil {
			return NewCommandError("label", "apply", args.File, err)
		}
	}
	return rt.applyOverrides(args)
}

// Reload clears the session and applies label, then the command-line
// overrides again.
func (rt *Runtime) Reload(label *labelfile.Label, args Args) error {
	rt.Session.Clear()
	if err := rt.applyServingDefault(); err != nil {
		return err
	}
	rt.Label = label
	if err := label.Apply(rt.Session, false); err != nil {
		return err
	}
	return rt.applyOverrides(args)
}

func (rt *Runtime) applyServingDefault() error {
	ss := rt.Config.Defaults.ServingSize
	if ss == "" {
		return nil
	}
	_, err := rt.Session.SetField(model.FieldServingSize, ss)
	return err
}

// applyOverrides applies --set, --goal and --diet. It runs again after each
// reload in watch mode so the command line keeps winning over the file.
func (rt *Runtime) applyOverrides(args Args) error {
	for _, s := range args.Sets {
		name, value, err := ParseAssignment(s)
		if err != nil {
			return err
		}
		if _, err := rt.Session.SetField(name, value); err != nil {
			return NewUsageError("--set", s, err.Error())
		}
	}
	if args.Goal != "" {
		if err := rt.Session.SetHealthGoal(model.HealthGoal(args.Goal)); err != nil {
			return NewUsageError("--goal", args.Goal, err.Error())
		}
	}
	if args.Diet != "" {
		if err := rt.Session.SetDietType(model.DietType(args.Diet)); err != nil {
			return NewUsageError("--diet", args.Diet, err.Error())
		}
	}
	return nil
}

// Probe runs the readiness check once, or marks the session ready when the
// probe is skipped.
func (rt *Runtime) Probe(ctx context.Context) bool {
	if rt.Config.Backend.SkipProbe {
		rt.Session.SetReady(true)
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	ready := session.NewReadinessGate(rt.Client).Probe(ctx)
	rt.Session.SetReady(ready)
	return ready
}

// Analyze runs one analysis round.
func (rt *Runtime) Analyze(ctx context.Context) error {
	return rt.Session.Analyze(ctx, session.NewOrchestrator(rt.Client))
}

// Ask sends the pending question.
func (rt *Runtime) Ask(ctx context.Context) error {
	return rt.Session.Ask(ctx, session.NewConversation(rt.Client))
}

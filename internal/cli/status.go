// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - The "nutrilens status" command.
//
// Probes the backend health endpoint once and reports whether the analysis
// models are loaded. Exits with ExitNotReadyError when they are not.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/config"
	"github.com/jeranaias/nutrilens/internal/session"
)

// StatusOutput is the JSON body of the status command.
type StatusOutput struct {
	BackendURL   string `json:"backend_url"`
	Reachable    bool   `json:"reachable"`
	ModelsLoaded bool   `json:"models_loaded"`
	Status       string `json:"status,omitempty"`
	Error        string `json:"error,omitempty"`
	LatencyMs    int64  `json:"latency_ms"`
	ConfigPath   string `json:"config_path,omitempty"`
}

// HandleStatus runs the status command.
func HandleStatus(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	closer, _ := SetupLogging(cfg)
	if closer != nil {
		defer closer.Close()
	}

	out := checkStatus(context.Background(), backend.NewClientWithConfig(cfg.BackendClientConfig()))
	out.ConfigPath, _ = config.ConfigPathTOML()

	if args.JSON {
		if perr := NewJSONResponse("status", out).Print(); perr != nil {
			return perr
		}
	} else {
		printStatus(out)
	}

	if !out.ModelsLoaded {
		return &ReportedError{Err: session.ErrBackendNotReady}
	}
	return nil
}

// healthClient is the part of *backend.Client the status command uses.
type healthClient interface {
	session.Prober
	BaseURL() string
}

// checkStatus calls the health endpoint directly so the reply can be shown.
func checkStatus(ctx context.Context, client healthClient) StatusOutput {
	out := StatusOutput{BackendURL: client.BaseURL()}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	status, err := client.Health(ctx)
	out.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Reachable = true
	out.Status = status.Status
	out.ModelsLoaded = status.ModelsLoaded
	return out
}

func printStatus(out StatusOutput) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("nutrilens Status"))
	fmt.Println(RenderSeparator(41))
	fmt.Println()

	fmt.Println(RenderField("  Backend:   ", out.BackendURL))
	switch {
	case !out.Reachable:
		fmt.Println(RenderField("  Reachable: ", ErrorStyle.Render("no")))
		fmt.Println(RenderField("  Error:     ", DimStyle.Render(out.Error)))
	default:
		fmt.Println(RenderField("  Reachable: ", SuccessStyle.Render("yes")+DimStyle.Render(fmt.Sprintf(" (%dms)", out.LatencyMs))))
		if out.Status != "" {
			fmt.Println(RenderField("  Status:    ", out.Status))
		}
	}
	fmt.Println(RenderField("  Models:    ", RenderReadiness(out.ModelsLoaded)))
	if out.ConfigPath != "" {
		fmt.Println(RenderField("  Config:    ", DimStyle.Render(out.ConfigPath)))
	}
	fmt.Println()

	if !out.ModelsLoaded {
		hint := "Analysis stays disabled until the backend reports models_loaded."
		if !out.Reachable && strings.Contains(out.Error, "connection refused") {
			hint = "Nothing is listening there. Start the backend or pass --url."
		}
		fmt.Println(WarningStyle.Render(hint))
		fmt.Println()
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"

	"github.com/jeranaias/nutrilens/internal/backend"
)

// Prober checks backend readiness. *backend.Client implements it.
type Prober interface {
	Health(ctx context.Context) (*backend.HealthStatus, error)
}

// ReadinessGate probes the backend once at startup.
type ReadinessGate struct {
	prober Prober
}

// NewReadinessGate creates a gate backed by p.
func NewReadinessGate(p Prober) *ReadinessGate {
	return &ReadinessGate{prober: p}
}

// Probe reports whether the backend has its models loaded. Failures are
// logged and read as not ready; there is no retry.
func (g *ReadinessGate) Probe(ctx context.Context) bool {
	status, err := g.prober.Health(ctx)
	if err != nil {
		log.Printf("session: readiness probe failed: %v", err)
		return false
	}
	if !status.ModelsLoaded {
		log.Printf("session: backend reachable but models not loaded (status %q)", status.Status)
	}
	return status.ModelsLoaded
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the nutrition analysis API.
//
// The API exposes one readiness probe and five JSON endpoints. Every request
// carries the full nutrition record; the health-goal, diet and chat requests
// wrap it under "nutrition_data" together with their selector or question.
//
// # Key Types
//
//   - Client: rate-limited JSON-over-HTTP client, safe for concurrent use
//   - ClientConfig: base URL, timeout and rate limit settings
//   - ClientError: typed failure (transport, timeout, status, decode, request)
//   - HealthStatus: readiness probe response
//
// # Usage
//
//	client := backend.NewClient("http://localhost:8000")
//	status, err := client.Health(ctx)
//	if err == nil && status.ModelsLoaded {
//	    simp, err := client.Simplify(ctx, record)
//	}
//
// Errors can be classified with IsTransport and IsDecode.
package backend

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nutrilens/internal/model"
)

func yogurt() model.NutritionRecord {
	rec := model.NewNutritionRecord()
	rec.FoodName = "Greek Yogurt"
	rec.Calories = model.Amount(100)
	rec.Protein = model.Amount(17)
	rec.TotalFat = model.Amount(0)
	rec.Sodium = model.Amount(50)
	return rec
}

// =============================================================================
// REQUEST SHAPE TESTS
// =============================================================================

func TestClient_RequestShapes(t *testing.T) {
	type seen struct {
		method string
		body   map[string]any
		header http.Header
	}
	var mu sync.Mutex
	got := make(map[string]seen)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &body)
			}
		}
		mu.Lock()
		got[r.URL.Path] = seen{method: r.Method, body: body, header: r.Header.Clone()}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case PathHealth:
			w.Write([]byte(`{"status":"healthy","models_loaded":true}`))
		case PathSimplify:
			w.Write([]byte(`{"simplified_explanation":"ok","daily_value_percentages":{"calories":5}}`))
		case PathHealthGoal:
			w.Write([]byte(`{"suitability_verdict":"fine","suitability_score":85,"recommendation":"eat","goal_info":{"description":"low cal"}}`))
		case PathDietCompatibility:
			w.Write([]byte(`{"compatibility_explanation":"meh","compatibility_score":40,"is_compatible":false,"specific_concerns":[]}`))
		case PathWarnings:
			w.Write([]byte(`{"ai_analysis":"fine","health_warnings":[],"alternative_suggestions":["berries"],"overall_health_score":90}`))
		case PathChat:
			w.Write([]byte(`{"question":"q?","answer":"a.","follow_up_suggestions":["next?"],"relevant_facts":["fact"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	rec := yogurt()
	seenAt := func(path string) seen {
		mu.Lock()
		defer mu.Unlock()
		return got[path]
	}

	status, err := client.Health(ctx)
	require.NoError(t, err)
	assert.True(t, status.ModelsLoaded)
	assert.Equal(t, http.MethodGet, seenAt(PathHealth).method)

	simp, err := client.Simplify(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "ok", simp.Explanation)
	assert.Equal(t, 5.0, simp.DailyValuePercentages["calories"])
	assert.Equal(t, "Greek Yogurt", seenAt(PathSimplify).body["food_name"])
	assert.Equal(t, "", seenAt(PathSimplify).body["iron"], "unset nutrients are sent as empty strings")

	goal, err := client.HealthGoal(ctx, rec, model.GoalWeightLoss)
	require.NoError(t, err)
	assert.Equal(t, 85.0, goal.Score)
	require.NotNil(t, goal.GoalInfo)
	assert.Equal(t, "low cal", goal.GoalInfo.Description)
	assert.Equal(t, "weight_loss", seenAt(PathHealthGoal).body["health_goal"])
	nested, ok := seenAt(PathHealthGoal).body["nutrition_data"].(map[string]any)
	require.True(t, ok, "record must be nested under nutrition_data")
	assert.Equal(t, 100.0, nested["calories"])

	diet, err := client.DietCompatibility(ctx, rec, model.DietKeto)
	require.NoError(t, err)
	assert.False(t, diet.IsCompatible)
	assert.NotNil(t, diet.SpecificConcerns)
	assert.Equal(t, "keto", seenAt(PathDietCompatibility).body["diet_type"])

	warn, err := client.Warnings(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"berries"}, warn.AlternativeSuggestions)

	turn, err := client.Ask(ctx, rec, "q?", "prior text")
	require.NoError(t, err)
	assert.Equal(t, "a.", turn.Answer)
	assert.Equal(t, []string{"fact"}, turn.RelevantFacts)
	assert.Equal(t, "prior text", seenAt(PathChat).body["context"])
	assert.Equal(t, "q?", seenAt(PathChat).body["question"])

	mu.Lock()
	defer mu.Unlock()
	for path, s := range got {
		assert.Equal(t, "application/json", s.header.Get("Content-Type"), path)
		assert.Equal(t, "application/json", s.header.Get("Accept"), path)
		assert.NotEmpty(t, s.header.Get("X-Request-ID"), path)
	}
}

// =============================================================================
// ERROR CLASSIFICATION TESTS
// =============================================================================

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantType  ErrorType
		transport bool
		decode    bool
		contains  string
	}{
		{
			name: "server error with detail",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail":"Error processing nutrition label: boom"}`))
			},
			wantType:  ErrTypeStatus,
			transport: true,
			contains:  "boom",
		},
		{
			name: "validation error list detail",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"detail":[{"loc":["body","calories"],"msg":"field required"}]}`))
			},
			wantType:  ErrTypeStatus,
			transport: true,
			contains:  "field required",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ai_analysis":`))
			},
			wantType: ErrTypeDecode,
			decode:   true,
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`["not", "an", "object"]`))
			},
			wantType: ErrTypeDecode,
			decode:   true,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantType: ErrTypeDecode,
			decode:   true,
			contains: "empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			_, err := NewClient(server.URL).Warnings(context.Background(), yogurt())
			require.Error(t, err)

			var ce *ClientError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.wantType, ce.Type)
			assert.Equal(t, OpWarnings, ce.Op)
			assert.Equal(t, tc.transport, IsTransport(err))
			assert.Equal(t, tc.decode, IsDecode(err))
			if tc.contains != "" {
				assert.Contains(t, err.Error(), tc.contains)
			}
		})
	}
}

func TestClient_MissingResponseFields(t *testing.T) {
	calls := []struct {
		op   string
		call func(c *Client) error
	}{
		{OpHealth, func(c *Client) error { _, err := c.Health(context.Background()); return err }},
		{OpSimplify, func(c *Client) error { _, err := c.Simplify(context.Background(), yogurt()); return err }},
		{OpHealthGoal, func(c *Client) error {
			_, err := c.HealthGoal(context.Background(), yogurt(), model.GoalWeightLoss)
			return err
		}},
		{OpDietCompatibility, func(c *Client) error {
			_, err := c.DietCompatibility(context.Background(), yogurt(), model.DietKeto)
			return err
		}},
		{OpWarnings, func(c *Client) error { _, err := c.Warnings(context.Background(), yogurt()); return err }},
		{OpAsk, func(c *Client) error {
			_, err := c.Ask(context.Background(), yogurt(), "Is this keto?", "")
			return err
		}},
	}
	bodies := map[string]string{
		"empty object": `{}`,
		"error object": `{"error":"model crashed"}`,
	}

	for name, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))
		client := NewClient(server.URL)
		for _, c := range calls {
			t.Run(name+"/"+c.op, func(t *testing.T) {
				err := c.call(client)
				require.Error(t, err)
				assert.True(t, IsDecode(err), "want decode error, got %v", err)
				assert.False(t, IsTransport(err))
				var ce *ClientError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, c.op, ce.Op)
				assert.Contains(t, err.Error(), "missing")
			})
		}
		server.Close()
	}
}

func TestClient_NullResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ai_analysis":"fine","health_warnings":null,"alternative_suggestions":[],"overall_health_score":90}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Warnings(context.Background(), yogurt())
	require.Error(t, err)
	assert.True(t, IsDecode(err))
	assert.Contains(t, err.Error(), "health_warnings")
	assert.NotContains(t, err.Error(), "ai_analysis")
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Timeout = 50 * time.Millisecond
	client := NewClientWithConfig(cfg)

	_, err := client.Simplify(context.Background(), yogurt())
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test/", Timeout: -1})
	assert.Equal(t, "http://example.test", c.BaseURL())
	assert.Equal(t, time.Duration(0), c.config.Timeout)
	assert.Equal(t, DefaultBurst, c.config.Burst)
	assert.Equal(t, float64(DefaultRequestsPerSecond), c.config.RequestsPerSecond)
	assert.True(t, strings.HasPrefix(c.String(), "backend.Client("))
}

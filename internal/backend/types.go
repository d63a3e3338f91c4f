// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "github.com/jeranaias/nutrilens/internal/model"

// API paths.
const (
	PathHealth            = "/api/health"
	PathSimplify          = "/api/nutrition/simplify"
	PathHealthGoal        = "/api/nutrition/health-goal"
	PathDietCompatibility = "/api/nutrition/diet-compatibility"
	PathWarnings          = "/api/nutrition/warnings"
	PathChat              = "/api/nutrition/chat"
)

// Operation names used in errors and logs.
const (
	OpHealth            = "health"
	OpSimplify          = "simplify"
	OpHealthGoal        = "health-goal"
	OpDietCompatibility = "diet-compatibility"
	OpWarnings          = "warnings"
	OpAsk               = "ask"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// HealthGoalRequest is the body of the health-goal endpoint.
type HealthGoalRequest struct {
	NutritionData model.NutritionRecord `json:"nutrition_data"`
	HealthGoal    model.HealthGoal      `json:"health_goal"`
}

// DietRequest is the body of the diet-compatibility endpoint.
type DietRequest struct {
	NutritionData model.NutritionRecord `json:"nutrition_data"`
	DietType      model.DietType        `json:"diet_type"`
}

// AskRequest is the body of the chat endpoint.
type AskRequest struct {
	NutritionData model.NutritionRecord `json:"nutrition_data"`
	Question      string                `json:"question"`
	Context       string                `json:"context"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Response fields each endpoint must return. A 2xx body without one of them
// is a decode error.
var (
	healthFields     = []string{"models_loaded"}
	simplifyFields   = []string{"simplified_explanation", "daily_value_percentages"}
	healthGoalFields = []string{"suitability_verdict", "suitability_score", "recommendation"}
	dietFields       = []string{"compatibility_explanation", "compatibility_score", "is_compatible", "specific_concerns"}
	warningsFields   = []string{"ai_analysis", "health_warnings", "alternative_suggestions", "overall_health_score"}
	askFields        = []string{"answer"}
)

// HealthStatus is the readiness probe response.
type HealthStatus struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

// apiError is the error body the backend returns with non-2xx statuses.
type apiError struct {
	Detail any `json:"detail"`
}

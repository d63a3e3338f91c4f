// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package labelfile reads nutrition labels from TOML, JSON or YAML files and
// watches them for changes.
//
// A label file holds record fields by name, plus optional health_goal and
// diet_type keys:
//
//	food_name = "Greek Yogurt"
//	serving_size = "1 cup (245g)"
//	calories = 130
//	protein = "17g"
//	health_goal = "muscle_gain"
//
// Values go through the same coercion as typed input, so "17g" becomes 17.
// Fields may also be nested under a nutrition_data table, mirroring the
// backend request shape.
package labelfile

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for nutrition labels and the
// analysis results returned by the backend.
//
// # Key Types
//
//   - NutrientValue: A nutrient amount that is either unset or a finite, non-negative number
//   - NutritionRecord: One food label (name, serving size and fifteen nutrients)
//   - Selector: The chosen health goal and diet type
//   - ResultSet: The four analysis results of the latest successful round
//   - ConversationTurn: The latest question and answer with follow-up suggestions
//
// # Usage
//
// Build a record from raw form input:
//
//	rec := model.NewNutritionRecord()
//	rec.FoodName = "Greek Yogurt"
//	_ = rec.SetNutrient("calories", "120")
//	_ = rec.SetNutrient("protein", "17g") // parsed as 17
//
// Unset nutrients serialize as "" on the wire; set ones as JSON numbers.
package model

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

// DefaultServingSize is the serving size of a fresh record.
const DefaultServingSize = "1 serving"

// Text field names.
const (
	FieldFoodName    = "food_name"
	FieldServingSize = "serving_size"
)

// ErrUnknownField is returned when a field name is not part of the record.
var ErrUnknownField = errors.New("unknown nutrition field")

// =============================================================================
// NUTRITION RECORD
// =============================================================================

// NutritionRecord is one food label as entered by the user. Its JSON form is
// the request body of every analysis endpoint.
type NutritionRecord struct {
	FoodName     string        `json:"food_name"`
	ServingSize  string        `json:"serving_size"`
	Calories     NutrientValue `json:"calories"`
	TotalFat     NutrientValue `json:"total_fat"`
	SaturatedFat NutrientValue `json:"saturated_fat"`
	TransFat     NutrientValue `json:"trans_fat"`
	Cholesterol  NutrientValue `json:"cholesterol"`
	Sodium       NutrientValue `json:"sodium"`
	TotalCarbs   NutrientValue `json:"total_carbs"`
	DietaryFiber NutrientValue `json:"dietary_fiber"`
	TotalSugars  NutrientValue `json:"total_sugars"`
	AddedSugars  NutrientValue `json:"added_sugars"`
	Protein      NutrientValue `json:"protein"`
	VitaminD     NutrientValue `json:"vitamin_d"`
	Calcium      NutrientValue `json:"calcium"`
	Iron         NutrientValue `json:"iron"`
	Potassium    NutrientValue `json:"potassium"`
}

// NewNutritionRecord returns an empty record with the default serving size.
func NewNutritionRecord() NutritionRecord {
	return NutritionRecord{ServingSize: DefaultServingSize}
}

// =============================================================================
// FIELD TABLE
// =============================================================================

// FieldSpec describes one nutrient field of the label.
type FieldSpec struct {
	Name  string // wire name, e.g. "total_fat"
	Label string // display name, e.g. "Total Fat"
	Unit  string // display unit, "" for calories

	ref func(*NutritionRecord) *NutrientValue
}

var nutrientFields = []FieldSpec{
	{"calories", "Calories", "", func(r *NutritionRecord) *NutrientValue { return &r.Calories }},
	{"total_fat", "Total Fat", "g", func(r *NutritionRecord) *NutrientValue { return &r.TotalFat }},
	{"saturated_fat", "Saturated Fat", "g", func(r *NutritionRecord) *NutrientValue { return &r.SaturatedFat }},
	{"trans_fat", "Trans Fat", "g", func(r *NutritionRecord) *NutrientValue { return &r.TransFat }},
	{"cholesterol", "Cholesterol", "mg", func(r *NutritionRecord) *NutrientValue { return &r.Cholesterol }},
	{"sodium", "Sodium", "mg", func(r *NutritionRecord) *NutrientValue { return &r.Sodium }},
	{"total_carbs", "Total Carbohydrates", "g", func(r *NutritionRecord) *NutrientValue { return &r.TotalCarbs }},
	{"dietary_fiber", "Dietary Fiber", "g", func(r *NutritionRecord) *NutrientValue { return &r.DietaryFiber }},
	{"total_sugars", "Total Sugars", "g", func(r *NutritionRecord) *NutrientValue { return &r.TotalSugars }},
	{"added_sugars", "Added Sugars", "g", func(r *NutritionRecord) *NutrientValue { return &r.AddedSugars }},
	{"protein", "Protein", "g", func(r *NutritionRecord) *NutrientValue { return &r.Protein }},
	{"vitamin_d", "Vitamin D", "mcg", func(r *NutritionRecord) *NutrientValue { return &r.VitaminD }},
	{"calcium", "Calcium", "mg", func(r *NutritionRecord) *NutrientValue { return &r.Calcium }},
	{"iron", "Iron", "mg", func(r *NutritionRecord) *NutrientValue { return &r.Iron }},
	{"potassium", "Potassium", "mg", func(r *NutritionRecord) *NutrientValue { return &r.Potassium }},
}

// NutrientFields returns the nutrient fields in label order.
func NutrientFields() []FieldSpec {
	out := make([]FieldSpec, len(nutrientFields))
	copy(out, nutrientFields)
	return out
}

// FieldNames returns every settable field name: the two text fields followed
// by the nutrients in label order.
func FieldNames() []string {
	names := []string{FieldFoodName, FieldServingSize}
	for _, f := range nutrientFields {
		names = append(names, f.Name)
	}
	return names
}

// LookupField returns the spec for a nutrient field name.
func LookupField(name string) (FieldSpec, bool) {
	for _, f := range nutrientFields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// IsField reports whether name is a text or nutrient field.
func IsField(name string) bool {
	if name == FieldFoodName || name == FieldServingSize {
		return true
	}
	_, ok := LookupField(name)
	return ok
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Nutrient returns the value of a nutrient field.
func (r NutritionRecord) Nutrient(name string) (NutrientValue, bool) {
	f, ok := LookupField(name)
	if !ok {
		return Unset(), false
	}
	return *f.ref(&r), true
}

// SetNutrient stores a coerced nutrient value.
func (r *NutritionRecord) SetNutrient(name, raw string) error {
	f, ok := LookupField(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	*f.ref(r) = ParseNutrient(raw)
	return nil
}

// Set stores raw input into the named field. Text fields are stored
// verbatim; nutrient fields are coerced with ParseNutrient.
func (r *NutritionRecord) Set(name, raw string) error {
	switch name {
	case FieldFoodName:
		r.FoodName = raw
		return nil
	case FieldServingSize:
		r.ServingSize = raw
		return nil
	}
	return r.SetNutrient(name, raw)
}

// Get returns the display string of the named field.
func (r NutritionRecord) Get(name string) (string, bool) {
	switch name {
	case FieldFoodName:
		return r.FoodName, true
	case FieldServingSize:
		return r.ServingSize, true
	}
	v, ok := r.Nutrient(name)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// SetCount returns how many nutrient fields hold a number.
func (r NutritionRecord) SetCount() int {
	n := 0
	for _, f := range nutrientFields {
		if f.ref(&r).IsSet() {
			n++
		}
	}
	return n
}

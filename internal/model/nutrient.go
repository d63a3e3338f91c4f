// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// NUTRIENT VALUE
// =============================================================================

// NutrientValue is a nutrient amount that is either unset or a finite,
// non-negative number. The zero value is unset.
type NutrientValue struct {
	amount float64
	set    bool
}

// Unset returns the unset nutrient value.
func Unset() NutrientValue {
	return NutrientValue{}
}

// Amount returns a set nutrient value. NaN, infinities and negative
// numbers are stored as 0.
func Amount(v float64) NutrientValue {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	return NutrientValue{amount: v, set: true}
}

// IsSet reports whether the value holds a number.
func (v NutrientValue) IsSet() bool {
	return v.set
}

// Float returns the amount and whether it is set.
func (v NutrientValue) Float() (float64, bool) {
	return v.amount, v.set
}

// String returns "" for unset values and the shortest decimal form otherwise.
func (v NutrientValue) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatFloat(v.amount, 'f', -1, 64)
}

// MarshalJSON encodes unset values as "" and set values as numbers.
func (v NutrientValue) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte(`""`), nil
	}
	return []byte(strconv.FormatFloat(v.amount, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts "", null, a number, or a string that is coerced
// the same way form input is.
func (v *NutrientValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Unset()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("nutrient value: %w", err)
		}
		*v = ParseNutrient(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("nutrient value: %w", err)
	}
	*v = Amount(f)
	return nil
}

// =============================================================================
// INPUT COERCION
// =============================================================================

// leadingNumber matches the longest decimal prefix of a string, the way a
// lenient float parser reads "17g" as 17 and "2.5 mg" as 2.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// ParseNutrient coerces raw user input into a nutrient value.
//
//   - "" stays unset
//   - a leading decimal prefix is used ("17g" is 17)
//   - input with no numeric prefix, or one that overflows, becomes 0
//   - negative numbers become 0
func ParseNutrient(raw string) NutrientValue {
	if raw == "" {
		return Unset()
	}
	prefix := leadingNumber.FindString(strings.TrimLeft(raw, " \t\r\n\v\f"))
	if prefix == "" {
		return Amount(0)
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// Out of range: ParseFloat reports ±Inf, which Amount clamps.
		return Amount(0)
	}
	return Amount(f)
}

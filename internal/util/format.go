// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"math"
	"strconv"
)

// FormatAmount prints f with at most two decimals and no trailing zeros:
// 17 -> "17", 0.5 -> "0.5", 1.239 -> "1.24".
func FormatAmount(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

// FormatPercent prints a percentage rounded to a whole number: "25%".
func FormatPercent(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0%"
	}
	return strconv.FormatFloat(math.Round(f), 'f', 0, 64) + "%"
}

// FormatScore prints a 0-100 score as "72/100".
func FormatScore(f float64) string {
	return FormatAmount(f) + "/100"
}

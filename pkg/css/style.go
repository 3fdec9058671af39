package css

import (
	"strconv"
	"strings"
)

// ParseLength parses a px length ("16px"). Other units are not lengths
// here.
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	num, ok := strings.CutSuffix(val, "px")
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// FormatLength is the inverse of ParseLength.
func FormatLength(px float64) string {
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}

// resolveFontSize turns a declared font-size into px given the parent's
// size. Percentages and em are relative to the parent; anything
// unparseable falls back to the parent size.
func resolveFontSize(value string, parentPx float64) float64 {
	value = strings.TrimSpace(value)
	if px, ok := ParseLength(value); ok {
		return px
	}
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		if f, err := strconv.ParseFloat(pct, 64); err == nil && f >= 0 {
			return parentPx * f / 100
		}
	}
	if em, ok := strings.CutSuffix(value, "em"); ok {
		if f, err := strconv.ParseFloat(em, 64); err == nil && f >= 0 {
			return parentPx * f
		}
	}
	return parentPx
}

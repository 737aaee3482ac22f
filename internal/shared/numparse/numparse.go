// Package numparse parses the loosely formatted numbers vendors publish
// ("$1,234.50", "-0.35%", "NA", "--").
package numparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// sentinels are placeholder strings vendors use for "no value".
var sentinels = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"--":   {},
	"-":    {},
	"null": {},
}

var stripper = strings.NewReplacer("$", "", ",", "", "%", "", "¥", "", "+", "")

// Float parses s after stripping currency symbols, thousands separators and percent signs.
// A sentinel yields (nil, nil); anything else that is not a finite number is an error.
func Float(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if _, ok := sentinels[s]; ok {
		return nil, nil
	}
	clean := strings.TrimSpace(stripper.Replace(s))
	if clean == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unparseable number %q", s)
	}
	return &v, nil
}

// Date parses s with layout. A sentinel yields (nil, nil).
// The result is a calendar day at UTC midnight.
func Date(layout, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if _, ok := sentinels[s]; ok {
		return nil, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &t, nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Scale multiplies *v by f, preserving nil.
func Scale(v *float64, f float64) *float64 {
	if v == nil {
		return nil
	}
	return Ptr(*v * f)
}

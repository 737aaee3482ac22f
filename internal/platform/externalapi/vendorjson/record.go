package vendorjson

import (
	"strings"
	"time"

	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/shared/numparse"
)

// Float parses s and records a defect on rec when it is not a number.
// Sentinels such as "--" or "NA" yield nil without a defect.
func Float(rec *entity.RawRecord, field string, s Text) *float64 {
	v, err := numparse.Float(s.String())
	if err != nil {
		rec.AddDefect(field, err)
		return nil
	}
	return v
}

// Date parses s with layout and records a defect on rec when it is not a date.
func Date(rec *entity.RawRecord, field, layout string, s Text) *time.Time {
	v, err := numparse.Date(layout, s.String())
	if err != nil {
		rec.AddDefect(field, err)
		return nil
	}
	return v
}

// Str returns nil for blank or placeholder strings.
func Str(s Text) *string {
	v := s.String()
	switch strings.ToUpper(v) {
	case "", "NA", "N/A", "--", "-", "NULL":
		return nil
	}
	return &v
}

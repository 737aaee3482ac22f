package usecase

import (
	"fmt"
	"math"
	"time"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// Valid calendar range for vendor dates.
const (
	minValidYear = 1900
	maxValidYear = 2200
)

// Validate は永続化直前のレコードを検証し、問題があれば *domain.ValidationError を返します。
func Validate(inst entity.Instrument) error {
	var problems []string

	if inst.Symbol == "" {
		problems = append(problems, "symbol is empty")
	}
	if inst.Name == "" {
		problems = append(problems, "name is empty")
	}
	if inst.Market == "" {
		problems = append(problems, "market is empty")
	}

	if !finite(inst.LastPrice) {
		problems = append(problems, "lastPrice is not a finite number")
	} else if inst.LastPrice < 0 {
		problems = append(problems, fmt.Sprintf("lastPrice is negative (%g)", inst.LastPrice))
	}
	numbers := []struct {
		name string
		v    *float64
	}{
		{"change", &inst.Change},
		{"changePercent", &inst.ChangePercent},
		{"volume", &inst.Volume},
		{"marketCap", &inst.MarketCap},
		{"yield7d", inst.Yield7d},
		{"yield1w", inst.Yield1w},
		{"yield1m", inst.Yield1m},
		{"yield3m", inst.Yield3m},
		{"yield6m", inst.Yield6m},
		{"yield1y", inst.Yield1y},
		{"yieldYtd", inst.YieldYTD},
		{"yieldSinceInception", inst.YieldSinceInception},
	}
	for _, n := range numbers {
		if n.v != nil && !finite(*n.v) {
			problems = append(problems, n.name+" is not a finite number")
		}
	}

	dates := []struct {
		name string
		d    *time.Time
	}{
		{"navDate", inst.NavDate},
		{"setupDate", inst.SetupDate},
	}
	for _, x := range dates {
		if x.d != nil && (x.d.IsZero() || x.d.Year() < minValidYear || x.d.Year() > maxValidYear) {
			problems = append(problems, x.name+" is not a valid calendar date")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &domain.ValidationError{Symbol: inst.Symbol, Market: inst.Market, Problems: problems}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

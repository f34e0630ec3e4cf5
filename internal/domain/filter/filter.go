// Package filter applies declarative filter specifications to normalized
// prop records and produces a stably ordered result.
package filter

import (
	"sort"

	"github.com/courtside/proptracker/internal/domain/model"
)

// Spec is an explicit filter configuration. The zero value passes
// everything and applies only the default ordering.
type Spec struct {
	// Market keeps only records with this market; MarketAll (or empty)
	// keeps every market.
	Market model.Market `json:"market,omitempty"`

	// Window keeps only records with this window; nil means any.
	Window *model.Window `json:"window,omitempty"`

	// HitRateWindow selects which rolling sample MinHitRate evaluates and
	// the sort key. Defaults to L10.
	HitRateWindow model.HitRateWindow `json:"hit_rate_window,omitempty"`

	// MinHitRate is on a 0-100 scale. A record with no hit rate for the
	// selected window fails the filter unless the threshold is zero.
	MinHitRate float64 `json:"min_hit_rate,omitempty"`

	// MinOdds and MaxOdds are inclusive American-odds bounds; nil means
	// unbounded on that side.
	MinOdds *int `json:"min_odds,omitempty"`
	MaxOdds *int `json:"max_odds,omitempty"`
}

// Apply filters records per spec and sorts the survivors by descending
// selected hit rate, tie-broken by ascending odds (more favored first).
// The sort is stable: equal-key records keep their relative input order,
// which is part of the contract, not an implementation detail.
func Apply(records []model.PropRecord, spec Spec) []model.PropRecord {
	hrWindow := spec.HitRateWindow
	if hrWindow == "" {
		hrWindow = model.HitRateL10
	}

	out := make([]model.PropRecord, 0, len(records))
	for i := range records {
		if matches(&records[i], spec, hrWindow) {
			out = append(out, records[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		hi, hj := sortRate(&out[i], hrWindow), sortRate(&out[j], hrWindow)
		if hi != hj {
			return hi > hj
		}
		return out[i].Odds < out[j].Odds
	})
	return out
}

func matches(rec *model.PropRecord, spec Spec, hrWindow model.HitRateWindow) bool {
	if spec.Market != "" && spec.Market != model.MarketAll && rec.Market != spec.Market {
		return false
	}
	if spec.Window != nil && rec.Window != *spec.Window {
		return false
	}
	if spec.MinHitRate > 0 {
		hr := rec.HitRate(hrWindow)
		if hr == nil || *hr*100 < spec.MinHitRate {
			return false
		}
	}
	if spec.MinOdds != nil && rec.Odds < *spec.MinOdds {
		return false
	}
	if spec.MaxOdds != nil && rec.Odds > *spec.MaxOdds {
		return false
	}
	return true
}

// sortRate treats a missing hit rate as the lowest possible key so that
// unrated records sink to the bottom instead of interleaving.
func sortRate(rec *model.PropRecord, w model.HitRateWindow) float64 {
	if hr := rec.HitRate(w); hr != nil {
		return *hr
	}
	return -1
}

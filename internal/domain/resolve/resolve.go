// Package resolve extracts canonical values from raw, schema-inconsistent
// feed rows. Several backend schema versions coexist in the wild, so every
// logical field is probed through an ordered alias list.
//
// All functions here are total: ambiguity is an expected state reported
// through an ok=false return, never an error.
package resolve

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/courtside/proptracker/internal/domain/model"
)

// Raw is one untyped feed row as decoded from JSON.
type Raw = map[string]any

// Value returns the first non-nil value among the aliases of field.
func Value(row Raw, field string) (any, bool) {
	for _, alias := range fieldAliases[field] {
		if v, ok := row[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Float returns the first alias value of field coercible to a finite float.
func Float(row Raw, field string) (float64, bool) {
	for _, alias := range fieldAliases[field] {
		v, ok := row[alias]
		if !ok || v == nil {
			continue
		}
		if f, ok := coerceFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

// Int returns the first alias value of field coercible to an integer.
// Floats with a fractional part are rejected.
func Int(row Raw, field string) (int64, bool) {
	f, ok := Float(row, field)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// String returns the first non-empty string among the aliases of field.
func String(row Raw, field string) (string, bool) {
	for _, alias := range fieldAliases[field] {
		v, ok := row[alias]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// coerceFloat converts numeric JSON shapes (float64, int, json.Number,
// numeric string) to a finite float64.
func coerceFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "+"))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// clean lowercases s and strips whitespace and underscores.
func clean(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '_', '-':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// squash lowercases s and strips everything but letters and digits. Used
// for punctuation-insensitive franchise-name matching.
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MarketKey normalizes a raw market spelling onto the canonical vocabulary.
// Unrecognized-but-present keys pass through verbatim (cleaned) so that new
// backend markets degrade gracefully instead of vanishing.
func MarketKey(raw string) (model.Market, bool) {
	key := clean(raw)
	if key == "" {
		return "", false
	}
	if m, ok := marketAliases[key]; ok {
		return m, true
	}
	return model.Market(key), true
}

// WindowKey normalizes a raw window spelling; unknown values report ok=false.
func WindowKey(raw string) (model.Window, bool) {
	w, ok := windowAliases[clean(raw)]
	return w, ok
}

// TeamAbbr accepts either a known team code or a full franchise name and
// returns the canonical code. Anything else reports ok=false; callers must
// not guess.
func TeamAbbr(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if code := strings.ToUpper(s); teamCodes[code] {
		return code, true
	}
	if code, ok := teamNames[squash(s)]; ok {
		return code, true
	}
	return "", false
}

// ParseMatchup splits "AWAY @ HOME" or "HOME vs AWAY" strings, normalizing
// each side through TeamAbbr. Unresolvable sides come back empty.
func ParseMatchup(text string) (home, away string) {
	if i := strings.Index(text, "@"); i >= 0 {
		away, _ = TeamAbbr(text[:i])
		home, _ = TeamAbbr(text[i+1:])
		return home, away
	}
	lower := strings.ToLower(text)
	for _, sep := range []string{" vs. ", " vs "} {
		if i := strings.Index(lower, sep); i >= 0 {
			home, _ = TeamAbbr(text[:i])
			away, _ = TeamAbbr(text[i+len(sep):])
			return home, away
		}
	}
	return "", ""
}

// OddsSide maps a raw outcome label onto over/under/yes by substring match.
func OddsSide(raw string) (model.Side, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return "", false
	case strings.Contains(s, "over"):
		return model.SideOver, true
	case strings.Contains(s, "under"):
		return model.SideUnder, true
	case strings.Contains(s, "yes"):
		return model.SideYes, true
	case s == "o":
		return model.SideOver, true
	case s == "u":
		return model.SideUnder, true
	}
	return "", false
}

// Odds returns the first alias value of field as American odds. Values in
// (-100, 100) other than zero are not valid American odds and are treated
// as absent.
func Odds(row Raw, field string) (int, bool) {
	f, ok := Float(row, field)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	n := int(f)
	if n > -100 && n < 100 {
		return 0, false
	}
	return n, true
}

// StartTimeMs returns a start-time field in epoch milliseconds, accepting
// epoch seconds from older schema versions.
func StartTimeMs(row Raw, field string) (int64, bool) {
	f, ok := Float(row, field)
	if !ok || f <= 0 {
		return 0, false
	}
	ms := int64(f)
	// Values before ~2001 in millis are almost certainly epoch seconds.
	const msThreshold = int64(1e12)
	if ms < msThreshold {
		ms *= 1000
	}
	return ms, true
}

// HitRate returns a hit-rate field clamped into [0,1], accepting the 0-100
// percent encoding used by older schema versions.
func HitRate(row Raw, field string) (float64, bool) {
	f, ok := Float(row, field)
	if !ok || f < 0 {
		return 0, false
	}
	if f > 1 {
		f /= 100
	}
	if f > 1 {
		return 0, false
	}
	return f, true
}

// Package normalize converts raw feed rows into canonical PropRecords.
//
// A row that cannot yield a complete record is dropped, never partially
// normalized: feeds are high-volume and partially dirty by nature, and one
// bad row must not abort a batch.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside/proptracker/internal/domain/model"
	"github.com/courtside/proptracker/internal/domain/resolve"
)

// DropReason classifies why a row yielded no record, for metrics.
type DropReason string

const (
	DropNone     DropReason = ""
	DropIdentity DropReason = "identity"
	DropMarket   DropReason = "market"
	DropLine     DropReason = "line"
	DropOdds     DropReason = "odds"
)

// compositeDelim joins the parts of a synthesized prop id.
const compositeDelim = "|"

// Normalize builds a PropRecord from one raw row. The positional index only
// disambiguates the list-safe ID; it never influences PropID, which must be
// deterministic across re-fetches for downstream fingerprinting to work.
func Normalize(row resolve.Raw, index int) (*model.PropRecord, DropReason) {
	playerName, hasName := resolve.String(row, resolve.FieldPlayerName)
	playerID, hasID := resolve.Int(row, resolve.FieldPlayerID)
	if !hasName && !hasID {
		return nil, DropIdentity
	}

	rawMarket, ok := resolve.String(row, resolve.FieldMarket)
	if !ok {
		return nil, DropMarket
	}
	market, ok := resolve.MarketKey(rawMarket)
	if !ok {
		return nil, DropMarket
	}

	line, ok := resolve.Float(row, resolve.FieldLine)
	if !ok {
		return nil, DropLine
	}

	odds, ok := resolve.Odds(row, resolve.FieldOdds)
	if !ok {
		return nil, DropOdds
	}

	rec := &model.PropRecord{
		PlayerName: playerName,
		Market:     market,
		Window:     model.WindowFullGame,
		Line:       line,
		Odds:       odds,
	}
	if hasID {
		rec.PlayerID = &playerID
	}

	if raw, ok := resolve.String(row, resolve.FieldWindow); ok {
		if w, ok := resolve.WindowKey(raw); ok {
			rec.Window = w
		}
	}
	if raw, ok := resolve.String(row, resolve.FieldSide); ok {
		if side, ok := resolve.OddsSide(raw); ok {
			rec.Side = side
		}
	}
	if book, ok := resolve.String(row, resolve.FieldBookmaker); ok {
		rec.Bookmaker = book
	}

	fillContext(row, rec)
	fillHitRates(row, rec)

	rec.PropID = propID(row, rec)
	rec.ID = rec.PropID + "#" + strconv.Itoa(index)
	return rec, DropNone
}

// fillContext resolves the optional team and schedule fields.
func fillContext(row resolve.Raw, rec *model.PropRecord) {
	if raw, ok := resolve.String(row, resolve.FieldHomeTeam); ok {
		if code, ok := resolve.TeamAbbr(raw); ok {
			rec.HomeTeam = code
		}
	}
	if raw, ok := resolve.String(row, resolve.FieldAwayTeam); ok {
		if code, ok := resolve.TeamAbbr(raw); ok {
			rec.AwayTeam = code
		}
	}
	// Older schema versions pack both sides into a single matchup string.
	if rec.HomeTeam == "" && rec.AwayTeam == "" {
		if text, ok := resolve.String(row, resolve.FieldMatchup); ok {
			rec.HomeTeam, rec.AwayTeam = resolve.ParseMatchup(text)
		}
	}
	if raw, ok := resolve.String(row, resolve.FieldPlayerTeam); ok {
		if code, ok := resolve.TeamAbbr(raw); ok {
			rec.PlayerTeamAbbr = code
		}
	}
	if raw, ok := resolve.String(row, resolve.FieldOpponent); ok {
		if code, ok := resolve.TeamAbbr(raw); ok {
			rec.OpponentAbbr = code
		}
	}
	if ms, ok := resolve.StartTimeMs(row, resolve.FieldStartTime); ok {
		rec.StartTimeMs = &ms
	}
}

func fillHitRates(row resolve.Raw, rec *model.PropRecord) {
	if hr, ok := resolve.HitRate(row, resolve.FieldHitRateL5); ok {
		rec.HitRateL5 = &hr
	}
	if hr, ok := resolve.HitRate(row, resolve.FieldHitRateL10); ok {
		rec.HitRateL10 = &hr
	}
	if hr, ok := resolve.HitRate(row, resolve.FieldHitRateL20); ok {
		rec.HitRateL20 = &hr
	}
}

// propID prefers the feed's native identifier; otherwise it synthesizes a
// deterministic composite so the same logical line keeps the same id across
// fetches even without a server-assigned one.
func propID(row resolve.Raw, rec *model.PropRecord) string {
	if id, ok := resolve.String(row, resolve.FieldPropID); ok {
		return id
	}
	eventID, _ := resolve.String(row, resolve.FieldEventID)
	parts := []string{
		eventID,
		string(rec.Market),
		strings.ToLower(rec.PlayerName),
		string(rec.Side),
		fmt.Sprintf("%g", rec.Line),
		strings.ToLower(rec.Bookmaker),
	}
	return strings.Join(parts, compositeDelim)
}

// Batch normalizes a whole fetch, dropping unusable rows and reporting the
// per-reason drop counts.
func Batch(rows []resolve.Raw) ([]model.PropRecord, map[DropReason]int) {
	records := make([]model.PropRecord, 0, len(rows))
	drops := make(map[DropReason]int)
	for i, row := range rows {
		rec, reason := Normalize(row, i)
		if rec == nil {
			drops[reason]++
			continue
		}
		records = append(records, *rec)
	}
	return records, drops
}

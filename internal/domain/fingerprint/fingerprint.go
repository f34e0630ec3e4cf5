// Package fingerprint detects "no meaningful change" between poll ticks.
//
// A fingerprint is a hash over a stable serialization of the semantically
// relevant payload. Downstream observers treat "no store write" as
// "nothing changed", so suppressing writes for identical payloads is a
// correctness obligation, not a performance nicety.
package fingerprint

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Sum fingerprints v via its canonical JSON form. encoding/json marshals
// map keys in sorted order, which makes the serialization stable for the
// raw row maps flowing out of the feed.
func Sum(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16), nil
}

// Guard remembers the last accepted fingerprint per key (one key per feed)
// and reports whether a new payload differs.
type Guard struct {
	mu   sync.Mutex
	last map[string]string
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{last: make(map[string]string)}
}

// Changed reports whether fp differs from the last accepted fingerprint
// for key, recording it when it does. The compare-and-record is atomic so
// a feed's ticks observe a consistent history.
func (g *Guard) Changed(key, fp string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.last[key] == fp {
		return false
	}
	g.last[key] = fp
	return true
}

// Reset forgets the fingerprint for key, forcing the next tick to apply.
func (g *Guard) Reset(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.last, key)
}

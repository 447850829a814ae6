package guard

import "sync/atomic"

// Counters tallies per-reason deopt occurrences for one compiled unit.
// Writes happen under the GIL token (internal/runtimestate), so plain
// atomics are enough — no counter ever needs a consistent read across
// more than one key at a time, matching spec.md §4.6's "per-reason
// feedback counters, incremented on the slow path only."
type Counters struct {
	bySite map[string]*siteCounters
}

type siteCounters struct {
	counts [int(reasonMax)]atomic.Uint64
}

// NewCounters returns an empty counter set.
func NewCounters() *Counters {
	return &Counters{bySite: make(map[string]*siteCounters)}
}

// Bump increments the counter for (siteID, reason).
func (c *Counters) Bump(siteID string, reason Reason) {
	sc, ok := c.bySite[siteID]
	if !ok {
		sc = &siteCounters{}
		c.bySite[siteID] = sc
	}
	sc.counts[reason].Add(1)
}

// Snapshot returns a plain map of site -> reason-name -> count, the
// shape internal/feedback serializes to its JSON artifact.
func (c *Counters) Snapshot() map[string]map[string]uint64 {
	out := make(map[string]map[string]uint64, len(c.bySite))
	for site, sc := range c.bySite {
		perReason := make(map[string]uint64, reasonMax)
		for r := Reason(0); r < reasonMax; r++ {
			if v := sc.counts[r].Load(); v != 0 {
				perReason[r.String()] = v
			}
		}
		out[site] = perReason
	}
	return out
}

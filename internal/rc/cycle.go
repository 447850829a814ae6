package rc

import "github.com/adpena/molt/internal/objmodel"

// candidateRingCap bounds the deferred cycle-candidate buffer (spec.md
// §4.2). Once full, the oldest candidate is dropped; it remains
// reachable through ordinary RC and will be re-queued on its next DecRef
// if it is still part of a cycle, so dropping never leaks correctness,
// only delays collection.
const candidateRingCap = 4096

// CycleCollector implements the classical Bacon–Rajan trial-deletion
// algorithm (spec.md §4.2, §9) over the bounded candidate ring. It never
// moves objects; a cycle it finds is reclaimed purely by unregistering
// handle-table slots.
type CycleCollector struct {
	mgr   *Manager
	ring  []objmodel.Handle
	inRing map[objmodel.Handle]struct{}
}

func newCycleCollector(mgr *Manager) *CycleCollector {
	return &CycleCollector{mgr: mgr, inRing: make(map[objmodel.Handle]struct{})}
}

func (c *CycleCollector) enqueue(h objmodel.Handle) {
	if _, dup := c.inRing[h]; dup {
		return
	}
	if len(c.ring) >= candidateRingCap {
		oldest := c.ring[0]
		c.ring = c.ring[1:]
		delete(c.inRing, oldest)
	}
	c.ring = append(c.ring, h)
	c.inRing[h] = struct{}{}
}

// color is the trial-deletion mark used during one collection pass.
type color uint8

const (
	colorBlack color = iota // in use, or already freed
	colorGray                // possible member of a garbage cycle
	colorWhite                // confirmed garbage
)

// Collect runs one trial-deletion pass over the current candidate ring
// and returns the handles it reclaimed. The caller is expected to hold
// the runtime GIL token for the duration (spec.md §4.2's concurrency
// note); Collect itself is not internally synchronized against concurrent
// mutation.
func (c *CycleCollector) Collect() []objmodel.Handle {
	roots := c.ring
	c.ring = nil
	c.inRing = make(map[objmodel.Handle]struct{})

	colors := make(map[objmodel.Handle]color, len(roots)*2)
	simRC := make(map[objmodel.Handle]int64, len(roots)*2)

	liveRoots := roots[:0]
	for _, h := range roots {
		if obj, ok := c.mgr.table.Resolve(boxOf(h)); ok {
			obj.Header.Flags &^= objmodel.FlagCycleCandidate
			liveRoots = append(liveRoots, h)
		}
	}
	roots = liveRoots

	initRC := func(h objmodel.Handle) int64 {
		if v, ok := simRC[h]; ok {
			return v
		}
		obj, ok := c.mgr.table.Resolve(boxOf(h))
		if !ok {
			return 0
		}
		rc := int64(obj.Header.RCStrong)
		simRC[h] = rc
		return rc
	}

	edgesOf := func(h objmodel.Handle) []objmodel.Handle {
		obj, ok := c.mgr.table.Resolve(boxOf(h))
		if !ok {
			return nil
		}
		_, edgeFn := c.mgr.classes(obj.Header.TypeID)
		if edgeFn == nil {
			return nil
		}
		var out []objmodel.Handle
		for _, child := range edgeFn(obj) {
			if !child.IsDouble() && child.Tag() == objmodel.TagHandle {
				out = append(out, child.UnboxHandle())
			}
		}
		return out
	}

	var markGray func(h objmodel.Handle)
	markGray = func(h objmodel.Handle) {
		if colors[h] == colorGray {
			return
		}
		initRC(h)
		colors[h] = colorGray
		for _, child := range edgesOf(h) {
			initRC(child)
			simRC[child]--
			markGray(child)
		}
	}

	var scanBlack func(h objmodel.Handle)
	scanBlack = func(h objmodel.Handle) {
		colors[h] = colorBlack
		for _, child := range edgesOf(h) {
			simRC[child]++
			if colors[child] != colorBlack {
				scanBlack(child)
			}
		}
	}

	var scan func(h objmodel.Handle)
	scan = func(h objmodel.Handle) {
		if colors[h] != colorGray {
			return
		}
		if simRC[h] > 0 {
			scanBlack(h)
			return
		}
		colors[h] = colorWhite
		for _, child := range edgesOf(h) {
			scan(child)
		}
	}

	var collected []objmodel.Handle
	var collectWhite func(h objmodel.Handle)
	collectWhite = func(h objmodel.Handle) {
		if colors[h] != colorWhite {
			return
		}
		colors[h] = colorBlack
		for _, child := range edgesOf(h) {
			collectWhite(child)
		}
		collected = append(collected, h)
	}

	for _, h := range roots {
		markGray(h)
	}
	for _, h := range roots {
		scan(h)
	}
	for _, h := range roots {
		collectWhite(h)
	}

	for _, h := range collected {
		c.mgr.table.Unregister(h)
	}
	return collected
}

func boxOf(h objmodel.Handle) objmodel.Value {
	return objmodel.BoxHandle(h)
}

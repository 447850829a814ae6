// Package midend implements the mid-end optimizer: a deterministic
// fixed-point pipeline of simplify, sparse conditional constant
// propagation, canonicalization, and dead-code elimination passes over
// internal/ssa functions (spec.md §4.5).
//
// The pass structure — reverse postorder, the Cooper/Harvey/Kennedy
// dominance algorithm, loop detection via back-edge dominance — is
// adapted directly from internal/engine/wazevo/ssa/pass_cfg.go.
package midend

import "github.com/adpena/molt/internal/ssa"

// CFG holds the control-flow analysis results for one function: reverse
// postorder, immediate dominators, and which blocks are loop headers.
type CFG struct {
	fn *ssa.Function

	rpo  []*ssa.BasicBlock
	idom map[ssa.BlockID]*ssa.BasicBlock
	loop map[ssa.BlockID]bool
}

// Analyze computes (or recomputes) the CFG facts for fn.
func Analyze(fn *ssa.Function) *CFG {
	c := &CFG{fn: fn, idom: make(map[ssa.BlockID]*ssa.BasicBlock), loop: make(map[ssa.BlockID]bool)}
	c.computeReversePostOrder()
	c.computeDominators()
	c.detectLoops()
	return c
}

// ReversePostOrder returns reachable blocks in reverse postorder, entry
// first.
func (c *CFG) ReversePostOrder() []*ssa.BasicBlock { return c.rpo }

// ImmediateDominator returns blk's immediate dominator, or nil for the
// entry block or an unreachable block.
func (c *CFG) ImmediateDominator(blk *ssa.BasicBlock) *ssa.BasicBlock { return c.idom[blk.ID()] }

// Dominates reports whether a dominates b (reflexively: a dominates a).
func (c *CFG) Dominates(a, b *ssa.BasicBlock) bool {
	if a == b {
		return true
	}
	cur := c.idom[b.ID()]
	for cur != nil {
		if cur == a {
			return true
		}
		next := c.idom[cur.ID()]
		if next == cur {
			break
		}
		cur = next
	}
	return false
}

// LoopHeader reports whether blk is the target of a back edge.
func (c *CFG) LoopHeader(blk *ssa.BasicBlock) bool { return c.loop[blk.ID()] }

// Reachable reports whether blk appeared in the reverse postorder walk.
func (c *CFG) Reachable(blk *ssa.BasicBlock) bool {
	_, ok := c.idom[blk.ID()]
	return ok || blk == c.fn.EntryBlock()
}

// frame is one level of the explicit DFS stack: blk with the index of
// the next successor still to explore.
type frame struct {
	blk      *ssa.BasicBlock
	succIdx  int
}

func (c *CFG) computeReversePostOrder() {
	entry := c.fn.EntryBlock()
	visited := map[ssa.BlockID]bool{entry.ID(): true}
	var postorder []*ssa.BasicBlock
	stack := []frame{{blk: entry}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succs := top.blk.Succs()
		advanced := false
		for top.succIdx < len(succs) {
			succ := succs[top.succIdx]
			top.succIdx++
			if succ.ReturnBlock() || succ.Invalid() || visited[succ.ID()] {
				continue
			}
			visited[succ.ID()] = true
			stack = append(stack, frame{blk: succ})
			advanced = true
			break
		}
		if advanced {
			continue
		}
		postorder = append(postorder, top.blk)
		stack = stack[:len(stack)-1]
	}

	c.rpo = c.rpo[:0]
	for i := len(postorder) - 1; i >= 0; i-- {
		c.rpo = append(c.rpo, postorder[i])
	}
}

// computeDominators implements the Cooper/Harvey/Kennedy iterative
// dominance algorithm ("A Simple, Fast Dominance Algorithm").
func (c *CFG) computeDominators() {
	if len(c.rpo) == 0 {
		return
	}
	rpoIndex := make(map[ssa.BlockID]int, len(c.rpo))
	for i, b := range c.rpo {
		rpoIndex[b.ID()] = i
	}

	entry := c.rpo[0]
	c.idom[entry.ID()] = entry

	changed := true
	for changed {
		changed = false
		for _, blk := range c.rpo[1:] {
			var newIdom *ssa.BasicBlock
			for _, pred := range blk.Preds() {
				if pred.Block.Invalid() {
					continue
				}
				if _, ok := c.idom[pred.Block.ID()]; !ok {
					continue
				}
				if newIdom == nil {
					newIdom = pred.Block
					continue
				}
				newIdom = intersect(c.idom, rpoIndex, newIdom, pred.Block)
			}
			if newIdom != nil && c.idom[blk.ID()] != newIdom {
				c.idom[blk.ID()] = newIdom
				changed = true
			}
		}
	}
}

func intersect(idom map[ssa.BlockID]*ssa.BasicBlock, rpoIndex map[ssa.BlockID]int, a, b *ssa.BasicBlock) *ssa.BasicBlock {
	for a != b {
		for rpoIndex[a.ID()] > rpoIndex[b.ID()] {
			a = idom[a.ID()]
		}
		for rpoIndex[b.ID()] > rpoIndex[a.ID()] {
			b = idom[b.ID()]
		}
	}
	return a
}

func (c *CFG) detectLoops() {
	for _, blk := range c.rpo {
		for _, pred := range blk.Preds() {
			if pred.Block.Invalid() {
				continue
			}
			if c.Dominates(blk, pred.Block) {
				c.loop[blk.ID()] = true
			}
		}
	}
}

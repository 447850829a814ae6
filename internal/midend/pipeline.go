package midend

import "github.com/adpena/molt/internal/ssa"

// maxFixedPointIterations bounds the simplify/SCCP/canonicalize/DCE loop
// so a pathological input can't spin the optimizer forever; real
// convergence is reached in a handful of iterations for any function
// this compiler's frontend would emit.
const maxFixedPointIterations = 32

// Run executes the mid-end pipeline against fn to a fixed point: each
// round runs simplify, SCCP, canonicalize, then DCE, in that order
// (matching the comment-documented ordering in the teacher's
// ssa.Builder.RunPasses — "the order here matters; some pass depends on
// the previous ones"). The loop stops as soon as one round makes no
// change.
func Run(fn *ssa.Function) {
	for i := 0; i < maxFixedPointIterations; i++ {
		cfg := Analyze(fn)
		changed := simplify(fn, cfg)
		changed = sccp(fn, cfg) || changed
		changed = canonicalize(fn) || changed
		changed = dce(fn, cfg) || changed
		if !changed {
			break
		}
	}
	// CSE and LICM run once, after the loop: CSE benefits from SCCP's
	// constant folding having already normalized operands, and LICM
	// needs a stable CFG (loop headers don't move once DCE stops
	// changing anything).
	cfg := Analyze(fn)
	cse(fn, cfg)
	licm(fn, Analyze(fn))
	dce(fn, Analyze(fn))
}

// Package diffbench is the differential-test harness spec.md §1 names
// among the "out of scope" external collaborators: "a differential
// comparison against one or more reference WASM engines... consumes only
// the produced .wasm artifact, never reimplements codegen." It feeds a
// module produced by internal/codegen/wasm into independent reference
// engines and flags any disagreement as a harness-level bug, never a
// Molt bug, because the Molt backend itself has no say in how wasmtime
// or wasmer interpret the artifact.
//
// Engine aggregation grounded on wazero's own
// internal/integration_test/vs/runtimes.go (a runtimeTester interface
// implemented once per reference engine, driven from one call site).
package diffbench

import "fmt"

// Runner is one reference WASM engine capable of instantiating a module
// and calling a single exported all-i64 function, the shape
// internal/codegen/wasm.Machine.EncodeModule always produces.
type Runner interface {
	Name() string
	CallI64(wasmBytes []byte, funcName string, args []int64) (int64, error)
}

// Disagreement records one Runner's outcome inside a divergence report.
type Disagreement struct {
	Runner string
	Result int64
	Err    error
}

// ErrDivergence is returned by Compare when reference engines disagree
// on the result of calling the same exported function with the same
// arguments — the harness-bug signal spec.md's differential contract
// exists to surface.
type ErrDivergence struct {
	FuncName string
	Results  []Disagreement
}

func (e *ErrDivergence) Error() string {
	return fmt.Sprintf("diffbench: reference engines disagree calling %q: %v", e.FuncName, e.Results)
}

// Compare calls funcName with args against every runner and requires
// all of them to agree, both on success and on the returned value. It
// returns the agreed-upon result, or an *ErrDivergence describing every
// runner's outcome when they do not all agree.
func Compare(runners []Runner, wasmBytes []byte, funcName string, args []int64) (int64, error) {
	if len(runners) == 0 {
		return 0, fmt.Errorf("diffbench: no runners configured")
	}

	results := make([]Disagreement, len(runners))
	for i, r := range runners {
		v, err := r.CallI64(wasmBytes, funcName, args)
		results[i] = Disagreement{Runner: r.Name(), Result: v, Err: err}
	}

	first := results[0]
	for _, r := range results[1:] {
		if (r.Err == nil) != (first.Err == nil) || (r.Err == nil && r.Result != first.Result) {
			return 0, &ErrDivergence{FuncName: funcName, Results: results}
		}
	}
	if first.Err != nil {
		return 0, first.Err
	}
	return first.Result, nil
}

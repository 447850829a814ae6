// Package dispatch implements call argument binding and inline-cache
// sites for indirect calls, per spec.md §6 ("Argument binding implements
// positional/kwarg/varargs/kw-only/positional-only rules... Indirect
// calls carry an inline-cache site id; the site caches (callee type_id,
// class version) and emits guard_callee; on miss, it falls back to full
// dispatch and optionally re-populates").
package dispatch

import (
	"errors"
	"fmt"

	"github.com/adpena/molt/internal/objmodel"
)

var (
	// ErrTooManyPositional is raised when more positional arguments are
	// supplied than the signature accepts and it has no variadic trampoline.
	ErrTooManyPositional = errors.New("dispatch: too many positional arguments")
	// ErrMissingArgument is raised when a required parameter (no default,
	// not covered by args or kwargs) is left unfilled.
	ErrMissingArgument = errors.New("dispatch: missing required argument")
	// ErrUnexpectedKeyword is raised for a kwarg name the signature does
	// not declare and that has no **kwargs catch-all.
	ErrUnexpectedKeyword = errors.New("dispatch: unexpected keyword argument")
	// ErrDuplicateArgument is raised when a kwarg names a parameter
	// already bound positionally.
	ErrDuplicateArgument = errors.New("dispatch: argument bound twice")
	// ErrPositionalOnly is raised when a keyword argument names a
	// positional-only parameter.
	ErrPositionalOnly = errors.New("dispatch: positional-only parameter passed by keyword")
)

// Param describes one declared parameter of a callable's signature.
type Param struct {
	Name       string
	PosOnly    bool // may only be bound positionally
	KWOnly     bool // may only be bound by keyword (appears after a *args or bare *)
	HasDefault bool
	Default    objmodel.Value
}

// Signature is the binding-relevant shape of a callable, independent of
// its body. Built by the frontend from a function's parameter list.
type Signature struct {
	Params        []Param
	VarArgsName   string // non-empty if the callable declares *args
	VarKwargsName string // non-empty if the callable declares **kwargs
}

// HasVarArgs reports whether sig declares a variadic positional trampoline.
func (sig *Signature) HasVarArgs() bool { return sig.VarArgsName != "" }

// HasVarKwargs reports whether sig declares a variadic keyword trampoline.
func (sig *Signature) HasVarKwargs() bool { return sig.VarKwargsName != "" }

// BoundArgs is the result of binding a call's actual arguments against a
// Signature: one slot per declared parameter in declaration order, plus
// any variadic overflow. The caller (the runtime's call-setup path)
// allocates the heap sequence/hashmap objects for VarArgs/KWArgs, if the
// signature declares them; this package stays allocation-free.
type BoundArgs struct {
	Locals  []objmodel.Value  // len(sig.Params); zero Value for unfilled-by-caller slots is never returned, Bind errors instead
	VarArgs []objmodel.Value  // overflow positional args, in call order; nil unless sig.HasVarArgs()
	KWArgs  map[string]objmodel.Value // overflow keyword args; nil unless sig.HasVarKwargs()
}

// Bind applies spec.md's positional/kwarg/varargs/kw-only/positional-only
// rules, matching CPython's own call-binding algorithm: positional args
// fill declared parameters left to right (spilling into VarArgs once
// exhausted, or erroring without a variadic trampoline), then kwargs fill
// any remaining named parameters (erroring on positional-only names,
// duplicates, or unknown names without a **kwargs catch-all), then
// defaults fill what's left, and anything still unfilled is an error.
func Bind(sig *Signature, args []objmodel.Value, kwargs map[string]objmodel.Value) (BoundArgs, error) {
	n := len(sig.Params)
	locals := make([]objmodel.Value, n)
	filled := make([]bool, n)

	firstKWOnly := n
	for i, p := range sig.Params {
		if p.KWOnly {
			firstKWOnly = i
			break
		}
	}

	var overflow []objmodel.Value
	for i, a := range args {
		if i >= firstKWOnly {
			overflow = args[i:]
			break
		}
		locals[i] = a
		filled[i] = true
	}
	var varArgs []objmodel.Value
	if len(overflow) > 0 {
		if !sig.HasVarArgs() {
			return BoundArgs{}, fmt.Errorf("%w: got %d, signature accepts %d", ErrTooManyPositional, len(args), firstKWOnly)
		}
		varArgs = append(varArgs, overflow...)
	}

	var kwOverflow map[string]objmodel.Value
	for name, v := range kwargs {
		idx := -1
		for i, p := range sig.Params {
			if p.Name == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			if !sig.HasVarKwargs() {
				return BoundArgs{}, fmt.Errorf("%w: %q", ErrUnexpectedKeyword, name)
			}
			if kwOverflow == nil {
				kwOverflow = make(map[string]objmodel.Value)
			}
			kwOverflow[name] = v
			continue
		}
		if sig.Params[idx].PosOnly {
			return BoundArgs{}, fmt.Errorf("%w: %q", ErrPositionalOnly, name)
		}
		if filled[idx] {
			return BoundArgs{}, fmt.Errorf("%w: %q", ErrDuplicateArgument, name)
		}
		locals[idx] = v
		filled[idx] = true
	}

	for i, p := range sig.Params {
		if filled[i] {
			continue
		}
		if !p.HasDefault {
			return BoundArgs{}, fmt.Errorf("%w: %q", ErrMissingArgument, p.Name)
		}
		locals[i] = p.Default
		filled[i] = true
	}

	return BoundArgs{Locals: locals, VarArgs: varArgs, KWArgs: kwOverflow}, nil
}

package ssa

// Global describes a module-level global binding (spec.md §3.2 module
// namespace objects).
type Global struct {
	Name string
	Type Type
}

// ClassRef is an opaque reference to a class descriptor held by the
// object model's class registry; the SSA layer never inspects class
// internals directly, it only threads the id through guard_layout /
// alloc instructions.
type ClassRef uint32

// Module is the compilation unit: every function reachable from the
// entry point, plus the globals and class ids they close over.
type Module struct {
	Name      string
	Functions []*Function
	Globals   []Global
	Classes   []ClassRef

	funcIndex map[string]FuncRef
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name, funcIndex: make(map[string]FuncRef)}
}

// AddFunction appends fn to the module and returns its FuncRef.
func (m *Module) AddFunction(fn *Function) FuncRef {
	ref := FuncRef(len(m.Functions))
	m.Functions = append(m.Functions, fn)
	m.funcIndex[fn.Name] = ref
	return ref
}

// FuncByName resolves a function name to its FuncRef, as used by
// call_direct's static callee resolution.
func (m *Module) FuncByName(name string) (FuncRef, bool) {
	ref, ok := m.funcIndex[name]
	return ref, ok
}

// Function dereferences a FuncRef.
func (m *Module) Function(ref FuncRef) *Function { return m.Functions[ref] }

// AddGlobal appends a module-level global and returns its index.
func (m *Module) AddGlobal(g Global) int {
	m.Globals = append(m.Globals, g)
	return len(m.Globals) - 1
}

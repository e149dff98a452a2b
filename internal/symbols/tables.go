// Package symbols implements the pass-crossing symbol tables of
// spec.md §3: the struct map, function signature table, enum table,
// pragma context, defer counter, unused counter, and the generated
// cleanup-function buffer. Each table is owned by a single Tables value
// created fresh per transpile call (spec.md §5 resource model); nothing
// here is safe to share across concurrent transpiles, matching the
// core's single-threaded, synchronous scheduling model.
package symbols

// StructMap records base struct name -> typedef name, written by P7
// (spec.md §4.3.2) and read by P10 (struct-name replacement) and P9
// (method transform, for typing `self`).
type StructMap struct {
	typedefs map[string]string
	order    []string
}

// NewStructMap returns an empty StructMap.
func NewStructMap() *StructMap {
	return &StructMap{typedefs: make(map[string]string)}
}

// Define records base -> typedef. Re-defining the same base name
// overwrites the previous typedef but does not duplicate the order slice.
func (m *StructMap) Define(base, typedef string) {
	if _, exists := m.typedefs[base]; !exists {
		m.order = append(m.order, base)
	}
	m.typedefs[base] = typedef
}

// Typedef returns the typedef name for base and whether it is known.
func (m *StructMap) Typedef(base string) (string, bool) {
	t, ok := m.typedefs[base]
	return t, ok
}

// Names returns every recorded base struct name, in definition order.
func (m *StructMap) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Param is one (name, type) pair of a recorded function signature.
type Param struct {
	Name  string
	Type  string
	IsMut bool
}

// Signature is the ordered parameter list of a declared function, as
// scanned by P15 (spec.md §4.3.7) for named-argument validation.
type Signature struct {
	FuncName string
	Params   []Param
}

// IndexOf returns the position of a parameter named name, or -1.
func (s Signature) IndexOf(name string) int {
	for i, p := range s.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// FunctionSignatures maps function name -> Signature.
type FunctionSignatures struct {
	sigs map[string]Signature
}

// NewFunctionSignatures returns an empty table.
func NewFunctionSignatures() *FunctionSignatures {
	return &FunctionSignatures{sigs: make(map[string]Signature)}
}

// Define records the signature of a declared function, keyed by name.
func (f *FunctionSignatures) Define(sig Signature) {
	f.sigs[sig.FuncName] = sig
}

// Lookup returns the recorded signature for name and whether it exists.
func (f *FunctionSignatures) Lookup(name string) (Signature, bool) {
	s, ok := f.sigs[name]
	return s, ok
}

// EnumMember is one recorded member of an enum declaration: its name and
// the source line it was declared on (used by P4 to point at the
// definition when reporting a naming-convention warning).
type EnumMember struct {
	Name string
	Line int
}

// Enum is the ordered member list of a declared enum, scanned by P4
// (spec.md §4.2.3) and consumed by P4's exhaustiveness check and P12's
// scoped-member lowering.
type Enum struct {
	Name    string
	Members []EnumMember
}

// HasMember reports whether name is a declared member of e.
func (e Enum) HasMember(name string) bool {
	for _, m := range e.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// EnumTable maps enum name -> Enum.
type EnumTable struct {
	enums map[string]Enum
	order []string
}

// NewEnumTable returns an empty table.
func NewEnumTable() *EnumTable {
	return &EnumTable{enums: make(map[string]Enum)}
}

// Define records e, keyed by e.Name.
func (t *EnumTable) Define(e Enum) {
	if _, exists := t.enums[e.Name]; !exists {
		t.order = append(t.order, e.Name)
	}
	t.enums[e.Name] = e
}

// Lookup returns the recorded Enum for name and whether it exists.
func (t *EnumTable) Lookup(name string) (Enum, bool) {
	e, ok := t.enums[name]
	return e, ok
}

// Names returns every recorded enum name, in definition order.
func (t *EnumTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// PragmaContext is pass-crossing state written only by P1 (spec.md §4.1,
// the pragma-parse pass) and read by the runtime emitter to decide which
// logging macros to compile in.
type PragmaContext struct {
	DebugMode bool

	// ForbidFatal names forbidden-API identifiers (spec.md §4.2.1) that
	// czar.toml's `[build] forbid_fatal` escalates from warning to error,
	// in addition to whichever of them are already fatal by default.
	ForbidFatal map[string]bool
}

// NewPragmaContext returns the default context: debug mode on, matching
// spec.md §3's table ("default true").
func NewPragmaContext() *PragmaContext {
	return &PragmaContext{DebugMode: true}
}

// Counter is a monotonic integer generator reset per translation unit,
// used independently by P17 (defer counter) and P20 (unused counter).
type Counter struct {
	next int
}

// Next returns the next value and advances the counter, starting at 0.
func (c *Counter) Next() int {
	v := c.next
	c.next++
	return v
}

// CleanupBuffer accumulates the generated C text of every
// `_cz_cleanup_*` function produced by P17, in generation order, so the
// emitter can splice them into the translation unit ahead of the
// functions that reference them via `__attribute__((cleanup(...)))`.
type CleanupBuffer struct {
	funcs []string
}

// Append records one generated cleanup function's full source text.
func (b *CleanupBuffer) Append(src string) {
	b.funcs = append(b.funcs, src)
}

// Functions returns every generated cleanup function, in generation order.
func (b *CleanupBuffer) Functions() []string {
	out := make([]string, len(b.funcs))
	copy(out, b.funcs)
	return out
}

// Tables bundles every symbol table for one transpile call. It is
// constructed once by the transpiler and threaded through the pass
// scheduler; no pass constructs its own tables.
type Tables struct {
	Structs       *StructMap
	Functions     *FunctionSignatures
	Enums         *EnumTable
	Pragma        *PragmaContext
	DeferCounter  *Counter
	UnusedCounter *Counter
	Cleanups      *CleanupBuffer
}

// New constructs an empty Tables, every field initialized per spec.md §3
// ("each table is initialized empty at transpiler construction").
func New() *Tables {
	return &Tables{
		Structs:       NewStructMap(),
		Functions:     NewFunctionSignatures(),
		Enums:         NewEnumTable(),
		Pragma:        NewPragmaContext(),
		DeferCounter:  &Counter{},
		UnusedCounter: &Counter{},
		Cleanups:      &CleanupBuffer{},
	}
}

package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StructMap_DefineAndLookup(t *testing.T) {
	assert := assert.New(t)

	m := NewStructMap()
	m.Define("Point", "_cz_Point")
	m.Define("Line", "_cz_Line")

	typedef, ok := m.Typedef("Point")
	assert.True(ok)
	assert.Equal("_cz_Point", typedef)

	_, ok = m.Typedef("Missing")
	assert.False(ok)

	assert.Equal([]string{"Point", "Line"}, m.Names())
}

func Test_StructMap_RedefineKeepsOrder(t *testing.T) {
	assert := assert.New(t)

	m := NewStructMap()
	m.Define("Point", "_cz_Point_v1")
	m.Define("Line", "_cz_Line")
	m.Define("Point", "_cz_Point_v2")

	assert.Equal([]string{"Point", "Line"}, m.Names())
	typedef, ok := m.Typedef("Point")
	assert.True(ok)
	assert.Equal("_cz_Point_v2", typedef)
}

func Test_Signature_IndexOf(t *testing.T) {
	testCases := []struct {
		name     string
		sig      Signature
		param    string
		expected int
	}{
		{
			name: "found",
			sig: Signature{FuncName: "move", Params: []Param{
				{Name: "x", Type: "int"},
				{Name: "y", Type: "int"},
			}},
			param:    "y",
			expected: 1,
		},
		{
			name:     "not found",
			sig:      Signature{FuncName: "move", Params: []Param{{Name: "x", Type: "int"}}},
			param:    "z",
			expected: -1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expected, tc.sig.IndexOf(tc.param))
		})
	}
}

func Test_FunctionSignatures_DefineAndLookup(t *testing.T) {
	assert := assert.New(t)

	f := NewFunctionSignatures()
	f.Define(Signature{FuncName: "move", Params: []Param{{Name: "x", Type: "int"}}})

	sig, ok := f.Lookup("move")
	assert.True(ok)
	assert.Equal("move", sig.FuncName)

	_, ok = f.Lookup("missing")
	assert.False(ok)
}

func Test_Enum_HasMember(t *testing.T) {
	assert := assert.New(t)

	e := Enum{Name: "Color", Members: []EnumMember{{Name: "Red", Line: 1}, {Name: "Blue", Line: 2}}}
	assert.True(e.HasMember("Red"))
	assert.False(e.HasMember("Green"))
}

func Test_EnumTable_DefineLookupNames(t *testing.T) {
	assert := assert.New(t)

	tbl := NewEnumTable()
	tbl.Define(Enum{Name: "Color", Members: []EnumMember{{Name: "Red", Line: 1}}})
	tbl.Define(Enum{Name: "Size", Members: []EnumMember{{Name: "Small", Line: 5}}})

	e, ok := tbl.Lookup("Color")
	assert.True(ok)
	assert.Equal("Color", e.Name)

	assert.Equal([]string{"Color", "Size"}, tbl.Names())

	_, ok = tbl.Lookup("Missing")
	assert.False(ok)
}

func Test_NewPragmaContext_DefaultsDebugOn(t *testing.T) {
	assert := assert.New(t)

	ctx := NewPragmaContext()
	assert.True(ctx.DebugMode)
	assert.Nil(ctx.ForbidFatal)
}

func Test_Counter_Next(t *testing.T) {
	assert := assert.New(t)

	c := &Counter{}
	assert.Equal(0, c.Next())
	assert.Equal(1, c.Next())
	assert.Equal(2, c.Next())
}

func Test_CleanupBuffer_AppendAndFunctions(t *testing.T) {
	assert := assert.New(t)

	b := &CleanupBuffer{}
	b.Append("void _cz_cleanup_0(int *p) {}")
	b.Append("void _cz_cleanup_1(int *p) {}")

	fns := b.Functions()
	assert.Len(fns, 2)
	assert.Equal("void _cz_cleanup_0(int *p) {}", fns[0])

	fns[0] = "mutated"
	fns2 := b.Functions()
	assert.Equal("void _cz_cleanup_0(int *p) {}", fns2[0])
}

func Test_New_InitializesAllTables(t *testing.T) {
	assert := assert.New(t)

	tbl := New()
	assert.NotNil(tbl.Structs)
	assert.NotNil(tbl.Functions)
	assert.NotNil(tbl.Enums)
	assert.NotNil(tbl.Pragma)
	assert.NotNil(tbl.DeferCounter)
	assert.NotNil(tbl.UnusedCounter)
	assert.NotNil(tbl.Cleanups)
	assert.True(tbl.Pragma.DebugMode)
}

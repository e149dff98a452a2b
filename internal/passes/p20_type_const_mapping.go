package passes

import (
	"strconv"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// typeIdentMap is the CZar-to-C primitive type table of spec.md §4.3.12.
var typeIdentMap = map[string]string{
	"i8": "int8_t", "i16": "int16_t", "i32": "int32_t", "i64": "int64_t",
	"u8": "uint8_t", "u16": "uint16_t", "u32": "uint32_t", "u64": "uint64_t",
	"f32": "float", "f64": "double",
	"usize": "size_t", "isize": "ptrdiff_t",
}

// namedConstMap maps CZar's named integer-limit constants to their
// <stdint.h> equivalents.
var namedConstMap = map[string]string{
	"CZ_I8_MIN": "INT8_MIN", "CZ_I8_MAX": "INT8_MAX",
	"CZ_I16_MIN": "INT16_MIN", "CZ_I16_MAX": "INT16_MAX",
	"CZ_I32_MIN": "INT32_MIN", "CZ_I32_MAX": "INT32_MAX",
	"CZ_I64_MIN": "INT64_MIN", "CZ_I64_MAX": "INT64_MAX",
	"CZ_U8_MAX": "UINT8_MAX", "CZ_U16_MAX": "UINT16_MAX",
	"CZ_U32_MAX": "UINT32_MAX", "CZ_U64_MAX": "UINT64_MAX",
	"CZ_USIZE_MAX": "SIZE_MAX",
	"CZ_ISIZE_MIN": "PTRDIFF_MIN", "CZ_ISIZE_MAX": "PTRDIFF_MAX",
}

// MapTypeAndConstIdentifiers is P20 (spec.md §4.3.12). It lowers every
// CZar primitive type name and named integer-limit constant to its C
// equivalent, and replaces every discard identifier `_` with a freshly
// generated, collision-free name marked unused.
func MapTypeAndConstIdentifiers(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || (t.Kind != token.Identifier && t.Kind != token.Keyword) {
			continue
		}
		if repl, ok := typeIdentMap[t.Text]; ok {
			t.Text = repl
			continue
		}
		if repl, ok := namedConstMap[t.Text]; ok {
			t.Text = repl
			continue
		}
		if t.Kind == token.Identifier && t.Text == "_" {
			n := tabs.UnusedCounter.Next()
			t.Text = identForUnused(n)
		}
	}
}

func identForUnused(n int) string {
	return "_cz_unused_" + strconv.Itoa(n) + " __attribute__((unused))"
}

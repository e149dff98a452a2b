package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Reporter_Warn_Error_Internal(t *testing.T) {
	assert := assert.New(t)

	r := NewReporter("main.cz", []string{"  fn main() {", "  return 0;", "}"})
	r.Warn("unused-var", "main", 2, "x is never used", "remove it")
	r.Error("bad-cast", "main", 2, "cast narrows precision")
	r.Internal("main", 3, "scheduler invariant broken")

	items := r.Items()
	assert.Len(items, 3)

	assert.Equal(SeverityWarning, items[0].Severity)
	assert.Equal("fn main() {", items[0].Excerpt)
	assert.Equal("remove it", items[0].Suggestion)

	assert.Equal(SeverityError, items[1].Severity)
	assert.Equal("return 0;", items[1].Excerpt)

	assert.Equal(SeverityInternal, items[2].Severity)
	assert.Equal("internal-invariant", items[2].ID)
}

func Test_Reporter_HasErrors(t *testing.T) {
	testCases := []struct {
		name   string
		setup  func(r *Reporter)
		expect bool
	}{
		{
			name:   "only warnings",
			setup:  func(r *Reporter) { r.Warn("w", "", 1, "msg", "") },
			expect: false,
		},
		{
			name:   "has error",
			setup:  func(r *Reporter) { r.Error("e", "", 1, "msg") },
			expect: true,
		},
		{
			name:   "has internal",
			setup:  func(r *Reporter) { r.Internal("", 1, "msg") },
			expect: true,
		},
		{
			name:   "empty",
			setup:  func(r *Reporter) {},
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewReporter("x.cz", nil)
			tc.setup(r)

			assert.Equal(tc.expect, r.HasErrors())
		})
	}
}

func Test_Reporter_Errors_Warnings_Split(t *testing.T) {
	assert := assert.New(t)

	r := NewReporter("x.cz", nil)
	r.Warn("w1", "", 1, "a", "")
	r.Error("e1", "", 2, "b")
	r.Warn("w2", "", 3, "c", "")

	assert.Len(r.Errors(), 1)
	assert.Len(r.Warnings(), 2)
}

func Test_Reporter_Merge(t *testing.T) {
	assert := assert.New(t)

	a := NewReporter("x.cz", nil)
	a.Warn("w1", "", 1, "a", "")

	b := NewReporter("x.cz", nil)
	b.Error("e1", "", 2, "b")

	a.Merge(b)

	assert.Len(a.Items(), 2)
}

func Test_Diagnostic_Render(t *testing.T) {
	testCases := []struct {
		name   string
		diag   Diagnostic
		expect string
	}{
		{
			name: "error with no excerpt",
			diag: Diagnostic{
				Severity: SeverityError,
				File:     "x.cz",
				Line:     4,
				Message:  "boom",
			},
			expect: "[CZAR] ERROR at x.cz:4: boom",
		},
		{
			name: "warning with top-level func",
			diag: Diagnostic{
				Severity: SeverityWarning,
				ID:       "unused",
				File:     "x.cz",
				Line:     1,
				Message:  "unused value",
			},
			expect: "WARNING in <top-level>() at x.cz:1 unused\n\tunused value\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.diag.Render())
		})
	}
}

package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ReflowGeneratedComments(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "no comments untouched",
			input:  "int main(void) { return 0; }",
			expect: "int main(void) { return 0; }",
		},
		{
			name:   "short comment untouched in width",
			input:  "/* unreachable */",
			expect: "/* unreachable */",
		},
		{
			name:  "long comment rewrapped",
			input: "/* " + longWord(100) + " */",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ReflowGeneratedComments(tc.input)

			if tc.expect != "" {
				assert.Equal(tc.expect, actual)
			} else {
				assert.Contains(actual, "/*")
				assert.Contains(actual, "*/")
			}
		})
	}
}

func longWord(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}

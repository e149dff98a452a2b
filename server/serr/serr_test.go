package serr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_ErrorString(t *testing.T) {
	testCases := []struct {
		name     string
		err      Error
		expected string
	}{
		{name: "message only", err: New("bad stuff"), expected: "bad stuff"},
		{name: "no message, no causes", err: New(""), expected: ""},
		{
			name:     "message with cause",
			err:      New("bad stuff", ErrNotFound),
			expected: "bad stuff: " + ErrNotFound.Error(),
		},
		{
			name:     "cause only, no message",
			err:      New("", ErrNotFound),
			expected: ErrNotFound.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expected, tc.err.Error())
		})
	}
}

func Test_New_Is(t *testing.T) {
	assert := assert.New(t)

	err := New("bad stuff", ErrNotFound, ErrBadArgument)
	assert.True(errors.Is(err, ErrNotFound))
	assert.True(errors.Is(err, ErrBadArgument))
	assert.False(errors.Is(err, ErrPermissions))
}

func Test_WrapDB_IsErrDBAndWrapped(t *testing.T) {
	assert := assert.New(t)

	underlying := errors.New("connection refused")
	err := WrapDB("could not query", underlying)

	assert.True(errors.Is(err, ErrDB))
	assert.True(errors.Is(err, underlying))
}

func Test_Unwrap(t *testing.T) {
	assert := assert.New(t)

	err := New("bad stuff", ErrNotFound)
	causes := err.Unwrap()
	assert.Len(causes, 1)
	assert.Equal(ErrNotFound, causes[0])

	noCauseErr := New("bad stuff")
	assert.Nil(noCauseErr.Unwrap())
}

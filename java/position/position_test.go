package position

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		line, column int
	}{
		{1, 1},
		{1, MaxColumn},
		{2, 17},
		{1000, 80},
		{MaxLine, 1},
		{MaxLine, MaxColumn},
	}

	for _, tt := range tests {
		p, err := Encode(tt.line, tt.column)
		assert.NoError(t, err)
		assert.NotEqual(t, NoPos, p)
		line, column, ok := p.Decode()
		assert.True(t, ok)
		assert.Equal(t, tt.line, line)
		assert.Equal(t, tt.column, column)
	}
}

func TestEncodeRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name         string
		line, column int
	}{
		{"zero line", 0, 1},
		{"negative line", -3, 1},
		{"zero column", 1, 0},
		{"negative column", 1, -1},
		{"both", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Encode(tt.line, tt.column)
			assert.IsError(t, err, ErrInvalidArgument)
			assert.Equal(t, NoPos, p)
		})
	}
}

func TestEncodeOversizedYieldsNoPos(t *testing.T) {
	tests := []struct {
		name         string
		line, column int
	}{
		{"line", MaxLine + 1, 1},
		{"column", 1, MaxColumn + 1},
		{"both", MaxLine + 10, MaxColumn + 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Encode(tt.line, tt.column)
			assert.NoError(t, err)
			assert.Equal(t, NoPos, p)
		})
	}
}

func TestMustEncodePanics(t *testing.T) {
	assert.Panics(t, func() { MustEncode(0, 1) })
	assert.Equal(t, Position(1<<LineShift+1), MustEncode(1, 1))
}

func TestNoPosIsNotValid(t *testing.T) {
	assert.False(t, NoPos.IsValid())
	_, _, ok := NoPos.Decode()
	assert.False(t, ok)
	assert.Equal(t, "-", NoPos.String())
	assert.Equal(t, "3:4", MustEncode(3, 4).String())
}

func TestRangeErrorUnwraps(t *testing.T) {
	var err error = &RangeError{What: "line", Value: 9, Min: 1, Max: 2}
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Equal(t, "line 9 out of range [1, 2]", err.Error())
}

// Package position encodes source locations and maps character offsets to
// line and column numbers.
//
// Offsets are 0-based byte offsets into a source buffer. Lines and columns
// are 1-based. A (line, column) pair can be packed into a single Position
// value, with NoPos reserved for "no position".
package position

import (
	"errors"
	"fmt"
)

type Position int64

const (
	NoPos Position = -1

	FirstPos    = 0
	FirstLine   = 1
	FirstColumn = 1

	LineShift = 10
	MaxColumn = 1<<LineShift - 1
	MaxLine   = 1<<(32-LineShift) - 1

	// TabInc is the distance between tab stops used by tab-expanding line maps.
	TabInc = 8
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Encode packs line and column into a Position as line<<LineShift + column.
//
// A line or column below 1 is a caller bug and yields an error wrapping
// ErrInvalidArgument. A line above MaxLine or a column above MaxColumn is
// legal but not representable; Encode returns NoPos for it instead of
// failing, so oversized files still produce diagnostics without a location.
func Encode(line, column int) (Position, error) {
	if line < FirstLine {
		return NoPos, fmt.Errorf("line must be greater than 0, got %d: %w", line, ErrInvalidArgument)
	}
	if column < FirstColumn {
		return NoPos, fmt.Errorf("column must be greater than 0, got %d: %w", column, ErrInvalidArgument)
	}
	if line > MaxLine || column > MaxColumn {
		return NoPos, nil
	}
	return Position(line)<<LineShift + Position(column), nil
}

// MustEncode is like Encode but panics on invalid arguments.
func MustEncode(line, column int) Position {
	p, err := Encode(line, column)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) IsValid() bool {
	return p > MaxColumn
}

// Decode unpacks p. ok is false for NoPos and any value Encode cannot produce.
func (p Position) Decode() (line, column int, ok bool) {
	if !p.IsValid() {
		return 0, 0, false
	}
	line = int(p >> LineShift)
	column = int(p & MaxColumn)
	if line > MaxLine || column < FirstColumn {
		return 0, 0, false
	}
	return line, column, true
}

func (p Position) Line() int {
	line, _, _ := p.Decode()
	return line
}

func (p Position) Column() int {
	_, column, _ := p.Decode()
	return column
}

func (p Position) String() string {
	line, column, ok := p.Decode()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d:%d", line, column)
}

// RangeError reports a line, column or offset outside the domain of a LineMap.
type RangeError struct {
	What     string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.What, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

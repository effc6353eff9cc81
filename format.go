package fixedwidth

import "strings"

// Justify controls on which side of a field the padding goes.
type Justify int

const (
	// Left places the value at the start of the field and pads on the right.
	Left Justify = iota
	// Right places the value at the end of the field and pads on the left.
	Right
)

func (j Justify) String() string {
	switch j {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// Valid reports whether j is Left or Right.
func (j Justify) Valid() bool {
	return j == Left || j == Right
}

// ParseJustify parses "left" or "right". The empty string is Left.
func ParseJustify(s string) (Justify, bool) {
	switch strings.ToLower(s) {
	case "", "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Left, false
}

const (
	defaultFill     = ' '
	defaultEncoding = "utf-8"
)

// ValueWriter writes an encoded value into destination and is
// responsible for padding. destination always has exactly the length of the
// field and len(value) never exceeds it.
type ValueWriter func(value, destination []byte, fill byte)

// PadRight is a ValueWriter for left justified fields.
func PadRight(value, destination []byte, fill byte) {
	n := copy(destination, value)
	fillBytes(destination[n:], fill)
}

// PadLeft is a ValueWriter for right justified fields.
func PadLeft(value, destination []byte, fill byte) {
	n := len(destination) - len(value)
	fillBytes(destination[:n], fill)
	copy(destination[n:], value)
}

func (j Justify) writer() ValueWriter {
	if j == Right {
		return PadLeft
	}
	return PadRight
}

// fillBytes sets every byte of data to c.
func fillBytes(data []byte, c byte) {
	if len(data) == 0 {
		return
	}
	data[0] = c
	for filled := 1; filled < len(data); filled *= 2 {
		copy(data[filled:], data[:filled])
	}
}

package fixedwidth

import (
	"fmt"
	"strconv"
)

// An OverflowError describes a value whose encoded form does not fit in
// its field.
type OverflowError struct {
	Field  string // name of the field
	Value  string // text form of the offending value
	Len    int    // encoded length in bytes
	Length int    // declared field length
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("fixedwidth: value of %q (%q; length: %d) is longer than field length %d",
		e.Field, e.Value, e.Len, e.Length)
}

// A ConfigError describes an invalid field declaration. It is returned
// when a Schema is built and makes the whole record type unusable.
type ConfigError struct {
	Record string // name of the record type
	Field  string // name of the field, empty when the error is about the record
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	s := "fixedwidth: invalid layout for " + e.Record
	if e.Field != "" {
		s += "." + e.Field
	}
	s += ": " + e.Reason
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// A ShortBufferError is returned by the decoder when the input is shorter
// than the record length and short input is not allowed.
type ShortBufferError struct {
	Record string
	Len    int // length of the input
	Want   int // length of the record
}

func (e *ShortBufferError) Error() string {
	return "fixedwidth: " + e.Record + " needs " + strconv.Itoa(e.Want) +
		" bytes, have " + strconv.Itoa(e.Len)
}

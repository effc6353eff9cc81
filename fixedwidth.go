// Package fixedwidth provides encoding and decoding for fixed-width
// positional records.
//
// A record is a byte buffer partitioned into consecutive, non-delimited
// fields. Every field has a byte length, a justification, a fill byte and a
// text encoding. The layout of a record type is described by a Schema, which
// is either derived from struct tags:
//
//	type Request struct {
//		Name   string             `fixed:"8"`
//		Amount int                `fixed:"10,right,fill=0"`
//		_      fixedwidth.Padding `fixed:"10"`
//	}
//
// or built programmatically with NewSchema and Field for map-valued records.
package fixedwidth

// Marshaler is the interface implemented by an object that can
// marshal itself into a fixed-width form.
//
// MarshalFixedWidth is provided the width of the field and should return
// the text form of the receiver. The text is converted to bytes with the
// field's encoding and padded by the encoder. If the encoded form is longer
// than the width, encoding fails with an *OverflowError.
type Marshaler interface {
	MarshalFixedWidth(width int) (text string, err error)
}

// Unmarshaler is the interface implemented by an object that can
// unmarshal a fixed-width representation of itself.
//
// The text passed to UnmarshalFixedWidth is the decoded content of the
// whole field. No leading or trailing space or fill will be removed.
//
// UnmarshalFixedWidth should be able to decode the form generated
// by MarshalFixedWidth.
type Unmarshaler interface {
	UnmarshalFixedWidth(text string) error
}

// Validator is implemented by record types that check their own
// invariants. Validate is called after every field has been decoded and
// its error is returned by the decoder unchanged.
type Validator interface {
	Validate() error
}

// Values holds field values of a record by field name.
type Values map[string]interface{}

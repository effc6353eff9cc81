package fixedwidth

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const tagName = "fixed"

// parseTag parses a struct field's fixed tag into f. The tag has the form
//
//	{length}[,left|right][,fill={c}][,order={n}][,enc={name}][,layout={layout}][,prec={n}][,conv={name}]
//
// A tag of "-" excludes the field.
func parseTag(tag string, f *FieldSpec) error {
	if tag == "-" {
		f.Excluded = true
		return nil
	}
	parts := strings.Split(tag, ",")

	var err error
	if f.Length, err = strconv.Atoi(parts[0]); err != nil {
		return errors.Errorf("invalid length %q", parts[0])
	}
	if f.Length <= 0 {
		return errors.Errorf("length must be positive, have %d", f.Length)
	}

	for _, opt := range parts[1:] {
		key, value, hasValue := strings.Cut(opt, "=")
		if !hasValue {
			switch key {
			case "left":
				f.Justify = Left
			case "right":
				f.Justify = Right
			default:
				return errors.Errorf("unknown option %q", opt)
			}
			continue
		}

		switch key {
		case "fill":
			if f.Fill, err = ParseFill(value); err != nil {
				return err
			}
		case "order":
			if f.Order, err = strconv.Atoi(value); err != nil {
				return errors.Errorf("invalid order %q", value)
			}
			f.explicitOrder = true
		case "enc":
			f.Encoding = value
		case "layout":
			f.Layout = value
		case "prec":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return errors.Errorf("invalid precision %q", value)
			}
			f.Precision = &n
		case "conv":
			f.Kind = KindCustom
			f.Converter = value
		default:
			return errors.Errorf("unknown option %q", opt)
		}
	}
	return nil
}

// ParseFill parses a fill byte given either as a single character or in
// hexadecimal form such as 0x40.
func ParseFill(s string) (byte, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s[2:], 16, 8)
		if err == nil {
			return byte(n), nil
		}
	}
	return 0, errors.Errorf("fill must be a single byte, have %q", s)
}

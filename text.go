package fixedwidth

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// textEncoding converts between Go strings and the bytes of one named
// character set. A nil enc means UTF-8, which needs no transformation.
type textEncoding struct {
	name string
	enc  encoding.Encoding
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// lookupEncoding resolves an IANA character set name such as "EUC-KR",
// "Shift_JIS", "ISO-8859-1" or "IBM037".
func lookupEncoding(name string) (textEncoding, error) {
	if isUTF8(name) {
		return textEncoding{name: defaultEncoding}, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return textEncoding{}, errors.Wrapf(err, "unknown encoding %q", name)
	}
	if enc == nil {
		return textEncoding{}, errors.Errorf("unsupported encoding %q", name)
	}
	return textEncoding{name: name, enc: enc}, nil
}

func (t textEncoding) encode(s string) ([]byte, error) {
	if t.enc == nil {
		return []byte(s), nil
	}
	b, err := t.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot encode %q as %s", s, t.name)
	}
	return b, nil
}

func (t textEncoding) decode(b []byte) (string, error) {
	if t.enc == nil {
		if !utf8.Valid(b) {
			return "", errors.Errorf("invalid utf-8 sequence %q", b)
		}
		return string(b), nil
	}
	d, err := t.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "cannot decode %q as %s", b, t.name)
	}
	return string(d), nil
}

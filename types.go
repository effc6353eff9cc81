package fixedwidth

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Float is a float64 that uses as many decimals as its field has room for.
type Float float64

func (f Float) MarshalFixedWidth(width int) (string, error) {
	var l, p int

	if f > 0 {
		l = int(math.Log10(float64(f))) + 2
	} else if f < 0 {
		l = int(math.Log10(math.Abs(float64(f)))) + 3
	} else {
		l = 2
	}

	if l-1 > width {
		return "", errors.New("formatted float with 0 precision longer than field width")
	}

	p = width - l
	if p < 0 {
		p = 0
	}

	return strconv.FormatFloat(float64(f), 'f', p, 64), nil
}

func (f *Float) UnmarshalFixedWidth(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

package fixedwidth

import (
	"testing"
)

func TestFloat_MarshalFixedWidth(t *testing.T) {
	for _, tt := range []struct {
		name      string
		f         Float
		width     int
		data      string
		shouldErr bool
	}{
		{
			name:      "zero",
			f:         0,
			width:     10,
			data:      "0.00000000",
			shouldErr: false,
		},
		{
			name:      "whole number",
			f:         11,
			width:     10,
			data:      "11.0000000",
			shouldErr: false,
		},
		{
			name:      "negative whole number",
			f:         -11,
			width:     10,
			data:      "-11.000000",
			shouldErr: false,
		},
		{
			name:      "rational number",
			f:         11.234,
			width:     10,
			data:      "11.2340000",
			shouldErr: false,
		},
		{
			name:      "negative rational number",
			f:         -11.234,
			width:     10,
			data:      "-11.234000",
			shouldErr: false,
		},
		{
			name:      "zero precision",
			f:         1234567891.234,
			width:     10,
			data:      "1234567891",
			shouldErr: false,
		},
		{
			name:      "negative zero precision",
			f:         -123456789.234,
			width:     10,
			data:      "-123456789",
			shouldErr: false,
		},
		{
			name:      "error too long",
			f:         12345678912.234,
			width:     10,
			shouldErr: true,
		},
		{
			name:      "error negative too long",
			f:         -1234567891.234,
			width:     10,
			shouldErr: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.f.MarshalFixedWidth(tt.width)
			if err != nil != tt.shouldErr {
				t.Errorf("MarshalFixedWidth() err have %v, want %v (%v)", err != nil, tt.shouldErr, err)
			}
			if data != tt.data {
				t.Errorf("MarshalFixedWidth() data have %s, want %s", data, tt.data)
			}
		})
	}
}

func TestFloat_UnmarshalFixedWidth(t *testing.T) {
	for _, tt := range []struct {
		text      string
		f         Float
		shouldErr bool
	}{
		{"0.00000000", 0, false},
		{"-11.234000", -11.234, false},
		{"1234567891", 1234567891, false},
		{"  11.5    ", 11.5, false},
		{"          ", 0, false},
		{"eleven", 0, true},
	} {
		t.Run(tt.text, func(t *testing.T) {
			var f Float
			err := f.UnmarshalFixedWidth(tt.text)
			if err != nil != tt.shouldErr {
				t.Errorf("UnmarshalFixedWidth() err have %v, want %v (%v)", err != nil, tt.shouldErr, err)
			}
			if !tt.shouldErr && f != tt.f {
				t.Errorf("UnmarshalFixedWidth() have %v, want %v", f, tt.f)
			}
		})
	}
}

func TestFloat_Field(t *testing.T) {
	v := struct {
		Rate Float `fixed:"10,right"`
	}{11.234}

	data, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() unexpected err %v", err)
	}
	if string(data) != "11.2340000" {
		t.Errorf("Marshal() have %q, want %q", data, "11.2340000")
	}
}

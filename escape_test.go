package addonsync

import (
	"bytes"
	"testing"
)

func TestEncodeBinary(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"empty", nil, nil},
		{"plain text", []byte("hello"), []byte("hello")},
		{"nul", []byte{0x00}, []byte{0x01, 0x01}},
		{"escape byte itself", []byte{0x01}, []byte{0x01, 0x02}},
		{"carriage return", []byte{0x0D}, []byte{0x01, 0x0E}},
		{"fe", []byte{0xFE}, []byte{0x01, 0xFF}},
		{"mixed", []byte{'a', 0x00, 'b', 0x0D, 'c'}, []byte{'a', 0x01, 0x01, 'b', 0x01, 0x0E, 'c'}},
		{"safe neighbours untouched", []byte{0x02, 0x0C, 0x0E, 0xFD, 0xFF}, []byte{0x02, 0x0C, 0x0E, 0xFD, 0xFF}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EncodeBinary(tc.in)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("EncodeBinary(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeBinary(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"plain text", []byte("hello"), []byte("hello")},
		{"escaped nul", []byte{0x01, 0x01}, []byte{0x00}},
		{"escaped cr", []byte{0x01, 0x0E}, []byte{0x0D}},
		{"escaped fe", []byte{0x01, 0xFF}, []byte{0xFE}},
		{"dangling escape kept", []byte{'a', 0x01}, []byte{'a', 0x01}},
		{"lone escape kept", []byte{0x01}, []byte{0x01}},
		{"escape pair then data", []byte{0x01, 0x02, 'x'}, []byte{0x01, 'x'}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeBinary(tc.in)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("DecodeBinary(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	inputs := [][]byte{
		{},
		[]byte("plain text"),
		{0x00, 0x01, 0x0D, 0xFE},
		{0xFF, 0xFE, 0xFD, 0x00, 0x00, 0x01},
		all,
	}

	for _, in := range inputs {
		got := DecodeBinary(EncodeBinary(in))
		if !bytes.Equal(got, in) {
			t.Errorf("round trip changed %v into %v", in, got)
		}
	}
}

package addonsync

import "bytes"

// Binary file contents travel inside a quoted-text tree format that cannot
// hold NUL, CR or 0xFE. The escape byte 0x01 prefixes each such byte, stored
// incremented by one so the escaped stream never contains the unsafe values
// themselves.

const escapeByte = 0x01

func unsafeByte(b byte) bool {
	switch b {
	case 0x00, escapeByte, '\r', 0xFE:
		return true
	}
	return false
}

// EncodeBinary escapes the bytes that are unsafe inside quoted text. Safe
// input is returned unchanged without copying.
func EncodeBinary(data []byte) []byte {
	extra := 0
	for _, b := range data {
		if unsafeByte(b) {
			extra++
		}
	}
	if extra == 0 {
		return data
	}

	out := make([]byte, 0, len(data)+extra)
	for _, b := range data {
		if unsafeByte(b) {
			out = append(out, escapeByte, b+1)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// DecodeBinary reverses EncodeBinary. A dangling escape byte at the end of
// the input is passed through unchanged rather than treated as an error.
func DecodeBinary(data []byte) []byte {
	if bytes.IndexByte(data, escapeByte) == -1 {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == escapeByte && i+1 < len(data) {
			i++
			out = append(out, data[i]-1)
			continue
		}
		out = append(out, b)
	}
	return out
}

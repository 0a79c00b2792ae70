package sliceops

const hexDigits = "0123456789abcdef"

// FromHex returns the value of a single hex digit.
func FromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// IsHex reports whether c is a hex digit.
func IsHex(c byte) bool {
	_, ok := FromHex(c)
	return ok
}

// ParseHexByte decodes a two character hex pair such as "3f".
func ParseHexByte(hi, lo byte) (byte, bool) {
	h, ok := FromHex(hi)
	if !ok {
		return 0, false
	}
	l, ok := FromHex(lo)
	if !ok {
		return 0, false
	}
	return h<<4 | l, true
}

// HexString renders b as lowercase hex, inserting a space before every
// group of four bytes the way usbmon prints data words.
func HexString(b []byte) string {
	out := make([]byte, 0, len(b)*2+len(b)/4+1)
	for i, v := range b {
		if i%4 == 0 {
			out = append(out, ' ')
		}
		out = append(out, hexDigits[v>>4], hexDigits[v&15])
	}
	return string(out)
}

// Escape renders b as text, replacing bytes outside printable ASCII with
// \xNN escapes. Quotes and backslashes are escaped the same way.
func Escape(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c < 0x20 || c > 0x7e || c == '"' || c == '\\' {
			out = append(out, '\\', 'x', hexDigits[c>>4], hexDigits[c&15])
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// CString returns b up to, not including, the first NUL byte.
func CString(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

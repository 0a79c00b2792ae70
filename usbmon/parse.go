package usbmon

import (
	"math"
	"strings"

	"github.com/rigado/btdump/sliceops"
)

// cursor walks a capture line left to right. It never backtracks.
type cursor struct {
	s   string
	pos int
}

func (c *cursor) eol() bool {
	return c.pos >= len(c.s)
}

func (c *cursor) peek() byte {
	if c.eol() {
		return 0
	}
	return c.s[c.pos]
}

func (c *cursor) peekAt(n int) byte {
	if c.pos+n >= len(c.s) {
		return 0
	}
	return c.s[c.pos+n]
}

func (c *cursor) skipSpace() {
	for !c.eol() && isSpace(c.s[c.pos]) {
		c.pos++
	}
}

// uint reads an unsigned number in base 10 or 16. ok is false when no
// digit was consumed or the number does not fit in 64 bits.
func (c *cursor) uint(base int) (v uint64, ok bool) {
	for !c.eol() {
		ch := c.s[c.pos]
		var d byte
		switch {
		case base == 16 && sliceops.IsHex(ch):
			d, _ = sliceops.FromHex(ch)
		case base == 10 && isDigit(ch):
			d = ch - '0'
		default:
			return v, ok
		}
		if v > (math.MaxUint64-uint64(d))/uint64(base) {
			return v, false
		}
		v = v*uint64(base) + uint64(d)
		ok = true
		c.pos++
	}
	return v, ok
}

// int reads an optionally negative decimal number.
func (c *cursor) int() (int, bool) {
	neg := false
	if c.peek() == '-' {
		neg = true
		c.pos++
	}
	v, ok := c.uint(10)
	if v > math.MaxInt32 {
		return 0, false
	}
	if neg {
		return -int(v), ok
	}
	return int(v), ok
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Parse decodes one trimmed usbmon text line into t and the captured data
// words into data. At most len(data) bytes are stored; the rest of a longer
// capture is skipped. On failure a *ParseError names the offending field and
// the contents of t and data are unspecified.
func Parse(line string, t *Transfer, data []byte) error {
	t.reset()
	c := &cursor{s: strings.TrimRightFunc(line, func(r rune) bool { return r < 0x80 && isSpace(byte(r)) })}
	c.skipSpace()

	// URB id
	id, ok := c.uint(16)
	if !ok {
		return newParseError(CodeID, c.pos)
	}
	t.ID = id
	if !isSpace(c.peek()) {
		return newParseError(CodeID, c.pos)
	}
	c.skipSpace()

	// Timestamp: either seconds.microseconds or a bare microsecond counter.
	ts, ok := c.uint(10)
	if !ok || ts > math.MaxInt64 {
		return newParseError(CodeTimestamp, c.pos)
	}
	if c.peek() == '.' {
		c.pos++
		usec, ok := c.uint(10)
		if !ok || usec > 999999 {
			return newParseError(CodeMicroseconds, c.pos)
		}
		t.TsSec = int64(ts)
		t.TsUsec = int32(usec)
	} else {
		t.TsSec = int64(ts / 1000000)
		t.TsUsec = int32(ts % 1000000)
	}

	// Event type
	c.skipSpace()
	if !isAlpha(c.peek()) || !isSpace(c.peekAt(1)) {
		return newParseError(CodeEventType, c.pos)
	}
	t.Type = EventType(c.peek())
	c.pos++
	c.skipSpace()

	if err := parseAddress(c, t); err != nil {
		return err
	}
	c.skipSpace()
	if err := parseStatus(c, t); err != nil {
		return err
	}

	// Data length
	c.skipSpace()
	length, ok := c.uint(10)
	if !ok || length > math.MaxInt32 || !(c.eol() || isSpace(c.peek())) {
		return newParseError(CodeLength, c.pos)
	}
	t.Length = int(length)

	return parseData(c, t, data)
}

// parseAddress reads the "<kind><dir>:<bus>:<dev>:<ep>" token.
func parseAddress(c *cursor, t *Transfer) error {
	switch c.peek() {
	case 'Z':
		t.Xfer = XferIsoc
	case 'I':
		t.Xfer = XferIntr
	case 'C':
		t.Xfer = XferCtrl
	case 'B':
		t.Xfer = XferBulk
	default:
		return newParseError(CodeXferType, c.pos)
	}
	c.pos++

	switch c.peek() {
	case 'i':
		t.Dir = DirIn
	case 'o':
		t.Dir = DirOut
	default:
		return newParseError(CodeDirection, c.pos)
	}
	c.pos++

	if c.peek() != ':' {
		return newParseError(CodeAddrSeparator, c.pos)
	}
	c.pos++

	bus, ok := c.uint(10)
	if !ok || bus > math.MaxUint16 || c.peek() != ':' {
		return newParseError(CodeBus, c.pos)
	}
	c.pos++
	t.Bus = uint16(bus)

	dev, ok := c.uint(10)
	if !ok || dev > math.MaxUint8 || c.peek() != ':' {
		return newParseError(CodeDevice, c.pos)
	}
	c.pos++
	t.Device = uint8(dev)

	ep, ok := c.uint(10)
	if !ok || ep > math.MaxUint8 || !isSpace(c.peek()) {
		return newParseError(CodeEndpoint, c.pos)
	}
	t.Endpoint = uint8(ep & 127)
	return nil
}

// parseStatus reads the section between the address and the length. It has
// four shapes: a setup packet, an in-progress marker, a numeric status with
// optional colon fields, or a "not captured" flag.
func parseStatus(c *cursor, t *Transfer) error {
	switch ch := c.peek(); {
	case ch == 's' && isSpace(c.peekAt(1)):
		t.SetupFlag = FlagCaptured
		c.pos++
		widths := [5]int{1, 1, 2, 2, 2}
		off := 0
		for i, w := range widths {
			code := CodeSetupRequestType + i
			if !isSpace(c.peek()) {
				return newParseError(code, c.pos)
			}
			c.skipSpace()
			v, ok := c.uint(16)
			if !ok || !isSpace(c.peek()) {
				return newParseError(code, c.pos)
			}
			t.Setup[off] = byte(v)
			if w == 2 {
				t.Setup[off+1] = byte(v >> 8)
			}
			off += w
		}
		return nil

	case ch == '-' && !isDigit(c.peekAt(1)) && t.Type == EventSubmit:
		t.SetupFlag = FlagNoSetup
		t.Status = -EINPROGRESS
		c.pos++
		return nil

	case isDigit(ch) || (ch == '-' && isDigit(c.peekAt(1))):
		t.SetupFlag = FlagNoSetup
		status, ok := c.int()
		if !ok {
			return newParseError(CodeStatus, c.pos)
		}
		t.Status = status
		if t.Xfer == XferIsoc || t.Xfer == XferIntr {
			// Error events may stop after the status.
			if t.Type == EventError && isSpace(c.peek()) {
				return nil
			}
			v, err := colonField(c, CodeInterval)
			if err != nil {
				return err
			}
			t.Interval = v
			if t.Xfer == XferIsoc {
				if t.StartFrame, err = colonField(c, CodeStartFrame); err != nil {
					return err
				}
				if t.Type == EventComplete {
					if t.ErrorCount, err = colonField(c, CodeErrorCount); err != nil {
						return err
					}
				}
			}
		}
		if !isSpace(c.peek()) {
			return newParseError(CodeStatus, c.pos)
		}
		return nil

	default:
		if c.eol() {
			return newParseError(CodeStatus, c.pos)
		}
		t.SetupFlag = ch
		c.pos++
		// usbmon follows the flag with "__ __ ____ ____ ____".
		for {
			save := c.pos
			c.skipSpace()
			if c.peek() != '_' {
				c.pos = save
				return nil
			}
			for c.peek() == '_' {
				c.pos++
			}
		}
	}
}

func colonField(c *cursor, code int) (int, error) {
	if c.peek() != ':' {
		return 0, newParseError(code, c.pos)
	}
	c.pos++
	v, ok := c.int()
	if !ok {
		return 0, newParseError(code, c.pos)
	}
	return v, nil
}

// parseData reads the data block that follows the length.
func parseData(c *cursor, t *Transfer, data []byte) error {
	c.skipSpace()
	if c.eol() {
		t.DataFlag = DataOmitted
		return nil
	}

	if c.peek() != '=' {
		t.DataFlag = c.peek()
		c.pos++
		c.skipSpace()
		if !c.eol() {
			return newParseError(CodeTrailing, c.pos)
		}
		return nil
	}

	t.DataFlag = FlagCaptured
	c.pos++
	if !c.eol() && !isSpace(c.peek()) {
		return newParseError(CodeDataTag, c.pos)
	}

	n := 0
	for n < t.Length {
		c.skipSpace()
		if c.eol() || strings.HasPrefix(c.s[c.pos:], "...") {
			break
		}
		b, ok := sliceops.ParseHexByte(c.peek(), c.peekAt(1))
		if !ok {
			return newParseError(CodeData, c.pos)
		}
		c.pos += 2
		if n < len(data) {
			data[n] = b
			t.CapLen++
		}
		n++
	}

	c.skipSpace()
	if strings.HasPrefix(c.s[c.pos:], "...") {
		c.pos += 3
		c.skipSpace()
	}
	if !c.eol() {
		return newParseError(CodeTrailing, c.pos)
	}
	return nil
}

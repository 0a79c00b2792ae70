package hci

import (
	"fmt"
	"io"
	"strings"

	"github.com/rigado/btdump"
	"github.com/rigado/btdump/sliceops"
)

var (
	u8   = sliceops.Uint8
	le16 = sliceops.Uint16LE
	le24 = sliceops.Uint24LE
	le32 = sliceops.Uint32LE
	le64 = sliceops.Uint64LE
)

func i8(p []byte, i int) int8 {
	return int8(u8(p, i))
}

// span returns up to n bytes of p starting at i, fewer when p is short.
func span(p []byte, i, n int) []byte {
	if i < 0 || i >= len(p) {
		return nil
	}
	if i+n > len(p) {
		return p[i:]
	}
	return p[i : i+n]
}

func addr(p []byte, i int) btdump.Addr {
	return btdump.NewAddr(span(p, i, 6))
}

func name(p []byte, i int) string {
	return sliceops.Escape(sliceops.CString(span(p, i, 248)))
}

func linkKey(p []byte, i int) string {
	return fmt.Sprintf("%x", span(p, i, 16))
}

// params slices the parameter block of a packet whose header is off bytes
// long and whose declared parameter length is declared.
func params(b []byte, off, declared int) []byte {
	if off >= len(b) {
		return nil
	}
	p := b[off:]
	if len(p) > declared {
		p = p[:declared]
	}
	return p
}

func truncated(w io.Writer, have, want int) {
	if have < want {
		fmt.Fprintf(w, "    (truncated: %d of %d parameter bytes captured)\n", have, want)
	}
}

func fields(kv ...interface{}) string {
	var sb strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", kv[i], kv[i+1])
	}
	return sb.String()
}

func hex8(v uint8) string   { return fmt.Sprintf("0x%02x", v) }
func hex16(v uint16) string { return fmt.Sprintf("0x%04x", v) }
func hex24(v uint32) string { return fmt.Sprintf("0x%06x", v) }
func hex32(v uint32) string { return fmt.Sprintf("0x%08x", v) }
func hex64(v uint64) string { return fmt.Sprintf("0x%016x", v) }

func status(p []byte) string {
	return "Status=" + hex8(u8(p, 0))
}

func connHandle(p []byte, i int) uint16 {
	return le16(p, i) & HandleMask
}

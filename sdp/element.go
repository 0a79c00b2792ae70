// Package sdp decodes Service Discovery Protocol PDUs and the data elements
// they carry. SDP is big endian throughout.
package sdp

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rigado/btdump/sliceops"
)

// Data element types [Vol 3, Part B, 3.2].
const (
	TypeNil = iota
	TypeUint
	TypeInt
	TypeUUID
	TypeString
	TypeBool
	TypeSequence
	TypeAlternative
	TypeURL
)

var typeNames = [...]string{
	TypeNil:         "nil",
	TypeUint:        "uint",
	TypeInt:         "int",
	TypeUUID:        "uuid",
	TypeString:      "str",
	TypeBool:        "bool",
	TypeSequence:    "seq",
	TypeAlternative: "alt",
	TypeURL:         "url",
}

func typeName(typ int) string {
	if typ < len(typeNames) {
		return typeNames[typ]
	}
	return "reserved"
}

func marker(w io.Writer, missing int) {
	fmt.Fprintf(w, " ...[%d bytes missing]", missing)
}

// DecodeElement writes the data element starting at b[pos] to w. It returns
// the position after the element and the number of bytes the element
// declared beyond the end of b. A non-zero missing count means the element
// was cut short; its marker has already been written, and enclosing
// sequences pass the count up without writing another.
func DecodeElement(w io.Writer, b []byte, pos int) (next int, missing int) {
	if pos >= len(b) {
		fmt.Fprint(w, "...[element missing]")
		return pos, 1
	}

	tag := b[pos]
	pos++
	typ := int(tag >> 3)

	var size int
	switch class := tag & 7; class {
	case 0, 1, 2, 3, 4:
		size = 1 << class
		if typ == TypeNil {
			size = 0
		}
	case 5, 6, 7:
		n := 1 << (class - 5)
		if pos+n > len(b) {
			fmt.Fprint(w, typeName(typ))
			missing = pos + n - len(b)
			marker(w, missing)
			return len(b), missing
		}
		switch n {
		case 1:
			size = int(b[pos])
		case 2:
			size = int(binary.BigEndian.Uint16(b[pos:]))
		case 4:
			size = int(binary.BigEndian.Uint32(b[pos:]))
		}
		pos += n
	}

	if avail := len(b) - pos; size > avail {
		missing = size - avail
		size = avail
	}
	v := b[pos : pos+size]
	next = pos + size

	switch typ {
	case TypeNil:
		fmt.Fprint(w, "nil")
	case TypeUint, TypeInt, TypeUUID:
		fmt.Fprintf(w, "%s%d(", typeName(typ), size+missing)
		if missing == 0 {
			fmt.Fprint(w, number(typ, v))
		}
		fmt.Fprint(w, ")")
	case TypeString:
		fmt.Fprintf(w, "\"%s\"", sliceops.Escape(v))
	case TypeURL:
		fmt.Fprintf(w, "URL:\"%s\"", sliceops.Escape(v))
	case TypeBool:
		fmt.Fprint(w, "bool(")
		if size > 0 {
			fmt.Fprint(w, v[0] != 0)
		}
		fmt.Fprint(w, ")")
	case TypeSequence, TypeAlternative:
		fmt.Fprintf(w, "%s { ", typeName(typ))
		sub := decodeList(w, b[:next], pos)
		fmt.Fprint(w, " }")
		if sub > 0 {
			if missing == 0 {
				missing = sub
			}
			return next, missing
		}
	default:
		fmt.Fprintf(w, "reserved(Type=%d, Size=%d)", typ, size+missing)
	}

	if missing > 0 {
		marker(w, missing)
	}
	return next, missing
}

// decodeList decodes the elements of a sequence body ending at len(b). It
// stops at the first truncated element and returns its missing count.
func decodeList(w io.Writer, b []byte, pos int) int {
	for first := true; pos < len(b); first = false {
		if !first {
			fmt.Fprint(w, ", ")
		}
		var missing int
		pos, missing = DecodeElement(w, b, pos)
		if missing > 0 {
			return missing
		}
	}
	return 0
}

func number(typ int, v []byte) string {
	be := binary.BigEndian
	switch len(v) {
	case 1:
		if typ == TypeInt {
			return fmt.Sprint(int8(v[0]))
		}
		return fmt.Sprint(v[0])
	case 2:
		switch typ {
		case TypeInt:
			return fmt.Sprint(int16(be.Uint16(v)))
		case TypeUUID:
			return fmt.Sprintf("0x%04x", be.Uint16(v))
		}
		return fmt.Sprint(be.Uint16(v))
	case 4:
		if typ == TypeInt {
			return fmt.Sprint(int32(be.Uint32(v)))
		}
		return fmt.Sprintf("0x%08x", be.Uint32(v))
	case 8:
		if typ == TypeInt {
			return fmt.Sprint(int64(be.Uint64(v)))
		}
		return fmt.Sprintf("0x%08x_%08x", be.Uint32(v), be.Uint32(v[4:]))
	case 16:
		if typ == TypeUUID {
			return fmt.Sprintf("%08x-%04x-%04x-%04x-%04x%08x",
				be.Uint32(v), be.Uint16(v[4:]), be.Uint16(v[6:]), be.Uint16(v[8:]), be.Uint16(v[10:]), be.Uint32(v[12:]))
		}
		return fmt.Sprintf("0x%08x_%08x_%08x_%08x", be.Uint32(v), be.Uint32(v[4:]), be.Uint32(v[8:]), be.Uint32(v[12:]))
	}
	return fmt.Sprintf("0x%x", v)
}

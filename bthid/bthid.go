// Package bthid decodes Bluetooth HID transactions carried on the HID
// control and interrupt channels.
package bthid

import (
	"fmt"
	"io"

	"github.com/rigado/btdump/sliceops"
)

// Transaction types, the high nibble of the header byte.
const (
	TransHandshake   = 0x0
	TransControl     = 0x1
	TransGetReport   = 0x4
	TransSetReport   = 0x5
	TransGetProtocol = 0x6
	TransSetProtocol = 0x7
	TransGetIdle     = 0x8
	TransSetIdle     = 0x9
	TransData        = 0xa
	TransDatc        = 0xb
)

var reportTypes = [4]string{"Reserved", "Input", "Output", "Feature"}

var handshakeResults = map[uint8]string{
	0x0: "Successful",
	0x1: "Not Ready",
	0x2: "Invalid Report ID",
	0x3: "Unsupported Request",
	0x4: "Invalid Parameter",
	0xe: "Unknown",
	0xf: "Fatal",
}

var controlOps = map[uint8]string{
	0x0: "NOP",
	0x1: "Hard Reset",
	0x2: "Soft Reset",
	0x3: "Suspend",
	0x4: "Exit Suspend",
	0x5: "Virtual Cable Unplug",
}

func lookup(m map[uint8]string, v uint8) string {
	if s, ok := m[v]; ok {
		return s
	}
	return "Reserved"
}

func reportType(hdr uint8) string {
	return reportTypes[hdr&3]
}

func protocol(v uint8) string {
	if v&1 != 0 {
		return "Report"
	}
	return "Boot"
}

// Decode writes the description of the HID transaction b to w.
func Decode(w io.Writer, b []byte) {
	if len(b) == 0 {
		fmt.Fprint(w, "  BT-HID empty frame\n")
		return
	}

	hdr := b[0]
	param := hdr & 0xf
	switch hdr >> 4 {
	case TransHandshake:
		fmt.Fprintf(w, "  BT-HID Handshake: Status=%d (%s)\n", param, lookup(handshakeResults, param))
	case TransControl:
		fmt.Fprintf(w, "  BT-HID Control: Operation=%d (%s)\n", param, lookup(controlOps, param))
	case TransGetReport:
		fmt.Fprintf(w, "  BT-HID Get_Report: Type=%s", reportType(hdr))
		pos := 1
		// a report id is present when the frame is 2 bytes, or 4 with a
		// buffer size
		if len(b) == 2 || len(b) == 4 {
			fmt.Fprintf(w, ", ReportId=%d", b[pos])
			pos++
		}
		if hdr&0x8 != 0 {
			fmt.Fprintf(w, ", BufferSize=%d", sliceops.Uint16LE(b, pos))
		}
		fmt.Fprint(w, "\n")
	case TransSetReport:
		fmt.Fprintf(w, "  BT-HID Set_Report: Type=%s, Length=%d\n", reportType(hdr), len(b)-1)
	case TransGetProtocol:
		fmt.Fprintf(w, "  BT-HID Get_Protocol: Protocol=%s\n", protocol(sliceops.Uint8(b, 1)))
	case TransSetProtocol:
		fmt.Fprintf(w, "  BT-HID Set_Protocol: Protocol=%s\n", protocol(hdr))
	case TransGetIdle:
		fmt.Fprintf(w, "  BT-HID Get_Idle: Rate=%d\n", sliceops.Uint8(b, 1))
	case TransSetIdle:
		fmt.Fprintf(w, "  BT-HID Set_Idle: Rate=%d\n", sliceops.Uint8(b, 1))
	case TransData, TransDatc:
		kind := "DATA"
		if hdr>>4 == TransDatc {
			kind = "DATC"
		}
		fmt.Fprintf(w, "  BT-HID %s: Report=%s, Length=%d", kind, reportType(hdr), len(b)-1)
		if len(b) > 1 {
			fmt.Fprintf(w, ", ReportId=%d", b[1])
		}
		fmt.Fprint(w, "\n")
	default:
		fmt.Fprintf(w, "  BT-HID Unhandled (reserved) request: Type=%d, Parameter=%d, Length=%d\n", hdr>>4, param, len(b)-1)
	}
}

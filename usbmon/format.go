package usbmon

import (
	"fmt"
	"strings"

	"github.com/rigado/btdump/sliceops"
)

// Format renders t in the canonical usbmon text form. data must be the
// buffer the event was read into.
func (t *Transfer) Format(data []byte) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%016x %d.%06d %c %c%c:%d:%03d:%d",
		t.ID, t.TsSec, t.TsUsec, byte(t.Type),
		t.Xfer.Letter(), t.Dir.Letter(),
		t.Bus, t.Device, t.Endpoint)

	switch {
	case t.Type == EventError:
		fmt.Fprintf(&sb, " %d", t.Status)
	case t.SetupFlag == FlagCaptured:
		fmt.Fprintf(&sb, " s %02x %02x %04x %04x %04x",
			t.Setup[0], t.Setup[1], t.SetupLE16(1), t.SetupLE16(2), t.SetupLE16(3))
	case t.SetupFlag == FlagNoSetup:
		fmt.Fprintf(&sb, " %d", t.Status)
		if t.Xfer == XferIsoc || t.Xfer == XferIntr {
			fmt.Fprintf(&sb, ":%d", t.Interval)
		}
		if t.Xfer == XferIsoc {
			fmt.Fprintf(&sb, ":%d", t.StartFrame)
			if t.Type == EventComplete {
				fmt.Fprintf(&sb, ":%d", t.ErrorCount)
			}
		}
	default:
		fmt.Fprintf(&sb, " %c __ __ ____ ____ ____", t.SetupFlag)
	}

	fmt.Fprintf(&sb, " %d", t.Length)
	switch {
	case t.Length == 0 || t.DataFlag == DataOmitted:
	case t.DataFlag != FlagCaptured:
		sb.WriteByte(' ')
		sb.WriteByte(t.DataFlag)
	default:
		sb.WriteString(" =")
		sb.WriteString(sliceops.HexString(t.Payload(data)))
		if t.CapLen < t.Length {
			sb.WriteString(" ...")
		}
	}

	return sb.String()
}

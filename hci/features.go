package hci

import (
	"fmt"
	"io"
)

// LMP feature mask bits, page 0 [Vol 2, Part C, 3.3].
var lmpFeatures = [...]string{
	// byte 0
	"3 slot packets",
	"5 slot packets",
	"Encryption",
	"Slot offset",
	"Timing accuracy",
	"Role switch",
	"Hold mode",
	"Sniff mode",
	// byte 1
	"Park state",
	"Power control requests",
	"Channel quality driven data rate (CQDDR)",
	"SCO link",
	"HV2 packets",
	"HV3 packets",
	"u-law log synchronous data",
	"A-law log synchronous data",
	// byte 2
	"CVSD synchronous data",
	"Paging parameter negotiation",
	"Power control",
	"Transparent synchronous data",
	"Flow control lag (least significant bit)",
	"Flow control lag (middle bit)",
	"Flow control lag (most significant bit)",
	"Broadcast Encryption",
	// byte 3
	"",
	"Enhanced Data Rate ACL 2 Mb/s mode",
	"Enhanced Data Rate ACL 3 Mb/s mode",
	"Enhanced inquiry scan",
	"Interlaced inquiry scan",
	"Interlaced page scan",
	"RSSI with inquiry results",
	"Extended SCO link (EV3 packets)",
	// byte 4
	"EV4 packets",
	"EV5 packets",
	"",
	"AFH capable slave",
	"AFH classification slave",
	"BR/EDR Not Supported",
	"LE Supported (Controller)",
	"3-slot Enhanced Data Rate ACL packets",
	// byte 5
	"5-slot Enhanced Data Rate ACL packets",
	"Sniff subrating",
	"Pause encryption",
	"AFH capable master",
	"AFH classification master",
	"Enhanced Data Rate eSCO 2 Mb/s mode",
	"Enhanced Data Rate eSCO 3 Mb/s mode",
	"3-slot Enhanced Data Rate eSCO packets",
	// byte 6
	"Extended Inquiry Response",
	"Simultaneous LE and BR/EDR to Same Device Capable (Controller)",
	"",
	"Secure Simple Pairing (Controller Support)",
	"Encapsulated PDU",
	"Erroneous Data Reporting",
	"Non-flushable Packet Boundary Flag",
	"",
	// byte 7
	"HCI_Link_Supervision_Timeout_Changed event",
	"Variable Inquiry TX Power Level",
	"Enhanced Power Control",
	"",
	"",
	"",
	"",
	"Extended features",
}

// one name per bit of the 64-bit mask
var (
	_ [64 - len(lmpFeatures)]struct{}
	_ [len(lmpFeatures) - 64]struct{}
)

// LMPFeatures returns the names of the bits set in mask. Reserved bits are
// reported by bit number.
func LMPFeatures(mask uint64) []string {
	var out []string
	for bit := range lmpFeatures {
		if mask&(1<<uint(bit)) == 0 {
			continue
		}
		if lmpFeatures[bit] == "" {
			out = append(out, fmt.Sprintf("Reserved (bit %d)", bit))
			continue
		}
		out = append(out, lmpFeatures[bit])
	}
	return out
}

func writeFeatures(w io.Writer, mask uint64) {
	for _, f := range LMPFeatures(mask) {
		fmt.Fprintf(w, "    %s\n", f)
	}
}

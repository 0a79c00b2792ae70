package hci

import (
	"fmt"
	"io"

	"github.com/rigado/btdump/eir"
)

type event struct {
	name   string
	params formatFn
	more   moreFn
}

var events = map[uint8]event{
	EvtInquiryComplete: {name: "Inquiry Complete", params: statusOnly},
	EvtInquiryResult: {name: "Inquiry Result", params: func(p []byte) string {
		return fmt.Sprintf("%d responses", u8(p, 0))
	}, more: inquiryResult},
	EvtConnectionComplete: {name: "Connection Complete", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("BD_ADDR", addr(p, 3),
			"Link_Type", u8(p, 9),
			"Encryption_Enabled", u8(p, 10))
	}},
	EvtConnectionRequest: {name: "Connection Request", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0),
			"Class_of_Device", hex24(le24(p, 6)),
			"Link_Type", u8(p, 9))
	}},
	EvtDisconnectionComplete: {name: "Disconnection Complete", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Reason", hex8(u8(p, 3)))
	}},
	EvtAuthenticationComplete: {name: "Authentication Complete", params: statusHandle},
	EvtRemoteNameRequestComplete: {name: "Remote Name Request Complete", params: func(p []byte) string {
		return statusAddr(p) + fmt.Sprintf(", Remote_Name=\"%s\"", name(p, 7))
	}},
	EvtEncryptionChange: {name: "Encryption Change", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Encryption_Enabled", u8(p, 3))
	}},
	EvtReadRemoteFeaturesComplete: {name: "Read Remote Supported Features Complete", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("LMP_Features", hex64(le64(p, 3)))
	}, more: func(w io.Writer, p []byte) {
		writeFeatures(w, le64(p, 3))
	}},
	EvtReadRemoteVersionComplete: {name: "Read Remote Version Information Complete", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Version", u8(p, 3),
			"Manufacturer_Name", hex16(le16(p, 4)),
			"Subversion", hex16(le16(p, 6)))
	}},
	EvtQoSSetupComplete: {name: "QoS Setup Complete", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Flags", u8(p, 3),
			"Service_Type", u8(p, 4),
			"Token_Rate", le32(p, 5),
			"Peak_Bandwidth", le32(p, 9),
			"Latency", le32(p, 13),
			"Delay_Variation", le32(p, 17))
	}},
	EvtCommandStatus: {name: "Command Status", params: func(p []byte) string {
		op := le16(p, 2)
		s := status(p) + ", " + fields("Num_HCI_Command_Packets", u8(p, 1), "Command_Opcode", hex16(op))
		if n := OpcodeName(op); n != "" {
			s += " (" + n + ")"
		}
		return s
	}},
	EvtHardwareError: {name: "Hardware Error", params: func(p []byte) string {
		return fields("Hardware_Code", hex8(u8(p, 0)))
	}},
	EvtRoleChange: {name: "Role Change", params: func(p []byte) string {
		return statusAddr(p) + ", " + fields("New_Role", role(u8(p, 7)))
	}},
	EvtNumberOfCompletedPackets: {name: "Number Of Completed Packets", params: func(p []byte) string {
		return fmt.Sprintf("%d handles", u8(p, 0))
	}, more: completedPackets},
	EvtModeChange: {name: "Mode Change", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Current_Mode", u8(p, 3), "Interval", le16(p, 4))
	}},
	EvtPINCodeRequest: {name: "PIN Code Request", params: byAddr},
	EvtLinkKeyRequest: {name: "Link Key Request", params: byAddr},
	EvtLinkKeyNotification: {name: "Link Key Notification", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Link_Key", linkKey(p, 6), "Key_Type", u8(p, 22))
	}},
	EvtMaxSlotsChange: {name: "Max Slots Change", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "LMP_Max_Slots", u8(p, 2))
	}},
	EvtReadClockOffsetComplete: {name: "Read Clock Offset Complete", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Clock_Offset", hex16(le16(p, 3)))
	}},
	EvtConnPacketTypeChanged: {name: "Connection Packet Type Changed", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Packet_Type", hex16(le16(p, 3)))
	}},
	EvtPageScanRepModeChange: {name: "Page Scan Repetition Mode Change", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Page_Scan_Repetition_Mode", u8(p, 6))
	}},
	EvtInquiryResultWithRSSI: {name: "Inquiry Result with RSSI", params: func(p []byte) string {
		return fmt.Sprintf("%d responses", u8(p, 0))
	}, more: inquiryResultRSSI},
	EvtReadRemoteExtFeatures: {name: "Read Remote Extended Features Complete", params: func(p []byte) string {
		return statusHandle(p) + ", " + fields("Page_Number", u8(p, 3),
			"Maximum_Page_Number", u8(p, 4),
			"Extended_LMP_Features", hex64(le64(p, 5)))
	}},
	EvtExtendedInquiryResult: {name: "Extended Inquiry Result", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 1),
			"Page_Scan_Repetition_Mode", u8(p, 7),
			"Class_of_Device", hex24(le24(p, 9)),
			"Clock_Offset", hex16(le16(p, 12)),
			"RSSI", i8(p, 14))
	}, more: func(w io.Writer, p []byte) {
		eir.Dump(w, "    ", span(p, 15, 240))
	}},
	EvtIOCapabilityRequest: {name: "IO Capability Request", params: byAddr},
	EvtIOCapabilityResponse: {name: "IO Capability Response", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0),
			"IO_Capability", u8(p, 6),
			"OOB_Data_Present", u8(p, 7),
			"Authentication_Requirements", hex8(u8(p, 8)))
	}},
	EvtUserConfirmationRequest: {name: "User Confirmation Request", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Numeric_Value", le32(p, 6))
	}},
	EvtSimplePairingComplete: {name: "Simple Pairing Complete", params: statusAddr},
	EvtLEMeta: {name: "LE Meta", params: func(p []byte) string {
		return fields("Subevent_Code", hex8(u8(p, 0))) + fmt.Sprintf(", %d parameter bytes", len(span(p, 1, 255)))
	}},
}

// Inquiry Result carries its responses as parallel arrays: all addresses,
// then all repetition modes, two reserved arrays, classes and clock offsets.
func inquiryResult(w io.Writer, p []byte) {
	n := int(u8(p, 0))
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "    %s\n", fields("BD_ADDR", addr(p, 1+6*i),
			"Page_Scan_Repetition_Mode", u8(p, 1+6*n+i),
			"Class_of_Device", hex24(le24(p, 1+9*n+3*i)),
			"Clock_Offset", hex16(le16(p, 1+12*n+2*i))))
	}
}

func inquiryResultRSSI(w io.Writer, p []byte) {
	n := int(u8(p, 0))
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "    %s\n", fields("BD_ADDR", addr(p, 1+6*i),
			"Page_Scan_Repetition_Mode", u8(p, 1+6*n+i),
			"Class_of_Device", hex24(le24(p, 1+8*n+3*i)),
			"Clock_Offset", hex16(le16(p, 1+11*n+2*i)),
			"RSSI", i8(p, 1+13*n+i)))
	}
}

func completedPackets(w io.Writer, p []byte) {
	n := int(u8(p, 0))
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "    %s\n", fields("Connection_Handle", connHandle(p, 1+2*i),
			"Num_Completed_Packets", le16(p, 1+2*n+2*i)))
	}
}

// DecodeEvent writes the description of an HCI event packet to w. b starts
// with the event code (u8) and parameter length (u8).
func DecodeEvent(w io.Writer, b []byte) {
	code := u8(b, 0)
	plen := int(u8(b, 1))
	p := params(b, 2, plen)

	if code == EvtCommandComplete {
		op := le16(p, 1)
		rlen := plen - 3
		if rlen < 0 {
			rlen = 0
		}
		fmt.Fprintf(w, "  HCI event: Command Complete Event: Num_HCI_Command_Packets=%d, Command_Opcode=0x%04x, Return_Parameters=%d bytes\n",
			u8(p, 0), op, rlen)
		decodeCommandComplete(w, op, span(p, 3, rlen))
		truncated(w, len(p), plen)
		return
	}

	e, ok := events[code]
	if !ok {
		fmt.Fprintf(w, "  HCI event: Unhandled event 0x%02x (%d parameter bytes)\n", code, plen)
		truncated(w, len(p), plen)
		return
	}
	fmt.Fprintf(w, "  HCI event: %s(%s)\n", e.name, e.params(p))
	if e.more != nil {
		e.more(w, p)
	}
	truncated(w, len(p), plen)
}

// DecodeH4 decodes a packet carrying a leading H4 packet indicator.
// Commands and events are decoded here; ACL data is passed to acl, which
// may be nil.
func DecodeH4(w io.Writer, pkt []byte, acl func(w io.Writer, b []byte)) {
	if len(pkt) == 0 {
		fmt.Fprintf(w, "  H4 empty packet\n")
		return
	}
	b := pkt[1:]
	switch pkt[0] {
	case PktTypeCommand:
		DecodeCommand(w, b)
	case PktTypeEvent:
		DecodeEvent(w, b)
	case PktTypeACLData:
		if acl != nil {
			acl(w, b)
			return
		}
		fmt.Fprintf(w, "  ACL data (%d bytes)\n", len(b))
	case PktTypeVendor:
		fmt.Fprintf(w, "  Vendor packet (%d bytes)\n", len(b))
	case PktTypeSCOData:
		fmt.Fprintf(w, "  SCO data (Handle=0x%03x, Length=%d)\n", connHandle(b, 0), u8(b, 2))
	default:
		fmt.Fprintf(w, "  Unknown H4 packet type 0x%02x (%d bytes)\n", pkt[0], len(b))
	}
}

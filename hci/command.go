package hci

import (
	"fmt"
	"io"

	"github.com/rigado/btdump/eir"
)

type formatFn func(p []byte) string
type moreFn func(w io.Writer, p []byte)

type command struct {
	name string

	// params renders the command parameters, more writes extra lines
	// after the command line.
	params formatFn
	more   moreFn

	// result and resultMore do the same for Command Complete return
	// parameters. Commands answered by Command Status leave them nil.
	result     formatFn
	resultMore moreFn
}

func byHandle(p []byte) string {
	return fields("Connection_Handle", connHandle(p, 0))
}

func byAddr(p []byte) string {
	return fields("BD_ADDR", addr(p, 0))
}

func statusOnly(r []byte) string {
	return status(r)
}

func statusAddr(r []byte) string {
	return status(r) + ", " + fields("BD_ADDR", addr(r, 1))
}

func statusHandle(r []byte) string {
	return status(r) + ", " + fields("Connection_Handle", connHandle(r, 1))
}

var commands = map[uint16]command{
	0x0000: {name: "NoOp"},

	// Link Control
	0x0401: {name: "Inquiry", params: func(p []byte) string {
		return fmt.Sprintf("LAP=%06x, Inquiry_Length=%d, Num_Responses=%d", le24(p, 0), u8(p, 3), u8(p, 4))
	}},
	0x0402: {name: "Inquiry_Cancel", result: statusOnly},
	0x0405: {name: "Create_Connection", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0),
			"Packet_Type", hex16(le16(p, 6)),
			"Page_Scan_Repetition_Mode", u8(p, 8),
			"Clock_Offset", hex16(le16(p, 10)),
			"Allow_Role_Switch", u8(p, 12))
	}},
	0x0406: {name: "Disconnect", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Reason", hex8(u8(p, 2)))
	}},
	0x0409: {name: "Accept_Connection_Request", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Role", role(u8(p, 6)))
	}},
	0x040a: {name: "Reject_Connection_Request", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Reason", hex8(u8(p, 6)))
	}},
	0x040b: {name: "Link_Key_Request_Reply", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Link_Key", linkKey(p, 6))
	}, result: statusAddr},
	0x040c: {name: "Link_Key_Request_Negative_Reply", params: byAddr, result: statusAddr},
	0x040d: {name: "PIN_Code_Request_Reply", params: func(p []byte) string {
		n := int(u8(p, 6))
		return fields("BD_ADDR", addr(p, 0), "PIN_Code_Length", n,
			"PIN_Code", fmt.Sprintf("%q", span(p, 7, n)))
	}, result: statusAddr},
	0x040e: {name: "PIN_Code_Request_Negative_Reply", params: byAddr, result: statusAddr},
	0x040f: {name: "Change_Connection_Packet_Type", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Packet_Type", hex16(le16(p, 2)))
	}},
	0x0411: {name: "Authentication_Requested", params: byHandle},
	0x0413: {name: "Set_Connection_Encryption", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Encryption_Enable", u8(p, 2))
	}},
	0x0419: {name: "Remote_Name_Request", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0),
			"Page_Scan_Repetition_Mode", u8(p, 6),
			"Clock_Offset", hex16(le16(p, 8)))
	}},
	0x041a: {name: "Remote_Name_Request_Cancel", params: byAddr, result: statusAddr},
	0x041b: {name: "Read_Remote_Supported_Features", params: byHandle},
	0x041c: {name: "Read_Remote_Extended_Features", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Page_Number", u8(p, 2))
	}},
	0x041d: {name: "Read_Remote_Version_Information", params: byHandle},
	0x041f: {name: "Read_Clock_Offset", params: byHandle},
	0x042b: {name: "IO_Capability_Request_Reply", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0),
			"IO_Capability", u8(p, 6),
			"OOB_Data_Present", u8(p, 7),
			"Authentication_Requirements", hex8(u8(p, 8)))
	}, result: statusAddr},
	0x042c: {name: "User_Confirmation_Request_Reply", params: byAddr, result: statusAddr},
	0x042d: {name: "User_Confirmation_Request_Negative_Reply", params: byAddr, result: statusAddr},

	// Link Policy
	0x0803: {name: "Sniff_Mode", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0),
			"Sniff_Max_Interval", le16(p, 2),
			"Sniff_Min_Interval", le16(p, 4),
			"Sniff_Attempt", le16(p, 6),
			"Sniff_Timeout", le16(p, 8))
	}},
	0x0804: {name: "Exit_Sniff_Mode", params: byHandle},
	0x0807: {name: "QoS_Setup", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0),
			"Flags", u8(p, 2),
			"Service_Type", u8(p, 3),
			"Token_Rate", le32(p, 4),
			"Peak_Bandwidth", le32(p, 8),
			"Latency", le32(p, 12),
			"Delay_Variation", le32(p, 16))
	}},
	0x0809: {name: "Role_Discovery", params: byHandle, result: func(r []byte) string {
		return statusHandle(r) + ", " + fields("Current_Role", role(u8(r, 3)))
	}},
	0x080b: {name: "Switch_Role", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Role", role(u8(p, 6)))
	}},
	0x080c: {name: "Read_Link_Policy_Settings", params: byHandle, result: func(r []byte) string {
		return statusHandle(r) + ", " + fields("Link_Policy_Settings", hex16(le16(r, 3)))
	}},
	0x080d: {name: "Write_Link_Policy_Settings", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Link_Policy_Settings", hex16(le16(p, 2)))
	}, result: statusHandle},
	0x080e: {name: "Read_Default_Link_Policy_Settings", result: func(r []byte) string {
		return status(r) + ", " + fields("Default_Link_Policy_Settings", hex16(le16(r, 1)))
	}},
	0x080f: {name: "Write_Default_Link_Policy_Settings", params: func(p []byte) string {
		return fields("Default_Link_Policy_Settings", hex16(le16(p, 0)))
	}, result: statusOnly},

	// Controller & Baseband
	0x0c01: {name: "Set_Event_Mask", params: func(p []byte) string {
		return fields("Event_Mask", hex64(le64(p, 0)))
	}, result: statusOnly},
	0x0c03: {name: "Reset", result: statusOnly},
	0x0c05: {name: "Set_Event_Filter", params: eventFilter, result: statusOnly},
	0x0c0d: {name: "Read_Stored_Link_Key", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Read_All_Flag", u8(p, 6))
	}, result: func(r []byte) string {
		return status(r) + ", " + fields("Max_Num_Keys", le16(r, 1), "Num_Keys_Read", le16(r, 3))
	}},
	0x0c12: {name: "Delete_Stored_Link_Key", params: func(p []byte) string {
		return fields("BD_ADDR", addr(p, 0), "Delete_All_Flag", u8(p, 6))
	}, result: func(r []byte) string {
		return status(r) + ", " + fields("Num_Keys_Deleted", le16(r, 1))
	}},
	0x0c13: {name: "Write_Local_Name", params: func(p []byte) string {
		return fmt.Sprintf("Local_Name=\"%s\"", name(p, 0))
	}, result: statusOnly},
	0x0c14: {name: "Read_Local_Name", result: func(r []byte) string {
		return fmt.Sprintf("%s, Local_Name=\"%s\"", status(r), name(r, 1))
	}},
	0x0c16: {name: "Write_Connection_Accept_Timeout", params: func(p []byte) string {
		return fields("Conn_Accept_Timeout", le16(p, 0))
	}, result: statusOnly},
	0x0c18: {name: "Write_Page_Timeout", params: func(p []byte) string {
		return fields("Page_Timeout", le16(p, 0))
	}, result: statusOnly},
	0x0c19: {name: "Read_Scan_Enable", result: func(r []byte) string {
		return status(r) + ", " + fields("Scan_Enable", u8(r, 1))
	}},
	0x0c1a: {name: "Write_Scan_Enable", params: func(p []byte) string {
		return fields("Scan_Enable", u8(p, 0))
	}, result: statusOnly},
	0x0c1c: {name: "Write_Page_Scan_Activity", params: scanActivity, result: statusOnly},
	0x0c1e: {name: "Write_Inquiry_Scan_Activity", params: scanActivity, result: statusOnly},
	0x0c23: {name: "Read_Class_of_Device", result: func(r []byte) string {
		return status(r) + ", " + fields("Class_of_Device", hex24(le24(r, 1)))
	}},
	0x0c24: {name: "Write_Class_of_Device", params: func(p []byte) string {
		return fields("Class_of_Device", hex24(le24(p, 0)))
	}, result: statusOnly},
	0x0c25: {name: "Read_Voice_Setting", result: func(r []byte) string {
		return status(r) + ", " + fields("Voice_Setting", hex16(le16(r, 1)))
	}},
	0x0c26: {name: "Write_Voice_Setting", params: func(p []byte) string {
		return fields("Voice_Setting", hex16(le16(p, 0)))
	}, result: statusOnly},
	0x0c28: {name: "Write_Automatic_Flush_Timeout", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Flush_Timeout", le16(p, 2))
	}, result: statusHandle},
	0x0c2d: {name: "Read_Transmit_Power_Level", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Type", u8(p, 2))
	}, result: func(r []byte) string {
		return statusHandle(r) + ", " + fields("Transmit_Power_Level", i8(r, 3))
	}},
	0x0c33: {name: "Host_Buffer_Size", params: func(p []byte) string {
		return fields("Host_ACL_Data_Packet_Length", le16(p, 0),
			"Host_Synchronous_Data_Packet_Length", u8(p, 2),
			"Host_Total_Num_ACL_Data_Packets", le16(p, 3),
			"Host_Total_Num_Synchronous_Data_Packets", le16(p, 5))
	}, result: statusOnly},
	0x0c36: {name: "Read_Link_Supervision_Timeout", params: byHandle, result: func(r []byte) string {
		return statusHandle(r) + ", " + fields("Link_Supervision_Timeout", le16(r, 3))
	}},
	0x0c37: {name: "Write_Link_Supervision_Timeout", params: func(p []byte) string {
		return fields("Connection_Handle", connHandle(p, 0), "Link_Supervision_Timeout", le16(p, 2))
	}, result: statusHandle},
	0x0c45: {name: "Write_Inquiry_Mode", params: func(p []byte) string {
		return fields("Inquiry_Mode", u8(p, 0))
	}, result: statusOnly},
	0x0c51: {name: "Read_Extended_Inquiry_Response", result: func(r []byte) string {
		return status(r) + ", " + fields("FEC_Required", u8(r, 1))
	}, resultMore: func(w io.Writer, r []byte) {
		eir.Dump(w, "    ", span(r, 2, 240))
	}},
	0x0c52: {name: "Write_Extended_Inquiry_Response", params: func(p []byte) string {
		return fields("FEC_Required", u8(p, 0))
	}, more: func(w io.Writer, p []byte) {
		eir.Dump(w, "    ", span(p, 1, 240))
	}, result: statusOnly},
	0x0c56: {name: "Write_Simple_Pairing_Mode", params: func(p []byte) string {
		return fields("Simple_Pairing_Mode", u8(p, 0))
	}, result: statusOnly},

	// Informational
	0x1001: {name: "Read_Local_Version_Information", result: func(r []byte) string {
		return status(r) + ", " + fields("HCI_Version", u8(r, 1),
			"HCI_Revision", hex16(le16(r, 2)),
			"LMP_Version", u8(r, 4),
			"Manufacturer_Name", hex16(le16(r, 5)),
			"LMP_Subversion", hex16(le16(r, 7)))
	}},
	0x1002: {name: "Read_Local_Supported_Commands", result: func(r []byte) string {
		return status(r) + ", " + fmt.Sprintf("Supported_Commands=%d bytes", len(span(r, 1, 64)))
	}},
	0x1003: {name: "Read_Local_Supported_Features", result: func(r []byte) string {
		return status(r) + ", " + fields("LMP_Features", hex64(le64(r, 1)))
	}, resultMore: func(w io.Writer, r []byte) {
		writeFeatures(w, le64(r, 1))
	}},
	0x1004: {name: "Read_Local_Extended_Features", params: func(p []byte) string {
		return fields("Page_Number", u8(p, 0))
	}, result: func(r []byte) string {
		return status(r) + ", " + fields("Page_Number", u8(r, 1),
			"Maximum_Page_Number", u8(r, 2),
			"Extended_LMP_Features", hex64(le64(r, 3)))
	}},
	0x1005: {name: "Read_Buffer_Size", result: func(r []byte) string {
		return status(r) + ", " + fields("ACL_Data_Packet_Length", le16(r, 1),
			"Synchronous_Data_Packet_Length", u8(r, 3),
			"Total_Num_ACL_Data_Packets", le16(r, 4),
			"Total_Num_Synchronous_Data_Packets", le16(r, 6))
	}},
	0x1009: {name: "Read_BD_ADDR", result: statusAddr},

	// Status
	0x1403: {name: "Read_Link_Quality", params: byHandle, result: func(r []byte) string {
		return statusHandle(r) + ", " + fields("Link_Quality", u8(r, 3))
	}},
	0x1405: {name: "Read_RSSI", params: byHandle, result: func(r []byte) string {
		return statusHandle(r) + ", " + fields("RSSI", i8(r, 3))
	}},

	// LE Controller
	0x2001: {name: "LE_Set_Event_Mask", params: func(p []byte) string {
		return fields("LE_Event_Mask", hex64(le64(p, 0)))
	}, result: statusOnly},
	0x2002: {name: "LE_Read_Buffer_Size", result: func(r []byte) string {
		return status(r) + ", " + fields("LE_ACL_Data_Packet_Length", le16(r, 1),
			"Total_Num_LE_ACL_Data_Packets", u8(r, 3))
	}},
}

func scanActivity(p []byte) string {
	return fields("Interval", le16(p, 0), "Window", le16(p, 2))
}

func eventFilter(p []byte) string {
	ft, ct := u8(p, 0), u8(p, 1)
	switch ft {
	case 0x00:
		return fields("Filter_Type", ft)
	case 0x01:
		switch ct {
		case 0x01:
			return fields("Filter_Type", ft, "Filter_Condition_Type", ct,
				"Class_of_Device", hex24(le24(p, 2)), "Class_of_Device_Mask", hex24(le24(p, 5)))
		case 0x02:
			return fields("Filter_Type", ft, "Filter_Condition_Type", ct, "BD_ADDR", addr(p, 2))
		}
	case 0x02:
		switch ct {
		case 0x00:
			return fields("Filter_Type", ft, "Filter_Condition_Type", ct, "Auto_Accept_Flag", u8(p, 2))
		case 0x01:
			return fields("Filter_Type", ft, "Filter_Condition_Type", ct,
				"Class_of_Device", hex24(le24(p, 2)), "Class_of_Device_Mask", hex24(le24(p, 5)),
				"Auto_Accept_Flag", u8(p, 8))
		case 0x02:
			return fields("Filter_Type", ft, "Filter_Condition_Type", ct,
				"BD_ADDR", addr(p, 2), "Auto_Accept_Flag", u8(p, 8))
		}
	}
	return fields("Filter_Type", ft, "Filter_Condition_Type", ct)
}

// OpcodeName returns the HCI_ name of a known command opcode, or "" when
// the opcode is unknown.
func OpcodeName(opcode uint16) string {
	if c, ok := commands[opcode]; ok {
		return "HCI_" + c.name
	}
	return ""
}

// DecodeCommand writes the description of an HCI command packet to w. b
// starts with the opcode (LE16) and parameter length (u8).
func DecodeCommand(w io.Writer, b []byte) {
	opcode := le16(b, 0)
	plen := int(u8(b, 2))
	p := params(b, 3, plen)

	c, ok := commands[opcode]
	if !ok {
		fmt.Fprintf(w, "  Unhandled HCI command with opcode 0x%04x (OGF %d OCF %d)\n", opcode, opcode>>10, opcode&0x3ff)
		truncated(w, len(p), plen)
		return
	}

	var args string
	if c.params != nil {
		args = c.params(p)
	}
	fmt.Fprintf(w, "  HCI_%s(%s)\n", c.name, args)
	if c.more != nil {
		c.more(w, p)
	}
	truncated(w, len(p), plen)
}

// decodeCommandComplete writes the return parameters r of a Command
// Complete event for opcode.
func decodeCommandComplete(w io.Writer, opcode uint16, r []byte) {
	c, ok := commands[opcode]
	switch {
	case !ok:
		fmt.Fprintf(w, "  Unhandled HCI command completion (opcode 0x%04x, %d bytes)\n", opcode, len(r))
	case opcode == 0x0000:
		// controller credit refresh, nothing to report
	case c.result == nil:
		fmt.Fprintf(w, "  HCI_%s: %s\n", c.name, status(r))
	default:
		fmt.Fprintf(w, "  HCI_%s: %s\n", c.name, c.result(r))
		if c.resultMore != nil {
			c.resultMore(w, r)
		}
	}
}

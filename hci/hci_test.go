package hci

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(f func(io.Writer, []byte), b []byte) string {
	var buf bytes.Buffer
	f(&buf, b)
	return buf.String()
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		out  string
	}{
		{"empty is noop", nil, "  HCI_NoOp()\n"},
		{"inquiry", []byte{0x01, 0x04, 0x05, 0x33, 0x8b, 0x9e, 0x08, 0x00},
			"  HCI_Inquiry(LAP=9e8b33, Inquiry_Length=8, Num_Responses=0)\n"},
		{"vendor", []byte{0x01, 0xfc, 0x00},
			"  Unhandled HCI command with opcode 0xfc01 (OGF 63 OCF 1)\n"},
		{"short parameters", []byte{0x06, 0x04, 0x03, 0x0b, 0x00},
			"  HCI_Disconnect(Connection_Handle=11, Reason=0x00)\n    (truncated: 2 of 3 parameter bytes captured)\n"},
		{"accept connection", []byte{0x09, 0x04, 0x07, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x01},
			"  HCI_Accept_Connection_Request(BD_ADDR=11:22:33:44:55:66, Role=1 (Slave))\n"},
		{"write scan enable", []byte{0x1a, 0x0c, 0x01, 0x03},
			"  HCI_Write_Scan_Enable(Scan_Enable=3)\n"},
		{"write local name", []byte{0x13, 0x0c, 0x05, 'p', 'c', 0x00, 'x', 'x'},
			"  HCI_Write_Local_Name(Local_Name=\"pc\")\n"},
		{"event filter", []byte{0x05, 0x0c, 0x03, 0x02, 0x00, 0x02},
			"  HCI_Set_Event_Filter(Filter_Type=2, Filter_Condition_Type=0, Auto_Accept_Flag=2)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, decode(DecodeCommand, tt.in))
		})
	}
}

func TestWriteEIRCommand(t *testing.T) {
	b := []byte{0x52, 0x0c, 0x08, 0x00, 0x05, 0x09, 'm', 'o', 'u', 's', 0x00}
	assert.Equal(t, "  HCI_Write_Extended_Inquiry_Response(FEC_Required=0)\n    Name=\"mous\"\n",
		decode(DecodeCommand, b))
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		out  string
	}{
		{"command complete", []byte{0x0e, 0x0a, 0x01, 0x09, 0x10, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66},
			"  HCI event: Command Complete Event: Num_HCI_Command_Packets=1, Command_Opcode=0x1009, Return_Parameters=7 bytes\n" +
				"  HCI_Read_BD_ADDR: Status=0x00, BD_ADDR=11:22:33:44:55:66\n"},
		{"command complete without formatter", []byte{0x0e, 0x04, 0x01, 0x06, 0x04, 0x0c},
			"  HCI event: Command Complete Event: Num_HCI_Command_Packets=1, Command_Opcode=0x0406, Return_Parameters=1 bytes\n" +
				"  HCI_Disconnect: Status=0x0c\n"},
		{"command complete unknown", []byte{0x0e, 0x04, 0x01, 0x01, 0xfc, 0x00},
			"  HCI event: Command Complete Event: Num_HCI_Command_Packets=1, Command_Opcode=0xfc01, Return_Parameters=1 bytes\n" +
				"  Unhandled HCI command completion (opcode 0xfc01, 1 bytes)\n"},
		{"command status", []byte{0x0f, 0x04, 0x00, 0x01, 0x01, 0x04},
			"  HCI event: Command Status(Status=0x00, Num_HCI_Command_Packets=1, Command_Opcode=0x0401 (HCI_Inquiry))\n"},
		{"completed packets", []byte{0x13, 0x05, 0x01, 0x40, 0x20, 0x02, 0x00},
			"  HCI event: Number Of Completed Packets(1 handles)\n    Connection_Handle=64, Num_Completed_Packets=2\n"},
		{"role change", []byte{0x12, 0x08, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x00},
			"  HCI event: Role Change(Status=0x00, BD_ADDR=11:22:33:44:55:66, New_Role=0 (Master))\n"},
		{"role change unknown role", []byte{0x12, 0x08, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x07},
			"  HCI event: Role Change(Status=0x00, BD_ADDR=11:22:33:44:55:66, New_Role=0x07)\n"},
		{"unknown", []byte{0xff, 0x02, 0xaa, 0xbb},
			"  HCI event: Unhandled event 0xff (2 parameter bytes)\n"},
		{"remote features", []byte{0x0b, 0x0b, 0x00, 0x0b, 0x00, 0x03, 0, 0, 0, 0, 0, 0, 0x80},
			"  HCI event: Read Remote Supported Features Complete(Status=0x00, Connection_Handle=11, LMP_Features=0x8000000000000003)\n" +
				"    3 slot packets\n    5 slot packets\n    Extended features\n"},
		{"disconnection truncated", []byte{0x05, 0x04, 0x00, 0x0b, 0x00},
			"  HCI event: Disconnection Complete(Status=0x00, Connection_Handle=11, Reason=0x00)\n" +
				"    (truncated: 3 of 4 parameter bytes captured)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, decode(DecodeEvent, tt.in))
		})
	}
}

func TestInquiryResult(t *testing.T) {
	p := []byte{0x02}
	p = append(p, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06) // addr 0
	p = append(p, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16) // addr 1
	p = append(p, 0x01, 0x02)                         // page scan repetition modes
	p = append(p, 0, 0, 0, 0)                         // reserved
	p = append(p, 0x04, 0x05, 0x20, 0x40, 0x25, 0x00) // classes
	p = append(p, 0x34, 0x12, 0x78, 0x56)             // clock offsets
	b := append([]byte{EvtInquiryResult, byte(len(p))}, p...)

	assert.Equal(t, "  HCI event: Inquiry Result(2 responses)\n"+
		"    BD_ADDR=01:02:03:04:05:06, Page_Scan_Repetition_Mode=1, Class_of_Device=0x200504, Clock_Offset=0x1234\n"+
		"    BD_ADDR=11:12:13:14:15:16, Page_Scan_Repetition_Mode=2, Class_of_Device=0x002540, Clock_Offset=0x5678\n",
		decode(DecodeEvent, b))
}

func TestExtendedInquiryResult(t *testing.T) {
	p := []byte{0x01, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x01, 0x00, 0x40, 0x05, 0x00, 0x00, 0x10, 0xc4}
	p = append(p, 0x04, 0x09, 'k', 'b', 'd', 0x02, 0x0a, 0x04)
	p = append(p, make([]byte, 8)...)
	b := append([]byte{EvtExtendedInquiryResult, byte(len(p))}, p...)

	assert.Equal(t, "  HCI event: Extended Inquiry Result(BD_ADDR=01:02:03:04:05:06, Page_Scan_Repetition_Mode=1, "+
		"Class_of_Device=0x000540, Clock_Offset=0x1000, RSSI=-60)\n"+
		"    Name=\"kbd\"\n    TxPower=4 dBm\n",
		decode(DecodeEvent, b))
}

func TestLMPFeatures(t *testing.T) {
	require.Len(t, lmpFeatures, 64)
	assert.Empty(t, LMPFeatures(0))
	assert.Equal(t, []string{"Encryption", "Reserved (bit 24)", "Extended features"},
		LMPFeatures(1<<2|1<<24|1<<63))
}

func TestOpcodeName(t *testing.T) {
	assert.Equal(t, "HCI_Reset", OpcodeName(0x0c03))
	assert.Equal(t, "HCI_NoOp", OpcodeName(0x0000))
	assert.Equal(t, "", OpcodeName(0xfc01))
}

func TestDecodeH4(t *testing.T) {
	var acl []byte
	aclFn := func(w io.Writer, b []byte) {
		acl = b
		io.WriteString(w, "  acl\n")
	}

	var buf bytes.Buffer
	DecodeH4(&buf, []byte{PktTypeCommand, 0x03, 0x0c, 0x00}, aclFn)
	DecodeH4(&buf, []byte{PktTypeEvent, 0x10, 0x01, 0x07}, aclFn)
	DecodeH4(&buf, []byte{PktTypeACLData, 0x01, 0x20, 0x00, 0x00}, aclFn)
	DecodeH4(&buf, []byte{PktTypeVendor, 0x01, 0x02}, aclFn)
	DecodeH4(&buf, []byte{0x09, 0x00}, aclFn)
	DecodeH4(&buf, nil, aclFn)

	assert.Equal(t, "  HCI_Reset()\n"+
		"  HCI event: Hardware Error(Hardware_Code=0x07)\n"+
		"  acl\n"+
		"  Vendor packet (2 bytes)\n"+
		"  Unknown H4 packet type 0x09 (1 bytes)\n"+
		"  H4 empty packet\n", buf.String())
	assert.Equal(t, []byte{0x01, 0x20, 0x00, 0x00}, acl)
}

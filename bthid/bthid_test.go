package bthid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		out  string
	}{
		{"empty", nil, "  BT-HID empty frame\n"},
		{"handshake", []byte{0x00}, "  BT-HID Handshake: Status=0 (Successful)\n"},
		{"handshake reserved", []byte{0x07}, "  BT-HID Handshake: Status=7 (Reserved)\n"},
		{"control", []byte{0x15}, "  BT-HID Control: Operation=5 (Virtual Cable Unplug)\n"},
		{"get report", []byte{0x41}, "  BT-HID Get_Report: Type=Input\n"},
		{"get report id", []byte{0x43, 0x02}, "  BT-HID Get_Report: Type=Feature, ReportId=2\n"},
		{"get report buffer", []byte{0x49, 0x40, 0x00}, "  BT-HID Get_Report: Type=Input, BufferSize=64\n"},
		{"get report id buffer", []byte{0x4a, 0x03, 0x08, 0x01}, "  BT-HID Get_Report: Type=Output, ReportId=3, BufferSize=264\n"},
		{"set report", []byte{0x52, 0x01, 0x02}, "  BT-HID Set_Report: Type=Output, Length=2\n"},
		{"get protocol", []byte{0x60, 0x01}, "  BT-HID Get_Protocol: Protocol=Report\n"},
		{"set protocol", []byte{0x70}, "  BT-HID Set_Protocol: Protocol=Boot\n"},
		{"get idle", []byte{0x80, 0x10}, "  BT-HID Get_Idle: Rate=16\n"},
		{"set idle", []byte{0x90}, "  BT-HID Set_Idle: Rate=0\n"},
		{"data", []byte{0xa1, 0x01, 0x00, 0x04}, "  BT-HID DATA: Report=Input, Length=3, ReportId=1\n"},
		{"datc", []byte{0xb2}, "  BT-HID DATC: Report=Output, Length=0\n"},
		{"reserved", []byte{0x23, 0xff}, "  BT-HID Unhandled (reserved) request: Type=2, Parameter=3, Length=1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Decode(&buf, tt.in)
			assert.Equal(t, tt.out, buf.String())
		})
	}
}

package sdp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func element(b []byte) (string, int, int) {
	var buf bytes.Buffer
	next, missing := DecodeElement(&buf, b, 0)
	return buf.String(), next, missing
}

func TestDecodeElement(t *testing.T) {
	uuid128 := []byte{0x1c,
		0x00, 0x00, 0x11, 0x24, 0x00, 0x00, 0x10, 0x00,
		0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb}

	tests := []struct {
		name string
		in   []byte
		out  string
	}{
		{"uint4", []byte{0x0a, 0x12, 0x34, 0x56, 0x78}, "uint4(0x12345678)"},
		{"uint1", []byte{0x08, 0xfe}, "uint1(254)"},
		{"uint2", []byte{0x09, 0x01, 0x00}, "uint2(256)"},
		{"uint8", []byte{0x0b, 0, 0, 0, 1, 0, 0, 0, 2}, "uint8(0x00000001_00000002)"},
		{"int1", []byte{0x10, 0xff}, "int1(-1)"},
		{"int2", []byte{0x11, 0xff, 0xfe}, "int2(-2)"},
		{"int4", []byte{0x12, 0x00, 0x00, 0x01, 0x00}, "int4(256)"},
		{"uuid2", []byte{0x19, 0x11, 0x24}, "uuid2(0x1124)"},
		{"uuid4", []byte{0x1a, 0x00, 0x00, 0x11, 0x24}, "uuid4(0x00001124)"},
		{"uuid16", uuid128, "uuid16(00001124-0000-1000-8000-00805f9b34fb)"},
		{"nil", []byte{0x00}, "nil"},
		{"string", []byte{0x25, 0x03, 'H', 'I', 0x01}, `"HI\x01"`},
		{"url", []byte{0x45, 0x02, 'a', 'b'}, `URL:"ab"`},
		{"bool", []byte{0x28, 0x01}, "bool(true)"},
		{"reserved", []byte{0x48, 0x01}, "reserved(Type=9, Size=1)"},
		{"sequence", []byte{0x35, 0x03, 0x19, 0x11, 0x24}, "seq { uuid2(0x1124) }"},
		{"alternative", []byte{0x3d, 0x04, 0x08, 0x01, 0x28, 0x00}, "alt { uint1(1), bool(false) }"},
		{"nested", []byte{0x35, 0x05, 0x35, 0x03, 0x19, 0x01, 0x00}, "seq { seq { uuid2(0x0100) } }"},
		{"empty sequence", []byte{0x35, 0x00}, "seq {  }"},
		{"sixteen bit length", []byte{0x26, 0x00, 0x01, 'x'}, `"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, next, missing := element(tt.in)
			assert.Equal(t, tt.out, out)
			assert.Equal(t, len(tt.in), next)
			assert.Equal(t, 0, missing)
		})
	}
}

func TestDecodeElementTruncated(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		out     string
		missing int
	}{
		{"no tag", nil, "...[element missing]", 1},
		{"no length", []byte{0x35}, "seq ...[1 bytes missing]", 1},
		{"short length", []byte{0x36, 0x00}, "seq ...[1 bytes missing]", 1},
		{"short uint", []byte{0x0a, 0x12}, "uint4() ...[3 bytes missing]", 3},
		{"short string", []byte{0x25, 0x05, 'a', 'b'}, `"ab" ...[3 bytes missing]`, 3},
		{"child cut short", []byte{0x35, 0x06, 0x19, 0x11, 0x24, 0x0a, 0x00},
			"seq { uuid2(0x1124), uint4() ...[3 bytes missing] }", 1},
		{"sequence cut at boundary", []byte{0x35, 0x08, 0x09, 0x00, 0x00},
			"seq { uint2(0) } ...[5 bytes missing]", 5},
		{"child overruns sequence", []byte{0x35, 0x02, 0x0a, 0x00, 0x00, 0x00, 0x00},
			"seq { uint4() ...[3 bytes missing] }", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, next, missing := element(tt.in)
			assert.Equal(t, tt.out, out)
			assert.Equal(t, tt.missing, missing)
			assert.LessOrEqual(t, next, len(tt.in))
		})
	}
}

func TestDecodeElementNeverOverreads(t *testing.T) {
	full := []byte{0x35, 0x13,
		0x09, 0x00, 0x01,
		0x35, 0x03, 0x19, 0x11, 0x24,
		0x3d, 0x09, 0x25, 0x02, 'o', 'k', 0x0a, 0, 0, 0, 1,
	}
	for n := 0; n <= len(full); n++ {
		var buf bytes.Buffer
		require.NotPanics(t, func() {
			next, missing := DecodeElement(&buf, full[:n], 0)
			assert.LessOrEqual(t, next, n)
			if n < len(full) {
				assert.NotZero(t, missing, "prefix %d", n)
			}
		})
	}
}

func pdu(b ...byte) string {
	var buf bytes.Buffer
	DecodePDU(&buf, b)
	return buf.String()
}

func TestDecodePDU(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		out  string
	}{
		{"search attribute request",
			[]byte{0x06, 0x00, 0x01, 0x00, 0x0f,
				0x35, 0x03, 0x19, 0x11, 0x24,
				0x00, 0x40,
				0x35, 0x05, 0x0a, 0x00, 0x00, 0xff, 0xff,
				0x00},
			"  SDP_ServiceSearchAttributeRequest(ServiceSearchPattern=seq { uuid2(0x1124) }, MaximumAttributeByteCount=64, " +
				"AttributeIDList=seq { uint4(0x0000ffff) }, ContinuationState=0 bytes)\n"},
		{"search attribute response",
			[]byte{0x07, 0x00, 0x01, 0x00, 0x0d, 0x00, 0x0a,
				0x35, 0x08, 0x09, 0x00, 0x00, 0x0a, 0x00, 0x01, 0x00, 0x00,
				0x00},
			"  SDP_ServiceSearchAttributeResponse(AttributeListsByteCount=10, AttributeLists=seq { uint2(0), uint4(0x00010000) }, " +
				"ContinuationState=0 bytes)\n"},
		{"partial response",
			[]byte{0x07, 0x00, 0x01, 0x00, 0x0d, 0x00, 0x0a, 0x35, 0x08, 0x09, 0x00, 0x00},
			"  SDP_ServiceSearchAttributeResponse(AttributeListsByteCount=10, AttributeLists=seq { uint2(0) } ...[5 bytes missing], " +
				"ContinuationState=? bytes)\n"},
		{"error", []byte{0x01, 0x00, 0x02, 0x00, 0x02, 0x00, 0x03},
			"  SDP_ErrorResponse(TxnId=2, ErrorCode=0x0003)\n"},
		{"search request",
			[]byte{0x02, 0x00, 0x03, 0x00, 0x08, 0x35, 0x03, 0x19, 0x11, 0x24, 0x00, 0x10, 0x00},
			"  SDP_ServiceSearchRequest(ServiceSearchPattern=seq { uuid2(0x1124) }, MaximumServiceRecordCount=16, ContinuationState=0 bytes)\n"},
		{"search response",
			[]byte{0x03, 0x00, 0x03, 0x00, 0x09, 0x00, 0x01, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00},
			"  SDP_ServiceSearchResponse(TotalServiceRecordCount=1, CurrentServiceRecordCount=1, ServiceRecordHandleList={ 0x00010000 }, " +
				"ContinuationState=0 bytes)\n"},
		{"attribute request",
			[]byte{0x04, 0x00, 0x04, 0x00, 0x0e, 0x00, 0x01, 0x00, 0x00, 0x02, 0x00, 0x35, 0x03, 0x09, 0x00, 0x01, 0x00},
			"  SDP_ServiceAttributeRequest(ServiceRecordHandle=0x00010000, MaximumAttributeByteCount=512, " +
				"AttributeIDList=seq { uint2(1) }, ContinuationState=0 bytes)\n"},
		{"attribute response",
			[]byte{0x05, 0x00, 0x04, 0x00, 0x08, 0x00, 0x05, 0x35, 0x03, 0x09, 0x00, 0x01, 0x00},
			"  SDP_ServiceAttributeResponse(AttributeListByteCount=5, AttributeList=seq { uint2(1) }, ContinuationState=0 bytes)\n"},
		{"unhandled", []byte{0x42, 0x00, 0x05, 0x00, 0x00},
			"  Unhandled SDP PDU (PDU_ID=66, TxnId=5, Length=0)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, pdu(tt.in...))
		})
	}
}

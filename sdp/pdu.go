package sdp

import (
	"fmt"
	"io"

	"github.com/rigado/btdump/sliceops"
)

// PDU IDs [Vol 3, Part B, 4.2].
const (
	PDUErrorResponse                  = 0x01
	PDUServiceSearchRequest           = 0x02
	PDUServiceSearchResponse          = 0x03
	PDUServiceAttributeRequest        = 0x04
	PDUServiceAttributeResponse       = 0x05
	PDUServiceSearchAttributeRequest  = 0x06
	PDUServiceSearchAttributeResponse = 0x07
)

const headerLen = 5

func continuation(w io.Writer, b []byte, pos int) {
	if pos < len(b) {
		fmt.Fprintf(w, ", ContinuationState=%d bytes", b[pos])
		return
	}
	fmt.Fprint(w, ", ContinuationState=? bytes")
}

// DecodePDU writes the description of the SDP PDU b to w. The header is
// the PDU ID (u8), transaction id (BE16) and parameter length (BE16).
func DecodePDU(w io.Writer, b []byte) {
	be16, be32 := sliceops.Uint16BE, sliceops.Uint32BE
	id := sliceops.Uint8(b, 0)
	txn := be16(b, 1)
	plen := be16(b, 3)
	pos := headerLen

	switch id {
	case PDUErrorResponse:
		fmt.Fprintf(w, "  SDP_ErrorResponse(TxnId=%d, ErrorCode=0x%04x", txn, be16(b, pos))

	case PDUServiceSearchRequest:
		fmt.Fprint(w, "  SDP_ServiceSearchRequest(ServiceSearchPattern=")
		pos, _ = DecodeElement(w, b, pos)
		fmt.Fprintf(w, ", MaximumServiceRecordCount=%d", be16(b, pos))
		continuation(w, b, pos+2)

	case PDUServiceSearchResponse:
		total, cur := be16(b, pos), int(be16(b, pos+2))
		fmt.Fprintf(w, "  SDP_ServiceSearchResponse(TotalServiceRecordCount=%d, CurrentServiceRecordCount=%d, ServiceRecordHandleList={", total, cur)
		pos += 4
		for i := 0; i < cur; i, pos = i+1, pos+4 {
			if !sliceops.Has(b, pos, 4) {
				marker(w, (cur-i)*4-(len(b)-pos))
				break
			}
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, " 0x%08x", be32(b, pos))
		}
		fmt.Fprint(w, " }")
		continuation(w, b, pos)

	case PDUServiceAttributeRequest:
		fmt.Fprintf(w, "  SDP_ServiceAttributeRequest(ServiceRecordHandle=0x%08x, MaximumAttributeByteCount=%d, AttributeIDList=",
			be32(b, pos), be16(b, pos+4))
		pos, _ = DecodeElement(w, b, pos+6)
		continuation(w, b, pos)

	case PDUServiceAttributeResponse:
		fmt.Fprintf(w, "  SDP_ServiceAttributeResponse(AttributeListByteCount=%d, AttributeList=", be16(b, pos))
		pos, _ = DecodeElement(w, b, pos+2)
		continuation(w, b, pos)

	case PDUServiceSearchAttributeRequest:
		fmt.Fprint(w, "  SDP_ServiceSearchAttributeRequest(ServiceSearchPattern=")
		pos, _ = DecodeElement(w, b, pos)
		fmt.Fprintf(w, ", MaximumAttributeByteCount=%d, AttributeIDList=", be16(b, pos))
		pos, _ = DecodeElement(w, b, pos+2)
		continuation(w, b, pos)

	case PDUServiceSearchAttributeResponse:
		fmt.Fprintf(w, "  SDP_ServiceSearchAttributeResponse(AttributeListsByteCount=%d, AttributeLists=", be16(b, pos))
		pos, _ = DecodeElement(w, b, pos+2)
		continuation(w, b, pos)

	default:
		fmt.Fprintf(w, "  Unhandled SDP PDU (PDU_ID=%d, TxnId=%d, Length=%d)\n", id, txn, plen)
		return
	}
	fmt.Fprint(w, ")\n")
}

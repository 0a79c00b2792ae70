package l2cap

import (
	"fmt"
	"io"

	"github.com/rigado/btdump"
	"github.com/rigado/btdump/hci"
	"github.com/rigado/btdump/sliceops"
)

// Handler decodes the payload of an L2CAP frame on a channel bound to a PSM.
type Handler interface {
	Decode(w io.Writer, b []byte)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(w io.Writer, b []byte)

// Decode calls f(w, b).
func (f HandlerFunc) Decode(w io.Writer, b []byte) { f(w, b) }

// Decoder decodes ACL frames carrying L2CAP. Signaling updates the channel
// state, data frames are routed to the Handler of the PSM their channel is
// bound to.
type Decoder struct {
	ch       *Channels
	handlers map[uint16]Handler
	logger   btdump.Logger
}

// NewDecoder returns a Decoder working on ch.
func NewDecoder(ch *Channels, logger btdump.Logger) *Decoder {
	return &Decoder{
		ch:       ch,
		handlers: make(map[uint16]Handler),
		logger:   logger,
	}
}

// Handle registers h for channels bound to psm.
func (d *Decoder) Handle(psm uint16, h Handler) {
	d.handlers[psm] = h
}

// Channels returns the channel state the decoder works on.
func (d *Decoder) Channels() *Channels {
	return d.ch
}

// Decode writes the description of the ACL frame b to w. b starts at the
// ACL header: handle and flags (LE16), ACL length (LE16), then the basic
// L2CAP header with length (LE16) and channel id (LE16).
func (d *Decoder) Decode(w io.Writer, b []byte) {
	hf := sliceops.Uint16LE(b, 0)
	handle := hf & hci.HandleMask
	aclLen := int(sliceops.Uint16LE(b, 2))

	if (hf>>12)&0x3 == hci.PbfContinuing {
		fmt.Fprintf(w, "  L2CAP continuation fragment (Handle=0x%x, ACL_Length=%d)\n", handle, aclLen)
		return
	}
	if len(b) < 8 {
		fmt.Fprintf(w, "  Truncated L2CAP header (Handle=0x%x, %d bytes)\n", handle, len(b))
		return
	}

	l2Len := int(sliceops.Uint16LE(b, 4))
	cid := sliceops.Uint16LE(b, 6)

	limit := min(len(b)-8, min(aclLen-4, l2Len))
	if limit < 0 {
		limit = 0
	}
	payload := b[8 : 8+limit]

	switch {
	case cid == CIDSignaling:
		d.signaling(w, payload)
	case cid >= CIDDynamic:
		psm, ok := d.ch.PSM(cid)
		if !ok {
			d.logger.Debugf("data on unbound cid %d (%d bytes)", cid, l2Len)
			fmt.Fprintf(w, "  Unhandled user data on unbound CID=%d (Length=%d)\n", cid, l2Len)
			return
		}
		h, ok := d.handlers[psm]
		if !ok {
			fmt.Fprintf(w, "  User data on unhandled L2CAP PSM (CID=%d, PSM=0x%04x, Length=%d)\n", cid, psm, l2Len)
			return
		}
		h.Decode(w, payload)
	default:
		fmt.Fprintf(w, "  Unhandled L2CAP fragment (Handle=0x%x, L2CAP_Length=%d, L2CAP_CID=%d)\n", handle, l2Len, cid)
	}
}

var signalNames = map[uint8]string{
	SignalCommandReject:         "Command Reject",
	SignalConnectionRequest:     "Connection Request",
	SignalConnectionResponse:    "Connection Response",
	SignalConfigurationRequest:  "Configuration Request",
	SignalConfigurationResponse: "Configuration Response",
	SignalDisconnectRequest:     "Disconnection Request",
	SignalDisconnectResponse:    "Disconnection Response",
	SignalEchoRequest:           "Echo Request",
	SignalEchoResponse:          "Echo Response",
	SignalInformationRequest:    "Information Request",
	SignalInformationResponse:   "Information Response",
}

// signaling walks the commands of a signaling frame. A C-frame may carry
// more than one.
func (d *Decoder) signaling(w io.Writer, b []byte) {
	for len(b) > 0 {
		if len(b) < 4 {
			fmt.Fprintf(w, "  Truncated L2CAP signaling header (%d bytes)\n", len(b))
			return
		}
		code, id := b[0], b[1]
		dlen := int(sliceops.Uint16LE(b, 2))
		data := b[4:]
		if len(data) > dlen {
			data = data[:dlen]
		}
		d.signal(w, code, id, dlen, data)
		if len(data) < dlen {
			return
		}
		b = b[4+dlen:]
	}
}

func (d *Decoder) signal(w io.Writer, code, id uint8, dlen int, data []byte) {
	sig := newSignal(code)
	if sig == nil {
		switch code {
		case SignalEchoRequest, SignalEchoResponse:
			fmt.Fprintf(w, "  L2CAP %s (Id=0x%02x, Length=%d)\n", signalNames[code], id, dlen)
		default:
			fmt.Fprintf(w, "  Unhandled L2CAP signaling command (Command=0x%02x, %d bytes data)\n", code, dlen)
		}
		return
	}

	truncated := func() {
		fmt.Fprintf(w, "  L2CAP %s (Id=0x%02x) truncated (%d of %d bytes)\n", signalNames[uint8(sig.Code())], id, len(data), dlen)
	}
	if err := sig.Unmarshal(data); err != nil {
		truncated()
		return
	}

	switch s := sig.(type) {
	case *CommandReject:
		fmt.Fprintf(w, "  L2CAP Command Reject (Id=0x%02x, Reason=0x%04x)\n", id, s.Reason)

	case *ConnectionRequest:
		fmt.Fprintf(w, "  L2CAP Connection Request (Id=0x%02x, PSM=0x%04x, Source_CID=%d)\n", id, s.PSM, s.SourceCID)
		d.ch.Request(id, s.PSM)

	case *ConnectionResponse:
		fmt.Fprintf(w, "  L2CAP Connection Response (Id=0x%02x, Dest_CID=%d, Source_CID=%d, Result=%d, Status=%d)\n",
			id, s.DestinationCID, s.SourceCID, s.Result, s.Status)
		psm := d.ch.Pending(id)
		if d.ch.Respond(id, s.DestinationCID, s.SourceCID, s.Result) {
			d.logger.Debugf("bound cid %d/%d to psm 0x%04x", s.DestinationCID, s.SourceCID, psm)
		}

	case *ConfigurationRequest:
		fmt.Fprintf(w, "  L2CAP Configuration Request (Id=0x%02x, Dest_CID=%d, Flags=0x%x)%s\n",
			id, s.DestinationCID, s.Flags, colon(s.Options))
		writeOptions(w, s.Options)

	case *ConfigurationResponse:
		fmt.Fprintf(w, "  L2CAP Configuration Response (Id=0x%02x, Source_CID=%d, Flags=0x%x, Result=%d)%s\n",
			id, s.SourceCID, s.Flags, s.Result, colon(s.Options))
		writeOptions(w, s.Options)

	case *DisconnectRequest:
		d.disconnect(w, code, id, s.DestinationCID, s.SourceCID)

	case *DisconnectResponse:
		d.disconnect(w, code, id, s.DestinationCID, s.SourceCID)

	case *InformationRequest:
		fmt.Fprintf(w, "  L2CAP Information Request (Id=0x%02x, InfoType=%d)\n", id, s.InfoType)

	case *InformationResponse:
		fmt.Fprintf(w, "  L2CAP Information Response (Id=0x%02x, InfoType=%d, Result=%d, Data=%s)\n",
			id, s.InfoType, s.Result, infoData(s.Data))
	}

	if len(data) < dlen {
		truncated()
	}
}

func (d *Decoder) disconnect(w io.Writer, code, id uint8, dcid, scid uint16) {
	fmt.Fprintf(w, "  L2CAP %s (Id=0x%02x, Dest_CID=%d, Source_CID=%d)\n", signalNames[code], id, dcid, scid)
	d.ch.Unbind(dcid)
	d.ch.Unbind(scid)
}

func colon(opts []byte) string {
	if len(opts) > 0 {
		return ":"
	}
	return ""
}

func infoData(b []byte) string {
	switch len(b) {
	case 0:
		return "<empty>"
	case 1:
		return fmt.Sprintf("0x%02x", b[0])
	case 2:
		return fmt.Sprintf("0x%04x", sliceops.Uint16LE(b, 0))
	case 4:
		return fmt.Sprintf("0x%08x", sliceops.Uint32LE(b, 0))
	case 8:
		return fmt.Sprintf("0x%016x", sliceops.Uint64LE(b, 0))
	}
	return fmt.Sprintf("%d bytes", len(b))
}

// writeOptions writes one line per configuration option. Bit 7 of the
// option type marks a hint the receiver may ignore.
func writeOptions(w io.Writer, opts []byte) {
	for len(opts) > 0 {
		if len(opts) < 2 {
			fmt.Fprintf(w, "    Truncated option header (%d bytes)\n", len(opts))
			return
		}
		typ, n := opts[0], int(opts[1])
		val := opts[2:]
		short := len(val) < n
		if !short {
			val = val[:n]
		}

		kind := "Reqd"
		if typ&0x80 != 0 {
			kind = "Hint"
		}
		fmt.Fprintf(w, "    %s %s\n", kind, option(typ, n, val))
		if short {
			fmt.Fprintf(w, "    (truncated option: %d of %d bytes)\n", len(val), n)
			return
		}
		opts = opts[2+n:]
	}
}

func option(typ byte, n int, v []byte) string {
	le16, le32 := sliceops.Uint16LE, sliceops.Uint32LE
	switch typ & 0x7f {
	case 0x01:
		return fmt.Sprintf("MTU = %d", le16(v, 0))
	case 0x02:
		return fmt.Sprintf("Flush_Timeout = %d", le16(v, 0))
	case 0x03:
		return fmt.Sprintf("QoS: Flags=%d, Service_Type=%d, Token_Rate=%d, Token_Bucket_Size=%d, Peak_Bandwidth=%d, Latency=%d, Delay_Variation=%d",
			sliceops.Uint8(v, 0), sliceops.Uint8(v, 1), le32(v, 2), le32(v, 6), le32(v, 10), le32(v, 14), le32(v, 18))
	case 0x04:
		return fmt.Sprintf("Rexmit: Mode=%d, TxWindowSize=%d, MaxTx=%d, RexmitTimeout=%d, MonitorTimeout=%d, Max_PDU=%d",
			sliceops.Uint8(v, 0), sliceops.Uint8(v, 1), sliceops.Uint8(v, 2), le16(v, 3), le16(v, 5), le16(v, 7))
	case 0x05:
		return fmt.Sprintf("FCS: Type=%d", sliceops.Uint8(v, 0))
	}
	return fmt.Sprintf("unknown option %d (%d bytes)", typ, n)
}

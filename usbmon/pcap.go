package usbmon

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"
	"github.com/rigado/btdump"
)

// Link types of binary usbmon captures.
const (
	LinkTypeUSBLinux        layers.LinkType = 189 // 48 byte header
	LinkTypeUSBLinuxMmapped layers.LinkType = 220 // 64 byte header
)

const (
	headerLen        = 48
	headerLenMmapped = 64
)

// PacketReader is the subset of pcapgo.Reader and pcapgo.NgReader used here.
type PacketReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

var (
	pcapMagics = [][]byte{
		{0xd4, 0xc3, 0xb2, 0xa1},
		{0xa1, 0xb2, 0xc3, 0xd4},
		{0x4d, 0x3c, 0xb2, 0xa1},
		{0xa1, 0xb2, 0x3c, 0x4d},
	}
	pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}
)

// IsPcap reports whether magic starts a pcap or pcapng file.
func IsPcap(magic []byte) bool {
	if len(magic) < 4 {
		return false
	}
	for _, m := range append(pcapMagics, pcapngMagic) {
		if string(magic[:4]) == string(m) {
			return true
		}
	}
	return false
}

// NewPacketReader opens a pcap or pcapng stream.
func NewPacketReader(r io.Reader, magic []byte) (PacketReader, error) {
	if len(magic) >= 4 && string(magic[:4]) == string(pcapngMagic) {
		ng, err := pcapgo.NewNgReader(r, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, errors.Wrap(err, "pcapng")
		}
		return ng, nil
	}
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "pcap")
	}
	return pr, nil
}

// PcapSource reads transfer events from a binary usbmon capture.
type PcapSource struct {
	r      PacketReader
	hdrLen int
	n      int
}

// NewPcapSource wraps a packet reader whose link type is one of the usbmon
// link types.
func NewPcapSource(r PacketReader) (*PcapSource, error) {
	s := &PcapSource{r: r}
	switch r.LinkType() {
	case LinkTypeUSBLinux:
		s.hdrLen = headerLen
	case LinkTypeUSBLinuxMmapped:
		s.hdrLen = headerLenMmapped
	default:
		return nil, &LinkTypeError{LinkType: r.LinkType(), Reader: r}
	}
	return s, nil
}

// LinkTypeError is returned for binary captures that do not carry usbmon
// records. Reader is positioned at the first packet so the caller can
// decode the capture another way.
type LinkTypeError struct {
	LinkType layers.LinkType
	Reader   PacketReader
}

func (e *LinkTypeError) Error() string {
	return fmt.Sprintf("link type %d (%s): %v", int(e.LinkType), e.LinkType, btdump.ErrUnsupportedLinkType)
}

func (e *LinkTypeError) Unwrap() error {
	return btdump.ErrUnsupportedLinkType
}

// OpenSource detects the format of r from its first bytes and returns a
// Source for it: a PcapSource for pcap and pcapng captures, a TextSource
// otherwise. Binary captures of other link types fail with a
// *LinkTypeError.
func OpenSource(r io.Reader) (Source, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "read capture header")
	}
	if !IsPcap(magic) {
		return NewTextSource(br), nil
	}

	pr, err := NewPacketReader(br, magic)
	if err != nil {
		return nil, err
	}
	src, err := NewPcapSource(pr)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (s *PcapSource) Line() int {
	return s.n
}

func (s *PcapSource) Next(t *Transfer, data []byte) error {
	pkt, _, err := s.r.ReadPacketData()
	if err != nil {
		return err
	}
	s.n++
	t.reset()
	return s.decode(pkt, t, data)
}

func (s *PcapSource) decode(pkt []byte, t *Transfer, data []byte) error {
	if len(pkt) < s.hdrLen {
		return newParseError(CodeHeader, len(pkt))
	}

	// A capture cut short by the snap length holds fewer data bytes than
	// the header announces. layers.USB slices the payload by the announced
	// length, so it only gets the fixed header with the length clamped.
	n := int(binary.LittleEndian.Uint32(pkt[36:40]))
	if n > len(pkt)-s.hdrLen {
		n = len(pkt) - s.hdrLen
	}
	var hdr [40]byte
	copy(hdr[:], pkt)
	binary.LittleEndian.PutUint32(hdr[36:], 0)

	var u layers.USB
	if err := u.DecodeFromBytes(hdr[:], gopacket.NilDecodeFeedback); err != nil {
		return newParseError(CodeHeader, 0)
	}

	t.ID = u.ID
	t.Type = EventType(u.EventType)
	t.Xfer = XferType(u.TransferType) & 3
	if u.Direction == layers.USBDirectionTypeIn {
		t.Dir = DirIn
	}
	t.Endpoint = u.EndpointNumber
	t.Device = u.DeviceAddress
	t.Bus = u.BusID
	t.TsSec = u.TimestampSec
	t.TsUsec = u.TimestampUsec
	t.Status = int(u.Status)
	t.Length = int(u.UrbLength)

	// layers.USB only reports whether the flags are zero; keep the
	// flag characters so the summary matches the text form.
	t.SetupFlag = pkt[14]
	t.DataFlag = pkt[15]
	if t.SetupFlag == FlagCaptured {
		copy(t.Setup[:], pkt[40:48])
	} else if t.Xfer == XferIsoc {
		t.ErrorCount = int(int32(binary.LittleEndian.Uint32(pkt[40:44])))
	}
	if s.hdrLen == headerLenMmapped {
		t.Interval = int(int32(binary.LittleEndian.Uint32(pkt[48:52])))
		t.StartFrame = int(int32(binary.LittleEndian.Uint32(pkt[52:56])))
	}

	if t.DataFlag != FlagCaptured {
		return nil
	}
	if n > t.Length {
		n = t.Length
	}
	t.CapLen = copy(data, pkt[len(pkt)-n:])
	return nil
}

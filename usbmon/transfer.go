// Package usbmon models USB transfer events as reported by the Linux usbmon
// facility, parses its text capture format, renders events back to the
// canonical one-line form and reads binary usbmon pcap captures.
package usbmon

// EventType is the phase of a transfer an event reports.
type EventType byte

const (
	EventSubmit   EventType = 'S'
	EventComplete EventType = 'C'
	EventError    EventType = 'E'
)

func (e EventType) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// XferType is the USB transfer kind.
type XferType uint8

const (
	XferIsoc XferType = 0
	XferIntr XferType = 1
	XferCtrl XferType = 2
	XferBulk XferType = 3
)

const xferLetters = "ZICB"

// Letter returns the single character usbmon uses for the transfer kind.
func (x XferType) Letter() byte {
	return xferLetters[x&3]
}

func (x XferType) String() string {
	switch x & 3 {
	case XferIsoc:
		return "isochronous"
	case XferIntr:
		return "interrupt"
	case XferCtrl:
		return "control"
	default:
		return "bulk"
	}
}

// Direction of the data stage relative to the host.
type Direction uint8

const (
	DirOut Direction = iota // host to device
	DirIn                   // device to host
)

// Letter returns 'i' or 'o'.
func (d Direction) Letter() byte {
	if d == DirIn {
		return 'i'
	}
	return 'o'
}

// Setup and data flags. A zero flag means the setup packet or data words
// were captured. Any other printable value is the flag character usbmon
// reported in their place.
const (
	FlagCaptured byte = 0
	// FlagNoSetup marks an event that carries a status rather than a
	// setup packet.
	FlagNoSetup byte = '-'
	// DataOmitted marks a text record whose line ends after the length
	// field. It is never produced by usbmon itself.
	DataOmitted byte = 0xff
)

// EINPROGRESS is the status of a submission that has not completed yet.
const EINPROGRESS = 115

// Transfer is one USB transfer event. It is filled in place by Parse or a
// Source and is only valid until the next record is read.
type Transfer struct {
	// ID identifies the in-flight URB; it is reused after completion.
	ID     uint64
	TsSec  int64
	TsUsec int32

	Type     EventType
	Xfer     XferType
	Dir      Direction
	Bus      uint16
	Device   uint8
	Endpoint uint8

	SetupFlag byte
	DataFlag  byte

	// Status is valid for completions and errors.
	Status     int
	Interval   int
	StartFrame int
	ErrorCount int

	// Length is the requested length; CapLen is how many data bytes
	// were actually captured into the caller's buffer.
	Length int
	CapLen int

	// Setup is valid only when SetupFlag is FlagCaptured.
	Setup [8]byte
}

// HasSetup reports whether a setup packet was captured.
func (t *Transfer) HasSetup() bool {
	return t.SetupFlag == FlagCaptured
}

// DataElided reports whether usbmon flagged the data as not captured.
func (t *Transfer) DataElided() bool {
	return t.DataFlag != FlagCaptured && t.DataFlag != DataOmitted
}

// Payload returns the captured bytes of data belonging to t.
func (t *Transfer) Payload(data []byte) []byte {
	if t.DataFlag != FlagCaptured || t.CapLen > len(data) {
		return nil
	}
	return data[:t.CapLen]
}

// SetupLE16 returns one of the little-endian words of the setup packet
// (1 = wValue, 2 = wIndex, 3 = wLength).
func (t *Transfer) SetupLE16(word int) uint16 {
	i := word * 2
	return uint16(t.Setup[i]) | uint16(t.Setup[i+1])<<8
}

func (t *Transfer) reset() {
	*t = Transfer{}
}

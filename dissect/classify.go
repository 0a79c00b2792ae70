package dissect

import "github.com/rigado/btdump/usbmon"

// Layer is the protocol layer a transfer carries.
type Layer int

const (
	LayerNone Layer = iota
	LayerHCICommand
	LayerHCIEvent
	LayerL2CAP
)

func (l Layer) String() string {
	switch l {
	case LayerHCICommand:
		return "hci-command"
	case LayerHCIEvent:
		return "hci-event"
	case LayerL2CAP:
		return "l2cap"
	}
	return "none"
}

// hciCommandSetup reports whether the setup packet is the class request
// Bluetooth controllers use for HCI commands: bmRequestType 0x20 with
// bRequest 0x00 (or 0xe0 as some dongles send), wValue and wIndex zero.
func hciCommandSetup(s [8]byte) bool {
	return s[0] == 0x20 && (s[1] == 0x00 || s[1] == 0xe0) &&
		s[2] == 0 && s[3] == 0 && s[4] == 0 && s[5] == 0
}

// Classify decides which layer a transfer carries. Rules are tested in
// order:
//
//  1. a control submission to endpoint 0 with an HCI command setup packet
//     is an HCI command,
//  2. a successful interrupt IN completion is an HCI event,
//  3. a bulk transfer with data, observed on the side that produced the
//     data (completion for IN, submission for OUT), is an ACL frame.
func Classify(t *usbmon.Transfer) Layer {
	if t.DataElided() {
		return LayerNone
	}

	switch {
	case t.Type == usbmon.EventSubmit && t.Xfer == usbmon.XferCtrl && t.Endpoint == 0 &&
		t.HasSetup() && hciCommandSetup(t.Setup):
		return LayerHCICommand

	case t.Type == usbmon.EventComplete && t.Xfer == usbmon.XferIntr &&
		t.Dir == usbmon.DirIn && t.Endpoint >= 1 && t.Status == 0:
		return LayerHCIEvent

	case t.Xfer == usbmon.XferBulk && t.Endpoint > 0 && t.Length > 0:
		producer := usbmon.EventSubmit
		if t.Dir == usbmon.DirIn {
			producer = usbmon.EventComplete
		}
		if t.Type == producer {
			return LayerL2CAP
		}
	}
	return LayerNone
}

package btdump

import "fmt"

// Addr is a 48-bit Bluetooth device address (BD_ADDR) as it appears on the
// wire. String renders the bytes in wire order so traces line up with the
// raw hex in the transfer summary.
type Addr [6]byte

// NewAddr copies the first six bytes of b into an Addr. Missing bytes are zero.
func NewAddr(b []byte) Addr {
	var a Addr
	copy(a[:], b)
	return a
}

func (a Addr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

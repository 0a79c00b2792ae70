package l2cap

// Well known PSMs routed to upper layer decoders.
const (
	PSMSDP          = 0x0001
	PSMHIDControl   = 0x0011
	PSMHIDInterrupt = 0x0013
)

// Fixed and dynamic channel identifiers.
const (
	CIDSignaling = 0x0001
	CIDDynamic   = 0x0040
)

// Channels holds the channel state of one capture: the PSM proposed by each
// outstanding Connection Request, keyed by its one byte signaling
// identifier, and the PSM each open channel was bound to. Identifiers are
// reused over the life of a capture, so a response matching a reused
// identifier binds whatever PSM was requested last under it.
//
// A Channels is not safe for concurrent use. Concurrent captures each get
// their own.
type Channels struct {
	pending  [256]uint16
	bound    map[uint16]uint16
	bindBoth bool
}

// NewChannels returns empty channel state. When bindBoth is set a successful
// Connection Response binds the source CID as well as the destination CID,
// so traffic in both directions of the channel decodes.
func NewChannels(bindBoth bool) *Channels {
	return &Channels{
		bound:    make(map[uint16]uint16),
		bindBoth: bindBoth,
	}
}

// Request records the PSM proposed by the Connection Request with id.
func (c *Channels) Request(id uint8, psm uint16) {
	c.pending[id] = psm
}

// Respond applies a Connection Response. Success binds the PSM pending
// under id and clears it, pending leaves the state untouched, and any
// other result clears the pending entry. A success with nothing pending
// binds nothing. It reports whether a binding was made.
func (c *Channels) Respond(id uint8, dcid, scid, result uint16) bool {
	switch result {
	case ResultPending:
		return false
	case ResultSuccess:
		psm := c.pending[id]
		c.pending[id] = 0
		if psm == 0 {
			return false
		}
		c.Bind(dcid, psm)
		if c.bindBoth {
			c.Bind(scid, psm)
		}
		return true
	default:
		c.pending[id] = 0
		return false
	}
}

// Pending returns the PSM pending under id, 0 if none.
func (c *Channels) Pending(id uint8) uint16 {
	return c.pending[id]
}

// Bind associates cid with psm.
func (c *Channels) Bind(cid, psm uint16) {
	if cid == 0 || psm == 0 {
		return
	}
	c.bound[cid] = psm
}

// Unbind removes the binding of cid.
func (c *Channels) Unbind(cid uint16) {
	delete(c.bound, cid)
}

// PSM returns the PSM cid is bound to.
func (c *Channels) PSM(cid uint16) (uint16, bool) {
	psm, ok := c.bound[cid]
	return psm, ok
}

// Len returns the number of bound channels.
func (c *Channels) Len() int {
	return len(c.bound)
}

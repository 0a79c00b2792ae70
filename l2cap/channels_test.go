package l2cap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelsBind(t *testing.T) {
	c := NewChannels(true)
	c.Request(3, PSMSDP)
	assert.Equal(t, uint16(PSMSDP), c.Pending(3))

	assert.True(t, c.Respond(3, 0x0041, 0x0040, ResultSuccess))
	assert.Equal(t, uint16(0), c.Pending(3))

	psm, ok := c.PSM(0x0041)
	assert.True(t, ok)
	assert.Equal(t, uint16(PSMSDP), psm)
	psm, ok = c.PSM(0x0040)
	assert.True(t, ok)
	assert.Equal(t, uint16(PSMSDP), psm)
}

func TestChannelsStrict(t *testing.T) {
	c := NewChannels(false)
	c.Request(3, PSMHIDControl)
	assert.True(t, c.Respond(3, 0x0041, 0x0040, ResultSuccess))

	_, ok := c.PSM(0x0040)
	assert.False(t, ok)
	psm, ok := c.PSM(0x0041)
	assert.True(t, ok)
	assert.Equal(t, uint16(PSMHIDControl), psm)
}

func TestChannelsNoPending(t *testing.T) {
	c := NewChannels(true)
	assert.False(t, c.Respond(9, 0x0041, 0x0040, ResultSuccess))
	assert.Equal(t, 0, c.Len())
}

func TestChannelsPendingAndFailure(t *testing.T) {
	c := NewChannels(true)
	c.Request(5, PSMHIDInterrupt)

	assert.False(t, c.Respond(5, 0, 0x0040, ResultPending))
	assert.Equal(t, uint16(PSMHIDInterrupt), c.Pending(5))

	assert.False(t, c.Respond(5, 0, 0x0040, 0x0003))
	assert.Equal(t, uint16(0), c.Pending(5))
	assert.Equal(t, 0, c.Len())
}

func TestChannelsReusedID(t *testing.T) {
	c := NewChannels(false)
	c.Request(1, PSMSDP)
	c.Request(1, PSMHIDControl)
	assert.True(t, c.Respond(1, 0x0050, 0x0040, ResultSuccess))

	psm, _ := c.PSM(0x0050)
	assert.Equal(t, uint16(PSMHIDControl), psm)
}

func TestChannelsUnbind(t *testing.T) {
	c := NewChannels(true)
	c.Bind(0x0041, PSMSDP)
	c.Bind(0x0042, 0)
	assert.Equal(t, 1, c.Len())

	c.Unbind(0x0041)
	_, ok := c.PSM(0x0041)
	assert.False(t, ok)
}

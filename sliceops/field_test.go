package sliceops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaders(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	assert.Equal(t, uint8(0x01), Uint8(b, 0))
	assert.Equal(t, uint16(0x0201), Uint16LE(b, 0))
	assert.Equal(t, uint32(0x030201), Uint24LE(b, 0))
	assert.Equal(t, uint32(0x04030201), Uint32LE(b, 0))
	assert.Equal(t, uint64(0x0807060504030201), Uint64LE(b, 0))
	assert.Equal(t, uint16(0x0102), Uint16BE(b, 0))
	assert.Equal(t, uint32(0x05060708), Uint32BE(b, 4))
}

func TestReadersOutOfRange(t *testing.T) {
	b := []byte{0xaa, 0xbb, 0xcc}

	_, err := Uint32LEWErr(b, 0)
	require.Error(t, err)
	_, err = Uint8WErr(b, 3)
	require.Error(t, err)
	_, err = Uint16BEWErr(b, -1)
	require.Error(t, err)

	assert.Zero(t, Uint32LE(b, 0))
	assert.Zero(t, Uint16LE(b, 2))
	assert.Zero(t, Uint8(nil, 0))
	assert.Equal(t, uint16(0xbbcc), Uint16BE(b, 1))
}

func TestBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}

	bb, err := Bytes(b, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, bb)

	bb, err = Bytes(b, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, bb)

	_, err = Bytes(b, 3, 2)
	assert.Equal(t, ErrIndex, err)

	assert.True(t, Has(b, 0, 4))
	assert.False(t, Has(b, 1, 4))
}

func TestHex(t *testing.T) {
	v, ok := ParseHexByte('3', 'F')
	require.True(t, ok)
	assert.Equal(t, byte(0x3f), v)

	_, ok = ParseHexByte('g', '0')
	assert.False(t, ok)

	assert.True(t, IsHex('a'))
	assert.False(t, IsHex(' '))

	assert.Equal(t, " 01020304 05", HexString([]byte{1, 2, 3, 4, 5}))
	assert.Equal(t, "", HexString(nil))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "HID", Escape([]byte("HID")))
	assert.Equal(t, `a\x00b\x22\x5c\xff`, Escape([]byte{'a', 0, 'b', '"', '\\', 0xff}))
	assert.Equal(t, "name", string(CString([]byte("name\x00\x00junk"))))
	assert.Equal(t, "abc", string(CString([]byte("abc"))))
}

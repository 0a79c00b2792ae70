package usbmon

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/rigado/btdump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSource(t *testing.T) {
	in := strings.Join([]string{
		"1 1.0 C Bi:1:2:2 0 1 = 01",
		"",
		"   ",
		"bogus",
		"2 1.5 S Bo:1:2:2 - 0",
	}, "\n")
	src := NewTextSource(strings.NewReader(in))

	var tr Transfer
	data := make([]byte, 8)

	require.NoError(t, src.Next(&tr, data))
	assert.Equal(t, 1, src.Line())
	assert.Equal(t, []byte{1}, tr.Payload(data))

	err := src.Next(&tr, data)
	require.Error(t, err)
	assert.IsType(t, &ParseError{}, err)
	assert.Equal(t, 4, src.Line())

	require.NoError(t, src.Next(&tr, data))
	assert.Equal(t, uint64(2), tr.ID)

	assert.Equal(t, io.EOF, src.Next(&tr, data))
}

func usbmonRecord(payload []byte) []byte {
	b := make([]byte, headerLen+len(payload))
	binary.LittleEndian.PutUint64(b[0:], 7)
	b[8] = 'C'
	b[9] = byte(XferBulk)
	b[10] = 0x82
	b[11] = 2
	binary.LittleEndian.PutUint16(b[12:], 1)
	b[14] = '-'
	b[15] = 0
	binary.LittleEndian.PutUint64(b[16:], 100)
	binary.LittleEndian.PutUint32(b[24:], 42)
	binary.LittleEndian.PutUint32(b[32:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(b[36:], uint32(len(payload)))
	copy(b[headerLen:], payload)
	return b
}

func TestPcapSource(t *testing.T) {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, LinkTypeUSBLinux))
	rec := usbmonRecord([]byte{0x0a, 0x0b, 0x0c, 0x0d})
	require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
		Timestamp:     time.Unix(100, 42000),
		CaptureLength: len(rec),
		Length:        len(rec),
	}, rec))

	raw := buf.Bytes()
	require.True(t, IsPcap(raw))

	pr, err := NewPacketReader(bytes.NewReader(raw), raw[:4])
	require.NoError(t, err)
	src, err := NewPcapSource(pr)
	require.NoError(t, err)

	var tr Transfer
	data := make([]byte, 16)
	require.NoError(t, src.Next(&tr, data))
	assert.Equal(t, 1, src.Line())
	assert.Equal(t, "0000000000000007 100.000042 C Bi:1:002:2 0 4 = 0a0b0c0d", tr.Format(data))

	assert.Equal(t, io.EOF, src.Next(&tr, data))
}

func TestIsPcap(t *testing.T) {
	assert.True(t, IsPcap([]byte{0x0a, 0x0d, 0x0d, 0x0a}))
	assert.False(t, IsPcap([]byte("ffff")))
	assert.False(t, IsPcap(nil))
}

func TestOpenSource(t *testing.T) {
	src, err := OpenSource(strings.NewReader("1 1.0 C Bi:1:2:2 0 1 = 01\n"))
	require.NoError(t, err)
	assert.IsType(t, &TextSource{}, src)

	src, err = OpenSource(strings.NewReader(""))
	require.NoError(t, err)
	var tr Transfer
	assert.Equal(t, io.EOF, src.Next(&tr, nil))

	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, LinkTypeUSBLinux))
	src, err = OpenSource(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.IsType(t, &PcapSource{}, src)

	buf.Reset()
	w = pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkType(201)))
	src, err = OpenSource(bytes.NewReader(buf.Bytes()))
	assert.Nil(t, src)
	assert.ErrorIs(t, err, btdump.ErrUnsupportedLinkType)

	var lte *LinkTypeError
	require.ErrorAs(t, err, &lte)
	assert.Equal(t, layers.LinkType(201), lte.LinkType)
	assert.NotNil(t, lte.Reader)
}

func TestPcapSourceShortRecords(t *testing.T) {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, LinkTypeUSBLinux))

	// header only, announcing 100 data bytes
	headerOnly := usbmonRecord(nil)
	binary.LittleEndian.PutUint32(headerOnly[32:], 100)
	binary.LittleEndian.PutUint32(headerOnly[36:], 100)
	// four of the announced data bytes
	cut := usbmonRecord([]byte{1, 2, 3, 4})
	binary.LittleEndian.PutUint32(cut[32:], 100)
	binary.LittleEndian.PutUint32(cut[36:], 100)

	for _, rec := range [][]byte{usbmonRecord(nil)[:44], headerOnly, cut, usbmonRecord([]byte{9})} {
		require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
			Timestamp:     time.Unix(1, 0),
			CaptureLength: len(rec),
			Length:        len(rec),
		}, rec))
	}

	src, err := OpenSource(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var tr Transfer
	data := make([]byte, 16)

	err = src.Next(&tr, data)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CodeHeader, perr.Code)
	assert.Equal(t, "parse failure 24 (usbmon header)", perr.Error())

	require.NoError(t, src.Next(&tr, data))
	assert.Equal(t, 100, tr.Length)
	assert.Equal(t, 0, tr.CapLen)

	require.NoError(t, src.Next(&tr, data))
	assert.Equal(t, 100, tr.Length)
	assert.Equal(t, []byte{1, 2, 3, 4}, tr.Payload(data))

	require.NoError(t, src.Next(&tr, data))
	assert.Equal(t, []byte{9}, tr.Payload(data))
	assert.Equal(t, 4, src.Line())

	assert.Equal(t, io.EOF, src.Next(&tr, data))
}

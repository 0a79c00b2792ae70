package sliceops

import (
	"encoding/binary"
	"fmt"
)

// ErrIndex is returned when a field extends past the end of a buffer.
var ErrIndex = fmt.Errorf("index error")

// Bytes returns count bytes of b starting at start. A negative count
// returns everything from start on.
func Bytes(b []byte, start int, count int) ([]byte, error) {
	if b == nil || start < 0 || start >= len(b) {
		return nil, ErrIndex
	}

	if count < 0 {
		return b[start:], nil
	}

	end := start + count
	//end is non-inclusive
	if end > len(b) {
		return nil, ErrIndex
	}

	return b[start:end], nil
}

// Uint8WErr returns the byte at offset i.
func Uint8WErr(b []byte, i int) (uint8, error) {
	bb, err := Bytes(b, i, 1)
	if err != nil {
		return 0, err
	}
	return bb[0], nil
}

func Uint16LEWErr(b []byte, i int) (uint16, error) {
	bb, err := Bytes(b, i, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(bb), nil
}

func Uint24LEWErr(b []byte, i int) (uint32, error) {
	bb, err := Bytes(b, i, 3)
	if err != nil {
		return 0, err
	}
	return uint32(bb[0]) | uint32(bb[1])<<8 | uint32(bb[2])<<16, nil
}

func Uint32LEWErr(b []byte, i int) (uint32, error) {
	bb, err := Bytes(b, i, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(bb), nil
}

func Uint64LEWErr(b []byte, i int) (uint64, error) {
	bb, err := Bytes(b, i, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(bb), nil
}

func Uint16BEWErr(b []byte, i int) (uint16, error) {
	bb, err := Bytes(b, i, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(bb), nil
}

func Uint32BEWErr(b []byte, i int) (uint32, error) {
	bb, err := Bytes(b, i, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(bb), nil
}

// The plain readers below return zero for fields that are not present.
// Captures are routinely short, so callers decode what is there.

func Uint8(b []byte, i int) uint8 {
	v, _ := Uint8WErr(b, i)
	return v
}

func Uint16LE(b []byte, i int) uint16 {
	v, _ := Uint16LEWErr(b, i)
	return v
}

func Uint24LE(b []byte, i int) uint32 {
	v, _ := Uint24LEWErr(b, i)
	return v
}

func Uint32LE(b []byte, i int) uint32 {
	v, _ := Uint32LEWErr(b, i)
	return v
}

func Uint64LE(b []byte, i int) uint64 {
	v, _ := Uint64LEWErr(b, i)
	return v
}

func Uint16BE(b []byte, i int) uint16 {
	v, _ := Uint16BEWErr(b, i)
	return v
}

func Uint32BE(b []byte, i int) uint32 {
	v, _ := Uint32BEWErr(b, i)
	return v
}

// Has reports whether b holds n bytes starting at offset i.
func Has(b []byte, i, n int) bool {
	return i >= 0 && n >= 0 && i+n <= len(b)
}

// Package eir decodes Extended Inquiry Response data: a sequence of
// length/type/value records shared with LE advertising data.
package eir

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/btdump/sliceops"
)

// https://www.bluetooth.com/specifications/assigned-numbers/generic-access-profile
var types = struct {
	flags       byte
	uuid16inc   byte
	uuid16comp  byte
	uuid32inc   byte
	uuid32comp  byte
	uuid128inc  byte
	uuid128comp byte
	nameshort   byte
	namecomp    byte
	txpwr       byte
	class       byte
	devid       byte
	sol16       byte
	sol128      byte
	svc16       byte
	sol32       byte
	svc32       byte
	svc128      byte
	mfgdata     byte
}{
	flags:       0x01,
	uuid16inc:   0x02,
	uuid16comp:  0x03,
	uuid32inc:   0x04,
	uuid32comp:  0x05,
	uuid128inc:  0x06,
	uuid128comp: 0x07,
	nameshort:   0x08,
	namecomp:    0x09,
	txpwr:       0x0a,
	class:       0x0d,
	devid:       0x10,
	sol16:       0x14,
	sol128:      0x15,
	svc16:       0x16,
	sol32:       0x1f,
	svc32:       0x20,
	svc128:      0x21,
	mfgdata:     0xff,
}

var keys = struct {
	flags   string
	uuid16  string
	uuid32  string
	uuid128 string
	name    string
	txpwr   string
	class   string
	devid   string
	sol16   string
	sol32   string
	sol128  string
	svc16   string
	svc32   string
	svc128  string
	mfgdata string
}{
	flags:   "Flags",
	uuid16:  "UUID16",
	uuid32:  "UUID32",
	uuid128: "UUID128",
	name:    "Name",
	txpwr:   "TxPower",
	class:   "Class",
	devid:   "DeviceID",
	sol16:   "Solicit16",
	sol32:   "Solicit32",
	sol128:  "Solicit128",
	svc16:   "ServiceData16",
	svc32:   "ServiceData32",
	svc128:  "ServiceData128",
	mfgdata: "Manufacturer",
}

type record struct {
	arrayElementSz int
	minSz          int
	key            string
}

var decodeMap = map[byte]record{
	types.flags:       {0, 1, keys.flags},
	types.uuid16inc:   {2, 2, keys.uuid16},
	types.uuid16comp:  {2, 2, keys.uuid16},
	types.uuid32inc:   {4, 4, keys.uuid32},
	types.uuid32comp:  {4, 4, keys.uuid32},
	types.uuid128inc:  {16, 16, keys.uuid128},
	types.uuid128comp: {16, 16, keys.uuid128},
	types.nameshort:   {0, 0, keys.name},
	types.namecomp:    {0, 0, keys.name},
	types.txpwr:       {0, 1, keys.txpwr},
	types.class:       {0, 3, keys.class},
	types.devid:       {0, 8, keys.devid},
	types.sol16:       {2, 2, keys.sol16},
	types.sol32:       {4, 4, keys.sol32},
	types.sol128:      {16, 16, keys.sol128},
	types.svc16:       {0, 2, keys.svc16},
	types.svc32:       {0, 4, keys.svc32},
	types.svc128:      {0, 16, keys.svc128},
	types.mfgdata:     {0, 2, keys.mfgdata},
}

// Field is one decoded EIR record. Values holds the elements of list
// types (UUID lists); Data holds the raw value otherwise.
type Field struct {
	Type   byte
	Key    string
	Data   []byte
	Values [][]byte
}

func getArray(size int, bytes []byte) ([][]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size")
	}
	if len(bytes) == 0 {
		return nil, fmt.Errorf("nil/empty bytes")
	}

	count := len(bytes) / size
	rem := len(bytes) % size
	if rem != 0 || count == 0 {
		return nil, fmt.Errorf("incorrect size")
	}

	arr := make([][]byte, 0, count)
	for j := 0; j < len(bytes); j += size {
		arr = append(arr, bytes[j:j+size])
	}
	return arr, nil
}

// Decode walks the records in b. A zero length byte ends the data, which
// covers the zero padding controllers append to fill the 240 byte block.
// On a malformed record the fields decoded so far are returned with the
// error.
func Decode(b []byte) ([]Field, error) {
	var out []Field
	for i := 0; i < len(b); {
		// length @ offset 0, type @ offset 1, data @ 2..length
		length := int(b[i])
		if length == 0 {
			break
		}
		if i+length >= len(b) {
			return out, fmt.Errorf("buffer overflow: want %v, have %v", i+length+1, len(b))
		}
		typ := b[i+1]
		data := b[i+2 : i+1+length]
		i += length + 1

		dec, ok := decodeMap[typ]
		if !ok {
			out = append(out, Field{Type: typ, Data: data})
			continue
		}
		if dec.minSz > len(data) {
			return out, fmt.Errorf("eir type 0x%02x: min length %v, have %v", typ, dec.minSz, len(data))
		}

		f := Field{Type: typ, Key: dec.key, Data: data}
		if dec.arrayElementSz > 0 {
			arr, err := getArray(dec.arrayElementSz, data)
			if err != nil {
				return out, errors.Wrap(err, fmt.Sprintf("eir type 0x%02x", typ))
			}
			f.Values = arr
		}
		out = append(out, f)
	}
	return out, nil
}

func uuidString(b []byte) string {
	switch len(b) {
	case 2:
		return fmt.Sprintf("0x%04x", sliceops.Uint16LE(b, 0))
	case 4:
		return fmt.Sprintf("0x%08x", sliceops.Uint32LE(b, 0))
	}
	// 128-bit UUIDs are sent little endian
	r := make([]byte, len(b))
	for i := range b {
		r[len(b)-1-i] = b[i]
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", r[0:4], r[4:6], r[6:8], r[8:10], r[10:])
}

func (f Field) String() string {
	switch f.Type {
	case types.flags:
		return fmt.Sprintf("%s=0x%02x", f.Key, f.Data[0])
	case types.nameshort:
		return fmt.Sprintf("%s=\"%s\" (shortened)", f.Key, sliceops.Escape(f.Data))
	case types.namecomp:
		return fmt.Sprintf("%s=\"%s\"", f.Key, sliceops.Escape(f.Data))
	case types.txpwr:
		return fmt.Sprintf("%s=%d dBm", f.Key, int8(f.Data[0]))
	case types.class:
		return fmt.Sprintf("%s=0x%06x", f.Key, sliceops.Uint24LE(f.Data, 0))
	case types.devid:
		return fmt.Sprintf("%s=(Source=%d, Vendor=0x%04x, Product=0x%04x, Version=0x%04x)", f.Key,
			sliceops.Uint16LE(f.Data, 0), sliceops.Uint16LE(f.Data, 2),
			sliceops.Uint16LE(f.Data, 4), sliceops.Uint16LE(f.Data, 6))
	case types.svc16, types.svc32, types.svc128:
		n := decodeMap[f.Type].minSz
		return fmt.Sprintf("%s=%s:%s", f.Key, uuidString(f.Data[:n]), sliceops.HexString(f.Data[n:]))
	case types.mfgdata:
		return fmt.Sprintf("%s=0x%04x:%s", f.Key, sliceops.Uint16LE(f.Data, 0), sliceops.HexString(f.Data[2:]))
	}
	if f.Values != nil {
		ss := make([]string, len(f.Values))
		for i, v := range f.Values {
			ss[i] = uuidString(v)
		}
		return fmt.Sprintf("%s=[%s]", f.Key, strings.Join(ss, " "))
	}
	return fmt.Sprintf("Type=0x%02x:%s", f.Type, sliceops.HexString(f.Data))
}

// Dump writes one line per field of b, each starting with prefix.
func Dump(w io.Writer, prefix string, b []byte) {
	fields, err := Decode(b)
	for _, f := range fields {
		fmt.Fprintf(w, "%s%s\n", prefix, f)
	}
	if err != nil {
		fmt.Fprintf(w, "%sEIR decode error: %v\n", prefix, err)
	}
}

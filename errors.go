package btdump

import "errors"

var (
	// ErrOpenSource is returned when a capture source cannot be opened or read.
	ErrOpenSource = errors.New("btdump: cannot open capture source")
	// ErrUnknownFormat is returned for an output format other than text or json.
	ErrUnknownFormat = errors.New("btdump: unknown output format")
	// ErrUnsupportedLinkType is returned for binary captures of a link type
	// that carries neither usbmon records nor H4 frames.
	ErrUnsupportedLinkType = errors.New("btdump: unsupported link type")
	// ErrInvalidConfig is returned when configuration fails validation.
	ErrInvalidConfig = errors.New("btdump: invalid configuration")
)

package usbmon

import "fmt"

// Parse failure codes, numbered in the order the fields appear on a line.
const (
	CodeID = iota + 1
	CodeTimestamp
	CodeMicroseconds
	CodeEventType
	CodeXferType
	CodeDirection
	CodeAddrSeparator
	CodeBus
	CodeDevice
	CodeEndpoint
	CodeSetupRequestType
	CodeSetupRequest
	CodeSetupValue
	CodeSetupIndex
	CodeSetupLength
	CodeInterval
	CodeStartFrame
	CodeErrorCount
	CodeStatus
	CodeLength
	CodeDataTag
	CodeData
	CodeTrailing
	// CodeHeader marks a binary record too short for its usbmon header.
	CodeHeader
)

var fieldNames = map[int]string{
	CodeID:               "URB id",
	CodeTimestamp:        "timestamp",
	CodeMicroseconds:     "timestamp microseconds",
	CodeEventType:        "event type",
	CodeXferType:         "transfer type",
	CodeDirection:        "direction",
	CodeAddrSeparator:    "address separator",
	CodeBus:              "bus number",
	CodeDevice:           "device number",
	CodeEndpoint:         "endpoint number",
	CodeSetupRequestType: "setup bmRequestType",
	CodeSetupRequest:     "setup bRequest",
	CodeSetupValue:       "setup wValue",
	CodeSetupIndex:       "setup wIndex",
	CodeSetupLength:      "setup wLength",
	CodeInterval:         "interval",
	CodeStartFrame:       "start frame",
	CodeErrorCount:       "error count",
	CodeStatus:           "status",
	CodeLength:           "data length",
	CodeDataTag:          "data tag",
	CodeData:             "data bytes",
	CodeTrailing:         "trailing characters",
	CodeHeader:           "usbmon header",
}

// ParseError reports which field of a capture line could not be parsed.
type ParseError struct {
	Code  int
	Field string
	// Offset is the byte position in the line where parsing stopped.
	Offset int
}

func newParseError(code, offset int) *ParseError {
	return &ParseError{Code: code, Field: fieldNames[code], Offset: offset}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure %d (%s)", e.Code, e.Field)
}

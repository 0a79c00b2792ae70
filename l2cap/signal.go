package l2cap

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Signal is a signaling command whose parameters have a fixed layout.
type Signal interface {
	Code() int
	Unmarshal(b []byte) error
}

// newSignal returns an empty command for code, or nil when the command
// carries no structured parameters.
func newSignal(code uint8) Signal {
	switch code {
	case SignalCommandReject:
		return &CommandReject{}
	case SignalConnectionRequest:
		return &ConnectionRequest{}
	case SignalConnectionResponse:
		return &ConnectionResponse{}
	case SignalConfigurationRequest:
		return &ConfigurationRequest{}
	case SignalConfigurationResponse:
		return &ConfigurationResponse{}
	case SignalDisconnectRequest:
		return &DisconnectRequest{}
	case SignalDisconnectResponse:
		return &DisconnectResponse{}
	case SignalInformationRequest:
		return &InformationRequest{}
	case SignalInformationResponse:
		return &InformationResponse{}
	}
	return nil
}

// SignalCommandReject is the code of Command Reject signaling packet.
const SignalCommandReject = 0x01

// CommandReject implements Command Reject (0x01) [Vol 3, Part A, 4.1].
type CommandReject struct {
	Reason uint16
}

// Code returns the code of the signaling command.
func (s CommandReject) Code() int { return 0x01 }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *CommandReject) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalConnectionRequest is the code of Connection Request signaling packet.
const SignalConnectionRequest = 0x02

// ConnectionRequest implements Connection Request (0x02) [Vol 3, Part A, 4.2].
type ConnectionRequest struct {
	PSM       uint16
	SourceCID uint16
}

// Code returns the code of the signaling command.
func (s ConnectionRequest) Code() int { return 0x02 }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionRequest) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalConnectionResponse is the code of Connection Response signaling packet.
const SignalConnectionResponse = 0x03

// Connection Response results.
const (
	ResultSuccess = 0x0000
	ResultPending = 0x0001
)

// ConnectionResponse implements Connection Response (0x03) [Vol 3, Part A, 4.3].
type ConnectionResponse struct {
	DestinationCID uint16
	SourceCID      uint16
	Result         uint16
	Status         uint16
}

// Code returns the code of the signaling command.
func (s ConnectionResponse) Code() int { return 0x03 }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionResponse) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalConfigurationRequest is the code of Configuration Request signaling packet.
const SignalConfigurationRequest = 0x04

// ConfigurationRequest implements Configuration Request (0x04) [Vol 3, Part A, 4.4].
type ConfigurationRequest struct {
	DestinationCID uint16
	Flags          uint16
	Options        []byte
}

// Code returns the code of the signaling command.
func (s ConfigurationRequest) Code() int { return 0x04 }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConfigurationRequest) Unmarshal(b []byte) error {
	if len(b) < 4 {
		return io.ErrUnexpectedEOF
	}
	s.DestinationCID = binary.LittleEndian.Uint16(b[0:])
	s.Flags = binary.LittleEndian.Uint16(b[2:])
	s.Options = b[4:]
	return nil
}

// SignalConfigurationResponse is the code of Configuration Response signaling packet.
const SignalConfigurationResponse = 0x05

// ConfigurationResponse implements Configuration Response (0x05) [Vol 3, Part A, 4.5].
type ConfigurationResponse struct {
	SourceCID uint16
	Flags     uint16
	Result    uint16
	Options   []byte
}

// Code returns the code of the signaling command.
func (s ConfigurationResponse) Code() int { return 0x05 }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConfigurationResponse) Unmarshal(b []byte) error {
	if len(b) < 6 {
		return io.ErrUnexpectedEOF
	}
	s.SourceCID = binary.LittleEndian.Uint16(b[0:])
	s.Flags = binary.LittleEndian.Uint16(b[2:])
	s.Result = binary.LittleEndian.Uint16(b[4:])
	s.Options = b[6:]
	return nil
}

// SignalDisconnectRequest is the code of Disconnect Request signaling packet.
const SignalDisconnectRequest = 0x06

// DisconnectRequest implements Disconnect Request (0x06) [Vol 3, Part A, 4.6].
type DisconnectRequest struct {
	DestinationCID uint16
	SourceCID      uint16
}

// Code returns the code of the signaling command.
func (s DisconnectRequest) Code() int { return 0x06 }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *DisconnectRequest) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalDisconnectResponse is the code of Disconnect Response signaling packet.
const SignalDisconnectResponse = 0x07

// DisconnectResponse implements Disconnect Response (0x07) [Vol 3, Part A, 4.7].
type DisconnectResponse struct {
	DestinationCID uint16
	SourceCID      uint16
}

// Code returns the code of the signaling command.
func (s DisconnectResponse) Code() int { return 0x07 }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *DisconnectResponse) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// Echo Request (0x08) and Echo Response (0x09) carry opaque data only.
const (
	SignalEchoRequest  = 0x08
	SignalEchoResponse = 0x09
)

// SignalInformationRequest is the code of Information Request signaling packet.
const SignalInformationRequest = 0x0a

// InformationRequest implements Information Request (0x0A) [Vol 3, Part A, 4.10].
type InformationRequest struct {
	InfoType uint16
}

// Code returns the code of the signaling command.
func (s InformationRequest) Code() int { return 0x0a }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *InformationRequest) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalInformationResponse is the code of Information Response signaling packet.
const SignalInformationResponse = 0x0b

// InformationResponse implements Information Response (0x0B) [Vol 3, Part A, 4.11].
type InformationResponse struct {
	InfoType uint16
	Result   uint16
	Data     []byte
}

// Code returns the code of the signaling command.
func (s InformationResponse) Code() int { return 0x0b }

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *InformationResponse) Unmarshal(b []byte) error {
	if len(b) < 4 {
		return io.ErrUnexpectedEOF
	}
	s.InfoType = binary.LittleEndian.Uint16(b[0:])
	s.Result = binary.LittleEndian.Uint16(b[2:])
	s.Data = b[4:]
	return nil
}

package hci

// HCI Packet types
const (
	PktTypeCommand uint8 = 0x01
	PktTypeACLData uint8 = 0x02
	PktTypeSCOData uint8 = 0x03
	PktTypeEvent   uint8 = 0x04
	PktTypeVendor  uint8 = 0xFF
)

// PbfContinuing is the packet boundary flag of a continuing ACL fragment
// [Vol 2, Part E, 5.4.2]. Every other value starts an L2CAP PDU.
const PbfContinuing = 0x01

// HandleMask strips the packet boundary and broadcast flags from the
// first word of an ACL header.
const HandleMask = 0x0fff

// Event codes [Vol 2, Part E, 7.7].
const (
	EvtInquiryComplete            = 0x01
	EvtInquiryResult              = 0x02
	EvtConnectionComplete         = 0x03
	EvtConnectionRequest          = 0x04
	EvtDisconnectionComplete      = 0x05
	EvtAuthenticationComplete     = 0x06
	EvtRemoteNameRequestComplete  = 0x07
	EvtEncryptionChange           = 0x08
	EvtReadRemoteFeaturesComplete = 0x0b
	EvtReadRemoteVersionComplete  = 0x0c
	EvtQoSSetupComplete           = 0x0d
	EvtCommandComplete            = 0x0e
	EvtCommandStatus              = 0x0f
	EvtHardwareError              = 0x10
	EvtRoleChange                 = 0x12
	EvtNumberOfCompletedPackets   = 0x13
	EvtModeChange                 = 0x14
	EvtPINCodeRequest             = 0x16
	EvtLinkKeyRequest             = 0x17
	EvtLinkKeyNotification        = 0x18
	EvtMaxSlotsChange             = 0x1b
	EvtReadClockOffsetComplete    = 0x1c
	EvtConnPacketTypeChanged      = 0x1d
	EvtPageScanRepModeChange      = 0x20
	EvtInquiryResultWithRSSI      = 0x22
	EvtReadRemoteExtFeatures      = 0x23
	EvtExtendedInquiryResult      = 0x2f
	EvtIOCapabilityRequest        = 0x31
	EvtIOCapabilityResponse       = 0x32
	EvtUserConfirmationRequest    = 0x33
	EvtSimplePairingComplete      = 0x36
	EvtLEMeta                     = 0x3e
)

// Connection roles.
const (
	RoleMaster = 0x00
	RoleSlave  = 0x01
)

func role(v uint8) string {
	switch v {
	case RoleMaster:
		return "0 (Master)"
	case RoleSlave:
		return "1 (Slave)"
	}
	return hex8(v)
}

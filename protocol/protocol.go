// Package protocol defines the lockbox host bus vocabulary and the operator line protocol
package protocol

// Version represents the lockbox firmware version
const Version = "0.1.0"

// Code is a single status/command byte exchanged with the host over the bus.
// Numeric values are fixed for host compatibility.
type Code byte

// Outbound codes (device -> host)
const (
	Alert      Code = 0xB1 // Intrusion notification
	RespOpened Code = 0xEA // Box sensed open
	RespClosed Code = 0xEB // Box sensed closed
	Ack        Code = 0xFA
	Nack       Code = 0xFB

	// Idle is loaded into the shift register when the device has nothing
	// to report; hosts also shift it as the dummy byte of an exchange
	Idle Code = 0x00
)

// Inbound codes (host -> device)
const (
	CmdUnlockOpen  Code = 0xA1
	CmdLockClose   Code = 0xA2
	CmdCheckStatus Code = 0xA3

	// GetStatus is shifted by the host to drain one queued code
	GetStatus Code = 0xC1
)

// Status is a return code reported by engine operations.
// OK and ERR_UNEXPECTED intentionally share their values with ACK and NACK.
type Status byte

const (
	StatusOK            Status = 0xFA
	StatusErrBusy       Status = 0xFD
	StatusErrUnexpected Status = 0xFB
	StatusErrNotInit    Status = 0xFC
)

// IsCommand reports whether c is a recognized inbound command (GetStatus excluded)
func IsCommand(c Code) bool {
	switch c {
	case CmdUnlockOpen, CmdLockClose, CmdCheckStatus:
		return true
	}
	return false
}

// String returns the protocol name of the code
func (c Code) String() string {
	switch c {
	case Alert:
		return "ALERT"
	case RespOpened:
		return "RESP_OPENED"
	case RespClosed:
		return "RESP_CLOSED"
	case Ack:
		return "ACK"
	case Nack:
		return "NACK"
	case CmdUnlockOpen:
		return "UNLOCK_OPEN"
	case CmdLockClose:
		return "LOCK_CLOSE"
	case CmdCheckStatus:
		return "CHECK_STATUS"
	case GetStatus:
		return "GET_STATUS"
	}
	return "0x" + hex8(byte(c))
}

// String returns the human-readable name of the status
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusErrBusy:
		return "ERR_BUSY"
	case StatusErrUnexpected:
		return "ERR_UNEXPECTED"
	case StatusErrNotInit:
		return "ERR_NOTINIT"
	}
	return "0x" + hex8(byte(s))
}

const hexDigits = "0123456789ABCDEF"

// hex8 formats a byte as two uppercase hex digits without fmt
func hex8(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}

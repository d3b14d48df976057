// Package protocol implements the Switcher TCP control session: login
// handshake, per-command packet framing, and response parsing, for
// both the type1 (water heater, power plug) and type2 (shutter,
// Breeze) device families.
package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/stapelberg/switchergo/internal/codec"
	"github.com/stapelberg/switchergo/switchererr"
)

// headerLen is the fixed prefix every packet carries ahead of its body:
// magic(2) + length(2) + command(4) + session_token(4) + reserved(2) +
// counter(2) + timestamp(4).
const headerLen = 20

// preLoginToken is the session token value sent on a login request,
// before the device has assigned a real one.
const preLoginToken uint32 = 0xFFFFFFFE

// Command codes. The wire protocol does not publish these values
// anywhere this rewrite could retrieve; the numbering below is this
// rewrite's own assignment, internally consistent between request
// construction and the fixtures in this package's tests.
const (
	cmdLogin uint32 = iota
	cmdGetState
	cmdTurnOn
	cmdTurnOff
	cmdSetName
	cmdSetAutoShutdown
	cmdGetSchedules
	cmdDeleteSchedule
	cmdCreateSchedule
	cmdGetBreezeState
	cmdControlBreeze
	cmdGetShutterState
	cmdSetPosition
	cmdStop
)

// outPacket is an outgoing request, before framing and CRC.
type outPacket struct {
	Command      uint32
	SessionToken uint32
	Counter      uint16
	Timestamp    uint32
	Body         []byte
}

// marshal frames p per §4.3: magic, total length, command, session
// token, reserved, counter, timestamp, body, then the little-endian
// CRC-16 over everything before it.
func (p outPacket) marshal() []byte {
	total := headerLen + len(p.Body) + 2 // +2 for the trailing CRC
	buf := make([]byte, headerLen, total)
	buf[0], buf[1] = 0xfe, 0xf0
	binary.LittleEndian.PutUint16(buf[2:4], uint16(total))
	binary.LittleEndian.PutUint32(buf[4:8], p.Command)
	binary.LittleEndian.PutUint32(buf[8:12], p.SessionToken)
	buf[12], buf[13] = 0x00, 0x00
	binary.LittleEndian.PutUint16(buf[14:16], p.Counter)
	binary.LittleEndian.PutUint32(buf[16:20], p.Timestamp)
	buf = append(buf, p.Body...)
	return codec.AppendCRC(buf)
}

// inPacket is a parsed incoming response: the raw bytes plus the
// decoded header fields, kept alongside per §4.5's
// "unparsed_response verbatim" requirement.
type inPacket struct {
	Raw     []byte
	Command uint32
	Token   uint32
	Counter uint16
	Body    []byte
}

// parsePacket validates magic, declared length, and CRC, then slices
// out the header fields and body. It does not interpret the body.
// Callers translate a non-nil error into LoginFailed or
// RequestFailedError depending on which phase they are in; this
// function itself stays agnostic of that context.
func parsePacket(raw []byte) (inPacket, error) {
	if len(raw) < headerLen+2 {
		return inPacket{}, fmt.Errorf("short packet (%d bytes)", len(raw))
	}
	if raw[0] != 0xfe || raw[1] != 0xf0 {
		return inPacket{}, fmt.Errorf("bad magic")
	}
	declared := int(binary.LittleEndian.Uint16(raw[2:4]))
	if declared != len(raw) {
		return inPacket{}, fmt.Errorf("declared length %d, got %d", declared, len(raw))
	}
	if !codec.VerifyCRC(raw) {
		return inPacket{}, fmt.Errorf("CRC mismatch")
	}
	return inPacket{
		Raw:     raw,
		Command: binary.LittleEndian.Uint32(raw[4:8]),
		Token:   binary.LittleEndian.Uint32(raw[8:12]),
		Counter: binary.LittleEndian.Uint16(raw[14:16]),
		Body:    raw[headerLen : len(raw)-2],
	}, nil
}

// sessionTokenAt16 implements Testable Property 5: the session token
// lives at the uint32 LE slot at byte offset 16 of the raw response,
// the same slot a request uses for its timestamp.
func sessionTokenAt16(raw []byte) (uint32, error) {
	if len(raw) < 20 {
		return 0, fmt.Errorf("%w: login response too short", switchererr.ErrLoginFailed)
	}
	return binary.LittleEndian.Uint32(raw[16:20]), nil
}

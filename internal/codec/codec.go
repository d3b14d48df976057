// Package codec implements the Switcher CRC-16 variant, hex and
// NUL-trimmed field rendering, and the HH:MM:SS duration formatting
// shared by the discovery and protocol packages.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/sigurn/crc16"
)

// crcTable is the CRC-16/CCITT variant (poly 0x1021, init 0x1021) the
// Switcher wire protocol is built on. c.f. internal/uartgw's use of
// sigurn/crc16 for the unrelated BidCoS checksum in the teacher codebase.
var crcTable = crc16.MakeTable(crc16.Params{
	Poly:   0x1021,
	Init:   0x1021,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x0000,
	Check:  0x0000,
	Name:   "Switcher",
})

// crcPassphrase is post-mixed into the raw CRC-16 result, byte by
// byte, alternating high/low halves of the running state.
const crcPassphrase = "Switcher"

// CRC computes the packet checksum over body: a CRC-16/CCITT checksum
// post-mixed with the ASCII "Switcher" passphrase. Devices reject any
// packet whose trailing two bytes do not match this value.
func CRC(body []byte) uint16 {
	sum := crc16.Checksum(body, crcTable)
	hi := byte(sum >> 8)
	lo := byte(sum)
	for i := 0; i < len(crcPassphrase); i++ {
		if i%2 == 0 {
			hi ^= crcPassphrase[i]
		} else {
			lo ^= crcPassphrase[i]
		}
	}
	return uint16(hi)<<8 | uint16(lo)
}

// VerifyCRC reports whether the last two bytes of packet match the CRC
// of everything preceding them.
func VerifyCRC(packet []byte) bool {
	if len(packet) < 2 {
		return false
	}
	body := packet[:len(packet)-2]
	want := CRC(body)
	got := binary.LittleEndian.Uint16(packet[len(packet)-2:])
	return got == want
}

// AppendCRC appends the little-endian CRC of body to body and returns
// the result.
func AppendCRC(body []byte) []byte {
	c := CRC(body)
	out := make([]byte, 0, len(body)+2)
	out = append(out, body...)
	return binary.LittleEndian.AppendUint16(out, c)
}

// SecondsToHHMMSS formats a duration in seconds as "HH:MM:SS" with
// unbounded hours, matching the device firmware's own rendering of
// remaining-runtime and auto-shutdown counters.
func SecondsToHHMMSS(totalSeconds uint32) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// TrimNUL trims trailing NUL bytes from a fixed-width ASCII field such
// as a device name.
func TrimNUL(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0x00 {
		end--
	}
	return string(b[:end])
}

// UppercaseHex renders b as uppercase hex, e.g. for a MAC address
// before colon-separation.
func UppercaseHex(b []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0x0f]
	}
	return string(out)
}

// LowercaseHex renders b as lowercase hex, used for device ids and
// model codes which the protocol treats as case-insensitive strings.
func LowercaseHex(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0x0f]
	}
	return string(out)
}

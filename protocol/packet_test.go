package protocol

import (
	"testing"

	"github.com/stapelberg/switchergo/internal/codec"
)

func TestMarshalParseRoundTrip(t *testing.T) {
	p := outPacket{
		Command:      cmdGetState,
		SessionToken: 0x12345678,
		Counter:      3,
		Timestamp:    1700000000,
		Body:         []byte("hello"),
	}
	raw := p.marshal()

	if !codec.VerifyCRC(raw) {
		t.Fatalf("marshalled packet fails CRC verification")
	}

	in, err := parsePacket(raw)
	if err != nil {
		t.Fatalf("parsePacket: %v", err)
	}
	if in.Command != p.Command {
		t.Errorf("Command = %#x, want %#x", in.Command, p.Command)
	}
	if in.Token != p.SessionToken {
		t.Errorf("Token = %#x, want %#x", in.Token, p.SessionToken)
	}
	if string(in.Body) != "hello" {
		t.Errorf("Body = %q, want %q", in.Body, "hello")
	}
}

// TestProperty4_CRCRoundTrip covers testable property 4 at the packet
// level: flipping any single byte breaks verification.
func TestProperty4_CRCRoundTrip(t *testing.T) {
	raw := outPacket{Command: cmdTurnOn, SessionToken: 1, Timestamp: 42, Body: []byte{0x01, 0x02, 0x03}}.marshal()
	if !codec.VerifyCRC(raw) {
		t.Fatalf("freshly marshalled packet fails CRC verification")
	}
	for i := range raw {
		flipped := append([]byte(nil), raw...)
		flipped[i] ^= 0xff
		if codec.VerifyCRC(flipped) {
			t.Errorf("byte %d: flipped packet still verifies", i)
		}
	}
}

func TestParsePacket_RejectsBadMagic(t *testing.T) {
	raw := outPacket{Command: cmdGetState, Timestamp: 1}.marshal()
	raw[0] = 0x00
	if _, err := parsePacket(raw); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

// TestProperty5_LoginTokenExtraction covers testable property 5.
func TestProperty5_LoginTokenExtraction(t *testing.T) {
	raw := make([]byte, 24)
	raw[0], raw[1] = 0xfe, 0xf0
	want := uint32(0xdeadbeef)
	raw[16], raw[17], raw[18], raw[19] = 0xef, 0xbe, 0xad, 0xde
	got, err := sessionTokenAt16(raw)
	if err != nil {
		t.Fatalf("sessionTokenAt16: %v", err)
	}
	if got != want {
		t.Errorf("token = %#x, want %#x", got, want)
	}
}

package codec

import "testing"

func TestCRCRoundTrip(t *testing.T) {
	pkts := [][]byte{
		{0xfe, 0xf0, 0x00, 0x00},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		{},
		{0xff},
	}
	for _, body := range pkts {
		pkt := AppendCRC(body)
		if !VerifyCRC(pkt) {
			t.Fatalf("VerifyCRC(%x) = false, want true", pkt)
		}
		for i := range pkt {
			flipped := append([]byte(nil), pkt...)
			flipped[i] ^= 0xff
			if VerifyCRC(flipped) {
				t.Fatalf("VerifyCRC(%x with byte %d flipped) = true, want false", pkt, i)
			}
		}
	}
}

func TestSecondsToHHMMSS(t *testing.T) {
	tests := []struct {
		in   uint32
		want string
	}{
		{0, "00:00:00"},
		{3600, "01:00:00"},
		{9000, "02:30:00"},
		{4126, "01:08:46"},
		{90000, "25:00:00"}, // unbounded hours
	}
	for _, tt := range tests {
		if got := SecondsToHHMMSS(tt.in); got != tt.want {
			t.Errorf("SecondsToHHMMSS(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimNUL(t *testing.T) {
	b := append([]byte("Boiler"), make([]byte, 26)...)
	if got, want := TrimNUL(b), "Boiler"; got != want {
		t.Errorf("TrimNUL = %q, want %q", got, want)
	}
}

func TestUppercaseHex(t *testing.T) {
	if got, want := UppercaseHex([]byte{0xaa, 0xbb, 0xcc}), "AABBCC"; got != want {
		t.Errorf("UppercaseHex = %q, want %q", got, want)
	}
}

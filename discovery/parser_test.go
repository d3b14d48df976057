package discovery

import (
	"errors"
	"testing"

	"github.com/stapelberg/switchergo/switchererr"
)

// buildType1Datagram assembles a 165-byte type-1 broadcast with the
// given fields, zero-filling everything else.
func buildType1Datagram(deviceID [3]byte, name string, model [2]byte, ip [4]byte, mac [6]byte, state byte, powerLE [2]byte, remainingLE [4]byte, autoShutdownLE [4]byte) []byte {
	d := make([]byte, 165)
	d[0], d[1] = 0xfe, 0xf0
	copy(d[18:21], deviceID[:])
	copy(d[42:74], []byte(name))
	copy(d[74:76], model[:])
	copy(d[76:80], ip[:])
	copy(d[80:86], mac[:])
	d[133] = state
	copy(d[135:137], powerLE[:])
	copy(d[147:151], remainingLE[:])
	copy(d[155:159], autoShutdownLE[:])
	return d
}

func TestParse_S1_WaterHeaterDiscovery(t *testing.T) {
	d := buildType1Datagram(
		[3]byte{0x39, 0x33, 0xac},
		"Boiler",
		[2]byte{0x01, 0x00}, // V2_QCA water heater model code
		[4]byte{0x04, 0x03, 0x02, 0x01},
		[6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		0x01,
		[2]byte{0xa0, 0x05},         // 1440 W little-endian
		[4]byte{0x1e, 0x10, 0x00, 0x00}, // 4126s = 01:08:46
		[4]byte{0x00, 0x00, 0x00, 0x00},
	)

	dev, err := Parse(d)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	wh, ok := dev.(WaterHeater)
	if !ok {
		t.Fatalf("Parse returned %T, want WaterHeater", dev)
	}
	if got, want := wh.DeviceID(), "3933ac"; got != want {
		t.Errorf("DeviceID = %q, want %q", got, want)
	}
	if got, want := wh.IP(), "1.2.3.4"; got != want {
		t.Errorf("IP = %q, want %q", got, want)
	}
	if got, want := wh.State, On; got != want {
		t.Errorf("State = %v, want %v", got, want)
	}
	if got, want := wh.PowerConsumption, 1440; got != want {
		t.Errorf("PowerConsumption = %d, want %d", got, want)
	}
	if got, want := wh.ElectricCurrent, 6.5; got != want {
		t.Errorf("ElectricCurrent = %v, want %v", got, want)
	}
	if got, want := wh.RemainingTime, "01:08:46"; got != want {
		t.Errorf("RemainingTime = %q, want %q", got, want)
	}
}

func TestParse_S2_UnknownOrigin(t *testing.T) {
	d := make([]byte, 165)
	d[0], d[1] = 0xde, 0xad
	_, err := Parse(d)
	if !errors.Is(err, switchererr.ErrNotSwitcherOrigin) {
		t.Fatalf("Parse error = %v, want ErrNotSwitcherOrigin", err)
	}
}

func TestParse_MagicGate(t *testing.T) {
	for _, length := range []int{159, 165, 168} {
		d := make([]byte, length)
		d[0], d[1] = 0xfe, 0xf0
		// model code 0 is not a real device, so the magic gate passing
		// should produce ErrUnknownModel, not ErrNotSwitcherOrigin.
		_, err := Parse(d)
		if errors.Is(err, switchererr.ErrNotSwitcherOrigin) {
			t.Errorf("length %d: got ErrNotSwitcherOrigin, want magic gate to pass", length)
		}
	}
	for _, length := range []int{0, 1, 100, 164, 166, 169, 200} {
		d := make([]byte, length)
		if len(d) >= 2 {
			d[0], d[1] = 0xfe, 0xf0
		}
		if _, err := Parse(d); !errors.Is(err, switchererr.ErrNotSwitcherOrigin) {
			t.Errorf("length %d: err = %v, want ErrNotSwitcherOrigin", length, err)
		}
	}
}

func TestParse_UnknownModel(t *testing.T) {
	d := make([]byte, 165)
	d[0], d[1] = 0xfe, 0xf0
	d[74], d[75] = 0xff, 0xff // never a registered model code
	_, err := Parse(d)
	if !errors.Is(err, switchererr.ErrUnknownModel) {
		t.Fatalf("Parse error = %v, want ErrUnknownModel", err)
	}
}

func TestParse_OffImpliesZeroCurrent(t *testing.T) {
	d := buildType1Datagram(
		[3]byte{0x11, 0x22, 0x33},
		"Plug",
		[2]byte{0xa6, 0x01}, // power plug model code
		[4]byte{0x01, 0x02, 0x03, 0x04},
		[6]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		0x00, // off
		[2]byte{0xa0, 0x05},
		[4]byte{},
		[4]byte{},
	)
	dev, err := Parse(d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pp, ok := dev.(PowerPlug)
	if !ok {
		t.Fatalf("Parse returned %T, want PowerPlug", dev)
	}
	if pp.PowerConsumption != 0 {
		t.Errorf("PowerConsumption = %d, want 0", pp.PowerConsumption)
	}
	if pp.ElectricCurrent != 0.0 {
		t.Errorf("ElectricCurrent = %v, want 0.0", pp.ElectricCurrent)
	}
}

func TestParse_Determinism(t *testing.T) {
	d := buildType1Datagram(
		[3]byte{0x39, 0x33, 0xac},
		"Boiler",
		[2]byte{0x01, 0x00},
		[4]byte{0x04, 0x03, 0x02, 0x01},
		[6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		0x01,
		[2]byte{0xa0, 0x05},
		[4]byte{0x1e, 0x10, 0x00, 0x00},
		[4]byte{0x00, 0x00, 0x00, 0x00},
	)
	dev1, err1 := Parse(d)
	dev2, err2 := Parse(d)
	if err1 != err2 {
		t.Fatalf("non-deterministic errors: %v vs %v", err1, err2)
	}
	if dev1 != dev2 {
		t.Fatalf("non-deterministic devices: %+v vs %+v", dev1, dev2)
	}
}

func TestParse_ThermostatDefaultModeFallback(t *testing.T) {
	d := make([]byte, lengthBreeze)
	d[0], d[1] = 0xfe, 0xf0
	d[74], d[75] = 0x03, 0x00 // breeze model code
	d[138] = 0xff             // unrecognised mode byte
	dev, err := Parse(d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	th, ok := dev.(Thermostat)
	if !ok {
		t.Fatalf("Parse returned %T, want Thermostat", dev)
	}
	if th.Mode != ModeCool {
		t.Errorf("Mode = %v, want ModeCool (fallback)", th.Mode)
	}
}

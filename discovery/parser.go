package discovery

import (
	"encoding/binary"
	"fmt"
	"log"
	"net"
	"strconv"

	"github.com/stapelberg/switchergo/internal/codec"
	"github.com/stapelberg/switchergo/switchererr"
)

// Accepted total datagram lengths. 168 denotes Breeze, 159 denotes
// Runner/Runner-Mini, 165 denotes every type-1 device.
const (
	lengthType1   = 165
	lengthBreeze  = 168
	lengthRunner  = 159
)

// Field offsets, c.f. spec §4.1.
const (
	offMagic      = 0
	offDeviceID   = 18
	offName       = 42
	nameWidth     = 32
	offModelCode  = 74
	offIPType1    = 76
	offIPType2    = 77
	offMAC        = 80
	macWidth      = 6
	offState1     = 133
	offPower      = 135
	offRemaining  = 147
	offAutoShut   = 155

	offShutterPos = 135
	offShutterDir = 137

	offBreezeTemp   = 135
	offBreezeOnOff  = 137
	offBreezeMode   = 138
	offBreezeTarget = 139
	offBreezeFan    = 140
	offBreezeRemote = 143
	remoteIDWidth   = 8
)

// IsSwitcherOriginator reports whether datagram's magic bytes and
// total length match any known Switcher broadcast shape.
func IsSwitcherOriginator(datagram []byte) bool {
	if len(datagram) < 2 {
		return false
	}
	if datagram[0] != 0xfe || datagram[1] != 0xf0 {
		return false
	}
	switch len(datagram) {
	case lengthType1, lengthBreeze, lengthRunner:
		return true
	default:
		return false
	}
}

// Parse decodes a single UDP broadcast payload into a typed Device.
// It is total and deterministic: identical inputs always yield
// identical outputs. It returns switchererr.ErrNotSwitcherOrigin when
// the magic/length gate fails, and switchererr.ErrUnknownModel when
// the magic/length gate passes but the embedded model code is not in
// the known device-type table.
func Parse(datagram []byte) (Device, error) {
	if !IsSwitcherOriginator(datagram) {
		return nil, switchererr.ErrNotSwitcherOrigin
	}

	modelHex := codec.LowercaseHex(datagram[offModelCode : offModelCode+2])
	dt, ok := LookupDeviceType(modelHex)
	if !ok {
		return nil, fmt.Errorf("%w: model code %q", switchererr.ErrUnknownModel, modelHex)
	}

	b := base{
		Type: dt,
		ID:   codec.LowercaseHex(datagram[offDeviceID : offDeviceID+3]),
		Mac:  formatMAC(datagram[offMAC : offMAC+macWidth]),
		Nm:   codec.TrimNUL(datagram[offName : offName+nameWidth]),
	}

	switch dt.Category {
	case CategoryWaterHeater:
		b.Addr = ipFromLittleEndian(datagram[offIPType1 : offIPType1+4])
		return parseWaterHeater(b, datagram), nil
	case CategoryPowerPlug:
		b.Addr = ipFromLittleEndian(datagram[offIPType1 : offIPType1+4])
		return parsePowerPlug(b, datagram), nil
	case CategoryShutter:
		b.Addr = ipFromBigEndian(datagram[offIPType2 : offIPType2+4])
		return parseShutter(b, datagram), nil
	case CategoryThermostat:
		b.Addr = ipFromBigEndian(datagram[offIPType2 : offIPType2+4])
		return parseThermostat(b, datagram), nil
	default:
		return nil, fmt.Errorf("%w: model code %q", switchererr.ErrUnknownModel, modelHex)
	}
}

func deviceState(datagram []byte, offset int) State {
	if datagram[offset] == 0x01 {
		return On
	}
	return Off
}

func electricCurrent(state State, watts int) float64 {
	if state == Off {
		return 0.0
	}
	amps := float64(watts) / 220.0
	// truncate to one decimal, matching the firmware's own rounding.
	return float64(int(amps*10)) / 10
}

func parseWaterHeater(b base, datagram []byte) WaterHeater {
	state := deviceState(datagram, offState1)
	watts := int(binary.LittleEndian.Uint16(datagram[offPower : offPower+2]))
	remaining := "00:00:00"
	if state == On {
		remaining = codec.SecondsToHHMMSS(binary.LittleEndian.Uint32(datagram[offRemaining : offRemaining+4]))
	} else {
		watts = 0
	}
	autoShutdownSecs := binary.LittleEndian.Uint32(datagram[offAutoShut : offAutoShut+4])
	return WaterHeater{
		base:             b,
		State:            state,
		PowerConsumption: watts,
		ElectricCurrent:  electricCurrent(state, watts),
		RemainingTime:    remaining,
		AutoShutdown:     codec.SecondsToHHMMSS(autoShutdownSecs),
	}
}

func parsePowerPlug(b base, datagram []byte) PowerPlug {
	state := deviceState(datagram, offState1)
	watts := int(binary.LittleEndian.Uint16(datagram[offPower : offPower+2]))
	if state == Off {
		watts = 0
	}
	return PowerPlug{
		base:             b,
		State:            state,
		PowerConsumption: watts,
		ElectricCurrent:  electricCurrent(state, watts),
	}
}

// shutterPositionFromBytes decodes the two idiosyncratic bytes at offset
// 135: the high byte's hex digits parsed as hex, the low byte's hex
// digits parsed as decimal. This is intentional per the vendor
// firmware; do not "fix" it without device evidence.
func shutterPositionFromBytes(hi, lo byte) int {
	hiHex := fmt.Sprintf("%02x", hi)
	loHex := fmt.Sprintf("%02x", lo)
	hiVal, _ := strconv.ParseInt(hiHex, 16, 32)
	loVal, _ := strconv.ParseInt(loHex, 10, 32)
	return int(hiVal) + int(loVal)
}

// shutterDirectionByHex maps the 2-byte wire code to a direction. The
// exact codes are not specified beyond "hex code"; these three values
// are this rewrite's resolution, recorded in DESIGN.md.
var shutterDirectionByHex = map[string]ShutterDirection{
	"0000": DirectionStop,
	"0001": DirectionUp,
	"0002": DirectionDown,
}

func parseShutter(b base, datagram []byte) Shutter {
	position := shutterPositionFromBytes(datagram[offShutterPos], datagram[offShutterPos+1])
	dirHex := codec.LowercaseHex(datagram[offShutterDir : offShutterDir+2])
	direction := shutterDirectionByHex[dirHex]
	return Shutter{
		base:      b,
		Position:  position,
		Direction: direction,
	}
}

func parseThermostat(b base, datagram []byte) Thermostat {
	state := deviceState(datagram, offBreezeOnOff)
	currentTemp := float64(binary.LittleEndian.Uint16(datagram[offBreezeTemp:offBreezeTemp+2])) / 10.0

	modeHex := fmt.Sprintf("%x", datagram[offBreezeMode])
	mode, ok := ParseThermostatMode(modeHex)
	if !ok {
		log.Printf("discovery: unrecognised breeze mode %q, falling back to cool", modeHex)
	}

	targetTemp := int(datagram[offBreezeTarget])

	fanByte := datagram[offBreezeFan]
	fanHex := fmt.Sprintf("%x", fanByte>>4)
	swing := SwingOn
	if fanByte&0x0f == 0x00 {
		swing = SwingOff
	}

	remoteID := string(datagram[offBreezeRemote : offBreezeRemote+remoteIDWidth])

	return Thermostat{
		base:        b,
		State:       state,
		CurrentTemp: currentTemp,
		TargetTemp:  targetTemp,
		Mode:        mode,
		FanLevel:    ParseFanLevel(fanHex),
		Swing:       swing,
		RemoteID:    remoteID,
	}
}

func formatMAC(b []byte) string {
	hex := codec.UppercaseHex(b)
	out := make([]byte, 0, len(hex)+5)
	for i := 0; i < len(hex); i += 2 {
		if i > 0 {
			out = append(out, ':')
		}
		out = append(out, hex[i], hex[i+1])
	}
	return string(out)
}

// ipFromLittleEndian decodes a 4-byte little-endian-packed IPv4
// address field (type-1 devices) into dotted-decimal notation.
func ipFromLittleEndian(b []byte) string {
	v := binary.LittleEndian.Uint32(b)
	return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)).String()
}

// ipFromBigEndian decodes a 4-byte big-endian IPv4 address field
// (type-2 devices) into dotted-decimal notation.
func ipFromBigEndian(b []byte) string {
	return net.IPv4(b[0], b[1], b[2], b[3]).String()
}

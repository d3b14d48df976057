package discovery

import "fmt"

// State is the boolean on/off wire value ("01"/"00").
type State int

const (
	Off State = iota
	On
)

func (s State) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// HexValue is the wire representation of a State.
func (s State) HexValue() string {
	if s == On {
		return "01"
	}
	return "00"
}

// ShutterDirection is the direction a Runner is currently moving.
type ShutterDirection int

const (
	DirectionStop ShutterDirection = iota
	DirectionUp
	DirectionDown
)

func (d ShutterDirection) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "stop"
	}
}

// ThermostatMode is the Breeze operating mode.
type ThermostatMode int

const (
	ModeAuto ThermostatMode = iota
	ModeDry
	ModeFan
	ModeCool
	ModeHeat
)

func (m ThermostatMode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeDry:
		return "dry"
	case ModeFan:
		return "fan"
	case ModeCool:
		return "cool"
	case ModeHeat:
		return "heat"
	default:
		return "unknown"
	}
}

// thermostatModeByHex maps the single-hex-digit wire code to a mode.
var thermostatModeByHex = map[string]ThermostatMode{
	"1": ModeAuto,
	"2": ModeDry,
	"3": ModeFan,
	"4": ModeCool,
	"5": ModeHeat,
}

var thermostatModeHex = map[ThermostatMode]string{
	ModeAuto: "1",
	ModeDry:  "2",
	ModeFan:  "3",
	ModeCool: "4",
	ModeHeat: "5",
}

// ParseThermostatMode decodes a single-hex-digit wire code, defaulting
// to ModeCool (and reporting ok=false) when the code is unrecognised,
// per spec.md's documented Breeze fallback behaviour.
func ParseThermostatMode(hex string) (mode ThermostatMode, ok bool) {
	mode, ok = thermostatModeByHex[hex]
	if !ok {
		return ModeCool, false
	}
	return mode, true
}

// HexValue is the wire representation of a mode.
func (m ThermostatMode) HexValue() string {
	if h, ok := thermostatModeHex[m]; ok {
		return h
	}
	return thermostatModeHex[ModeCool]
}

// ThermostatFanLevel is the Breeze fan speed.
type ThermostatFanLevel int

const (
	FanAuto ThermostatFanLevel = iota
	FanLow
	FanMedium
	FanHigh
)

func (f ThermostatFanLevel) String() string {
	switch f {
	case FanLow:
		return "low"
	case FanMedium:
		return "medium"
	case FanHigh:
		return "high"
	default:
		return "auto"
	}
}

var fanLevelByHex = map[string]ThermostatFanLevel{
	"0": FanAuto,
	"1": FanLow,
	"2": FanMedium,
	"3": FanHigh,
}

var fanLevelHex = map[ThermostatFanLevel]string{
	FanAuto:   "0",
	FanLow:    "1",
	FanMedium: "2",
	FanHigh:   "3",
}

func ParseFanLevel(hex string) ThermostatFanLevel {
	return fanLevelByHex[hex]
}

func (f ThermostatFanLevel) HexValue() string {
	return fanLevelHex[f]
}

// ThermostatSwing is the Breeze swing toggle.
type ThermostatSwing int

const (
	SwingOff ThermostatSwing = iota
	SwingOn
)

func (s ThermostatSwing) String() string {
	if s == SwingOn {
		return "on"
	}
	return "off"
}

// Device is the common interface satisfied by every discovered device
// record. Records are immutable values produced per datagram; the
// core layer performs no identity deduplication (callers deduplicate
// by DeviceID).
type Device interface {
	fmt.Stringer
	DeviceType() DeviceType
	DeviceID() string
	IP() string
	MAC() string
	Name() string
}

// base carries the fields every device category shares.
type base struct {
	Type DeviceType
	ID   string
	Addr string
	Mac  string
	Nm   string
}

func (b base) DeviceType() DeviceType { return b.Type }
func (b base) DeviceID() string       { return b.ID }
func (b base) IP() string             { return b.Addr }
func (b base) MAC() string            { return b.Mac }
func (b base) Name() string           { return b.Nm }

// WaterHeater is a Switcher V2/V4/Touch/Mini water heater.
type WaterHeater struct {
	base
	State            State
	PowerConsumption int     // watts
	ElectricCurrent  float64 // amps, power/220 truncated to one decimal
	RemainingTime    string  // "HH:MM:SS"
	AutoShutdown     string  // "HH:MM:SS"
}

func (w WaterHeater) String() string {
	return fmt.Sprintf("WaterHeater{id=%s name=%q ip=%s state=%s power=%dW current=%.1fA remaining=%s}",
		w.ID, w.Nm, w.Addr, w.State, w.PowerConsumption, w.ElectricCurrent, w.RemainingTime)
}

// PowerPlug is a Switcher Power Plug.
type PowerPlug struct {
	base
	State            State
	PowerConsumption int
	ElectricCurrent  float64
}

func (p PowerPlug) String() string {
	return fmt.Sprintf("PowerPlug{id=%s name=%q ip=%s state=%s power=%dW current=%.1fA}",
		p.ID, p.Nm, p.Addr, p.State, p.PowerConsumption, p.ElectricCurrent)
}

// Shutter is a Switcher Runner or Runner Mini.
type Shutter struct {
	base
	Position  int
	Direction ShutterDirection
}

func (s Shutter) String() string {
	return fmt.Sprintf("Shutter{id=%s name=%q ip=%s position=%d direction=%s}",
		s.ID, s.Nm, s.Addr, s.Position, s.Direction)
}

// Thermostat is a Switcher Breeze.
type Thermostat struct {
	base
	State       State
	CurrentTemp float64 // degC, one decimal
	TargetTemp  int     // degC
	Mode        ThermostatMode
	FanLevel    ThermostatFanLevel
	Swing       ThermostatSwing
	RemoteID    string
}

func (t Thermostat) String() string {
	return fmt.Sprintf("Thermostat{id=%s name=%q ip=%s state=%s mode=%s current=%.1fC target=%dC fan=%s swing=%s remote=%s}",
		t.ID, t.Nm, t.Addr, t.State, t.Mode, t.CurrentTemp, t.TargetTemp, t.FanLevel, t.Swing, t.RemoteID)
}

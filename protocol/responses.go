package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/stapelberg/switchergo/discovery"
	"github.com/stapelberg/switchergo/internal/codec"
	"github.com/stapelberg/switchergo/switchererr"
)

// Every response body layout below is this rewrite's own invention:
// the retrieved original_source/ material covers the UDP discovery
// parser and the TCP client's public behaviour/error strings, not the
// literal response body byte layout. Each layout keeps the fields
// §4.5 names, at the offsets documented in its parser, with an ack
// byte at offset 0 (BaseResponse's contract: success iff it equals
// 0x00).

// BaseResponse is the minimal response shape: an acknowledgement byte
// and the raw bytes it was parsed from.
type BaseResponse struct {
	UnparsedResponse []byte
	Success          bool
}

func parseBaseResponse(p inPacket) (*BaseResponse, error) {
	if len(p.Body) < 1 {
		return nil, fmt.Errorf("%w: empty response body", switchererr.ErrTransportClosed)
	}
	return &BaseResponse{UnparsedResponse: p.Raw, Success: p.Body[0] == 0x00}, nil
}

// StateResponse is the type1 get_state response.
type StateResponse struct {
	UnparsedResponse []byte
	State            discovery.State
	PowerConsumption int
	ElectricCurrent  float64
	RemainingTime    string
	AutoShutdown     string
}

func parseStateResponse(p inPacket) (*StateResponse, error) {
	if len(p.Body) < 12 {
		return nil, fmt.Errorf("%w: get_state response too short", switchererr.ErrTransportClosed)
	}
	state := discovery.Off
	if p.Body[1] == 0x01 {
		state = discovery.On
	}
	watts := int(binary.LittleEndian.Uint16(p.Body[2:4]))
	remainingSecs := binary.LittleEndian.Uint32(p.Body[4:8])
	autoShutdownSecs := binary.LittleEndian.Uint32(p.Body[8:12])

	remaining := "00:00:00"
	current := 0.0
	if state == discovery.On {
		remaining = codec.SecondsToHHMMSS(remainingSecs)
		current = float64(int(float64(watts)/220.0*10)) / 10
	} else {
		watts = 0
	}

	return &StateResponse{
		UnparsedResponse: p.Raw,
		State:            state,
		PowerConsumption: watts,
		ElectricCurrent:  current,
		RemainingTime:    remaining,
		AutoShutdown:     codec.SecondsToHHMMSS(autoShutdownSecs),
	}, nil
}

// ThermostatStateResponse is the type2 get_breeze_state response.
type ThermostatStateResponse struct {
	UnparsedResponse []byte
	State            discovery.State
	CurrentTemp      float64
	TargetTemp       int
	Mode             discovery.ThermostatMode
	FanLevel         discovery.ThermostatFanLevel
	Swing            discovery.ThermostatSwing
}

func parseThermostatStateResponse(p inPacket) (*ThermostatStateResponse, error) {
	if len(p.Body) < 8 {
		return nil, fmt.Errorf("%w: get_breeze_state response too short", switchererr.ErrTransportClosed)
	}
	state := discovery.Off
	if p.Body[1] == 0x01 {
		state = discovery.On
	}
	currentTemp := float64(binary.LittleEndian.Uint16(p.Body[2:4])) / 10.0
	targetTemp := int(p.Body[4])
	mode, _ := discovery.ParseThermostatMode(fmt.Sprintf("%d", p.Body[5]))
	fan := discovery.ParseFanLevel(fmt.Sprintf("%d", p.Body[6]))
	swing := discovery.SwingOff
	if p.Body[7] != 0x00 {
		swing = discovery.SwingOn
	}
	return &ThermostatStateResponse{
		UnparsedResponse: p.Raw,
		State:            state,
		CurrentTemp:      currentTemp,
		TargetTemp:       targetTemp,
		Mode:             mode,
		FanLevel:         fan,
		Swing:            swing,
	}, nil
}

// ShutterStateResponse is the type2 get_shutter_state response.
type ShutterStateResponse struct {
	UnparsedResponse []byte
	Position         int
	Direction        discovery.ShutterDirection
}

func parseShutterStateResponse(p inPacket) (*ShutterStateResponse, error) {
	if len(p.Body) < 3 {
		return nil, fmt.Errorf("%w: get_shutter_state response too short", switchererr.ErrTransportClosed)
	}
	dir := discovery.DirectionStop
	switch p.Body[2] {
	case 0x01:
		dir = discovery.DirectionUp
	case 0x02:
		dir = discovery.DirectionDown
	}
	return &ShutterStateResponse{
		UnparsedResponse: p.Raw,
		Position:         int(p.Body[1]),
		Direction:        dir,
	}, nil
}

// ScheduleRecord is one fixed-width slot of a get_schedules response.
type ScheduleRecord struct {
	SlotID     byte
	Enabled    bool
	Recurrence byte // bit 0: one-shot, bits 1-7: Sun..Sat
	StartTime  uint32
	EndTime    uint32
}

const scheduleRecordLen = 12

// GetSchedulesResponse is the type1 get_schedules response: a
// concatenation of fixed-width records, truncated at the first
// disabled slot.
type GetSchedulesResponse struct {
	UnparsedResponse []byte
	Schedules        []ScheduleRecord
}

func parseGetSchedulesResponse(p inPacket) (*GetSchedulesResponse, error) {
	var out []ScheduleRecord
	body := p.Body
	for len(body) >= scheduleRecordLen {
		rec := ScheduleRecord{
			SlotID:     body[0],
			Enabled:    body[1] != 0x00,
			Recurrence: body[2],
			StartTime:  binary.LittleEndian.Uint32(body[4:8]),
			EndTime:    binary.LittleEndian.Uint32(body[8:12]),
		}
		if !rec.Enabled {
			break
		}
		out = append(out, rec)
		body = body[scheduleRecordLen:]
	}
	return &GetSchedulesResponse{UnparsedResponse: p.Raw, Schedules: out}, nil
}

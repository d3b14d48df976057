package protocol

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/stapelberg/switchergo/switchererr"
)

// Type1Client drives a water heater or power plug: connect, login,
// exactly one request, disconnect, per session (§5 — no pooling).
type Type1Client struct {
	Host      string
	DeviceID  string
	PhoneID   [4]byte
	DeviceKey [4]byte

	// Timeout overrides DefaultTimeout for connect and every read on
	// sessions opened by this client.
	Timeout time.Duration
}

func (c *Type1Client) login(ctx context.Context) (*session, uint32, error) {
	s, err := newSession(ctx, c.Host, c.Timeout)
	if err != nil {
		return nil, 0, err
	}
	token, err := loginType1(s, c.PhoneID, c.DeviceKey, nowSeconds())
	if err != nil {
		s.close()
		return nil, 0, err
	}
	return s, token, nil
}

// GetState queries the device's current on/off state, power draw and
// timers.
func (c *Type1Client) GetState(ctx context.Context) (resp *StateResponse, err error) {
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, "get_state", outPacket{Command: cmdGetState, SessionToken: token, Timestamp: nowSeconds()})
	observe("get_state", err)
	if err != nil {
		return nil, err
	}
	return parseStateResponse(p)
}

// TurnOn switches the device on. minutes == 0 means "no timer" (stay
// on until an explicit TurnOff).
func (c *Type1Client) TurnOn(ctx context.Context, minutes uint32) (resp *BaseResponse, err error) {
	body := make([]byte, 4)
	binary.LittleEndian.PutUint32(body, minutes)
	return c.control(ctx, "turn_on", cmdTurnOn, body)
}

// TurnOff switches the device off.
func (c *Type1Client) TurnOff(ctx context.Context) (resp *BaseResponse, err error) {
	return c.control(ctx, "turn_off", cmdTurnOff, nil)
}

func (c *Type1Client) control(ctx context.Context, op string, cmd uint32, body []byte) (resp *BaseResponse, err error) {
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, op, outPacket{Command: cmd, SessionToken: token, Timestamp: nowSeconds(), Body: body})
	observe(op, err)
	if err != nil {
		return nil, err
	}
	return parseBaseResponse(p)
}

// SetName renames the device. name must be at most 32 bytes.
func (c *Type1Client) SetName(ctx context.Context, name string) (*BaseResponse, error) {
	if len(name) > 32 {
		return nil, &switchererr.InvalidArgumentError{Field: "name", Reason: "must be at most 32 bytes"}
	}
	body := make([]byte, 32)
	copy(body, name)
	return c.control(ctx, "set_name", cmdSetName, body)
}

// SetAutoShutdown configures the device's auto-off timer. d must round
// to a whole minute and fall within [1h, 24h-1m] (i.e. [3600, 86340]
// seconds inclusive), per §4.3.
func (c *Type1Client) SetAutoShutdown(ctx context.Context, d time.Duration) (*BaseResponse, error) {
	secs := uint32(d / time.Second)
	if secs%60 != 0 {
		return nil, &switchererr.InvalidArgumentError{Field: "auto_shutdown", Reason: "must round to a whole minute"}
	}
	if secs < 3600 || secs > 86340 {
		return nil, &switchererr.InvalidArgumentError{Field: "auto_shutdown", Reason: "must be within [1h, 24h)"}
	}
	body := make([]byte, 4)
	binary.LittleEndian.PutUint32(body, secs)
	return c.control(ctx, "set_auto_shutdown", cmdSetAutoShutdown, body)
}

// GetSchedules reads all 8 schedule slots.
func (c *Type1Client) GetSchedules(ctx context.Context) (resp *GetSchedulesResponse, err error) {
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, "get_schedules", outPacket{Command: cmdGetSchedules, SessionToken: token, Timestamp: nowSeconds()})
	observe("get_schedules", err)
	if err != nil {
		return nil, err
	}
	return parseGetSchedulesResponse(p)
}

// DeleteSchedule clears one schedule slot. slotID must be 0..7.
func (c *Type1Client) DeleteSchedule(ctx context.Context, slotID byte) (*BaseResponse, error) {
	if slotID > 7 {
		return nil, &switchererr.InvalidArgumentError{Field: "slot_id", Reason: "must be 0..7"}
	}
	return c.control(ctx, "delete_schedule", cmdDeleteSchedule, []byte{slotID})
}

// CreateSchedule writes a recurring or one-shot schedule. start and end
// are "HH:MM". weekdayMask's bit 0 marks a one-shot schedule; bits 1-7
// mark Sun..Sat for a recurring one.
func (c *Type1Client) CreateSchedule(ctx context.Context, start, end string, weekdayMask byte) (*BaseResponse, error) {
	startMin, err := parseHHMM(start)
	if err != nil {
		return nil, &switchererr.InvalidArgumentError{Field: "start", Reason: err.Error()}
	}
	endMin, err := parseHHMM(end)
	if err != nil {
		return nil, &switchererr.InvalidArgumentError{Field: "end", Reason: err.Error()}
	}
	body := make([]byte, 9)
	body[0] = weekdayMask
	binary.LittleEndian.PutUint32(body[1:5], startMin)
	binary.LittleEndian.PutUint32(body[5:9], endMin)
	return c.control(ctx, "create_schedule", cmdCreateSchedule, body)
}

func parseHHMM(s string) (uint32, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time out of range: %q", s)
	}
	return uint32(h*60 + m), nil
}

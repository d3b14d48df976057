package protocol

import (
	"context"
	"time"

	"github.com/stapelberg/switchergo/remote"
	"github.com/stapelberg/switchergo/switchererr"
)

// Type2Client drives a shutter/Runner or a Breeze thermostat.
type Type2Client struct {
	Host      string
	DeviceID  string
	DeviceKey [8]byte

	Timeout time.Duration
}

func (c *Type2Client) login(ctx context.Context) (*session, uint32, error) {
	s, err := newSession(ctx, c.Host, c.Timeout)
	if err != nil {
		return nil, 0, err
	}
	token, err := loginType2(s, c.DeviceKey, c.DeviceID, nowSeconds())
	if err != nil {
		s.close()
		return nil, 0, err
	}
	return s, token, nil
}

// GetBreezeState queries the thermostat's current state.
func (c *Type2Client) GetBreezeState(ctx context.Context) (*ThermostatStateResponse, error) {
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, "get_breeze_state", outPacket{Command: cmdGetBreezeState, SessionToken: token, Timestamp: nowSeconds()})
	observe("get_breeze_state", err)
	if err != nil {
		return nil, err
	}
	return parseThermostatStateResponse(p)
}

// ControlBreezeDevice sends a synthesized Breeze IR command (as
// produced by remote.Remote.GetCommand / GetSwingCommand) to the
// device.
func (c *Type2Client) ControlBreezeDevice(ctx context.Context, cmd remote.Command) (*BaseResponse, error) {
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, "control_breeze", outPacket{Command: cmdControlBreeze, SessionToken: token, Timestamp: nowSeconds(), Body: cmd.Bytes()})
	observe("control_breeze", err)
	if err != nil {
		return nil, err
	}
	return parseBaseResponse(p)
}

// GetShutterState queries the shutter's current position and motion.
func (c *Type2Client) GetShutterState(ctx context.Context) (*ShutterStateResponse, error) {
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, "get_shutter_state", outPacket{Command: cmdGetShutterState, SessionToken: token, Timestamp: nowSeconds()})
	observe("get_shutter_state", err)
	if err != nil {
		return nil, err
	}
	return parseShutterStateResponse(p)
}

// SetPosition drives the shutter to an absolute position in [0, 100].
func (c *Type2Client) SetPosition(ctx context.Context, position int) (*BaseResponse, error) {
	if position < 0 || position > 100 {
		return nil, &switchererr.InvalidArgumentError{Field: "position", Reason: "must be within [0, 100]"}
	}
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, "set_position", outPacket{Command: cmdSetPosition, SessionToken: token, Timestamp: nowSeconds(), Body: []byte{byte(position)}})
	observe("set_position", err)
	if err != nil {
		return nil, err
	}
	return parseBaseResponse(p)
}

// Stop halts the shutter's current motion.
func (c *Type2Client) Stop(ctx context.Context) (*BaseResponse, error) {
	s, token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()
	p, err := operation(s, "stop", outPacket{Command: cmdStop, SessionToken: token, Timestamp: nowSeconds()})
	observe("stop", err)
	if err != nil {
		return nil, err
	}
	return parseBaseResponse(p)
}

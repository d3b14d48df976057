package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/stapelberg/switchergo/discovery"
	"github.com/stapelberg/switchergo/protocol"
	"github.com/stapelberg/switchergo/remote"
)

func runControl(ctx context.Context, args []string) error {
	fs := newFlagSet("control")
	deviceType := fs.String("type", "", "water_heater|power_plug|shutter|thermostat")
	action := fs.String("action", "", "turn_on|turn_off|set_position|stop|set_breeze")
	host := fs.String("host", "", "device host or host:port")
	deviceID := fs.String("device_id", "", "device id (hex, as seen in discovery)")
	phoneID := fs.String("phone_id", "00000000", "8 hex chars, type1 devices only")
	deviceKey := fs.String("device_key", "", "device key: 8 hex chars (type1) or 16 hex chars (type2)")
	timeout := fs.Duration("timeout", protocol.DefaultTimeout, "connect/read timeout")
	minutes := fs.Uint("minutes", 0, "turn_on timer, 0 = no timer")
	position := fs.Int("position", 0, "set_position target, 0..100")
	remotePath := fs.String("remote_db", "", "path to a remote database JSON, empty uses the bundled default")
	remoteID := fs.String("remote_id", "", "remote id to look up in the remote database, required for set_breeze")
	mode := fs.String("mode", "cool", "breeze mode: auto|dry|fan|cool|heat")
	fan := fs.String("fan", "auto", "breeze fan level: auto|low|medium|high")
	swing := fs.Bool("swing", false, "breeze swing on")
	temp := fs.Int("temp", 24, "breeze target temperature")
	power := fs.Bool("on", true, "breeze target power state for set_breeze")
	fs.Parse(args)

	if *host == "" || *deviceID == "" {
		return fmt.Errorf("-host and -device_id are required")
	}

	switch *deviceType {
	case "water_heater", "power_plug":
		ph, err := parseHex4("phone_id", *phoneID)
		if err != nil {
			return err
		}
		key, err := parseHex4("device_key", *deviceKey)
		if err != nil {
			return err
		}
		c := &protocol.Type1Client{Host: *host, DeviceID: *deviceID, PhoneID: ph, DeviceKey: key, Timeout: *timeout}
		switch *action {
		case "turn_on":
			_, err = c.TurnOn(ctx, uint32(*minutes))
		case "turn_off":
			_, err = c.TurnOff(ctx)
		default:
			return fmt.Errorf("-action %q not valid for -type %s", *action, *deviceType)
		}
		if err != nil {
			return err
		}
		color.Green("ok")
		return nil

	case "shutter":
		key, err := parseHex8("device_key", *deviceKey)
		if err != nil {
			return err
		}
		c := &protocol.Type2Client{Host: *host, DeviceID: *deviceID, DeviceKey: key, Timeout: *timeout}
		switch *action {
		case "set_position":
			_, err = c.SetPosition(ctx, *position)
		case "stop":
			_, err = c.Stop(ctx)
		default:
			return fmt.Errorf("-action %q not valid for -type %s", *action, *deviceType)
		}
		if err != nil {
			return err
		}
		color.Green("ok")
		return nil

	case "thermostat":
		if *action != "set_breeze" {
			return fmt.Errorf("-action %q not valid for -type %s", *action, *deviceType)
		}
		if *remoteID == "" {
			return fmt.Errorf("-remote_id is required for set_breeze")
		}
		key, err := parseHex8("device_key", *deviceKey)
		if err != nil {
			return err
		}
		mgr, err := remote.NewManager(*remotePath)
		if err != nil {
			return fmt.Errorf("loading remote database: %w", err)
		}
		rem, err := mgr.GetRemote(*remoteID)
		if err != nil {
			return err
		}
		modeVal, fanVal, err := parseBreezeModeFan(*mode, *fan)
		if err != nil {
			return err
		}
		swingVal := discovery.SwingOff
		if *swing {
			swingVal = discovery.SwingOn
		}
		targetPower := discovery.Off
		if *power {
			targetPower = discovery.On
		}

		c := &protocol.Type2Client{Host: *host, DeviceID: *deviceID, DeviceKey: key, Timeout: *timeout}
		current, err := c.GetBreezeState(ctx)
		if err != nil {
			return fmt.Errorf("reading current state before composing command: %w", err)
		}
		cmd, err := rem.GetCommand(targetPower, modeVal, *temp, fanVal, swingVal, current.State)
		if err != nil {
			return err
		}
		if _, err := c.ControlBreezeDevice(ctx, cmd); err != nil {
			return err
		}
		color.Green("ok")
		return nil

	default:
		return fmt.Errorf("-type must be one of water_heater, power_plug, shutter, thermostat, got %q", *deviceType)
	}
}

func parseBreezeModeFan(mode, fan string) (discovery.ThermostatMode, discovery.ThermostatFanLevel, error) {
	modes := map[string]discovery.ThermostatMode{
		"auto": discovery.ModeAuto,
		"dry":  discovery.ModeDry,
		"fan":  discovery.ModeFan,
		"cool": discovery.ModeCool,
		"heat": discovery.ModeHeat,
	}
	fans := map[string]discovery.ThermostatFanLevel{
		"auto":   discovery.FanAuto,
		"low":    discovery.FanLow,
		"medium": discovery.FanMedium,
		"high":   discovery.FanHigh,
	}
	m, ok := modes[mode]
	if !ok {
		return 0, 0, fmt.Errorf("-mode must be one of auto, dry, fan, cool, heat, got %q", mode)
	}
	f, ok := fans[fan]
	if !ok {
		return 0, 0, fmt.Errorf("-fan must be one of auto, low, medium, high, got %q", fan)
	}
	return m, f, nil
}

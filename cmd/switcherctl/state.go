package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/stapelberg/switchergo/protocol"
)

func runState(ctx context.Context, args []string) error {
	fs := newFlagSet("state")
	deviceType := fs.String("type", "", "water_heater|power_plug|shutter|thermostat")
	host := fs.String("host", "", "device host or host:port")
	deviceID := fs.String("device_id", "", "device id (hex, as seen in discovery)")
	phoneID := fs.String("phone_id", "00000000", "8 hex chars, type1 devices only")
	deviceKey := fs.String("device_key", "", "device key: 8 hex chars (type1) or 16 hex chars (type2)")
	timeout := fs.Duration("timeout", protocol.DefaultTimeout, "connect/read timeout")
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
		st, err := c.GetState(ctx)
		if err != nil {
			return err
		}
		color.Green("state=%s power=%dW current=%.1fA remaining=%s auto_shutdown=%s",
			st.State, st.PowerConsumption, st.ElectricCurrent, st.RemainingTime, st.AutoShutdown)
		return nil

	case "shutter":
		key, err := parseHex8("device_key", *deviceKey)
		if err != nil {
			return err
		}
		c := &protocol.Type2Client{Host: *host, DeviceID: *deviceID, DeviceKey: key, Timeout: *timeout}
		st, err := c.GetShutterState(ctx)
		if err != nil {
			return err
		}
		color.Blue("position=%d direction=%s", st.Position, st.Direction)
		return nil

	case "thermostat":
		key, err := parseHex8("device_key", *deviceKey)
		if err != nil {
			return err
		}
		c := &protocol.Type2Client{Host: *host, DeviceID: *deviceID, DeviceKey: key, Timeout: *timeout}
		st, err := c.GetBreezeState(ctx)
		if err != nil {
			return err
		}
		color.Magenta("state=%s mode=%s fan=%s swing=%s current=%.1fC target=%dC",
			st.State, st.Mode, st.FanLevel, st.Swing, st.CurrentTemp, st.TargetTemp)
		return nil

	default:
		return fmt.Errorf("-type must be one of water_heater, power_plug, shutter, thermostat, got %q", *deviceType)
	}
}

package remote

import (
	"errors"
	"testing"

	"github.com/stapelberg/switchergo/discovery"
	"github.com/stapelberg/switchergo/internal/codec"
	"github.com/stapelberg/switchergo/switchererr"
)

func mustManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

// TestS5_BreezeOffOnToggleRemote covers spec scenario S5.
func TestS5_BreezeOffOnToggleRemote(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7001")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	cmd, err := r.GetCommand(discovery.Off, discovery.ModeDry, 20, discovery.FanHigh, discovery.SwingOn, discovery.On)
	if err != nil {
		t.Fatalf("GetCommand: %v", err)
	}
	if cmd.Hex() != r.toggleCommand {
		t.Errorf("GetCommand = %q, want stored toggle command %q", cmd.Hex(), r.toggleCommand)
	}
}

// TestS6_SwingOnNonSwingRemote covers spec scenario S6.
func TestS6_SwingOnNonSwingRemote(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7001")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	_, err = r.GetSwingCommand(discovery.SwingOn)
	var swingErr *switchererr.SwingNotApplicableError
	if !errors.As(err, &swingErr) {
		t.Fatalf("err = %v, want SwingNotApplicableError", err)
	}
	if swingErr.RemoteID != "ELEC7001" {
		t.Errorf("RemoteID = %q, want ELEC7001", swingErr.RemoteID)
	}
	if !errors.Is(err, switchererr.ErrSwingNotApplicable) {
		t.Errorf("errors.Is(err, ErrSwingNotApplicable) = false")
	}
}

// TestProperty6_TemperatureClamp covers testable property 6: the
// synthesiser clamps target_temp into [min, max] before lookup.
func TestProperty6_TemperatureClamp(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7022")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	low, err := r.GetCommand(discovery.On, discovery.ModeCool, -50, discovery.FanAuto, discovery.SwingOff, discovery.On)
	if err != nil {
		t.Fatalf("GetCommand(low): %v", err)
	}
	atMin, err := r.GetCommand(discovery.On, discovery.ModeCool, r.MinTemperature(), discovery.FanAuto, discovery.SwingOff, discovery.On)
	if err != nil {
		t.Fatalf("GetCommand(atMin): %v", err)
	}
	if low.Hex() != atMin.Hex() {
		t.Errorf("clamp(-50) produced a different payload than clamp(min)")
	}

	high, err := r.GetCommand(discovery.On, discovery.ModeCool, 999, discovery.FanAuto, discovery.SwingOff, discovery.On)
	if err != nil {
		t.Fatalf("GetCommand(high): %v", err)
	}
	atMax, err := r.GetCommand(discovery.On, discovery.ModeCool, r.MaxTemperature(), discovery.FanAuto, discovery.SwingOff, discovery.On)
	if err != nil {
		t.Fatalf("GetCommand(atMax): %v", err)
	}
	if high.Hex() != atMax.Hex() {
		t.Errorf("clamp(999) produced a different payload than clamp(max)")
	}
}

// TestProperty7_UnsupportedMode covers testable property 7.
func TestProperty7_UnsupportedMode(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7022")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	_, err = r.GetCommand(discovery.On, discovery.ModeHeat, 20, discovery.FanAuto, discovery.SwingOff, discovery.On)
	var modeErr *switchererr.UnsupportedModeError
	if !errors.As(err, &modeErr) {
		t.Fatalf("err = %v, want UnsupportedModeError", err)
	}
	if len(modeErr.Available) == 0 {
		t.Errorf("Available modes list is empty")
	}
}

// TestProperty8_ToggleIdempotence covers testable property 8.
func TestProperty8_ToggleIdempotence(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7001")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	a, err := r.GetCommand(discovery.Off, discovery.ModeDry, 20, discovery.FanHigh, discovery.SwingOff, discovery.Off)
	if err != nil {
		t.Fatalf("GetCommand (first): %v", err)
	}
	b, err := r.GetCommand(discovery.Off, discovery.ModeDry, 20, discovery.FanHigh, discovery.SwingOff, discovery.Off)
	if err != nil {
		t.Fatalf("GetCommand (second): %v", err)
	}
	if a.Hex() != b.Hex() {
		t.Errorf("toggle command not idempotent: %q != %q", a.Hex(), b.Hex())
	}
}

func TestGetCommand_NonToggleExplicitOff(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7022")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	cmd, err := r.GetCommand(discovery.Off, discovery.ModeCool, 24, discovery.FanAuto, discovery.SwingOff, discovery.On)
	if err != nil {
		t.Fatalf("GetCommand: %v", err)
	}
	if cmd.Hex() != r.offCommand {
		t.Errorf("GetCommand = %q, want stored off command %q", cmd.Hex(), r.offCommand)
	}
}

func TestGetSwingCommand_IndependentRemote(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7022")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	on, err := r.GetSwingCommand(discovery.SwingOn)
	if err != nil {
		t.Fatalf("GetSwingCommand(on): %v", err)
	}
	if on.Hex() != r.swingOnCommand {
		t.Errorf("GetSwingCommand(on) = %q, want %q", on.Hex(), r.swingOnCommand)
	}
	off, err := r.GetSwingCommand(discovery.SwingOff)
	if err != nil {
		t.Fatalf("GetSwingCommand(off): %v", err)
	}
	if off.Hex() == on.Hex() {
		t.Errorf("swing on/off commands are identical")
	}
}

func TestGetCommand_AssembledPayloadCRCVerifies(t *testing.T) {
	m := mustManager(t)
	r, err := m.GetRemote("ELEC7022")
	if err != nil {
		t.Fatalf("GetRemote: %v", err)
	}
	cmd, err := r.GetCommand(discovery.On, discovery.ModeCool, 24, discovery.FanAuto, discovery.SwingOff, discovery.On)
	if err != nil {
		t.Fatalf("GetCommand: %v", err)
	}
	if len(cmd.Bytes()) < 4+1+2 {
		t.Fatalf("payload too short: %d bytes", len(cmd.Bytes()))
	}
	if !codec.VerifyCRC(cmd.Bytes()) {
		t.Errorf("assembled payload fails CRC verification")
	}
}

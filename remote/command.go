package remote

import (
	"encoding/hex"
	"fmt"

	"github.com/stapelberg/switchergo/discovery"
	"github.com/stapelberg/switchergo/internal/codec"
	"github.com/stapelberg/switchergo/switchererr"
)

// Command is a synthesized Breeze IR payload, ready to be carried as
// the body of a control_breeze_device request.
type Command struct {
	bytes []byte
}

// Bytes returns the raw payload.
func (c Command) Bytes() []byte { return c.bytes }

// Hex returns the payload as a lowercase hex string, as sent on the
// wire.
func (c Command) Hex() string { return hex.EncodeToString(c.bytes) }

func fragmentBytes(hexFragment string) ([]byte, error) {
	b, err := hex.DecodeString(hexFragment)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed command fragment: %v", switchererr.ErrInvalidRemoteDefinition, err)
	}
	return b, nil
}

// breezeHeader is the fixed 4-byte zero prefix every Breeze IR payload
// carries ahead of its key-length byte and fragment.
var breezeHeader = [4]byte{0x00, 0x00, 0x00, 0x00}

// assemble builds header + key-length byte + fragment + CRC16, per the
// non-toggle, non-cached command path.
func assemble(fragment []byte) (Command, error) {
	body := make([]byte, 0, 4+1+len(fragment)+2)
	body = append(body, breezeHeader[:]...)
	if len(fragment) > 0xff {
		return Command{}, fmt.Errorf("%w: fragment too long (%d bytes)", switchererr.ErrInvalidRemoteDefinition, len(fragment))
	}
	body = append(body, byte(len(fragment)))
	body = append(body, fragment...)
	return Command{bytes: codec.AppendCRC(body)}, nil
}

// rawCommand wraps a pre-assembled, complete hex payload as stored in
// the database (toggle, off, and independent-swing commands are
// already whole on-the-wire payloads, not fragments).
func rawCommand(hexPayload string) (Command, error) {
	b, err := fragmentBytes(hexPayload)
	if err != nil {
		return Command{}, err
	}
	return Command{bytes: b}, nil
}

func clamp(temp, min, max int) int {
	if temp < min {
		return min
	}
	if temp > max {
		return max
	}
	return temp
}

// GetCommand synthesizes the Breeze payload for the requested climate
// state, following the remote's on/off and swing conventions:
//
//  1. mode must be one this remote supports, else UnsupportedModeError.
//  2. targetTemp is silently clamped to [MinTemperature, MaxTemperature].
//  3. on a toggle-style remote, turning off replays the cached toggle
//     command unchanged whatever currentPower is, and turning on while
//     currentPower is off replays the same toggle command (no state is
//     re-derived in either case).
//  4. on a separate on/off remote, turning off emits the explicit off
//     command, ignoring mode/fan/temp/swing.
//  5. otherwise the (mode, fan, targetTemp) fragment is looked up —
//     selecting the swing-on or swing-off variant when this remote's
//     swing control is inline — and assembled into a full payload.
func (r *Remote) GetCommand(power discovery.State, mode discovery.ThermostatMode, targetTemp int, fan discovery.ThermostatFanLevel, swing discovery.ThermostatSwing, currentPower discovery.State) (Command, error) {
	entry, ok := r.modes[mode]
	if !ok {
		return Command{}, &switchererr.UnsupportedModeError{
			Mode:      mode.String(),
			Available: modeStrings(r.supportedOrder),
		}
	}

	targetTemp = clamp(targetTemp, r.minTemperature, r.maxTemperature)

	if power == discovery.Off {
		if r.onOffType == onOffToggle {
			if currentPower == discovery.Off {
				return rawCommand(r.toggleCommand)
			}
			return rawCommand(r.toggleCommand)
		}
		return rawCommand(r.offCommand)
	}
	if r.onOffType == onOffToggle && currentPower == discovery.Off {
		// Turning on from off replays the same toggle command.
		return rawCommand(r.toggleCommand)
	}

	fanLevels := entry.commands
	byTemp, ok := fanLevels[fan]
	if !ok {
		return Command{}, &switchererr.InvalidArgumentError{Field: "fan", Reason: fmt.Sprintf("not supported in mode %q", mode)}
	}
	variants, ok := byTemp[targetTemp]
	if !ok {
		return Command{}, &switchererr.InvalidArgumentError{Field: "target_temp", Reason: fmt.Sprintf("no command for %d in mode %q fan %q", targetTemp, mode, fan)}
	}

	var fragmentHex string
	switch r.swingType {
	case swingInline:
		if swing == discovery.SwingOn {
			fragmentHex = variants.on
		} else {
			fragmentHex = variants.off
		}
	default:
		fragmentHex = variants.plain
	}
	if fragmentHex == "" {
		return Command{}, fmt.Errorf("%w: missing fragment for mode %q fan %q temp %d", switchererr.ErrInvalidRemoteDefinition, mode, fan, targetTemp)
	}

	fragment, err := fragmentBytes(fragmentHex)
	if err != nil {
		return Command{}, err
	}
	return assemble(fragment)
}

// GetSwingCommand returns the stored independent-swing command. It
// fails with a SwingNotApplicableError unless the remote's swing
// control is independent of its mode/fan/temp commands.
func (r *Remote) GetSwingCommand(swing discovery.ThermostatSwing) (Command, error) {
	if r.swingType != swingIndependent {
		return Command{}, &switchererr.SwingNotApplicableError{RemoteID: r.id}
	}
	if swing == discovery.SwingOn {
		return rawCommand(r.swingOnCommand)
	}
	return rawCommand(r.swingOffCommand)
}

func modeStrings(modes []discovery.ThermostatMode) []string {
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = m.String()
	}
	return out
}

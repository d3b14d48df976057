// Package remote loads Switcher Breeze IR-remote definitions and
// synthesises control payloads for a requested climate state.
package remote

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stapelberg/switchergo/discovery"
	"github.com/stapelberg/switchergo/switchererr"
)

//go:embed data/default_remotes.json
var embeddedFS embed.FS

const embeddedPath = "data/default_remotes.json"

// onOffType and swingType mirror the JSON schema's string enums.
type onOffType string

const (
	onOffToggle  onOffType = "toggle"
	onOffSeparate onOffType = "separate"
)

type swingType string

const (
	swingInline      swingType = "inline"
	swingIndependent swingType = "independent"
	swingNone        swingType = "none"
)

// fileModeDef is one entry of a remote's "supported_modes" array.
type fileModeDef struct {
	Mode      string                       `json:"mode"`
	FanLevels []string                     `json:"fan_levels"`
	// Commands[fanLevel][tempKey] = hex fragment (no header/CRC). For
	// SwingType "inline" remotes, tempKey is "<temp>:on" / "<temp>:off";
	// otherwise tempKey is the bare temperature, e.g. "24".
	Commands map[string]map[string]string `json:"commands"`
}

// fileRemoteDef is the on-disk shape of one remote_id's value.
type fileRemoteDef struct {
	MinTemperature  int           `json:"min_temperature"`
	MaxTemperature  int           `json:"max_temperature"`
	OnOffType       onOffType     `json:"on_off_type"`
	SwingType       swingType     `json:"swing_type"`
	ToggleCommand   string        `json:"toggle_command,omitempty"`
	OffCommand      string        `json:"off_command,omitempty"`
	SwingOnCommand  string        `json:"swing_on_command,omitempty"`
	SwingOffCommand string        `json:"swing_off_command,omitempty"`
	SupportedModes  []fileModeDef `json:"supported_modes"`
}

// Remote is an immutable, validated IR-remote definition.
type Remote struct {
	id             string
	minTemperature int
	maxTemperature int
	onOffType      onOffType
	swingType      swingType
	toggleCommand  string
	offCommand     string
	swingOnCommand string
	swingOffCommand string

	modes map[discovery.ThermostatMode]modeEntry
	// supportedOrder preserves the database's declared order for
	// error messages ("available modes for this device are: ...").
	supportedOrder []discovery.ThermostatMode
}

type modeEntry struct {
	fanLevels map[discovery.ThermostatFanLevel]bool
	commands  map[discovery.ThermostatFanLevel]map[int]swingVariants
}

type swingVariants struct {
	plain string
	on    string
	off   string
}

// RemoteID returns the remote_id this definition was loaded under.
func (r *Remote) RemoteID() string { return r.id }

// MinTemperature is the lowest target temperature supported by any
// mode of this remote.
func (r *Remote) MinTemperature() int { return r.minTemperature }

// MaxTemperature is the highest target temperature supported by any
// mode of this remote.
func (r *Remote) MaxTemperature() int { return r.maxTemperature }

// SupportedModes lists the thermostat modes this remote can drive, in
// database declaration order.
func (r *Remote) SupportedModes() []discovery.ThermostatMode {
	out := make([]discovery.ThermostatMode, len(r.supportedOrder))
	copy(out, r.supportedOrder)
	return out
}

var modeNames = map[string]discovery.ThermostatMode{
	"auto": discovery.ModeAuto,
	"dry":  discovery.ModeDry,
	"fan":  discovery.ModeFan,
	"cool": discovery.ModeCool,
	"heat": discovery.ModeHeat,
}

var fanNames = map[string]discovery.ThermostatFanLevel{
	"auto":   discovery.FanAuto,
	"low":    discovery.FanLow,
	"medium": discovery.FanMedium,
	"high":   discovery.FanHigh,
}

func parseRemote(id string, fd fileRemoteDef) (*Remote, error) {
	if fd.MinTemperature <= 0 || fd.MaxTemperature <= 0 || fd.MinTemperature > fd.MaxTemperature {
		return nil, fmt.Errorf("%w: %s: invalid temperature bounds [%d, %d]",
			switchererr.ErrInvalidRemoteDefinition, id, fd.MinTemperature, fd.MaxTemperature)
	}
	switch fd.OnOffType {
	case onOffToggle, onOffSeparate:
	default:
		return nil, fmt.Errorf("%w: %s: invalid on_off_type %q", switchererr.ErrInvalidRemoteDefinition, id, fd.OnOffType)
	}
	switch fd.SwingType {
	case swingInline, swingIndependent, swingNone:
	default:
		return nil, fmt.Errorf("%w: %s: invalid swing_type %q", switchererr.ErrInvalidRemoteDefinition, id, fd.SwingType)
	}
	if fd.OnOffType == onOffToggle && fd.ToggleCommand == "" {
		return nil, fmt.Errorf("%w: %s: toggle remote missing toggle_command", switchererr.ErrInvalidRemoteDefinition, id)
	}
	if fd.OnOffType == onOffSeparate && fd.OffCommand == "" {
		return nil, fmt.Errorf("%w: %s: separate remote missing off_command", switchererr.ErrInvalidRemoteDefinition, id)
	}
	if fd.SwingType == swingIndependent && (fd.SwingOnCommand == "" || fd.SwingOffCommand == "") {
		return nil, fmt.Errorf("%w: %s: independent-swing remote missing swing commands", switchererr.ErrInvalidRemoteDefinition, id)
	}

	r := &Remote{
		id:              id,
		minTemperature:  fd.MinTemperature,
		maxTemperature:  fd.MaxTemperature,
		onOffType:       fd.OnOffType,
		swingType:       fd.SwingType,
		toggleCommand:   fd.ToggleCommand,
		offCommand:      fd.OffCommand,
		swingOnCommand:  fd.SwingOnCommand,
		swingOffCommand: fd.SwingOffCommand,
		modes:           make(map[discovery.ThermostatMode]modeEntry),
	}

	for _, fm := range fd.SupportedModes {
		mode, ok := modeNames[fm.Mode]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown mode %q", switchererr.ErrInvalidRemoteDefinition, id, fm.Mode)
		}
		entry := modeEntry{
			fanLevels: make(map[discovery.ThermostatFanLevel]bool),
			commands:  make(map[discovery.ThermostatFanLevel]map[int]swingVariants),
		}
		for _, fn := range fm.FanLevels {
			fan, ok := fanNames[fn]
			if !ok {
				return nil, fmt.Errorf("%w: %s: unknown fan level %q", switchererr.ErrInvalidRemoteDefinition, id, fn)
			}
			entry.fanLevels[fan] = true
		}
		for fanName, tempMap := range fm.Commands {
			fan, ok := fanNames[fanName]
			if !ok {
				return nil, fmt.Errorf("%w: %s: unknown fan level %q in commands", switchererr.ErrInvalidRemoteDefinition, id, fanName)
			}
			if entry.commands[fan] == nil {
				entry.commands[fan] = make(map[int]swingVariants)
			}
			for tempKey, frag := range tempMap {
				temp, variant, err := splitTempKey(tempKey)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %v", switchererr.ErrInvalidRemoteDefinition, id, err)
				}
				sv := entry.commands[fan][temp]
				switch variant {
				case "on":
					sv.on = frag
				case "off":
					sv.off = frag
				default:
					sv.plain = frag
				}
				entry.commands[fan][temp] = sv
			}
		}
		r.modes[mode] = entry
		r.supportedOrder = append(r.supportedOrder, mode)
	}

	return r, nil
}

func splitTempKey(key string) (temp int, variant string, err error) {
	plain := key
	if len(key) > 3 && (key[len(key)-3:] == ":on" || key[len(key)-4:] == ":off") {
		if key[len(key)-3:] == ":on" {
			plain, variant = key[:len(key)-3], "on"
		} else {
			plain, variant = key[:len(key)-4], "off"
		}
	}
	if _, err := fmt.Sscanf(plain, "%d", &temp); err != nil {
		return 0, "", fmt.Errorf("invalid temperature key %q", key)
	}
	return temp, variant, nil
}

// Manager loads and serves Switcher Breeze remote definitions. It is
// immutable after construction and safe for concurrent use.
type Manager struct {
	remotes map[string]*Remote
}

// NewManager loads the remote database from path. An empty path loads
// the bundled default database. If path is non-empty and does not
// exist, NewManager fails with switchererr.ErrNotFound.
func NewManager(path string) (*Manager, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = embeddedFS.ReadFile(embeddedPath)
		if err != nil {
			return nil, fmt.Errorf("reading embedded remote database: %w", err)
		}
	} else {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("%w: %s", switchererr.ErrNotFound, path)
		}
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading remote database %s: %w", path, err)
		}
	}

	var fileDB map[string]fileRemoteDef
	if err := json.Unmarshal(raw, &fileDB); err != nil {
		return nil, fmt.Errorf("%w: %v", switchererr.ErrInvalidRemoteDefinition, err)
	}

	remotes := make(map[string]*Remote, len(fileDB))
	for id, fd := range fileDB {
		r, err := parseRemote(id, fd)
		if err != nil {
			return nil, err
		}
		remotes[id] = r
	}

	return &Manager{remotes: remotes}, nil
}

// GetRemote returns the remote definition for remoteID, or
// switchererr.ErrUnknownRemote if it is not present in the database.
func (m *Manager) GetRemote(remoteID string) (*Remote, error) {
	r, ok := m.remotes[remoteID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", switchererr.ErrUnknownRemote, remoteID)
	}
	return r, nil
}

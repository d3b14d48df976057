package discovery

// Family distinguishes the two login/framing shapes used by the
// protocol: type1 (water heaters, power plugs) listens for broadcasts
// on port 20002 and type2 (shutters, Breeze thermostats) on 20003.
type Family int

const (
	Type1 Family = iota
	Type2
)

func (f Family) String() string {
	switch f {
	case Type1:
		return "type1"
	case Type2:
		return "type2"
	default:
		return "unknown"
	}
}

// Category is the application-facing device grouping.
type Category int

const (
	CategoryWaterHeater Category = iota
	CategoryPowerPlug
	CategoryShutter
	CategoryThermostat
)

func (c Category) String() string {
	switch c {
	case CategoryWaterHeater:
		return "water_heater"
	case CategoryPowerPlug:
		return "power_plug"
	case CategoryShutter:
		return "shutter"
	case CategoryThermostat:
		return "thermostat"
	default:
		return "unknown"
	}
}

// DeviceType is the tagged variant (model_code, protocol_family,
// category) spec.md's "Enum-of-enums" note asks for instead of
// inheritance.
type DeviceType struct {
	Name     string
	HexRep   string // 4-hex-digit model code, lowercase
	Family   Family
	Category Category
}

// deviceTypes is the static model-code lookup table, built once at
// package init instead of per call (spec.md's "Dynamic model-code
// dispatch" design note).
var deviceTypes = []DeviceType{
	{Name: "MINI", HexRep: "0001", Family: Type1, Category: CategoryWaterHeater},
	{Name: "TOUCH", HexRep: "0002", Family: Type1, Category: CategoryWaterHeater},
	{Name: "V2_ESP", HexRep: "0003", Family: Type1, Category: CategoryWaterHeater},
	{Name: "V4", HexRep: "0004", Family: Type1, Category: CategoryWaterHeater},
	{Name: "V2_QCA", HexRep: "0100", Family: Type1, Category: CategoryWaterHeater},
	{Name: "POWER_PLUG", HexRep: "a601", Family: Type1, Category: CategoryPowerPlug},
	{Name: "RUNNER", HexRep: "0200", Family: Type2, Category: CategoryShutter},
	{Name: "RUNNER_MINI", HexRep: "0201", Family: Type2, Category: CategoryShutter},
	{Name: "BREEZE", HexRep: "0300", Family: Type2, Category: CategoryThermostat},
}

var deviceTypesByHex = func() map[string]DeviceType {
	m := make(map[string]DeviceType, len(deviceTypes))
	for _, dt := range deviceTypes {
		m[dt.HexRep] = dt
	}
	return m
}()

// LookupDeviceType resolves a 4-hex-digit model code to its
// DeviceType. The bool is false when the code is unknown.
func LookupDeviceType(hexRep string) (DeviceType, bool) {
	dt, ok := deviceTypesByHex[hexRep]
	return dt, ok
}

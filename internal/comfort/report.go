package comfort

// Level is a qualitative band for one indicator.
type Level string

// DI bands.
const (
	Comfortable       Level = "comfortable"
	Caution           Level = "caution"
	Uncomfortable     Level = "uncomfortable"
	VeryUncomfortable Level = "very_uncomfortable"
)

// Heat index bands.
const (
	Cool   Level = "cool"
	Warm   Level = "warm"
	Hot    Level = "hot"
	Danger Level = "danger"
)

// Load and power bands.
const (
	Low      Level = "low"
	Moderate Level = "moderate"
	High     Level = "high"
)

// DILevel classifies a discomfort index.
func DILevel(di float64) Level {
	switch {
	case di < 68:
		return Comfortable
	case di < 72:
		return Caution
	case di < 75:
		return Uncomfortable
	default:
		return VeryUncomfortable
	}
}

// HeatIndexLevel classifies a heat index in °C.
func HeatIndexLevel(hi float64) Level {
	switch {
	case hi < 27:
		return Cool
	case hi < 32:
		return Warm
	case hi < 41:
		return Hot
	default:
		return Danger
	}
}

// CoolingLoadLevel classifies a cooling load index in kJ/kg.
func CoolingLoadLevel(cli float64) Level {
	switch {
	case cli < 5:
		return Low
	case cli < 15:
		return Moderate
	default:
		return High
	}
}

// CoolingPowerLevel classifies an estimated cooling power in kW.
func CoolingPowerLevel(kw float64) Level {
	switch {
	case kw < 1:
		return Low
	case kw < 3:
		return Moderate
	default:
		return High
	}
}

// Report bundles every indicator for one reading.
type Report struct {
	TempC            float64 `json:"temp_c"`
	RH               float64 `json:"rh"`
	DI               float64 `json:"di"`
	DILevel          Level   `json:"di_level"`
	HeatIndexC       float64 `json:"heat_index_c"`
	HeatIndexLevel   Level   `json:"heat_index_level"`
	EnthalpyKJ       float64 `json:"enthalpy_kj_kg"`
	CoolingLoad      float64 `json:"cooling_load_kj_kg"`
	CoolingLoadLevel Level   `json:"cooling_load_level"`
	CoolingPowerKW   float64 `json:"cooling_power_kw"`
	PowerLevel       Level   `json:"cooling_power_level"`
}

// Assess computes a Report for temperature t and relative humidity rh.
func Assess(t, rh float64) Report {
	di := DI(t, rh)
	hi := HeatIndex(t, rh)
	cli := CoolingLoadIndex(t, rh)
	kw := CoolingPower(cli, DefaultMassFlow)
	return Report{
		TempC:            t,
		RH:               rh,
		DI:               di,
		DILevel:          DILevel(di),
		HeatIndexC:       hi,
		HeatIndexLevel:   HeatIndexLevel(hi),
		EnthalpyKJ:       Enthalpy(t, rh),
		CoolingLoad:      cli,
		CoolingLoadLevel: CoolingLoadLevel(cli),
		CoolingPowerKW:   kw,
		PowerLevel:       CoolingPowerLevel(kw),
	}
}

// Package comfort computes thermal-comfort indicators from air temperature
// (°C) and relative humidity (%). All functions are pure.
package comfort

import "math"

// minRHSensitivity floors DIPerPercentRH so callers can divide by it when
// 0.99*T - 14.3 is zero or negative.
const minRHSensitivity = 1e-6

// The DI helpers round every product on its own through explicit float64
// conversions, which rules out fused multiply-add. Decisions then come out
// identical on every platform, including near the dry-mode threshold.

// DI returns the discomfort index for temperature t and relative humidity rh.
func DI(t, rh float64) float64 {
	humid := float64(float64(0.01*rh) * humidFactor(t))
	return float64(0.81*t) + humid + 46.3
}

// DIPerDegree is dDI/dT: how much DI drops per 1 °C of cooling.
func DIPerDegree(rh float64) float64 {
	return 0.81 + float64(0.0099*rh)
}

// DIPerPercentRH is dDI/dRH: how much DI drops per 1 %RH of drying.
func DIPerPercentRH(t float64) float64 {
	return math.Max(float64(0.01*humidFactor(t)), minRHSensitivity)
}

func humidFactor(t float64) float64 {
	return float64(0.99*t) - 14.3
}

// HeatIndex returns the NOAA heat index approximation in °C. When the
// polynomial falls below the air temperature the air temperature is returned.
func HeatIndex(t, rh float64) float64 {
	hi := -8.784695 +
		1.61139411*t +
		2.338549*rh +
		-0.14611605*t*rh +
		-0.012308094*t*t +
		-0.016424828*rh*rh +
		0.002211732*t*t*rh +
		0.00072546*t*rh*rh +
		-0.000003582*t*t*rh*rh
	if hi < t {
		return t
	}
	return hi
}

// standardPressureHPa is the sea-level pressure used for humidity ratio.
const standardPressureHPa = 1013.25

// Enthalpy returns moist-air enthalpy in kJ per kg of dry air.
func Enthalpy(t, rh float64) float64 {
	pv := (rh / 100) * 6.1078 * math.Pow(10, (7.5*t)/(t+237.3))
	w := 0.622 * pv / (standardPressureHPa - pv)
	return 1.006*t + w*(2501+1.86*t)
}

// Baseline conditions the cooling load index is measured against.
const (
	BaselineTempC = 24.0
	BaselineRH    = 50.0
)

// CoolingLoadIndex is the enthalpy excess (kJ/kg) over the 24 °C / 50 %RH
// baseline, never negative.
func CoolingLoadIndex(t, rh float64) float64 {
	return math.Max(0, Enthalpy(t, rh)-Enthalpy(BaselineTempC, BaselineRH))
}

// DefaultMassFlow is the assumed supply air mass flow in kg/s.
const DefaultMassFlow = 0.05

// CoolingPower estimates cooling power in kW from a cooling load index and an
// air mass flow in kg/s.
func CoolingPower(cli, massFlow float64) float64 {
	return cli * massFlow
}

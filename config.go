/*
Copyright © 2019 the AquaCrop-Go authors.
This file is part of AquaCrop-Go.

AquaCrop-Go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

AquaCrop-Go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with AquaCrop-Go.  If not, see <http://www.gnu.org/licenses/>.
*/

package aquacrop

import "time"

// WeatherStep is one day of atmospheric forcing.
type WeatherStep struct {
	Date   time.Time
	Tmin   float64 // [°C]
	Tmax   float64 // [°C]
	Precip float64 // [mm]
	ET0    float64 // reference evapotranspiration [mm]
}

// MinET0 is the smallest reference evapotranspiration used by the daily
// loop, keeping the transpiration-to-ET0 ratio finite.
const MinET0 = 0.1

// FieldManagement describes surface practices.
type FieldManagement struct {
	Mulches   bool    `toml:"mulches"`
	MulchPct  float64 `toml:"mulch_pct"`  // area covered by mulch [%]
	FMulch    float64 `toml:"f_mulch"`    // evaporation reduction of mulch
	Bunds     bool    `toml:"bunds"`
	ZBund     float64 `toml:"z_bund"`     // bund height [m]
	BundWater float64 `toml:"bund_water"` // initial ponded water [mm]
	CNAdjPct  float64 `toml:"cn_adj_pct"` // curve number adjustment [%]
	SRInhibit bool    `toml:"sr_inhibit"` // surface runoff inhibited
}

// DefaultFieldManagement returns a bare field with no bunds or mulch.
func DefaultFieldManagement() FieldManagement {
	return FieldManagement{FMulch: 0.5}
}

// bunded reports whether bunds are high enough to hold water.
func (f *FieldManagement) bunded() bool { return f.Bunds && f.ZBund > 0.001 }

// Irrigation methods.
const (
	Rainfed         = 0
	SoilMoisture    = 1
	FixedInterval   = 2
	Schedule        = 3
	NetIrrigation   = 4
	FixedDailyDepth = 5
)

// IrrigationConfig describes the irrigation policy.
type IrrigationConfig struct {
	Method       int                   `toml:"method"`
	SMT          [4]float64            `toml:"smt"`            // soil moisture targets per growth stage [% TAW]
	Interval     int                   `toml:"interval"`       // [days]
	Schedule     map[time.Time]float64 `toml:"-"`              // prescribed depths [mm]
	NetIrrSMT    float64               `toml:"net_irr_smt"`    // [% TAW]
	Depth        float64               `toml:"depth"`          // fixed daily depth [mm]
	AppEff       float64               `toml:"app_eff"`        // application efficiency [%]
	WetSurf      float64               `toml:"wet_surf"`       // wetted surface [%]
	MaxIrr       float64               `toml:"max_irr"`        // [mm/day]
	MaxIrrSeason float64               `toml:"max_irr_season"` // [mm]
}

// DefaultIrrigation returns a rainfed configuration with the standard
// limits.
func DefaultIrrigation() IrrigationConfig {
	return IrrigationConfig{
		Method:       Rainfed,
		SMT:          [4]float64{100, 100, 100, 100},
		Interval:     3,
		NetIrrSMT:    80,
		AppEff:       100,
		WetSurf:      100,
		MaxIrr:       25,
		MaxIrrSeason: 10000,
	}
}

// GroundwaterConfig describes the water table. When Present is false the
// profile drains freely.
type GroundwaterConfig struct {
	Present bool
	// Depths maps dates to water table depths [m]. Days between entries
	// are interpolated linearly; days outside the range use the nearest
	// entry.
	Depths map[time.Time]float64
}

// CO2 holds the atmospheric CO2 context [ppm].
type CO2 struct {
	Ref     float64
	Current float64
}

// DefaultCO2 returns the reference concentration used for calibration.
func DefaultCO2() CO2 { return CO2{Ref: 369.41, Current: 369.41} }

// Initial water content types.
const (
	InitFC  = "FC"
	InitWP  = "WP"
	InitSat = "SAT"
	InitNum = "Num"
)

// InitialWater describes the soil water content at the start of the
// simulation. For InitNum, Values gives θ for each layer (ByLayer) or
// at each depth in Depths [m], interpolated between compartments.
type InitialWater struct {
	Type    string    `toml:"type"`
	ByLayer bool      `toml:"by_layer"`
	Depths  []float64 `toml:"depths"`
	Values  []float64 `toml:"values"`
}

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

import "math"

// Crop types.
const (
	LeafyVegetable = 1
	RootTuber      = 2
	FruitGrain     = 3
)

// Calendar types.
const (
	CalendarDays      = 1
	GrowingDegreeDays = 2
)

// Crop holds the parameters of a crop for one growing season. The
// phenological milestones are in the units given by CalendarType; the
// fields marked "derived" are filled in by the crop package from the
// season's weather and are read-only during the daily loop.
type Crop struct {
	Name         string `toml:"name"`
	CropType     int    `toml:"crop_type"`     // 1 leafy vegetable, 2 root/tuber, 3 fruit/grain
	PlantMethod  int    `toml:"plant_method"`  // 0 transplanted, 1 sown
	CalendarType int    `toml:"calendar_type"` // 1 calendar days, 2 growing degree days
	PlantingDate string `toml:"planting_date"` // mm/dd
	HarvestDate  string `toml:"harvest_date"`  // mm/dd

	Emergence  float64 `toml:"emergence"`
	MaxRooting float64 `toml:"max_rooting"`
	Senescence float64 `toml:"senescence"`
	Maturity   float64 `toml:"maturity"`
	HIStart    float64 `toml:"hi_start"`
	Flowering  float64 `toml:"flowering"`
	YldForm    float64 `toml:"yld_form"`

	GDDMethod     int     `toml:"gdd_method"`
	Tbase         float64 `toml:"tbase"`
	Tupp          float64 `toml:"tupp"`
	PolHeatStress bool    `toml:"pol_heat_stress"`
	TmaxUp        float64 `toml:"tmax_up"` // no heat stress at or below [°C]
	TmaxLo        float64 `toml:"tmax_lo"` // full heat stress at or above [°C]
	PolColdStress bool    `toml:"pol_cold_stress"`
	TminUp        float64 `toml:"tmin_up"` // no cold stress at or above [°C]
	TminLo        float64 `toml:"tmin_lo"` // full cold stress at or below [°C]
	TrColdStress  bool    `toml:"tr_cold_stress"`
	BioTempStress bool    `toml:"bio_temp_stress"`
	GDDUp         float64 `toml:"gdd_up"`
	GDDLo         float64 `toml:"gdd_lo"`

	Zmin     float64 `toml:"zmin"`      // [m]
	Zmax     float64 `toml:"zmax"`      // [m]
	FShapeR  float64 `toml:"fshape_r"`  // root expansion shape factor
	FShapeEx float64 `toml:"fshape_ex"` // root expansion response to transpiration ratio
	PctZmin  float64 `toml:"pct_zmin"`  // initial root depth as % of Zmin
	SxTopQ   float64 `toml:"sx_top_q"`  // max extraction, top quarter [m³/m³/day]
	SxBotQ   float64 `toml:"sx_bot_q"`  // max extraction, bottom quarter [m³/m³/day]

	SeedSize    float64 `toml:"seed_size"` // [cm²]
	PlantPop    float64 `toml:"plant_pop"` // [plants/ha]
	CCx         float64 `toml:"ccx"`
	CDC         float64 `toml:"cdc"`
	CGC         float64 `toml:"cgc"`
	Kcb         float64 `toml:"kcb"`
	Fage        float64 `toml:"fage"`
	WP          float64 `toml:"wp"`        // [g/m²]
	WPy         float64 `toml:"wpy"`       // [%]
	Fsink       float64 `toml:"fsink"`
	HI0         float64 `toml:"hi0"`
	HIini       float64 `toml:"hi_ini"`
	DHIPre      float64 `toml:"dhi_pre"`
	AHI         float64 `toml:"a_hi"`
	BHI         float64 `toml:"b_hi"`
	DHI0        float64 `toml:"dhi0"`
	Determinant bool    `toml:"determinant"`
	Exc         float64 `toml:"exc"`

	PUp     [4]float64 `toml:"p_up"` // expansion, stomatal, senescence, pollination
	PLo     [4]float64 `toml:"p_lo"`
	FShapeW [4]float64 `toml:"fshape_w"`
	ETAdj   bool       `toml:"et_adj"`
	Aer     float64    `toml:"aer"`  // [%]
	LagAer  int        `toml:"lag_aer"`
	Beta    float64    `toml:"beta"`
	ATr     float64    `toml:"a_tr"`
	GermThr float64    `toml:"germ_thr"`
	CCmin   float64    `toml:"cc_min"`
	Bsted   float64    `toml:"bsted"`
	Bface   float64    `toml:"bface"`

	// Derived.
	CC0            float64
	SxTop, SxBot   float64
	FCO2           float64
	Canopy10Pct    float64
	MaxCanopy      float64
	CanopyDevEnd   float64
	HIEnd          float64
	FloweringEnd   float64
	HIGC           float64
	TLinSwitch     float64
	DHILinear      float64
	MaxCanopyCD    float64
	HIStartCD      float64
	HIEndCD        float64
	YldFormCD      float64
	FloweringCD    float64
	CanopyDevEndCD float64
}

// tAdj returns the crop development time after removing germination
// delays, in the crop's calendar units.
func (c *Crop) tAdj(s *DailyState) float64 {
	if c.CalendarType == CalendarDays {
		return float64(s.DAP - s.DelayedCDs)
	}
	return s.GDDcum - s.DelayedGDDs
}

// tNow returns the crop development time without germination delays.
func (c *Crop) tNow(s *DailyState) float64 {
	if c.CalendarType == CalendarDays {
		return float64(s.DAP)
	}
	return s.GDDcum
}

// step returns today's increment in the crop's calendar units.
func (c *Crop) step(gdd float64) float64 {
	if c.CalendarType == CalendarDays {
		return 1
	}
	return gdd
}

// Validate checks the static parameters for values that would make the
// daily equations meaningless.
func (c *Crop) Validate() error {
	switch {
	case c.CropType < LeafyVegetable || c.CropType > FruitGrain:
		return configError("crop %s: crop type %d is not 1, 2 or 3", c.Name, c.CropType)
	case c.CalendarType != CalendarDays && c.CalendarType != GrowingDegreeDays:
		return configError("crop %s: calendar type %d is not 1 or 2", c.Name, c.CalendarType)
	case c.Zmin <= 0 || c.Zmax < c.Zmin:
		return configError("crop %s: need 0 < Zmin ≤ Zmax, got %g, %g", c.Name, c.Zmin, c.Zmax)
	case c.CCx <= 0 || c.CCx > 1:
		return configError("crop %s: CCx %g is outside (0, 1]", c.Name, c.CCx)
	case c.CGC <= 0 || c.CDC <= 0:
		return configError("crop %s: CGC and CDC must be positive", c.Name)
	case c.HI0 <= 0 || c.HI0 > 1 || c.HIini <= 0 || c.HIini >= c.HI0:
		return configError("crop %s: need 0 < HIini < HI0 ≤ 1, got %g, %g", c.Name, c.HIini, c.HI0)
	case c.Emergence <= 0 || c.Maturity <= c.Emergence:
		return configError("crop %s: need 0 < emergence < maturity", c.Name)
	case c.Tupp <= c.Tbase:
		return configError("crop %s: Tupp must exceed Tbase", c.Name)
	}
	for i := range c.PUp {
		if c.PUp[i] < 0 || c.PLo[i] > 1 || c.PUp[i] > c.PLo[i] {
			return configError("crop %s: stress threshold pair %d (%g, %g) out of order", c.Name, i+1, c.PUp[i], c.PLo[i])
		}
	}
	return nil
}

// SetSinkTerms converts the quarter-root-zone extraction rates into the
// sink terms at the top and bottom of the root zone.
func (c *Crop) SetSinkTerms() {
	s1, s2 := c.SxTopQ, c.SxBotQ
	if s1 == s2 {
		c.SxTop, c.SxBot = s1, s2
		return
	}
	if c.SxTopQ < c.SxBotQ {
		s1, s2 = c.SxBotQ, c.SxTopQ
	}
	var ss1, ss2 float64
	xx := 3 * (s2 / (s1 - s2))
	if xx < 0.5 {
		ss1 = (4 / 3.5) * s1
	} else {
		ss1 = (xx + 3.5) * (s1 / (xx + 3))
		ss2 = (xx - 0.5) * (s2 / xx)
	}
	if c.SxTopQ > c.SxBotQ {
		c.SxTop, c.SxBot = ss1, ss2
	} else {
		c.SxTop, c.SxBot = ss2, ss1
	}
}

// SetCO2 computes the CO2 adjustment of water productivity relative to
// the reference concentration co2.Ref.
func (c *Crop) SetCO2(co2 CO2) {
	co2ref := co2.Ref
	if co2ref <= 0 {
		co2ref = DefaultCO2().Ref
	}
	conc := co2.Current
	var fw float64
	switch {
	case conc <= co2ref:
		fw = 0
	case conc >= 550:
		fw = 1
	default:
		fw = 1 - (550-conc)/(550-co2ref)
	}
	f := (conc / co2ref) / (1 + (conc-co2ref)*((1-fw)*c.Bsted+fw*(c.Bsted*c.Fsink+c.Bface*(1-c.Fsink))))
	var ftype float64
	switch {
	case c.WP >= 40:
		ftype = 0
	case c.WP <= 20:
		ftype = 1
	default:
		ftype = (40 - c.WP) / (40 - 20)
	}
	c.FCO2 = 1 + ftype*(f-1)
}

// SetCanopyTimes computes the initial canopy size and the canopy
// milestones that follow from CC0, CCx and CGC.
func (c *Crop) SetCanopyTimes() {
	c.CC0 = math.Round(10000*(c.PlantPop*c.SeedSize)*1e-8) / 10000
	if c.CC0 <= 0 {
		c.CC0 = 0.0001
	}
	c.Canopy10Pct = c.Emergence + math.Log(0.1/c.CC0)/c.CGC
	c.MaxCanopy = c.Emergence + math.Log((0.25*c.CCx*c.CCx/c.CC0)/(c.CCx-0.98*c.CCx))/c.CGC
	c.HIEnd = c.HIStart + c.YldForm
	if c.CropType == FruitGrain {
		c.FloweringEnd = c.HIStart + c.Flowering
	}
	if c.Determinant && c.CropType == FruitGrain {
		c.CanopyDevEnd = math.Round(c.HIStart + c.Flowering/2)
	} else {
		c.CanopyDevEnd = c.Senescence
	}
}

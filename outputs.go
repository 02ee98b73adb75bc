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

import (
	"fmt"
	"sort"
	"time"

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/stat"
)

// WaterFlux holds one day of water fluxes [mm] and water table depth.
type WaterFlux struct {
	Date           time.Time
	Season         int
	DAP            int
	Wr             float64 // root zone water
	Stored         float64 // profile and surface water
	ZGW            float64 // water table depth [m]
	SurfaceStorage float64
	Irr            float64 // gross irrigation
	IrrNet         float64 // net and pre-irrigation
	Infl           float64
	Runoff         float64
	DeepPerc       float64
	CR             float64 // capillary rise
	GwIn           float64 // groundwater inflow
	Es             float64
	EsPot          float64
	Tr             float64
	TrPot          float64
	Precip         float64
}

// WaterStorage holds the water content of every compartment at the
// end of a day.
type WaterStorage struct {
	Date   time.Time
	Season int
	DAP    int
	Th     []float64
}

// CropGrowth holds one day of crop development.
type CropGrowth struct {
	Date    time.Time
	Season  int
	DAP     int
	GDD     float64
	GDDcum  float64
	Zroot   float64 // [m]
	CC      float64
	CCNS    float64
	B       float64 // [g/m²]
	BNS     float64 // [g/m²]
	HI      float64
	HIadj   float64
	Y       float64 // [t/ha]
	Stage   int
	TrRatio float64
}

// SeasonSummary is written once per season, on the day of harvest.
type SeasonSummary struct {
	Season       int
	Crop         string
	PlantingDate time.Time
	HarvestDate  time.Time
	Yield        float64 // [t/ha]
	Irr          float64 // seasonal gross irrigation [mm]
	IrrNet       float64 // seasonal net irrigation [mm]
	Mature       bool
	Dead         bool
}

// Outputs holds the daily and seasonal results of a simulation.
type Outputs struct {
	Flux    []WaterFlux
	Storage []WaterStorage
	Growth  []CropGrowth
	Seasons []SeasonSummary
}

// Len returns the number of simulated days.
func (o *Outputs) Len() int { return len(o.Flux) }

// Variable describes a daily output variable.
type Variable struct {
	Name  string
	Desc  string
	Units string          // units of the values returned by Series
	Scale float64         // converts Units to SI
	Dims  unit.Dimensions // SI dimensions
	value func(o *Outputs, i int) float64
}

var (
	gPerM2     = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -2}
	degreeDays = unit.Dimensions{unit.TemperatureDim: 1, unit.TimeDim: 1}
)

func flux(f func(w *WaterFlux) float64) func(o *Outputs, i int) float64 {
	return func(o *Outputs, i int) float64 { return f(&o.Flux[i]) }
}

func growth(f func(g *CropGrowth) float64) func(o *Outputs, i int) float64 {
	return func(o *Outputs, i int) float64 { return f(&o.Growth[i]) }
}

var variables = []Variable{
	{"Wr", "Root zone water", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Wr })},
	{"Stored", "Profile and surface water", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Stored })},
	{"zGW", "Water table depth", "m", 1, unit.Meter, flux(func(w *WaterFlux) float64 { return w.ZGW })},
	{"SurfStor", "Surface storage", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.SurfaceStorage })},
	{"Irr", "Gross irrigation", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Irr })},
	{"IrrNet", "Net irrigation", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.IrrNet })},
	{"Infl", "Infiltration", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Infl })},
	{"RO", "Runoff", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Runoff })},
	{"DP", "Deep percolation", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.DeepPerc })},
	{"CR", "Capillary rise", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.CR })},
	{"GWin", "Groundwater inflow", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.GwIn })},
	{"Es", "Soil evaporation", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Es })},
	{"EsPot", "Potential soil evaporation", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.EsPot })},
	{"Tr", "Transpiration", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Tr })},
	{"TrPot", "Potential transpiration", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.TrPot })},
	{"P", "Precipitation", "mm", 1e-3, unit.Meter, flux(func(w *WaterFlux) float64 { return w.Precip })},
	{"GDD", "Growing degree days", "°C day", 86400, degreeDays, growth(func(g *CropGrowth) float64 { return g.GDD })},
	{"GDDcum", "Cumulative growing degree days", "°C day", 86400, degreeDays, growth(func(g *CropGrowth) float64 { return g.GDDcum })},
	{"Zroot", "Root depth", "m", 1, unit.Meter, growth(func(g *CropGrowth) float64 { return g.Zroot })},
	{"CC", "Canopy cover", "-", 1, unit.Dimless, growth(func(g *CropGrowth) float64 { return g.CC })},
	{"CCNS", "Canopy cover without stress", "-", 1, unit.Dimless, growth(func(g *CropGrowth) float64 { return g.CCNS })},
	{"B", "Biomass", "g/m²", 1e-3, gPerM2, growth(func(g *CropGrowth) float64 { return g.B })},
	{"BNS", "Biomass without stress", "g/m²", 1e-3, gPerM2, growth(func(g *CropGrowth) float64 { return g.BNS })},
	{"HI", "Reference harvest index", "-", 1, unit.Dimless, growth(func(g *CropGrowth) float64 { return g.HI })},
	{"HIadj", "Adjusted harvest index", "-", 1, unit.Dimless, growth(func(g *CropGrowth) float64 { return g.HIadj })},
	{"Y", "Yield", "t/ha", 0.1, gPerM2, growth(func(g *CropGrowth) float64 { return g.Y })},
	{"TrRatio", "Transpiration ratio", "-", 1, unit.Dimless, growth(func(g *CropGrowth) float64 { return g.TrRatio })},
}

// OutputVariables returns the names of the daily output variables, sorted.
func OutputVariables() []string {
	names := make([]string, len(variables))
	for i, v := range variables {
		names[i] = v.Name
	}
	sort.Strings(names)
	return names
}

// LookupVariable returns the description of the named output variable.
func LookupVariable(name string) (Variable, error) {
	for _, v := range variables {
		if v.Name == name {
			return v, nil
		}
	}
	return Variable{}, fmt.Errorf("aquacrop: undefined variable name '%s'", name)
}

// Series returns the daily values of the named variable.
func (o *Outputs) Series(name string) ([]float64, error) {
	v, err := LookupVariable(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, o.Len())
	for i := range out {
		out[i] = v.value(o, i)
	}
	return out, nil
}

// Quantity returns the value of the named variable on day i in SI units.
func (o *Outputs) Quantity(name string, i int) (*unit.Unit, error) {
	v, err := LookupVariable(name)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= o.Len() {
		return nil, fmt.Errorf("aquacrop: day %d is outside the %d simulated days", i, o.Len())
	}
	return unit.New(v.value(o, i)*v.Scale, v.Dims), nil
}

// YieldStats returns the mean and standard deviation of the seasonal
// yields [t/ha].
func (o *Outputs) YieldStats() (mean, std float64) {
	if len(o.Seasons) == 0 {
		return 0, 0
	}
	y := make([]float64, len(o.Seasons))
	for i, s := range o.Seasons {
		y[i] = s.Yield
	}
	if len(y) == 1 {
		return y[0], 0
	}
	return stat.MeanStdDev(y, nil)
}

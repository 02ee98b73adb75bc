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

// DailyState is the mutable record carried from one simulated day to
// the next. It is reset at the start of every season and mutated once
// per day by the sub-models, in the order given by DailySolution.
type DailyState struct {
	// Soil water.
	Th             []float64 // water content per compartment [m³/m³]
	ThFCAdj        []float64 // field capacity adjusted for the water table [m³/m³]
	SurfaceStorage float64   // water ponded between bunds [mm]
	ZGW            float64   // water table depth; < 0 means none [m]
	WTInSoil       bool      // water table within the modelled profile
	Depletion      float64   // root zone depletion used for irrigation [mm]
	TAW            float64   // root zone total available water [mm]

	// Evaporation.
	Wsurf   float64 // water in the stage-1 surface layer [mm]
	EvapZ   float64 // depth of the stage-2 evaporation layer [m]
	Wstage2 float64 // relative water content at the start of stage 2
	Stage2  bool
	Epot    float64 // yesterday's potential soil evaporation [mm]
	Tpot    float64 // yesterday's potential transpiration [mm]

	// Time.
	DAP           int     // days after planting
	GDDcum        float64 // growing degree days since planting
	DelayedCDs    int     // days of delayed germination
	DelayedGDDs   float64 // degree days of delayed germination
	GrowthStage   int     // 0 off-season, 1–4 in season
	GrowingSeason bool

	// Counters.
	AerDays      int
	AerDaysComp  []int
	DaySubmerged int
	IrrCum       float64 // seasonal irrigation [mm]
	IrrNetCum    float64 // seasonal net irrigation [mm]
	AgeDays      float64
	AgeDaysNS    float64

	// Crop status.
	Germination   bool
	CropMature    bool
	CropDead      bool
	PrematSenes   bool
	ProtectedSeed bool
	YieldForm     bool
	PreAdj        bool
	HarvestFlag   bool

	// Roots.
	Zroot   float64 // [m]
	RCor    float64 // root zone correction for restricted rooting
	TrRatio float64 // actual over potential transpiration

	// Canopy.
	CC          float64
	CCadj       float64
	CCNS        float64
	CCadjNS     float64
	CCprev      float64
	CC0adj      float64
	CCxAct      float64
	CCxActNS    float64
	CCxW        float64
	CCxWNS      float64
	CCxEarlySen float64
	TEarlySen   float64

	// Biomass and harvest index.
	B           float64 // [g/m²]
	BNS         float64 // [g/m²]
	HIref       float64
	HI          float64
	HIadj       float64
	PctLagPhase float64
	Fpre        float64
	Fpost       float64
	FpostDwn    float64
	FpostUpp    float64
	Fpol        float64
	SCor1       float64
	SCor2       float64
	Y           float64 // [t/ha]
}

// NewDailyState returns a state for the given profile with all water
// contents at field capacity and no crop.
func NewDailyState(p *SoilProfile) *DailyState {
	n := p.NComp()
	s := &DailyState{
		Th:          make([]float64, n),
		ThFCAdj:     make([]float64, n),
		AerDaysComp: make([]int, n),
		ZGW:         -999,
		EvapZ:       p.EvapZMin,
	}
	for i, c := range p.Comp {
		s.Th[i] = c.ThFC
		s.ThFCAdj[i] = c.ThFC
	}
	s.resetCrop(nil)
	return s
}

// resetCrop sets every crop-related variable to its value at planting.
// The soil water variables are carried over.
func (s *DailyState) resetCrop(c *Crop) {
	s.DAP, s.GDDcum = 0, 0
	s.DelayedCDs, s.DelayedGDDs = 0, 0
	s.GrowthStage = 0
	s.AerDays, s.DaySubmerged = 0, 0
	for i := range s.AerDaysComp {
		s.AerDaysComp[i] = 0
	}
	s.IrrCum, s.IrrNetCum = 0, 0
	s.AgeDays, s.AgeDaysNS = 0, 0
	s.Germination, s.CropMature, s.CropDead = false, false, false
	s.PrematSenes, s.ProtectedSeed = false, false
	s.YieldForm, s.PreAdj, s.HarvestFlag = false, false, false
	s.RCor, s.TrRatio = 1, 1
	s.CC, s.CCadj, s.CCNS, s.CCadjNS, s.CCprev = 0, 0, 0, 0, 0
	s.CCxAct, s.CCxActNS, s.CCxW, s.CCxWNS = 0, 0, 0, 0
	s.CCxEarlySen, s.TEarlySen = 0, 0
	s.B, s.BNS, s.HIref, s.HI, s.HIadj, s.PctLagPhase = 0, 0, 0, 0, 0, 0
	s.Fpre, s.Fpost, s.FpostDwn, s.FpostUpp, s.Fpol = 1, 1, 1, 1, 0
	s.SCor1, s.SCor2 = 0, 0
	s.Y = 0
	s.Zroot, s.CC0adj = 0, 0
	if c != nil {
		s.Zroot = c.Zmin
		s.CC0adj = c.CC0
	}
}

// InitWater sets the initial soil water content.
func (s *DailyState) InitWater(p *SoilProfile, iw InitialWater) error {
	switch iw.Type {
	case InitFC, "":
		for i, c := range p.Comp {
			s.Th[i] = c.ThFC
		}
	case InitWP:
		for i, c := range p.Comp {
			s.Th[i] = c.ThWP
		}
	case InitSat:
		for i, c := range p.Comp {
			s.Th[i] = c.ThS
		}
	case InitNum:
		if iw.ByLayer {
			if len(iw.Values) != len(p.Layers) {
				return configError("initial water content: got %d values for %d layers", len(iw.Values), len(p.Layers))
			}
			for i, c := range p.Comp {
				s.Th[i] = iw.Values[c.Layer]
			}
		} else {
			if len(iw.Depths) == 0 || len(iw.Depths) != len(iw.Values) {
				return configError("initial water content: need matching depths and values")
			}
			for i, c := range p.Comp {
				s.Th[i] = interpolate(iw.Depths, iw.Values, c.ZMid)
			}
		}
	default:
		return configError("initial water content: unknown type %q", iw.Type)
	}
	for i, c := range p.Comp {
		s.Th[i] = clamp(s.Th[i], c.ThDry, c.ThS)
	}
	return nil
}

// interpolate returns y at x by linear interpolation in the sorted
// points xs, holding the end values outside the range.
func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			f := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + f*(ys[i]-ys[i-1])
		}
	}
	return ys[len(ys)-1]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

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
	"math"
	"testing"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b)
}

// testProfile returns a 1.2 m loam profile of twelve 0.1 m compartments.
func testProfile(t *testing.T) *SoilProfile {
	p := DefaultSoilProfile()
	p.Name = "loam"
	p.Layers = []SoilLayer{{
		Thickness:     1.2,
		ThS:           0.46,
		ThFC:          0.31,
		ThWP:          0.15,
		ThDry:         0.075,
		Ksat:          500,
		Penetrability: 100,
		Tau:           0.76,
		ACR:           -0.4536,
		BCR:           0.8373,
	}}
	p.REW = 9
	p.CN = 61
	dz := make([]float64, 12)
	for i := range dz {
		dz[i] = 0.1
	}
	if err := p.Discretize(dz); err != nil {
		t.Fatal(err)
	}
	return p
}

// testCrop returns a calendar-day tuber crop with its calendar already
// derived.
func testCrop() *Crop {
	c := &Crop{
		Name:          "tuber",
		CropType:      RootTuber,
		CalendarType:  CalendarDays,
		Emergence:     15,
		MaxRooting:    50,
		Senescence:    105,
		Maturity:      125,
		HIStart:       46,
		YldForm:       77,
		GDDMethod:     3,
		Tbase:         2,
		Tupp:          26,
		Zmin:          0.3,
		Zmax:          0.6,
		FShapeR:       1.5,
		FShapeEx:      -6,
		PctZmin:       70,
		SxTopQ:        0.048,
		SxBotQ:        0.012,
		SeedSize:      15,
		PlantPop:      40000,
		CCx:           0.92,
		CDC:           0.01884,
		CGC:           0.126,
		Kcb:           1.1,
		Fage:          0.15,
		WP:            18,
		WPy:           100,
		Fsink:         0.5,
		HI0:           0.85,
		HIini:         0.01,
		DHIPre:        2,
		BHI:           10,
		DHI0:          5,
		PUp:           [4]float64{0.2, 0.6, 0.7, 0.8},
		PLo:           [4]float64{0.6, 1, 1, 1},
		FShapeW:       [4]float64{3, 3, 3, 0},
		ETAdj:         true,
		Aer:           5,
		LagAer:        3,
		Beta:          12,
		ATr:           1,
		GermThr:       0.2,
		CCmin:         0.05,
		Bsted:         0.000138,
		Bface:         0.001165,
		TrColdStress:  true,
		BioTempStress: true,
		GDDUp:         7,
	}
	c.SetCanopyTimes()
	c.SetSinkTerms()
	c.SetCO2(DefaultCO2())
	c.HIStartCD = c.HIStart
	c.HIEndCD = c.HIEnd
	c.YldFormCD = c.YldForm
	c.CanopyDevEndCD = c.CanopyDevEnd
	c.MaxCanopyCD = math.Round(c.MaxCanopy)
	c.HIGC = 0.109
	return c
}

// seasonState returns a state on the first day of a season of c, with
// the profile at field capacity.
func seasonState(p *SoilProfile, c *Crop) *DailyState {
	s := NewDailyState(p)
	s.resetCrop(c)
	s.GrowingSeason = true
	s.DAP = 1
	s.resetEvaporation(p)
	return s
}

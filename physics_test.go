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
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestGrowingDegreeDay(t *testing.T) {
	tests := []struct {
		method                  int
		tupp, tbase, tmax, tmin float64
		want                    float64
	}{
		{method: 3, tupp: 26, tbase: 0, tmax: 30, tmin: 17, want: 21.5},
		{method: 2, tupp: 26, tbase: 0, tmax: 30, tmin: 17, want: 21.5},
		{method: 1, tupp: 26, tbase: 0, tmax: 30, tmin: 17, want: 23.5},
		{method: 3, tupp: 30, tbase: 8, tmax: 6, tmin: 2, want: 0},
		{method: 2, tupp: 30, tbase: 8, tmax: 20, tmin: 2, want: 6},
		{method: 3, tupp: 30, tbase: 8, tmax: 20, tmin: 2, want: 3},
	}
	for _, test := range tests {
		have := GrowingDegreeDay(test.method, test.tupp, test.tbase, test.tmax, test.tmin)
		if absDifferent(have, test.want, 1e-12) {
			t.Errorf("method %d, Tmax %g, Tmin %g: have %g, want %g", test.method, test.tmax, test.tmin, have, test.want)
		}
	}
}

func TestGermination(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	for i := range s.Th {
		s.Th[i] = p.Comp[i].ThWP
	}
	for day := 1; day <= 3; day++ {
		Germination(s, p, c, 10)
		if s.Germination {
			t.Fatal("germinated in dry soil")
		}
		if s.DelayedCDs != day || s.DelayedGDDs != float64(10*day) {
			t.Errorf("day %d: delays %d days, %g degree days", day, s.DelayedCDs, s.DelayedGDDs)
		}
	}
	copy(s.Th, NewDailyState(p).Th)
	Germination(s, p, c, 10)
	if !s.Germination {
		t.Fatal("no germination at field capacity")
	}
	for i := range s.Th {
		s.Th[i] = p.Comp[i].ThWP
	}
	Germination(s, p, c, 10)
	if !s.Germination || s.DelayedCDs != 3 {
		t.Error("germination must be permanent for the season")
	}
}

func TestGrowthStage(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	for _, test := range []struct{ dap, stage int }{
		{1, 1}, {int(c.Canopy10Pct) + 1, 2}, {int(c.MaxCanopy) + 1, 3}, {int(c.Senescence) + 1, 4},
	} {
		s.DAP = test.dap
		GrowthStage(s, c)
		if s.GrowthStage != test.stage {
			t.Errorf("DAP %d: have stage %d, want %d", test.dap, s.GrowthStage, test.stage)
		}
	}
	s.GrowingSeason = false
	GrowthStage(s, c)
	if s.GrowthStage != 0 {
		t.Error("stage should be zero outside the season")
	}
}

func TestRootZoneWater(t *testing.T) {
	p := testProfile(t)
	s := NewDailyState(p)
	th := append([]float64(nil), s.Th...)
	rz := RootZoneWater(p, s.Th, 0.5, 0.3, 5)
	if !reflect.DeepEqual(rz, RootZoneWater(p, s.Th, 0.5, 0.3, 5)) {
		t.Error("RootZoneWater is not repeatable")
	}
	if !reflect.DeepEqual(th, s.Th) {
		t.Error("RootZoneWater modified its input")
	}
	if absDifferent(rz.Dr.Rz, 0, 1e-9) {
		t.Errorf("depletion at field capacity: %g", rz.Dr.Rz)
	}
	if absDifferent(rz.TAW.Rz, 80, 1e-9) {
		t.Errorf("TAW: have %g, want 80", rz.TAW.Rz)
	}
	if absDifferent(rz.TAW.Zt, 16, 1e-9) {
		t.Errorf("topsoil TAW: have %g, want 16", rz.TAW.Zt)
	}
	// Shallow roots use the minimum depth.
	if shallow := RootZoneWater(p, s.Th, 0.1, 0.3, 5); absDifferent(shallow.TAW.Rz, 48, 1e-9) {
		t.Errorf("TAW with shallow roots: have %g, want 48", shallow.TAW.Rz)
	}
}

func TestDrainage(t *testing.T) {
	p := testProfile(t)
	s := NewDailyState(p)
	t.Run("field capacity", func(t *testing.T) {
		r := Drainage(p, s.Th, s.ThFCAdj)
		if r.DeepPerc != 0 || r.Overflow != 0 {
			t.Errorf("deep percolation %g, overflow %g", r.DeepPerc, r.Overflow)
		}
		if !reflect.DeepEqual(r.Th, s.Th) {
			t.Error("water contents changed")
		}
	})
	t.Run("wet top", func(t *testing.T) {
		th := append([]float64(nil), s.Th...)
		for i := 0; i < 3; i++ {
			th[i] = 0.42
		}
		before := p.TotalWater(th)
		r := Drainage(p, th, s.ThFCAdj)
		after := p.TotalWater(r.Th)
		if absDifferent(before-after, r.DeepPerc+r.Overflow, 1e-9) {
			t.Errorf("mass balance: lost %g, drained %g", before-after, r.DeepPerc+r.Overflow)
		}
		if r.Th[0] >= th[0] {
			t.Error("top compartment did not drain")
		}
		for i, v := range r.Th {
			if v < p.Comp[i].ThFC-1e-12 || v > p.Comp[i].ThS+1e-12 {
				t.Errorf("compartment %d: θ %g out of range", i, v)
			}
		}
	})
}

func TestRainfallPartition(t *testing.T) {
	p := testProfile(t)
	s := NewDailyState(p)
	fm := DefaultFieldManagement()
	ro, infl := RainfallPartition(s, p, &fm, 2)
	if ro != 0 || infl != 2 {
		t.Errorf("light rain: runoff %g, infiltration %g", ro, infl)
	}
	ro, infl = RainfallPartition(s, p, &fm, 80)
	if ro <= 0 || absDifferent(ro+infl, 80, 1e-9) {
		t.Errorf("heavy rain: runoff %g, infiltration %g", ro, infl)
	}
	fm.Bunds, fm.ZBund = true, 0.2
	if ro, _ := RainfallPartition(s, p, &fm, 80); ro != 0 {
		t.Errorf("bunded field: runoff %g", ro)
	}
}

func TestIrrigation(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	day := time.Date(2000, 5, 1, 0, 0, 0, 0, time.UTC)
	dry := func() *DailyState {
		s := seasonState(p, c)
		s.DAP = 5
		s.Zroot = 0.3
		for i := range s.Th {
			s.Th[i] = p.Comp[i].ThWP
		}
		return s
	}
	t.Run("daily cap", func(t *testing.T) {
		ic := DefaultIrrigation()
		ic.Method = SoilMoisture
		ic.SMT = [4]float64{70, 70, 70, 70}
		s := dry()
		if irr := Irrigation(s, p, c, &ic, day, 0, 0); irr != ic.MaxIrr {
			t.Errorf("have %g, want %g", irr, ic.MaxIrr)
		}
	})
	t.Run("seasonal cap", func(t *testing.T) {
		ic := DefaultIrrigation()
		ic.Method = SoilMoisture
		ic.MaxIrrSeason = 30
		s := dry()
		s.IrrCum = 20
		if irr := Irrigation(s, p, c, &ic, day, 0, 0); absDifferent(irr, 10, 1e-12) {
			t.Errorf("have %g, want 10", irr)
		}
		if absDifferent(s.IrrCum, 30, 1e-12) {
			t.Errorf("seasonal total %g", s.IrrCum)
		}
	})
	t.Run("fixed depth", func(t *testing.T) {
		ic := DefaultIrrigation()
		ic.Method = FixedDailyDepth
		ic.Depth = 10
		ic.AppEff = 80
		if irr := Irrigation(dry(), p, c, &ic, day, 0, 0); absDifferent(irr, 12, 1e-12) {
			t.Errorf("have %g, want 12", irr)
		}
	})
	t.Run("schedule", func(t *testing.T) {
		ic := DefaultIrrigation()
		ic.Method = Schedule
		ic.Schedule = map[time.Time]float64{day: 7}
		if irr := Irrigation(dry(), p, c, &ic, day.Add(6*time.Hour), 0, 0); irr != 7 {
			t.Errorf("have %g, want 7", irr)
		}
		if irr := Irrigation(dry(), p, c, &ic, day.AddDate(0, 0, 1), 0, 0); irr != 0 {
			t.Errorf("unscheduled day: have %g", irr)
		}
	})
	t.Run("off season", func(t *testing.T) {
		ic := DefaultIrrigation()
		ic.Method = FixedDailyDepth
		ic.Depth = 10
		s := dry()
		s.GrowingSeason = false
		if irr := Irrigation(s, p, c, &ic, day, 0, 0); irr != 0 {
			t.Errorf("have %g", irr)
		}
	})
	t.Run("pre-irrigation", func(t *testing.T) {
		ic := DefaultIrrigation()
		ic.Method = NetIrrigation
		ic.NetIrrSMT = 50
		s := dry()
		s.DAP = 1
		pre := PreIrrigation(s, p, c, &ic)
		// Three 0.1 m compartments raised from 0.15 to 0.23.
		if absDifferent(pre, 24, 1e-9) {
			t.Errorf("have %g, want 24", pre)
		}
	})
}

func TestShallowWaterTable(t *testing.T) {
	p := testProfile(t)
	s := NewDailyState(p)
	added := CheckGroundwaterTable(s, p, true, 0.5)
	if !s.WTInSoil {
		t.Fatal("water table should be in the profile")
	}
	if absDifferent(added, 105, 1e-9) {
		t.Errorf("added %g mm, want 105", added)
	}
	for i, c := range p.Comp {
		switch {
		case c.ZMid >= 0.5 && s.Th[i] != c.ThS:
			t.Errorf("compartment %d below the table is not saturated", i)
		case s.ThFCAdj[i] < c.ThFC || s.ThFCAdj[i] > c.ThS:
			t.Errorf("compartment %d adjusted field capacity %g", i, s.ThFCAdj[i])
		}
	}
	if in := GroundwaterInflow(s, p); in != 0 {
		t.Errorf("second inflow %g", in)
	}
	if added := CheckGroundwaterTable(NewDailyState(p), p, false, 0.5); added != 0 {
		t.Errorf("no water table: added %g", added)
	}
}

func TestWaterTableDepth(t *testing.T) {
	d0 := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	g := GroundwaterConfig{Present: true, Depths: map[time.Time]float64{d0: 1, d0.AddDate(0, 0, 10): 2}}
	for _, test := range []struct {
		day  int
		want float64
	}{{-5, 1}, {0, 1}, {5, 1.5}, {10, 2}, {20, 2}} {
		if have := g.WaterTableDepth(d0.AddDate(0, 0, test.day)); absDifferent(have, test.want, 1e-9) {
			t.Errorf("day %d: have %g, want %g", test.day, have, test.want)
		}
	}
	g.Present = false
	if have := g.WaterTableDepth(d0); have != -999 {
		t.Errorf("absent table: %g", have)
	}
}

func TestCanopyCover(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	s.Germination = true
	want := map[int]float64{
		14:  0,
		15:  0.006 * math.Exp(0.126),
		20:  0.012778441194234637,
		30:  0.045049391161189736,
		50:  0.5420098401044111,
		80:  0.9102165370157806,
		104: 0.9195244610517526,
		105: 0.9195244610517526,
		110: 0.9148047421005273,
		125: 0.8975344955753546,
	}
	var prev float64
	for dap := 1; float64(dap) <= c.Maturity; dap++ {
		s.DAP = dap
		CanopyCover(s, p, c, 10, 4)
		if s.CC < 0 || s.CC > 1 || s.CCNS < 0 || s.CCNS > 1 {
			t.Fatalf("DAP %d: CC %g, CCNS %g", dap, s.CC, s.CCNS)
		}
		if s.CropDead {
			t.Fatalf("DAP %d: crop died in wet soil", dap)
		}
		if float64(dap) <= c.CanopyDevEnd && s.CC < prev {
			t.Errorf("DAP %d: canopy shrank from %g to %g during growth", dap, prev, s.CC)
		}
		if w, ok := want[dap]; ok && absDifferent(s.CC, w, 1e-9) {
			t.Errorf("DAP %d: have CC %g, want %g", dap, s.CC, w)
		}
		prev = s.CC
	}
}

func TestCanopyCoverSmallSeedlings(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	c.PlantPop, c.SeedSize = 50000, 1
	c.SetCanopyTimes()
	if c.CC0 != 0.0005 {
		t.Fatalf("CC0 %g", c.CC0)
	}
	s := seasonState(p, c)
	s.Germination = true
	want := map[int]float64{
		15:  0.0005671410841415125,
		16:  0.0006432980186424203,
		17:  0.0007296814714378983,
		30:  0.0037541159300991445,
		60:  0.16449050027340723,
		105: 0.9142935326210301,
		125: 0.8924286621698035,
	}
	for dap := 1; float64(dap) <= c.Maturity; dap++ {
		s.DAP = dap
		CanopyCover(s, p, c, 10, 4)
		if s.CropDead {
			t.Fatalf("DAP %d: crop with CC %g declared dead", dap, s.CC)
		}
		if w, ok := want[dap]; ok && absDifferent(s.CC, w, 1e-9) {
			t.Errorf("DAP %d: have CC %g, want %g", dap, s.CC, w)
		}
	}
}

func TestEarlySenescence(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	s.Germination = true
	s.DAP = 60
	s.CC, s.CCxAct, s.CCNS = 0.8, 0.8, 0.8
	for i := range s.Th {
		s.Th[i] = p.Comp[i].ThWP
	}
	CanopyCover(s, p, c, 10, 4)
	if !s.PrematSenes || s.TEarlySen != 1 || s.CCxEarlySen != 0.8 {
		t.Fatalf("drought: senescence %v, time %g, CCx %g", s.PrematSenes, s.TEarlySen, s.CCxEarlySen)
	}
	if absDifferent(s.CC, 0.7991795673994667, 1e-9) || s.CCxAct != s.CC {
		t.Errorf("drought: CC %g, CCxAct %g", s.CC, s.CCxAct)
	}

	copy(s.Th, NewDailyState(p).Th)
	s.DAP = 61
	CanopyCover(s, p, c, 10, 4)
	if s.PrematSenes || s.TEarlySen != 0 {
		t.Errorf("after rewatering: senescence %v, time %g", s.PrematSenes, s.TEarlySen)
	}
	if s.CC <= 0.7991795673994667 {
		t.Errorf("canopy did not regrow: %g", s.CC)
	}
}

func TestLateSeasonRewatering(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	s.Germination = true
	s.DAP = 110
	s.CC, s.CCxAct, s.CCNS = 0.5, 0.9, 0.9
	s.TEarlySen, s.CCxEarlySen = 3, 0.9

	// The decline restarts from a maximum that puts yesterday's canopy
	// on the curve, and keeps that maximum afterwards.
	const ccxAdj = 0.5020411549121234
	CanopyCover(s, p, c, 10, 4)
	if s.TEarlySen != 0 {
		t.Errorf("early senescence time %g after rewatering", s.TEarlySen)
	}
	if absDifferent(s.CCxAct, ccxAdj, 1e-9) {
		t.Errorf("have CCxAct %g, want %g", s.CCxAct, ccxAdj)
	}
	if absDifferent(s.CC, 0.49946428691839595, 1e-9) {
		t.Errorf("rewatering day: CC %g", s.CC)
	}
	s.DAP = 111
	CanopyCover(s, p, c, 10, 4)
	if absDifferent(s.CCxAct, ccxAdj, 1e-9) {
		t.Errorf("CCxAct changed to %g on the next day", s.CCxAct)
	}
	if absDifferent(s.CC, 0.4989180007145377, 1e-9) {
		t.Errorf("next day: CC %g", s.CC)
	}
}

func TestCanopyDevEnd(t *testing.T) {
	c := testCrop()
	c.CropType, c.Determinant = FruitGrain, true
	c.HIStart, c.Flowering, c.Senescence = 100, 40, 110
	c.SetCanopyTimes()
	if c.CanopyDevEnd != 120 {
		t.Errorf("determinate crop: have %g, want 120", c.CanopyDevEnd)
	}
	c.Determinant = false
	c.SetCanopyTimes()
	if c.CanopyDevEnd != c.Senescence {
		t.Errorf("indeterminate crop: have %g, want %g", c.CanopyDevEnd, c.Senescence)
	}
}

func TestCropDeathIsPermanent(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	s.Germination = true
	s.DAP = 30
	s.CC = 0.4
	s.CropDead = true
	for dap := 30; dap < 40; dap++ {
		s.DAP = dap
		CanopyCover(s, p, c, 10, 4)
		if !s.CropDead || s.CC != 0 {
			t.Fatalf("DAP %d: dead %v, CC %g", dap, s.CropDead, s.CC)
		}
	}
}

func TestSoilEvaporationBounds(t *testing.T) {
	p := testProfile(t)
	s := NewDailyState(p)
	fm := DefaultFieldManagement()
	ic := DefaultIrrigation()
	var total float64
	for day := 0; day < 60; day++ {
		before := p.TotalWater(s.Th)
		es, esPot := SoilEvaporation(s, p, fallow, &fm, &ic, 6, 0, 0, 0)
		if es < 0 || es > esPot+1e-9 {
			t.Fatalf("day %d: Es %g, potential %g", day, es, esPot)
		}
		if absDifferent(before-p.TotalWater(s.Th), es, 1e-9) {
			t.Fatalf("day %d: evaporation %g does not match water lost %g", day, es, before-p.TotalWater(s.Th))
		}
		for i, c := range p.Comp {
			if s.Th[i] < c.ThDry-1e-12 {
				t.Fatalf("day %d: compartment %d below air dry", day, i)
			}
		}
		total += es
	}
	if total <= 0 {
		t.Error("no evaporation")
	}
}

func TestStage2EvaporationStart(t *testing.T) {
	p := testProfile(t)
	s := NewDailyState(p)
	fm := DefaultFieldManagement()
	ic := DefaultIrrigation()
	s.resetEvaporation(p)
	// Enough stage-1 water for exactly one day.
	s.Wsurf = p.Kex * 6
	es, esPot := SoilEvaporation(s, p, fallow, &fm, &ic, 6, 0, 0, 0)
	if es != esPot || s.Wsurf != 0 || !s.Stage2 {
		t.Fatalf("Es %g, potential %g, Wsurf %g, stage 2 %v", es, esPot, s.Wsurf, s.Stage2)
	}
	if wrel := stage2Wetness(s, p); absDifferent(wrel, 1, 0.02) {
		t.Errorf("relative wetness at the start of stage 2: %g", wrel)
	}
}

func TestWitheredCanopyEvaporation(t *testing.T) {
	p := testProfile(t)
	p.FWCC = 100
	c := testCrop()
	s := seasonState(p, c)
	s.DAP = 110
	s.CC, s.CCxAct, s.CCxW = 0.44, 0.9, 0.9
	s.CCadj = microAdvective(s.CC)
	const et0 = 5
	want := p.Kex * et0 * (1 - microAdvective(0.9))
	if have := potentialEvaporation(s, p, c, et0); absDifferent(have, want, 1e-12) {
		t.Errorf("have %g, want the floor %g", have, want)
	}
	p.FWCC = 50
	s.CC, s.CCadj = 0.3, microAdvective(0.3)
	want = p.Kex * (1 - s.CCadj) * et0 * (1 - 0.9*0.5)
	if have := potentialEvaporation(s, p, c, et0); absDifferent(have, want, 1e-12) {
		t.Errorf("have %g, want %g", have, want)
	}
}

func TestHIRefCurrentDay(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	s.CCprev = 0.9
	for _, test := range []struct {
		dap       int
		yieldForm bool
		want      float64
	}{
		{dap: 46, yieldForm: false, want: 0},
		{dap: 47, yieldForm: true, want: 0},
		{dap: 57, yieldForm: true, want: 0.02906759485649023},
	} {
		s.DAP = test.dap
		HIRefCurrentDay(s, c)
		if s.YieldForm != test.yieldForm || absDifferent(s.HIref, test.want, 1e-12) {
			t.Errorf("DAP %d: yield formation %v, HIref %g; want %v, %g",
				test.dap, s.YieldForm, s.HIref, test.yieldForm, test.want)
		}
	}
}

func TestSetCO2(t *testing.T) {
	c := testCrop()
	for _, co2 := range []CO2{DefaultCO2(), {Ref: 400, Current: 400}} {
		c.SetCO2(co2)
		if absDifferent(c.FCO2, 1, 1e-12) {
			t.Errorf("%+v: have %g, want 1 at the reference concentration", co2, c.FCO2)
		}
	}
	c.SetCO2(CO2{Ref: 369.41, Current: 550})
	if c.FCO2 <= 1 {
		t.Errorf("elevated CO2: %g", c.FCO2)
	}
}

func TestSubmergedTranspiration(t *testing.T) {
	p := testProfile(t)
	c := testCrop()
	s := seasonState(p, c)
	s.DAP = 60
	s.CC, s.CCNS, s.CCxW, s.CCxWNS = 0.8, 0.8, 0.8, 0.8
	s.CCadj, s.CCadjNS = microAdvective(0.8), microAdvective(0.8)
	s.SurfaceStorage = 50
	th := append([]float64(nil), s.Th...)
	ic := DefaultIrrigation()
	r := Transpiration(s, p, c, &ic, DefaultCO2(), 5, 15)
	if r.TrPot <= 0 {
		t.Fatal("no potential transpiration")
	}
	// One day of a three day lag leaves two thirds of the demand.
	if absDifferent(r.TrAct, r.TrPot*2/3, 1e-12) {
		t.Errorf("have %g, want %g", r.TrAct, r.TrPot*2/3)
	}
	if absDifferent(s.SurfaceStorage, 50-r.TrAct, 1e-12) {
		t.Errorf("ponded water %g", s.SurfaceStorage)
	}
	for i := range th {
		if s.Th[i] != th[i] {
			t.Errorf("compartment %d changed under ponding", i)
		}
	}
}

func TestCropSeasons(t *testing.T) {
	c := testCrop()
	c.PlantingDate, c.HarvestDate = "04/25", "08/30"
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2002, 6, 1, 0, 0, 0, 0, time.UTC)
	seasons, err := CropSeasons([]*Crop{c}, start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(seasons) != 2 {
		t.Fatalf("have %d seasons, want 2", len(seasons))
	}
	want := time.Date(2001, 4, 25, 0, 0, 0, 0, time.UTC)
	if !seasons[1].PlantingDate.Equal(want) {
		t.Errorf("second planting %v, want %v", seasons[1].PlantingDate, want)
	}
	c.PlantingDate = "25/04"
	if _, err := CropSeasons([]*Crop{c}, start, end); err == nil {
		t.Error("expected an error for a bad date")
	}
}

func TestAlignWeather(t *testing.T) {
	d0 := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	w := []WeatherStep{
		{Date: d0.AddDate(0, 0, 1), Tmax: 20, ET0: 3},
		{Date: d0, Tmax: 20, ET0: 0},
	}
	days, err := alignWeather(w, d0, d0.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !days[0].Date.Equal(d0) || days[0].ET0 != MinET0 {
		t.Errorf("first day %+v", days[0])
	}
	_, err = alignWeather(w, d0, d0.AddDate(0, 0, 2))
	if err == nil {
		t.Fatal("expected an error")
	}
	var serr *SimulationError
	if !errors.As(err, &serr) || serr.Kind != ErrDataRange {
		t.Errorf("have %v, want a data range error", err)
	}
}

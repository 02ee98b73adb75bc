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

package soil

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/aquacrop"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestBuiltin(t *testing.T) {
	p, err := Builtin("SandyLoam")
	if err != nil {
		t.Fatal(err)
	}
	if p.NComp() != 12 {
		t.Errorf("compartments: have %d, want 12", p.NComp())
	}
	if different(p.Depth(), 1.55, 1e-9) {
		t.Errorf("depth: have %g, want 1.55", p.Depth())
	}
	if p.CN != 46 {
		t.Errorf("CN: have %g, want 46", p.CN)
	}
	if p.REW != 7 {
		t.Errorf("REW: have %g, want 7", p.REW)
	}
	l := p.Layers[0]
	if l.ThDry != 0.05 {
		t.Errorf("θdry: have %g, want 0.05", l.ThDry)
	}
	if l.Tau != 1 {
		t.Errorf("tau: have %g, want 1", l.Tau)
	}
	if different(l.ACR, -0.3232, 1e-9) || different(l.BCR, -1.4936+0.2416*math.Log(1200), 1e-9) {
		t.Errorf("capillary coefficients: have %g, %g", l.ACR, l.BCR)
	}
	for i, c := range p.Comp {
		if c.ThFC != 0.22 || c.Layer != 0 {
			t.Errorf("compartment %d: %+v", i, c)
		}
	}
	if p.ZRes > 0 {
		t.Errorf("unexpected restrictive layer at %g m", p.ZRes)
	}
}

func TestLookupClass(t *testing.T) {
	for _, name := range []string{"clay loam", "Clay_Loam", "CLAYLOAM"} {
		c, err := LookupClass(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if c.Name != "ClayLoam" {
			t.Errorf("%s: got %s", name, c.Name)
		}
	}
	_, err := LookupClass("peat")
	if !errors.Is(err, aquacrop.ErrConfiguration) {
		t.Errorf("unknown class: have %v, want a configuration error", err)
	}
}

func TestTau(t *testing.T) {
	tests := []struct {
		ksat, tau float64
	}{
		{ksat: 1200, tau: 1},
		{ksat: 500, tau: 0.76},
		{ksat: 35, tau: 0.30},
		{ksat: 0, tau: 0},
	}
	for _, test := range tests {
		if got := Tau(test.ksat); math.Abs(got-test.tau) > 1e-12 {
			t.Errorf("Tau(%g) = %g, want %g", test.ksat, got, test.tau)
		}
	}
}

func TestCurveNumber(t *testing.T) {
	tests := []struct {
		ksat, cn float64
	}{
		{3000, 46}, {865, 46}, {864, 61}, {347, 61}, {346, 72}, {36, 72}, {35, 77},
	}
	for _, test := range tests {
		if got := CurveNumber(test.ksat); got != test.cn {
			t.Errorf("CurveNumber(%g) = %g, want %g", test.ksat, got, test.cn)
		}
	}
}

func TestSpecProfile(t *testing.T) {
	pen := 0.0
	s := Spec{
		Name: "layered",
		Layers: []LayerSpec{
			{Thickness: 0.5, Class: "Loam"},
			{Thickness: 0.5, ThS: 0.5, ThFC: 0.39, ThWP: 0.23, Ksat: 125},
			{Thickness: 0.55, Class: "Clay", Penetrability: &pen},
		},
	}
	p, err := s.Profile()
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Layers) != 3 {
		t.Fatalf("layers: have %d, want 3", len(p.Layers))
	}
	if different(p.ZRes, 1, 1e-9) {
		t.Errorf("restrictive layer: have %g m, want 1 m", p.ZRes)
	}
	if p.CN != 61 {
		t.Errorf("CN from a loam topsoil: have %g, want 61", p.CN)
	}
	last := p.Comp[p.NComp()-1]
	if last.Layer != 2 || last.ThS != 0.55 {
		t.Errorf("bottom compartment: %+v", last)
	}
}

func TestSpecProfileMissingProperties(t *testing.T) {
	_, err := Spec{Name: "empty", Layers: []LayerSpec{{Thickness: 1}}}.Profile()
	if !errors.Is(err, aquacrop.ErrConfiguration) {
		t.Errorf("have %v, want a configuration error", err)
	}
}

func TestPedotransfer(t *testing.T) {
	thS, thFC, thWP, ks, err := Pedotransfer(40, 20, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if !(0 < thWP && thWP < thFC && thFC < thS && thS < 1) {
		t.Errorf("water contents out of order: %g, %g, %g", thWP, thFC, thS)
	}
	if err := ks.Check(unit.MeterPerSecond); err != nil {
		t.Error(err)
	}
	if ks.Value() <= 0 {
		t.Errorf("Ksat should be positive, got %v", ks)
	}
	if _, _, _, _, err := Pedotransfer(80, 40, 1); !errors.Is(err, aquacrop.ErrConfiguration) {
		t.Errorf("sand+clay > 100%%: have %v, want a configuration error", err)
	}
}

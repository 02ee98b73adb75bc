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
	"math"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/aquacrop"
)

// LayerSpec describes one soil layer in a parameter file. The hydraulic
// properties are taken, in order of preference, from explicit values,
// from a texture class, or from the sand, clay and organic matter
// contents.
type LayerSpec struct {
	Thickness     float64  `toml:"thickness"` // [m]
	Class         string   `toml:"class"`
	Sand          float64  `toml:"sand"` // [%]
	Clay          float64  `toml:"clay"` // [%]
	OM            float64  `toml:"om"`   // organic matter [%]
	ThS           float64  `toml:"th_s"`
	ThFC          float64  `toml:"th_fc"`
	ThWP          float64  `toml:"th_wp"`
	Ksat          float64  `toml:"ksat"` // [mm/day]
	Penetrability *float64 `toml:"penetrability"`
}

// Spec describes a soil profile in a parameter file.
type Spec struct {
	Name   string      `toml:"name"`
	Layers []LayerSpec `toml:"layers"`
	Dz     []float64   `toml:"dz"` // compartment thicknesses [m]
	CN     float64     `toml:"cn"`
	REW    float64     `toml:"rew"` // [mm]
	AdjCN  *bool       `toml:"adj_cn"`
}

// Profile builds the soil profile described by s.
func (s Spec) Profile() (*aquacrop.SoilProfile, error) {
	p := aquacrop.DefaultSoilProfile()
	p.Name = s.Name
	p.CN, p.REW = s.CN, s.REW
	if s.AdjCN != nil {
		p.AdjCN = *s.AdjCN
	}
	dz := s.Dz
	if len(dz) == 0 {
		dz = DefaultDz()
	}
	for i, ls := range s.Layers {
		l, err := ls.layer()
		if err != nil {
			return nil, aquacrop.ConfigError("soil %s, layer %d: %v", s.Name, i, err)
		}
		p.Layers = append(p.Layers, l)
	}
	if len(p.Layers) == 1 && p.Layers[0].Thickness == 0 {
		for _, d := range dz {
			p.Layers[0].Thickness += d
		}
	}
	if err := Derive(p); err != nil {
		return nil, err
	}
	if err := p.Discretize(dz); err != nil {
		return nil, err
	}
	return p, nil
}

func (ls LayerSpec) layer() (aquacrop.SoilLayer, error) {
	pen := 100.0
	if ls.Penetrability != nil {
		pen = *ls.Penetrability
	}
	switch {
	case ls.ThS > 0 && ls.ThFC > 0 && ls.ThWP > 0 && ls.Ksat > 0:
		return aquacrop.SoilLayer{Thickness: ls.Thickness, ThS: ls.ThS, ThFC: ls.ThFC, ThWP: ls.ThWP,
			Ksat: ls.Ksat, Penetrability: pen}, nil
	case ls.Class != "":
		c, err := LookupClass(ls.Class)
		if err != nil {
			return aquacrop.SoilLayer{}, err
		}
		l := c.layer(ls.Thickness)
		l.Penetrability = pen
		return l, nil
	case ls.Sand > 0 || ls.Clay > 0:
		thS, thFC, thWP, ks, err := Pedotransfer(ls.Sand, ls.Clay, ls.OM)
		if err != nil {
			return aquacrop.SoilLayer{}, err
		}
		return aquacrop.SoilLayer{Thickness: ls.Thickness, ThS: thS, ThFC: thFC, ThWP: thWP,
			Ksat: ks.Value() * 1000 * 86400, Penetrability: pen}, nil
	}
	return aquacrop.SoilLayer{}, aquacrop.ConfigError("need hydraulic properties, a texture class, or sand and clay contents")
}

// Pedotransfer estimates the water contents at saturation, field
// capacity and wilting point [m³/m³] and the saturated hydraulic
// conductivity from the sand and clay contents and organic matter [%]
// with the Saxton and Rawls (2006) equations.
func Pedotransfer(sandPct, clayPct, omPct float64) (thS, thFC, thWP float64, ksat *unit.Unit, err error) {
	if sandPct < 0 || clayPct < 0 || sandPct+clayPct > 100 || omPct < 0 || omPct > 8 {
		return 0, 0, 0, nil, aquacrop.ConfigError("texture sand=%g%% clay=%g%% om=%g%% is out of range", sandPct, clayPct, omPct)
	}
	s, c, om := sandPct/100, clayPct/100, omPct

	th1500t := -0.024*s + 0.487*c + 0.006*om + 0.005*s*om - 0.013*c*om + 0.068*s*c + 0.031
	thWP = th1500t + (0.14*th1500t - 0.02)

	th33t := -0.251*s + 0.195*c + 0.011*om + 0.006*s*om - 0.027*c*om + 0.452*s*c + 0.299
	thFC = th33t + (1.283*th33t*th33t - 0.374*th33t - 0.015)

	thS33t := 0.278*s + 0.034*c + 0.022*om - 0.018*s*om - 0.027*c*om - 0.584*s*c + 0.078
	thS33 := thS33t + (0.636*thS33t - 0.107)
	thS = thFC + thS33 - 0.097*s + 0.043

	if thWP <= 0 || thFC <= thWP || thS <= thFC {
		return 0, 0, 0, nil, aquacrop.ConfigError("texture sand=%g%% clay=%g%% gives inconsistent water contents", sandPct, clayPct)
	}
	b := (math.Log(1500) - math.Log(33)) / (math.Log(thFC) - math.Log(thWP))
	lambda := 1 / b
	mmPerHour := 1930 * math.Pow(thS-thFC, 3-lambda)
	ksat = unit.New(mmPerHour/1000/3600, unit.MeterPerSecond)
	if err := ksat.Check(unit.MeterPerSecond); err != nil {
		return 0, 0, 0, nil, err
	}
	return thS, thFC, thWP, ksat, nil
}

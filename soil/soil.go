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

// Package soil builds the soil profiles used by the aquacrop simulation:
// it holds the built-in texture classes, derives drainage, capillary
// rise, evaporation and runoff parameters from the hydraulic properties
// of each layer, and estimates those properties from texture.
package soil

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spatialmodel/aquacrop"
)

// Class holds the hydraulic properties of a soil texture class.
type Class struct {
	Name string
	ThS  float64 // [m³/m³]
	ThFC float64 // [m³/m³]
	ThWP float64 // [m³/m³]
	Ksat float64 // [mm/day]
}

var classes = map[string]Class{
	"sand":          {"Sand", 0.36, 0.13, 0.06, 3000},
	"loamysand":     {"LoamySand", 0.38, 0.16, 0.06, 2200},
	"sandyloam":     {"SandyLoam", 0.41, 0.22, 0.10, 1200},
	"loam":          {"Loam", 0.46, 0.31, 0.15, 500},
	"siltloam":      {"SiltLoam", 0.46, 0.33, 0.13, 575},
	"sandyclayloam": {"SandyClayLoam", 0.47, 0.32, 0.20, 225},
	"clayloam":      {"ClayLoam", 0.50, 0.39, 0.23, 125},
	"clay":          {"Clay", 0.55, 0.54, 0.39, 35},
}

// Classes returns the names of the built-in texture classes.
func Classes() []string {
	names := make([]string, 0, len(classes))
	for _, c := range classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// LookupClass returns the built-in texture class with the given name.
// Matching ignores case, spaces and underscores.
func LookupClass(name string) (Class, error) {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name))
	c, ok := classes[key]
	if !ok {
		return Class{}, aquacrop.ConfigError("soil class %q is not one of %s", name, strings.Join(Classes(), ", "))
	}
	return c, nil
}

// DefaultDz returns the default compartment thicknesses [m].
func DefaultDz() []float64 {
	return []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.15, 0.15, 0.15, 0.15, 0.15, 0.2}
}

// Builtin returns a one-layer profile of the named texture class,
// discretized into the default compartments.
func Builtin(name string) (*aquacrop.SoilProfile, error) {
	c, err := LookupClass(name)
	if err != nil {
		return nil, err
	}
	dz := DefaultDz()
	var depth float64
	for _, d := range dz {
		depth += d
	}
	p := aquacrop.DefaultSoilProfile()
	p.Name = c.Name
	p.Layers = []aquacrop.SoilLayer{c.layer(depth)}
	if err := Derive(p); err != nil {
		return nil, err
	}
	if err := p.Discretize(dz); err != nil {
		return nil, err
	}
	return p, nil
}

func (c Class) layer(thickness float64) aquacrop.SoilLayer {
	return aquacrop.SoilLayer{
		Thickness:     thickness,
		ThS:           c.ThS,
		ThFC:          c.ThFC,
		ThWP:          c.ThWP,
		Ksat:          c.Ksat,
		Penetrability: 100,
	}
}

// Derive fills in the parameters of p that are not given explicitly:
// per layer the air-dry water content, the drainage characteristic and
// the capillary rise coefficients, and for the profile the readily
// evaporable water, the curve number and the depth of any restrictive
// layer.
func Derive(p *aquacrop.SoilProfile) error {
	if len(p.Layers) == 0 {
		return aquacrop.ConfigError("soil profile %q has no layers", p.Name)
	}
	for i := range p.Layers {
		l := &p.Layers[i]
		if l.Ksat < 0 {
			return aquacrop.ConfigError("soil layer %d has negative Ksat %g", i, l.Ksat)
		}
		if l.Penetrability == 0 && i == 0 {
			return aquacrop.ConfigError("the top soil layer of %q is impenetrable", p.Name)
		}
		if l.ThDry == 0 {
			l.ThDry = l.ThWP / 2
		}
		if l.Tau == 0 {
			l.Tau = Tau(l.Ksat)
		}
		if l.ACR == 0 && l.BCR == 0 {
			l.ACR, l.BCR = CapillaryCoefficients(l.ThWP, l.ThFC, l.ThS, l.Ksat)
		}
	}
	top := p.Layers[0]
	if p.REW == 0 {
		p.REW = ReadilyEvaporableWater(top.ThFC, top.ThDry, p.EvapZSurf)
	}
	if p.CN == 0 {
		p.CN = CurveNumber(top.Ksat)
	}
	p.ZRes = -999
	var z float64
	for _, l := range p.Layers {
		if l.Penetrability <= 0 {
			p.ZRes = z
			break
		}
		z += l.Thickness
	}
	return nil
}

// Tau returns the drainage characteristic for a saturated hydraulic
// conductivity ksat [mm/day].
func Tau(ksat float64) float64 {
	tau := math.Round(0.0866*math.Pow(ksat, 0.35)*100) / 100
	return math.Max(0, math.Min(tau, 1))
}

// ReadilyEvaporableWater returns the water [mm] that can evaporate from
// a surface layer of the given thickness [m] in stage 1.
func ReadilyEvaporableWater(thFC, thDry, zSurf float64) float64 {
	rew := math.Round(1000 * (thFC - thDry) * zSurf)
	return math.Max(0, math.Min(rew, 15))
}

// CurveNumber returns the curve number for a topsoil with the given
// saturated hydraulic conductivity [mm/day].
func CurveNumber(ksat float64) float64 {
	switch {
	case ksat > 864:
		return 46
	case ksat >= 347:
		return 61
	case ksat >= 36:
		return 72
	default:
		return 77
	}
}

// CapillaryCoefficients returns the a and b coefficients of the
// capillary rise equation for the texture group the water contents fall
// in, with ksat [mm/day] clipped to the range of that group.
func CapillaryCoefficients(thWP, thFC, thS, ksat float64) (a, b float64) {
	in := func(v, lo, hi float64) bool { return v >= lo && v <= hi }
	clip := func(lo, hi float64) float64 { return math.Max(lo, math.Min(ksat, hi)) }
	sandy := func() (float64, float64) {
		k := clip(200, 2000)
		return -0.3112 - 1e-5*k, -1.4936 + 0.2416*math.Log(k)
	}
	switch {
	case in(thWP, 0.04, 0.15) && in(thFC, 0.09, 0.28) && in(thS, 0.32, 0.51):
		return sandy()
	case in(thWP, 0.06, 0.20) && in(thFC, 0.23, 0.42) && in(thS, 0.42, 0.55):
		k := clip(100, 750)
		return -0.4986 + 9e-5*k, -2.132 + 0.4778*math.Log(k)
	case in(thWP, 0.16, 0.34) && in(thFC, 0.25, 0.45) && in(thS, 0.40, 0.53):
		k := clip(5, 150)
		return -0.5677 - 4e-5*k, -3.7189 + 0.5922*math.Log(k)
	case in(thWP, 0.20, 0.42) && in(thFC, 0.40, 0.58) && in(thS, 0.49, 0.58):
		k := clip(1, 150)
		return -0.6366 + 8e-4*k, -1.9165 + 0.7063*math.Log(k)
	default:
		return sandy()
	}
}

// String implements fmt.Stringer.
func (c Class) String() string {
	return fmt.Sprintf("%s (θs=%.2f θfc=%.2f θwp=%.2f Ksat=%g mm/day)", c.Name, c.ThS, c.ThFC, c.ThWP, c.Ksat)
}

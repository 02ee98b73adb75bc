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

	"gonum.org/v1/gonum/floats"
)

// SoilLayer holds the hydraulic properties of one soil horizon.
type SoilLayer struct {
	Thickness     float64 `toml:"thickness" desc:"Layer thickness" units:"m"`
	ThS           float64 `toml:"th_s" desc:"Water content at saturation" units:"m³/m³"`
	ThFC          float64 `toml:"th_fc" desc:"Water content at field capacity" units:"m³/m³"`
	ThWP          float64 `toml:"th_wp" desc:"Water content at permanent wilting point" units:"m³/m³"`
	Ksat          float64 `toml:"ksat" desc:"Saturated hydraulic conductivity" units:"mm/day"`
	Penetrability float64 `toml:"penetrability" desc:"Root penetrability" units:"%"`

	// The following are normally derived from the values above by
	// soil.Derive but may be given explicitly.
	ThDry float64 `toml:"th_dry" desc:"Air-dry water content" units:"m³/m³"`
	Tau   float64 `toml:"tau" desc:"Drainage characteristic" units:"-"`
	ACR   float64 `toml:"a_cr" desc:"Capillary rise coefficient a" units:"-"`
	BCR   float64 `toml:"b_cr" desc:"Capillary rise coefficient b" units:"-"`
}

// Compartment is a discretized soil slice with uniform hydraulic
// properties, inherited from the layer it belongs to.
type Compartment struct {
	Dz    float64 // thickness [m]
	DzSum float64 // depth of the bottom of the compartment [m]
	ZMid  float64 // depth of the compartment midpoint [m]
	Layer int     // index of the layer the compartment belongs to

	ThS, ThFC, ThWP, ThDry float64 // [m³/m³]
	Ksat                   float64 // [mm/day]
	Tau                    float64
	ACR, BCR               float64
}

// SoilProfile is the static description of the simulated soil column.
// It is not modified by the daily loop.
type SoilProfile struct {
	Name   string
	Layers []SoilLayer
	Comp   []Compartment

	CN     float64 // curve number
	AdjCN  bool    // adjust CN for antecedent moisture
	REW    float64 // readily evaporable water [mm]
	ZCN    float64 // depth of topsoil used to adjust CN [m]
	ZGerm  float64 // depth of topsoil used for germination [m]
	ZTop   float64 // thickness of the topsoil slab used in stress calculations [m]
	ZRes   float64 // depth of a root-restricting layer; ≤ 0 means none [m]
	FShape float64 // capillary rise shape factor

	EvapZSurf float64 // thickness of the stage-1 evaporation layer [m]
	EvapZMin  float64 // minimum thickness of the stage-2 evaporation layer [m]
	EvapZMax  float64 // maximum thickness of the stage-2 evaporation layer [m]
	Kex       float64 // maximum soil evaporation coefficient
	FEvap     float64 // shape factor of the stage-2 reduction curve
	FWrelExp  float64 // relative wetness at which the evaporation layer expands
	FWCC      float64 // withered canopy effect on evaporation [%]
}

// DefaultSoilProfile returns a profile with the standard evaporation,
// runoff and germination constants set and no layers.
func DefaultSoilProfile() *SoilProfile {
	return &SoilProfile{
		AdjCN:     true,
		ZCN:       0.3,
		ZGerm:     0.3,
		ZTop:      0.1,
		ZRes:      -999,
		FShape:    16,
		EvapZSurf: 0.04,
		EvapZMin:  0.15,
		EvapZMax:  0.30,
		Kex:       1.1,
		FEvap:     4,
		FWrelExp:  0.4,
		FWCC:      50,
	}
}

// Discretize splits the layers of p into compartments of the given
// thicknesses [m]. The compartments must span the profile; a layer
// boundary falling inside a compartment assigns that compartment to the
// layer holding its midpoint.
func (p *SoilProfile) Discretize(dz []float64) error {
	if len(p.Layers) == 0 {
		return configError("soil profile %q has no layers", p.Name)
	}
	if len(dz) == 0 {
		return configError("soil profile %q has no compartments", p.Name)
	}
	layerBot := make([]float64, len(p.Layers))
	for i, l := range p.Layers {
		if l.Thickness <= 0 {
			return configError("soil layer %d has non-positive thickness %g", i, l.Thickness)
		}
		if !(l.ThDry <= l.ThWP && l.ThWP < l.ThFC && l.ThFC <= l.ThS && l.ThS < 1) {
			return configError("soil layer %d: water contents must satisfy dry ≤ wp < fc ≤ sat < 1, got %g, %g, %g, %g",
				i, l.ThDry, l.ThWP, l.ThFC, l.ThS)
		}
		if l.Ksat < 0 {
			return configError("soil layer %d has negative Ksat", i)
		}
		layerBot[i] = l.Thickness
	}
	floats.CumSum(layerBot, layerBot)
	cum := make([]float64, len(dz))
	floats.CumSum(cum, dz)

	p.Comp = make([]Compartment, len(dz))
	for i, d := range dz {
		if d <= 0 {
			return configError("compartment %d has non-positive thickness %g", i, d)
		}
		c := &p.Comp[i]
		c.Dz = d
		c.DzSum = round(cum[i], 1e6)
		c.ZMid = c.DzSum - d/2
		li := len(p.Layers) - 1
		for j, b := range layerBot {
			if c.ZMid <= b {
				li = j
				break
			}
		}
		l := p.Layers[li]
		c.Layer = li
		c.ThS, c.ThFC, c.ThWP, c.ThDry = l.ThS, l.ThFC, l.ThWP, l.ThDry
		c.Ksat, c.Tau, c.ACR, c.BCR = l.Ksat, l.Tau, l.ACR, l.BCR
	}
	return nil
}

// NComp returns the number of compartments.
func (p *SoilProfile) NComp() int { return len(p.Comp) }

// Depth returns the total depth of the profile [m].
func (p *SoilProfile) Depth() float64 {
	if len(p.Comp) == 0 {
		return 0
	}
	return p.Comp[len(p.Comp)-1].DzSum
}

// compartmentsTo returns the number of compartments that are at least
// partly above depth z.
func (p *SoilProfile) compartmentsTo(z float64) int {
	n := 0
	for _, c := range p.Comp {
		if c.DzSum-c.Dz < z {
			n++
		}
	}
	if n == 0 && len(p.Comp) > 0 {
		n = 1
	}
	return n
}

// fraction returns the share of compartment c that is above depth z.
func (c *Compartment) fraction(z float64) float64 {
	if c.DzSum <= z {
		return 1
	}
	f := 1 - (c.DzSum-z)/c.Dz
	return math.Max(0, f)
}

// mm converts a volumetric water content in compartment c to a depth of
// water [mm].
func (c *Compartment) mm(th float64) float64 { return th * 1000 * c.Dz }

// theta converts a depth of water [mm] in compartment c to a volumetric
// water content.
func (c *Compartment) theta(w float64) float64 { return w / (1000 * c.Dz) }

// TotalWater returns the water stored in the whole profile [mm].
func (p *SoilProfile) TotalWater(th []float64) float64 {
	w := make([]float64, len(p.Comp))
	for i := range p.Comp {
		w[i] = p.Comp[i].mm(th[i])
	}
	return floats.Sum(w)
}

func round(v, scale float64) float64 { return math.Round(v*scale) / scale }

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

// Ksw holds the water stress coefficients (1 = no stress).
type Ksw struct {
	Exp    float64 // leaf expansion
	Sto    float64 // stomatal closure
	Sen    float64 // canopy senescence
	Pol    float64 // pollination
	StoLin float64 // stomatal closure, linear response
}

// stress indices into the Crop threshold arrays.
const (
	iExp = iota
	iSto
	iSen
	iPol
)

// WaterStress converts the depletion dr of a zone holding taw of
// available water into stress coefficients. If beta is true and early
// senescence has started (tEarlySen > 0), the senescence thresholds are
// lowered by c.Beta percent.
func WaterStress(c *Crop, tEarlySen, dr, taw, et0 float64, beta bool) Ksw {
	pUp, pLo := c.PUp, c.PLo
	if c.ETAdj {
		for i := 0; i < 3; i++ {
			pUp[i] = etAdjust(pUp[i], et0)
			pLo[i] = etAdjust(pLo[i], et0)
		}
	}
	if beta && tEarlySen > 0 {
		pUp[iSen] *= 1 - c.Beta/100
		pLo[iSen] *= 1 - c.Beta/100
	}
	var drel [4]float64
	for i := range drel {
		pUp[i] = clamp(pUp[i], 0, 1)
		pLo[i] = clamp(pLo[i], 0, 1)
		drel[i] = relativeDepletion(dr, taw, pUp[i], pLo[i])
	}
	return Ksw{
		Exp:    shapeStress(drel[iExp], c.FShapeW[iExp]),
		Sto:    shapeStress(drel[iSto], c.FShapeW[iSto]),
		Sen:    shapeStress(drel[iSen], c.FShapeW[iSen]),
		Pol:    1 - drel[iPol],
		StoLin: 1 - drel[iSto],
	}
}

// etAdjust shifts a depletion threshold for today's evaporative demand.
func etAdjust(p, et0 float64) float64 {
	return p + 0.04*(5-et0)*math.Log10(10-9*p)
}

// relativeDepletion is 0 when dr is at most pUp·taw, 1 when dr is at
// least pLo·taw, and linear in between.
func relativeDepletion(dr, taw, pUp, pLo float64) float64 {
	switch {
	case dr <= pUp*taw:
		return 0
	case dr >= pLo*taw:
		return 1
	default:
		return 1 - (pLo*taw-dr)/(taw*(pLo-pUp))
	}
}

// shapeStress maps a relative depletion to a stress coefficient with a
// convex (fshape > 0) or concave (fshape < 0) curve.
func shapeStress(drel, fshape float64) float64 {
	var ks float64
	if math.Abs(fshape) < 1e-9 {
		ks = 1 - drel
	} else {
		ks = 1 - (math.Exp(drel*fshape)-1)/(math.Exp(fshape)-1)
	}
	return clamp(ks, 0, 1)
}

// AerationStress returns the root zone aeration stress coefficient and
// the updated count of consecutive waterlogged days.
func AerationStress(aerDays, lagAer int, th ZoneTheta) (ksa float64, days int) {
	if th.Act <= th.Aer {
		return 1, 0
	}
	if aerDays < lagAer {
		aerDays++
	}
	var stress float64
	if th.S > th.Aer {
		stress = 1 - (th.S-th.Act)/(th.S-th.Aer)
	} else {
		stress = 1
	}
	ksa = 1 - (float64(aerDays)/float64(lagFor(lagAer)))*stress
	return clamp(ksa, 0, 1), aerDays
}

func lagFor(lagAer int) int {
	if lagAer < 1 {
		return 1
	}
	return lagAer
}

// Kst holds the temperature stress coefficients.
type Kst struct {
	PolH float64 // heat stress on pollination
	PolC float64 // cold stress on pollination
	Bio  float64 // cold stress on biomass production
}

// logisticShape returns the shape factor of the logistic temperature
// stress curves with the given bounds.
func logisticShape(up, lo float64) float64 {
	return -math.Log((lo*up - 0.98*lo) / (0.98 * (up - lo)))
}

// TemperatureStress computes the temperature stress coefficients for a
// day with the given extremes [°C] and growing degree days.
func TemperatureStress(c *Crop, tmax, tmin, gdd float64) Kst {
	const polUp, polLo = 1, 0.001
	fb := logisticShape(polUp, polLo)
	k := Kst{PolH: 1, PolC: 1, Bio: 1}
	if c.PolHeatStress {
		switch {
		case tmax <= c.TmaxUp:
			k.PolH = 1
		case tmax >= c.TmaxLo:
			k.PolH = 0
		default:
			trel := (tmax - c.TmaxUp) / (c.TmaxLo - c.TmaxUp)
			k.PolH = (polUp * polLo) / (polLo + (polUp-polLo)*math.Exp(-fb*(1-trel)))
		}
	}
	if c.PolColdStress {
		switch {
		case tmin >= c.TminUp:
			k.PolC = 1
		case tmin <= c.TminLo:
			k.PolC = 0
		default:
			trel := (c.TminUp - tmin) / (c.TminUp - c.TminLo)
			k.PolC = (polUp * polLo) / (polLo + (polUp-polLo)*math.Exp(-fb*(1-trel)))
		}
	}
	if c.BioTempStress {
		k.Bio = gddStress(c, gdd)
	}
	return k
}

// gddStress is the cold stress coefficient for biomass production and
// transpiration as a function of daily growing degree days.
func gddStress(c *Crop, gdd float64) float64 {
	const up, lo = 1, 0.02
	switch {
	case gdd >= c.GDDUp:
		return 1
	case gdd <= c.GDDLo:
		return 0
	}
	rel := (gdd - c.GDDLo) / (c.GDDUp - c.GDDLo)
	ks := (up * lo) / (lo + (up-lo)*math.Exp(-logisticShape(up, lo)*rel))
	return clamp(ks-lo*(1-rel), 0, 1)
}

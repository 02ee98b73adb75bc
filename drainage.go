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

// DrainageResult is the outcome of one day of gravity drainage.
type DrainageResult struct {
	Th       []float64 // updated water contents [m³/m³]
	DeepPerc float64   // drainage out of the bottom of the profile [mm]
	FluxOut  []float64 // downward flux out of each compartment [mm]
	Overflow float64   // water backed up to the surface that could not be stored [mm]
}

// drainRate returns the drainage ability [m³/m³/day] of a compartment
// at water content th. It is zero at or below the adjusted field
// capacity and never drains the compartment below it.
func drainRate(th, thFC, thFCAdj, thS, tau float64) float64 {
	var dthdt float64
	switch {
	case th <= thFCAdj:
		return 0
	case th >= thS:
		dthdt = tau * (thS - thFC)
	default:
		dthdt = tau * (thS - thFC) * ((math.Exp(th-thFC) - 1) / (math.Exp(thS-thFC) - 1))
	}
	if th-dthdt < thFCAdj {
		dthdt = th - thFCAdj
	}
	return dthdt
}

// thetaForRate inverts drainRate: it returns the water content at which
// the compartment drains at dthdt.
func thetaForRate(dthdt float64, c *Compartment, thFCAdj float64) float64 {
	if dthdt <= 0 {
		return thFCAdj
	}
	if c.Tau <= 0 || c.ThS <= c.ThFC {
		return c.ThS + 0.01
	}
	a := 1 + (dthdt*(math.Exp(c.ThS-c.ThFC)-1))/(c.Tau*(c.ThS-c.ThFC))
	return math.Max(c.ThFC+math.Log(a), thFCAdj)
}

// Drainage redistributes water downward through the profile, starting
// from the water contents th and the adjusted field capacities thFCAdj.
// Inputs are not modified.
func Drainage(p *SoilProfile, th, thFCAdj []float64) DrainageResult {
	n := p.NComp()
	thNew := make([]float64, n)
	copy(thNew, th)
	fluxOut := make([]float64, n)
	var drainSum, overflow float64

	for i := 0; i < n; i++ {
		c := &p.Comp[i]
		fcAdj := thFCAdj[i]
		dthdt := drainRate(th[i], c.ThFC, fcAdj, c.ThS, c.Tau)
		drainComp := c.mm(dthdt)

		var excess float64
		preThick := c.DzSum - c.Dz
		drainMax := dthdt * 1000 * preThick

		if drainSum <= drainMax {
			// The compartment can pass on everything arriving from above.
			thNew[i] = th[i] - dthdt
			drainSum += drainComp
			if drainSum > c.Ksat {
				excess += drainSum - c.Ksat
				drainSum = c.Ksat
			}
		} else {
			// Water must be stored: find the water content whose
			// drainage ability matches the flux from above.
			var thX float64
			if preThick > 0 {
				thX = thetaForRate(drainSum/(1000*preThick), c, fcAdj)
			} else {
				thX = fcAdj
			}
			thNew[i] = th[i] + c.theta(drainSum)
			if thX <= c.ThS {
				switch {
				case thNew[i] > thX:
					drainSum = c.mm(thNew[i] - thX)
					d := drainRate(thX, c.ThFC, fcAdj, c.ThS, c.Tau)
					drainSum += c.mm(d)
					if drainSum > c.Ksat {
						excess += drainSum - c.Ksat
						drainSum = c.Ksat
					}
					thNew[i] = thX - d
				case thNew[i] > fcAdj:
					d := drainRate(thNew[i], c.ThFC, fcAdj, c.ThS, c.Tau)
					thNew[i] -= d
					drainSum = c.mm(d)
					if drainSum > c.Ksat {
						excess += drainSum - c.Ksat
						drainSum = c.Ksat
					}
				default:
					drainSum = 0
				}
			} else {
				switch {
				case thNew[i] <= c.ThS && thNew[i] > fcAdj:
					d := drainRate(thNew[i], c.ThFC, fcAdj, c.ThS, c.Tau)
					thNew[i] -= d
					drainSum = c.mm(d)
					if drainSum > c.Ksat {
						excess += drainSum - c.Ksat
						drainSum = c.Ksat
					}
				case thNew[i] <= c.ThS:
					drainSum = 0
				default:
					excess = c.mm(thNew[i] - c.ThS)
					d := drainRate(thNew[i], c.ThFC, fcAdj, c.ThS, c.Tau)
					thNew[i] = c.ThS - d
					drainComp = c.mm(d)
					drainMax = d * 1000 * preThick
					if drainMax > excess {
						drainMax = excess
					}
					excess -= drainMax
					drainSum = drainComp + drainMax
					if drainSum > c.Ksat {
						excess += drainSum - c.Ksat
						drainSum = c.Ksat
					}
				}
			}
		}
		fluxOut[i] = drainSum

		// Store any excess in the compartments above.
		for j := i; excess > 0 && j >= 0; j-- {
			cj := &p.Comp[j]
			if j < i {
				fluxOut[j] -= excess
			}
			thNew[j] += cj.theta(excess)
			if thNew[j] > cj.ThS {
				excess = cj.mm(thNew[j] - cj.ThS)
				thNew[j] = cj.ThS
			} else {
				excess = 0
			}
		}
		overflow += excess
	}
	return DrainageResult{Th: thNew, DeepPerc: drainSum, FluxOut: fluxOut, Overflow: overflow}
}

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

// RainfallPartition splits precip [mm] into surface runoff and
// infiltration with the curve number method. When runoff is not
// inhibited and there are no effective bunds, the submerged-day counter
// in s is reset and, if p.AdjCN is set, the curve number is adjusted for
// the relative wetness of the topsoil. Otherwise all rain infiltrates.
func RainfallPartition(s *DailyState, p *SoilProfile, fm *FieldManagement, precip float64) (runoff, infl float64) {
	if fm.SRInhibit || fm.bunded() {
		return 0, precip
	}
	s.DaySubmerged = 0
	cn := p.CN * (1 + fm.CNAdjPct/100)
	if p.AdjCN {
		cn = adjustCN(cn, topsoilWetness(p, s.Th))
	}
	cn = clamp(cn, 1, 100)
	sMax := 25400/cn - 254
	term := precip - 0.05*sMax
	if term <= 0 {
		return 0, precip
	}
	runoff = term * term / (precip + 0.95*sMax)
	return runoff, precip - runoff
}

// adjustCN interpolates between the dry and wet curve number bounds of
// cn with the relative wetness wet ∈ [0, 1].
func adjustCN(cn, wet float64) float64 {
	cnBot := math.Round(1.4e-14 + 0.507*cn - 0.00374*cn*cn + 0.0000867*cn*cn*cn)
	cnTop := math.Round(5.6e-14 + 2.33*cn - 0.0209*cn*cn + 0.000076*cn*cn*cn)
	return math.Round(cnBot + (cnTop-cnBot)*wet)
}

// topsoilWetness is the depth-weighted relative wetness, between wilting
// point and field capacity, of the soil above p.ZCN.
func topsoilWetness(p *SoilProfile, th []float64) float64 {
	n := p.compartmentsTo(p.ZCN)
	var xx, wet float64
	for i := 0; i < n; i++ {
		c := &p.Comp[i]
		z := math.Min(c.DzSum, p.ZCN)
		wx := 1.016 * (1 - math.Exp(-4.16*(z/p.ZCN)))
		wrel := clamp(wx-xx, 0, 1)
		xx = wx
		t := math.Max(c.ThWP, th[i])
		wet += wrel * (t - c.ThWP) / (c.ThFC - c.ThWP)
	}
	return clamp(wet, 0, 1)
}

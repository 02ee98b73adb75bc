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

// BiomassAccumulation adds today's above-ground biomass [g/m²] for the
// actual and the no-stress crop from the normalized water productivity
// and the ratio of transpiration to reference evapotranspiration.
func BiomassAccumulation(s *DailyState, c *Crop, trAct, trPotNS, et0, tmax, tmin, gdd float64) {
	if !s.GrowingSeason {
		s.B, s.BNS = 0, 0
		return
	}
	hit := float64(s.DAP-s.DelayedCDs) - c.HIStartCD - 1
	kst := TemperatureStress(c, tmax, tmin, gdd)
	wp := c.WP
	if (c.CropType == RootTuber || c.CropType == FruitGrain) && s.HIref > 0 {
		var fswitch float64
		switch {
		case c.Determinant:
			fswitch = s.PctLagPhase / 100
		case hit < c.YldFormCD/3:
			fswitch = math.Max(hit, 0) / (c.YldFormCD / 3)
		default:
			fswitch = 1
		}
		wp *= 1 - (1-c.WPy/100)*fswitch
	}
	wp *= c.FCO2
	db := wp * (trAct / et0) * kst.Bio
	dbNS := wp * (trPotNS / et0) * kst.Bio
	if math.IsNaN(db) {
		db = 0
	}
	if math.IsNaN(dbNS) {
		dbNS = 0
	}
	s.B += db
	s.BNS += dbNS
}

// Yield sets the dry yield [t/ha] from the biomass and the adjusted
// harvest index. It is zero outside the growing season.
func Yield(s *DailyState) {
	if !s.GrowingSeason {
		s.Y = 0
		return
	}
	s.Y = (s.B / 100) * s.HIadj
}

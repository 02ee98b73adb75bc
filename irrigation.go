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
	"time"
)

// Irrigation returns today's irrigation depth [mm] under the policy ic
// and updates the seasonal irrigation total and the irrigation
// depletion estimate in s. precip and runoff are today's rainfall and
// rainfall runoff [mm]. Net irrigation (method 4) is applied later by
// Transpiration, so this function returns zero for it.
func Irrigation(s *DailyState, p *SoilProfile, c *Crop, ic *IrrigationConfig, today time.Time, precip, runoff float64) float64 {
	if !s.GrowingSeason {
		s.IrrCum = 0
		return 0
	}
	rz := RootZoneWater(p, s.Th, s.Zroot, c.Zmin, c.Aer)
	var abvFC float64
	if rz.Th.Act > rz.Th.FC {
		rootDepth := math.Max(s.Zroot, c.Zmin)
		abvFC = (rz.Th.Act - rz.Th.FC) * 1000 * rootDepth
	}
	s.Depletion = rz.Dr.Rz + s.Tpot + s.Epot - precip + runoff - abvFC
	s.TAW = rz.TAW.Rz
	if s.DAP == 1 {
		s.GrowthStage = 1
	}

	effAdj := ((100 - ic.AppEff) + 100) / 100
	var irr float64
	switch ic.Method {
	case SoilMoisture:
		stage := s.GrowthStage
		if stage < 1 {
			stage = 1
		}
		thr := (1 - ic.SMT[stage-1]/100) * s.TAW
		if s.Depletion > thr {
			irr = math.Max(0, s.Depletion) * effAdj
		}
	case FixedInterval:
		if ic.Interval > 0 && (s.DAP-1)%ic.Interval == 0 {
			irr = math.Max(0, s.Depletion) * effAdj
		}
	case Schedule:
		irr = ic.Schedule[dateOnly(today)]
	case FixedDailyDepth:
		irr = ic.Depth * effAdj
	}
	irr = clamp(irr, 0, ic.MaxIrr)
	if s.IrrCum+irr > ic.MaxIrrSeason {
		irr = math.Max(0, ic.MaxIrrSeason-s.IrrCum)
	}
	s.IrrCum += irr
	return irr
}

// PreIrrigation raises the root zone water content to the net
// irrigation target on the first day of a season under net irrigation.
// It returns the water added [mm].
func PreIrrigation(s *DailyState, p *SoilProfile, c *Crop, ic *IrrigationConfig) float64 {
	if ic.Method != NetIrrigation || !s.GrowingSeason || s.DAP != 1 {
		return 0
	}
	rootDepth := math.Round(math.Max(s.Zroot, c.Zmin)*100) / 100
	var pre float64
	for i := 0; i < p.compartmentsTo(rootDepth); i++ {
		cp := &p.Comp[i]
		thCrit := cp.ThWP + (ic.NetIrrSMT/100)*(cp.ThFC-cp.ThWP)
		if s.Th[i] < thCrit {
			pre += cp.mm(thCrit - s.Th[i])
			s.Th[i] = thCrit
		}
	}
	return pre
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

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

// DailySolution returns a function that simulates one day: it advances
// the calendar, runs every sub-model in order and records the outputs.
func DailySolution() DayManipulator {
	return func(m *Model) error {
		if m.Done {
			return nil
		}
		if m.Day >= len(m.days) {
			return &SimulationError{Kind: ErrDataRange, Step: "weather", Day: m.Day, Date: m.Date}
		}
		w := m.TodayWeather()
		m.Date = w.Date
		m.advanceSeason()

		s, p, c := m.State, m.Soil, m.Crop()
		fm, ic := &m.Field, &m.Irrigation
		waterTable := m.Groundwater.Present
		f := WaterFlux{Date: m.Date, Season: m.Season, Precip: w.Precip}

		gdd := GrowingDegreeDay(c.GDDMethod, c.Tupp, c.Tbase, w.Tmax, w.Tmin)
		if s.GrowingSeason {
			s.DAP++
			s.GDDcum += gdd
		} else {
			gdd = 0
		}

		f.GwIn = CheckGroundwaterTable(s, p, waterTable, m.Groundwater.WaterTableDepth(m.Date))
		f.ZGW = s.ZGW
		RootDevelopment(s, p, c, gdd, waterTable)
		f.IrrNet = PreIrrigation(s, p, c, ic)

		dr := Drainage(p, s.Th, s.ThFCAdj)
		copy(s.Th, dr.Th)

		runoff, infl := RainfallPartition(s, p, fm, w.Precip)
		f.Irr = Irrigation(s, p, c, ic, m.Date, w.Precip, runoff)
		in := Infiltration(s, p, fm, ic.AppEff, infl, f.Irr, dr.DeepPerc, runoff+dr.Overflow, dr.FluxOut)
		f.DeepPerc, f.Runoff, f.Infl = in.DeepPerc, in.Runoff, in.Infl
		f.CR = CapillaryRise(s, p, dr.FluxOut, waterTable)

		Germination(s, p, c, gdd)
		GrowthStage(s, c)
		CanopyCover(s, p, c, gdd, w.ET0)
		f.Es, f.EsPot = SoilEvaporation(s, p, c, fm, ic, w.ET0, f.Infl, w.Precip, f.Irr)

		tr := Transpiration(s, p, c, ic, m.CO2, w.ET0, gdd)
		f.Tr, f.TrPot = tr.TrAct, tr.TrPot
		f.IrrNet += tr.IrrNet
		f.GwIn += GroundwaterInflow(s, p)

		HIRefCurrentDay(s, c)
		BiomassAccumulation(s, c, tr.TrAct, tr.TrPotNS, w.ET0, w.Tmax, w.Tmin, gdd)
		HarvestIndex(s, p, c, w.ET0, w.Tmax, w.Tmin, gdd)
		Yield(s)
		m.checkHarvest(c)

		rz := RootZoneWater(p, s.Th, s.Zroot, c.Zmin, c.Aer)
		f.Wr = rz.WrAct
		f.SurfaceStorage = s.SurfaceStorage
		f.Stored = p.TotalWater(s.Th) + s.SurfaceStorage
		f.DAP = s.DAP
		m.Today = f
		m.record(gdd)
		m.Day++
		return nil
	}
}

// advanceSeason moves the season state machine to today: a season that
// was harvested yesterday ends, and a season whose planting date is
// today begins.
func (m *Model) advanceSeason() {
	s := m.State
	if s.HarvestFlag {
		s.HarvestFlag = false
		s.GrowingSeason = false
		s.resetCrop(nil)
	}
	next := m.Season + 1
	if next < len(m.Seasons) && !m.Date.Before(m.Seasons[next].PlantingDate) && !s.GrowingSeason {
		m.Season = next
		c := m.Seasons[next].Crop
		s.resetCrop(c)
		s.GrowingSeason = true
		s.resetEvaporation(m.Soil)
	}
}

// checkHarvest ends the season at maturity, at crop death or on the
// harvest date, and records the season summary.
func (m *Model) checkHarvest(c *Crop) {
	s := m.State
	if !s.GrowingSeason || s.HarvestFlag {
		return
	}
	if s.Germination && !s.CropDead && c.tAdj(s) >= c.Maturity {
		s.CropMature = true
	}
	season := m.Seasons[m.Season]
	if !(s.CropMature || s.CropDead || !m.Date.Before(season.HarvestDate)) {
		return
	}
	s.HarvestFlag = true
	m.Outputs.Seasons = append(m.Outputs.Seasons, SeasonSummary{
		Season:       m.Season,
		Crop:         c.Name,
		PlantingDate: season.PlantingDate,
		HarvestDate:  m.Date,
		Yield:        s.Y,
		Irr:          s.IrrCum,
		IrrNet:       s.IrrNetCum,
		Mature:       s.CropMature,
		Dead:         s.CropDead,
	})
}

// record appends today's outputs.
func (m *Model) record(gdd float64) {
	s := m.State
	th := make([]float64, len(s.Th))
	copy(th, s.Th)
	m.Outputs.Flux = append(m.Outputs.Flux, m.Today)
	m.Outputs.Storage = append(m.Outputs.Storage, WaterStorage{Date: m.Date, Season: m.Season, DAP: s.DAP, Th: th})
	m.Outputs.Growth = append(m.Outputs.Growth, CropGrowth{
		Date:    m.Date,
		Season:  m.Season,
		DAP:     s.DAP,
		GDD:     gdd,
		GDDcum:  s.GDDcum,
		Zroot:   s.Zroot,
		CC:      s.CC,
		CCNS:    s.CCNS,
		B:       s.B,
		BNS:     s.BNS,
		HI:      s.HI,
		HIadj:   s.HIadj,
		Y:       s.Y,
		Stage:   s.GrowthStage,
		TrRatio: s.TrRatio,
	})
}

// SimulationEndCheck sets Done after the last simulated day, or once
// the last season has been harvested.
func SimulationEndCheck() DayManipulator {
	return func(m *Model) error {
		switch {
		case m.Day >= len(m.days):
			m.Done = true
		case len(m.Seasons) > 0 && m.Season == len(m.Seasons)-1 && m.State.HarvestFlag:
			m.Done = true
		}
		return nil
	}
}

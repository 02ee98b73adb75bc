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
	"fmt"
	"sort"
	"time"
)

// Version is the version of this software.
const Version = "1.0.0"

// Model holds the inputs, the current state and the outputs of a
// simulation.
type Model struct {
	Soil         *SoilProfile
	Seasons      []Season
	Field        FieldManagement
	Irrigation   IrrigationConfig
	Groundwater  GroundwaterConfig
	CO2          CO2
	InitialWater InitialWater

	// Weather holds one record per simulated day, or more.
	Weather []WeatherStep

	// Start and End are the first and last simulated days.
	Start, End time.Time

	// State is yesterday's state at the start of a day and today's at
	// the end of it.
	State *DailyState

	// Day is the number of days simulated so far and Date the day
	// being simulated.
	Day  int
	Date time.Time

	// Season is the index in Seasons of the current or most recent
	// season, or -1 before the first planting.
	Season int

	// Today holds the fluxes of the day being simulated.
	Today WaterFlux

	Outputs Outputs

	// InitFuncs are run once before the simulation starts.
	InitFuncs []DayManipulator

	// RunFuncs are run in order once per simulated day, until Done is
	// true.
	RunFuncs []DayManipulator

	// CleanupFuncs are run after the simulation ends.
	CleanupFuncs []DayManipulator

	// Done is set by a RunFunc to end the simulation.
	Done bool

	days []WeatherStep // weather aligned so that days[Day] is today
}

// DayManipulator is a function that operates on the model.
type DayManipulator func(m *Model) error

// Season is one growing season of a crop.
type Season struct {
	Crop         *Crop
	PlantingDate time.Time
	HarvestDate  time.Time
}

// Init runs the initialization functions.
func (m *Model) Init() error {
	for _, f := range m.InitFuncs {
		if err := f(m); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the simulation. A default set of RunFuncs is used
// if none has been given.
func (m *Model) Run() error {
	if len(m.RunFuncs) == 0 {
		m.RunFuncs = []DayManipulator{DailySolution(), SimulationEndCheck()}
	}
	for !m.Done {
		for _, f := range m.RunFuncs {
			if err := f(m); err != nil {
				return err
			}
		}
	}
	for _, f := range m.CleanupFuncs {
		if err := f(m); err != nil {
			return err
		}
	}
	return nil
}

// Setup checks the model inputs and prepares the initial state. It must
// run after any InitFuncs that derive crop calendars.
func Setup() DayManipulator {
	return func(m *Model) error {
		if m.Soil == nil || m.Soil.NComp() == 0 {
			return configError("soil profile has no compartments")
		}
		if m.End.Before(m.Start) {
			return configError("simulation end %s is before start %s", m.End.Format(dateFormat), m.Start.Format(dateFormat))
		}
		if m.CO2.Ref == 0 {
			m.CO2 = DefaultCO2()
		}
		if m.Irrigation.Method < Rainfed || m.Irrigation.Method > FixedDailyDepth {
			return configError("irrigation method %d is not between 0 and 5", m.Irrigation.Method)
		}
		if m.Irrigation.AppEff <= 0 || m.Irrigation.AppEff > 100 {
			return configError("application efficiency %g%% is outside (0, 100]", m.Irrigation.AppEff)
		}
		for i := range m.Seasons {
			s := &m.Seasons[i]
			if s.Crop == nil {
				return configError("season %d has no crop", i)
			}
			if err := s.Crop.Validate(); err != nil {
				return err
			}
			if s.Crop.HIGC <= 0 || s.Crop.MaxCanopyCD <= 0 {
				return configError("crop %s: calendar has not been derived", s.Crop.Name)
			}
			if !s.HarvestDate.After(s.PlantingDate) {
				return configError("season %d: harvest %s is not after planting %s", i,
					s.HarvestDate.Format(dateFormat), s.PlantingDate.Format(dateFormat))
			}
			if i > 0 && !s.PlantingDate.After(m.Seasons[i-1].HarvestDate) {
				return configError("season %d overlaps the previous season", i)
			}
			s.Crop.SetSinkTerms()
			s.Crop.SetCO2(m.CO2)
		}
		days, err := alignWeather(m.Weather, m.Start, m.End)
		if err != nil {
			return err
		}
		m.days = days
		m.State = NewDailyState(m.Soil)
		if err := m.State.InitWater(m.Soil, m.InitialWater); err != nil {
			return err
		}
		m.State.resetEvaporation(m.Soil)
		m.Day = 0
		m.Date = dateOnly(m.Start)
		m.Season = -1
		m.Done = false
		m.Outputs = Outputs{}
		return nil
	}
}

const dateFormat = "2006-01-02"

// alignWeather returns the weather records for every day from start to
// end inclusive, in order.
func alignWeather(w []WeatherStep, start, end time.Time) ([]WeatherStep, error) {
	byDate := make(map[time.Time]WeatherStep, len(w))
	for _, ws := range w {
		byDate[dateOnly(ws.Date)] = ws
	}
	start, end = dateOnly(start), dateOnly(end)
	var days []WeatherStep
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		ws, ok := byDate[d]
		if !ok {
			return nil, dataRangeError("no weather for %s (simulation runs %s to %s)",
				d.Format(dateFormat), start.Format(dateFormat), end.Format(dateFormat))
		}
		ws.Date = d
		if ws.ET0 < MinET0 {
			ws.ET0 = MinET0
		}
		days = append(days, ws)
	}
	return days, nil
}

// CropSeasons lays out one season per year for each crop in turn,
// using the crops' mm/dd planting and harvest dates, and keeps the
// seasons that lie entirely between start and end.
func CropSeasons(crops []*Crop, start, end time.Time) ([]Season, error) {
	if len(crops) == 0 {
		return nil, nil
	}
	var seasons []Season
	k := 0
	for y := start.Year() - 1; y <= end.Year(); y++ {
		c := crops[k%len(crops)]
		plant, err := monthDay(c.PlantingDate, y)
		if err != nil {
			return nil, configError("crop %s: planting date: %v", c.Name, err)
		}
		harvest, err := monthDay(c.HarvestDate, y)
		if err != nil {
			return nil, configError("crop %s: harvest date: %v", c.Name, err)
		}
		if !harvest.After(plant) {
			harvest = harvest.AddDate(1, 0, 0)
		}
		if plant.Before(dateOnly(start)) || harvest.After(dateOnly(end)) {
			continue
		}
		if n := len(seasons); n > 0 && !plant.After(seasons[n-1].HarvestDate) {
			continue
		}
		seasons = append(seasons, Season{Crop: c, PlantingDate: plant, HarvestDate: harvest})
		k++
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].PlantingDate.Before(seasons[j].PlantingDate) })
	return seasons, nil
}

// monthDay parses an mm/dd date in year y.
func monthDay(s string, y int) (time.Time, error) {
	var mo, d int
	if _, err := fmt.Sscanf(s, "%d/%d", &mo, &d); err != nil {
		return time.Time{}, fmt.Errorf("%q is not mm/dd", s)
	}
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("%q is not mm/dd", s)
	}
	return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), nil
}

// fallow stands in for a crop before the first planting.
var fallow = &Crop{Name: "fallow", Zmin: 0.3, Zmax: 0.3, Aer: 5, LagAer: 3}

// Crop returns the crop of the current or most recent season.
func (m *Model) Crop() *Crop {
	if m.Season < 0 || m.Season >= len(m.Seasons) {
		return fallow
	}
	return m.Seasons[m.Season].Crop
}

// TodayWeather returns the weather of the day being simulated.
func (m *Model) TodayWeather() WeatherStep { return m.days[m.Day] }

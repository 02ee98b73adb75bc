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


package crop

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/spatialmodel/aquacrop"
)

const (
	// maxHIGCSteps bounds the search for the harvest index growth
	// coefficient, which advances in steps of higcStep.
	maxHIGCSteps = 10000
	higcStep     = 0.001
)

// PrepareSeasons returns an InitFunc that gives each season its own copy
// of its crop with the calendar derived from the model's weather. It
// must run before aquacrop.Setup.
func PrepareSeasons() aquacrop.DayManipulator {
	return func(m *aquacrop.Model) error {
		for i := range m.Seasons {
			s := &m.Seasons[i]
			if s.Crop == nil {
				return aquacrop.ConfigError("season %d has no crop", i)
			}
			c := *s.Crop
			if err := Prepare(&c, s.PlantingDate, m.Weather); err != nil {
				return err
			}
			s.Crop = &c
		}
		return nil
	}
}

// Prepare derives the calendar of c for a season planted on the given
// date: the canopy milestones, the calendar-day equivalents of the
// yield formation milestones, the harvest index growth coefficient and,
// for fruit and grain crops, the switch to linear harvest index growth.
// Weather from the planting date onwards is used to convert growing
// degree days to calendar days.
func Prepare(c *aquacrop.Crop, planting time.Time, w []aquacrop.WeatherStep) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CropType == aquacrop.FruitGrain && c.Flowering <= 0 {
		return aquacrop.ConfigError("crop %s: fruit or grain crop needs a flowering period", c.Name)
	}
	if c.YldForm <= 0 {
		return aquacrop.ConfigError("crop %s: yield formation period must be positive", c.Name)
	}
	c.SetCanopyTimes()
	c.SetSinkTerms()
	if c.CalendarType == aquacrop.CalendarDays {
		c.HIStartCD = c.HIStart
		c.HIEndCD = c.HIEnd
		c.YldFormCD = c.YldForm
		c.FloweringCD = c.Flowering
		c.CanopyDevEndCD = c.CanopyDevEnd
		c.MaxCanopyCD = math.Round(c.MaxCanopy)
	} else {
		cum, err := seasonGDD(c, planting, w)
		if err != nil {
			return err
		}
		c.HIStartCD = cum.day(c.HIStart)
		c.HIEndCD = cum.day(c.HIEnd)
		c.YldFormCD = c.HIEndCD - c.HIStartCD
		if c.CropType == aquacrop.FruitGrain {
			c.FloweringCD = cum.day(c.FloweringEnd) - c.HIStartCD
		}
		c.CanopyDevEndCD = cum.day(c.CanopyDevEnd)
		c.MaxCanopyCD = cum.day(c.MaxCanopy)
	}
	if c.MaxCanopyCD < 1 {
		c.MaxCanopyCD = 1
	}
	if c.YldFormCD < 1 {
		return aquacrop.ConfigError("crop %s: yield formation lasts less than a day", c.Name)
	}
	higc, err := harvestIndexGrowth(c.HIini, c.HI0, c.YldFormCD)
	if err != nil {
		return aquacrop.ConfigError("crop %s: %v", c.Name, err)
	}
	c.HIGC = higc
	if c.CropType == aquacrop.FruitGrain {
		c.TLinSwitch, c.DHILinear = linearSwitch(c.HIini, c.HI0, c.HIGC, c.YldFormCD)
	}
	return nil
}

// cumGDD holds cumulative growing degree days; cumGDD[i] is the total
// at the end of day i+1 after planting.
type cumGDD []float64

// day returns the first day after planting on which the cumulative
// growing degree days exceed g. Beyond the end of the series the
// average rate over the series is used.
func (cum cumGDD) day(g float64) float64 {
	i := sort.Search(len(cum), func(i int) bool { return cum[i] > g })
	if i < len(cum) {
		return float64(i + 1)
	}
	n := len(cum)
	rate := cum[n-1] / float64(n)
	return float64(n) + math.Floor((g-cum[n-1])/rate) + 1
}

// seasonGDD accumulates the growing degree days of the crop from the
// planting date to the end of the weather series.
func seasonGDD(c *aquacrop.Crop, planting time.Time, w []aquacrop.WeatherStep) (cumGDD, error) {
	byDate := make(map[time.Time]aquacrop.WeatherStep, len(w))
	var last time.Time
	for _, ws := range w {
		d := time.Date(ws.Date.Year(), ws.Date.Month(), ws.Date.Day(), 0, 0, 0, 0, time.UTC)
		byDate[d] = ws
		if d.After(last) {
			last = d
		}
	}
	var cum cumGDD
	var total float64
	for d := time.Date(planting.Year(), planting.Month(), planting.Day(), 0, 0, 0, 0, time.UTC); !d.After(last); d = d.AddDate(0, 0, 1) {
		ws, ok := byDate[d]
		if !ok {
			break
		}
		total += aquacrop.GrowingDegreeDay(c.GDDMethod, c.Tupp, c.Tbase, ws.Tmax, ws.Tmin)
		cum = append(cum, total)
	}
	if len(cum) == 0 {
		return nil, aquacrop.DataRangeError("crop %s: no weather on or after planting date %s",
			c.Name, planting.Format("2006-01-02"))
	}
	if total <= 0 {
		return nil, aquacrop.ConfigError("crop %s: no growing degree days accumulate after planting on %s",
			c.Name, planting.Format("2006-01-02"))
	}
	return cum, nil
}

func logisticHI(hiIni, hi0, higc, t float64) float64 {
	return (hiIni * hi0) / (hiIni + (hi0-hiIni)*math.Exp(-higc*t))
}

// harvestIndexGrowth finds the smallest growth coefficient, in steps of
// higcStep, at which the logistic harvest index reaches 98% of hi0 by
// the end of yield formation.
func harvestIndexGrowth(hiIni, hi0, yldForm float64) (float64, error) {
	higc := higcStep
	for i := 0; i < maxHIGCSteps; i++ {
		est := logisticHI(hiIni, hi0, higc, yldForm)
		if est > 0.98*hi0 {
			if est >= hi0 {
				higc -= higcStep
			}
			return higc, nil
		}
		higc += higcStep
	}
	return 0, errNoConvergence
}

var errNoConvergence = errors.New("harvest index growth coefficient search did not converge")

// linearSwitch returns the day of yield formation after which the
// harvest index grows linearly, and the linear rate, chosen so the
// index reaches hi0 at the end of yield formation.
func linearSwitch(hiIni, hi0, higc, yldForm float64) (tSwitch, dHI float64) {
	tmax := math.Round(yldForm)
	var ti float64
	est, prev := 0.0, hiIni
	for est <= hi0 && ti < tmax {
		ti++
		hi := logisticHI(hiIni, hi0, higc, ti)
		est = hi + (tmax-ti)*(hi-prev)
		prev = hi
	}
	tSwitch = ti - 1
	if tSwitch > 0 {
		est = logisticHI(hiIni, hi0, higc, tSwitch)
	} else {
		est = 0
	}
	if tmax > tSwitch {
		dHI = (hi0 - est) / (tmax - tSwitch)
	}
	return tSwitch, dHI
}

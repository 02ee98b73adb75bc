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

// Package weather reads daily weather series for the aquacrop
// simulation.
package weather

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spatialmodel/aquacrop"
	"github.com/tealeg/xlsx"
)

// Columns of a weather record, in file order.
const (
	colDay = iota
	colMonth
	colYear
	colTmin
	colTmax
	colPrecip
	colET0
	nCols
)

// ReadFile reads the weather series in the named file. Files ending in
// .xlsx are read with ReadXLSX and all others with ReadText.
func ReadFile(name string) ([]aquacrop.WeatherStep, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		f, err := xlsx.OpenFile(name)
		if err != nil {
			return nil, fmt.Errorf("weather: opening %s: %v", name, err)
		}
		return ReadXLSX(f)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("weather: %v", err)
	}
	defer f.Close()
	w, err := ReadText(f)
	if err != nil {
		return nil, fmt.Errorf("weather: reading %s: %v", name, err)
	}
	return w, nil
}

// ReadText reads whitespace-separated records of the form
//
//	Day Month Year Tmin Tmax Precipitation ET0
//
// Lines that do not start with a digit are treated as headers and
// skipped. The records are returned sorted by date.
func ReadText(r io.Reader) ([]aquacrop.WeatherStep, error) {
	var out []aquacrop.WeatherStep
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] < '0' || text[0] > '9' {
			continue
		}
		ws, err := parseRecord(strings.Fields(text))
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		out = append(out, ws)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sortByDate(out)
	return out, nil
}

// ReadXLSX reads weather records from the first sheet of f, with the
// same columns as ReadText and one header row.
func ReadXLSX(f *xlsx.File) ([]aquacrop.WeatherStep, error) {
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("weather: spreadsheet has no sheets")
	}
	var out []aquacrop.WeatherStep
	for i, row := range f.Sheets[0].Rows {
		if i == 0 || row == nil || len(row.Cells) == 0 || strings.TrimSpace(row.Cells[0].Value) == "" {
			continue
		}
		fields := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			fields[j] = strings.TrimSpace(c.Value)
		}
		ws, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("weather: spreadsheet row %d: %v", i+1, err)
		}
		out = append(out, ws)
	}
	sortByDate(out)
	return out, nil
}

func parseRecord(fields []string) (aquacrop.WeatherStep, error) {
	if len(fields) < nCols {
		return aquacrop.WeatherStep{}, fmt.Errorf("have %d columns, want %d", len(fields), nCols)
	}
	var ints [3]int
	for i := colDay; i <= colYear; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return aquacrop.WeatherStep{}, err
		}
		ints[i] = v
	}
	var vals [nCols]float64
	for i := colTmin; i < nCols; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return aquacrop.WeatherStep{}, err
		}
		vals[i] = v
	}
	d := time.Date(ints[colYear], time.Month(ints[colMonth]), ints[colDay], 0, 0, 0, 0, time.UTC)
	if d.Day() != ints[colDay] || int(d.Month()) != ints[colMonth] {
		return aquacrop.WeatherStep{}, fmt.Errorf("invalid date %d/%d/%d", ints[colDay], ints[colMonth], ints[colYear])
	}
	if vals[colTmax] < vals[colTmin] {
		return aquacrop.WeatherStep{}, fmt.Errorf("%s: Tmax %g is below Tmin %g", d.Format("2006-01-02"), vals[colTmax], vals[colTmin])
	}
	if vals[colPrecip] < 0 {
		return aquacrop.WeatherStep{}, fmt.Errorf("%s: negative precipitation", d.Format("2006-01-02"))
	}
	return aquacrop.WeatherStep{
		Date:   d,
		Tmin:   vals[colTmin],
		Tmax:   vals[colTmax],
		Precip: vals[colPrecip],
		ET0:    ClipET0(vals[colET0]),
	}, nil
}

func sortByDate(w []aquacrop.WeatherStep) {
	sort.SliceStable(w, func(i, j int) bool { return w[i].Date.Before(w[j].Date) })
}

// ClipET0 returns et0, or aquacrop.MinET0 if et0 is smaller.
func ClipET0(et0 float64) float64 {
	if et0 < aquacrop.MinET0 {
		return aquacrop.MinET0
	}
	return et0
}

// Coverage checks that w has a record for every day from start to end
// inclusive.
func Coverage(w []aquacrop.WeatherStep, start, end time.Time) error {
	have := make(map[string]bool, len(w))
	for _, ws := range w {
		have[ws.Date.Format("2006-01-02")] = true
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !have[d.Format("2006-01-02")] {
			if len(w) == 0 {
				return aquacrop.DataRangeError("weather series is empty")
			}
			return aquacrop.DataRangeError("weather series %s to %s has no record for %s",
				w[0].Date.Format("2006-01-02"), w[len(w)-1].Date.Format("2006-01-02"), d.Format("2006-01-02"))
		}
	}
	return nil
}

// Range returns the first and last dates of w, which must be sorted.
func Range(w []aquacrop.WeatherStep) (first, last time.Time, err error) {
	if len(w) == 0 {
		return time.Time{}, time.Time{}, aquacrop.DataRangeError("weather series is empty")
	}
	return w[0].Date, w[len(w)-1].Date, nil
}

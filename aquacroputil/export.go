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


package aquacroputil

import (
	"fmt"
	"sort"

	"github.com/spatialmodel/aquacrop"
	"github.com/tealeg/xlsx"
)

// WriteXLSX saves the simulation outputs to an Excel workbook with a
// sheet of daily variables, one of compartment water contents, one of
// season summaries and, if derived is not empty, one of the
// user-defined output variables.
func WriteXLSX(path string, out *aquacrop.Outputs, derived map[string][]float64) error {
	f := xlsx.NewFile()
	if err := dailySheet(f, out); err != nil {
		return err
	}
	if err := storageSheet(f, out); err != nil {
		return err
	}
	if err := seasonSheet(f, out); err != nil {
		return err
	}
	if len(derived) > 0 {
		if err := derivedSheet(f, out, derived); err != nil {
			return err
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("aquacrop: writing output file: %v", err)
	}
	return nil
}

func dateCells(r *xlsx.Row, out *aquacrop.Outputs, i int) {
	fl := out.Flux[i]
	r.AddCell().SetString(fl.Date.Format(dateFormat))
	r.AddCell().SetInt(fl.Season)
	r.AddCell().SetInt(fl.DAP)
}

func header(s *xlsx.Sheet, cols ...string) {
	r := s.AddRow()
	for _, c := range append([]string{"Date", "Season", "DAP"}, cols...) {
		r.AddCell().SetString(c)
	}
}

func dailySheet(f *xlsx.File, out *aquacrop.Outputs) error {
	s, err := f.AddSheet("Daily")
	if err != nil {
		return err
	}
	names := aquacrop.OutputVariables()
	cols := make([]string, len(names))
	series := make([][]float64, len(names))
	for j, n := range names {
		v, err := aquacrop.LookupVariable(n)
		if err != nil {
			return err
		}
		cols[j] = fmt.Sprintf("%s [%s]", n, v.Units)
		if series[j], err = out.Series(n); err != nil {
			return err
		}
	}
	header(s, cols...)
	for i := 0; i < out.Len(); i++ {
		r := s.AddRow()
		dateCells(r, out, i)
		for j := range names {
			r.AddCell().SetFloat(series[j][i])
		}
	}
	return nil
}

func storageSheet(f *xlsx.File, out *aquacrop.Outputs) error {
	s, err := f.AddSheet("Storage")
	if err != nil {
		return err
	}
	if len(out.Storage) == 0 {
		return nil
	}
	cols := make([]string, len(out.Storage[0].Th))
	for j := range cols {
		cols[j] = fmt.Sprintf("th%d", j+1)
	}
	header(s, cols...)
	for i := range out.Storage {
		r := s.AddRow()
		dateCells(r, out, i)
		for _, th := range out.Storage[i].Th {
			r.AddCell().SetFloat(th)
		}
	}
	return nil
}

func seasonSheet(f *xlsx.File, out *aquacrop.Outputs) error {
	s, err := f.AddSheet("Seasons")
	if err != nil {
		return err
	}
	r := s.AddRow()
	for _, c := range []string{"Season", "Crop", "PlantingDate", "HarvestDate",
		"Yield [t/ha]", "Irr [mm]", "IrrNet [mm]", "Mature", "Dead"} {
		r.AddCell().SetString(c)
	}
	for _, ss := range out.Seasons {
		r := s.AddRow()
		r.AddCell().SetInt(ss.Season)
		r.AddCell().SetString(ss.Crop)
		r.AddCell().SetString(ss.PlantingDate.Format(dateFormat))
		r.AddCell().SetString(ss.HarvestDate.Format(dateFormat))
		r.AddCell().SetFloat(ss.Yield)
		r.AddCell().SetFloat(ss.Irr)
		r.AddCell().SetFloat(ss.IrrNet)
		r.AddCell().SetBool(ss.Mature)
		r.AddCell().SetBool(ss.Dead)
	}
	return nil
}

func derivedSheet(f *xlsx.File, out *aquacrop.Outputs, derived map[string][]float64) error {
	s, err := f.AddSheet("Derived")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(derived))
	for n := range derived {
		names = append(names, n)
	}
	sort.Strings(names)
	header(s, names...)
	for i := 0; i < out.Len(); i++ {
		r := s.AddRow()
		dateCells(r, out, i)
		for _, n := range names {
			r.AddCell().SetFloat(derived[n][i])
		}
	}
	return nil
}

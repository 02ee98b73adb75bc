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


// Package crop holds the built-in crop parameter library and derives
// each season's crop calendar before a simulation starts.
package crop

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/aquacrop"
)

// defaults returns the parameters shared by all crops unless a crop
// sets them.
func defaults() aquacrop.Crop {
	return aquacrop.Crop{
		PlantMethod:   1,
		CalendarType:  aquacrop.GrowingDegreeDays,
		GDDMethod:     3,
		FShapeEx:      -6,
		PctZmin:       70,
		ETAdj:         true,
		Aer:           5,
		LagAer:        3,
		Beta:          12,
		ATr:           1,
		GermThr:       0.2,
		CCmin:         0.05,
		HIini:         0.01,
		Bsted:         0.000138,
		Bface:         0.001165,
		BioTempStress: true,
	}
}

var library = map[string]func() aquacrop.Crop{
	"maize": func() aquacrop.Crop {
		c := defaults()
		c.Name = "Maize"
		c.CropType = aquacrop.FruitGrain
		c.PlantingDate, c.HarvestDate = "05/01", "10/30"
		c.Emergence, c.MaxRooting, c.Senescence, c.Maturity = 80, 1420, 1420, 1670
		c.HIStart, c.Flowering, c.YldForm = 850, 190, 775
		c.GDDMethod, c.Tbase, c.Tupp = 2, 8, 30
		c.PolHeatStress, c.TmaxUp, c.TmaxLo = true, 40, 45
		c.PolColdStress, c.TminUp, c.TminLo = true, 10, 5
		c.TrColdStress, c.GDDUp, c.GDDLo = true, 12, 0
		c.Zmin, c.Zmax, c.FShapeR = 0.3, 1.7, 1.3
		c.SxTopQ, c.SxBotQ = 0.045, 0.011
		c.SeedSize, c.PlantPop = 6.5, 75000
		c.CCx, c.CDC, c.CGC = 0.96, 0.01, 0.0125
		c.Kcb, c.Fage = 1.05, 0.3
		c.WP, c.WPy, c.Fsink = 33.7, 100, 0.5
		c.HI0, c.DHIPre, c.AHI, c.BHI, c.DHI0 = 0.48, 0, 7, 3, 15
		c.Determinant, c.Exc = true, 50
		c.PUp = [4]float64{0.14, 0.69, 0.69, 0.8}
		c.PLo = [4]float64{0.72, 1, 1, 1}
		c.FShapeW = [4]float64{2.9, 6, 2.7, 1}
		return c
	},
	"wheat": func() aquacrop.Crop {
		c := defaults()
		c.Name = "Wheat"
		c.CropType = aquacrop.FruitGrain
		c.PlantingDate, c.HarvestDate = "10/15", "05/30"
		c.Emergence, c.MaxRooting, c.Senescence, c.Maturity = 150, 864, 1700, 2400
		c.HIStart, c.Flowering, c.YldForm = 1250, 200, 1100
		c.GDDMethod, c.Tbase, c.Tupp = 3, 0, 26
		c.PolHeatStress, c.TmaxUp, c.TmaxLo = true, 35, 40
		c.PolColdStress, c.TminUp, c.TminLo = true, 5, 0
		c.TrColdStress, c.GDDUp, c.GDDLo = true, 14, 0
		c.Zmin, c.Zmax, c.FShapeR = 0.3, 1.5, 1.5
		c.SxTopQ, c.SxBotQ = 0.048, 0.012
		c.SeedSize, c.PlantPop = 1.5, 4500000
		c.CCx, c.CDC, c.CGC = 0.96, 0.004, 0.005001
		c.Kcb, c.Fage = 1.1, 0.15
		c.WP, c.WPy, c.Fsink = 15, 100, 0.5
		c.HI0, c.DHIPre, c.AHI, c.BHI, c.DHI0 = 0.48, 5, 10, 7, 15
		c.Determinant, c.Exc = true, 100
		c.PUp = [4]float64{0.2, 0.65, 0.7, 0.85}
		c.PLo = [4]float64{0.65, 1, 1, 1}
		c.FShapeW = [4]float64{5, 2.5, 2.5, 1}
		return c
	},
	"potato": func() aquacrop.Crop {
		c := defaults()
		c.Name = "Potato"
		c.CropType = aquacrop.RootTuber
		c.PlantMethod = 0
		c.CalendarType = aquacrop.CalendarDays
		c.PlantingDate, c.HarvestDate = "04/25", "08/30"
		c.Emergence, c.MaxRooting, c.Senescence, c.Maturity = 15, 50, 105, 125
		c.HIStart, c.YldForm = 46, 77
		c.Tbase, c.Tupp = 2, 26
		c.TrColdStress, c.GDDUp, c.GDDLo = true, 7, 0
		c.Zmin, c.Zmax, c.FShapeR = 0.3, 0.6, 1.5
		c.SxTopQ, c.SxBotQ = 0.048, 0.012
		c.SeedSize, c.PlantPop = 15, 40000
		c.CCx, c.CDC, c.CGC = 0.92, 0.01884, 0.126
		c.Kcb, c.Fage = 1.1, 0.15
		c.WP, c.WPy, c.Fsink = 18, 100, 0.5
		c.HI0, c.DHIPre, c.AHI, c.BHI, c.DHI0 = 0.85, 2, 0, 10, 5
		c.PUp = [4]float64{0.2, 0.6, 0.7, 0.8}
		c.PLo = [4]float64{0.6, 1, 1, 1}
		c.FShapeW = [4]float64{3, 3, 3, 0}
		return c
	},
}

// Names returns the names of the built-in crops.
func Names() []string {
	var names []string
	for _, f := range library {
		names = append(names, f().Name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a new copy of the named built-in crop. Names are not
// case sensitive.
func Builtin(name string) (*aquacrop.Crop, error) {
	f, ok := library[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, aquacrop.ConfigError("unknown crop %q; valid crops are %s", name, strings.Join(Names(), ", "))
	}
	c := f()
	return &c, nil
}

// Decode reads crop parameters in TOML format. If the file sets
// "base" to the name of a built-in crop, parameters not set in the file
// are taken from that crop.
func Decode(r io.Reader) (*aquacrop.Crop, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var hdr struct {
		Base string `toml:"base"`
	}
	if _, err := toml.Decode(string(b), &hdr); err != nil {
		return nil, fmt.Errorf("crop: %v", err)
	}
	c := defaults()
	if hdr.Base != "" {
		bc, err := Builtin(hdr.Base)
		if err != nil {
			return nil, err
		}
		c = *bc
	}
	var file struct {
		Base string `toml:"base"`
		aquacrop.Crop
	}
	file.Crop = c
	md, err := toml.Decode(string(b), &file)
	if err != nil {
		return nil, fmt.Errorf("crop: %v", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, aquacrop.ConfigError("crop: unknown parameters %v", undec)
	}
	c = file.Crop
	if c.Name == "" {
		return nil, aquacrop.ConfigError("crop: missing name")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

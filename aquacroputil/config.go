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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/aquacrop"
	"github.com/spatialmodel/aquacrop/crop"
	"github.com/spatialmodel/aquacrop/soil"
	"github.com/spatialmodel/aquacrop/weather"
	"github.com/spf13/cast"
)

const dateFormat = "2006-01-02"

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) map[string]string {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.xlsx")`)
	}
	f = os.ExpandEnv(f)
	if ext := strings.ToLower(filepath.Ext(f)); ext != ".xlsx" {
		return f, fmt.Errorf("aquacrop: OutputFile must have extension .xlsx, not %q", ext)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("aquacrop: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("aquacrop: %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("aquacrop: invalid type for map variable %s: %#v", varName, i)
	}
}

// getFloatSlice returns a list of numbers from a viper configuration.
// Elements may be numbers or strings holding numbers.
func getFloatSlice(varName string, cfg *viper.Viper) ([]float64, error) {
	i := cfg.Get(varName)
	var items []interface{}
	switch v := i.(type) {
	case nil:
		return nil, nil
	case []float64:
		return v, nil
	case string:
		for _, s := range strings.Split(strings.Trim(v, "[]"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
	default:
		var err error
		if items, err = cast.ToSliceE(v); err != nil {
			ss, err2 := cast.ToStringSliceE(v)
			if err2 != nil {
				return nil, fmt.Errorf("aquacrop: %s: %v", varName, err)
			}
			for _, s := range ss {
				items = append(items, s)
			}
		}
	}
	o := make([]float64, len(items))
	for j, it := range items {
		f, err := cast.ToFloat64E(it)
		if err != nil {
			return nil, fmt.Errorf("aquacrop: %s item %d: %v", varName, j, err)
		}
		o[j] = f
	}
	return o, nil
}

func parseDate(varName, s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, os.ExpandEnv(s))
	if err != nil {
		return time.Time{}, aquacrop.ConfigError("%s: %q is not a YYYY-MM-DD date", varName, s)
	}
	return t, nil
}

// Management is the content of a management parameter file.
type Management struct {
	Field        aquacrop.FieldManagement  `toml:"field"`
	Irrigation   aquacrop.IrrigationConfig `toml:"irrigation"`
	InitialWater aquacrop.InitialWater     `toml:"initial_water"`

	// Schedule lists the prescribed irrigation events used by the
	// schedule irrigation method.
	Schedule []struct {
		Date  string  `toml:"date"`
		Depth float64 `toml:"depth"` // [mm]
	} `toml:"schedule"`
}

// ReadManagement reads a TOML management file. Fields missing from the
// file keep their default values.
func ReadManagement(name string) (*Management, error) {
	m := &Management{
		Field:      aquacrop.DefaultFieldManagement(),
		Irrigation: aquacrop.DefaultIrrigation(),
	}
	md, err := toml.DecodeFile(os.ExpandEnv(name), m)
	if err != nil {
		return nil, aquacrop.ConfigError("management file %s: %v", name, err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		return nil, aquacrop.ConfigError("management file %s: unknown keys %v", name, u)
	}
	if len(m.Schedule) > 0 {
		m.Irrigation.Schedule = make(map[time.Time]float64, len(m.Schedule))
		for _, s := range m.Schedule {
			d, err := parseDate("schedule date", s.Date)
			if err != nil {
				return nil, err
			}
			m.Irrigation.Schedule[d] += s.Depth
		}
	}
	return m, nil
}

// ReadSoil reads a TOML soil profile file.
func ReadSoil(name string) (*aquacrop.SoilProfile, error) {
	var s soil.Spec
	md, err := toml.DecodeFile(os.ExpandEnv(name), &s)
	if err != nil {
		return nil, aquacrop.ConfigError("soil file %s: %v", name, err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		return nil, aquacrop.ConfigError("soil file %s: unknown keys %v", name, u)
	}
	return s.Profile()
}

// readCrop reads a TOML crop file.
func readCrop(name string) (*aquacrop.Crop, error) {
	f, err := os.Open(os.ExpandEnv(name))
	if err != nil {
		return nil, aquacrop.ConfigError("crop file: %v", err)
	}
	defer f.Close()
	return crop.Decode(f)
}

// ModelConfig builds a simulation from a viper configuration. The
// returned model has its initialization functions set but has not been
// initialized.
func ModelConfig(cfg *viper.Viper) (*aquacrop.Model, error) {
	start, err := parseDate("SimStart", cfg.GetString("SimStart"))
	if err != nil {
		return nil, err
	}
	end, err := parseDate("SimEnd", cfg.GetString("SimEnd"))
	if err != nil {
		return nil, err
	}
	m := &aquacrop.Model{
		Start:       start,
		End:         end,
		Field:       aquacrop.DefaultFieldManagement(),
		Irrigation:  aquacrop.DefaultIrrigation(),
		CO2:         aquacrop.DefaultCO2(),
		InitFuncs:   []aquacrop.DayManipulator{crop.PrepareSeasons(), aquacrop.Setup()},
		Groundwater: aquacrop.GroundwaterConfig{Present: cfg.GetBool("WaterTable")},
	}

	if f := cfg.GetString("SoilFile"); f != "" {
		m.Soil, err = ReadSoil(f)
	} else {
		m.Soil, err = soil.Builtin(cfg.GetString("Soil"))
	}
	if err != nil {
		return nil, err
	}

	crops, err := cropsConfig(cfg)
	if err != nil {
		return nil, err
	}
	if m.Seasons, err = aquacrop.CropSeasons(crops, start, end); err != nil {
		return nil, err
	}
	if len(m.Seasons) == 0 {
		return nil, aquacrop.ConfigError("no growing season lies between %s and %s",
			start.Format(dateFormat), end.Format(dateFormat))
	}

	wf := os.ExpandEnv(cfg.GetString("WeatherFile"))
	if wf == "" {
		return nil, aquacrop.ConfigError("WeatherFile is not specified")
	}
	if m.Weather, err = weather.ReadFile(wf); err != nil {
		return nil, err
	}
	if err = weather.Coverage(m.Weather, start, end); err != nil {
		return nil, err
	}

	if f := cfg.GetString("ManagementFile"); f != "" {
		mgmt, err := ReadManagement(f)
		if err != nil {
			return nil, err
		}
		m.Field, m.Irrigation, m.InitialWater = mgmt.Field, mgmt.Irrigation, mgmt.InitialWater
	} else {
		if err = managementFlags(cfg, m); err != nil {
			return nil, err
		}
	}

	if m.Groundwater.Present {
		depths, err := GetStringMapString("GroundwaterDepths", cfg)
		if err != nil {
			return nil, err
		}
		if len(depths) == 0 {
			return nil, aquacrop.ConfigError("WaterTable is set but GroundwaterDepths is empty")
		}
		m.Groundwater.Depths = make(map[time.Time]float64, len(depths))
		for ds, vs := range depths {
			d, err := parseDate("GroundwaterDepths", ds)
			if err != nil {
				return nil, err
			}
			z, err := cast.ToFloat64E(strings.TrimSpace(vs))
			if err != nil {
				return nil, aquacrop.ConfigError("GroundwaterDepths %s: %v", ds, err)
			}
			m.Groundwater.Depths[d] = z
		}
	}

	if co2 := cfg.GetFloat64("CO2"); co2 > 0 {
		m.CO2.Current = co2
	}
	return m, nil
}

// cropsConfig returns the crops to be grown in rotation, from the crop
// files if any are given and from the built-in library otherwise.
func cropsConfig(cfg *viper.Viper) ([]*aquacrop.Crop, error) {
	var crops []*aquacrop.Crop
	files := expandStringSlice(cfg.GetStringSlice("CropFile"))
	for _, f := range files {
		if f == "" {
			continue
		}
		c, err := readCrop(f)
		if err != nil {
			return nil, err
		}
		crops = append(crops, c)
	}
	if len(crops) == 0 {
		for _, name := range cfg.GetStringSlice("Crop") {
			c, err := crop.Builtin(name)
			if err != nil {
				return nil, err
			}
			crops = append(crops, c)
		}
	}
	if len(crops) == 0 {
		return nil, aquacrop.ConfigError("no crop is specified; set Crop or CropFile")
	}
	pd, hd := cfg.GetString("PlantingDate"), cfg.GetString("HarvestDate")
	for _, c := range crops {
		if pd != "" {
			c.PlantingDate = pd
		}
		if hd != "" {
			c.HarvestDate = hd
		}
	}
	return crops, nil
}

// managementFlags sets the field and irrigation management from the
// individual configuration variables.
func managementFlags(cfg *viper.Viper, m *aquacrop.Model) error {
	irr := &m.Irrigation
	irr.Method = cfg.GetInt("IrrigationMethod")
	smt, err := getFloatSlice("SMT", cfg)
	if err != nil {
		return err
	}
	switch len(smt) {
	case 0:
	case 1:
		irr.SMT = [4]float64{smt[0], smt[0], smt[0], smt[0]}
	case 4:
		copy(irr.SMT[:], smt)
	default:
		return aquacrop.ConfigError("SMT needs 1 or 4 values, not %d", len(smt))
	}
	irr.Interval = cfg.GetInt("IrrInterval")
	irr.MaxIrr = cfg.GetFloat64("MaxIrr")
	irr.MaxIrrSeason = cfg.GetFloat64("MaxIrrSeason")
	irr.AppEff = cfg.GetFloat64("AppEff")
	irr.NetIrrSMT = cfg.GetFloat64("NetIrrSMT")
	irr.Depth = cfg.GetFloat64("IrrDepth")

	m.Field.Bunds = cfg.GetBool("Bunds")
	m.Field.ZBund = cfg.GetFloat64("zBund")
	if pct := cfg.GetFloat64("MulchPct"); pct > 0 {
		m.Field.Mulches, m.Field.MulchPct = true, pct
	}

	iw, err := initialWater(cfg.GetString("InitialWC"))
	if err != nil {
		return err
	}
	m.InitialWater = iw
	return nil
}

// initialWater parses the InitialWC variable, which is one of FC, WP or
// SAT, or a comma-separated list of water contents, one per soil layer.
func initialWater(s string) (aquacrop.InitialWater, error) {
	s = strings.TrimSpace(os.ExpandEnv(s))
	switch strings.ToUpper(s) {
	case "", "FC":
		return aquacrop.InitialWater{Type: aquacrop.InitFC}, nil
	case "WP":
		return aquacrop.InitialWater{Type: aquacrop.InitWP}, nil
	case "SAT":
		return aquacrop.InitialWater{Type: aquacrop.InitSat}, nil
	}
	iw := aquacrop.InitialWater{Type: aquacrop.InitNum, ByLayer: true}
	for _, f := range strings.Split(s, ",") {
		v, err := cast.ToFloat64E(strings.TrimSpace(f))
		if err != nil {
			return iw, aquacrop.ConfigError("InitialWC %q: %v", s, err)
		}
		iw.Values = append(iw.Values, v)
	}
	return iw, nil
}

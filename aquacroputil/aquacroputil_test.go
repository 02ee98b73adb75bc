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
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/aquacrop"
	"github.com/tealeg/xlsx"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// writeWeather writes a deterministic daily weather file covering
// start to end and returns its path.
func writeWeather(t *testing.T, dir string, start, end time.Time) string {
	r := rand.New(rand.NewSource(2))
	var b strings.Builder
	fmt.Fprintln(&b, "Day\tMonth\tYear\tMinTemp\tMaxTemp\tPrecipitation\tReferenceET")
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		season := math.Sin(2 * math.Pi * float64(d.YearDay()-105) / 365)
		tmin := 8 + 6*season + 2*r.Float64()
		p := 0.0
		if r.Float64() < 0.2 {
			p = 15 * r.Float64()
		}
		fmt.Fprintf(&b, "%02d\t%02d\t%d\t%.1f\t%.1f\t%.1f\t%.2f\n", d.Day(), d.Month(), d.Year(),
			tmin, tmin+10+4*r.Float64(), p, 3+2*season+r.Float64())
	}
	path := filepath.Join(dir, "weather.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// testConfig returns a configuration for one irrigated potato season on
// a built-in loam.
func testConfig(t *testing.T) *viper.Viper {
	dir := t.TempDir()
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)
	cfg := viper.New()
	cfg.Set("SimStart", "2000-01-01")
	cfg.Set("SimEnd", "2000-12-31")
	cfg.Set("WeatherFile", writeWeather(t, dir, start, end))
	cfg.Set("Crop", []string{"Potato"})
	cfg.Set("Soil", "Loam")
	cfg.Set("IrrigationMethod", aquacrop.SoilMoisture)
	cfg.Set("SMT", []string{"70"})
	cfg.Set("IrrInterval", 3)
	cfg.Set("MaxIrr", 25.0)
	cfg.Set("MaxIrrSeason", 10000.0)
	cfg.Set("AppEff", 90.0)
	cfg.Set("NetIrrSMT", 80.0)
	cfg.Set("InitialWC", "FC")
	cfg.Set("GroundwaterDepths", "{}")
	return cfg
}

func TestModelConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Set("WaterTable", true)
	cfg.Set("GroundwaterDepths", `{"2000-01-01":"2.5","2000-12-31":"3"}`)
	cfg.Set("CO2", 410.0)
	m, err := ModelConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Seasons) != 1 {
		t.Fatalf("have %d seasons, want 1", len(m.Seasons))
	}
	want := time.Date(2000, 4, 25, 0, 0, 0, 0, time.UTC)
	if !m.Seasons[0].PlantingDate.Equal(want) {
		t.Errorf("planting date: have %v, want %v", m.Seasons[0].PlantingDate, want)
	}
	if m.Irrigation.Method != aquacrop.SoilMoisture {
		t.Errorf("irrigation method %d", m.Irrigation.Method)
	}
	if m.Irrigation.SMT != [4]float64{70, 70, 70, 70} {
		t.Errorf("SMT: %v", m.Irrigation.SMT)
	}
	if m.Irrigation.AppEff != 90 {
		t.Errorf("application efficiency %g", m.Irrigation.AppEff)
	}
	wantGW := map[time.Time]float64{
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC):   2.5,
		time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC): 3,
	}
	if !m.Groundwater.Present || !reflect.DeepEqual(m.Groundwater.Depths, wantGW) {
		t.Errorf("groundwater: %# v", pretty.Formatter(m.Groundwater))
	}
	if m.CO2.Current != 410 || m.CO2.Ref != aquacrop.DefaultCO2().Ref {
		t.Errorf("CO2: %+v", m.CO2)
	}
	if len(m.Weather) != 366 {
		t.Errorf("have %d weather records, want 366", len(m.Weather))
	}
	if len(m.InitFuncs) != 2 {
		t.Errorf("have %d init funcs, want 2", len(m.InitFuncs))
	}
}

func TestModelConfigErrors(t *testing.T) {
	for name, set := range map[string]func(cfg *viper.Viper){
		"start date":    func(cfg *viper.Viper) { cfg.Set("SimStart", "01/01/2000") },
		"unknown crop":  func(cfg *viper.Viper) { cfg.Set("Crop", []string{"Banana"}) },
		"unknown soil":  func(cfg *viper.Viper) { cfg.Set("Soil", "Peat") },
		"no weather":    func(cfg *viper.Viper) { cfg.Set("WeatherFile", "") },
		"short weather": func(cfg *viper.Viper) { cfg.Set("SimEnd", "2001-06-30") },
		"no season":     func(cfg *viper.Viper) { cfg.Set("SimEnd", "2000-03-01") },
		"SMT":           func(cfg *viper.Viper) { cfg.Set("SMT", []string{"70", "80"}) },
		"initial water": func(cfg *viper.Viper) { cfg.Set("InitialWC", "wet") },
		"water table":   func(cfg *viper.Viper) { cfg.Set("WaterTable", true) },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			set(cfg)
			if _, err := ModelConfig(cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInitialWater(t *testing.T) {
	for in, want := range map[string]aquacrop.InitialWater{
		"":          {Type: aquacrop.InitFC},
		"wp":        {Type: aquacrop.InitWP},
		"SAT":       {Type: aquacrop.InitSat},
		"0.3, 0.25": {Type: aquacrop.InitNum, ByLayer: true, Values: []float64{0.3, 0.25}},
	} {
		have, err := initialWater(in)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(have, want) {
			t.Errorf("%q: %v", in, pretty.Diff(have, want))
		}
	}
}

func TestGetStringMapString(t *testing.T) {
	cfg := viper.New()
	want := map[string]string{"et": "Es+Tr"}
	for name, v := range map[string]interface{}{
		"json":      `{"et":"Es+Tr"}`,
		"map":       map[string]string{"et": "Es+Tr"},
		"interface": map[string]interface{}{"et": "Es+Tr"},
	} {
		cfg.Set("OutputVariables", v)
		have, err := GetStringMapString("OutputVariables", cfg)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(have, want) {
			t.Errorf("%s: have %v, want %v", name, have, want)
		}
	}
	cfg.Set("OutputVariables", "{bad")
	if _, err := GetStringMapString("OutputVariables", cfg); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestCheckOutputVars(t *testing.T) {
	os.Setenv("AQUACROP_TEST_VAR", "Tr")
	defer os.Unsetenv("AQUACROP_TEST_VAR")
	have := checkOutputVars(map[string]string{"ET": "Es +\n${AQUACROP_TEST_VAR}"})
	if have["ET"] != "Es + Tr" {
		t.Errorf("have %q", have["ET"])
	}
}

func TestReadManagement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "management.toml")
	const toml = `
[field]
bunds = true
z_bund = 0.2

[irrigation]
method = 3
app_eff = 80

[[schedule]]
date = "2000-06-01"
depth = 20

[[schedule]]
date = "2000-06-15"
depth = 30
`
	if err := os.WriteFile(path, []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadManagement(path)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Field.Bunds || m.Field.ZBund != 0.2 || m.Field.FMulch != 0.5 {
		t.Errorf("field: %+v", m.Field)
	}
	if m.Irrigation.Method != aquacrop.Schedule || m.Irrigation.AppEff != 80 || m.Irrigation.MaxIrr != 25 {
		t.Errorf("irrigation: %+v", m.Irrigation)
	}
	want := map[time.Time]float64{
		time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC):  20,
		time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC): 30,
	}
	if !reflect.DeepEqual(m.Irrigation.Schedule, want) {
		t.Errorf("schedule: %v", m.Irrigation.Schedule)
	}

	if err := os.WriteFile(path, []byte("[field]\nbundz = true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadManagement(path); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestReadSoil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soil.toml")
	const toml = `
name = "two layers"
cn = 72
rew = 8

[[layers]]
thickness = 0.4
class = "SiltLoam"

[[layers]]
thickness = 0.8
class = "Clay"
`
	if err := os.WriteFile(path, []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := ReadSoil(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Layers) != 2 || p.NComp() == 0 {
		t.Errorf("have %d layers and %d compartments", len(p.Layers), p.NComp())
	}
	if p.CN != 72 || p.REW != 8 {
		t.Errorf("CN %g, REW %g", p.CN, p.REW)
	}
}

func TestSimulate(t *testing.T) {
	m, err := ModelConfig(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	o, err := Simulate(m, nil, map[string]string{"ET": "Es+Tr"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Outputs.Seasons) != 1 {
		t.Fatalf("have %d harvests, want 1", len(m.Outputs.Seasons))
	}
	if m.Outputs.Seasons[0].Yield <= 0 {
		t.Error("no yield")
	}
	et := o.Derived["ET"]
	if len(et) != m.Outputs.Len() {
		t.Fatalf("have %d ET values for %d days", len(et), m.Outputs.Len())
	}
	for i, f := range m.Outputs.Flux {
		if math.Abs(et[i]-(f.Es+f.Tr)) > 1e-9 {
			t.Fatalf("day %d: ET %g != %g", i, et[i], f.Es+f.Tr)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	m, err := ModelConfig(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	o, err := Simulate(m, nil, map[string]string{"ET": "Es+Tr"}, false)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteXLSX(path, &m.Outputs, o.Derived); err != nil {
		t.Fatal(err)
	}
	f, err := xlsx.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	if want := []string{"Daily", "Storage", "Seasons", "Derived"}; !reflect.DeepEqual(names, want) {
		t.Errorf("sheets: have %v, want %v", names, want)
	}
	if n := len(f.Sheets[0].Rows); n != m.Outputs.Len()+1 {
		t.Errorf("daily sheet has %d rows, want %d", n, m.Outputs.Len()+1)
	}
	if n := len(f.Sheets[2].Rows); n != 2 {
		t.Errorf("season sheet has %d rows, want 2", n)
	}
}

func TestPlot(t *testing.T) {
	m, err := ModelConfig(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	o, err := Simulate(m, nil, map[string]string{"ET": "Es+Tr"}, false)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "plot.png")
	if err := Plot(&m.Outputs, o.Derived, []string{"CC", "ET"}, path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("plot file: %v", err)
	}
	if err := Plot(&m.Outputs, o.Derived, []string{"xyz"}, path); err == nil {
		t.Error("expected an error for an undefined variable")
	}
}

func TestSummaryStore(t *testing.T) {
	s, err := OpenSummaryStore(filepath.Join(t.TempDir(), "summary.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	seasons := []aquacrop.SeasonSummary{
		{Season: 0, Crop: "Maize", PlantingDate: time.Date(2000, 5, 1, 0, 0, 0, 0, time.UTC),
			HarvestDate: time.Date(2000, 9, 20, 0, 0, 0, 0, time.UTC), Yield: 9.5, Irr: 310, Mature: true},
		{Season: 1, Crop: "Maize", PlantingDate: time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC),
			HarvestDate: time.Date(2001, 9, 22, 0, 0, 0, 0, time.UTC), Yield: 8.1, Irr: 280, Mature: true},
	}
	for i := 0; i < 2; i++ { // Saving twice replaces the first records.
		if err := s.Save("base", seasons); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Save("dry", seasons[:1]); err != nil {
		t.Fatal(err)
	}
	recs, err := s.Seasons("base")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("have %d records, want 2", len(recs))
	}
	if recs[1].Yield != 8.1 || recs[1].Season != 1 || !recs[1].Mature {
		t.Errorf("record: %+v", recs[1])
	}
	runs, err := s.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(runs, []string{"base", "dry"}) {
		t.Errorf("runs: %v", runs)
	}
}

func TestSweep(t *testing.T) {
	cfg := testConfig(t)
	build := func() (*aquacrop.Model, error) { return ModelConfig(cfg) }
	values := []float64{0, 100, 10000}
	res, err := Sweep(context.Background(), build, "MaxIrrSeason", values, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != len(values) {
		t.Fatalf("have %d results", len(res))
	}
	for i, r := range res {
		if r.Value != values[i] {
			t.Errorf("result %d: value %g, want %g", i, r.Value, values[i])
		}
		if r.MeanIrr > r.Value+1e-9 {
			t.Errorf("result %d: irrigation %g over the seasonal limit", i, r.MeanIrr)
		}
	}
	if res[0].MeanIrr != 0 {
		t.Errorf("irrigation %g with a zero seasonal limit", res[0].MeanIrr)
	}
	if res[2].MeanYield < res[0].MeanYield {
		t.Errorf("irrigated yield %g is less than rainfed yield %g", res[2].MeanYield, res[0].MeanYield)
	}

	if _, err := Sweep(context.Background(), build, "Colour", values, 2); err == nil {
		t.Error("expected an error for an unknown parameter")
	}
}

func TestSweepRegression(t *testing.T) {
	res := []SweepResult{{Value: 0, MeanYield: 1}, {Value: 1, MeanYield: 3}, {Value: 2, MeanYield: 5}}
	slope, intercept, r2 := SweepRegression(res)
	if different(slope, 2, 1e-9) || different(intercept, 1, 1e-9) || different(r2, 1, 1e-9) {
		t.Errorf("slope %g, intercept %g, r² %g", slope, intercept, r2)
	}
	if s, _, _ := SweepRegression(res[:1]); !math.IsNaN(s) {
		t.Errorf("slope %g from one point", s)
	}
	var b bytes.Buffer
	printSweep(&b, "SMT", res)
	if !strings.Contains(b.String(), "yield = 2 × SMT + 1") {
		t.Errorf("sweep table:\n%s", b.String())
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	for _, k := range []string{"SimStart", "SimEnd", "WeatherFile", "Soil", "IrrigationMethod", "AppEff"} {
		Cfg.Set(k, cfg.Get(k))
	}
	Cfg.Set("Crop", []string{"Potato"})
	Cfg.Set("SMT", []string{"70"})
	Cfg.Set("OutputFile", filepath.Join(dir, "out.xlsx"))
	Cfg.Set("OutputVariables", `{"ET":"Es+Tr"}`)
	Cfg.Set("SummaryDB", filepath.Join(dir, "summary.db"))
	Cfg.Set("RunName", "test")
	Cfg.Set("CheckInvariants", true)

	var out bytes.Buffer
	Root.SetOutput(&out)
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Potato") {
		t.Errorf("output does not list the season:\n%s", out.String())
	}
	for _, f := range []string{"out.xlsx", "out.log", "summary.db"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Error(err)
		}
	}
	s, err := OpenSummaryStore(filepath.Join(dir, "summary.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	recs, err := s.Seasons("test")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Crop != "Potato" {
		t.Errorf("records: %# v", pretty.Formatter(recs))
	}
}

func TestVersionAndList(t *testing.T) {
	var out bytes.Buffer
	Root.SetOutput(&out)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "AquaCrop-Go v" + aquacrop.Version; !strings.Contains(out.String(), want) {
		t.Errorf("have %q, want %q", out.String(), want)
	}
	out.Reset()
	Root.SetArgs([]string{"list"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Maize", "Loam", "MaxIrrSeason", "Canopy cover"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output is missing %q", want)
		}
	}
}

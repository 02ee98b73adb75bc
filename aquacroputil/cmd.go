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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/aquacrop"
	"github.com/spatialmodel/aquacrop/crop"
	"github.com/spatialmodel/aquacrop/soil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	simFlags := []*pflag.FlagSet{runCmd.Flags(), sweepCmd.Flags(), plotCmd.Flags()}

	// Options are the configuration options available to AquaCrop.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SimStart",
			usage: `
              SimStart is the first simulated day, in the format YYYY-MM-DD.`,
			defaultVal: "",
			flagsets:   simFlags,
		},
		{
			name: "SimEnd",
			usage: `
              SimEnd is the last simulated day, in the format YYYY-MM-DD.
              The simulation also ends after the last harvest.`,
			defaultVal: "",
			flagsets:   simFlags,
		},
		{
			name: "WeatherFile",
			usage: `
              WeatherFile is the path to the daily weather series, either a
              whitespace-delimited text file with the columns Day, Month,
              Year, MinTemp, MaxTemp, Precipitation and ReferenceET, or an
              Excel workbook with the same columns in its first sheet.
              It can include environment variables.`,
			shorthand:  "w",
			defaultVal: "",
			flagsets:   simFlags,
		},
		{
			name: "Crop",
			usage: `
              Crop lists the built-in crops to grow, in rotation. It is
              ignored if CropFile is set.`,
			defaultVal: []string{"Maize"},
			flagsets:   simFlags,
		},
		{
			name: "CropFile",
			usage: `
              CropFile lists TOML crop parameter files, grown in rotation.
              A file can start from a built-in crop with the 'base' key.`,
			defaultVal: []string{},
			flagsets:   simFlags,
		},
		{
			name: "PlantingDate",
			usage: `
              PlantingDate, if set, overrides the planting date of every
              crop. The format is MM/DD.`,
			defaultVal: "",
			flagsets:   simFlags,
		},
		{
			name: "HarvestDate",
			usage: `
              HarvestDate, if set, overrides the latest harvest date of
              every crop. The format is MM/DD.`,
			defaultVal: "",
			flagsets:   simFlags,
		},
		{
			name: "Soil",
			usage: `
              Soil is the name of a built-in soil texture class. It is
              ignored if SoilFile is set.`,
			defaultVal: "Loam",
			flagsets:   simFlags,
		},
		{
			name: "SoilFile",
			usage: `
              SoilFile is the path to a TOML soil profile file.`,
			defaultVal: "",
			flagsets:   simFlags,
		},
		{
			name: "ManagementFile",
			usage: `
              ManagementFile is the path to a TOML file with the field,
              irrigation and initial water content settings. When it is
              set, the individual management variables are ignored.`,
			defaultVal: "",
			flagsets:   simFlags,
		},
		{
			name: "IrrigationMethod",
			usage: `
              IrrigationMethod is 0 for rainfed, 1 for soil moisture
              targets, 2 for a fixed interval, 3 for a schedule (management
              file only), 4 for net irrigation and 5 for a fixed daily depth.`,
			defaultVal: 0,
			flagsets:   simFlags,
		},
		{
			name: "SMT",
			usage: `
              SMT lists the soil moisture targets [% of TAW] for the four
              growth stages, or one target for all of them.`,
			defaultVal: []string{"100", "100", "100", "100"},
			flagsets:   simFlags,
		},
		{
			name: "IrrInterval",
			usage: `
              IrrInterval is the number of days between irrigations when
              IrrigationMethod is 2.`,
			defaultVal: 3,
			flagsets:   simFlags,
		},
		{
			name: "IrrDepth",
			usage: `
              IrrDepth is the daily irrigation depth [mm] when
              IrrigationMethod is 5.`,
			defaultVal: 0.0,
			flagsets:   simFlags,
		},
		{
			name: "MaxIrr",
			usage: `
              MaxIrr is the largest irrigation depth allowed in a day [mm].`,
			defaultVal: 25.0,
			flagsets:   simFlags,
		},
		{
			name: "MaxIrrSeason",
			usage: `
              MaxIrrSeason is the largest irrigation total allowed in a
              season [mm].`,
			defaultVal: 10000.0,
			flagsets:   simFlags,
		},
		{
			name: "AppEff",
			usage: `
              AppEff is the irrigation application efficiency [%].`,
			defaultVal: 100.0,
			flagsets:   simFlags,
		},
		{
			name: "NetIrrSMT",
			usage: `
              NetIrrSMT is the root zone depletion target [% of TAW] kept
              by net irrigation.`,
			defaultVal: 80.0,
			flagsets:   simFlags,
		},
		{
			name: "Bunds",
			usage: `
              Bunds specifies whether the field has bunds.`,
			defaultVal: false,
			flagsets:   simFlags,
		},
		{
			name: "zBund",
			usage: `
              zBund is the bund height [m].`,
			defaultVal: 0.0,
			flagsets:   simFlags,
		},
		{
			name: "MulchPct",
			usage: `
              MulchPct is the share of the soil surface covered by mulch [%].`,
			defaultVal: 0.0,
			flagsets:   simFlags,
		},
		{
			name: "WaterTable",
			usage: `
              WaterTable specifies whether there is a water table.`,
			defaultVal: false,
			flagsets:   simFlags,
		},
		{
			name: "GroundwaterDepths",
			usage: `
              GroundwaterDepths maps dates (YYYY-MM-DD) to water table depths
              [m]. Depths are interpolated between dates.`,
			defaultVal: map[string]string{},
			flagsets:   simFlags,
		},
		{
			name: "CO2",
			usage: `
              CO2 is the atmospheric CO2 concentration [ppm]. Zero means the
              reference concentration.`,
			defaultVal: 0.0,
			flagsets:   simFlags,
		},
		{
			name: "InitialWC",
			usage: `
              InitialWC is the initial soil water content: FC, WP, SAT, or a
              comma-separated list of volumetric water contents, one per
              soil layer.`,
			defaultVal: "FC",
			flagsets:   simFlags,
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the .xlsx file where the outputs
              should be written. It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "aquacrop_output.xlsx",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies user-defined daily output variables
              as a map of names to expressions of the built-in variables
              (run 'aquacrop list' to see them), for example
              {"ET":"Es+Tr","WUE":"ratio(B,Es+Tr)"}.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "SummaryDB",
			usage: `
              SummaryDB is the path to a SQLite database where the season
              summaries are stored. Empty means no database.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RunName",
			usage: `
              RunName names the run in the summary database. It defaults to
              the name of the output file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile specifies the path to the log file. If it is empty, a
              file next to OutputFile is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the lowest level of log messages to write
              (debug, info, warning or error). At debug level every day is
              logged.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CheckInvariants",
			usage: `
              CheckInvariants specifies whether to check the physical bounds
              of the state after every simulated day.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "sweep.Param",
			usage: `
              sweep.Param is the name of the parameter to vary.`,
			defaultVal: "SMT",
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "sweep.Values",
			usage: `
              sweep.Values lists the values the swept parameter takes.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "sweep.Workers",
			usage: `
              sweep.Workers is the number of simulations run at once.`,
			defaultVal: 4,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "plot.Vars",
			usage: `
              plot.Vars lists the daily variables to plot. They can be
              built-in or user-defined variables.`,
			defaultVal: []string{"CC"},
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "plot.File",
			usage: `
              plot.File is the path of the plot; its extension sets the
              image format.`,
			defaultVal: "aquacrop.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("AQUACROP")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := strings.TrimSpace(b.String())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(sweepCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(listCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("aquacrop: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "aquacrop",
	Short: "A daily soil water balance and crop growth model.",
	Long: `AquaCrop-Go simulates the daily soil water balance of a field and the
canopy, biomass and yield of the crops grown on it.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'AQUACROP_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of AquaCrop-Go.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("AquaCrop-Go v%s\n", aquacrop.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation and saves the outputs.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs a simulation over the configured period and saves the daily
outputs and the season summaries to an Excel workbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		vars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		m, err := ModelConfig(Cfg)
		if err != nil {
			return err
		}
		runName := os.ExpandEnv(Cfg.GetString("RunName"))
		if runName == "" {
			runName = outputFile
		}
		return Run(cmd, m,
			checkLogFile(Cfg.GetString("LogFile"), outputFile),
			Cfg.GetString("LogLevel"),
			outputFile,
			checkOutputVars(vars),
			Cfg.GetString("SummaryDB"),
			runName,
			Cfg.GetBool("CheckInvariants"),
		)
	},
	DisableAutoGenTag: true,
}

// sweepCmd is a command that runs one simulation per value of a parameter.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the model over a range of parameter values.",
	Long: `sweep runs independent simulations, in parallel, for each of the values
in sweep.Values of the parameter sweep.Param, and prints the mean seasonal
yield for each value along with a linear fit of yield on the parameter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		param := Cfg.GetString("sweep.Param")
		values, err := getFloatSlice("sweep.Values", Cfg)
		if err != nil {
			return err
		}
		build := func() (*aquacrop.Model, error) { return ModelConfig(Cfg) }
		res, err := Sweep(context.Background(), build, param, values, Cfg.GetInt("sweep.Workers"))
		if err != nil {
			return err
		}
		printSweep(cmd.OutOrStdout(), param, res)
		return nil
	},
	DisableAutoGenTag: true,
}

// plotCmd is a command that runs a simulation and plots daily outputs.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Run the model and plot daily outputs.",
	Long: `plot runs a simulation and draws the daily time series of the variables
in plot.Vars to plot.File.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		m, err := ModelConfig(Cfg)
		if err != nil {
			return err
		}
		o, err := Simulate(m, nil, checkOutputVars(vars), false)
		if err != nil {
			return err
		}
		return Plot(&m.Outputs, o.Derived, expandStringSlice(Cfg.GetStringSlice("plot.Vars")),
			Cfg.GetString("plot.File"))
	},
	DisableAutoGenTag: true,
}

// listCmd is a command that prints the built-in crops, soils and output
// variables.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in crops, soils and output variables.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Crops: %s\n", strings.Join(crop.Names(), ", "))
		cmd.Printf("Soils: %s\n", strings.Join(soil.Classes(), ", "))
		cmd.Printf("Sweep parameters: %s\n", strings.Join(SweepParams(), ", "))
		cmd.Println("Output variables:")
		for _, n := range aquacrop.OutputVariables() {
			v, _ := aquacrop.LookupVariable(n)
			cmd.Printf("  %-9s %s [%s]\n", n, v.Desc, v.Units)
		}
	},
	DisableAutoGenTag: true,
}

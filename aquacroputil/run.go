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
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aquacrop"
	"github.com/spf13/cobra"
)

// newLogger returns a logger that writes to w and, if logFile is not
// empty, to logFile. The returned function closes the log file.
func newLogger(w io.Writer, logFile, level string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("aquacrop: LogLevel: %v", err)
	}
	l := logrus.New()
	l.Level = lvl
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	closer := func() error { return nil }
	l.Out = w
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("aquacrop: problem creating log file: %v", err)
		}
		l.Out = io.MultiWriter(w, f)
		closer = f.Close
	}
	return l, closer, nil
}

// Simulate initializes and runs m with the standard daily functions,
// logging to log if it is not nil. It returns the outputter holding
// the derived output variables.
func Simulate(m *aquacrop.Model, log logrus.FieldLogger, outputVars map[string]string, checkInvariants bool) (*aquacrop.Outputter, error) {
	o, err := aquacrop.NewOutputter(outputVars, nil)
	if err != nil {
		return nil, err
	}
	m.InitFuncs = append(m.InitFuncs, o.CheckOutputVars())
	m.RunFuncs = []aquacrop.DayManipulator{aquacrop.DailySolution()}
	if checkInvariants {
		m.RunFuncs = append(m.RunFuncs, aquacrop.CheckInvariants())
	}
	if log != nil {
		m.RunFuncs = append(m.RunFuncs, aquacrop.Log(log))
	}
	m.RunFuncs = append(m.RunFuncs, aquacrop.SimulationEndCheck())
	m.CleanupFuncs = append(m.CleanupFuncs, o.Output())

	if err := m.Init(); err != nil {
		return nil, fmt.Errorf("aquacrop: problem initializing model: %v", err)
	}
	if err := m.Run(); err != nil {
		return nil, fmt.Errorf("aquacrop: problem running simulation: %v", err)
	}
	return o, nil
}

// Run runs a simulation, saves the daily and seasonal outputs to
// outputFile and, if summaryDB is not empty, stores the season
// summaries in that database under the name runName.
//
// cmd is the command Run is called from; the season summaries are
// printed to its output.
func Run(cmd *cobra.Command, m *aquacrop.Model, logFile, logLevel, outputFile string,
	outputVars map[string]string, summaryDB, runName string, checkInvariants bool) error {

	log, closeLog, err := newLogger(cmd.OutOrStdout(), logFile, logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	log.WithFields(logrus.Fields{
		"start":   m.Start.Format(dateFormat),
		"end":     m.End.Format(dateFormat),
		"seasons": len(m.Seasons),
		"soil":    m.Soil.Name,
	}).Info("aquacrop: starting simulation")

	o, err := Simulate(m, log, outputVars, checkInvariants)
	if err != nil {
		return err
	}
	if err := WriteXLSX(outputFile, &m.Outputs, o.Derived); err != nil {
		return err
	}
	if summaryDB != "" {
		s, err := OpenSummaryStore(summaryDB)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Save(runName, m.Outputs.Seasons); err != nil {
			return fmt.Errorf("aquacrop: saving season summaries: %v", err)
		}
	}
	printSeasons(cmd.OutOrStdout(), m.Outputs.Seasons)
	mean, std := m.Outputs.YieldStats()
	log.WithFields(logrus.Fields{
		"seasons":    len(m.Outputs.Seasons),
		"mean_yield": fmt.Sprintf("%.3f", mean),
		"std_yield":  fmt.Sprintf("%.3f", std),
		"output":     outputFile,
	}).Info("aquacrop: simulation complete")
	return nil
}

func printSeasons(w io.Writer, seasons []aquacrop.SeasonSummary) {
	fmt.Fprintf(w, "%-6s %-10s %-10s %-10s %10s %10s %10s\n",
		"Season", "Crop", "Planted", "Harvested", "Yield", "Irr", "IrrNet")
	for _, s := range seasons {
		status := ""
		switch {
		case s.Dead:
			status = " (dead)"
		case !s.Mature:
			status = " (immature)"
		}
		fmt.Fprintf(w, "%-6d %-10s %-10s %-10s %10.3f %10.1f %10.1f%s\n", s.Season, s.Crop,
			s.PlantingDate.Format(dateFormat), s.HarvestDate.Format(dateFormat),
			s.Yield, s.Irr, s.IrrNet, status)
	}
}

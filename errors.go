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
	"errors"
	"fmt"
	"time"
)

// Error kinds. Every error returned by a simulation wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrConfiguration indicates invalid static parameters. It is
	// reported before the first simulated day.
	ErrConfiguration = errors.New("aquacrop: invalid configuration")

	// ErrDataRange indicates that an input series (for example weather or
	// water-table depths) does not cover the simulation window.
	ErrDataRange = errors.New("aquacrop: input data out of range")

	// ErrNumericGuard indicates that a computation would have produced a
	// non-finite value that could not be avoided by clamping.
	ErrNumericGuard = errors.New("aquacrop: numeric guard")

	// ErrStateInvariant indicates an internal defect: the simulation
	// state broke one of its physical bounds.
	ErrStateInvariant = errors.New("aquacrop: state invariant violated")
)

// SimulationError records where in the daily loop an error occurred.
type SimulationError struct {
	Kind error     // One of the Err* kinds above.
	Step string    // Name of the sub-model that failed.
	Day  int       // Simulation time step, starting at zero.
	Date time.Time // Calendar date of the failing day.
	Err  error     // Underlying cause; may be nil.
}

func (e *SimulationError) Error() string {
	msg := e.Kind.Error()
	if e.Step != "" {
		msg += fmt.Sprintf(" in %s", e.Step)
	}
	if !e.Date.IsZero() {
		msg += fmt.Sprintf(" on %s (step %d)", e.Date.Format("2006-01-02"), e.Day)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap allows errors.Is to match both the kind and the cause.
func (e *SimulationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func configError(format string, args ...interface{}) error {
	return &SimulationError{Kind: ErrConfiguration, Err: fmt.Errorf(format, args...)}
}

func dataRangeError(format string, args ...interface{}) error {
	return &SimulationError{Kind: ErrDataRange, Err: fmt.Errorf(format, args...)}
}

// ConfigError returns an error of kind ErrConfiguration. It is used by
// the parameter-derivation packages.
func ConfigError(format string, args ...interface{}) error {
	return configError(format, args...)
}

// DataRangeError returns an error of kind ErrDataRange.
func DataRangeError(format string, args ...interface{}) error {
	return dataRangeError(format, args...)
}

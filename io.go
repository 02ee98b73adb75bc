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
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
)

// Outputter computes user-defined daily output variables.
//
// outputVariables maps the names of the requested variables to
// expressions that define how they are calculated. Expressions may use
// the built-in daily variables (see OutputVariables), other
// user-defined variables and the output functions.
type Outputter struct {
	outputVariables map[string]string
	modelVariables  []string
	outputFunctions map[string]govaluate.ExpressionFunction

	// Derived holds the daily values of each output variable once
	// Output has run.
	Derived map[string][]float64
}

// NewOutputter initializes an Outputter and adds the default output
// functions:
//
// 'exp(x)' and 'log(x)', the exponential and natural logarithm;
//
// 'max(x, y)' and 'min(x, y)';
//
// 'ratio(x, y)', which is x/y, or zero when y is zero.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	funcs := map[string]govaluate.ExpressionFunction{
		"exp":   oneArg("exp", math.Exp),
		"log":   oneArg("log", math.Log),
		"max":   twoArgs("max", math.Max),
		"min":   twoArgs("min", math.Min),
		"ratio": twoArgs("ratio", func(x, y float64) float64 {
			if y == 0 {
				return 0
			}
			return x / y
		}),
	}
	for k, v := range outputFunctions {
		funcs[k] = v
	}
	o := &Outputter{
		outputVariables: make(map[string]string, len(outputVariables)),
		outputFunctions: funcs,
	}
	for k, v := range outputVariables {
		o.outputVariables[k] = v
	}
	if err := o.checkForDerivatives(0); err != nil {
		return nil, err
	}
	return o, nil
}

func oneArg(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("aquacrop: got %d arguments for function '%s', but needs 1", len(args), name)
		}
		return f(args[0].(float64)), nil
	}
}

func twoArgs(name string, f func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("aquacrop: got %d arguments for function '%s', but needs 2", len(args), name)
		}
		return f(args[0].(float64), args[1].(float64)), nil
	}
}

// removeDuplicates returns the unique strings of s in their original order.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]bool)
	for _, v := range s {
		if !seen[v] {
			result = append(result, v)
			seen[v] = true
		}
	}
	return result
}

var identChar = regexp.MustCompile(`[a-zA-Z0-9_]`)

// standalone reports whether the occurrence of a variable between
// before and after is not part of a longer name.
func standalone(before, after string) bool {
	if before != "" && identChar.MatchString(before[len(before)-1:]) {
		return false
	}
	if after != "" && identChar.MatchString(after[:1]) {
		return false
	}
	return true
}

// maxExpansionDepth bounds the substitution of user-defined variables
// into each other, so that circular definitions are reported.
const maxExpansionDepth = 32

// checkForDerivatives replaces every user-defined variable that appears
// in another expression by its definition, and records the built-in
// variables the expressions depend on.
func (o *Outputter) checkForDerivatives(depth int) error {
	if depth > maxExpansionDepth {
		return configError("output variables: circular definition")
	}
	o.modelVariables = o.modelVariables[:0]
	for key, val := range o.outputVariables {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return configError("output variable %s: %v", key, err)
		}
		vars := removeDuplicates(expression.Vars())
		for _, v := range vars {
			def, ok := o.outputVariables[v]
			if !ok || def == v {
				continue
			}
			if v == key {
				return configError("output variable %s: circular definition", key)
			}
			parts := strings.Split(val, v)
			var b strings.Builder
			for i, part := range parts {
				b.WriteString(part)
				if i == len(parts)-1 {
					break
				}
				if standalone(part, parts[i+1]) {
					b.WriteString("(" + def + ")")
				} else {
					b.WriteString(v)
				}
			}
			o.outputVariables[key] = b.String()
			return o.checkForDerivatives(depth + 1)
		}
		o.modelVariables = append(o.modelVariables, vars...)
	}
	o.modelVariables = removeDuplicates(o.modelVariables)
	sort.Strings(o.modelVariables)
	return nil
}

// checkModelVars checks that every variable is a built-in output.
func checkModelVars(g ...string) error {
	for _, v := range g {
		if _, err := LookupVariable(v); err != nil {
			return configError("output variables: undefined variable name '%s'", v)
		}
	}
	return nil
}

// CheckOutputVars ensures the output variables can be calculated.
func (o *Outputter) CheckOutputVars() DayManipulator {
	return func(m *Model) error {
		return checkModelVars(o.modelVariables...)
	}
}

// Output returns a function that evaluates the output variables for
// every simulated day and stores them in o.Derived.
func (o *Outputter) Output() DayManipulator {
	return func(m *Model) error {
		res, err := o.Results(&m.Outputs)
		if err != nil {
			return err
		}
		o.Derived = res
		return nil
	}
}

// Results evaluates the output variables for every day in out.
func (o *Outputter) Results(out *Outputs) (map[string][]float64, error) {
	series := make(map[string][]float64, len(o.modelVariables))
	for _, v := range o.modelVariables {
		s, err := out.Series(v)
		if err != nil {
			return nil, err
		}
		series[v] = s
	}
	res := make(map[string][]float64, len(o.outputVariables))
	params := make(map[string]interface{}, len(series))
	for name, expr := range o.outputVariables {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("aquacrop: output variable %s: %v", name, err)
		}
		vals := make([]float64, out.Len())
		for i := range vals {
			for k, s := range series {
				params[k] = s[i]
			}
			r, err := expression.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("aquacrop: output variable %s, day %d: %v", name, i, err)
			}
			switch x := r.(type) {
			case float64:
				vals[i] = x
			case bool:
				if x {
					vals[i] = 1
				}
			default:
				return nil, fmt.Errorf("aquacrop: output variable %s: unsupported result type %T", name, r)
			}
		}
		res[name] = vals
	}
	return res, nil
}

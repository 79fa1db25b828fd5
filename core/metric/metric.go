// Package metric turns metric names and expressions into per-observation
// value functions and filter predicates.
package metric

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/schema"
)

// Value derives the stress value of a single observation.
type Value = pmc.ValueFunc

// Filter reports whether an observation takes part in accumulation.
type Filter = pmc.FilterFunc

var (
	// ErrMissingMetric is returned when an observation lacks the requested metric.
	ErrMissingMetric = errors.New("metric not present on observation")

	// ErrNotNumeric is returned when an expression does not evaluate to a number.
	ErrNotNumeric = errors.New("expression did not return a number")
)

// Expression variables.
const (
	varMetrics  = "m"
	varPlanned  = "planned"
	varSport    = "sport"
	varDuration = "duration"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(varMetrics, cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable(varPlanned, cel.BoolType),
		cel.Variable(varSport, cel.StringType),
		cel.Variable(varDuration, cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// IsExpression reports whether text will be compiled as an expression
// rather than used as a metric name.
func IsExpression(text string) bool {
	text = strings.TrimSpace(text)
	if _, ok := Lookup(text); ok {
		return false
	}
	return !identifierRegex.MatchString(text) || isVariable(text)
}

func isVariable(name string) bool {
	switch name {
	case varMetrics, varPlanned, varSport, varDuration:
		return true
	}
	return false
}

// Compile returns the value function for a metric name or an expression.
// Names found in the catalog, and bare identifiers, read the observation's
// metric map directly; anything else is compiled as a CEL expression over
// m, planned, sport and duration.
func Compile(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("metric name or expression is required")
	}
	if def, ok := Lookup(text); ok {
		return named(def.Name, def.keys()), nil
	}
	if !IsExpression(text) {
		return named(text, []string{text}), nil
	}

	prg, err := compileProgram(text, func(out *cel.Type) bool {
		for _, want := range []*cel.Type{cel.DoubleType, cel.IntType, cel.UintType, cel.DynType} {
			if out.IsExactType(want) {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	return func(o schema.Observation) (float64, error) {
		result, _, err := prg.Eval(activation(o))
		if err != nil {
			return 0, fmt.Errorf("evaluate %q: %w", text, err)
		}
		switch v := result.Value().(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case uint64:
			return float64(v), nil
		default:
			return 0, fmt.Errorf("%w: %q gave %T", ErrNotNumeric, text, v)
		}
	}, nil
}

// CompileFilter returns the filter predicate for a boolean expression.
// An empty expression accepts every observation.
func CompileFilter(text string) (Filter, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return func(schema.Observation) bool { return true }, nil
	}
	prg, err := compileProgram(text, func(out *cel.Type) bool {
		return out.IsExactType(cel.BoolType) || out.IsExactType(cel.DynType)
	})
	if err != nil {
		return nil, err
	}
	return func(o schema.Observation) bool {
		result, _, err := prg.Eval(activation(o))
		if err != nil {
			return false
		}
		ok, isBool := result.Value().(bool)
		return isBool && ok
	}, nil
}

func compileProgram(text string, accept func(*cel.Type) bool) (cel.Program, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(text)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", text, issues.Err())
	}
	if !accept(ast.OutputType()) {
		return nil, fmt.Errorf("expression %q has unsupported result type %s", text, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for %q: %w", text, err)
	}
	return prg, nil
}

func named(name string, keys []string) Value {
	return func(o schema.Observation) (float64, error) {
		for _, k := range keys {
			if v, ok := o.Metric(k); ok {
				return v, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrMissingMetric, name)
	}
}

func activation(o schema.Observation) map[string]any {
	metrics := o.Metrics
	if metrics == nil {
		metrics = map[string]float64{}
	}
	return map[string]any{
		varMetrics:  metrics,
		varPlanned:  o.Planned,
		varSport:    o.Sport,
		varDuration: o.Duration,
	}
}

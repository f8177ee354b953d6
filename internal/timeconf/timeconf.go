// Package timeconf loads HCL timing-scenario definitions. A scenario
// names the build tool, its arguments and options, the configuration
// variables with their defaults, and which variables calibrate.
package timeconf

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/bdbaddog/scons-time/internal/harness"
)

// File is the decoded top level of a scenario file.
type File struct {
	Scenarios []*Scenario `hcl:"scenario,block"`
}

// Scenario is one timing scenario definition.
type Scenario struct {
	Name      string      `hcl:"name,label"`
	Tool      string      `hcl:"tool,optional"`
	Arguments []string    `hcl:"arguments,optional"`
	Options   []string    `hcl:"options,optional"`
	Fixture   string      `hcl:"fixture,optional"`
	Calibrate []string    `hcl:"calibrate,optional"`
	Variables []*Variable `hcl:"variable,block"`
}

// Variable is a scenario configuration variable with its default.
type Variable struct {
	Name    string    `hcl:"name,label"`
	Default cty.Value `hcl:"default,optional"`
}

// Load parses and decodes a scenario file. HCL diagnostics, including
// unknown blocks or attributes, are returned as errors.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", path, diags)
	}

	var f File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", path, diags)
	}

	seen := make(map[string]bool, len(f.Scenarios))
	for _, s := range f.Scenarios {
		if seen[s.Name] {
			return nil, fmt.Errorf("%s: duplicate scenario %q", path, s.Name)
		}
		seen[s.Name] = true
		for _, v := range s.Variables {
			if _, err := goValue(v.Default); err != nil {
				return nil, fmt.Errorf("%s: scenario %q variable %q: %w", path, s.Name, v.Name, err)
			}
		}
	}
	return &f, nil
}

// Scenario returns the named scenario, or the only one when name is
// empty and the file defines exactly one.
func (f *File) Scenario(name string) (*Scenario, error) {
	if name == "" {
		if len(f.Scenarios) == 1 {
			return f.Scenarios[0], nil
		}
		return nil, fmt.Errorf("scenario name required, file defines %d scenarios", len(f.Scenarios))
	}
	for _, s := range f.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("scenario %q not defined", name)
}

// HarnessConfig converts the scenario into a harness configuration
// rooted at dir. The defaultTool applies when the scenario does not
// name one.
func (s *Scenario) HarnessConfig(dir, defaultTool string) (harness.Config, error) {
	tool := s.Tool
	if tool == "" {
		tool = defaultTool
	}
	vars := make([]harness.Variable, 0, len(s.Variables))
	for _, v := range s.Variables {
		val, err := goValue(v.Default)
		if err != nil {
			return harness.Config{}, fmt.Errorf("variable %q: %w", v.Name, err)
		}
		vars = append(vars, harness.Variable{Name: v.Name, Value: val})
	}
	return harness.Config{
		Tool:          tool,
		Arguments:     s.Arguments,
		Options:       s.Options,
		Variables:     vars,
		CalibrateVars: s.Calibrate,
		Dir:           dir,
	}, nil
}

// goValue unwraps a cty default into an int64, float64, or string.
func goValue(v cty.Value) (any, error) {
	if v.IsNull() {
		return "", nil
	}
	switch v.Type() {
	case cty.Number:
		bf := v.AsBigFloat()
		if n, acc := bf.Int64(); acc == big.Exact {
			return n, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return fmt.Sprint(v.True()), nil
	default:
		return nil, fmt.Errorf("unsupported default type %s", v.Type().FriendlyName())
	}
}

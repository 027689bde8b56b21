// Package fixtures loads YAML-described end-to-end type-check scenarios
// (SPEC_FULL.md's DOMAIN STACK: gopkg.in/yaml.v3), mirroring spec §8's
// concrete end-to-end scenarios, for use as table-driven test inputs in
// internal/checker.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one named end-to-end case: a tiny s-expression surface
// syntax for an expression (parsed by this package's test-only Build, since
// parsing concrete syntax is out of this module's core scope), and either an
// expected principal type's pretty-printed form or an expected error kind.
type Scenario struct {
	Name string `yaml:"name"`

	// Expr is the scenario's input, in the tiny s-expression surface
	// syntax that Build (build.go) parses into an ast.Expr.
	Expr string `yaml:"expr"`

	// ExpectedType, when non-empty, is the expected pretty-printed
	// principal type (Type.String()) on success.
	ExpectedType string `yaml:"expected_type,omitempty"`

	// ExpectedErrorKind, when non-empty, names the Go type of the
	// expected structured error (e.g. "UndefinedVariable", "TypeMismatch").
	ExpectedErrorKind string `yaml:"expected_error_kind,omitempty"`
}

// Suite is an ordered list of Scenarios loaded from one YAML file.
type Suite struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load reads and parses a Suite from a YAML file at path.
func Load(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("fixtures: reading %s: %w", path, err)
	}
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return Suite{}, fmt.Errorf("fixtures: parsing %s: %w", path, err)
	}
	return suite, nil
}

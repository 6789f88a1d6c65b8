package validate

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rule names.
const (
	RuleElementCounts       = "element-counts"
	RuleActivity            = "activity"
	RuleConnector           = "connector"
	RuleGenerator           = "generator"
	RuleResource            = "resource"
	RuleResourceRequirement = "resource-requirement"
)

// DefaultProbabilityTolerance is the allowed deviation of a source's outgoing
// probability sum from 1.0.
const DefaultProbabilityTolerance = 1e-4

// ValidRules is the set of recognized rule names.
// Shared by Config.Validate() and NewRule() to avoid duplication.
var ValidRules = map[string]bool{
	RuleElementCounts:       true,
	RuleActivity:            true,
	RuleConnector:           true,
	RuleGenerator:           true,
	RuleResource:            true,
	RuleResourceRequirement: true,
}

// IsValidRule returns true if name is a recognized rule name.
func IsValidRule(name string) bool {
	return ValidRules[name]
}

// RuleNames returns every recognized rule name, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(ValidRules))
	for name := range ValidRules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRule creates a rule by name.
// Panics on unrecognized names.
func NewRule(name string) Rule {
	if !IsValidRule(name) {
		panic(fmt.Sprintf("unknown validation rule %q", name))
	}
	switch name {
	case RuleElementCounts:
		return ElementCountRule{}
	case RuleActivity:
		return ActivityRule{}
	case RuleConnector:
		return ConnectorRule{}
	case RuleGenerator:
		return GeneratorRule{}
	case RuleResource:
		return ResourceRule{}
	case RuleResourceRequirement:
		return RequirementRule{}
	default:
		panic(fmt.Sprintf("unhandled validation rule %q", name))
	}
}

// Config selects the rules to run and their parameters. It is passed by value
// and never mutated by the engine. The zero value runs every rule with the
// default tolerance.
type Config struct {
	// Rules lists the enabled rule names; empty enables all.
	Rules []string `yaml:"rules,omitempty"`
	// Disabled lists rule names to skip.
	Disabled []string `yaml:"disabled,omitempty"`
	// ProbabilityTolerance overrides DefaultProbabilityTolerance when positive.
	ProbabilityTolerance float64 `yaml:"probability_tolerance,omitempty"`
}

func (c Config) tolerance() float64 {
	if c.ProbabilityTolerance > 0 {
		return c.ProbabilityTolerance
	}
	return DefaultProbabilityTolerance
}

// Validate checks that all rule names and parameter ranges are valid.
func (c Config) Validate() error {
	for _, name := range c.Rules {
		if !IsValidRule(name) {
			return fmt.Errorf("unknown validation rule %q; valid: %v", name, RuleNames())
		}
	}
	for _, name := range c.Disabled {
		if !IsValidRule(name) {
			return fmt.Errorf("unknown disabled rule %q; valid: %v", name, RuleNames())
		}
	}
	if c.ProbabilityTolerance < 0 || c.ProbabilityTolerance >= 1 {
		return fmt.Errorf("probability_tolerance must be in [0, 1), got %g", c.ProbabilityTolerance)
	}
	return nil
}

// enabledRules returns the rule names to run, in RuleNames order.
func (c Config) enabledRules() []string {
	enabled := make(map[string]bool)
	if len(c.Rules) == 0 {
		for name := range ValidRules {
			enabled[name] = true
		}
	}
	for _, name := range c.Rules {
		enabled[name] = true
	}
	for _, name := range c.Disabled {
		delete(enabled, name)
	}
	var out []string
	for _, name := range RuleNames() {
		if enabled[name] {
			out = append(out, name)
		}
	}
	return out
}

// LoadConfig reads a YAML rule bundle.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading rule bundle: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing rule bundle: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

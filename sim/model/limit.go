package model

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// unboundedTag is the YAML spelling of an unbounded Limit.
const unboundedTag = "unbounded"

// Limit is a numeric bound that may be unbounded.
// The zero value is a finite bound of 0.
type Limit struct {
	Value     float64
	Unbounded bool
}

// Unbounded returns a Limit with no upper bound.
func Unbounded() Limit { return Limit{Unbounded: true} }

// Finite returns a Limit bounded at v.
func Finite(v float64) Limit { return Limit{Value: v} }

// IsValid reports whether the limit is unbounded or a finite number >= min.
func (l Limit) IsValid(min float64) bool {
	if l.Unbounded {
		return true
	}
	if math.IsNaN(l.Value) || math.IsInf(l.Value, 0) {
		return false
	}
	return l.Value >= min
}

func (l Limit) String() string {
	if l.Unbounded {
		return unboundedTag
	}
	return fmt.Sprintf("%g", l.Value)
}

// MarshalYAML writes "unbounded" or the finite value.
func (l Limit) MarshalYAML() (interface{}, error) {
	if l.Unbounded {
		return unboundedTag, nil
	}
	return l.Value, nil
}

// UnmarshalYAML accepts "unbounded", ".inf" or a number.
func (l *Limit) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: limit must be a scalar", node.Line)
	}
	if strings.EqualFold(node.Value, unboundedTag) {
		*l = Unbounded()
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("line %d: limit must be a number or %q: %w", node.Line, unboundedTag, err)
	}
	if math.IsInf(v, 1) {
		*l = Unbounded()
		return nil
	}
	*l = Finite(v)
	return nil
}

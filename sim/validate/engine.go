// Package validate checks that a model.Definition is internally consistent.
//
// Each pass projects the definition into a State (id maps and relationship
// sets) and runs an independent catalog of rules over it. Findings are
// returned as messages; validation never fails with an error.
package validate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/simforge/sim/model"
)

// Engine runs a fixed set of rules.
type Engine struct {
	cfg   Config
	rules []Rule
}

// NewEngine builds an engine for cfg.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, name := range cfg.enabledRules() {
		e.rules = append(e.rules, NewRule(name))
	}
	return e, nil
}

// NewEngineWithRules builds an engine for an explicit rule list.
func NewEngineWithRules(cfg Config, rules ...Rule) *Engine {
	return &Engine{cfg: cfg, rules: rules}
}

// Rules returns the names of the rules the engine runs.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

// Validate runs every rule against a fresh projection of def. A panic in any
// rule is recovered and reported as a single error message.
func (e *Engine) Validate(def *model.Definition) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("validation aborted: %v", r)
			res = newResult([]Message{errorf("", "Validation failed unexpectedly: %v", r)})
		}
	}()

	if def == nil {
		panic(fmt.Errorf("nil model definition"))
	}
	state := NewState(def)
	var messages []Message
	for _, rule := range e.rules {
		found := rule.Check(state, e.cfg)
		logrus.Debugf("rule %s: %d messages", rule.Name(), len(found))
		messages = append(messages, found...)
	}
	res = newResult(messages)
	logrus.Debugf("validation: valid=%v errors=%d warnings=%d", res.IsValid, res.ErrorCount, res.WarningCount)
	return res
}

// Validate runs every rule with the default configuration.
func Validate(def *model.Definition) *Result {
	e, err := NewEngine(Config{})
	if err != nil {
		panic(err) // the zero Config is always valid
	}
	return e.Validate(def)
}

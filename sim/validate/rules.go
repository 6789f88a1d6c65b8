package validate

import (
	"math"
	"strings"

	"github.com/inference-sim/simforge/sim/model"
)

// Rule inspects a State and reports findings. Rules are independent of each
// other and of the order they run in.
type Rule interface {
	Name() string
	Check(s *State, cfg Config) []Message
}

// ElementCountRule requires the element kinds a runnable model needs.
type ElementCountRule struct{}

func (ElementCountRule) Name() string { return RuleElementCounts }

func (ElementCountRule) Check(s *State, _ Config) []Message {
	var msgs []Message
	if len(s.GeneratorIDs) == 0 {
		msgs = append(msgs, errorf("", "Model must contain at least one generator"))
	}
	if len(s.ActivityIDs) == 0 {
		msgs = append(msgs, errorf("", "Model must contain at least one activity"))
	}
	if len(s.ResourceIDs) == 0 {
		msgs = append(msgs, warningf("", "Model contains no resources"))
	}
	return msgs
}

// ActivityRule checks connectivity and attribute ranges of every activity.
type ActivityRule struct{}

func (ActivityRule) Name() string { return RuleActivity }

func (ActivityRule) Check(s *State, _ Config) []Message {
	var msgs []Message
	for _, a := range s.Definition().Activities.All() {
		rel := s.ActivityRelationships[a.ID]
		if rel == nil || len(rel.IncomingConnectorIDs)+len(rel.OutgoingConnectorIDs) == 0 {
			msgs = append(msgs, errorf(a.ID, "Activity %q is isolated: it has no incoming or outgoing connectors", a.ID))
		}
		if isBlank(a.Name) {
			msgs = append(msgs, warningf(a.ID, "Activity %q has no name", a.ID))
		}
		if a.Capacity < 1 {
			msgs = append(msgs, errorf(a.ID, "Activity %q capacity must be an integer >= 1, got %d", a.ID, a.Capacity))
		}
		if !a.InputBufferCapacity.IsValid(0) {
			msgs = append(msgs, errorf(a.ID, "Activity %q input buffer capacity must be a number >= 0, got %v", a.ID, a.InputBufferCapacity))
		}
		if !a.OutputBufferCapacity.IsValid(0) {
			msgs = append(msgs, errorf(a.ID, "Activity %q output buffer capacity must be a number >= 0, got %v", a.ID, a.OutputBufferCapacity))
		}
		switch {
		case a.OperationSteps == nil:
			msgs = append(msgs, errorf(a.ID, "Activity %q has no operation steps defined", a.ID))
		case len(a.OperationSteps) == 0:
			msgs = append(msgs, warningf(a.ID, "Activity %q has an empty operation step list", a.ID))
		}
		for i, step := range a.OperationSteps {
			if !(step.Duration.Length > 0) || math.IsInf(step.Duration.Length, 0) {
				msgs = append(msgs, errorf(a.ID, "Activity %q operation step %d must have a positive duration, got %v", a.ID, i+1, step.Duration.Length))
			}
			if !model.ValidTimeUnits[step.Duration.Unit] {
				msgs = append(msgs, errorf(a.ID, "Activity %q operation step %d has unknown time unit %q", a.ID, i+1, step.Duration.Unit))
			}
		}
		for _, reqID := range a.ResourceRequirementIDs {
			if !s.RequirementIDs[reqID] {
				msgs = append(msgs, errorf(a.ID, "Activity %q references missing resource requirement %q", a.ID, reqID))
			}
		}
	}
	return msgs
}

// ConnectorRule checks endpoints, names and probability conservation.
type ConnectorRule struct{}

func (ConnectorRule) Name() string { return RuleConnector }

func (ConnectorRule) Check(s *State, cfg Config) []Message {
	var msgs []Message
	var sources []string
	sums := make(map[string]float64)
	for _, c := range s.Definition().Connectors.All() {
		if !s.ActivityIDs[c.SourceID] && !s.GeneratorIDs[c.SourceID] {
			msgs = append(msgs, errorf(c.ID, "Connector %q source %q does not resolve to an existing activity", c.ID, c.SourceID))
		}
		if !s.ActivityIDs[c.TargetID] {
			msgs = append(msgs, errorf(c.ID, "Connector %q target %q does not resolve to an existing activity", c.ID, c.TargetID))
		}
		if isBlank(c.Name) {
			msgs = append(msgs, warningf(c.ID, "Connector %q has no name", c.ID))
		}
		if math.IsNaN(c.Probability) || c.Probability < 0 || c.Probability > 1 {
			msgs = append(msgs, errorf(c.ID, "Connector %q probability must be between 0 and 1, got %v", c.ID, c.Probability))
		}
		if _, seen := sums[c.SourceID]; !seen {
			sources = append(sources, c.SourceID)
		}
		sums[c.SourceID] += c.Probability
	}
	for _, src := range sources {
		if sum := sums[src]; !(math.Abs(sum-1.0) <= cfg.tolerance()) {
			msgs = append(msgs, errorf(src, "Outgoing connector probabilities from %q sum to %.4f, expected 1.0", src, sum))
		}
	}
	return msgs
}

// GeneratorRule checks outflow and schedule attributes of every generator.
type GeneratorRule struct{}

func (GeneratorRule) Name() string { return RuleGenerator }

func (GeneratorRule) Check(s *State, _ Config) []Message {
	var msgs []Message
	for _, g := range s.Definition().Generators.All() {
		if len(s.OutgoingConnectors(g.ID)) == 0 {
			msgs = append(msgs, errorf(g.ID, "Generator %q has no outgoing connectors", g.ID))
		}
		if g.EntitiesPerCreation < 1 {
			msgs = append(msgs, errorf(g.ID, "Generator %q entities per creation must be an integer >= 1, got %d", g.ID, g.EntitiesPerCreation))
		}
		if g.PeriodIntervalDuration == nil {
			msgs = append(msgs, errorf(g.ID, "Generator %q has no period interval duration", g.ID))
		}
		if g.PeriodicStartDuration == nil {
			msgs = append(msgs, errorf(g.ID, "Generator %q has no periodic start duration", g.ID))
		}
		if !g.MaxEntities.IsValid(1) {
			msgs = append(msgs, warningf(g.ID, "Generator %q max entities should be >= 1, got %v", g.ID, g.MaxEntities))
		}
		if g.ActivityKeyID != "" && !s.ActivityIDs[g.ActivityKeyID] {
			msgs = append(msgs, errorf(g.ID, "Generator %q activity key %q does not resolve to an existing activity", g.ID, g.ActivityKeyID))
		}
		if g.EntityType != "" && !s.EntityIDs[g.EntityType] {
			msgs = append(msgs, warningf(g.ID, "Generator %q entity type %q does not resolve to an entity", g.ID, g.EntityType))
		}
	}
	return msgs
}

// ResourceRule checks usage and attribute ranges of every resource.
type ResourceRule struct{}

func (ResourceRule) Name() string { return RuleResource }

func (ResourceRule) Check(s *State, _ Config) []Message {
	var msgs []Message
	for _, r := range s.Definition().Resources.All() {
		if !s.IsResourceReferenced(r.ID) {
			msgs = append(msgs, warningf(r.ID, "Resource %q is not assigned to any activity", r.ID))
		}
		if r.Capacity < 1 {
			msgs = append(msgs, errorf(r.ID, "Resource %q capacity must be an integer >= 1, got %d", r.ID, r.Capacity))
		}
		if r.Availability != nil && (math.IsNaN(*r.Availability) || math.IsInf(*r.Availability, 0)) {
			msgs = append(msgs, errorf(r.ID, "Resource %q availability must be numeric, got %v", r.ID, *r.Availability))
		}
	}
	return msgs
}

// RequirementRule checks the clauses of every resource requirement.
type RequirementRule struct{}

func (RequirementRule) Name() string { return RuleResourceRequirement }

func (RequirementRule) Check(s *State, _ Config) []Message {
	var msgs []Message
	for _, rr := range s.Definition().ResourceRequirements.All() {
		if len(rr.Clauses) == 0 {
			msgs = append(msgs, warningf(rr.ID, "Resource requirement %q has no clauses", rr.ID))
		}
		for i, clause := range rr.Clauses {
			if !s.ResourceIDs[clause.ResourceID] {
				msgs = append(msgs, errorf(rr.ID, "Resource requirement %q clause %d references missing resource %q", rr.ID, i+1, clause.ResourceID))
			}
			if clause.Quantity < 1 {
				msgs = append(msgs, errorf(rr.ID, "Resource requirement %q clause %d quantity must be >= 1, got %d", rr.ID, i+1, clause.Quantity))
			}
		}
	}
	return msgs
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

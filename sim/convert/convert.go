// Package convert turns a diagram graph into a typed simulation model.
//
// The pipeline classifies every shape with diagram.Analyze, instantiates
// elements through a shape.Factory in dependency order (resources, entities,
// activities, generators), registers them into a model.Definition and then
// connects them with probability-weighted connectors. Validation is a
// separate step (sim/validate): a successful conversion may still produce an
// invalid model.
package convert

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/simforge/sim/diagram"
	"github.com/inference-sim/simforge/sim/model"
	"github.com/inference-sim/simforge/sim/repository"
	"github.com/inference-sim/simforge/sim/shape"
	"github.com/inference-sim/simforge/sim/trace"
)

// ErrElementConversion wraps any failure while converting a single node or edge.
var ErrElementConversion = errors.New("element conversion failed")

// nodeKindOrder is the order in which node-derived kinds are instantiated.
var nodeKindOrder = []model.Kind{model.KindResource, model.KindEntity, model.KindActivity, model.KindGenerator}

// Config holds the conversion options. It is passed by value and never mutated.
type Config struct {
	ModelName string // defaults to the graph name
	ModelID   string // defaults to a fresh UUID
	Trace     trace.TraceConfig
}

// Validate checks the config values.
func (c Config) Validate() error {
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("unknown trace level %q; valid: none, decisions", c.Trace.Level)
	}
	return nil
}

// ElementCount is the number of elements of each kind in the converted model.
type ElementCount struct {
	Activities int `yaml:"activities" json:"activities"`
	Generators int `yaml:"generators" json:"generators"`
	Resources  int `yaml:"resources" json:"resources"`
	Connectors int `yaml:"connectors" json:"connectors"`
}

// Result summarizes a conversion.
type Result struct {
	Success      bool                   `yaml:"success" json:"success"`
	ModelID      string                 `yaml:"model_id" json:"modelId"`
	ElementCount ElementCount           `yaml:"element_count" json:"elementCount"`
	Warnings     []string               `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Trace        *trace.ConversionTrace `yaml:"-" json:"-"`
}

// Converter runs the conversion pipeline.
type Converter struct {
	factory shape.Factory
	repo    repository.Repository
	cfg     Config
}

// NewConverter returns a Converter creating elements through factory and
// persisting payloads to repo.
func NewConverter(factory shape.Factory, repo repository.Repository, cfg Config) *Converter {
	return &Converter{factory: factory, repo: repo, cfg: cfg}
}

// Convert rebuilds def from g. Any model already held by def, or recorded in
// the repository, is torn down first together with its stored payloads;
// conversion never merges.
//
// A failure while converting any single node or edge aborts the call and is
// returned wrapped in ErrElementConversion. Elements registered before the
// failure stay in def; the caller owns recovery, typically by clearing def
// and converting again.
func (c *Converter) Convert(g *diagram.Graph, def *model.Definition) (*Result, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	analysis := diagram.Analyze(g)
	if err := checkRequirementIDs(g, analysis); err != nil {
		return nil, err
	}
	if err := c.teardown(def); err != nil {
		return nil, err
	}

	res := &Result{ModelID: c.cfg.ModelID}
	if res.ModelID == "" {
		res.ModelID = uuid.New().String()
	}
	if c.cfg.Trace.Enabled() {
		res.Trace = trace.NewConversionTrace(c.cfg.Trace)
		for _, n := range analysis.Nodes {
			res.Trace.RecordClassification(trace.ClassificationRecord{
				NodeID:     n.NodeID,
				Shape:      n.Shape.String(),
				Incoming:   n.Incoming,
				Outgoing:   n.Outgoing,
				Inferred:   n.Inferred.String(),
				Kind:       n.Kind.String(),
				Overridden: n.Overridden(),
			})
		}
	}

	modelShape := c.factory.Wrap(&model.Model{ID: res.ModelID, Name: c.modelName(g)})
	def.Add(modelShape.SimulationObject())
	shapes := []shape.Shape{modelShape}

	for _, kind := range nodeKindOrder {
		for _, na := range analysis.ByKind(kind) {
			node, _ := g.NodeByID(na.NodeID)
			created, err := c.convertNode(node, kind, def)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, created...)
		}
	}
	c.assignEntityTypes(def)

	for _, ea := range analysis.Edges {
		s, err := c.convertEdge(ea, g, analysis, def, res)
		if err != nil {
			return nil, err
		}
		if s != nil {
			shapes = append(shapes, s)
		}
	}

	for _, s := range shapes {
		if err := s.UpdateFromPlatform(); err != nil {
			obj := s.SimulationObject()
			return nil, fmt.Errorf("%w: persisting %s %s: %w", ErrElementConversion, obj.Kind(), obj.ElementID(), err)
		}
	}

	res.ElementCount = ElementCount{
		Activities: def.Activities.Len(),
		Generators: def.Generators.Len(),
		Resources:  def.Resources.Len(),
		Connectors: def.Connectors.Len(),
	}
	res.Success = true
	logrus.Infof("Converted %q into model %s: %d activities, %d generators, %d resources, %d connectors (%d warnings)",
		g.Name, res.ModelID, res.ElementCount.Activities, res.ElementCount.Generators,
		res.ElementCount.Resources, res.ElementCount.Connectors, len(res.Warnings))
	return res, nil
}

// convertNode instantiates and registers the element for one node. A resource
// also gets its single-resource requirement.
func (c *Converter) convertNode(node diagram.Node, kind model.Kind, def *model.Definition) ([]shape.Shape, error) {
	s, err := c.factory.Create(node, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: node %s as %s: %w", ErrElementConversion, node.ID, kind, err)
	}
	elem := s.SimulationObject()
	if elem == nil || elem.Kind() != kind {
		return nil, fmt.Errorf("%w: node %s: factory returned %v, want %s", ErrElementConversion, node.ID, elem, kind)
	}
	if gen, ok := elem.(*model.Generator); ok {
		// derived from the edges on every conversion
		gen.ActivityKeyID = ""
	}
	def.Add(elem)
	logrus.Debugf("registered %s %s", kind, elem.ElementID())

	created := []shape.Shape{s}
	if r, ok := elem.(*model.Resource); ok {
		req := model.NewSingleResourceRequirement(r)
		def.Add(req)
		created = append(created, c.factory.Wrap(req))
	}
	return created, nil
}

// convertEdge registers a connector for a connected edge and records a
// warning for self-loops and dangling edges.
func (c *Converter) convertEdge(ea diagram.EdgeAnalysis, g *diagram.Graph, analysis *diagram.Analysis, def *model.Definition, res *Result) (shape.Shape, error) {
	record := trace.EdgeRecord{EdgeID: ea.EdgeID, From: ea.From, To: ea.To, Status: ea.Status.String()}
	defer func() {
		if res.Trace != nil {
			res.Trace.RecordEdge(record)
		}
	}()

	switch ea.Status {
	case diagram.EdgeSelfLoop:
		res.warn("edge %s: self-loop on %s dropped", ea.EdgeID, ea.From)
		return nil, nil
	case diagram.EdgeDangling:
		res.warn("edge %s: unresolved endpoint (%q -> %q) skipped", ea.EdgeID, ea.From, ea.To)
		return nil, nil
	case diagram.EdgeConnected:
	default:
		panic(fmt.Sprintf("unhandled edge status %v", ea.Status))
	}

	fanOut := analysis.OutgoingCount(ea.From)
	if fanOut < 1 {
		return nil, fmt.Errorf("%w: edge %s: source %s has no outgoing edges", ErrElementConversion, ea.EdgeID, ea.From)
	}
	conn := &model.Connector{
		ID:          ea.EdgeID,
		Name:        connectorName(g, ea),
		SourceID:    ea.From,
		TargetID:    ea.To,
		Probability: 1.0 / float64(fanOut),
		ConnectType: model.ConnectProbability,
	}
	def.Add(conn)
	record.Converted = true
	record.Probability = conn.Probability

	if gen, ok := def.Generators.Get(ea.From); ok && gen.ActivityKeyID == "" && def.Activities.Has(ea.To) {
		gen.ActivityKeyID = ea.To
	}
	return c.factory.Wrap(conn), nil
}

// assignEntityTypes gives every generator whose entity type does not name an
// entity of this model the first entity, or none when there are no entities.
func (c *Converter) assignEntityTypes(def *model.Definition) {
	first := ""
	if ids := def.Entities.IDs(); len(ids) > 0 {
		first = ids[0]
	}
	for _, gen := range def.Generators.All() {
		if !def.Entities.Has(gen.EntityType) {
			gen.EntityType = first
		}
	}
}

// teardown deletes the existing model held by def or by the repository. A
// repository holds a model when it has a model record; all of its records
// are then deleted.
func (c *Converter) teardown(def *model.Definition) error {
	records, err := c.repo.List()
	if err != nil {
		return fmt.Errorf("listing stored elements: %w", err)
	}
	stored := false
	for _, r := range records {
		if r.Kind == model.KindModel {
			stored = true
			break
		}
	}
	if def.IsEmpty() && !stored {
		return nil
	}

	ids := make(map[string]model.Kind)
	for _, e := range def.Elements() {
		ids[e.ElementID()] = e.Kind()
	}
	if stored {
		for _, r := range records {
			ids[r.ID] = r.Kind
		}
	}
	logrus.Warnf("Existing model with %d elements found; deleting it before conversion", len(ids))
	for id, kind := range ids {
		if err := c.repo.Delete(id); err != nil {
			return fmt.Errorf("deleting existing %s %s: %w", kind, id, err)
		}
	}
	def.Clear()
	return nil
}

// checkRequirementIDs rejects graphs where the requirement id derived for a
// resource node is already used by a node or edge.
func checkRequirementIDs(g *diagram.Graph, analysis *diagram.Analysis) error {
	used := make(map[string]bool, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		used[n.ID] = true
	}
	for _, e := range g.Edges {
		used[e.ID] = true
	}
	for _, n := range analysis.ByKind(model.KindResource) {
		if reqID := model.RequirementIDFor(n.NodeID); used[reqID] {
			return fmt.Errorf("%w: requirement id %q of resource %s is also a diagram id", diagram.ErrStructural, reqID, n.NodeID)
		}
	}
	return nil
}

func (c *Converter) modelName(g *diagram.Graph) string {
	switch {
	case c.cfg.ModelName != "":
		return c.cfg.ModelName
	case g.Name != "":
		return g.Name
	default:
		return "Model"
	}
}

func connectorName(g *diagram.Graph, ea diagram.EdgeAnalysis) string {
	for _, e := range g.Edges {
		if e.ID == ea.EdgeID && e.Label != "" {
			return e.Label
		}
	}
	return ea.From + " to " + ea.To
}

func (r *Result) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logrus.Warn(msg)
	r.Warnings = append(r.Warnings, msg)
}

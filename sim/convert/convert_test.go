package convert_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/simforge/sim/convert"
	"github.com/inference-sim/simforge/sim/diagram"
	"github.com/inference-sim/simforge/sim/internal/testutil"
	"github.com/inference-sim/simforge/sim/model"
	"github.com/inference-sim/simforge/sim/repository"
	"github.com/inference-sim/simforge/sim/shape"
	"github.com/inference-sim/simforge/sim/trace"
	"github.com/inference-sim/simforge/sim/validate"
)

func newConverter(repo repository.Repository, cfg convert.Config) *convert.Converter {
	return convert.NewConverter(shape.NewFactory(repo, model.DefaultDefaults()), repo, cfg)
}

func connectorBetween(def *model.Definition, from, to string) (*model.Connector, bool) {
	for _, c := range def.Connectors.All() {
		if c.SourceID == from && c.TargetID == to {
			return c, true
		}
	}
	return nil, false
}

func kindOf(def *model.Definition, id string) model.Kind {
	for _, e := range def.Elements() {
		if e.ElementID() == id && e.Kind() != model.KindConnector && e.Kind() != model.KindModel {
			return e.Kind()
		}
	}
	return model.KindUndefined
}

func TestConvert_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			repo := repository.NewMemoryRepository()
			def := model.NewDefinition()
			g := tc.Graph

			res, err := newConverter(repo, convert.Config{}).Convert(&g, def)
			require.NoError(t, err)
			require.True(t, res.Success)

			for id, want := range tc.Kinds {
				assert.Equal(t, want, kindOf(def, id).String(), "kind of %s", id)
			}
			for key, want := range tc.Probabilities {
				from, to, found := strings.Cut(key, "->")
				require.True(t, found, "malformed probability key %q", key)
				c, ok := connectorBetween(def, from, to)
				require.True(t, ok, "connector %s", key)
				testutil.AssertFloat64Equal(t, key, want, c.Probability, 1e-12)
			}
			assert.Equal(t, tc.Counts.Activities, res.ElementCount.Activities)
			assert.Equal(t, tc.Counts.Generators, res.ElementCount.Generators)
			assert.Equal(t, tc.Counts.Resources, res.ElementCount.Resources)
			assert.Equal(t, tc.Counts.Connectors, res.ElementCount.Connectors)

			vr := validate.Validate(def)
			assert.Equal(t, tc.Valid, vr.IsValid, "messages: %v", vr.Messages)
		})
	}
}

func TestConvert_Diamond_EndToEndValid(t *testing.T) {
	// GIVEN the diamond A→B, A→C, B→D, C→D
	repo := repository.NewMemoryRepository()
	def := model.NewDefinition()

	// WHEN converted and validated
	res, err := newConverter(repo, convert.Config{}).Convert(testutil.DiamondGraph(), def)
	require.NoError(t, err)
	vr := validate.Validate(def)

	// THEN A is the generator, the split is 0.5/0.5 and the model is valid
	assert.Equal(t, convert.ElementCount{Activities: 3, Generators: 1, Resources: 0, Connectors: 4}, res.ElementCount)
	assert.True(t, def.Generators.Has("A"))
	ab, _ := connectorBetween(def, "A", "B")
	ac, _ := connectorBetween(def, "A", "C")
	assert.Equal(t, 0.5, ab.Probability)
	assert.Equal(t, 0.5, ac.Probability)
	assert.True(t, vr.IsValid, "messages: %v", vr.Messages)
	assert.Equal(t, 0, vr.ErrorCount)

	gen, _ := def.Generators.Get("A")
	assert.Equal(t, "B", gen.ActivityKeyID, "activity key is the first outgoing target")
}

func TestConvert_FanOut_UniformProbabilities(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 100, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			def := model.NewDefinition()
			_, err := newConverter(repository.NewMemoryRepository(), convert.Config{}).Convert(testutil.FanOutGraph(n), def)
			require.NoError(t, err)

			require.Equal(t, n, def.Connectors.Len())
			sum := 0.0
			for _, c := range def.Connectors.All() {
				assert.Equal(t, "S", c.SourceID)
				assert.Equal(t, 1.0/float64(n), c.Probability)
				assert.Equal(t, model.ConnectProbability, c.ConnectType)
				sum += c.Probability
			}
			testutil.AssertFloat64Equal(t, "sum", 1.0, sum, 1e-4)
		})
	}
}

func TestConvert_SelfLoop_NeverCreatesConnector(t *testing.T) {
	g := &diagram.Graph{
		Nodes: []diagram.Node{{ID: "A"}, {ID: "B"}},
		Edges: []diagram.Edge{
			{ID: "e1", From: "A", To: "B"},
			{ID: "loop", From: "A", To: "A"},
		},
	}
	def := model.NewDefinition()

	res, err := newConverter(repository.NewMemoryRepository(), convert.Config{}).Convert(g, def)
	require.NoError(t, err)

	// THEN only e1 is converted and it carries the full probability
	assert.False(t, def.Connectors.Has("loop"))
	c, ok := def.Connectors.Get("e1")
	require.True(t, ok)
	assert.Equal(t, 1.0, c.Probability)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "self-loop")
}

func TestConvert_IsolatedShapes_FirstIsResource(t *testing.T) {
	def := model.NewDefinition()

	res, err := newConverter(repository.NewMemoryRepository(), convert.Config{}).Convert(testutil.IsolatedGraph(4), def)
	require.NoError(t, err)

	assert.Equal(t, []string{"N0"}, def.Resources.IDs())
	assert.Equal(t, []string{"N1", "N2", "N3"}, def.Activities.IDs())
	assert.Equal(t, []string{model.RequirementIDFor("N0")}, def.ResourceRequirements.IDs())
	assert.Equal(t, 1, res.ElementCount.Resources)
}

func TestConvert_EntityTypeAssignedFromFirstEntity(t *testing.T) {
	g := &diagram.Graph{
		Nodes: []diagram.Node{
			{ID: "gen"},
			{ID: "work"},
			{ID: "patient", Shape: diagram.ShapeEntity},
			{ID: "visitor", Shape: diagram.ShapeEntity},
		},
		Edges: []diagram.Edge{{ID: "e1", From: "gen", To: "work"}},
	}
	def := model.NewDefinition()

	_, err := newConverter(repository.NewMemoryRepository(), convert.Config{}).Convert(g, def)
	require.NoError(t, err)

	gen, ok := def.Generators.Get("gen")
	require.True(t, ok)
	assert.Equal(t, "patient", gen.EntityType)
	assert.Equal(t, "work", gen.ActivityKeyID)
}

func TestConvert_ModelElement(t *testing.T) {
	def := model.NewDefinition()
	g := testutil.DiamondGraph()

	// WHEN no model id is configured a UUID is generated
	res, err := newConverter(repository.NewMemoryRepository(), convert.Config{}).Convert(g, def)
	require.NoError(t, err)
	_, parseErr := uuid.Parse(res.ModelID)
	assert.NoError(t, parseErr)
	require.NotNil(t, def.Model)
	assert.Equal(t, res.ModelID, def.Model.ID)
	assert.Equal(t, "diamond", def.Model.Name)

	// WHEN a model id and name are configured they are used verbatim
	res, err = newConverter(repository.NewMemoryRepository(), convert.Config{ModelID: "m-1", ModelName: "Clinic"}).Convert(g, def)
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.ModelID)
	assert.Equal(t, "Clinic", def.Model.Name)
}

func TestConvert_Reconvert_TearsDownPreviousModel(t *testing.T) {
	// GIVEN a definition and repository holding the diamond model
	repo := repository.NewMemoryRepository()
	def := model.NewDefinition()
	c := newConverter(repo, convert.Config{ModelID: "m"})
	_, err := c.Convert(testutil.DiamondGraph(), def)
	require.NoError(t, err)
	_, ok, err := repo.Get("D")
	require.NoError(t, err)
	require.True(t, ok)

	// WHEN a different graph is converted into the same definition
	_, err = c.Convert(testutil.FanOutGraph(2), def)
	require.NoError(t, err)

	// THEN nothing of the diamond survives, in memory or in the repository
	assert.False(t, def.Activities.Has("D"))
	assert.False(t, def.Generators.Has("A"))
	assert.Equal(t, []string{"T0", "T1"}, def.Activities.IDs())
	_, ok, err = repo.Get("D")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = repo.Get("e3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConvert_StoredModel_FreshDefinition_RecomputesDerivedFields(t *testing.T) {
	// GIVEN a repository holding the model converted from G→A1 with entity P1
	repo := repository.NewMemoryRepository()
	first := &diagram.Graph{
		Nodes: []diagram.Node{{ID: "G"}, {ID: "A1"}, {ID: "P1", Shape: diagram.ShapeEntity}},
		Edges: []diagram.Edge{{ID: "e1", From: "G", To: "A1"}},
	}
	_, err := newConverter(repo, convert.Config{ModelID: "m1"}).Convert(first, model.NewDefinition())
	require.NoError(t, err)

	// WHEN G→A2 with entity P2 is converted into a fresh definition against the same repository
	second := &diagram.Graph{
		Nodes: []diagram.Node{{ID: "G"}, {ID: "A2"}, {ID: "P2", Shape: diagram.ShapeEntity}},
		Edges: []diagram.Edge{{ID: "e2", From: "G", To: "A2"}},
	}
	def := model.NewDefinition()
	_, err = newConverter(repo, convert.Config{ModelID: "m2"}).Convert(second, def)
	require.NoError(t, err)

	// THEN the generator points at the new graph and the old records are gone
	gen, ok := def.Generators.Get("G")
	require.True(t, ok)
	assert.Equal(t, "A2", gen.ActivityKeyID)
	assert.Equal(t, "P2", gen.EntityType)
	for _, id := range []string{"A1", "P1", "e1", "m1"} {
		_, ok, err := repo.Get(id)
		require.NoError(t, err)
		assert.False(t, ok, "stale record %s", id)
	}
	records, err := repo.List()
	require.NoError(t, err)
	models := 0
	for _, r := range records {
		if r.Kind == model.KindModel {
			models++
		}
	}
	assert.Equal(t, 1, models)
	assert.Len(t, records, len(def.Elements()))
	vr := validate.Validate(def)
	assert.True(t, vr.IsValid, "messages: %v", vr.Messages)
}

func TestConvert_RequirementIDClash_ReturnsStructuralError(t *testing.T) {
	// GIVEN isolated shapes where the second is named like the first's requirement
	g := &diagram.Graph{Nodes: []diagram.Node{{ID: "N0"}, {ID: model.RequirementIDFor("N0")}}}
	repo := repository.NewMemoryRepository()
	def := model.NewDefinition()

	// WHEN converted
	_, err := newConverter(repo, convert.Config{}).Convert(g, def)

	// THEN nothing is created or stored
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagram.ErrStructural))
	assert.True(t, def.IsEmpty())
	records, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestConvert_PersistsPayloadsForEveryElement(t *testing.T) {
	repo := repository.NewMemoryRepository()
	def := model.NewDefinition()

	_, err := newConverter(repo, convert.Config{ModelID: "m"}).Convert(testutil.DiamondGraph(), def)
	require.NoError(t, err)

	records, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, records, len(def.Elements()))
}

func TestConvert_StoredPayloadOverridesDefaults(t *testing.T) {
	// GIVEN a stored payload giving activity B capacity 4
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Set("B", repository.Payload{"capacity": 4}, model.KindActivity))
	def := model.NewDefinition()

	_, err := newConverter(repo, convert.Config{}).Convert(testutil.DiamondGraph(), def)
	require.NoError(t, err)

	b, ok := def.Activities.Get("B")
	require.True(t, ok)
	assert.Equal(t, 4, b.Capacity)
}

// failingFactory fails to create the element for one node id.
type failingFactory struct {
	shape.Factory
	failOn string
}

func (f failingFactory) Create(node diagram.Node, kind model.Kind) (shape.Shape, error) {
	if node.ID == f.failOn {
		return nil, errors.New("no such shape")
	}
	return f.Factory.Create(node, kind)
}

func TestConvert_NodeFailure_AbortsKeepingPartialModel(t *testing.T) {
	// GIVEN a factory that cannot create D
	repo := repository.NewMemoryRepository()
	factory := failingFactory{Factory: shape.NewFactory(repo, model.DefaultDefaults()), failOn: "D"}
	c := convert.NewConverter(factory, repo, convert.Config{})
	def := model.NewDefinition()

	// WHEN the diamond is converted
	res, err := c.Convert(testutil.DiamondGraph(), def)

	// THEN the call fails with ErrElementConversion, B and C stay registered
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, convert.ErrElementConversion))
	assert.Contains(t, err.Error(), "node D")
	assert.True(t, def.Activities.Has("B"))
	assert.True(t, def.Activities.Has("C"))
	assert.False(t, def.Activities.Has("D"))
	assert.Equal(t, 0, def.Connectors.Len(), "edges are processed after nodes")
}

func TestConvert_InvalidGraph_ReturnsStructuralError(t *testing.T) {
	g := &diagram.Graph{Nodes: []diagram.Node{{ID: "A"}, {ID: "A"}}}

	_, err := newConverter(repository.NewMemoryRepository(), convert.Config{}).Convert(g, model.NewDefinition())

	assert.True(t, errors.Is(err, diagram.ErrStructural))
}

func TestConvert_InvalidConfig_ReturnsError(t *testing.T) {
	cfg := convert.Config{Trace: trace.TraceConfig{Level: "verbose"}}

	_, err := newConverter(repository.NewMemoryRepository(), cfg).Convert(testutil.DiamondGraph(), model.NewDefinition())

	assert.Error(t, err)
}

func TestConvert_TraceEnabled_RecordsDecisions(t *testing.T) {
	g := testutil.DiamondGraph()
	g.Edges = append(g.Edges, diagram.Edge{ID: "loop", From: "D", To: "D"})
	cfg := convert.Config{Trace: trace.TraceConfig{Level: trace.TraceLevelDecisions}}

	res, err := newConverter(repository.NewMemoryRepository(), cfg).Convert(g, model.NewDefinition())
	require.NoError(t, err)
	require.NotNil(t, res.Trace)

	assert.Len(t, res.Trace.Classifications, 4)
	require.Len(t, res.Trace.Edges, 5)
	summary := trace.Summarize(res.Trace)
	assert.Equal(t, 4, summary.ConvertedEdges)
	assert.Equal(t, 1, summary.SkippedEdges)
	assert.Equal(t, 2, summary.MaxFanOut)
}

func TestConvert_TraceDisabled_NoTrace(t *testing.T) {
	res, err := newConverter(repository.NewMemoryRepository(), convert.Config{}).Convert(testutil.DiamondGraph(), model.NewDefinition())
	require.NoError(t, err)
	assert.Nil(t, res.Trace)
}

func TestConvert_SameGraphTwice_Deterministic(t *testing.T) {
	cfg := convert.Config{ModelID: "fixed"}
	first := model.NewDefinition()
	second := model.NewDefinition()

	_, err := newConverter(repository.NewMemoryRepository(), cfg).Convert(testutil.FanOutGraph(5), first)
	require.NoError(t, err)
	_, err = newConverter(repository.NewMemoryRepository(), cfg).Convert(testutil.FanOutGraph(5), second)
	require.NoError(t, err)

	assert.Equal(t, first.Document(), second.Document())
}

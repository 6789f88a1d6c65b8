// Package testutil provides shared test infrastructure for simforge.
// It consolidates the golden conversion dataset, graph builders and assertion
// helpers used across the sim/ test packages.
package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/simforge/sim/diagram"
)

// GoldenDataset represents the structure of testdata/goldendataset.yaml.
type GoldenDataset struct {
	Tests []GoldenTestCase `yaml:"tests"`
}

// GoldenTestCase is one diagram with its expected conversion outcome.
type GoldenTestCase struct {
	Name  string        `yaml:"name"`
	Graph diagram.Graph `yaml:"graph"`
	// Kinds maps node id to the expected kind name.
	Kinds map[string]string `yaml:"kinds"`
	// Probabilities maps "from->to" to the expected connector probability.
	Probabilities map[string]float64 `yaml:"probabilities"`
	Counts        GoldenCounts       `yaml:"counts"`
	Valid         bool               `yaml:"valid"`
}

// GoldenCounts is the expected ConversionResult element count.
type GoldenCounts struct {
	Activities int `yaml:"activities"`
	Generators int `yaml:"generators"`
	Resources  int `yaml:"resources"`
	Connectors int `yaml:"connectors"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// DiamondGraph returns A→B, A→C, B→D, C→D.
func DiamondGraph() *diagram.Graph {
	return &diagram.Graph{
		Name: "diamond",
		Nodes: []diagram.Node{
			{ID: "A", Shape: diagram.ShapeProcess},
			{ID: "B", Shape: diagram.ShapeProcess},
			{ID: "C", Shape: diagram.ShapeProcess},
			{ID: "D", Shape: diagram.ShapeProcess},
		},
		Edges: []diagram.Edge{
			{ID: "e1", From: "A", To: "B"},
			{ID: "e2", From: "A", To: "C"},
			{ID: "e3", From: "B", To: "D"},
			{ID: "e4", From: "C", To: "D"},
		},
	}
}

// FanOutGraph returns a source node S with n outgoing edges to T0..Tn-1.
func FanOutGraph(n int) *diagram.Graph {
	g := &diagram.Graph{Name: fmt.Sprintf("fan-out-%d", n)}
	g.Nodes = append(g.Nodes, diagram.Node{ID: "S"})
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("T%d", i)
		g.Nodes = append(g.Nodes, diagram.Node{ID: id})
		g.Edges = append(g.Edges, diagram.Edge{ID: fmt.Sprintf("e%d", i), From: "S", To: id})
	}
	return g
}

// IsolatedGraph returns n nodes with no edges, ids N0..Nn-1.
func IsolatedGraph(n int) *diagram.Graph {
	g := &diagram.Graph{Name: fmt.Sprintf("isolated-%d", n)}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, diagram.Node{ID: fmt.Sprintf("N%d", i)})
	}
	return g
}

// AssertFloat64Equal compares two float64 values with absolute tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if math.Abs(want-got) > absTol {
		t.Errorf("%s: got %v, want %v (diff=%v)", name, got, want, math.Abs(want-got))
	}
}

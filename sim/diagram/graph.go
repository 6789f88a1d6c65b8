// Package diagram holds the raw diagram graph (shapes and connecting lines)
// and the analyzer that infers a simulation element kind for every shape
// from its connectivity and shape class.
//
// This package stores and inspects the graph only; it never builds model
// elements.
package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	// ErrUnknownShapeClass indicates a shape class tag outside the known set.
	ErrUnknownShapeClass = errors.New("unknown shape class")

	// ErrStructural indicates a graph that cannot be analyzed: empty or duplicate ids.
	ErrStructural = errors.New("structural error")
)

// Graph is a diagram page: shapes and the lines connecting them.
// Node order is significant: the analyzer iterates nodes in slice order.
type Graph struct {
	Name  string `yaml:"name,omitempty"`
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges,omitempty"`
}

// Node is a diagram shape.
type Node struct {
	ID      string                 `yaml:"id"`
	Shape   ShapeClass             `yaml:"shape,omitempty"`
	Label   string                 `yaml:"label,omitempty"`
	Payload map[string]interface{} `yaml:"payload,omitempty"` // stored custom attributes, if any
}

// Edge is a diagram line. An empty endpoint is unresolved (not glued to a shape).
type Edge struct {
	ID    string `yaml:"id"`
	From  string `yaml:"from,omitempty"`
	To    string `yaml:"to,omitempty"`
	Label string `yaml:"label,omitempty"`
}

// IsSelfLoop reports whether both endpoints are resolved to the same node.
func (e Edge) IsSelfLoop() bool {
	return e.From != "" && e.From == e.To
}

// UnmarshalYAML parses a shape class tag. Unrecognized tags decode to
// ShapeUnknown so that diagrams drawn with other stencils still load.
func (s *ShapeClass) UnmarshalYAML(node *yaml.Node) error {
	var tag string
	if err := node.Decode(&tag); err != nil {
		return fmt.Errorf("line %d: shape must be a string: %w", node.Line, err)
	}
	parsed, err := ParseShapeClass(tag)
	if err != nil {
		logrus.Debugf("line %d: %v; treating as %s", node.Line, err, ShapeUnknown)
	}
	*s = parsed
	return nil
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Validate checks that node and edge ids are present and unique across the page.
// Dangling and self-referencing edges are not errors; the analyzer reports them.
func (g *Graph) Validate() error {
	nodeIDs := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node[%d] has empty id", ErrStructural, i)
		}
		if nodeIDs[n.ID] {
			return fmt.Errorf("%w: duplicate node id %q", ErrStructural, n.ID)
		}
		nodeIDs[n.ID] = true
	}
	edgeIDs := make(map[string]bool, len(g.Edges))
	for i, e := range g.Edges {
		if e.ID == "" {
			return fmt.Errorf("%w: edge[%d] has empty id", ErrStructural, i)
		}
		if edgeIDs[e.ID] {
			return fmt.Errorf("%w: duplicate edge id %q", ErrStructural, e.ID)
		}
		if nodeIDs[e.ID] {
			return fmt.Errorf("%w: edge id %q is also a node id", ErrStructural, e.ID)
		}
		edgeIDs[e.ID] = true
	}
	return nil
}

// LoadGraph reads a diagram graph from a YAML or JSON file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading diagram graph: %w", err)
	}
	g, err := ParseGraph(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ParseGraph decodes a YAML (or JSON) diagram graph and validates its ids.
func ParseGraph(data []byte) (*Graph, error) {
	var g Graph
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&g); err != nil {
		return nil, fmt.Errorf("parsing diagram graph: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

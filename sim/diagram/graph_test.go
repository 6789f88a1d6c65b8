package diagram

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGraph_ValidYAML_LoadsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	doc := `
name: packing line
nodes:
  - id: s1
    shape: Terminator
    label: Orders
  - id: s2
    shape: process
    payload:
      capacity: 2
  - id: s3
    shape: hexagon
edges:
  - id: l1
    from: s1
    to: s2
  - id: l2
    from: s2
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	g, err := LoadGraph(path)
	require.NoError(t, err)

	assert.Equal(t, "packing line", g.Name)
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, []string{"s1", "s2", "s3"}, []string{g.Nodes[0].ID, g.Nodes[1].ID, g.Nodes[2].ID})
	assert.Equal(t, ShapeTerminator, g.Nodes[0].Shape, "tags match case-insensitively")
	assert.Equal(t, ShapeUnknown, g.Nodes[2].Shape, "unknown tags load as unknown")
	assert.Equal(t, 2, g.Nodes[1].Payload["capacity"])
	assert.Equal(t, "", g.Edges[1].To)
}

func TestLoadGraph_JSON_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	doc := `{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"id": "e", "from": "a", "to": "b"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	g, err := LoadGraph(path)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
}

func TestLoadGraph_UnknownKey_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - id: a\n    shpae: process\n"), 0644))

	_, err := LoadGraph(path)
	assert.Error(t, err)
}

func TestParseGraph_DuplicateNodeID_ReturnsStructuralError(t *testing.T) {
	_, err := ParseGraph([]byte("nodes:\n  - id: a\n  - id: a\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructural))
}

func TestParseGraph_EmptyEdgeID_ReturnsStructuralError(t *testing.T) {
	_, err := ParseGraph([]byte("nodes:\n  - id: a\nedges:\n  - from: a\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructural))
}

func TestParseShapeClass_Unknown_WrapsSentinel(t *testing.T) {
	_, err := ParseShapeClass("cloud")
	assert.True(t, errors.Is(err, ErrUnknownShapeClass))

	s, err := ParseShapeClass("")
	require.NoError(t, err)
	assert.Equal(t, ShapeUnknown, s)
}

func TestEdge_IsSelfLoop(t *testing.T) {
	assert.True(t, Edge{From: "a", To: "a"}.IsSelfLoop())
	assert.False(t, Edge{From: "a", To: "b"}.IsSelfLoop())
	assert.False(t, Edge{}.IsSelfLoop())
}

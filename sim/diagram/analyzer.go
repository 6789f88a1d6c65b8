package diagram

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/simforge/sim/model"
)

// EdgeStatus classifies an edge for conversion.
type EdgeStatus int

const (
	// EdgeConnected has two distinct resolved endpoints and becomes a connector.
	EdgeConnected EdgeStatus = iota
	// EdgeSelfLoop starts and ends on the same node; it is never converted.
	EdgeSelfLoop
	// EdgeDangling has an endpoint that is empty or names no node.
	EdgeDangling
)

func (s EdgeStatus) String() string {
	switch s {
	case EdgeConnected:
		return "connected"
	case EdgeSelfLoop:
		return "self-loop"
	case EdgeDangling:
		return "dangling"
	default:
		return fmt.Sprintf("edge-status(%d)", int(s))
	}
}

// NodeAnalysis is the analyzer's verdict for one node.
type NodeAnalysis struct {
	NodeID   string
	Shape    ShapeClass
	Incoming int
	Outgoing int
	// Inferred is the kind implied by connectivity alone.
	Inferred model.Kind
	// Kind is the final kind after the shape-class override.
	Kind model.Kind
}

// Overridden reports whether the shape class changed the connectivity verdict.
func (n NodeAnalysis) Overridden() bool {
	return n.Inferred != n.Kind
}

// EdgeAnalysis records how an edge was treated.
type EdgeAnalysis struct {
	EdgeID string
	From   string
	To     string
	Status EdgeStatus
}

// Analysis is the result of Analyze. Nodes and Edges keep input order.
type Analysis struct {
	Nodes []NodeAnalysis
	Edges []EdgeAnalysis
	index map[string]int
}

// Analyze infers a kind for every node of g from its connectivity pattern
// and shape class. It is a pure function of g: the same graph always yields
// the same analysis.
//
// Classification precedence per node: no incoming and some outgoing edges is
// a Generator; any incoming edge is an Activity; a node with neither is
// ambiguous. The first ambiguous node in g.Nodes order becomes the Resource
// and every later one an Activity. Finally the shape-class override table is
// applied, which may change the kind but never the counts.
func Analyze(g *Graph) *Analysis {
	a := &Analysis{
		Nodes: make([]NodeAnalysis, len(g.Nodes)),
		Edges: make([]EdgeAnalysis, 0, len(g.Edges)),
		index: make(map[string]int, len(g.Nodes)),
	}
	for i, n := range g.Nodes {
		a.Nodes[i] = NodeAnalysis{NodeID: n.ID, Shape: n.Shape}
		if _, dup := a.index[n.ID]; !dup {
			a.index[n.ID] = i
		}
	}

	for _, e := range g.Edges {
		ea := EdgeAnalysis{EdgeID: e.ID, From: e.From, To: e.To}
		src, srcOK := a.index[e.From]
		dst, dstOK := a.index[e.To]
		switch {
		case !srcOK || !dstOK:
			ea.Status = EdgeDangling
		case e.IsSelfLoop():
			ea.Status = EdgeSelfLoop
		default:
			ea.Status = EdgeConnected
			a.Nodes[src].Outgoing++
			a.Nodes[dst].Incoming++
		}
		a.Edges = append(a.Edges, ea)
	}

	resourceAssigned := false
	for i := range a.Nodes {
		n := &a.Nodes[i]
		switch {
		case n.Incoming == 0 && n.Outgoing > 0:
			n.Inferred = model.KindGenerator
		case n.Incoming > 0:
			n.Inferred = model.KindActivity
		case !resourceAssigned:
			n.Inferred = model.KindResource
			resourceAssigned = true
		default:
			n.Inferred = model.KindActivity
		}
		n.Kind = n.Inferred
	}

	for i := range a.Nodes {
		n := &a.Nodes[i]
		if forced, ok := n.Shape.ForcedKind(); ok {
			n.Kind = forced
		}
		logrus.Debugf("node %s: in=%d out=%d shape=%s inferred=%s kind=%s",
			n.NodeID, n.Incoming, n.Outgoing, n.Shape, n.Inferred, n.Kind)
	}
	return a
}

// Node returns the analysis for the node with the given id.
func (a *Analysis) Node(id string) (NodeAnalysis, bool) {
	i, ok := a.index[id]
	if !ok {
		return NodeAnalysis{}, false
	}
	return a.Nodes[i], true
}

// KindOf returns the final kind of a node, or KindUndefined if unknown.
func (a *Analysis) KindOf(id string) model.Kind {
	n, ok := a.Node(id)
	if !ok {
		return model.KindUndefined
	}
	return n.Kind
}

// OutgoingCount returns the number of connected outgoing edges of a node.
func (a *Analysis) OutgoingCount(id string) int {
	n, _ := a.Node(id)
	return n.Outgoing
}

// ByKind returns the nodes with the given final kind, in input order.
func (a *Analysis) ByKind(kind model.Kind) []NodeAnalysis {
	var out []NodeAnalysis
	for _, n := range a.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// EdgesWithStatus returns the edges with the given status, in input order.
func (a *Analysis) EdgesWithStatus(status EdgeStatus) []EdgeAnalysis {
	var out []EdgeAnalysis
	for _, e := range a.Edges {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// CountByKind returns how many nodes have each final kind.
func (a *Analysis) CountByKind() map[model.Kind]int {
	counts := make(map[model.Kind]int)
	for _, n := range a.Nodes {
		counts[n.Kind]++
	}
	return counts
}

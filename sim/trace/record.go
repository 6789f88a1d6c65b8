// Package trace provides decision-trace recording for diagram conversion.
// This package has no dependencies on other sim/ packages; it stores pure data types.
package trace

// ClassificationRecord captures how one diagram node was classified.
type ClassificationRecord struct {
	NodeID     string
	Shape      string
	Incoming   int
	Outgoing   int
	Inferred   string // kind implied by connectivity
	Kind       string // kind after the shape-class override
	Overridden bool
}

// EdgeRecord captures what happened to one diagram edge.
type EdgeRecord struct {
	EdgeID      string
	From        string
	To          string
	Status      string  // connected, self-loop, dangling
	Converted   bool    // true if a connector was registered
	Probability float64 // 0 unless Converted
}

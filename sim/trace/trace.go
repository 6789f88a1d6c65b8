package trace

// TraceLevel controls the verbosity of conversion tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every node classification and edge decision.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// ConversionTrace collects decision records during one diagram conversion.
type ConversionTrace struct {
	Config          TraceConfig
	Classifications []ClassificationRecord
	Edges           []EdgeRecord
}

// NewConversionTrace creates a ConversionTrace ready for recording.
func NewConversionTrace(config TraceConfig) *ConversionTrace {
	return &ConversionTrace{
		Config:          config,
		Classifications: make([]ClassificationRecord, 0),
		Edges:           make([]EdgeRecord, 0),
	}
}

// RecordClassification appends a node classification record.
func (ct *ConversionTrace) RecordClassification(record ClassificationRecord) {
	ct.Classifications = append(ct.Classifications, record)
}

// RecordEdge appends an edge decision record.
func (ct *ConversionTrace) RecordEdge(record EdgeRecord) {
	ct.Edges = append(ct.Edges, record)
}

package trace

// TraceSummary aggregates statistics from a ConversionTrace.
type TraceSummary struct {
	TotalNodes       int            `yaml:"total_nodes"`
	OverriddenCount  int            `yaml:"overridden_count"`
	KindDistribution map[string]int `yaml:"kind_distribution"` // final kind → node count
	ConvertedEdges   int            `yaml:"converted_edges"`
	SkippedEdges     int            `yaml:"skipped_edges"`
	SkipReasons      map[string]int `yaml:"skip_reasons,omitempty"` // edge status → count of skipped edges
	MaxFanOut        int            `yaml:"max_fan_out"`            // largest outgoing count of any node
}

// Summarize computes aggregate statistics from a ConversionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ct *ConversionTrace) *TraceSummary {
	summary := &TraceSummary{
		KindDistribution: make(map[string]int),
		SkipReasons:      make(map[string]int),
	}
	if ct == nil {
		return summary
	}

	summary.TotalNodes = len(ct.Classifications)
	for _, c := range ct.Classifications {
		summary.KindDistribution[c.Kind]++
		if c.Overridden {
			summary.OverriddenCount++
		}
		if c.Outgoing > summary.MaxFanOut {
			summary.MaxFanOut = c.Outgoing
		}
	}

	for _, e := range ct.Edges {
		if e.Converted {
			summary.ConvertedEdges++
			continue
		}
		summary.SkippedEdges++
		summary.SkipReasons[e.Status]++
	}
	return summary
}

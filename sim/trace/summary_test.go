package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalNodes != 0 || summary.ConvertedEdges != 0 || summary.SkippedEdges != 0 {
		t.Error("expected zero counts for nil trace")
	}
	if summary.KindDistribution == nil || summary.SkipReasons == nil {
		t.Error("expected initialized maps")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed classification and edge records
	ct := NewConversionTrace(TraceConfig{Level: TraceLevelDecisions})
	ct.RecordClassification(ClassificationRecord{NodeID: "a", Outgoing: 2, Inferred: "generator", Kind: "generator"})
	ct.RecordClassification(ClassificationRecord{NodeID: "b", Incoming: 1, Inferred: "activity", Kind: "activity"})
	ct.RecordClassification(ClassificationRecord{NodeID: "c", Incoming: 1, Inferred: "activity", Kind: "generator", Overridden: true})
	ct.RecordEdge(EdgeRecord{EdgeID: "e1", Status: "connected", Converted: true, Probability: 0.5})
	ct.RecordEdge(EdgeRecord{EdgeID: "e2", Status: "connected", Converted: true, Probability: 0.5})
	ct.RecordEdge(EdgeRecord{EdgeID: "e3", Status: "self-loop"})
	ct.RecordEdge(EdgeRecord{EdgeID: "e4", Status: "dangling"})
	ct.RecordEdge(EdgeRecord{EdgeID: "e5", Status: "dangling"})

	// WHEN summarized
	summary := Summarize(ct)

	// THEN counts match
	if summary.TotalNodes != 3 {
		t.Errorf("expected 3 nodes, got %d", summary.TotalNodes)
	}
	if summary.OverriddenCount != 1 {
		t.Errorf("expected 1 override, got %d", summary.OverriddenCount)
	}
	if summary.KindDistribution["generator"] != 2 || summary.KindDistribution["activity"] != 1 {
		t.Errorf("unexpected kind distribution %v", summary.KindDistribution)
	}
	if summary.ConvertedEdges != 2 {
		t.Errorf("expected 2 converted edges, got %d", summary.ConvertedEdges)
	}
	if summary.SkippedEdges != 3 {
		t.Errorf("expected 3 skipped edges, got %d", summary.SkippedEdges)
	}
	if summary.SkipReasons["dangling"] != 2 || summary.SkipReasons["self-loop"] != 1 {
		t.Errorf("unexpected skip reasons %v", summary.SkipReasons)
	}
	if summary.MaxFanOut != 2 {
		t.Errorf("expected max fan-out 2, got %d", summary.MaxFanOut)
	}
}

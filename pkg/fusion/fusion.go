// Package fusion implements the RAG Fusion Analyzer (spec §4.5): it turns a
// natural-language query into structured guidance about which analysis path
// and which tool the orchestrator should favor.
package fusion

// AnalysisType is the dispatch label the orchestrator switches on.
type AnalysisType string

const (
	DeviceListing   AnalysisType = "device_listing"
	DeviceDetails   AnalysisType = "device_details"
	ComplexAnalysis AnalysisType = "complex_analysis"
	GeneralSearch   AnalysisType = "general_search"
)

// Confidence is the analyzer's self-reported confidence in its Guidance.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Tool names the candidate tool the analyzer leans towards, independent of
// AnalysisType (the orchestrator still decides dispatch from AnalysisType;
// Tool is advisory, surfaced in the response's reasoning).
type Tool string

const (
	ToolList    Tool = "list_network_devices"
	ToolDetail  Tool = "get_device_details"
	ToolComplex Tool = "network_query"
)

// Guidance is the analyzer's output: spec §3 "Guidance".
type Guidance struct {
	AnalysisType AnalysisType
	Confidence   Confidence
	Tool         Tool
	Reasoning    string
	Terms        []string
	CitedDocIDs  []string
}

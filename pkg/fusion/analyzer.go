package fusion

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/document"
)

const (
	perRephrasingLimit = 3
	highConfidenceMargin = 3
)

// rephrasingTemplates are the four pure, language-neutral rephrasings of a
// query (spec §4.5 step 1): tool-selection, procedural, protocol-specific,
// domain-specific.
var rephrasingTemplates = []func(query string) string{
	func(q string) string { return fmt.Sprintf("which tool best answers: %s", q) },
	func(q string) string { return fmt.Sprintf("how do I %s", q) },
	func(q string) string { return fmt.Sprintf("protocol and configuration details for %s", q) },
	func(q string) string { return fmt.Sprintf("network engineering context: %s", q) },
}

var devicePattern = regexp.MustCompile(`(?i)\bOLT\d+[A-Z]{3,4}\d+\b|\bLPL\d+[A-Z0-9]+\b`)

var regionMarkers = []string{"hobo", "gent", "roes", "asse"}

// cue is one deterministic pattern-based signal contributing to both the
// tool tally and the analysis-type tally, at independently tunable weights.
type cue struct {
	match          func(lowered string) bool
	tool           Tool
	toolWeight     int
	analysisType   AnalysisType
	analysisWeight int
}

func containsAny(lowered string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}

var cues = []cue{
	{
		match:          func(l string) bool { return containsAny(l, "how many") },
		tool:           ToolList, toolWeight: 3,
		analysisType: DeviceListing, analysisWeight: 3,
	},
	{
		match:          func(l string) bool { return containsAny(l, "list", "all ") },
		tool:           ToolList, toolWeight: 2,
		analysisType: DeviceListing, analysisWeight: 2,
	},
	{
		match:          func(l string) bool { return containsAny(l, regionMarkers...) },
		tool:           ToolList, toolWeight: 1,
		analysisType: DeviceListing, analysisWeight: 1,
	},
	{
		match:          func(l string) bool { return devicePattern.MatchString(l) },
		tool:           ToolDetail, toolWeight: 3,
		analysisType: DeviceDetails, analysisWeight: 3,
	},
	{
		match:          func(l string) bool { return containsAny(l, "show me", "configuration") },
		tool:           ToolDetail, toolWeight: 1,
		analysisType: DeviceDetails, analysisWeight: 1,
	},
	{
		match:          func(l string) bool { return containsAny(l, "impact", "what happens if", "fails") },
		tool:           ToolComplex, toolWeight: 3,
		analysisType: ComplexAnalysis, analysisWeight: 2,
	},
	{
		match:          func(l string) bool { return containsAny(l, "depends on", "path from") },
		tool:           ToolComplex, toolWeight: 2,
		analysisType: ComplexAnalysis, analysisWeight: 2,
	},
}

// candidateTools is the fixed set of tool names whose mentions in retrieved
// documents contribute to the tool tally (spec §4.5 step 4), at half the
// weight of a query-derived cue.
var candidateTools = map[Tool]string{
	ToolList:    "list_network_devices",
	ToolDetail:  "get_device_details",
	ToolComplex: "network_query",
}

const documentMentionWeight = 1 // half of a weight-2 query cue

// Analyzer implements the RAG Fusion Analyzer.
type Analyzer struct {
	docs document.Store
}

// NewAnalyzer constructs an Analyzer over the given document store.
func NewAnalyzer(docs document.Store) *Analyzer {
	return &Analyzer{docs: docs}
}

// Analyze turns query into a Guidance record. It is pure aside from the
// document-store reads it performs. A canceled context is propagated as an
// error (spec §5: "a canceled call returns a distinguished cancellation
// error, never a partial answer"); any other retrieval failure degrades to
// the general_search LOW-confidence fallback rather than erroring.
func (a *Analyzer) Analyze(ctx context.Context, query string) (*Guidance, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Canceled, "fusion", "analyze canceled", err)
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &Guidance{
			AnalysisType: GeneralSearch,
			Confidence:   ConfidenceLow,
			Reasoning:    "empty query: no signal to analyze",
		}, nil
	}

	hits, retrievalsFailed := a.retrieve(ctx, trimmed)
	if retrievalsFailed {
		return &Guidance{
			AnalysisType: GeneralSearch,
			Confidence:   ConfidenceLow,
			Reasoning:    "document retrieval failed for every rephrasing; operating in degraded mode",
		}, nil
	}

	lowered := strings.ToLower(trimmed)
	toolTally := map[Tool]int{}
	analysisTally := map[AnalysisType]int{}
	var firedCue bool

	for _, c := range cues {
		if c.match(lowered) {
			toolTally[c.tool] += c.toolWeight
			analysisTally[c.analysisType] += c.analysisWeight
			firedCue = true
		}
	}

	for tool, name := range candidateTools {
		mentions := 0
		for _, h := range hits {
			mentions += strings.Count(strings.ToLower(h.Document.Title), name) +
				strings.Count(strings.ToLower(h.Document.Body), name)
		}
		if mentions > 0 {
			toolTally[tool] += mentions * documentMentionWeight
		}
	}

	bestTool, toolMargin := argmaxTool(toolTally)
	bestAnalysis, analysisMargin := argmaxAnalysis(analysisTally)

	if !firedCue {
		return &Guidance{
			AnalysisType: GeneralSearch,
			Confidence:   ConfidenceLow,
			Reasoning:    "no query cue or document signal matched; falling back to general search",
			CitedDocIDs:  citedIDs(hits),
		}, nil
	}

	confidence := ConfidenceLow
	switch {
	case analysisMargin >= highConfidenceMargin && len(hits) > 0:
		confidence = ConfidenceHigh
	case analysisMargin >= 1 || (len(hits) == 0 && firedCue):
		confidence = ConfidenceMedium
	}

	return &Guidance{
		AnalysisType: bestAnalysis,
		Confidence:   confidence,
		Tool:         bestTool,
		Reasoning:    reasoningFor(bestAnalysis, bestTool, toolMargin, analysisMargin, len(hits)),
		Terms:        extractTerms(lowered),
		CitedDocIDs:  citedIDs(hits),
	}, nil
}

// retrieve issues all four rephrasings against the document store, unions
// the results deduplicated by document id keeping the best business value
// per id, and reports whether every rephrasing failed.
func (a *Analyzer) retrieve(ctx context.Context, query string) ([]document.Hit, bool) {
	byID := make(map[string]document.Hit)
	var failures int

	for _, tmpl := range rephrasingTemplates {
		hits, err := a.docs.Search(ctx, tmpl(query), perRephrasingLimit, true)
		if err != nil {
			failures++
			continue
		}
		for _, h := range hits {
			existing, ok := byID[h.Document.ID]
			if !ok || h.BusinessValue > existing.BusinessValue {
				byID[h.Document.ID] = h
			}
		}
	}

	if failures == len(rephrasingTemplates) {
		return nil, true
	}

	out := make([]document.Hit, 0, len(byID))
	for _, h := range byID {
		out = append(out, h)
	}
	return out, false
}

func argmaxTool(tally map[Tool]int) (Tool, int) {
	order := []Tool{ToolList, ToolDetail, ToolComplex}
	var best Tool
	bestScore, second := -1, 0
	for _, t := range order {
		score := tally[t]
		if score > bestScore {
			second = bestScore
			bestScore = score
			best = t
		} else if score > second {
			second = score
		}
	}
	if second < 0 {
		second = 0
	}
	return best, bestScore - second
}

func argmaxAnalysis(tally map[AnalysisType]int) (AnalysisType, int) {
	order := []AnalysisType{DeviceListing, DeviceDetails, ComplexAnalysis}
	var best AnalysisType
	bestScore, second := -1, 0
	for _, t := range order {
		score := tally[t]
		if score > bestScore {
			second = bestScore
			bestScore = score
			best = t
		} else if score > second {
			second = score
		}
	}
	if second < 0 {
		second = 0
	}
	return best, bestScore - second
}

func citedIDs(hits []document.Hit) []string {
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.Document.ID)
	}
	return ids
}

func extractTerms(lowered string) []string {
	fields := strings.Fields(lowered)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

func reasoningFor(analysis AnalysisType, tool Tool, toolMargin, analysisMargin, citations int) string {
	return fmt.Sprintf("selected %s (margin %d) with tool hint %s (margin %d) from %d cited document(s)",
		analysis, analysisMargin, tool, toolMargin, citations)
}

package health

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/embedding"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"
)

const (
	baseScore       = 100
	healthyFloor    = 80
	criticalCeiling = 50
	ruleSearchLimit = 5
)

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Engine matches device records to their best health rule by vector
// similarity and scores them against it (spec §4.7).
type Engine struct {
	rules    map[string]*Rule
	byKind   map[string][]*Rule
	embedder embedding.Embedder
}

// NewEngine builds an Engine over rules, keyed by rule ID and target kind.
func NewEngine(embedder embedding.Embedder, rules []*Rule) *Engine {
	e := &Engine{
		rules:    make(map[string]*Rule, len(rules)),
		byKind:   make(map[string][]*Rule),
		embedder: embedder,
	}
	for _, r := range rules {
		e.rules[r.ID] = r
		e.byKind[r.TargetKind] = append(e.byKind[r.TargetKind], r)
	}
	return e
}

// IndexRules embeds and upserts every rule's descriptive text into store,
// so Evaluate can later retrieve the best-matching rule by vector search.
// It is idempotent: re-indexing overwrites the prior vector for each rule.
func (e *Engine) IndexRules(ctx context.Context, store vectorstore.Store) error {
	for _, rule := range e.rules {
		text := ruleSearchText(rule)
		vector, err := e.embedder.Embed(ctx, text)
		if err != nil {
			return errs.Wrap(errs.UpstreamUnavailable, "health", "failed to embed rule "+rule.ID, err)
		}
		record := &vectorstore.Record{
			DocumentID: rule.ID,
			Vector:     vector,
			Kind:       rule.TargetKind,
			Keywords:   rule.Keywords,
		}
		if err := store.Upsert(ctx, rule.ID, record); err != nil {
			return errs.Wrap(errs.UpstreamUnavailable, "health", "failed to index rule "+rule.ID, err)
		}
	}
	return nil
}

func ruleSearchText(rule *Rule) string {
	return fmt.Sprintf("health analysis %s monitoring diagnostics %s", rule.TargetKind, strings.Join(rule.Keywords, " "))
}

// Evaluate scores record against its best-matching rule. Evaluation
// failures (no rule registered for the kind, embedding or vector store
// errors, no indexed rule for the kind) never
// surface as an error: they produce an UNKNOWN, score-0 Result carrying a
// human-readable Note, so a batch of device evaluations keeps moving (§7).
// A canceled context is the one failure mode that does propagate as an
// error, since it means the caller no longer wants the result at all.
func (e *Engine) Evaluate(ctx context.Context, record *device.Record, store vectorstore.Store) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Canceled, "health", "evaluation canceled", err)
	}

	kind := record.SchemaName
	candidates := e.byKind[kind]
	if len(candidates) == 0 {
		return unknownResult("no health rule registered for kind " + kind), nil
	}

	query := fmt.Sprintf("health analysis %s monitoring diagnostics", kind)
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return unknownResult("embedding failed: " + err.Error()), nil
	}

	// A minimum similarity of -1 admits every indexed rule of this kind, so
	// the most similar one is chosen even when its cosine is negative.
	matches, err := store.Search(ctx, vector, ruleSearchLimit, -1, &vectorstore.Filter{Kinds: []string{kind}})
	if err != nil {
		return unknownResult("rule search failed: " + err.Error()), nil
	}

	rule := e.selectBestRule(matches)
	if rule == nil {
		return unknownResult("no indexed rule matched kind " + kind), nil
	}

	return e.score(rule, record), nil
}

// selectBestRule picks the highest-similarity match whose rule is known to
// the engine, breaking ties by higher rule version, then by lexicographically
// smaller rule ID.
func (e *Engine) selectBestRule(matches []vectorstore.Match) *Rule {
	type candidate struct {
		rule       *Rule
		similarity float64
	}
	var candidates []candidate
	for _, m := range matches {
		rule, ok := e.rules[m.DocumentID]
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{rule: rule, similarity: m.Similarity})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.similarity != b.similarity {
			return a.similarity > b.similarity
		}
		if a.rule.Version != b.rule.Version {
			return a.rule.Version > b.rule.Version
		}
		return a.rule.ID < b.rule.ID
	})
	return candidates[0].rule
}

func (e *Engine) score(rule *Rule, record *device.Record) *Result {
	fields := record.Fields

	score := baseScore
	var fired []FiredAdjustment
	for _, adj := range rule.Adjustments {
		if adj.Predicate.Eval(fields) {
			score += adj.Impact
			fired = append(fired, FiredAdjustment{Reason: adj.Reason, Impact: adj.Impact})
		}
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	status := statusFromScore(score)

	anyCritical, anyWarning := false, false
	for _, c := range rule.Conditions {
		if !c.Expr.Eval(fields) {
			continue
		}
		switch c.Severity {
		case SeverityCritical:
			anyCritical = true
		case SeverityWarning:
			anyWarning = true
		}
	}
	if anyCritical {
		status = StatusCritical
	} else if status == StatusHealthy && anyWarning {
		status = StatusWarning
	}

	var recs []Recommendation
	for _, rec := range rule.Recommendations {
		if rec.Predicate.Eval(fields) {
			recs = append(recs, rec)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	messages := make([]string, 0, len(recs))
	for _, r := range recs {
		messages = append(messages, r.Message)
	}

	summary := make(map[string]any, len(rule.SummaryFields))
	for _, f := range rule.SummaryFields {
		if v, ok := fields[f]; ok {
			summary[f] = v
		}
	}

	return &Result{
		Score:                score,
		Status:               status,
		RuleID:               rule.ID,
		FiredAdjustments:     fired,
		FiredRecommendations: messages,
		Summary:              summary,
	}
}

func statusFromScore(score int) Status {
	switch {
	case score >= healthyFloor:
		return StatusHealthy
	case score < criticalCeiling:
		return StatusCritical
	default:
		return StatusWarning
	}
}

func unknownResult(note string) *Result {
	return &Result{
		Score:  0,
		Status: StatusUnknown,
		Note:   note,
	}
}

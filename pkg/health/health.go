// Package health implements the Health Rule Engine (spec §4.7): it matches
// a device record to its best health rule by vector similarity, scores it
// from a base of 100 via signed adjustments, derives a status, and fires
// the subset of recommendations whose predicates hold.
package health

import "github.com/Mayoengin/netfleet-rag/pkg/health/predicate"

// Severity is the condition-group label a Rule's conditions are grouped by.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityHealthy  Severity = "HEALTHY"
)

// Priority ranks a Recommendation for firing order.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Status is a device's derived health status.
type Status string

const (
	StatusHealthy  Status = "HEALTHY"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
	// StatusUnknown is emitted when rule evaluation itself fails (no
	// matching rule found, embed/search failure); it never aborts a batch
	// (spec §7: "the device is labeled UNKNOWN with score 0 ... processing
	// continues").
	StatusUnknown Status = "UNKNOWN"
)

// Condition is one predicate grouped under a severity (spec §3 "Health
// Rule"); the rule engine forces CRITICAL whenever any CRITICAL condition
// holds, and prevents HEALTHY whenever any WARNING condition holds.
type Condition struct {
	Severity Severity
	Expr     predicate.Expr
}

// Adjustment is a signed, predicated contribution to the base score of 100.
type Adjustment struct {
	Predicate predicate.Expr
	Impact    int
	Reason    string
}

// Recommendation fires a message at a priority when its predicate holds.
type Recommendation struct {
	Predicate predicate.Expr
	Message   string
	Priority  Priority
}

// Rule is one declarative health rule (spec §3 "Health Rule"): at most one
// per (TargetKind, Version); predicates reference only fields the matching
// schema declares.
type Rule struct {
	ID              string
	TargetKind      string
	Conditions      []Condition
	Adjustments     []Adjustment
	Recommendations []Recommendation
	SummaryFields   []string
	Version         int
	Keywords        []string
}

// FiredAdjustment records one adjustment that held during evaluation.
type FiredAdjustment struct {
	Reason string
	Impact int
}

// Result is the outcome of evaluating one device record against its
// best-matching rule.
type Result struct {
	Score                int
	Status               Status
	RuleID               string
	FiredAdjustments     []FiredAdjustment
	FiredRecommendations []string
	Summary              map[string]any
	Note                 string
}

package health

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/Mayoengin/netfleet-rag/pkg/health/predicate"
)

//go:embed rules.yaml
var rulesYAML []byte

type rawCondition struct {
	Severity string       `yaml:"severity"`
	If       predicate.Raw `yaml:"if"`
}

type rawAdjustment struct {
	Impact int           `yaml:"impact"`
	Reason string        `yaml:"reason"`
	If     predicate.Raw `yaml:"if"`
}

type rawRecommendation struct {
	Priority string        `yaml:"priority"`
	Message  string        `yaml:"message"`
	If       predicate.Raw `yaml:"if"`
}

type rawRule struct {
	ID              string              `yaml:"id"`
	TargetKind      string              `yaml:"target_kind"`
	Version         int                 `yaml:"version"`
	Keywords        []string            `yaml:"keywords"`
	SummaryFields   []string            `yaml:"summary_fields"`
	Conditions      []rawCondition      `yaml:"conditions"`
	Adjustments     []rawAdjustment     `yaml:"adjustments"`
	Recommendations []rawRecommendation `yaml:"recommendations"`
}

type ruleFile struct {
	Rules []rawRule `yaml:"rules"`
}

func parseRuleFile(data []byte) (ruleFile, error) {
	var parsed ruleFile
	err := yaml.Unmarshal(data, &parsed)
	return parsed, err
}

func compileRule(r rawRule) (*Rule, error) {
	rule := &Rule{
		ID:            r.ID,
		TargetKind:    r.TargetKind,
		Version:       r.Version,
		Keywords:      r.Keywords,
		SummaryFields: r.SummaryFields,
	}

	for _, c := range r.Conditions {
		expr, err := predicate.Parse(c.If)
		if err != nil {
			return nil, err
		}
		rule.Conditions = append(rule.Conditions, Condition{Severity: Severity(c.Severity), Expr: expr})
	}

	for _, a := range r.Adjustments {
		expr, err := predicate.Parse(a.If)
		if err != nil {
			return nil, err
		}
		rule.Adjustments = append(rule.Adjustments, Adjustment{Predicate: expr, Impact: a.Impact, Reason: a.Reason})
	}

	for _, rec := range r.Recommendations {
		expr, err := predicate.Parse(rec.If)
		if err != nil {
			return nil, err
		}
		rule.Recommendations = append(rule.Recommendations, Recommendation{
			Predicate: expr,
			Message:   rec.Message,
			Priority:  Priority(rec.Priority),
		})
	}

	return rule, nil
}

// DefaultRules compiles the rule set embedded in rules.yaml. It panics only
// on a malformed build artifact, the same contract pkg/schema's
// NewRegistry applies to its own embedded schemas.yaml.
func DefaultRules() []*Rule {
	rules, err := LoadRules(rulesYAML)
	if err != nil {
		panic("health: embedded rules.yaml is malformed: " + err.Error())
	}
	return rules
}

// LoadRules parses and compiles a rule set from raw YAML, for deployments
// that override the embedded rules.yaml with an operator-maintained file
// (wired by cmd/netfleet-rag through an internal/config.RuleWatcher). Unlike
// DefaultRules, a malformed operator-supplied file is a runtime condition,
// not a build artifact, so this returns an error instead of panicking.
func LoadRules(data []byte) ([]*Rule, error) {
	parsed, err := parseRuleFile(data)
	if err != nil {
		return nil, err
	}

	rules := make([]*Rule, 0, len(parsed.Rules))
	for _, raw := range parsed.Rules {
		rule, err := compileRule(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Package quality implements the Data Quality Assessor (spec §4.4):
// completeness, freshness, consistency, and accuracy scores for a bounded
// sample of device records.
package quality

import (
	"regexp"
	"time"

	"github.com/spf13/cast"

	"github.com/Mayoengin/netfleet-rag/internal/config"
	"github.com/Mayoengin/netfleet-rag/internal/vecmath"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
)

// Band is the coarse quality label derived from Score.Overall.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// Score is the four-component quality assessment plus the weighted overall
// score and its band.
type Score struct {
	Completeness float64
	Freshness    float64
	Consistency  float64
	Accuracy     float64
	Overall      float64
	Band         Band
}

// Assessor computes a Score for a sample of records against a schema.
type Assessor struct {
	thresholds config.QualityThresholds
}

// NewAssessor constructs an Assessor using the given quality thresholds.
func NewAssessor(thresholds config.QualityThresholds) *Assessor {
	return &Assessor{thresholds: thresholds}
}

// Assess scores records (each a validated fielded record, keyed by field
// name) against s, given the sample's reported generation time and the
// current time.
func (a *Assessor) Assess(s *schema.Schema, records []map[string]any, generatedAt, now time.Time) Score {
	score := Score{
		Completeness: a.completeness(s, records),
		Freshness:    a.freshness(records, generatedAt, now),
		Consistency:  a.consistency(s, records),
		Accuracy:     a.accuracy(s, records),
	}
	score.Overall = 0.30*score.Completeness + 0.25*score.Freshness + 0.25*score.Consistency + 0.20*score.Accuracy
	score.Band = a.band(score.Overall)
	return score
}

func (a *Assessor) band(overall float64) Band {
	switch {
	case overall >= a.thresholds.Green:
		return BandGreen
	case overall >= a.thresholds.Yellow:
		return BandYellow
	default:
		return BandRed
	}
}

// completeness is the fraction of required fields present and non-empty,
// averaged over records.
func (a *Assessor) completeness(s *schema.Schema, records []map[string]any) float64 {
	if len(records) == 0 {
		return 0
	}
	required := s.RequiredFieldNames()
	if len(required) == 0 {
		return 1
	}

	var total float64
	for _, rec := range records {
		var present int
		for _, name := range required {
			if fieldPresent(rec, name) {
				present++
			}
		}
		total += float64(present) / float64(len(required))
	}
	return total / float64(len(records))
}

func fieldPresent(rec map[string]any, name string) bool {
	v, ok := rec[name]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// freshness is 1.0 within FreshnessFullWithin of now, linearly decaying to
// 0 at FreshnessZeroAfter. Like completeness, consistency, and accuracy, an
// empty sample scores 0 rather than treating a meaningless timestamp as
// perfectly fresh.
func (a *Assessor) freshness(records []map[string]any, generatedAt, now time.Time) float64 {
	if len(records) == 0 {
		return 0
	}
	age := now.Sub(generatedAt)
	if age <= a.thresholds.FreshnessFullWithin {
		return 1.0
	}
	if age >= a.thresholds.FreshnessZeroAfter {
		return 0.0
	}

	span := float64(a.thresholds.FreshnessZeroAfter - a.thresholds.FreshnessFullWithin)
	elapsed := float64(age - a.thresholds.FreshnessFullWithin)
	return vecmath.Clamp(1.0-elapsed/span, 0, 1)
}

// consistency is the fraction of records that satisfy every declared
// enum/pattern constraint.
func (a *Assessor) consistency(s *schema.Schema, records []map[string]any) float64 {
	if len(records) == 0 {
		return 0
	}

	var ok int
	for _, rec := range records {
		if recordConsistent(s, rec) {
			ok++
		}
	}
	return float64(ok) / float64(len(records))
}

func recordConsistent(s *schema.Schema, rec map[string]any) bool {
	for _, f := range s.Fields {
		v, present := rec[f.Name]
		if !present {
			continue
		}
		switch f.Type {
		case schema.FieldEnum:
			if !containsString(f.EnumValues, cast.ToString(v)) {
				return false
			}
		case schema.FieldPattern:
			if f.Pattern == "" {
				continue
			}
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				continue
			}
			if !re.MatchString(cast.ToString(v)) {
				return false
			}
		}
	}
	return true
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// accuracy is the fraction of records whose schema-declared cross-field
// invariants all hold.
func (a *Assessor) accuracy(s *schema.Schema, records []map[string]any) float64 {
	if len(records) == 0 {
		return 0
	}
	if len(s.Invariants) == 0 {
		return 1
	}

	var ok int
	for _, rec := range records {
		passes := true
		for _, inv := range s.Invariants {
			if !inv.Check(rec) {
				passes = false
				break
			}
		}
		if passes {
			ok++
		}
	}
	return float64(ok) / float64(len(records))
}

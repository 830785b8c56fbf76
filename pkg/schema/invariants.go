package schema

import "github.com/spf13/cast"

// invariantsFor attaches each schema's cross-field invariants. Kept as Go
// functions rather than YAML-declarative data: an invariant like
// "complete_config ⇒ managed_by_inmanta ∧ service_count > 0" is a predicate
// over the whole record, not a single field constraint, and the health rule
// engine already owns the one declarative predicate grammar this system
// needs (pkg/health/predicate); duplicating a second grammar here for four
// fixed, small invariants would not pay for itself.
func invariantsFor(name string) []Invariant {
	switch name {
	case "olt":
		return []Invariant{
			{
				Name: "complete_config_implies_managed_and_serviced",
				Check: func(fields map[string]any) bool {
					complete := cast.ToBool(fields["complete_config"])
					if !complete {
						return true
					}
					managed := cast.ToBool(fields["managed_by_inmanta"])
					serviceCount := cast.ToInt(fields["service_count"])
					return managed && serviceCount > 0
				},
			},
			{
				Name: "production_requires_region",
				Check: func(fields map[string]any) bool {
					if cast.ToString(fields["environment"]) != "PRODUCTION" {
						return true
					}
					return cast.ToString(fields["region"]) != ""
				},
			},
		}
	default:
		return nil
	}
}

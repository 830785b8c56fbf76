package schema

import (
	_ "embed"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Mayoengin/netfleet-rag/pkg/assert"
)

//go:embed schemas.yaml
var schemasYAML []byte

type rawSchema struct {
	Name           string   `yaml:"name"`
	IntentKeywords []string `yaml:"intent_keywords"`
	Fields         []Field  `yaml:"fields"`
}

type schemaFile struct {
	Schemas []rawSchema `yaml:"schemas"`
}

func parseSchemaFile(data []byte) (schemaFile, error) {
	var parsed schemaFile
	err := yaml.Unmarshal(data, &parsed)
	return parsed, err
}

// Registry is the static, declarative table of known schemas. It is
// read-only after construction, matching §5's "read-only after
// initialization" resource model.
type Registry struct {
	byName map[string]*Schema
	order  []string
}

// NewRegistry parses the embedded schema definitions and attaches each
// schema's invariants. Panics only on malformed embedded YAML, which is a
// build-time programmer error, not a runtime condition callers must guard.
func NewRegistry() *Registry {
	parsed := assert.Must(parseSchemaFile(schemasYAML))

	r := &Registry{byName: make(map[string]*Schema)}
	for _, s := range parsed.Schemas {
		schema := &Schema{
			Name:           s.Name,
			Fields:         s.Fields,
			IntentKeywords: s.IntentKeywords,
			Invariants:     invariantsFor(s.Name),
		}
		r.byName[s.Name] = schema
		r.order = append(r.order, s.Name)
	}
	return r
}

// Get returns the named schema, or nil if unknown.
func (r *Registry) Get(name string) *Schema {
	return r.byName[name]
}

// All returns every registered schema in registration order.
func (r *Registry) All() []*Schema {
	out := make([]*Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

var tokenSeparators = strings.NewReplacer(
	",", " ", ".", " ", "?", " ", "!", " ", "'", " ", "\"", " ",
)

func tokenize(text string) map[string]bool {
	cleaned := tokenSeparators.Replace(strings.ToLower(text))
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(cleaned) {
		tokens[tok] = true
	}
	return tokens
}

// SchemasForQuery returns the schemas whose intent keywords intersect the
// lowercased-tokenized query, in registration order. An intent keyword that
// is itself multi-word (e.g. "link aggregation") matches on substring
// containment rather than single-token equality.
func (r *Registry) SchemasForQuery(text string) []*Schema {
	lowered := strings.ToLower(text)
	tokens := tokenize(text)

	var matched []*Schema
	for _, name := range r.order {
		s := r.byName[name]
		for _, kw := range s.IntentKeywords {
			kw = strings.ToLower(kw)
			if strings.Contains(kw, " ") {
				if strings.Contains(lowered, kw) {
					matched = append(matched, s)
					break
				}
				continue
			}
			if tokens[kw] {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched
}

// TeamsForRegion is a convenience query over the team schema's declared
// region enum, present because the original system tracked on-call teams
// per region even though the distilled spec only names "team" as a common
// variant (SPEC_FULL.md §3 supplemented types).
func (r *Registry) TeamsForRegion(teams []map[string]any, region string) []map[string]any {
	out := make([]map[string]any, 0, len(teams))
	for _, t := range teams {
		if r, ok := t["region"].(string); ok && r == region {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return toString(out[i]["name"]) < toString(out[j]["name"])
	})
	return out
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// ExtractDeviceName scans text for a substring matching any registered
// schema's `pattern`-typed field (e.g. an OLT or mobile modem name), in
// registration order. It is the declarative counterpart to the device-name
// regular expressions the orchestrator and fusion analyzer would otherwise
// have to hardcode: the schema registry is the one place a name pattern is
// defined, so this is the one place it is matched.
func (r *Registry) ExtractDeviceName(text string) (name string, schemaName string, ok bool) {
	for _, n := range r.order {
		s := r.byName[n]
		for _, f := range s.Fields {
			if f.Type != FieldPattern || f.Pattern == "" {
				continue
			}
			// Field patterns are anchored (^...$) for whole-value
			// validation in Validate; here we want the same pattern as a
			// substring search over free text, so the anchors are dropped.
			unanchored := strings.TrimSuffix(strings.TrimPrefix(f.Pattern, "^"), "$")
			re, err := regexp.Compile(unanchored)
			if err != nil {
				continue
			}
			if m := re.FindString(text); m != "" {
				return m, s.Name, true
			}
		}
	}
	return "", "", false
}

// FiltersFromQuery extracts region/environment filter values for schemaName
// by matching the schema's declared enum values against text, case
// insensitively. Only fields literally named "region" or "environment" are
// considered, matching the fixed lexicon spec §4.8 describes.
func (r *Registry) FiltersFromQuery(text, schemaName string) map[string]string {
	filters := make(map[string]string)
	s := r.byName[schemaName]
	if s == nil {
		return filters
	}
	lowered := strings.ToLower(text)
	for _, f := range s.Fields {
		if f.Type != FieldEnum || (f.Name != "region" && f.Name != "environment") {
			continue
		}
		for _, v := range f.EnumValues {
			if strings.Contains(lowered, strings.ToLower(v)) {
				filters[f.Name] = v
				break
			}
		}
	}
	return filters
}

// Package schema holds the declarative descriptions of device record
// shapes and the intent keywords used to match a schema to a query.
package schema

// FieldType enumerates the semantic types a Field may declare.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldBool    FieldType = "bool"
	FieldInteger FieldType = "integer"
	FieldEnum    FieldType = "enum"
	FieldPattern FieldType = "pattern"
)

// Field describes one named field of a device record schema.
type Field struct {
	Name       string    `yaml:"name"`
	Type       FieldType `yaml:"type"`
	EnumValues []string  `yaml:"enum_values,omitempty"`
	Pattern    string    `yaml:"pattern,omitempty"`
	Required   bool      `yaml:"required"`
}

// Invariant is a cross-field consistency check declared per schema (spec
// §4.4 "cross-field invariants", e.g. complete_config ⇒ managed_by_inmanta
// ∧ service_count > 0). Cross-field invariants are inherently small
// predicates over a whole record rather than declarative data, so they are
// expressed as Go functions keyed by schema name (see DESIGN.md); Fields
// and IntentKeywords remain plain declarative data loadable from YAML.
type Invariant struct {
	Name  string
	Check func(fields map[string]any) bool
}

// Schema is the declarative shape of one device record kind.
type Schema struct {
	Name           string
	Fields         []Field
	IntentKeywords []string
	Invariants     []Invariant
}

// FieldNames returns the ordered list of field names declared by s.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// RequiredFieldNames returns the ordered list of required field names.
func (s *Schema) RequiredFieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Field looks up a field declaration by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Package device defines the tagged-variant device record and the fetch
// contract the concrete data source implements. Records are validated once
// at the Source boundary (SPEC_FULL.md §3 design note "dynamic untyped
// record handling"); every downstream component only ever sees a validated
// Record, never a raw map from an external system.
package device

import (
	"fmt"
	"regexp"

	"github.com/spf13/cast"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
)

// Record is a device record tagged with the schema it conforms to.
type Record struct {
	SchemaName string
	Fields     map[string]any
}

// Name returns the record's device name under whichever field the schema
// uses to carry it (name, device_name, or serial), or "" if none present.
func (r *Record) Name() string {
	for _, key := range []string{"name", "device_name", "serial"} {
		if v, ok := r.Fields[key]; ok {
			if s := cast.ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return &Record{SchemaName: r.SchemaName, Fields: fields}
}

// Validate checks r against s: every enumerated field takes only its
// declared value, every pattern field matches its declared pattern, and
// every numeric field present is non-negative. It does not require every
// field to be present; completeness is the quality assessor's concern, not
// a validity concern of an individual record.
func Validate(s *schema.Schema, r *Record) error {
	if r.SchemaName != s.Name {
		return errs.New(errs.ValidationError, "device",
			fmt.Sprintf("record tagged %q does not match schema %q", r.SchemaName, s.Name))
	}

	for _, f := range s.Fields {
		v, present := r.Fields[f.Name]
		if !present {
			continue
		}

		switch f.Type {
		case schema.FieldEnum:
			sv := cast.ToString(v)
			if !enumContains(f.EnumValues, sv) {
				return errs.New(errs.ValidationError, "device",
					fmt.Sprintf("field %q has unknown enum value %q", f.Name, sv))
			}
		case schema.FieldPattern:
			if f.Pattern == "" {
				continue
			}
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return errs.Wrap(errs.Internal, "device", fmt.Sprintf("schema %q has invalid pattern for field %q", s.Name, f.Name), err)
			}
			if !re.MatchString(cast.ToString(v)) {
				return errs.New(errs.ValidationError, "device",
					fmt.Sprintf("field %q value %q does not match pattern %q", f.Name, cast.ToString(v), f.Pattern))
			}
		case schema.FieldInteger:
			if cast.ToInt64(v) < 0 {
				return errs.New(errs.ValidationError, "device",
					fmt.Sprintf("field %q must be non-negative, got %v", f.Name, v))
			}
		}
	}

	return nil
}

func enumContains(values []string, v string) bool {
	for _, e := range values {
		if e == v {
			return true
		}
	}
	return false
}

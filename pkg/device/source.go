package device

import "context"

// Reserved filter keys. A Source must honor these; any other key is an
// unrecognized filter and is ignored rather than rejected, matching spec.md
// §6's "unknown keys are ignored" tolerance for forward-compatible callers.
const (
	FilterRegion      = "region"
	FilterEnvironment = "environment"
	FilterNamePrefix  = "name_prefix"
	FilterNameEquals  = "name_equals"
)

// Source fetches a bounded sample of records for one schema. Implementations
// validate every record against the schema before returning it, so that
// callers never see an unvalidated record (the tagged-variant boundary named
// in device.go's package comment).
type Source interface {
	Fetch(ctx context.Context, schemaName string, filters map[string]string, limit int) ([]*Record, error)
}

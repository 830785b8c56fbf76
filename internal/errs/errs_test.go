package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	e := New(NotFound, "document", "no such document")
	assert.Contains(t, e.Error(), "NOT_FOUND")
	assert.Contains(t, e.Error(), "document")
	assert.Contains(t, e.Error(), "no such document")
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	e := Wrap(UpstreamUnavailable, "vectorstore", "search failed", cause)

	assert.Equal(t, cause, errors.Unwrap(e))
	assert.Contains(t, e.Error(), "refused")
}

func TestKindOf(t *testing.T) {
	e := New(Timeout, "llm", "deadline exceeded")
	assert.Equal(t, Timeout, KindOf(e))
	assert.Equal(t, Internal, KindOf(errors.New("plain error")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestIs(t *testing.T) {
	e := New(ValidationError, "document", "title too short")
	assert.True(t, Is(e, ValidationError))
	assert.False(t, Is(e, NotFound))
}

func TestErrorsAsThroughWrap(t *testing.T) {
	inner := New(NotFound, "schema", "unknown schema olt")
	outer := Wrap(Internal, "ctxbuild", "schema lookup failed", inner)

	var target *Error
	require.True(t, errors.As(outer, &target))
	assert.Equal(t, Internal, target.Kind)

	assert.Equal(t, NotFound, KindOf(inner))
}

func TestUserMessageNeverLeaksStackTrace(t *testing.T) {
	e := New(Internal, "orchestrator", "nil rule engine handle")
	msg := UserMessage(e)

	assert.Contains(t, msg, "INTERNAL")
	assert.Contains(t, msg, "orchestrator")
	assert.NotContains(t, msg, "goroutine")
	assert.NotContains(t, msg, ".go:")
}

func TestUserMessageOnNonTaxonomizedError(t *testing.T) {
	msg := UserMessage(errors.New("boom"))
	assert.Contains(t, msg, "INTERNAL")
	assert.Contains(t, msg, "boom")
}

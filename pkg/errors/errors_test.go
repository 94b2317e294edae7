package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeEmptyBatch, "no test cases supplied")
	assert.Equal(t, "[EMPTY_BATCH(2001)] no test cases supplied", err.Error())

	withDetail := err.WithDetail("batch=generated")
	assert.Equal(t, "[EMPTY_BATCH(2001)] no test cases supplied: batch=generated", withDetail.Error())
	// The original is not mutated.
	assert.Empty(t, err.Detail)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeDatabaseError, "save failed"))

	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CodeDatabaseError, "save failed")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDatabaseError, err.Code)
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(CodeReportNotFound, "report missing")
	outer := Wrap(inner, CodeUnknown, "lookup failed")
	assert.Equal(t, CodeReportNotFound, outer.Code)
}

func TestIsCodeAndGetCode(t *testing.T) {
	inner := New(CodeEmbeddingUnavailable, "encoder offline")
	wrapped := Wrap(inner, CodeInternal, "similarity skipped")

	assert.True(t, IsCode(wrapped, CodeEmbeddingUnavailable))
	assert.False(t, IsCode(wrapped, CodeCacheError))
	assert.Equal(t, CodeInternal, GetCode(wrapped))
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(CodeReportNotFound, "x")))
	assert.True(t, IsNotFound(New(CodeNotFound, "x")))
	assert.False(t, IsNotFound(New(CodeInternal, "x")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, CodeEmptyBatch.HTTPStatus())
	assert.Equal(t, 404, CodeReportNotFound.HTTPStatus())
	assert.Equal(t, 503, CodeEmbeddingUnavailable.HTTPStatus())
	assert.Equal(t, 500, CodeMessagingError.HTTPStatus())
}

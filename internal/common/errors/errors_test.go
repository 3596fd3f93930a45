package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError_SentinelCodes(t *testing.T) {
	notFound := stderrors.New("CANDIDATE_NOT_FOUND")
	insert := stderrors.New("DATABASE_INSERT_FAILED")

	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"bare sentinel", notFound, ErrCodeCandidateNotFound, false},
		{"wrapped sentinel", fmt.Errorf("%w: c-1", notFound), ErrCodeCandidateNotFound, false},
		{"double wrapped retryable", fmt.Errorf("apply: %w", fmt.Errorf("%w: tx", insert)), ErrCodeDatabaseInsertFailed, true},
		{"unknown", stderrors.New("boom"), ErrCodeInternalError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std := FromError(tt.err)
			require.NotNil(t, std)
			assert.Equal(t, tt.code, std.Code)
			assert.Equal(t, tt.retryable, std.Retryable)
			assert.Equal(t, tt.err.Error(), std.Details)
		})
	}

	assert.Nil(t, FromError(nil))
}

func TestFromError_KeepsStandardError(t *testing.T) {
	v := NewValidationError("userId is required")
	assert.Same(t, v, FromError(fmt.Errorf("execute: %w", v)))
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(FromError(stderrors.New("SEARCH_TIMEOUT")))
	assert.Equal(t, "SEARCH_TIMEOUT", bpmn.Code)
	assert.Equal(t, 2, bpmn.Retries)
	assert.Equal(t, "SEARCH_TIMEOUT", bpmn.ErrorVariables["originalErrorCode"])

	bpmn = ConvertToBPMNError(NewParseError(stderrors.New("unexpected EOF")))
	assert.Equal(t, "PARSE_ERROR", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)
	assert.False(t, bpmn.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeJobNotFound))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchTimeout))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeDuplicateApplication))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInterviewDateRequired))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternalError))
}

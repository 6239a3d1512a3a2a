package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindTerminal(t *testing.T) {
	terminal := []ErrorKind{KindValidation, KindUnauthorized, KindNotFound, KindDuplicate, KindInsufficientResource}
	for _, kind := range terminal {
		assert.True(t, kind.Terminal(), "kind %s should be terminal", kind)
	}

	retryable := []ErrorKind{KindTransient, KindUnknown}
	for _, kind := range retryable {
		assert.False(t, kind.Terminal(), "kind %s should be retryable", kind)
	}
}

func TestClassifyAttachedKind(t *testing.T) {
	err := NewError(KindInsufficientResource, "account %s has 0 credits", "acct_1")
	assert.Equal(t, KindInsufficientResource, Classify(err))

	wrapped := fmt.Errorf("processing failed: %w", err)
	assert.Equal(t, KindInsufficientResource, Classify(wrapped))
}

func TestClassifyWrappedError(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapError(KindTransient, cause, "vendor call failed")
	assert.Equal(t, KindTransient, Classify(err))
	assert.ErrorIs(t, err, cause)
}

func TestClassifyInfrastructureErrors(t *testing.T) {
	assert.Equal(t, KindTransient, Classify(context.DeadlineExceeded))
	assert.Equal(t, KindTransient, Classify(fmt.Errorf("fetch: %w", context.DeadlineExceeded)))
	assert.Equal(t, KindUnknown, Classify(errors.New("something unexpected")))
}

func TestClassifyNil(t *testing.T) {
	assert.Equal(t, ErrorKind(""), Classify(nil))
}

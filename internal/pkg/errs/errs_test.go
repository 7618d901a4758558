package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"farmacia/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "8c1f")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "8c1f", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 8c1f", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("order", "8c1f", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: order, ID is: 8c1f (cause: record not found)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("status", errors.New("unknown code"))

		assert.Equal(t, "value is invalid: status (cause: unknown code)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("phone digits", 9, 12, 13)

		assert.Equal(t, 9, err.Value)
		assert.Equal(t, "value is invalid: 9 is phone digits, min value is 12, max value is 13", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("limit", -1, 0, 500, errors.New("negative"))

		assert.Equal(t,
			"value is invalid: -1 is limit, min value is 0, max value is 500 (cause: negative)",
			err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("order number")
	assert.Equal(t, "value is required: order number", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

	withCause := errs.NewValueIsRequiredErrorWithCause("order number", errors.New("blank"))
	assert.Equal(t, "value is required: order number (cause: blank)", withCause.Error())
}

func TestTemporaryError(t *testing.T) {
	t.Run("matches sentinel and cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewTemporaryError("update order", cause)

		assert.Equal(t, "temporary failure: update order (cause: connection reset)", err.Error())
		require.ErrorIs(t, err, errs.ErrTemporaryFailure)
		require.ErrorIs(t, err, cause)
	})

	t.Run("without cause", func(t *testing.T) {
		err := errs.NewTemporaryError("list orders", nil)

		assert.Equal(t, "temporary failure: list orders", err.Error())
		require.ErrorIs(t, err, errs.ErrTemporaryFailure)
	})
}

func TestIsRetryable(t *testing.T) {
	t.Run("temporary errors are retryable even when wrapped", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", errs.NewTemporaryError("update order", errors.New("timeout")))

		assert.True(t, errs.IsRetryable(err))
	})

	t.Run("domain errors are not retryable", func(t *testing.T) {
		assert.False(t, errs.IsRetryable(errs.NewValueIsInvalidError("status")))
		assert.False(t, errs.IsRetryable(errs.NewObjectNotFoundError("order", "1")))
		assert.False(t, errs.IsRetryable(nil))
	})
}

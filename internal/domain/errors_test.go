package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"farmdirect/internal/domain"
)

func TestKindedErrors(t *testing.T) {
	err := domain.E(domain.ErrForbidden, "Only farmers can create listings.")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Only farmers can create listings.", domain.ErrMessage(err))
	assert.Equal(t, 0, domain.Status(err))

	// Wrapping preserves the kind and the message.
	wrapped := fmt.Errorf("create listing: %w", err)
	assert.ErrorIs(t, wrapped, domain.ErrForbidden)
	assert.Equal(t, "Only farmers can create listings.", domain.ErrMessage(wrapped))

	withStatus := domain.EStatus(domain.ErrValidation, 422, "Invalid email format")
	assert.ErrorIs(t, withStatus, domain.ErrValidation)
	assert.Equal(t, 422, domain.Status(withStatus))
}

func TestErrMessageHidesInternalDetail(t *testing.T) {
	err := errors.New("pq: connection refused on 10.0.0.3")
	assert.Equal(t, "internal server error", domain.ErrMessage(err))
	assert.Equal(t, 0, domain.Status(err))
}

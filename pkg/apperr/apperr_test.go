package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/marketplace/pkg/apperr"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, apperr.Validation.Status())
	assert.Equal(t, http.StatusNotFound, apperr.NotFound.Status())
	assert.Equal(t, http.StatusConflict, apperr.Conflict.Status())
	assert.Equal(t, http.StatusUnauthorized, apperr.Unauthorized.Status())
	assert.Equal(t, http.StatusForbidden, apperr.Forbidden.Status())
	assert.Equal(t, http.StatusBadRequest, apperr.BadRequest.Status())
	assert.Equal(t, http.StatusInternalServerError, apperr.Internal.Status())
}

func TestKindOfWrapped(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("orders: place: %w", apperr.Wrap(apperr.Conflict, cause, "insufficient stock for product %d", 7))

	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.True(t, apperr.Is(err, apperr.Conflict))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insufficient stock for product 7")

	assert.Equal(t, apperr.Internal, apperr.KindOf(cause))
	assert.False(t, apperr.Is(nil, apperr.Internal))
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
)

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrAlreadyCompleted, http.StatusConflict},
		{apperrors.ErrWindowClosed, http.StatusConflict},
		{apperrors.ErrExpired, http.StatusConflict},
		{apperrors.ErrAlreadyClaimed, http.StatusConflict},
		{apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{apperrors.ErrInsufficientPoints, http.StatusUnprocessableEntity},
		{apperrors.ErrInvalidDelta, http.StatusBadRequest},
		{apperrors.ErrInvalidPoints, http.StatusBadRequest},
		{apperrors.ErrInvalidFrequency, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, errorStatus(tc.err), "mapping for %v", tc.err)
	}
}

func TestErrorStatusWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("completing habit: %w", apperrors.ErrAlreadyCompleted)
	assert.Equal(t, http.StatusConflict, errorStatus(wrapped))
}

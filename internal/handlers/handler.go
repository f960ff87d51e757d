package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
)

// currentUserID extracts the authenticated user id set by the JWT middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return primitive.NilObjectID, false
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// errorStatus maps each service error kind to its own HTTP status so clients
// can branch on the failure; distinct kinds are never collapsed.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrAlreadyCompleted),
		errors.Is(err, apperrors.ErrWindowClosed),
		errors.Is(err, apperrors.ErrExpired),
		errors.Is(err, apperrors.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrInsufficientPoints):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrInvalidDelta),
		errors.Is(err, apperrors.ErrInvalidPoints),
		errors.Is(err, apperrors.ErrInvalidFrequency):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error with its mapped status. Internal errors are
// not echoed to the client.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

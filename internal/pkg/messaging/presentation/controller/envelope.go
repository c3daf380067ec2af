package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/application/usecase"
)

// All messaging endpoints answer with the same JSON envelope:
// {"success": bool, "data": ..., "error": "..."}.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error()})
}

// statusFor maps error kinds onto HTTP statuses: validation 400,
// authorization 403, missing targets 404, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, messaging.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, messaging.ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, messaging.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

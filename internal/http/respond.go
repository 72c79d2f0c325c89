package http

import (
	"errors"
	"net/http"

	"cashflow/internal/core"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses: validation, duplicate
// and protected-category problems are the caller's fault (400), unresolved
// records are 404, everything else is 500.
func respondError(c *gin.Context, err error) {
	var (
		validation *core.ValidationError
		duplicate  *core.DuplicateError
		protected  *core.ProtectedCategoryError
		notFound   *core.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": duplicate.Error()})
	case errors.As(err, &protected):
		c.JSON(http.StatusBadRequest, gin.H{"error": protected.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// currentUser returns the user provisioned by the auth middleware.
func currentUser(c *gin.Context) core.User {
	return c.MustGet(identityKey).(core.User)
}

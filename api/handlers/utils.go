package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ymurata/peoplewiki/internal/store"
)

// parseID reads a uuid path parameter, answering 400 itself on failure.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the core error taxonomy onto HTTP statuses. Every
// taxonomy member is a per-request recoverable outcome.
func respondError(c *gin.Context, err error) {
	var (
		validation *store.ValidationError
		notFound   *store.NotFoundError
		upload     *store.UploadError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &upload):
		c.JSON(http.StatusBadGateway, gin.H{"error": upload.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

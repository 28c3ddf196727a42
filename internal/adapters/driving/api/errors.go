package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// Upstream failures get fixed messages so provider details never reach
// API clients.
const (
	msgLoadFailed       = "Failed to load the document from the given source"
	msgEmbeddingFailed  = "Embedding generation service is currently unavailable"
	msgGenerationFailed = "Language model service is currently unavailable"
	msgInternalError    = "Internal server error"
)

// writeError maps domain errors to HTTP status codes and safe messages.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, domain.ErrInvalidDocument),
		errors.Is(err, domain.ErrInvalidChunk),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, domain.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})

	case errors.Is(err, domain.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Detail: err.Error()})

	case errors.Is(err, domain.ErrDuplicateDocument):
		c.JSON(http.StatusConflict, errorResponse{Detail: err.Error()})

	case errors.Is(err, domain.ErrDocumentLoad):
		c.JSON(http.StatusBadGateway, errorResponse{Detail: msgLoadFailed})

	case errors.Is(err, domain.ErrEmbeddingGeneration):
		c.JSON(http.StatusBadGateway, errorResponse{Detail: msgEmbeddingFailed})

	case errors.Is(err, domain.ErrLLMGeneration):
		c.JSON(http.StatusBadGateway, errorResponse{Detail: msgGenerationFailed})

	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: msgInternalError})
	}
}

// Package api exposes the ingestion and question services over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/documentor-dev/documentor/internal/core/ports/driving"
)

// Services bundles the driving ports the API exposes.
type Services struct {
	Ingestion driving.IngestionService
	Questions driving.QuestionService
	Documents driving.DocumentService

	// IngestText builds a one-shot ingestion for pasted text. Wired by
	// the composition root because the text loader is built per request.
	IngestText TextIngestFunc
}

// NewRouter builds the HTTP router.
func NewRouter(services Services) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	h := &handlers{services: services}

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", h.health)

		apiGroup.POST("/documents", h.ingestDocument)
		apiGroup.POST("/documents/text", h.ingestText)
		apiGroup.GET("/documents", h.listDocuments)
		apiGroup.GET("/documents/:id", h.getDocument)
		apiGroup.DELETE("/documents/:id", h.deleteDocument)

		apiGroup.POST("/questions/ask", h.askQuestion)
		apiGroup.POST("/questions/ask/stream", h.askQuestionStream)
	}

	return router
}

package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
)

// TextIngestFunc ingests pasted text content under the given title and
// duplicate policy.
type TextIngestFunc func(
	ctx context.Context, content, title string, onDuplicate domain.DuplicatePolicy,
) (*driving.IngestResult, error)

type handlers struct {
	services Services
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

func (h *handlers) ingestDocument(c *gin.Context) {
	var req ingestDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "source is required"})
		return
	}

	policy, err := domain.ParseDuplicatePolicy(req.OnDuplicate)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.services.Ingestion.Ingest(c.Request.Context(), driving.IngestRequest{
		Source:      req.Source,
		Title:       req.Title,
		OnDuplicate: policy,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toIngestResponse(result))
}

func (h *handlers) ingestText(c *gin.Context) {
	var req ingestTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "content is required"})
		return
	}

	policy, err := domain.ParseDuplicatePolicy(req.OnDuplicate)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.services.IngestText(c.Request.Context(), req.Content, req.Title, policy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toIngestResponse(result))
}

func (h *handlers) listDocuments(c *gin.Context) {
	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", 0)

	docs, err := h.services.Documents.List(c.Request.Context(), offset, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]documentResponse, len(docs))
	for i, doc := range docs {
		out[i] = toDocumentResponse(doc)
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) getDocument(c *gin.Context) {
	doc, err := h.services.Documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

func (h *handlers) deleteDocument(c *gin.Context) {
	if err := h.services.Documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) askQuestion(c *gin.Context) {
	var req askQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "question is required"})
		return
	}

	history, err := toHistory(req.History)
	if err != nil {
		writeError(c, err)
		return
	}

	answer, err := h.services.Questions.Ask(c.Request.Context(), driving.AskRequest{
		Question: req.Question,
		History:  history,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnswerResponse(answer))
}

// askQuestionStream streams the answer as server-sent events. Event names
// mirror the answer event types: text, sources, done, error.
func (h *handlers) askQuestionStream(c *gin.Context) {
	var req askQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "question is required"})
		return
	}

	history, err := toHistory(req.History)
	if err != nil {
		writeError(c, err)
		return
	}

	events, err := h.services.Questions.AskStream(c.Request.Context(), driving.AskRequest{
		Question: req.Question,
		History:  history,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		switch event.Type {
		case domain.EventText:
			c.SSEvent("text", event.Content)
		case domain.EventSources:
			c.SSEvent("sources", toSourceResponses(event.Sources))
		case domain.EventDone:
			c.SSEvent("done", "")
		case domain.EventError:
			c.SSEvent("error", event.Content)
		}
		return true
	})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

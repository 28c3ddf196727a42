package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidDocument indicates a document failed validation
	// (blank source or title, or no extractable content).
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a chunk failed validation
	// (blank text or non-positive token count).
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidQuestion indicates a question is blank or too long.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrInvalidEmbedding indicates a vector/dimension mismatch.
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrInvalidAnswer indicates blank answer text or an out-of-range
	// relevance score on a source reference.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrDocumentNotFound indicates a requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDuplicateDocument indicates a document with the same source
	// already exists and the duplicate policy is reject.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrUnsupportedType indicates an unknown backend, provider, or
	// duplicate policy name.
	ErrUnsupportedType = errors.New("unsupported type")

	// Upstream service failures. These surface to callers as
	// service-unavailable-class errors and are never retried by the core.

	// ErrDocumentLoad indicates the loader could not retrieve or parse
	// the source.
	ErrDocumentLoad = errors.New("document load failed")

	// ErrEmbeddingGeneration indicates the embedding provider failed.
	ErrEmbeddingGeneration = errors.New("embedding generation failed")

	// ErrLLMGeneration indicates the generation provider failed,
	// including an empty response.
	ErrLLMGeneration = errors.New("llm generation failed")
)

package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceReference(t *testing.T) {
	ref, err := NewSourceReference("Guide", "chunk text", 0.82, "chunk-1")
	require.NoError(t, err)

	assert.Equal(t, "Guide", ref.DocumentTitle)
	assert.Equal(t, "chunk text", ref.ChunkText)
	assert.Equal(t, 0.82, ref.RelevanceScore)
	assert.Equal(t, "chunk-1", ref.ChunkID)
}

func TestNewSourceReference_ScoreRange(t *testing.T) {
	_, err := NewSourceReference("Guide", "text", -0.01, "chunk-1")
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	_, err = NewSourceReference("Guide", "text", 1.01, "chunk-1")
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	// Boundaries are inclusive.
	_, err = NewSourceReference("Guide", "text", 0.0, "chunk-1")
	assert.NoError(t, err)
	_, err = NewSourceReference("Guide", "text", 1.0, "chunk-1")
	assert.NoError(t, err)
}

func TestNewAnswer(t *testing.T) {
	ref, err := NewSourceReference("Guide", "text", 0.5, "chunk-1")
	require.NoError(t, err)

	answer, err := NewAnswer("The answer.", []SourceReference{ref})
	require.NoError(t, err)
	assert.True(t, answer.HasSources())

	_, err = NewAnswer("  \n ", nil)
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestNoResultsAnswer(t *testing.T) {
	answer := NoResultsAnswer()
	assert.Equal(t, NoResultsText, answer.Text)
	assert.False(t, answer.HasSources())
}

func TestNewQuestion_Valid(t *testing.T) {
	q, err := NewQuestion("How do I configure the server?")
	require.NoError(t, err)
	assert.Equal(t, "How do I configure the server?", q.Text())
}

func TestNewQuestion_Validation(t *testing.T) {
	_, err := NewQuestion("")
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = NewQuestion("   \t")
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = NewQuestion(strings.Repeat("x", MaxQuestionLength+1))
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = NewQuestion(strings.Repeat("x", MaxQuestionLength))
	assert.NoError(t, err)
}

func TestNewConversationMessage_Validation(t *testing.T) {
	msg, err := NewConversationMessage(RoleUser, "hello")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, msg.Role)

	_, err = NewConversationMessage(MessageRole("system"), "hello")
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = NewConversationMessage(RoleAssistant, "  ")
	assert.ErrorIs(t, err, ErrInvalidQuestion)
}

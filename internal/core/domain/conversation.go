package domain

import (
	"fmt"
	"strings"
)

// MessageRole identifies the author of a conversation message.
type MessageRole string

// Conversation roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ConversationMessage is one turn of a conversation. An ordered slice
// of these, oldest first, forms the conversation history.
type ConversationMessage struct {
	Role    MessageRole
	Content string
}

// NewConversationMessage validates the role and content.
func NewConversationMessage(role MessageRole, content string) (ConversationMessage, error) {
	if role != RoleUser && role != RoleAssistant {
		return ConversationMessage{}, fmt.Errorf("%w: unknown role %q", ErrInvalidQuestion, role)
	}
	if strings.TrimSpace(content) == "" {
		return ConversationMessage{}, fmt.Errorf("%w: message content cannot be empty", ErrInvalidQuestion)
	}
	return ConversationMessage{Role: role, Content: content}, nil
}

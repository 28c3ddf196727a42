package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQuestionLength is the maximum accepted question length in characters.
const MaxQuestionLength = 1000

// Question is a validated natural-language question.
type Question struct {
	text string
}

// NewQuestion validates and wraps question text. The text must be
// non-blank and at most MaxQuestionLength characters.
func NewQuestion(text string) (Question, error) {
	if strings.TrimSpace(text) == "" {
		return Question{}, fmt.Errorf("%w: text cannot be empty", ErrInvalidQuestion)
	}
	if utf8.RuneCountInString(text) > MaxQuestionLength {
		return Question{}, fmt.Errorf(
			"%w: text exceeds maximum length of %d characters",
			ErrInvalidQuestion, MaxQuestionLength,
		)
	}
	return Question{text: text}, nil
}

// Text returns the question text.
func (q Question) Text() string {
	return q.text
}

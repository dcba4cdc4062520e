package llm

import (
	"context"
)

// TextClient is the text-generation collaborator: one free-text instruction
// in, free-text out. Responses may be prose-wrapped or fenced rather than
// pure JSON; callers are expected to run them through extraction.
type TextClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

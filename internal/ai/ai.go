package ai

import "context"

// Generator produces a textual response for a prompt. Implementations wrap
// a concrete AI provider.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

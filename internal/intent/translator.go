// Package intent turns natural-language requests into shell commands.
package intent

import (
	"context"
	"errors"
)

// ErrNoTranslation is returned when no command can be derived from the
// request.
var ErrNoTranslation = errors.New("no command could be derived from the request")

// Translation is the structured result of interpreting one request.
type Translation struct {
	// Command is the shell command to run, free of markdown wrapping.
	Command string `json:"command"`
	// Explanation says what the command does in one or two sentences.
	Explanation string `json:"explanation"`
	// Risks lists side effects the user should know about.
	Risks []string `json:"risks,omitempty"`
	// RequiresAdmin is the translator's own elevation estimate. The
	// privilege checker has the final word.
	RequiresAdmin bool `json:"requires_admin"`
}

// Translator derives a command from a natural-language request.
type Translator interface {
	Translate(ctx context.Context, request string) (*Translation, error)
}

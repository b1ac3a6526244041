// Package completion defines the port interface for the AI text
// completion service.
package completion

import "context"

// Completer turns a prompt into a single completion. No streaming,
// no retry; the first choice's text is returned as-is.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

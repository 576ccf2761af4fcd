package interfaces

import "context"

// Sink delivers one plain-text message to the configured destination.
// Implementations treat missing credentials as a logged no-op and surface a
// non-success response as an error; callers must keep running either way.
type Sink interface {
	Send(ctx context.Context, text string) error
}

package fetch

import (
	"context"

	"redmark/internal/domain"
)

// Source yields batches of raw notes from a capture collaborator, such as
// a driven browser intercepting feed API responses. How the collaborator
// decides it has reached the end of the stream is its own business; the
// usual implementation is a "no new responses for N polls" heuristic.
type Source interface {
	// Next returns the next batch of raw notes. ok is false once the
	// stream is exhausted; a non-nil err reports a failure of the
	// underlying collaborator for this poll.
	Next(ctx context.Context) (batch []domain.RawNote, ok bool, err error)
}

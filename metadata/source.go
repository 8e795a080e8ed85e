package metadata

import (
	"context"
	"errors"

	"github.com/openclass/tutorbot/core"
)

var (
	// ErrSourceUnavailable indicates the upstream listing could not be
	// reached or returned no usable run. Fatal to an ingestion run; the
	// caller decides whether to retry the whole ingestion.
	ErrSourceUnavailable = errors.New("metadata source unavailable")

	// ErrInvalidMaxVideos indicates a non-positive video limit.
	ErrInvalidMaxVideos = errors.New("maxVideos must be greater than 0")
)

// Source lists videos for a channel.
// Implementations must be thread-safe for concurrent use.
type Source interface {
	// List returns up to maxVideos records for the channel, in upstream
	// order. It paginates the upstream listing until maxVideos records are
	// collected or the upstream is exhausted, whichever comes first.
	// Returns ErrSourceUnavailable if the upstream cannot be reached.
	List(ctx context.Context, channelURL string, maxVideos int) ([]core.VideoRecord, error)
}

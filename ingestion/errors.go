package ingestion

import "errors"

var (
	// ErrSourceRequired is returned when a metadata source is not provided.
	ErrSourceRequired = errors.New("metadata source required")

	// ErrTranscriberRequired is returned when a transcriber is not provided.
	ErrTranscriberRequired = errors.New("transcriber required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrRepositoryRequired is returned when a tenant repository is not provided.
	ErrRepositoryRequired = errors.New("tenant repository required")

	// ErrTooManyVideos is returned when a request exceeds the per-run video limit.
	ErrTooManyVideos = errors.New("too many videos requested")

	// ErrNoContent is returned when a run yields no transcript text at all.
	ErrNoContent = errors.New("no transcribable content")
)

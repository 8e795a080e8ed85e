package ai

import "errors"

var (
	// ErrDimensionMismatch is returned when the embedding service produces
	// a vector whose dimensionality differs from core.EmbeddingDimensions.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoCompletion is returned when the completion service returns
	// no choices.
	ErrNoCompletion = errors.New("model returned no completion")
)

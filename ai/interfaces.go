package ai

import (
	"context"

	"github.com/openclass/tutorbot/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
//
// The same embedder (model and version) must be used at index time and at
// query time; mixing versions silently degrades retrieval quality.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has exactly core.EmbeddingDimensions components.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces free-text completions under a caller-supplied system
// contract. Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate runs one completion over the conversation so far.
	// The system contract governs tone, citation and refusal behavior;
	// turns are ordered oldest first.
	Generate(ctx context.Context, system string, turns []core.ConversationTurn) (string, error)
}

// AnswerExtractor turns a free-text answer into a structured, citation-bearing
// record via a secondary extraction call. Implementations must be thread-safe.
type AnswerExtractor interface {
	// ExtractAnswer extracts {title, startTime, endTime, videoUrl, answer}
	// from the answer text. When the four citation fields cannot be
	// confidently extracted, the returned record carries only the answer.
	// Parse failures are absorbed: the original text becomes the answer.
	ExtractAnswer(ctx context.Context, text string) (*core.StructuredAnswer, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages the embedder,
// generator and extractor, ensuring they share configuration appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the completion service.
	Generator() Generator

	// AnswerExtractor returns the structured-extraction service.
	AnswerExtractor() AnswerExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

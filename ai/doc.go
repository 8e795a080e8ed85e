// Package ai defines the AI service interfaces used by the ingestion and
// query-resolution pipelines: text embedding, free-text generation, and
// structured answer extraction.
//
// Concrete implementations live in subpackages:
//   - ai/openai: OpenAI-compatible APIs (Gemini, Ollama, vLLM, ...)
//   - ai/mock: deterministic test doubles
package ai

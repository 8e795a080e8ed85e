// Package openai provides AI service implementations backed by
// OpenAI-compatible APIs: Gemini's OpenAI surface, Ollama, LocalAI, vLLM
// and similar services.
package openai

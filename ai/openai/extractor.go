// Copyright 2025 Openclass
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"

	"github.com/openclass/tutorbot/ai"
	"github.com/openclass/tutorbot/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// AnswerExtractor implements ai.AnswerExtractor using OpenAI-compatible chat
// APIs. It issues a second, independent generation call whose sole job is
// extraction, keeping free-form answer quality decoupled from machine-readable
// parsing reliability.
type AnswerExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newAnswerExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerExtractor(config *ai.Config) (*AnswerExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &AnswerExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewAnswerExtractor creates a new answer extractor using the provided
// configuration.
//
// Returns ai.AnswerExtractor interface to enforce abstraction.
func NewAnswerExtractor(config *ai.Config) (ai.AnswerExtractor, error) {
	return newAnswerExtractor(config)
}

// ExtractAnswer extracts the citation fields from a free-text answer.
// The extraction call's errors are surfaced; parse failures are absorbed by
// falling back to the original text as the answer.
func (e *AnswerExtractor) ExtractAnswer(ctx context.Context, text string) (*core.StructuredAnswer, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(extractionPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		e.logger.Error("failed to generate extraction", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from extraction model")
		return &core.StructuredAnswer{Answer: text}, nil
	}

	answer, ok := ParseStructuredAnswer(response.Choices[0].Content, text)
	if !ok {
		e.logger.Warn("could not parse extraction response, falling back to raw answer")
	}
	return answer, nil
}

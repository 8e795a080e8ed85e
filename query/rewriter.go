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


package query

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openclass/tutorbot/ai"
	"github.com/openclass/tutorbot/core"
)

// rewriter turns a follow-up question into a standalone one using the
// latest session turn. With no history the question is passed through
// untouched, saving a model call.
type rewriter struct {
	generator ai.Generator
	logger    *slog.Logger
}

func newRewriter(generator ai.Generator, logger *slog.Logger) *rewriter {
	return &rewriter{
		generator: generator,
		logger:    logger.With("stage", "rewrite"),
	}
}

func (r *rewriter) rewrite(ctx context.Context, history []core.ConversationTurn, question string) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	// Only the immediately preceding turn informs the rewrite.
	latest := history[len(history)-1]
	turns := []core.ConversationTurn{
		latest,
		{Role: core.RoleUser, Text: question},
	}

	rewritten, err := r.generator.Generate(ctx, rewritePrompt, turns)
	if err != nil {
		return "", err
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		r.logger.Warn("empty rewrite, using original question")
		return question, nil
	}

	r.logger.Debug("rewrote question", "original", question, "standalone", rewritten)
	return rewritten, nil
}

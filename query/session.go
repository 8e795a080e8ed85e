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
	"sync"

	"github.com/google/uuid"

	"github.com/openclass/tutorbot/core"
)

// maxSessionTurns bounds how much history a session keeps. Rewriting only
// needs the most recent exchange, so older turns are discarded.
const maxSessionTurns = 4

// Session is the per-conversation rolling context. Each asker gets their
// own session; sessions are never shared across tenants or users, so one
// conversation cannot leak into another.
type Session struct {
	id       string
	tenantID string

	mu    sync.Mutex
	turns []core.ConversationTurn
}

// NewSession creates an empty session for a tenant's asker.
func NewSession(tenantID string) *Session {
	return &Session{
		id:       uuid.NewString(),
		tenantID: tenantID,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// TenantID returns the tenant this session belongs to.
func (s *Session) TenantID() string {
	return s.tenantID
}

// Recent returns a copy of the retained conversation turns, oldest first.
func (s *Session) Recent() []core.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]core.ConversationTurn, len(s.turns))
	copy(turns, s.turns)
	return turns
}

// Record appends a question/answer exchange, discarding turns beyond the
// retention window.
func (s *Session) Record(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns,
		core.ConversationTurn{Role: core.RoleUser, Text: question},
		core.ConversationTurn{Role: core.RoleAssistant, Text: answer},
	)
	if len(s.turns) > maxSessionTurns {
		s.turns = s.turns[len(s.turns)-maxSessionTurns:]
	}
}

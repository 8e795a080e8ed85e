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


package ingestion

import (
	"fmt"
	"strings"

	"github.com/openclass/tutorbot/core"
)

// AssembleCorpus collects the per-video transcripts into a tenant corpus.
// Units with no transcript text are dropped; if nothing usable remains the
// run cannot proceed and ErrNoContent is returned.
func AssembleCorpus(tenantID string, units []core.TranscriptUnit) (core.Corpus, error) {
	if tenantID == "" {
		return core.Corpus{}, core.ErrEmptyTenantID
	}

	kept := make([]core.TranscriptUnit, 0, len(units))
	for _, unit := range units {
		if strings.TrimSpace(unit.Text) == "" {
			continue
		}
		kept = append(kept, unit)
	}

	if len(kept) == 0 {
		return core.Corpus{}, fmt.Errorf("%w: tenant %s", ErrNoContent, tenantID)
	}

	return core.Corpus{
		TenantID: tenantID,
		Units:    kept,
	}, nil
}

// UnitText renders a unit as it appears in the corpus: a header naming the
// source video followed by the transcript.
func UnitText(unit core.TranscriptUnit) string {
	return fmt.Sprintf("# %s\n%s\n\n%s", unit.Title, unit.URL, unit.Text)
}

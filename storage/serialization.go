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


package storage

import (
	"fmt"

	"github.com/openclass/tutorbot/core"
)

// MarshalTenantRecord serializes a TenantRecord to bytes.
func MarshalTenantRecord(record *core.TenantRecord) []byte {
	buf := make([]byte, core.TenantRecordMUS.Size(*record))
	core.TenantRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalTenantRecord deserializes a TenantRecord from bytes.
func UnmarshalTenantRecord(data []byte) (*core.TenantRecord, error) {
	record, _, err := core.TenantRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

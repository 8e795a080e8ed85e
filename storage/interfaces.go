package storage

import (
	"context"

	"github.com/openclass/tutorbot/core"
)

// TenantRepository provides operations for managing tenant ingestion
// records. Implementations must be thread-safe and support concurrent
// access.
type TenantRepository interface {
	// UpsertTenantRecord writes the record for its tenant, replacing any
	// existing record. Sets IngestedAt if not already set.
	// Returns the stored record.
	UpsertTenantRecord(ctx context.Context, record *core.TenantRecord) (*core.TenantRecord, error)

	// GetTenantRecord retrieves the record for a tenant.
	// Returns ErrNotFound if no record exists.
	GetTenantRecord(ctx context.Context, tenantID string) (*core.TenantRecord, error)

	// ListTenantRecords retrieves all tenant records, ordered by tenant ID.
	ListTenantRecords(ctx context.Context) ([]*core.TenantRecord, error)

	// DeleteTenantRecord removes a tenant's record.
	// Returns ErrNotFound if no record exists.
	DeleteTenantRecord(ctx context.Context, tenantID string) error

	// Close closes the storage backend and releases resources.
	Close() error
}

package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/storage"
)

// TenantRepository implements storage.TenantRepository for BadgerDB.
type TenantRepository struct {
	backend *Backend
}

var _ storage.TenantRepository = (*TenantRepository)(nil)

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(backend *Backend) (*TenantRepository, error) {
	return &TenantRepository{
		backend: backend,
	}, nil
}

// Close releases resources. TenantRepository has no resources to release.
func (r *TenantRepository) Close() error {
	return nil
}

// UpsertTenantRecord writes the record for its tenant. Re-ingesting a
// tenant replaces the previous record; the last write wins.
func (r *TenantRepository) UpsertTenantRecord(ctx context.Context, record *core.TenantRecord) (*core.TenantRecord, error) {
	if record.TenantID == "" {
		return nil, core.ErrEmptyTenantID
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if record.IngestedAt.IsZero() {
			record.IngestedAt = time.Now().UTC()
		}

		key := makeTenantKey(record.TenantID)
		if err := tx.Set(key, storage.MarshalTenantRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// GetTenantRecord retrieves the record for a tenant.
func (r *TenantRepository) GetTenantRecord(ctx context.Context, tenantID string) (*core.TenantRecord, error) {
	var result *core.TenantRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readTenantRecord(tx, makeTenantKey(tenantID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListTenantRecords retrieves all tenant records, ordered by tenant ID.
func (r *TenantRepository) ListTenantRecords(ctx context.Context) ([]*core.TenantRecord, error) {
	var results []*core.TenantRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tenantRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.TenantRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalTenantRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteTenantRecord removes a tenant's record.
func (r *TenantRepository) DeleteTenantRecord(ctx context.Context, tenantID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTenantKey(tenantID)

		record, err := readTenantRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readTenantRecord reads and deserializes a record within a transaction.
// Returns nil without error when the key does not exist.
func readTenantRecord(tx *badger.Txn, key []byte) (*core.TenantRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.TenantRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalTenantRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

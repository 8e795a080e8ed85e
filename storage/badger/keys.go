package badger

import "fmt"

// Key prefixes for different data types
const (
	tenantRecordPrefix = "tenrec"
)

// makeTenantKey generates a key for a tenant record by tenant ID.
func makeTenantKey(tenantID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", tenantRecordPrefix, tenantID))
}

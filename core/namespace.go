package core

import "strings"

// NamespacePrefix is prepended to every tenant's vector namespace key.
const NamespacePrefix = "tutor-chatbot-"

// NamespaceForTenant derives the deterministic vector namespace key for a
// tenant identifier: lowercased, non-alphanumeric characters stripped, and
// prefixed. "My Channel!" becomes "tutor-chatbot-mychannel".
//
// Returns ErrEmptyTenantID if the identifier sanitizes to nothing.
func NamespaceForTenant(tenantID string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(tenantID) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "", ErrEmptyTenantID
	}

	return NamespacePrefix + b.String(), nil
}

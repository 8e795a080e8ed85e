package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceForTenant(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		want     string
	}{
		{"plain lowercase", "mychannel", "tutor-chatbot-mychannel"},
		{"mixed case with punctuation", "My Channel!", "tutor-chatbot-mychannel"},
		{"digits preserved", "Code101", "tutor-chatbot-code101"},
		{"unicode stripped", "café-中文", "tutor-chatbot-caf"},
		{"leading and trailing symbols", "@@handle@@", "tutor-chatbot-handle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamespaceForTenant(tt.tenantID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNamespaceForTenant_Empty(t *testing.T) {
	for _, tenantID := range []string{"", "!!!", "   ", "—"} {
		_, err := NamespaceForTenant(tenantID)
		assert.ErrorIs(t, err, ErrEmptyTenantID, "tenant %q", tenantID)
	}
}

func TestNamespaceForTenant_Deterministic(t *testing.T) {
	a, err := NamespaceForTenant("My Channel!")
	require.NoError(t, err)
	b, err := NamespaceForTenant("my channel")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIDFromContent_Deterministic(t *testing.T) {
	a := IDFromContent("deadline is Friday")
	b := IDFromContent("deadline is Friday")
	c := IDFromContent("deadline is Saturday")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

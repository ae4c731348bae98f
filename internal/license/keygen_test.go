package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		key, err := GenerateKey()
		require.NoError(t, err)
		assert.True(t, ValidKeyFormat(key), "generated key %q should match format", key)
		assert.Len(t, key, 23) // ALQ + 4 groups of 4 + 4 dashes
	}
}

func TestGenerateKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		key, err := GenerateKey()
		require.NoError(t, err)
		require.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestValidKeyFormat(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"ALQ-1A2B-3C4D-5E6F-7A8B", true},
		{"ALQ-0000-FFFF-1234-ABCD", true},
		{"alq-1a2b-3c4d-5e6f-7a8b", false}, // lowercase
		{"XYZ-1A2B-3C4D-5E6F-7A8B", false}, // wrong prefix
		{"ALQ-1A2B-3C4D-5E6F", false},      // too few groups
		{"ALQ-1A2B-3C4D-5E6F-7A8B-9C0D", false},
		{"ALQ-1G2B-3C4D-5E6F-7A8B", false}, // non-hex
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidKeyFormat(tt.key), "key %q", tt.key)
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "ALQ-1A2B-3C4D-5E6F-7A8B", NormalizeKey("  alq-1a2b-3c4d-5e6f-7a8b\n"))
}

func TestMaskKey(t *testing.T) {
	masked := MaskKey("ALQ-1A2B-3C4D-5E6F-7A8B")
	assert.Equal(t, "ALQ-****-****-****-7A8B", masked)
	assert.Equal(t, "***", MaskKey("short"))
}

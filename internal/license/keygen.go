package license

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// KeyPrefix is the product prefix on every license key.
const KeyPrefix = "ALQ"

var keyPattern = regexp.MustCompile(`^ALQ(-[0-9A-F]{4}){4}$`)

// GenerateKey returns a fresh license key in the ALQ-XXXX-XXXX-XXXX-XXXX
// format: four groups of four upper-hex characters, two random bytes each.
// Keys carry no information about the license they index.
func GenerateKey() (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	groups := make([]string, 4)
	for i := 0; i < 4; i++ {
		groups[i] = fmt.Sprintf("%02X%02X", raw[2*i], raw[2*i+1])
	}
	return KeyPrefix + "-" + strings.Join(groups, "-"), nil
}

// ValidKeyFormat reports whether a key matches the distributable format.
func ValidKeyFormat(key string) bool {
	return keyPattern.MatchString(key)
}

// NormalizeKey upper-cases a key and strips surrounding whitespace so keys
// pasted from mail clients still look up correctly.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// MaskKey redacts a license key for logging, keeping only the prefix and
// the last group.
func MaskKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:4] + "****-****-****-" + key[len(key)-4:]
}

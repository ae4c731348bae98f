package license

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Signer computes and verifies the HMAC binding a license's
// security-relevant fields to the installation secret.
//
// The canonical payload covers exactly {id, key, organization_id, plan,
// limits, expires_at}. Issuer and verifier must agree byte for byte, so
// the serialization below is fixed: pipe-joined key=value pairs, limits
// sorted by key, expiry in RFC3339 UTC.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer bound to the installation secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// CanonicalPayload serializes the signed field subset deterministically.
func CanonicalPayload(l *License) []byte {
	keys := make([]string, 0, len(l.Limits))
	for k := range l.Limits {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	limits := make([]string, len(keys))
	for i, k := range keys {
		limits[i] = fmt.Sprintf("%s:%d", k, l.Limits[k])
	}

	payload := fmt.Sprintf("id=%s|key=%s|org=%s|plan=%s|limits=%s|expires=%s",
		l.ID,
		l.Key,
		l.OrganizationID,
		l.Plan,
		strings.Join(limits, ","),
		l.ExpiresAt.UTC().Format(time.RFC3339),
	)
	return []byte(payload)
}

// Sign returns the hex-encoded HMAC-SHA256 of the canonical payload.
func (s *Signer) Sign(l *License) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write(CanonicalPayload(l))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the signature and compares it to the stored one in
// constant time.
func (s *Signer) Verify(l *License) bool {
	expected := s.Sign(l)
	return hmac.Equal([]byte(expected), []byte(l.Signature))
}

package license

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/scrypt"

	apperrors "alqcore/internal/errors"
)

// Offline blob layout: base64( IV(16) || authTag(16) || ciphertext ).
const (
	codecIVSize  = 16
	codecTagSize = 16

	// scrypt parameters: OWASP minimum cost, 32-byte key for AES-256.
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// codecSalt is fixed so that two installations sharing a secret produce
// interchangeable blobs. A per-blob random salt would change the wire
// format; see DESIGN.md.
const codecSalt = "alq-license-export-v1"

// Codec packages a serialized license for distribution outside the
// managing process using AES-256-GCM under a scrypt-derived key.
//
// Decryption only proves the blob came from a holder of the secret; the
// caller must still verify the recovered license's signature before
// trusting it.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec bound to the installation secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) deriveKey() ([]byte, error) {
	return scrypt.Key(c.secret, []byte(codecSalt), scryptN, scryptR, scryptP, scryptKeyLen)
}

// Encrypt seals the payload and returns the base64 blob.
func (c *Codec) Encrypt(payload []byte) (string, error) {
	key, err := c.deriveKey()
	if err != nil {
		return "", fmt.Errorf("key derivation failed: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, codecIVSize)
	if err != nil {
		return "", fmt.Errorf("create GCM: %w", err)
	}

	iv := make([]byte, codecIVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate IV: %w", err)
	}

	// Seal appends the auth tag after the ciphertext; the wire format
	// wants IV || tag || ciphertext.
	sealed := gcm.Seal(nil, iv, payload, nil)
	tag := sealed[len(sealed)-codecTagSize:]
	ciphertext := sealed[:len(sealed)-codecTagSize]

	blob := make([]byte, 0, codecIVSize+codecTagSize+len(ciphertext))
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by Encrypt. Any authentication failure,
// wrong secret, or malformed blob yields ErrDecryptionFailed; garbage is
// never returned.
func (c *Codec) Decrypt(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64", apperrors.ErrDecryptionFailed)
	}
	if len(raw) < codecIVSize+codecTagSize {
		return nil, fmt.Errorf("%w: blob too short", apperrors.ErrDecryptionFailed)
	}

	key, err := c.deriveKey()
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, codecIVSize)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	iv := raw[:codecIVSize]
	tag := raw[codecIVSize : codecIVSize+codecTagSize]
	ciphertext := raw[codecIVSize+codecTagSize:]

	sealed := make([]byte, 0, len(ciphertext)+codecTagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	payload, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", apperrors.ErrDecryptionFailed)
	}
	return payload, nil
}

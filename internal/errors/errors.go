// Package errors defines the typed error taxonomy for the license core.
//
// Domain errors are sentinel values so callers can branch with errors.Is;
// the transport layer maps them to RFC 7807 problem responses.
package errors

import "errors"

// Domain errors raised by mutating license operations.
var (
	ErrLicenseNotFound       = errors.New("license not found")
	ErrInvalidPlan           = errors.New("invalid plan")
	ErrSignatureInvalid      = errors.New("license signature invalid")
	ErrLicenseInactive       = errors.New("license inactive")
	ErrLicenseExpired        = errors.New("license expired")
	ErrMaxActivationsReached = errors.New("maximum activations reached")
	ErrNotActivated          = errors.New("machine not activated")
	ErrDecryptionFailed      = errors.New("decryption failed")
	ErrUnknownResource       = errors.New("unknown usage resource")
	ErrLicenseExists         = errors.New("license already exists")
)

// Error codes carried by validation-style results and problem responses.
const (
	CodeNotFound         = "LICENSE_NOT_FOUND"
	CodeInvalidPlan      = "INVALID_PLAN"
	CodeSignatureInvalid = "SIGNATURE_INVALID"
	CodeSuspended        = "LICENSE_SUSPENDED"
	CodeCancelled        = "LICENSE_CANCELLED"
	CodeExpired          = "LICENSE_EXPIRED"
	CodeMaxActivations   = "MAX_ACTIVATIONS"
	CodeNotActivated     = "NOT_ACTIVATED"
	CodeDecryptionFailed = "DECRYPTION_FAILED"
	CodeValid            = "VALID"
)

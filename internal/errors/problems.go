package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON custom marshaler to include extensions
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{})
	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}
	for k, v := range pd.Extensions {
		data[k] = v
	}
	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// Problem maps a domain error to an RFC 7807 problem response. Unrecognized
// errors become a generic 500 so internals never leak to collaborators.
func Problem(err error, instance string) *ProblemDetails {
	switch {
	case errors.Is(err, ErrLicenseNotFound):
		return NewProblemDetails(http.StatusNotFound, "/errors/license-not-found",
			"License Not Found", "The specified license key was not found.", instance).
			WithExtension("code", CodeNotFound)
	case errors.Is(err, ErrInvalidPlan):
		return NewProblemDetails(http.StatusBadRequest, "/errors/invalid-plan",
			"Invalid Plan", "The plan identifier is not in the catalog.", instance).
			WithExtension("code", CodeInvalidPlan)
	case errors.Is(err, ErrSignatureInvalid):
		return NewProblemDetails(http.StatusForbidden, "/errors/signature-invalid",
			"Signature Invalid", "The license signature does not match its contents.", instance).
			WithExtension("code", CodeSignatureInvalid)
	case errors.Is(err, ErrLicenseExpired):
		return NewProblemDetails(http.StatusForbidden, "/errors/license-expired",
			"License Expired", "The license has expired. Renew to continue.", instance).
			WithExtension("code", CodeExpired)
	case errors.Is(err, ErrLicenseInactive):
		return NewProblemDetails(http.StatusForbidden, "/errors/license-inactive",
			"License Inactive", "The license is suspended or cancelled.", instance).
			WithExtension("code", CodeSuspended)
	case errors.Is(err, ErrMaxActivationsReached):
		return NewProblemDetails(http.StatusConflict, "/errors/max-activations",
			"Maximum Activations Reached", "All activation slots for this license are in use.", instance).
			WithExtension("code", CodeMaxActivations)
	case errors.Is(err, ErrNotActivated):
		return NewProblemDetails(http.StatusPreconditionRequired, "/errors/not-activated",
			"Machine Not Activated", "No activation exists for the given machine.", instance).
			WithExtension("code", CodeNotActivated)
	case errors.Is(err, ErrDecryptionFailed):
		return NewProblemDetails(http.StatusBadRequest, "/errors/decryption-failed",
			"Decryption Failed", "The offline license blob could not be authenticated.", instance).
			WithExtension("code", CodeDecryptionFailed)
	case errors.Is(err, ErrLicenseExists):
		return NewProblemDetails(http.StatusConflict, "/errors/license-exists",
			"License Already Exists", "A license with this key is already registered.", instance)
	case errors.Is(err, ErrUnknownResource):
		return NewProblemDetails(http.StatusBadRequest, "/errors/unknown-resource",
			"Unknown Resource", "The usage resource type is not metered.", instance)
	default:
		return NewProblemDetails(http.StatusInternalServerError, "/errors/internal",
			"Internal Server Error", "An unexpected error occurred.", instance)
	}
}

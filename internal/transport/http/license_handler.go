// Package http exposes the license lifecycle over a chi-routed REST API.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "alqcore/internal/errors"
	"alqcore/internal/license"
)

var validate = validator.New()

// LicenseHandler serves the license lifecycle endpoints.
type LicenseHandler struct {
	service *license.Service
	logger  *slog.Logger
}

// NewLicenseHandler creates a handler over the lifecycle service.
func NewLicenseHandler(service *license.Service, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "license")),
	}
}

// Routes mounts all license endpoints.
func (h *LicenseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/import", h.Import)

	r.Route("/{key}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/validate", h.Validate)
		r.Post("/activate", h.Activate)
		r.Post("/deactivate", h.Deactivate)
		r.Post("/renew", h.Renew)
		r.Post("/suspend", h.Suspend)
		r.Post("/cancel", h.Cancel)
		r.Post("/upgrade", h.Upgrade)
		r.Get("/export", h.Export)
		r.Get("/execution-limit", h.ExecutionLimit)
		r.Get("/agents/{agentID}", h.AgentAccess)
	})

	return r
}

// --- requests ---

// CreateRequest issues a new license for an organization.
type CreateRequest struct {
	Plan           string             `json:"plan" validate:"required"`
	OrganizationID string             `json:"organization_id" validate:"required"`
	Overrides      *license.Overrides `json:"overrides,omitempty"`
}

func (req *CreateRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// ValidateRequest carries the optional machine identity for validation.
type ValidateRequest struct {
	MachineID string `json:"machine_id,omitempty"`
}

func (req *ValidateRequest) Bind(r *http.Request) error { return nil }

// ActivateRequest binds a machine to a license.
type ActivateRequest struct {
	MachineID string `json:"machine_id" validate:"required"`
	Name      string `json:"name,omitempty"`
	OS        string `json:"os,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
	Username  string `json:"username,omitempty"`
}

func (req *ActivateRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// DeactivateRequest releases a machine's activation slot.
type DeactivateRequest struct {
	MachineID string `json:"machine_id" validate:"required"`
}

func (req *DeactivateRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// RenewRequest extends a license's expiry.
type RenewRequest struct {
	ExtensionDays int `json:"extension_days" validate:"required,gt=0"`
}

func (req *RenewRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// ReasonRequest carries the operator reason for suspend and cancel.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (req *ReasonRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// UpgradeRequest moves a license onto a new plan.
type UpgradeRequest struct {
	Plan string `json:"plan" validate:"required"`
}

func (req *UpgradeRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// UsageRequest increments a metered usage counter.
type UsageRequest struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Resource       string `json:"resource" validate:"required"`
	Amount         int64  `json:"amount,omitempty"`
}

func (req *UsageRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// ImportRequest carries an offline license blob.
type ImportRequest struct {
	Blob string `json:"blob" validate:"required"`
}

func (req *ImportRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// --- handlers ---

func (h *LicenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := &CreateRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	l, err := h.service.CreateLicense(r.Context(), req.Plan, req.OrganizationID, req.Overrides)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, license.Project(l))
}

func (h *LicenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetLicense(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

func (h *LicenseHandler) List(w http.ResponseWriter, r *http.Request) {
	f := license.Filter{
		OrganizationID: r.URL.Query().Get("organization_id"),
		Status:         license.Status(r.URL.Query().Get("status")),
		Plan:           r.URL.Query().Get("plan"),
	}
	render.JSON(w, r, map[string]interface{}{
		"licenses": h.service.ListLicenses(r.Context(), f),
	})
}

func (h *LicenseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req := &ValidateRequest{}
	// Validation accepts an empty body; machine identity is optional.
	_ = render.Bind(r, req)

	result := h.service.ValidateLicense(r.Context(), chi.URLParam(r, "key"), req.MachineID)
	render.JSON(w, r, result)
}

func (h *LicenseHandler) Activate(w http.ResponseWriter, r *http.Request) {
	req := &ActivateRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	activation, err := h.service.ActivateLicense(r.Context(), chi.URLParam(r, "key"), license.MachineInfo{
		MachineID: req.MachineID,
		Name:      req.Name,
		OS:        req.OS,
		Hostname:  req.Hostname,
		Username:  req.Username,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, activation)
}

func (h *LicenseHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	req := &DeactivateRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	if err := h.service.DeactivateLicense(r.Context(), chi.URLParam(r, "key"), req.MachineID); err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "deactivated"})
}

func (h *LicenseHandler) Renew(w http.ResponseWriter, r *http.Request) {
	req := &RenewRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	l, err := h.service.RenewLicense(r.Context(), chi.URLParam(r, "key"), req.ExtensionDays)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, license.Project(l))
}

func (h *LicenseHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	req := &ReasonRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	if err := h.service.SuspendLicense(r.Context(), chi.URLParam(r, "key"), req.Reason); err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "suspended"})
}

func (h *LicenseHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	req := &ReasonRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	if err := h.service.CancelLicense(r.Context(), chi.URLParam(r, "key"), req.Reason); err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "cancelled"})
}

func (h *LicenseHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	req := &UpgradeRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	l, err := h.service.UpgradeLicense(r.Context(), chi.URLParam(r, "key"), req.Plan)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, license.Project(l))
}

func (h *LicenseHandler) AgentAccess(w http.ResponseWriter, r *http.Request) {
	result := h.service.IsAgentAllowed(r.Context(),
		chi.URLParam(r, "key"), chi.URLParam(r, "agentID"))
	render.JSON(w, r, result)
}

func (h *LicenseHandler) ExecutionLimit(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CheckExecutionLimit(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *LicenseHandler) Export(w http.ResponseWriter, r *http.Request) {
	blob, err := h.service.ExportLicense(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{
		"blob":        blob,
		"exported_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *LicenseHandler) Import(w http.ResponseWriter, r *http.Request) {
	req := &ImportRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	l, err := h.service.ImportLicense(r.Context(), req.Blob)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, license.Project(l))
}

// --- usage endpoints (mounted separately under /api/usage) ---

// UsageRoutes mounts the usage metering endpoints.
func (h *LicenseHandler) UsageRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.RecordUsage)
	r.Get("/{organizationID}", h.CurrentUsage)
	return r
}

func (h *LicenseHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	req := &UsageRequest{}
	if err := render.Bind(r, req); err != nil {
		h.renderInvalid(w, r, err)
		return
	}

	rec, err := h.service.RecordUsage(r.Context(), req.OrganizationID, req.Resource, req.Amount)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, rec)
}

func (h *LicenseHandler) CurrentUsage(w http.ResponseWriter, r *http.Request) {
	rec := h.service.CurrentUsage(r.Context(), chi.URLParam(r, "organizationID"))
	render.JSON(w, r, rec)
}

// --- error rendering ---

func (h *LicenseHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	problem := apperrors.Problem(err, r.URL.Path)
	if problem.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	h.writeProblem(w, problem)
}

func (h *LicenseHandler) renderInvalid(w http.ResponseWriter, r *http.Request, err error) {
	h.writeProblem(w, apperrors.NewProblemDetails(http.StatusBadRequest, "/errors/validation",
		"Validation Error", err.Error(), r.URL.Path))
}

// writeProblem bypasses render.JSON so the RFC 7807 media type survives.
func (h *LicenseHandler) writeProblem(w http.ResponseWriter, problem *apperrors.ProblemDetails) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		h.logger.Error("encode problem response", slog.String("error", err.Error()))
	}
}

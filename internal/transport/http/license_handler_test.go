package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alqcore/internal/license"
	"alqcore/internal/shared/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := license.NewService(license.Options{Secret: "test-installation-secret"},
		license.DefaultCatalog(), license.NewStore(), logger, nil)
	handler := NewLicenseHandler(svc, logger)

	r := chi.NewRouter()
	r.Mount("/api/license", handler.Routes())
	r.Mount("/api/usage", handler.UsageRoutes())
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createLicense(t *testing.T, router http.Handler, plan, org string) *license.SafeView {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/license", map[string]any{
		"plan":            plan,
		"organization_id": org,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view license.SafeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return &view
}

func TestLicenseHandler_CreateAndGet(t *testing.T) {
	router := newTestRouter(t)

	view := createLicense(t, router, "starter", "org-acme")
	assert.True(t, license.ValidKeyFormat(view.Key))
	assert.Equal(t, "starter", view.Plan)
	assert.NotEmpty(t, view.Signature)

	rec := doJSON(t, router, http.MethodGet, "/api/license/"+view.Key, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got license.SafeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, view.ID, got.ID)
}

func TestLicenseHandler_CreateValidationError(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/license", map[string]any{
		"organization_id": "org-acme", // plan missing
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestLicenseHandler_CreateUnknownPlan(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/license", map[string]any{
		"plan":            "platinum",
		"organization_id": "org-acme",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/invalid-plan", problem["type"])
	assert.Equal(t, "INVALID_PLAN", problem["code"])
}

func TestLicenseHandler_GetNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/license/ALQ-0000-0000-0000-0000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "LICENSE_NOT_FOUND", problem["code"])
}

func TestLicenseHandler_ValidateFlow(t *testing.T) {
	router := newTestRouter(t)
	view := createLicense(t, router, "starter", "org-acme")

	rec := doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/validate", map[string]any{
		"machine_id": "machine-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result license.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, "VALID", result.Code)
	require.NotNil(t, result.Machine)
	assert.True(t, result.Machine.CanActivate)
}

func TestLicenseHandler_ActivationCap(t *testing.T) {
	router := newTestRouter(t)
	view := createLicense(t, router, "trial", "org-acme") // cap 1

	rec := doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/activate", map[string]any{
		"machine_id": "machine-1",
		"os":         "linux",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/activate", map[string]any{
		"machine_id": "machine-2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "MAX_ACTIVATIONS", problem["code"])

	// Deactivate frees the slot.
	rec = doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/deactivate", map[string]any{
		"machine_id": "machine-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/activate", map[string]any{
		"machine_id": "machine-2",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLicenseHandler_LifecycleEndpoints(t *testing.T) {
	router := newTestRouter(t)
	view := createLicense(t, router, "starter", "org-acme")

	rec := doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/renew", map[string]any{
		"extension_days": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var renewed license.SafeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &renewed))
	assert.True(t, renewed.ExpiresAt.After(view.ExpiresAt))

	rec = doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/upgrade", map[string]any{
		"plan": "professional",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/suspend", map[string]any{
		"reason": "payment failed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/cancel", map[string]any{
		"reason": "customer request",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Cancelled is terminal: renew now fails with 403.
	rec = doJSON(t, router, http.MethodPost, "/api/license/"+view.Key+"/renew", map[string]any{
		"extension_days": 30,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLicenseHandler_AgentAccess(t *testing.T) {
	router := newTestRouter(t)
	view := createLicense(t, router, "starter", "org-acme")

	rec := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/license/%s/agents/web-scraper", view.Key), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result license.AgentAccessResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Allowed)

	rec = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/license/%s/agents/ai-copilot", view.Key), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Allowed)
	assert.Equal(t, "PURCHASE_ADDON", result.Code)
}

func TestLicenseHandler_UsageEndpoints(t *testing.T) {
	router := newTestRouter(t)
	view := createLicense(t, router, "trial", "org-acme")

	for _, amount := range []int64{5, 3} {
		rec := doJSON(t, router, http.MethodPost, "/api/usage", map[string]any{
			"organization_id": "org-acme",
			"resource":        "executions",
			"amount":          amount,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, router, http.MethodGet, "/api/usage/org-acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var usage license.UsageRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usage))
	assert.Equal(t, int64(8), usage.Executions)

	rec = doJSON(t, router, http.MethodGet, "/api/license/"+view.Key+"/execution-limit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var limit license.ExecutionLimitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &limit))
	assert.True(t, limit.Allowed)
	assert.Equal(t, int64(8), limit.Used)
	assert.Equal(t, int64(92), limit.Remaining)
}

func TestLicenseHandler_ExportImport(t *testing.T) {
	source := newTestRouter(t)
	target := newTestRouter(t)

	view := createLicense(t, source, "professional", "org-acme")

	rec := doJSON(t, source, http.MethodGet, "/api/license/"+view.Key+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var exported map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	require.NotEmpty(t, exported["blob"])

	rec = doJSON(t, target, http.MethodPost, "/api/license/import", map[string]any{
		"blob": exported["blob"],
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var imported license.SafeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	assert.Equal(t, view.Key, imported.Key)

	// Garbage blob is a 400 problem.
	rec = doJSON(t, target, http.MethodPost, "/api/license/import", map[string]any{
		"blob": "not-a-real-blob",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLicenseHandler_ListFilters(t *testing.T) {
	router := newTestRouter(t)
	createLicense(t, router, "starter", "org-one")
	createLicense(t, router, "professional", "org-two")

	rec := doJSON(t, router, http.MethodGet, "/api/license?organization_id=org-one", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Licenses []*license.SafeView `json:"licenses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Licenses, 1)
	assert.Equal(t, "org-one", body.Licenses[0].OrganizationID)
}

package license

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apperrors "alqcore/internal/errors"
)

// Options configures a Service.
type Options struct {
	// Secret is the installation secret used for signing and offline export.
	Secret string
	// DefaultExpiryDays is the expiry window applied when neither an
	// override nor a plan trial duration is present. Defaults to 30.
	DefaultExpiryDays int
	// EventBuffer is the capacity of the domain event channel. Defaults to 64.
	EventBuffer int
}

// Service is the license lifecycle: it orchestrates the store, signer,
// codec, activation manager, and usage meter, and emits domain events.
type Service struct {
	store       *Store
	signer      *Signer
	codec       *Codec
	catalog     *Catalog
	meter       *UsageMeter
	activations *ActivationManager
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer

	events            chan Event
	defaultExpiryDays int
	now               func() time.Time
}

// ValidationResult is the layered outcome of ValidateLicense. It is a
// structured business result, not an error: callers branch on Code.
type ValidationResult struct {
	Valid   bool          `json:"valid"`
	Code    string        `json:"code"`
	Message string        `json:"message,omitempty"`
	License *SafeView     `json:"license,omitempty"`
	Machine *MachineState `json:"machine,omitempty"`
}

// MachineState reports activation standing for the machine a caller
// validated with. Validation never consumes a slot.
type MachineState struct {
	Activated      bool `json:"activated"`
	CanActivate    bool `json:"can_activate"`
	SlotsRemaining int  `json:"slots_remaining"`
}

// AgentAccessResult is the outcome of IsAgentAllowed.
type AgentAccessResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Overrides optionally adjusts a license at creation beyond its plan.
type Overrides struct {
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	MaxActivations *int             `json:"max_activations,omitempty"`
	Limits         map[string]int64 `json:"limits,omitempty"`
	Features       []string         `json:"features,omitempty"`
	PremiumAgents  []string         `json:"premium_agents,omitempty"`
	CustomerID     string           `json:"customer_id,omitempty"`
	SubscriptionID string           `json:"subscription_id,omitempty"`
}

// NewService wires the license core together. The logger is required;
// metrics may be nil, in which case instruments are skipped.
func NewService(opts Options, catalog *Catalog, store *Store, logger *slog.Logger, metrics *Metrics) *Service {
	if opts.DefaultExpiryDays <= 0 {
		opts.DefaultExpiryDays = 30
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}
	return &Service{
		store:             store,
		signer:            NewSigner(opts.Secret),
		codec:             NewCodec(opts.Secret),
		catalog:           catalog,
		meter:             NewUsageMeter(store),
		activations:       NewActivationManager(),
		logger:            logger.With(slog.String("component", "license_service")),
		metrics:           metrics,
		tracer:            otel.Tracer(TracerName),
		events:            make(chan Event, opts.EventBuffer),
		defaultExpiryDays: opts.DefaultExpiryDays,
		now:               time.Now,
	}
}

// Events exposes the domain event stream. The channel is never closed by
// the service; consumers should drain until their own shutdown.
func (s *Service) Events() <-chan Event {
	return s.events
}

// CreateLicense issues, signs, and stores a new license for the plan.
func (s *Service) CreateLicense(ctx context.Context, planID, organizationID string, overrides *Overrides) (_ *License, err error) {
	ctx, span := s.startSpan(ctx, "license.create",
		attribute.String("license.plan", planID),
		attribute.String("license.organization", organizationID),
	)
	defer func() { endSpan(span, err) }()
	defer s.observe(ctx, "license_create", time.Now())

	plan, err := s.catalog.Plan(planID)
	if err != nil {
		return nil, err
	}

	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	now := s.now()
	l := &License{
		ID:             uuid.NewString(),
		Key:            key,
		OrganizationID: organizationID,
		Plan:           plan.ID,
		Type:           plan.Type,
		Limits:         cloneLimits(plan.Limits),
		Features:       append([]string(nil), plan.Features...),
		Amount:         plan.Amount,
		Currency:       plan.Currency,
		Interval:       plan.Interval,
		IssuedAt:       now,
		MaxActivations: plan.MaxActivations,
		Activations:    []*Activation{},
		Status:         StatusActive,
	}

	l.ExpiresAt = s.expiryFor(plan, now, overrides)

	if overrides != nil {
		for k, v := range overrides.Limits {
			l.Limits[k] = v
		}
		if overrides.MaxActivations != nil {
			l.MaxActivations = *overrides.MaxActivations
		}
		if len(overrides.Features) > 0 {
			l.Features = append([]string(nil), overrides.Features...)
		}
		l.PremiumAgents = append([]string(nil), overrides.PremiumAgents...)
		l.CustomerID = overrides.CustomerID
		l.SubscriptionID = overrides.SubscriptionID
	}

	l.Signature = s.signer.Sign(l)

	if err := s.store.Create(l); err != nil {
		return nil, err
	}

	s.count(ctx, s.metricsCreated(), attribute.String("plan", plan.ID))
	s.logInfo(ctx, "license_create", "license issued",
		slog.String("license_id", l.ID),
		slog.String("key_masked", MaskKey(l.Key)),
		slog.String("plan", plan.ID),
		slog.String("organization_id", organizationID),
		slog.Time("expires_at", l.ExpiresAt),
	)
	s.publish(ctx, EventCreated, l)

	return l.clone(), nil
}

func (s *Service) expiryFor(plan *Plan, now time.Time, overrides *Overrides) time.Time {
	if overrides != nil && overrides.ExpiresAt != nil {
		return *overrides.ExpiresAt
	}
	if plan.TrialDays > 0 {
		return now.AddDate(0, 0, plan.TrialDays)
	}
	return now.AddDate(0, 0, s.defaultExpiryDays)
}

// ValidateLicense runs the layered validity checks. The only state it may
// change is the lazy transition to expired and, when machineID matches an
// activation, that activation's LastSeen.
func (s *Service) ValidateLicense(ctx context.Context, key, machineID string) *ValidationResult {
	ctx, span := s.startSpan(ctx, "license.validation",
		attribute.String("license.key_masked", MaskKey(key)),
	)
	defer span.End()
	defer s.observe(ctx, "license_validation", time.Now())
	s.count(ctx, s.metricsValidation())

	result := &ValidationResult{}
	err := s.store.Update(NormalizeKey(key), func(l *License) error {
		now := s.now()

		if !s.signer.Verify(l) {
			result.Code = apperrors.CodeSignatureInvalid
			result.Message = "license signature does not match its contents"
			return nil
		}

		switch l.Status {
		case StatusSuspended:
			result.Code = apperrors.CodeSuspended
			result.Message = fmt.Sprintf("license is suspended: %s", l.SuspendReason)
			return nil
		case StatusCancelled:
			result.Code = apperrors.CodeCancelled
			result.Message = fmt.Sprintf("license is cancelled: %s", l.CancelReason)
			return nil
		case StatusExpired:
			result.Code = apperrors.CodeExpired
			result.Message = fmt.Sprintf("license expired on %s", l.ExpiresAt.Format("2006-01-02"))
			return nil
		}

		if now.After(l.ExpiresAt) {
			// Expiry is discovered lazily: validation transitions the
			// stored license so subsequent reads agree.
			l.Status = StatusExpired
			result.Code = apperrors.CodeExpired
			result.Message = fmt.Sprintf("license expired on %s", l.ExpiresAt.Format("2006-01-02"))
			s.logWarn(ctx, "license_validation", "license lazily marked expired",
				slog.String("key_masked", MaskKey(l.Key)),
				slog.Time("expires_at", l.ExpiresAt),
			)
			return nil
		}

		result.Valid = true
		result.Code = apperrors.CodeValid
		if machineID != "" {
			activated := s.activations.Touch(l, machineID)
			remaining := l.MaxActivations - len(l.Activations)
			result.Machine = &MachineState{
				Activated:      activated,
				CanActivate:    activated || remaining > 0,
				SlotsRemaining: remaining,
			}
		}
		result.License = Project(l)
		return nil
	})

	if err != nil {
		result.Code = apperrors.CodeNotFound
		result.Message = "license key not found"
	}
	if !result.Valid {
		s.count(ctx, s.metricsValidationFailed(), attribute.String("code", result.Code))
	}
	span.SetAttributes(
		attribute.Bool("license.valid", result.Valid),
		attribute.String("license.code", result.Code),
	)
	return result
}

// ActivateLicense binds a machine to the license, consuming one slot
// unless the machine is already activated.
func (s *Service) ActivateLicense(ctx context.Context, key string, info MachineInfo) (_ *Activation, err error) {
	ctx, span := s.startSpan(ctx, "license.activation",
		attribute.String("license.key_masked", MaskKey(key)),
	)
	defer func() { endSpan(span, err) }()
	defer s.observe(ctx, "license_activation", time.Now())
	s.count(ctx, s.metricsActivation())

	var activation *Activation
	var consumedSlot bool
	err = s.store.Update(NormalizeKey(key), func(l *License) error {
		now := s.now()

		if !s.signer.Verify(l) {
			return apperrors.ErrSignatureInvalid
		}
		switch l.Status {
		case StatusSuspended, StatusCancelled:
			return fmt.Errorf("%w: status %s", apperrors.ErrLicenseInactive, l.Status)
		case StatusExpired:
			return apperrors.ErrLicenseExpired
		}
		if now.After(l.ExpiresAt) {
			l.Status = StatusExpired
			return apperrors.ErrLicenseExpired
		}

		before := len(l.Activations)
		a, err := s.activations.Activate(l, info)
		if err != nil {
			return err
		}
		activation = a
		consumedSlot = len(l.Activations) > before

		if consumedSlot {
			s.publish(ctx, EventActivated, l)
		}
		return nil
	})
	if err != nil {
		s.count(ctx, s.metricsActivationFailed())
		s.logWarn(ctx, "license_activation", "activation failed",
			slog.String("key_masked", MaskKey(key)),
			slog.String("machine_id", info.MachineID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logInfo(ctx, "license_activation", "machine activated",
		slog.String("key_masked", MaskKey(key)),
		slog.String("machine_id", info.MachineID),
		slog.Bool("new_slot", consumedSlot),
	)
	return activation, nil
}

// DeactivateLicense releases the machine's activation slot.
func (s *Service) DeactivateLicense(ctx context.Context, key, machineID string) (err error) {
	ctx, span := s.startSpan(ctx, "license.deactivation",
		attribute.String("license.key_masked", MaskKey(key)),
	)
	defer func() { endSpan(span, err) }()

	err = s.store.Update(NormalizeKey(key), func(l *License) error {
		if err := s.activations.Deactivate(l, machineID); err != nil {
			return err
		}
		s.publish(ctx, EventDeactivated, l)
		return nil
	})
	if err != nil {
		return err
	}
	s.logInfo(ctx, "license_deactivation", "machine deactivated",
		slog.String("key_masked", MaskKey(key)),
		slog.String("machine_id", machineID),
	)
	return nil
}

// RenewLicense extends expiry by extensionDays from max(current expiry,
// now). An expired license comes back active; a suspended one stays
// suspended until explicitly lifted; a cancelled one cannot be renewed.
func (s *Service) RenewLicense(ctx context.Context, key string, extensionDays int) (_ *License, err error) {
	ctx, span := s.startSpan(ctx, "license.renewal",
		attribute.String("license.key_masked", MaskKey(key)),
		attribute.Int("license.extension_days", extensionDays),
	)
	defer func() { endSpan(span, err) }()

	var renewed *License
	err = s.store.Update(NormalizeKey(key), func(l *License) error {
		now := s.now()

		if l.Status == StatusCancelled {
			return fmt.Errorf("%w: status %s", apperrors.ErrLicenseInactive, l.Status)
		}

		base := l.ExpiresAt
		if now.After(base) {
			base = now
		}
		l.ExpiresAt = base.AddDate(0, 0, extensionDays)
		l.LastRenewedAt = now
		if l.Status == StatusExpired {
			l.Status = StatusActive
		}
		l.Signature = s.signer.Sign(l)

		renewed = l.clone()
		s.publish(ctx, EventRenewed, l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, "license_renewal", "license renewed",
		slog.String("key_masked", MaskKey(key)),
		slog.Int("extension_days", extensionDays),
		slog.Time("expires_at", renewed.ExpiresAt),
		slog.String("status", string(renewed.Status)),
	)
	return renewed, nil
}

// SuspendLicense administratively blocks the license.
func (s *Service) SuspendLicense(ctx context.Context, key, reason string) (err error) {
	ctx, span := s.startSpan(ctx, "license.suspension",
		attribute.String("license.key_masked", MaskKey(key)),
	)
	defer func() { endSpan(span, err) }()

	err = s.store.Update(NormalizeKey(key), func(l *License) error {
		if l.Status == StatusCancelled {
			return fmt.Errorf("%w: status %s", apperrors.ErrLicenseInactive, l.Status)
		}
		l.Status = StatusSuspended
		l.SuspendReason = reason
		l.SuspendedAt = s.now()
		s.publish(ctx, EventSuspended, l)
		return nil
	})
	if err != nil {
		return err
	}
	s.logInfo(ctx, "license_suspension", "license suspended",
		slog.String("key_masked", MaskKey(key)),
		slog.String("reason", reason),
	)
	return nil
}

// CancelLicense terminally revokes the license. No operation can move a
// license out of cancelled.
func (s *Service) CancelLicense(ctx context.Context, key, reason string) (err error) {
	ctx, span := s.startSpan(ctx, "license.cancellation",
		attribute.String("license.key_masked", MaskKey(key)),
	)
	defer func() { endSpan(span, err) }()

	err = s.store.Update(NormalizeKey(key), func(l *License) error {
		if l.Status == StatusCancelled {
			return fmt.Errorf("%w: status %s", apperrors.ErrLicenseInactive, l.Status)
		}
		l.Status = StatusCancelled
		l.CancelReason = reason
		l.CancelledAt = s.now()
		s.publish(ctx, EventCancelled, l)
		return nil
	})
	if err != nil {
		return err
	}
	s.logInfo(ctx, "license_cancellation", "license cancelled",
		slog.String("key_masked", MaskKey(key)),
		slog.String("reason", reason),
	)
	return nil
}

// UpgradeLicense replaces entitlement and billing snapshot wholesale from
// the new plan's catalog entry. Custom per-license overrides do not
// survive an upgrade.
func (s *Service) UpgradeLicense(ctx context.Context, key, newPlanID string) (_ *License, err error) {
	ctx, span := s.startSpan(ctx, "license.upgrade",
		attribute.String("license.key_masked", MaskKey(key)),
		attribute.String("license.plan", newPlanID),
	)
	defer func() { endSpan(span, err) }()

	plan, err := s.catalog.Plan(newPlanID)
	if err != nil {
		return nil, err
	}

	var upgraded *License
	err = s.store.Update(NormalizeKey(key), func(l *License) error {
		if l.Status == StatusCancelled {
			return fmt.Errorf("%w: status %s", apperrors.ErrLicenseInactive, l.Status)
		}
		l.Plan = plan.ID
		l.Type = plan.Type
		l.Limits = cloneLimits(plan.Limits)
		l.Features = append([]string(nil), plan.Features...)
		l.Amount = plan.Amount
		l.Currency = plan.Currency
		l.Interval = plan.Interval
		l.MaxActivations = plan.MaxActivations
		l.Signature = s.signer.Sign(l)

		upgraded = l.clone()
		s.publish(ctx, EventUpgraded, l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, "license_upgrade", "license upgraded",
		slog.String("key_masked", MaskKey(key)),
		slog.String("plan", plan.ID),
	)
	return upgraded, nil
}

// IsAgentAllowed reports whether the license may run the agent, and if
// not, whether the fix is purchasing an add-on or upgrading the plan.
func (s *Service) IsAgentAllowed(ctx context.Context, key, agentID string) *AgentAccessResult {
	l, err := s.store.Get(NormalizeKey(key))
	if err != nil {
		return &AgentAccessResult{Allowed: false, Code: apperrors.CodeNotFound, Reason: "license key not found"}
	}

	if l.Limits[LimitAgents] == Unlimited {
		return &AgentAccessResult{Allowed: true}
	}

	plan, err := s.catalog.Plan(l.Plan)
	if err == nil && plan.Includes(agentID) {
		return &AgentAccessResult{Allowed: true}
	}
	for _, id := range l.PremiumAgents {
		if id == agentID {
			return &AgentAccessResult{Allowed: true}
		}
	}

	agent, known := s.catalog.Agent(agentID)
	if !known {
		return &AgentAccessResult{Allowed: false, Code: "UNKNOWN_AGENT",
			Reason: fmt.Sprintf("agent %q is not in the catalog", agentID)}
	}
	if agent.Premium {
		return &AgentAccessResult{Allowed: false, Code: "PURCHASE_ADDON",
			Reason: fmt.Sprintf("agent %q is a premium add-on; purchase it to enable", agentID)}
	}
	return &AgentAccessResult{Allowed: false, Code: "UPGRADE_PLAN",
		Reason: fmt.Sprintf("agent %q requires a higher plan tier", agentID)}
}

// CheckExecutionLimit reports whether another execution is allowed this
// billing period for the license's organization.
func (s *Service) CheckExecutionLimit(ctx context.Context, key string) (*ExecutionLimitResult, error) {
	l, err := s.store.Get(NormalizeKey(key))
	if err != nil {
		return nil, err
	}
	result := s.meter.CheckExecutionLimit(l)
	return &result, nil
}

// RecordUsage increments a metered counter for the organization's current
// billing period.
func (s *Service) RecordUsage(ctx context.Context, organizationID, resource string, amount int64) (*UsageRecord, error) {
	if amount <= 0 {
		amount = 1
	}
	rec, err := s.meter.Record(organizationID, resource, amount)
	if err != nil {
		return nil, err
	}
	s.count(ctx, s.metricsUsage(), attribute.String("resource", resource))
	return rec, nil
}

// CurrentUsage returns the organization's current-period usage record.
func (s *Service) CurrentUsage(ctx context.Context, organizationID string) UsageRecord {
	return s.meter.Current(organizationID)
}

// GetLicense returns the safe view for a key.
func (s *Service) GetLicense(ctx context.Context, key string) (*SafeView, error) {
	l, err := s.store.Get(NormalizeKey(key))
	if err != nil {
		return nil, err
	}
	return Project(l), nil
}

// ListLicenses returns safe views of all licenses matching the filter.
func (s *Service) ListLicenses(ctx context.Context, f Filter) []*SafeView {
	licenses := s.store.List(f)
	views := make([]*SafeView, len(licenses))
	for i, l := range licenses {
		views[i] = Project(l)
	}
	return views
}

// ExportLicense packages the license (safe view plus signature) into the
// encrypted offline blob.
func (s *Service) ExportLicense(ctx context.Context, key string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "license.export",
		attribute.String("license.key_masked", MaskKey(key)),
	)
	defer func() { endSpan(span, err) }()
	defer s.observe(ctx, "license_export", time.Now())

	l, err := s.store.Get(NormalizeKey(key))
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(Project(l))
	if err != nil {
		return "", fmt.Errorf("marshal export payload: %w", err)
	}
	blob, err := s.codec.Encrypt(payload)
	if err != nil {
		return "", err
	}

	s.count(ctx, s.metricsExports())
	s.logInfo(ctx, "license_export", "license exported",
		slog.String("key_masked", MaskKey(key)),
		slog.Int("blob_bytes", len(blob)),
	)
	return blob, nil
}

// ImportLicense unpacks an offline blob, verifies the recovered license's
// signature, and registers it. Importing a key that is already present
// returns the stored license untouched.
func (s *Service) ImportLicense(ctx context.Context, blob string) (_ *License, err error) {
	ctx, span := s.startSpan(ctx, "license.import")
	defer func() { endSpan(span, err) }()
	defer s.observe(ctx, "license_import", time.Now())

	payload, err := s.codec.Decrypt(blob)
	if err != nil {
		return nil, err
	}

	var view SafeView
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, fmt.Errorf("%w: malformed payload", apperrors.ErrDecryptionFailed)
	}

	l := licenseFromView(&view)
	if !s.signer.Verify(l) {
		return nil, apperrors.ErrSignatureInvalid
	}

	if existing, err := s.store.Get(l.Key); err == nil {
		return existing, nil
	}
	if err := s.store.Create(l); err != nil {
		return nil, err
	}

	s.count(ctx, s.metricsImports())
	s.logInfo(ctx, "license_import", "license imported",
		slog.String("key_masked", MaskKey(l.Key)),
		slog.String("plan", l.Plan),
	)
	return l.clone(), nil
}

func licenseFromView(v *SafeView) *License {
	activations := make([]*Activation, len(v.Activations))
	for i, av := range v.Activations {
		activations[i] = &Activation{
			ID:          av.ID,
			MachineID:   av.MachineID,
			Name:        av.Name,
			OS:          av.OS,
			ActivatedAt: av.ActivatedAt,
			LastSeen:    av.LastSeen,
			Status:      av.Status,
		}
	}
	return &License{
		ID:             v.ID,
		Key:            v.Key,
		OrganizationID: v.OrganizationID,
		Plan:           v.Plan,
		Type:           v.Type,
		Limits:         cloneLimits(v.Limits),
		Features:       append([]string(nil), v.Features...),
		PremiumAgents:  append([]string(nil), v.PremiumAgents...),
		Amount:         v.Amount,
		Currency:       v.Currency,
		Interval:       v.Interval,
		IssuedAt:       v.IssuedAt,
		ActivatedAt:    v.ActivatedAt,
		ExpiresAt:      v.ExpiresAt,
		LastRenewedAt:  v.LastRenewedAt,
		MaxActivations: v.MaxActivations,
		Activations:    activations,
		Status:         v.Status,
		SuspendReason:  v.SuspendReason,
		CancelReason:   v.CancelReason,
		Signature:      v.Signature,
	}
}

// publish emits a domain event without blocking a lifecycle operation.
// A full buffer drops the event; the drop is counted and logged so a
// stalled consumer is visible.
func (s *Service) publish(ctx context.Context, t EventType, l *License) {
	ev := Event{Type: t, License: Project(l), Timestamp: s.now()}
	select {
	case s.events <- ev:
	default:
		s.count(ctx, s.metricsEventsDropped(), attribute.String("event", string(t)))
		s.logWarn(ctx, "event_publish", "event buffer full, dropping event",
			slog.String("event", string(t)),
			slog.String("key_masked", MaskKey(l.Key)),
		)
	}
}

func (s *Service) count(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// observe records an operation's wall-clock duration. Meant for defer:
//
//	defer s.observe(ctx, "license_create", time.Now())
func (s *Service) observe(ctx context.Context, operation string, start time.Time) {
	if s.metrics == nil || s.metrics.OperationDuration == nil {
		return
	}
	s.metrics.OperationDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("operation", operation)))
}

func (s *Service) metricsCreated() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.LicensesCreated
}

func (s *Service) metricsActivation() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.ActivationAttempts
}

func (s *Service) metricsActivationFailed() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.ActivationFailures
}

func (s *Service) metricsValidation() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.ValidationAttempts
}

func (s *Service) metricsValidationFailed() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.ValidationFailures
}

func (s *Service) metricsUsage() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.UsageRecorded
}

func (s *Service) metricsExports() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.Exports
}

func (s *Service) metricsImports() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.Imports
}

func (s *Service) metricsEventsDropped() metric.Int64Counter {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.EventsDropped
}

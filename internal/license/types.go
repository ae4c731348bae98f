// Package license implements the license core: data model, canonical
// signing, offline export, activation caps, usage metering, and the
// lifecycle state machine.
package license

import "time"

// Type classifies how a license was sold.
type Type string

const (
	TypeSubscription Type = "subscription"
	TypePerpetual    Type = "perpetual"
	TypeTrial        Type = "trial"
)

// Status is the lifecycle state of a license. Cancelled is terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// Unlimited marks a quota with no cap.
const Unlimited int64 = -1

// Limit keys used in License.Limits and plan catalog entries.
const (
	LimitExecutionsPerMonth = "executionsPerMonth"
	LimitAPICallsPerMonth   = "apiCallsPerMonth"
	LimitAICallsPerMonth    = "aiCallsPerMonth"
	LimitStorageBytes       = "storageBytes"
	LimitRobots             = "robots"
	LimitAgents             = "agents"
)

// Metered usage resource names accepted by RecordUsage.
const (
	ResourceExecutions   = "executions"
	ResourceAPICalls     = "api_calls"
	ResourceStorageBytes = "storage_bytes"
	ResourceAICalls      = "ai_calls"
)

// License is the central entity. Mutated in place by lifecycle operations,
// never replaced and never deleted; cancellation is a terminal status.
type License struct {
	ID             string `json:"id"`
	Key            string `json:"key"`
	OrganizationID string `json:"organization_id"`
	Plan           string `json:"plan"`
	Type           Type   `json:"type"`

	Limits        map[string]int64 `json:"limits"`
	Features      []string         `json:"features"`
	PremiumAgents []string         `json:"premium_agents,omitempty"`

	// Billing snapshot; informational only, never reconciled here.
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Interval       string `json:"interval,omitempty"`

	IssuedAt      time.Time `json:"issued_at"`
	ActivatedAt   time.Time `json:"activated_at,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
	LastRenewedAt time.Time `json:"last_renewed_at,omitempty"`

	MaxActivations int           `json:"max_activations"`
	Activations    []*Activation `json:"activations"`

	Status        Status    `json:"status"`
	SuspendReason string    `json:"suspend_reason,omitempty"`
	SuspendedAt   time.Time `json:"suspended_at,omitempty"`
	CancelReason  string    `json:"cancel_reason,omitempty"`
	CancelledAt   time.Time `json:"cancelled_at,omitempty"`

	// Signature is the HMAC over the canonical subset
	// {id, key, organization_id, plan, limits, expires_at}. Fields outside
	// that subset are not tamper-evident.
	Signature string `json:"signature"`
}

// Activation binds a license to one machine identity.
type Activation struct {
	ID          string    `json:"id"`
	MachineID   string    `json:"machine_id"`
	Name        string    `json:"name,omitempty"`
	OS          string    `json:"os,omitempty"`
	Hostname    string    `json:"hostname,omitempty"`
	Username    string    `json:"username,omitempty"`
	ActivatedAt time.Time `json:"activated_at"`
	LastSeen    time.Time `json:"last_seen"`
	Status      string    `json:"status"`
}

// MachineInfo is the caller-supplied machine identity for activation.
type MachineInfo struct {
	MachineID string `json:"machine_id" validate:"required"`
	Name      string `json:"name,omitempty"`
	OS        string `json:"os,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
	Username  string `json:"username,omitempty"`
}

// UsageRecord holds per-organization counters for one calendar month.
type UsageRecord struct {
	OrganizationID string `json:"organization_id"`
	Period         string `json:"period"` // YYYY-MM
	Executions     int64  `json:"executions"`
	APICalls       int64  `json:"api_calls"`
	StorageBytes   int64  `json:"storage_bytes"`
	AICalls        int64  `json:"ai_calls"`
}

// SafeView is the projection of a License handed to external collaborators.
// It trims internal billing references and per-machine host details.
type SafeView struct {
	ID             string           `json:"id"`
	Key            string           `json:"key"`
	OrganizationID string           `json:"organization_id"`
	Plan           string           `json:"plan"`
	Type           Type             `json:"type"`
	Limits         map[string]int64 `json:"limits"`
	Features       []string         `json:"features"`
	PremiumAgents  []string         `json:"premium_agents,omitempty"`
	Amount         int64            `json:"amount"`
	Currency       string           `json:"currency"`
	Interval       string           `json:"interval,omitempty"`
	IssuedAt       time.Time        `json:"issued_at"`
	ActivatedAt    time.Time        `json:"activated_at,omitempty"`
	ExpiresAt      time.Time        `json:"expires_at"`
	LastRenewedAt  time.Time        `json:"last_renewed_at,omitempty"`
	MaxActivations int              `json:"max_activations"`
	Activations    []ActivationView `json:"activations"`
	Status         Status           `json:"status"`
	SuspendReason  string           `json:"suspend_reason,omitempty"`
	CancelReason   string           `json:"cancel_reason,omitempty"`
	Signature      string           `json:"signature"`
}

// ActivationView is the activation projection inside a SafeView.
type ActivationView struct {
	ID          string    `json:"id"`
	MachineID   string    `json:"machine_id"`
	Name        string    `json:"name,omitempty"`
	OS          string    `json:"os,omitempty"`
	ActivatedAt time.Time `json:"activated_at"`
	LastSeen    time.Time `json:"last_seen"`
	Status      string    `json:"status"`
}

// clone returns a deep copy safe to hand outside the store's locks.
func (l *License) clone() *License {
	c := *l
	c.Limits = cloneLimits(l.Limits)
	c.Features = append([]string(nil), l.Features...)
	c.PremiumAgents = append([]string(nil), l.PremiumAgents...)
	c.Activations = make([]*Activation, len(l.Activations))
	for i, a := range l.Activations {
		ac := *a
		c.Activations[i] = &ac
	}
	return &c
}

func cloneLimits(limits map[string]int64) map[string]int64 {
	if limits == nil {
		return nil
	}
	c := make(map[string]int64, len(limits))
	for k, v := range limits {
		c[k] = v
	}
	return c
}

// Project builds the safe view of a license.
func Project(l *License) *SafeView {
	views := make([]ActivationView, len(l.Activations))
	for i, a := range l.Activations {
		views[i] = ActivationView{
			ID:          a.ID,
			MachineID:   a.MachineID,
			Name:        a.Name,
			OS:          a.OS,
			ActivatedAt: a.ActivatedAt,
			LastSeen:    a.LastSeen,
			Status:      a.Status,
		}
	}
	return &SafeView{
		ID:             l.ID,
		Key:            l.Key,
		OrganizationID: l.OrganizationID,
		Plan:           l.Plan,
		Type:           l.Type,
		Limits:         cloneLimits(l.Limits),
		Features:       append([]string(nil), l.Features...),
		PremiumAgents:  append([]string(nil), l.PremiumAgents...),
		Amount:         l.Amount,
		Currency:       l.Currency,
		Interval:       l.Interval,
		IssuedAt:       l.IssuedAt,
		ActivatedAt:    l.ActivatedAt,
		ExpiresAt:      l.ExpiresAt,
		LastRenewedAt:  l.LastRenewedAt,
		MaxActivations: l.MaxActivations,
		Activations:    views,
		Status:         l.Status,
		SuspendReason:  l.SuspendReason,
		CancelReason:   l.CancelReason,
		Signature:      l.Signature,
	}
}

package license

import (
	"time"

	"github.com/google/uuid"

	apperrors "alqcore/internal/errors"
)

// ActivationManager enforces the activation cap and machine-identity
// bookkeeping. Its methods mutate a *License directly and must be invoked
// inside Store.Update so the check-then-append sequence is atomic with
// respect to concurrent activations of the same key.
type ActivationManager struct {
	now func() time.Time
}

// NewActivationManager creates a manager using the wall clock.
func NewActivationManager() *ActivationManager {
	return &ActivationManager{now: time.Now}
}

// Activate binds the machine to the license. Re-activating a machine that
// already holds a slot is idempotent: its LastSeen is refreshed and the
// existing record returned. The first-ever activation stamps ActivatedAt.
func (am *ActivationManager) Activate(l *License, info MachineInfo) (*Activation, error) {
	now := am.now()

	for _, a := range l.Activations {
		if a.MachineID == info.MachineID {
			a.LastSeen = now
			copied := *a
			return &copied, nil
		}
	}

	if len(l.Activations) >= l.MaxActivations {
		return nil, apperrors.ErrMaxActivationsReached
	}

	activation := &Activation{
		ID:          uuid.NewString(),
		MachineID:   info.MachineID,
		Name:        info.Name,
		OS:          info.OS,
		Hostname:    info.Hostname,
		Username:    info.Username,
		ActivatedAt: now,
		LastSeen:    now,
		Status:      "active",
	}
	l.Activations = append(l.Activations, activation)

	if l.ActivatedAt.IsZero() {
		l.ActivatedAt = now
	}

	copied := *activation
	return &copied, nil
}

// Deactivate releases the slot held by machineID.
func (am *ActivationManager) Deactivate(l *License, machineID string) error {
	for i, a := range l.Activations {
		if a.MachineID == machineID {
			l.Activations = append(l.Activations[:i], l.Activations[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotActivated
}

// Touch refreshes LastSeen for a machine that validated successfully.
// Reports whether the machine holds an activation.
func (am *ActivationManager) Touch(l *License, machineID string) bool {
	for _, a := range l.Activations {
		if a.MachineID == machineID {
			a.LastSeen = am.now()
			return true
		}
	}
	return false
}

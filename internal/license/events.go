package license

import "time"

// EventType identifies a domain event emitted by the lifecycle.
type EventType string

const (
	EventCreated     EventType = "license:created"
	EventActivated   EventType = "license:activated"
	EventDeactivated EventType = "license:deactivated"
	EventRenewed     EventType = "license:renewed"
	EventSuspended   EventType = "license:suspended"
	EventCancelled   EventType = "license:cancelled"
	EventUpgraded    EventType = "license:upgraded"
)

// Event carries the safe view of a license to external collaborators.
// The event channel is the sole interface between the core and the UI or
// notification pipeline.
type Event struct {
	Type      EventType `json:"type"`
	License   *SafeView `json:"license"`
	Timestamp time.Time `json:"timestamp"`
}

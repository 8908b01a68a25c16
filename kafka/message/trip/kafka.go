package trip

import (
	"time"
)

// Topic environment variable names
const (
	// Command topics
	EnvCommandTopic = "COMMAND_TOPIC_TRIP"

	// Event topics
	EnvEventTopicStatus = "EVENT_TOPIC_TRIP_STATUS"
)

// Command Types
const (
	CommandTripStart         = "START_TRIP"
	CommandTripComplete      = "COMPLETE_TRIP"
	CommandTripCancel        = "CANCEL_TRIP"
	CommandTripUpdateJourney = "UPDATE_JOURNEY"
)

// Event Types
const (
	// Lifecycle events
	EventTripScheduled     = "TRIP_SCHEDULED"
	EventTripStatusChanged = "TRIP_STATUS_CHANGED"
	EventTripCancelled     = "TRIP_CANCELLED"
	EventTripDelayed       = "TRIP_DELAYED"

	// Journey events
	EventJourneyStatusChanged = "JOURNEY_STATUS_CHANGED"

	// Error events
	EventTripError = "TRIP_ERROR"
)

// Generic command structure
type Command[E any] struct {
	TripId uint32 `json:"tripId"`
	Actor  string `json:"actor"`
	Type   string `json:"type"`
	Body   E      `json:"body"`
}

// Generic event structure
type Event[E any] struct {
	TripId uint32 `json:"tripId"`
	Type   string `json:"type"`
	Body   E      `json:"body"`
}

// Command Bodies

// StartBody represents the body of a trip start command
type StartBody struct {
}

// CompleteBody represents the body of a trip completion command
type CompleteBody struct {
}

// CancelBody represents the body of a trip cancellation command
type CancelBody struct {
	Reason string `json:"reason"`
}

// UpdateJourneyBody represents the body of a journey status update command.
// StopIndex follows the 1-based display convention used on the wire.
type UpdateJourneyBody struct {
	Status    string   `json:"status"`
	StopIndex *int     `json:"stopIndex,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Event Bodies

// ScheduledBody represents the body of a trip scheduled event
type ScheduledBody struct {
	RouteId       uint32    `json:"routeId"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
}

// StatusChangedBody represents the body of a lifecycle status change event
type StatusChangedBody struct {
	OldStatus           string     `json:"oldStatus"`
	NewStatus           string     `json:"newStatus"`
	ActualDepartureTime *time.Time `json:"actualDepartureTime,omitempty"`
	ActualArrivalTime   *time.Time `json:"actualArrivalTime,omitempty"`
	ChangedAt           time.Time  `json:"changedAt"`
	Actor               string     `json:"actor"`
}

// CancelledBody represents the body of a trip cancelled event
type CancelledBody struct {
	OldStatus   string    `json:"oldStatus"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelledAt"`
	Actor       string    `json:"actor"`
}

// DelayedBody represents the body of a trip delayed event
type DelayedBody struct {
	DepartureTime time.Time `json:"departureTime"`
	DetectedAt    time.Time `json:"detectedAt"`
}

// JourneyStatusChangedBody represents the body of a journey status change event.
// StopIndex carries the 0-based internal index at the time of the transition.
type JourneyStatusChangedBody struct {
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	StopIndex int       `json:"stopIndex"`
	ChangedAt time.Time `json:"changedAt"`
	Actor     string    `json:"actor"`
}

// ErrorBody represents the body of a trip error event
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Operation string `json:"operation"`
}

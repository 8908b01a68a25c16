package trip

import (
	"time"

	"github.com/google/uuid"
)

// Location represents a geographic point reported with a journey update
type Location struct {
	Latitude  float64
	Longitude float64
}

// HistoryEntry represents one accepted journey transition in the append-only trail
type HistoryEntry struct {
	fromStatus JourneyStatus
	toStatus   JourneyStatus
	stopIndex  int
	actor      string
	notes      string
	location   *Location
	at         time.Time
}

// FromStatus returns the journey status before the transition
func (e HistoryEntry) FromStatus() JourneyStatus {
	return e.fromStatus
}

// ToStatus returns the journey status after the transition
func (e HistoryEntry) ToStatus() JourneyStatus {
	return e.toStatus
}

// StopIndex returns the current stop index at the time of the transition
func (e HistoryEntry) StopIndex() int {
	return e.stopIndex
}

// Actor returns the opaque identity that requested the transition
func (e HistoryEntry) Actor() string {
	return e.actor
}

// Notes returns free-form notes supplied with the transition
func (e HistoryEntry) Notes() string {
	return e.notes
}

// Location returns the reported location, if any
func (e HistoryEntry) Location() *Location {
	return e.location
}

// At returns the transition timestamp
func (e HistoryEntry) At() time.Time {
	return e.at
}

// TransitionRequest represents a requested journey transition
type TransitionRequest struct {
	Target    JourneyStatus
	StopIndex *int
	Location  *Location
	Notes     string
	Actor     string
}

// Journey represents the immutable journey sub-state for one trip instance
type Journey struct {
	tripId           uint32
	status           JourneyStatus
	currentStopIndex int
	stoppedAt        []int
	tenantId         uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
}

// TripId returns the owning trip ID
func (j Journey) TripId() uint32 {
	return j.tripId
}

// Status returns the current journey status
func (j Journey) Status() JourneyStatus {
	return j.status
}

// CurrentStopIndex returns the zero-based index of the last stop reached, -1 before any
func (j Journey) CurrentStopIndex() int {
	return j.currentStopIndex
}

// StoppedAt returns the visited stop indices in arrival order
func (j Journey) StoppedAt() []int {
	out := make([]int, len(j.stoppedAt))
	copy(out, j.stoppedAt)
	return out
}

// TenantId returns the tenant ID
func (j Journey) TenantId() uuid.UUID {
	return j.tenantId
}

// CreatedAt returns the creation timestamp
func (j Journey) CreatedAt() time.Time {
	return j.createdAt
}

// UpdatedAt returns the last update timestamp
func (j Journey) UpdatedAt() time.Time {
	return j.updatedAt
}

// HasVisited returns true if the stop index was already recorded as visited
func (j Journey) HasVisited(stopIndex int) bool {
	for _, idx := range j.stoppedAt {
		if idx == stopIndex {
			return true
		}
	}
	return false
}

// Builder returns a new builder seeded from the journey
func (j Journey) Builder() *JourneyBuilder {
	return &JourneyBuilder{
		tripId:           j.tripId,
		status:           j.status,
		currentStopIndex: j.currentStopIndex,
		stoppedAt:        j.StoppedAt(),
		tenantId:         j.tenantId,
		createdAt:        j.createdAt,
		updatedAt:        j.updatedAt,
	}
}

// Apply validates the transition request against the journey and, if legal,
// returns the mutated journey together with the history entry to append.
// The receiver is never modified; rejections leave no trace.
func (j Journey) Apply(req TransitionRequest, now time.Time) (Journey, HistoryEntry, error) {
	if j.status.IsTerminal() {
		return Journey{}, HistoryEntry{}, ErrTerminalJourney
	}

	switch req.Target {
	case JourneyPreparing, JourneyCheckingTickets:
		// Origin statuses are only reachable before the bus has visited a stop.
		if j.currentStopIndex >= 0 {
			return Journey{}, HistoryEntry{}, ErrJourneyRewind
		}
	case JourneyAtStop:
		if req.StopIndex == nil {
			return Journey{}, HistoryEntry{}, ErrStopIndexRequired
		}
		if *req.StopIndex < 0 {
			return Journey{}, HistoryEntry{}, ErrStopIndexRequired
		}
		// A bus never returns to an earlier stop and never records one twice.
		// Skipping ahead past empty stops is legal; skipped indices stay unrecorded.
		if *req.StopIndex < j.currentStopIndex || j.HasVisited(*req.StopIndex) {
			return Journey{}, HistoryEntry{}, ErrStopAlreadyVisited
		}
	case JourneyInTransit, JourneyCompleted, JourneyCancelled:
		// No additional constraints.
	default:
		return Journey{}, HistoryEntry{}, ErrInvalidJourneyStatus
	}

	builder := j.Builder().
		SetStatus(req.Target).
		SetUpdatedAt(now)

	// Only an at_stop arrival moves the bus. A stray index on any other
	// target is ignored rather than advancing past unvisited stops.
	if req.Target == JourneyAtStop {
		builder.SetCurrentStopIndex(*req.StopIndex)
		builder.AddStoppedAt(*req.StopIndex)
	}

	next, err := builder.Build()
	if err != nil {
		return Journey{}, HistoryEntry{}, err
	}

	entry := HistoryEntry{
		fromStatus: j.status,
		toStatus:   req.Target,
		stopIndex:  next.currentStopIndex,
		actor:      req.Actor,
		notes:      req.Notes,
		location:   req.Location,
		at:         now,
	}

	return next, entry, nil
}

package trip

// Status represents the coarse lifecycle state of a trip
type Status uint8

const (
	// StatusScheduled represents a trip that has been created but has not departed yet
	StatusScheduled Status = iota
	// StatusOngoing represents a trip currently on the road
	StatusOngoing
	// StatusCompleted represents a trip that reached its destination
	StatusCompleted
	// StatusCancelled represents a trip that was called off before completion
	StatusCancelled
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusOngoing:
		return "ongoing"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// StatusFromString resolves a lifecycle status from its wire representation
func StatusFromString(value string) (Status, bool) {
	switch value {
	case "scheduled":
		return StatusScheduled, true
	case "ongoing":
		return StatusOngoing, true
	case "completed":
		return StatusCompleted, true
	case "cancelled":
		return StatusCancelled, true
	default:
		return StatusScheduled, false
	}
}

// IsTerminal returns true if no further lifecycle transition is permitted
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo returns true if the trip can move to the target lifecycle status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusScheduled:
		return target == StatusOngoing || target == StatusCancelled
	case StatusOngoing:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// ValidTransitions returns all valid transition targets from the current status
func (s Status) ValidTransitions() []Status {
	switch s {
	case StatusScheduled:
		return []Status{StatusOngoing, StatusCancelled}
	case StatusOngoing:
		return []Status{StatusCompleted, StatusCancelled}
	case StatusCompleted, StatusCancelled:
		return []Status{}
	default:
		return []Status{}
	}
}

// JourneyStatus represents the fine-grained real-time movement state of a trip
type JourneyStatus uint8

const (
	// JourneyPreparing represents a bus being readied at the origin
	JourneyPreparing JourneyStatus = iota
	// JourneyCheckingTickets represents passenger boarding and ticket checks at the origin
	JourneyCheckingTickets
	// JourneyInTransit represents a bus moving between stops
	JourneyInTransit
	// JourneyAtStop represents a bus halted at an intermediate stop
	JourneyAtStop
	// JourneyCompleted represents a journey that arrived at the destination
	JourneyCompleted
	// JourneyCancelled represents a journey that was abandoned
	JourneyCancelled
)

// String returns the string representation of JourneyStatus
func (s JourneyStatus) String() string {
	switch s {
	case JourneyPreparing:
		return "preparing"
	case JourneyCheckingTickets:
		return "checking_tickets"
	case JourneyInTransit:
		return "in_transit"
	case JourneyAtStop:
		return "at_stop"
	case JourneyCompleted:
		return "completed"
	case JourneyCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// JourneyStatusFromString resolves a journey status from its wire representation
func JourneyStatusFromString(value string) (JourneyStatus, bool) {
	switch value {
	case "preparing":
		return JourneyPreparing, true
	case "checking_tickets":
		return JourneyCheckingTickets, true
	case "in_transit":
		return JourneyInTransit, true
	case "at_stop":
		return JourneyAtStop, true
	case "completed":
		return JourneyCompleted, true
	case "cancelled":
		return JourneyCancelled, true
	default:
		return JourneyPreparing, false
	}
}

// IsTerminal returns true if the journey accepts no further mutation
func (s JourneyStatus) IsTerminal() bool {
	return s == JourneyCompleted || s == JourneyCancelled
}

// AtOrigin returns true for statuses that are only valid before the bus has reached any stop
func (s JourneyStatus) AtOrigin() bool {
	return s == JourneyPreparing || s == JourneyCheckingTickets
}

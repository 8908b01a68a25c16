package trip

import (
	"math"
	"strconv"
	"time"
)

// RestTrip represents the REST API model for trip responses
type RestTrip struct {
	Id                  uint32     `json:"id"`
	RouteId             uint32     `json:"routeId"`
	Status              string     `json:"status"`
	DepartureTime       time.Time  `json:"departureTime"`
	ArrivalTime         time.Time  `json:"arrivalTime"`
	ActualDepartureTime *time.Time `json:"actualDepartureTime,omitempty"`
	ActualArrivalTime   *time.Time `json:"actualArrivalTime,omitempty"`
	CancelReason        string     `json:"cancelReason,omitempty"`
	CancelledAt         *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// RestJourney represents the REST API model for journey responses. Stop
// numbers are 1-based on the wire; internal indexes are 0-based.
type RestJourney struct {
	TripId      uint32             `json:"tripId"`
	Status      string             `json:"status"`
	CurrentStop int                `json:"currentStop"`
	StoppedAt   []int              `json:"stoppedAt"`
	Progress    float64            `json:"progress"`
	TotalStops  int                `json:"totalStops"`
	History     []RestHistoryEntry `json:"history,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// RestHistoryEntry represents one journey transition in REST responses
type RestHistoryEntry struct {
	FromStatus string        `json:"fromStatus"`
	ToStatus   string        `json:"toStatus"`
	Stop       int           `json:"stop"`
	Actor      string        `json:"actor,omitempty"`
	Notes      string        `json:"notes,omitempty"`
	Location   *RestLocation `json:"location,omitempty"`
	At         time.Time     `json:"at"`
}

// RestLocation represents a geographic coordinate in REST responses
type RestLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GetType returns the JSON:API resource type for trip
func (rt RestTrip) GetType() string {
	return "trip"
}

// GetID returns the JSON:API resource ID for trip
func (rt RestTrip) GetID() string {
	return strconv.Itoa(int(rt.Id))
}

// GetType returns the JSON:API resource type for journey
func (rj RestJourney) GetType() string {
	return "journey"
}

// GetID returns the JSON:API resource ID for journey
func (rj RestJourney) GetID() string {
	return strconv.Itoa(int(rj.TripId))
}

// RestScheduleInput is the request body for scheduling a trip
type RestScheduleInput struct {
	RouteId       uint32    `json:"routeId"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
}

// RestStatusInput is the request body for lifecycle transitions
type RestStatusInput struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

// RestJourneyInput is the request body for journey transitions. Stop is the
// 1-based stop number as displayed to passengers.
type RestJourneyInput struct {
	Status   string        `json:"status"`
	Stop     *int          `json:"stop,omitempty"`
	Location *RestLocation `json:"location,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Actor    string        `json:"actor,omitempty"`
}

// displayStop converts a 0-based internal stop index to the 1-based wire form
func displayStop(index int) int {
	if index < 0 {
		return 0
	}
	return index + 1
}

// internalStopIndex converts a 1-based wire stop number to the 0-based
// internal index
func internalStopIndex(stop int) int {
	return stop - 1
}

// roundProgress rounds progress to one decimal for display
func roundProgress(p float64) float64 {
	return math.Round(p*10) / 10
}

// TransformTrip converts a domain trip model to REST representation
func TransformTrip(m Model) (RestTrip, error) {
	return RestTrip{
		Id:                  m.Id(),
		RouteId:             m.RouteId(),
		Status:              m.Status().String(),
		DepartureTime:       m.DepartureTime(),
		ArrivalTime:         m.ArrivalTime(),
		ActualDepartureTime: m.ActualDepartureTime(),
		ActualArrivalTime:   m.ActualArrivalTime(),
		CancelReason:        m.CancelReason(),
		CancelledAt:         m.CancelledAt(),
		CreatedAt:           m.CreatedAt(),
		UpdatedAt:           m.UpdatedAt(),
	}, nil
}

// TransformTrips converts a slice of domain trip models to REST representation
func TransformTrips(trips []Model) ([]RestTrip, error) {
	restTrips := make([]RestTrip, 0, len(trips))
	for _, t := range trips {
		rt, err := TransformTrip(t)
		if err != nil {
			return nil, err
		}
		restTrips = append(restTrips, rt)
	}
	return restTrips, nil
}

// TransformSnapshot converts a journey snapshot to REST representation
func TransformSnapshot(s Snapshot) (RestJourney, error) {
	stoppedAt := make([]int, 0, len(s.Journey().StoppedAt()))
	for _, idx := range s.Journey().StoppedAt() {
		stoppedAt = append(stoppedAt, displayStop(idx))
	}

	history := make([]RestHistoryEntry, 0, len(s.History()))
	for _, e := range s.History() {
		history = append(history, transformHistoryEntry(e))
	}

	return RestJourney{
		TripId:      s.Journey().TripId(),
		Status:      s.Journey().Status().String(),
		CurrentStop: displayStop(s.Journey().CurrentStopIndex()),
		StoppedAt:   stoppedAt,
		Progress:    roundProgress(s.Progress()),
		TotalStops:  s.TotalStops(),
		History:     history,
		UpdatedAt:   s.Journey().UpdatedAt(),
	}, nil
}

// TransformJourneyUpdate converts an accepted journey transition to REST representation
func TransformJourneyUpdate(u JourneyUpdate) (RestJourney, error) {
	stoppedAt := make([]int, 0, len(u.Journey().StoppedAt()))
	for _, idx := range u.Journey().StoppedAt() {
		stoppedAt = append(stoppedAt, displayStop(idx))
	}

	return RestJourney{
		TripId:      u.Journey().TripId(),
		Status:      u.Journey().Status().String(),
		CurrentStop: displayStop(u.Journey().CurrentStopIndex()),
		StoppedAt:   stoppedAt,
		Progress:    roundProgress(u.Progress()),
		TotalStops:  u.TotalStops(),
		UpdatedAt:   u.Journey().UpdatedAt(),
	}, nil
}

func transformHistoryEntry(e HistoryEntry) RestHistoryEntry {
	re := RestHistoryEntry{
		FromStatus: e.FromStatus().String(),
		ToStatus:   e.ToStatus().String(),
		Stop:       displayStop(e.StopIndex()),
		Actor:      e.Actor(),
		Notes:      e.Notes(),
		At:         e.At(),
	}
	if loc := e.Location(); loc != nil {
		re.Location = &RestLocation{Latitude: loc.Latitude, Longitude: loc.Longitude}
	}
	return re
}

package trip

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestJourney(t *testing.T) Journey {
	journey, err := NewJourneyBuilder(1, uuid.New()).Build()
	if err != nil {
		t.Fatalf("Failed to build journey: %v", err)
	}
	return journey
}

func applyOrFail(t *testing.T, j Journey, req TransitionRequest) Journey {
	next, _, err := j.Apply(req, time.Now())
	if err != nil {
		t.Fatalf("Failed transition to %s: %v", req.Target, err)
	}
	return next
}

func TestApplyOriginProgression(t *testing.T) {
	journey := newTestJourney(t)

	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyCheckingTickets, Actor: "conductor-7"})
	if journey.Status() != JourneyCheckingTickets {
		t.Errorf("Expected checking_tickets, got %s", journey.Status())
	}
	if journey.CurrentStopIndex() != -1 {
		t.Errorf("Expected index -1 at origin, got %d", journey.CurrentStopIndex())
	}

	// Returning to preparing before departure is legal.
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyPreparing, Actor: "conductor-7"})
	if journey.Status() != JourneyPreparing {
		t.Errorf("Expected preparing, got %s", journey.Status())
	}
}

func TestApplyAtStopRecordsVisit(t *testing.T) {
	journey := newTestJourney(t)
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyInTransit, Actor: "driver-1"})

	next, entry, err := journey.Apply(TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(0), Actor: "driver-1"}, time.Now())
	if err != nil {
		t.Fatalf("Failed at_stop transition: %v", err)
	}

	if next.CurrentStopIndex() != 0 {
		t.Errorf("Expected index 0, got %d", next.CurrentStopIndex())
	}
	if !next.HasVisited(0) {
		t.Error("Expected stop 0 recorded as visited")
	}
	if entry.FromStatus() != JourneyInTransit || entry.ToStatus() != JourneyAtStop {
		t.Errorf("Unexpected entry %s -> %s", entry.FromStatus(), entry.ToStatus())
	}
	if entry.StopIndex() != 0 {
		t.Errorf("Expected entry to carry post-transition index 0, got %d", entry.StopIndex())
	}

	// The receiver is untouched.
	if journey.CurrentStopIndex() != -1 || len(journey.StoppedAt()) != 0 {
		t.Error("Apply mutated the receiver")
	}
}

func TestApplySkipAheadLeavesGapUnrecorded(t *testing.T) {
	journey := newTestJourney(t)
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(0), Actor: "driver-1"})
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyInTransit, Actor: "driver-1"})

	// Nobody to pick up at stop 1; the bus rolls straight to stop 2.
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(2), Actor: "driver-1"})

	if journey.CurrentStopIndex() != 2 {
		t.Errorf("Expected index 2, got %d", journey.CurrentStopIndex())
	}
	if journey.HasVisited(1) {
		t.Error("Skipped stop must stay unrecorded")
	}
	stoppedAt := journey.StoppedAt()
	if len(stoppedAt) != 2 || stoppedAt[0] != 0 || stoppedAt[1] != 2 {
		t.Errorf("Expected stoppedAt [0 2], got %v", stoppedAt)
	}
}

func TestApplyDuplicateAndBackwardStops(t *testing.T) {
	journey := newTestJourney(t)
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(1), Actor: "driver-1"})

	_, _, err := journey.Apply(TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(1), Actor: "driver-1"}, time.Now())
	if !errors.Is(err, ErrStopAlreadyVisited) {
		t.Errorf("Expected ErrStopAlreadyVisited for duplicate, got %v", err)
	}

	_, _, err = journey.Apply(TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(0), Actor: "driver-1"}, time.Now())
	if !errors.Is(err, ErrStopAlreadyVisited) {
		t.Errorf("Expected ErrStopAlreadyVisited going backward, got %v", err)
	}
}

func TestApplyStopIndexRequired(t *testing.T) {
	journey := newTestJourney(t)

	_, _, err := journey.Apply(TransitionRequest{Target: JourneyAtStop, Actor: "driver-1"}, time.Now())
	if !errors.Is(err, ErrStopIndexRequired) {
		t.Errorf("Expected ErrStopIndexRequired without index, got %v", err)
	}

	_, _, err = journey.Apply(TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(-2), Actor: "driver-1"}, time.Now())
	if !errors.Is(err, ErrStopIndexRequired) {
		t.Errorf("Expected ErrStopIndexRequired for negative index, got %v", err)
	}
}

func TestApplyRewindAfterStopRejected(t *testing.T) {
	journey := newTestJourney(t)
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(0), Actor: "driver-1"})

	for _, target := range []JourneyStatus{JourneyPreparing, JourneyCheckingTickets} {
		_, _, err := journey.Apply(TransitionRequest{Target: target, Actor: "driver-1"}, time.Now())
		if !errors.Is(err, ErrJourneyRewind) {
			t.Errorf("Expected ErrJourneyRewind for %s, got %v", target, err)
		}
	}
}

func TestApplyTerminalRejectsEverything(t *testing.T) {
	for _, terminal := range []JourneyStatus{JourneyCompleted, JourneyCancelled} {
		journey := newTestJourney(t)
		journey = applyOrFail(t, journey, TransitionRequest{Target: terminal, Actor: "dispatcher"})

		for _, target := range []JourneyStatus{JourneyPreparing, JourneyInTransit, JourneyAtStop, JourneyCompleted, JourneyCancelled} {
			_, _, err := journey.Apply(TransitionRequest{Target: target, StopIndex: intPtr(0), Actor: "driver-1"}, time.Now())
			if !errors.Is(err, ErrTerminalJourney) {
				t.Errorf("Expected ErrTerminalJourney from %s to %s, got %v", terminal, target, err)
			}
		}
	}
}

func TestApplyIgnoresStrayStopIndex(t *testing.T) {
	journey := newTestJourney(t)

	// A stray index on in_transit must not move the bus.
	next, _, err := journey.Apply(TransitionRequest{Target: JourneyInTransit, StopIndex: intPtr(2), Actor: "driver-1"}, time.Now())
	if err != nil {
		t.Fatalf("Failed in_transit transition: %v", err)
	}
	if next.CurrentStopIndex() != -1 {
		t.Errorf("Expected index unchanged at -1, got %d", next.CurrentStopIndex())
	}
	if len(next.StoppedAt()) != 0 {
		t.Errorf("Expected no visited stops, got %v", next.StoppedAt())
	}

	// The bypassed stops remain reachable afterwards.
	next = applyOrFail(t, next, TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(0), Actor: "driver-1"})
	if next.CurrentStopIndex() != 0 || !next.HasVisited(0) {
		t.Errorf("Expected stop 0 reachable after stray index, got index %d", next.CurrentStopIndex())
	}

	// An index on preparing is ignored too, not rejected.
	journey = newTestJourney(t)
	next, _, err = journey.Apply(TransitionRequest{Target: JourneyPreparing, StopIndex: intPtr(1), Actor: "conductor-7"}, time.Now())
	if err != nil {
		t.Fatalf("Failed preparing transition with stray index: %v", err)
	}
	if next.CurrentStopIndex() != -1 {
		t.Errorf("Expected index unchanged at -1, got %d", next.CurrentStopIndex())
	}
}

func TestApplyUnknownTargetRejected(t *testing.T) {
	journey := newTestJourney(t)

	_, _, err := journey.Apply(TransitionRequest{Target: JourneyStatus(99), Actor: "driver-1"}, time.Now())
	if !errors.Is(err, ErrInvalidJourneyStatus) {
		t.Errorf("Expected ErrInvalidJourneyStatus, got %v", err)
	}
}

func TestApplyCancelKeepsStopIndex(t *testing.T) {
	journey := newTestJourney(t)
	journey = applyOrFail(t, journey, TransitionRequest{Target: JourneyAtStop, StopIndex: intPtr(1), Actor: "driver-1"})

	next, entry, err := journey.Apply(TransitionRequest{Target: JourneyCancelled, Notes: "engine trouble", Actor: "dispatcher"}, time.Now())
	if err != nil {
		t.Fatalf("Failed to cancel journey: %v", err)
	}
	if next.CurrentStopIndex() != 1 {
		t.Errorf("Expected index preserved on cancel, got %d", next.CurrentStopIndex())
	}
	if entry.Notes() != "engine trouble" {
		t.Errorf("Expected notes on entry, got %q", entry.Notes())
	}
}

package trip

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func buildTestTrip(t *testing.T) Model {
	departure := time.Now().Add(1 * time.Hour)
	trip, err := NewBuilder(1, departure, departure.Add(4*time.Hour), uuid.New()).
		SetId(7).
		Build()
	if err != nil {
		t.Fatalf("Failed to build trip: %v", err)
	}
	return trip
}

func TestBuilderDefaults(t *testing.T) {
	trip := buildTestTrip(t)

	if trip.Status() != StatusScheduled {
		t.Errorf("Expected new trip scheduled, got %s", trip.Status())
	}
	if trip.ActualDepartureTime() != nil || trip.ActualArrivalTime() != nil {
		t.Error("Expected no actual times on a new trip")
	}
	if trip.CancelledAt() != nil || trip.CancelReason() != "" {
		t.Error("Expected no cancellation data on a new trip")
	}
	if !trip.IsActive() {
		t.Error("Expected a scheduled trip to be active")
	}
}

func TestBuilderRequiresRoute(t *testing.T) {
	departure := time.Now()
	_, err := NewBuilder(0, departure, departure.Add(time.Hour), uuid.New()).Build()
	if err == nil {
		t.Error("Expected error for missing route ID")
	}
}

func TestBuilderCancelledRequiresReason(t *testing.T) {
	departure := time.Now()
	_, err := NewBuilder(1, departure, departure.Add(time.Hour), uuid.New()).
		SetStatus(StatusCancelled).
		Build()
	if !errors.Is(err, ErrMissingCancelReason) {
		t.Errorf("Expected ErrMissingCancelReason, got %v", err)
	}
}

func TestStartStampsDeparture(t *testing.T) {
	trip := buildTestTrip(t)

	started, err := trip.Start()
	if err != nil {
		t.Fatalf("Failed to start trip: %v", err)
	}

	if started.Status() != StatusOngoing {
		t.Errorf("Expected ongoing, got %s", started.Status())
	}
	if started.ActualDepartureTime() == nil {
		t.Error("Expected actual departure time stamped")
	}
	// The original is untouched.
	if trip.Status() != StatusScheduled || trip.ActualDepartureTime() != nil {
		t.Error("Start mutated the receiver")
	}
}

func TestCompleteStampsArrival(t *testing.T) {
	trip := buildTestTrip(t)
	started, err := trip.Start()
	if err != nil {
		t.Fatalf("Failed to start trip: %v", err)
	}

	completed, err := started.Complete()
	if err != nil {
		t.Fatalf("Failed to complete trip: %v", err)
	}

	if completed.Status() != StatusCompleted {
		t.Errorf("Expected completed, got %s", completed.Status())
	}
	if completed.ActualArrivalTime() == nil {
		t.Error("Expected actual arrival time stamped")
	}
	if completed.IsActive() {
		t.Error("Expected a completed trip to be inactive")
	}
}

func TestCancelCarriesReason(t *testing.T) {
	trip := buildTestTrip(t)

	cancelled, err := trip.Cancel("road closed")
	if err != nil {
		t.Fatalf("Failed to cancel trip: %v", err)
	}

	if cancelled.Status() != StatusCancelled {
		t.Errorf("Expected cancelled, got %s", cancelled.Status())
	}
	if cancelled.CancelReason() != "road closed" {
		t.Errorf("Expected reason to be carried, got %q", cancelled.CancelReason())
	}
	if cancelled.CancelledAt() == nil {
		t.Error("Expected cancellation time stamped")
	}

	_, err = trip.Cancel("")
	if !errors.Is(err, ErrMissingCancelReason) {
		t.Errorf("Expected ErrMissingCancelReason for empty reason, got %v", err)
	}
}

func TestJourneyBuilderDefaults(t *testing.T) {
	journey, err := NewJourneyBuilder(7, uuid.New()).Build()
	if err != nil {
		t.Fatalf("Failed to build journey: %v", err)
	}

	if journey.Status() != JourneyPreparing {
		t.Errorf("Expected preparing, got %s", journey.Status())
	}
	if journey.CurrentStopIndex() != -1 {
		t.Errorf("Expected index -1, got %d", journey.CurrentStopIndex())
	}
	if len(journey.StoppedAt()) != 0 {
		t.Errorf("Expected no visited stops, got %v", journey.StoppedAt())
	}
}

func TestJourneyBuilderValidation(t *testing.T) {
	tenantId := uuid.New()

	if _, err := NewJourneyBuilder(0, tenantId).Build(); err == nil {
		t.Error("Expected error for missing trip ID")
	}

	if _, err := NewJourneyBuilder(7, tenantId).SetCurrentStopIndex(-2).Build(); err == nil {
		t.Error("Expected error for index below -1")
	}

	if _, err := NewJourneyBuilder(7, tenantId).SetStatus(JourneyAtStop).Build(); err == nil {
		t.Error("Expected error for at_stop without a reached stop")
	}

	if _, err := NewJourneyBuilder(7, tenantId).SetStatus(JourneyCheckingTickets).SetCurrentStopIndex(1).Build(); err == nil {
		t.Error("Expected error for origin status past a stop")
	}
}

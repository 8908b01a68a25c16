package trip

import (
	"encoding/json"
	"testing"
	"time"

	msgTrip "atlas-trips/kafka/message/trip"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/segmentio/kafka-go"
)

func singleMessage(t *testing.T, p model.Provider[[]kafka.Message]) kafka.Message {
	messages, err := p()
	if err != nil {
		t.Fatalf("Provider returned error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("Expected exactly 1 message, got %d", len(messages))
	}
	if len(messages[0].Key) == 0 {
		t.Error("Expected message key to be set")
	}
	return messages[0]
}

func TestTripScheduledEventProvider(t *testing.T) {
	departure := time.Now().Add(1 * time.Hour)
	m := singleMessage(t, TripScheduledEventProvider(42, 7, departure, departure.Add(4*time.Hour)))

	var event msgTrip.Event[msgTrip.ScheduledBody]
	if err := json.Unmarshal(m.Value, &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.TripId != 42 || event.Type != msgTrip.EventTripScheduled {
		t.Errorf("Unexpected event envelope: %+v", event)
	}
	if event.Body.RouteId != 7 {
		t.Errorf("Expected route 7, got %d", event.Body.RouteId)
	}
}

func TestStatusChangedEventProvider(t *testing.T) {
	departed := time.Now()
	m := singleMessage(t, StatusChangedEventProvider(42, StatusScheduled, StatusOngoing, &departed, nil, "driver-1"))

	var event msgTrip.Event[msgTrip.StatusChangedBody]
	if err := json.Unmarshal(m.Value, &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.Type != msgTrip.EventTripStatusChanged {
		t.Errorf("Unexpected event type %s", event.Type)
	}
	if event.Body.OldStatus != "scheduled" || event.Body.NewStatus != "ongoing" {
		t.Errorf("Unexpected statuses %s -> %s", event.Body.OldStatus, event.Body.NewStatus)
	}
	if event.Body.ActualDepartureTime == nil {
		t.Error("Expected actual departure time on the event")
	}
	if event.Body.Actor != "driver-1" {
		t.Errorf("Expected actor driver-1, got %s", event.Body.Actor)
	}
}

func TestTripCancelledEventProvider(t *testing.T) {
	m := singleMessage(t, TripCancelledEventProvider(42, StatusOngoing, "mechanical failure", time.Now(), "dispatcher"))

	var event msgTrip.Event[msgTrip.CancelledBody]
	if err := json.Unmarshal(m.Value, &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.Type != msgTrip.EventTripCancelled {
		t.Errorf("Unexpected event type %s", event.Type)
	}
	if event.Body.Reason != "mechanical failure" || event.Body.OldStatus != "ongoing" {
		t.Errorf("Unexpected body %+v", event.Body)
	}
}

func TestTripDelayedEventProvider(t *testing.T) {
	departure := time.Now().Add(-30 * time.Minute)
	m := singleMessage(t, TripDelayedEventProvider(42, departure, time.Now()))

	var event msgTrip.Event[msgTrip.DelayedBody]
	if err := json.Unmarshal(m.Value, &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.Type != msgTrip.EventTripDelayed {
		t.Errorf("Unexpected event type %s", event.Type)
	}
}

func TestJourneyStatusChangedEventProvider(t *testing.T) {
	m := singleMessage(t, JourneyStatusChangedEventProvider(42, JourneyInTransit, JourneyAtStop, 1, "driver-1"))

	var event msgTrip.Event[msgTrip.JourneyStatusChangedBody]
	if err := json.Unmarshal(m.Value, &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.Type != msgTrip.EventJourneyStatusChanged {
		t.Errorf("Unexpected event type %s", event.Type)
	}
	if event.Body.OldStatus != "in_transit" || event.Body.NewStatus != "at_stop" || event.Body.StopIndex != 1 {
		t.Errorf("Unexpected body %+v", event.Body)
	}
}

func TestTripErrorEventProvider(t *testing.T) {
	m := singleMessage(t, TripErrorEventProvider(42, "TRIP_START_FAILED", "trip not found", "trip_start"))

	var event msgTrip.Event[msgTrip.ErrorBody]
	if err := json.Unmarshal(m.Value, &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.Type != msgTrip.EventTripError {
		t.Errorf("Unexpected event type %s", event.Type)
	}
	if event.Body.Code != "TRIP_START_FAILED" || event.Body.Operation != "trip_start" {
		t.Errorf("Unexpected body %+v", event.Body)
	}
}

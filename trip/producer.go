package trip

import (
	"time"

	"atlas-trips/kafka/message/trip"
	"github.com/Chronicle20/atlas-kafka/producer"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/segmentio/kafka-go"
)

// TripScheduledEventProvider creates a provider for trip scheduled events
func TripScheduledEventProvider(tripId uint32, routeId uint32, departureTime time.Time, arrivalTime time.Time) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(tripId))
	value := &trip.Event[trip.ScheduledBody]{
		TripId: tripId,
		Type:   trip.EventTripScheduled,
		Body: trip.ScheduledBody{
			RouteId:       routeId,
			DepartureTime: departureTime,
			ArrivalTime:   arrivalTime,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// StatusChangedEventProvider creates a provider for lifecycle status change events
func StatusChangedEventProvider(tripId uint32, oldStatus Status, newStatus Status, actualDepartureTime *time.Time, actualArrivalTime *time.Time, actor string) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(tripId))
	value := &trip.Event[trip.StatusChangedBody]{
		TripId: tripId,
		Type:   trip.EventTripStatusChanged,
		Body: trip.StatusChangedBody{
			OldStatus:           oldStatus.String(),
			NewStatus:           newStatus.String(),
			ActualDepartureTime: actualDepartureTime,
			ActualArrivalTime:   actualArrivalTime,
			ChangedAt:           time.Now(),
			Actor:               actor,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// TripCancelledEventProvider creates a provider for trip cancelled events
func TripCancelledEventProvider(tripId uint32, oldStatus Status, reason string, cancelledAt time.Time, actor string) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(tripId))
	value := &trip.Event[trip.CancelledBody]{
		TripId: tripId,
		Type:   trip.EventTripCancelled,
		Body: trip.CancelledBody{
			OldStatus:   oldStatus.String(),
			Reason:      reason,
			CancelledAt: cancelledAt,
			Actor:       actor,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// TripDelayedEventProvider creates a provider for trip delayed events
func TripDelayedEventProvider(tripId uint32, departureTime time.Time, detectedAt time.Time) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(tripId))
	value := &trip.Event[trip.DelayedBody]{
		TripId: tripId,
		Type:   trip.EventTripDelayed,
		Body: trip.DelayedBody{
			DepartureTime: departureTime,
			DetectedAt:    detectedAt,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// JourneyStatusChangedEventProvider creates a provider for journey status change events
func JourneyStatusChangedEventProvider(tripId uint32, oldStatus JourneyStatus, newStatus JourneyStatus, stopIndex int, actor string) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(tripId))
	value := &trip.Event[trip.JourneyStatusChangedBody]{
		TripId: tripId,
		Type:   trip.EventJourneyStatusChanged,
		Body: trip.JourneyStatusChangedBody{
			OldStatus: oldStatus.String(),
			NewStatus: newStatus.String(),
			StopIndex: stopIndex,
			ChangedAt: time.Now(),
			Actor:     actor,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// TripErrorEventProvider creates a provider for trip error events
func TripErrorEventProvider(tripId uint32, code string, message string, operation string) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(tripId))
	value := &trip.Event[trip.ErrorBody]{
		TripId: tripId,
		Type:   trip.EventTripError,
		Body: trip.ErrorBody{
			Code:      code,
			Message:   message,
			Operation: operation,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

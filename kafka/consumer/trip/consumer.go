package trip

import (
	"context"

	localConsumer "atlas-trips/kafka/consumer"
	"atlas-trips/kafka/message"
	tripMsg "atlas-trips/kafka/message/trip"
	"atlas-trips/kafka/producer"
	tripService "atlas-trips/trip"
	"github.com/Chronicle20/atlas-kafka/consumer"
	"github.com/Chronicle20/atlas-kafka/handler"
	kafka "github.com/Chronicle20/atlas-kafka/message"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewConfig creates a new consumer configuration for trip commands
func NewConfig(l logrus.FieldLogger) func(name string) func(token string) func(groupId string) consumer.Config {
	return localConsumer.NewConfig(l)
}

// InitHandlers initializes all trip command handlers
func InitHandlers(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) []handler.Handler {
	tripProcessor := tripService.NewProcessor(l, ctx, db)

	return []handler.Handler{
		kafka.AdaptHandler(kafka.PersistentConfig(handleStart(l, ctx, tripProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleComplete(l, ctx, tripProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleCancel(l, ctx, tripProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleUpdateJourney(l, ctx, tripProcessor))),
	}
}

// handleStart handles trip start commands
func handleStart(l logrus.FieldLogger, ctx context.Context, processor tripService.Processor) kafka.Handler[tripMsg.Command[tripMsg.StartBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd tripMsg.Command[tripMsg.StartBody]) {
		l.WithFields(logrus.Fields{
			"type":   cmd.Type,
			"tripId": cmd.TripId,
			"actor":  cmd.Actor,
		}).Debug("Processing trip start command")

		if cmd.Type != tripMsg.CommandTripStart {
			return
		}

		transactionId := uuid.New()

		change, err := processor.UpdateStatusAndEmit(transactionId, cmd.TripId, tripService.StatusOngoing, "", cmd.Actor)
		if err != nil {
			l.WithError(err).WithField("tripId", cmd.TripId).Error("Failed to start trip")
			emitTripError(l, ctx, cmd.TripId, "TRIP_START_FAILED", err, "trip_start")
			return
		}

		l.WithFields(logrus.Fields{
			"tripId":    cmd.TripId,
			"newStatus": change.NewStatus().String(),
		}).Info("Trip started successfully")
	}
}

// handleComplete handles trip completion commands
func handleComplete(l logrus.FieldLogger, ctx context.Context, processor tripService.Processor) kafka.Handler[tripMsg.Command[tripMsg.CompleteBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd tripMsg.Command[tripMsg.CompleteBody]) {
		l.WithFields(logrus.Fields{
			"type":   cmd.Type,
			"tripId": cmd.TripId,
			"actor":  cmd.Actor,
		}).Debug("Processing trip completion command")

		if cmd.Type != tripMsg.CommandTripComplete {
			return
		}

		transactionId := uuid.New()

		change, err := processor.UpdateStatusAndEmit(transactionId, cmd.TripId, tripService.StatusCompleted, "", cmd.Actor)
		if err != nil {
			l.WithError(err).WithField("tripId", cmd.TripId).Error("Failed to complete trip")
			emitTripError(l, ctx, cmd.TripId, "TRIP_COMPLETE_FAILED", err, "trip_complete")
			return
		}

		l.WithFields(logrus.Fields{
			"tripId":    cmd.TripId,
			"newStatus": change.NewStatus().String(),
		}).Info("Trip completed successfully")
	}
}

// handleCancel handles trip cancellation commands
func handleCancel(l logrus.FieldLogger, ctx context.Context, processor tripService.Processor) kafka.Handler[tripMsg.Command[tripMsg.CancelBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd tripMsg.Command[tripMsg.CancelBody]) {
		l.WithFields(logrus.Fields{
			"type":   cmd.Type,
			"tripId": cmd.TripId,
			"actor":  cmd.Actor,
		}).Debug("Processing trip cancellation command")

		if cmd.Type != tripMsg.CommandTripCancel {
			return
		}

		transactionId := uuid.New()

		_, err := processor.UpdateStatusAndEmit(transactionId, cmd.TripId, tripService.StatusCancelled, cmd.Body.Reason, cmd.Actor)
		if err != nil {
			l.WithError(err).WithField("tripId", cmd.TripId).Error("Failed to cancel trip")
			emitTripError(l, ctx, cmd.TripId, "TRIP_CANCEL_FAILED", err, "trip_cancel")
			return
		}

		l.WithFields(logrus.Fields{
			"tripId": cmd.TripId,
			"reason": cmd.Body.Reason,
		}).Info("Trip cancelled successfully")
	}
}

// handleUpdateJourney handles journey status update commands
func handleUpdateJourney(l logrus.FieldLogger, ctx context.Context, processor tripService.Processor) kafka.Handler[tripMsg.Command[tripMsg.UpdateJourneyBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd tripMsg.Command[tripMsg.UpdateJourneyBody]) {
		l.WithFields(logrus.Fields{
			"type":   cmd.Type,
			"tripId": cmd.TripId,
			"status": cmd.Body.Status,
			"actor":  cmd.Actor,
		}).Debug("Processing journey update command")

		if cmd.Type != tripMsg.CommandTripUpdateJourney {
			return
		}

		target, ok := tripService.JourneyStatusFromString(cmd.Body.Status)
		if !ok {
			l.WithFields(logrus.Fields{
				"tripId": cmd.TripId,
				"status": cmd.Body.Status,
			}).Error("Failed to parse journey status")
			emitTripError(l, ctx, cmd.TripId, "JOURNEY_UPDATE_FAILED", tripService.ErrInvalidJourneyStatus, "journey_update")
			return
		}

		request := tripService.TransitionRequest{
			Target: target,
			Notes:  cmd.Body.Notes,
			Actor:  cmd.Actor,
		}
		if cmd.Body.StopIndex != nil {
			// Commands carry the 1-based display stop number.
			idx := *cmd.Body.StopIndex - 1
			request.StopIndex = &idx
		}
		if cmd.Body.Latitude != nil && cmd.Body.Longitude != nil {
			request.Location = &tripService.Location{
				Latitude:  *cmd.Body.Latitude,
				Longitude: *cmd.Body.Longitude,
			}
		}

		transactionId := uuid.New()

		update, err := processor.UpdateJourneyStatusAndEmit(transactionId, cmd.TripId, request)
		if err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"tripId": cmd.TripId,
				"status": cmd.Body.Status,
			}).Error("Failed to update journey status")
			emitTripError(l, ctx, cmd.TripId, "JOURNEY_UPDATE_FAILED", err, "journey_update")
			return
		}

		l.WithFields(logrus.Fields{
			"tripId":    cmd.TripId,
			"newStatus": update.NewStatus().String(),
			"stopIndex": update.Journey().CurrentStopIndex(),
		}).Info("Journey status updated successfully")
	}
}

// emitTripError emits an error event for a rejected or failed command
func emitTripError(l logrus.FieldLogger, ctx context.Context, tripId uint32, code string, err error, operation string) {
	errorProvider := tripService.TripErrorEventProvider(tripId, code, err.Error(), operation)
	if emitErr := message.Emit(producer.ProviderImpl(l)(ctx))(func(buf *message.Buffer) error {
		return buf.Put(tripMsg.EnvEventTopicStatus, errorProvider)
	}); emitErr != nil {
		l.WithError(emitErr).WithField("tripId", tripId).Error("Failed to emit error event")
	}
}

// InitConsumers initializes the trip command consumers
func InitConsumers(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) func(func(config consumer.Config, decorators ...model.Decorator[consumer.Config])) func(consumerGroupId string) {
	return func(rf func(config consumer.Config, decorators ...model.Decorator[consumer.Config])) func(consumerGroupId string) {
		return func(consumerGroupId string) {
			config := NewConfig(l)("trip_commands")(tripMsg.EnvCommandTopic)(consumerGroupId)

			rf(config,
				consumer.SetHeaderParsers(consumer.SpanHeaderParser, consumer.TenantHeaderParser),
			)
		}
	}
}

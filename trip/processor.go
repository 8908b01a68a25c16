package trip

import (
	"context"
	"time"

	"atlas-trips/kafka/message"
	msgTrip "atlas-trips/kafka/message/trip"
	"atlas-trips/kafka/producer"
	"atlas-trips/route"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/Chronicle20/atlas-tenant"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StatusChange describes an accepted lifecycle transition
type StatusChange struct {
	trip      Model
	oldStatus Status
	newStatus Status
}

// Trip returns the trip after the transition
func (c StatusChange) Trip() Model {
	return c.trip
}

// OldStatus returns the lifecycle status before the transition
func (c StatusChange) OldStatus() Status {
	return c.oldStatus
}

// NewStatus returns the lifecycle status after the transition
func (c StatusChange) NewStatus() Status {
	return c.newStatus
}

// JourneyUpdate describes an accepted journey transition with derived progress
type JourneyUpdate struct {
	journey    Journey
	oldStatus  JourneyStatus
	newStatus  JourneyStatus
	progress   float64
	totalStops int
}

// Journey returns the journey after the transition
func (u JourneyUpdate) Journey() Journey {
	return u.journey
}

// OldStatus returns the journey status before the transition
func (u JourneyUpdate) OldStatus() JourneyStatus {
	return u.oldStatus
}

// NewStatus returns the journey status after the transition
func (u JourneyUpdate) NewStatus() JourneyStatus {
	return u.newStatus
}

// Progress returns the derived completion percentage
func (u JourneyUpdate) Progress() float64 {
	return u.progress
}

// TotalStops returns the number of intermediate stops on the route
func (u JourneyUpdate) TotalStops() int {
	return u.totalStops
}

// Snapshot is a read-only view of a trip's journey sub-state
type Snapshot struct {
	journey    Journey
	history    []HistoryEntry
	progress   float64
	totalStops int
}

// Journey returns the journey sub-state
func (s Snapshot) Journey() Journey {
	return s.journey
}

// History returns the transition trail in append order
func (s Snapshot) History() []HistoryEntry {
	return s.history
}

// Progress returns the derived completion percentage
func (s Snapshot) Progress() float64 {
	return s.progress
}

// TotalStops returns the number of intermediate stops on the route
func (s Snapshot) TotalStops() int {
	return s.totalStops
}

// Processor interface defines the trip lifecycle and journey tracking operations
type Processor interface {
	WithRouteProcessor(routeProcessor route.Processor) Processor
	WithProducer(provider producer.Provider) Processor
	WithLockTimeout(timeout time.Duration) Processor

	// Scheduling
	Schedule(routeId uint32, departureTime time.Time, arrivalTime time.Time) model.Provider[Model]
	ScheduleAndEmit(transactionId uuid.UUID, routeId uint32, departureTime time.Time, arrivalTime time.Time) (Model, error)

	// Lifecycle orchestration
	UpdateStatus(tripId uint32, requested Status, reason string, actor string) model.Provider[StatusChange]
	UpdateStatusAndEmit(transactionId uuid.UUID, tripId uint32, requested Status, reason string, actor string) (StatusChange, error)

	// Journey tracking
	UpdateJourneyStatus(tripId uint32, request TransitionRequest) model.Provider[JourneyUpdate]
	UpdateJourneyStatusAndEmit(transactionId uuid.UUID, tripId uint32, request TransitionRequest) (JourneyUpdate, error)

	// Queries
	GetById(tripId uint32) model.Provider[Model]
	JourneySnapshot(tripId uint32) model.Provider[Snapshot]

	// Background work
	ProcessOverdueDepartures(grace time.Duration) error
}

// ProcessorImpl implements the Processor interface
type ProcessorImpl struct {
	log            logrus.FieldLogger
	ctx            context.Context
	db             *gorm.DB
	producer       producer.Provider
	routeProcessor route.Processor
	lockTimeout    time.Duration
}

// NewProcessor creates a new processor instance
func NewProcessor(log logrus.FieldLogger, ctx context.Context, db *gorm.DB) Processor {
	return &ProcessorImpl{
		log:            log,
		ctx:            ctx,
		db:             db,
		producer:       producer.ProviderImpl(log)(ctx),
		routeProcessor: route.NewProcessor(log, ctx),
		lockTimeout:    DefaultLockTimeout,
	}
}

// WithRouteProcessor creates a new processor instance with a custom route processor for testing
func (p *ProcessorImpl) WithRouteProcessor(routeProcessor route.Processor) Processor {
	return &ProcessorImpl{
		log:            p.log,
		ctx:            p.ctx,
		db:             p.db,
		producer:       p.producer,
		routeProcessor: routeProcessor,
		lockTimeout:    p.lockTimeout,
	}
}

// WithProducer creates a new processor instance with a custom producer for testing
func (p *ProcessorImpl) WithProducer(provider producer.Provider) Processor {
	return &ProcessorImpl{
		log:            p.log,
		ctx:            p.ctx,
		db:             p.db,
		producer:       provider,
		routeProcessor: p.routeProcessor,
		lockTimeout:    p.lockTimeout,
	}
}

// WithLockTimeout creates a new processor instance with a custom per-trip lock timeout
func (p *ProcessorImpl) WithLockTimeout(timeout time.Duration) Processor {
	return &ProcessorImpl{
		log:            p.log,
		ctx:            p.ctx,
		db:             p.db,
		producer:       p.producer,
		routeProcessor: p.routeProcessor,
		lockTimeout:    timeout,
	}
}

// Schedule creates the trip lifecycle state and its journey sub-state together
func (p *ProcessorImpl) Schedule(routeId uint32, departureTime time.Time, arrivalTime time.Time) model.Provider[Model] {
	return func() (Model, error) {
		p.log.WithField("routeId", routeId).Debug("Scheduling trip")

		// Route must exist; the registry is the authority on stop ordering.
		if _, err := p.routeProcessor.GetById(routeId); err != nil {
			return Model{}, err
		}

		t := tenant.MustFromContext(p.ctx)

		var entity Entity
		err := p.db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			entity, txErr = CreateTrip(tx, p.log)(routeId, departureTime, arrivalTime, t.Id())()
			if txErr != nil {
				return txErr
			}
			_, txErr = CreateJourney(tx, p.log)(entity.ID, t.Id())()
			return txErr
		})
		if err != nil {
			return Model{}, err
		}

		trip, err := Make(entity)
		if err != nil {
			return Model{}, err
		}

		p.log.WithFields(logrus.Fields{
			"tripId":  trip.Id(),
			"routeId": routeId,
		}).Info("Trip scheduled")

		return trip, nil
	}
}

// ScheduleAndEmit schedules a trip and emits the scheduled event
func (p *ProcessorImpl) ScheduleAndEmit(transactionId uuid.UUID, routeId uint32, departureTime time.Time, arrivalTime time.Time) (Model, error) {
	trip, err := p.Schedule(routeId, departureTime, arrivalTime)()
	if err != nil {
		return Model{}, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		return buf.Put(msgTrip.EnvEventTopicStatus, TripScheduledEventProvider(trip.Id(), routeId, departureTime, arrivalTime))
	})
	if err != nil {
		// The trip exists regardless; notification delivery is best-effort.
		p.log.WithError(err).WithFields(logrus.Fields{
			"transactionId": transactionId,
			"tripId":        trip.Id(),
		}).Error("Trip scheduled but event emission failed")
	}

	return trip, nil
}

// UpdateStatus applies a lifecycle transition under the per-trip lock
func (p *ProcessorImpl) UpdateStatus(tripId uint32, requested Status, reason string, actor string) model.Provider[StatusChange] {
	return func() (StatusChange, error) {
		p.log.WithFields(logrus.Fields{
			"tripId":    tripId,
			"requested": requested.String(),
			"actor":     actor,
		}).Debug("Processing lifecycle transition")

		t := tenant.MustFromContext(p.ctx)

		release, err := acquireTripLock(p.ctx, t.Id(), tripId, p.lockTimeout)
		if err != nil {
			return StatusChange{}, err
		}
		defer release()

		trip, err := GetTripByIdProvider(p.db, p.log)(tripId, t.Id())()
		if err != nil {
			return StatusChange{}, err
		}

		if !trip.Status().CanTransitionTo(requested) {
			return StatusChange{}, NewIllegalTransitionError(trip.Status(), requested)
		}

		if requested == StatusCancelled && reason == "" {
			return StatusChange{}, ErrMissingCancelReason
		}

		oldStatus := trip.Status()

		var next Model
		switch requested {
		case StatusOngoing:
			next, err = trip.Start()
		case StatusCompleted:
			next, err = trip.Complete()
		case StatusCancelled:
			next, err = trip.Cancel(reason)
		default:
			return StatusChange{}, NewIllegalTransitionError(oldStatus, requested)
		}
		if err != nil {
			return StatusChange{}, err
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			_, txErr := UpdateTrip(tx, p.log)(next)()
			return txErr
		})
		if err != nil {
			return StatusChange{}, err
		}

		p.log.WithFields(logrus.Fields{
			"tripId":    tripId,
			"oldStatus": oldStatus.String(),
			"newStatus": next.Status().String(),
		}).Info("Trip lifecycle status updated")

		return StatusChange{trip: next, oldStatus: oldStatus, newStatus: next.Status()}, nil
	}
}

// UpdateStatusAndEmit applies a lifecycle transition and emits exactly one
// status event for it. Rejected transitions emit nothing.
func (p *ProcessorImpl) UpdateStatusAndEmit(transactionId uuid.UUID, tripId uint32, requested Status, reason string, actor string) (StatusChange, error) {
	change, err := p.UpdateStatus(tripId, requested, reason, actor)()
	if err != nil {
		return StatusChange{}, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		if change.NewStatus() == StatusCancelled {
			cancelledAt := time.Now()
			if change.Trip().CancelledAt() != nil {
				cancelledAt = *change.Trip().CancelledAt()
			}
			return buf.Put(msgTrip.EnvEventTopicStatus, TripCancelledEventProvider(tripId, change.OldStatus(), change.Trip().CancelReason(), cancelledAt, actor))
		}
		return buf.Put(msgTrip.EnvEventTopicStatus, StatusChangedEventProvider(tripId, change.OldStatus(), change.NewStatus(), change.Trip().ActualDepartureTime(), change.Trip().ActualArrivalTime(), actor))
	})
	if err != nil {
		// The transition is already committed. Notification delivery is
		// best-effort and retryable by the channel, never rolled back.
		p.log.WithError(err).WithFields(logrus.Fields{
			"transactionId": transactionId,
			"tripId":        tripId,
		}).Error("Lifecycle status updated but event emission failed")
		return change, nil
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"tripId":        tripId,
	}).Debug("Trip status event emitted")

	return change, nil
}

// UpdateJourneyStatus applies a journey transition under the per-trip lock.
// State and history commit atomically; rejections leave no trace.
func (p *ProcessorImpl) UpdateJourneyStatus(tripId uint32, request TransitionRequest) model.Provider[JourneyUpdate] {
	return func() (JourneyUpdate, error) {
		p.log.WithFields(logrus.Fields{
			"tripId": tripId,
			"target": request.Target.String(),
			"actor":  request.Actor,
		}).Debug("Processing journey transition")

		t := tenant.MustFromContext(p.ctx)

		release, err := acquireTripLock(p.ctx, t.Id(), tripId, p.lockTimeout)
		if err != nil {
			return JourneyUpdate{}, err
		}
		defer release()

		trip, err := GetTripByIdProvider(p.db, p.log)(tripId, t.Id())()
		if err != nil {
			return JourneyUpdate{}, err
		}

		r, err := p.routeProcessor.GetById(trip.RouteId())
		if err != nil {
			return JourneyUpdate{}, err
		}
		totalStops := r.TotalStops()

		if request.Target == JourneyAtStop && request.StopIndex != nil && *request.StopIndex > totalStops-1 {
			return JourneyUpdate{}, ErrStopIndexOutOfRange
		}

		journey, err := GetJourneyByTripProvider(p.db, p.log)(tripId, t.Id())()
		if err != nil {
			return JourneyUpdate{}, err
		}

		oldStatus := journey.Status()

		next, entry, err := journey.Apply(request, time.Now())
		if err != nil {
			return JourneyUpdate{}, err
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if _, txErr := UpdateJourney(tx, p.log)(next)(); txErr != nil {
				return txErr
			}
			_, txErr := AppendHistory(tx, p.log)(tripId, entry, t.Id())()
			return txErr
		})
		if err != nil {
			return JourneyUpdate{}, err
		}

		progress := JourneyProgress(next, totalStops)

		p.log.WithFields(logrus.Fields{
			"tripId":    tripId,
			"oldStatus": oldStatus.String(),
			"newStatus": next.Status().String(),
			"stopIndex": next.CurrentStopIndex(),
		}).Info("Journey status updated")

		return JourneyUpdate{
			journey:    next,
			oldStatus:  oldStatus,
			newStatus:  next.Status(),
			progress:   progress,
			totalStops: totalStops,
		}, nil
	}
}

// UpdateJourneyStatusAndEmit applies a journey transition and emits exactly
// one journey event for it. Rejected transitions emit nothing.
func (p *ProcessorImpl) UpdateJourneyStatusAndEmit(transactionId uuid.UUID, tripId uint32, request TransitionRequest) (JourneyUpdate, error) {
	update, err := p.UpdateJourneyStatus(tripId, request)()
	if err != nil {
		return JourneyUpdate{}, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		return buf.Put(msgTrip.EnvEventTopicStatus, JourneyStatusChangedEventProvider(tripId, update.OldStatus(), update.NewStatus(), update.Journey().CurrentStopIndex(), request.Actor))
	})
	if err != nil {
		// Committed state wins; the event channel retries on its own terms.
		p.log.WithError(err).WithFields(logrus.Fields{
			"transactionId": transactionId,
			"tripId":        tripId,
		}).Error("Journey status updated but event emission failed")
		return update, nil
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"tripId":        tripId,
	}).Debug("Journey status event emitted")

	return update, nil
}

// ProcessOverdueDepartures emits a delayed event for every trip still
// scheduled past its planned departure time plus the grace period. Detection
// only; the lifecycle state is untouched.
func (p *ProcessorImpl) ProcessOverdueDepartures(grace time.Duration) error {
	t := tenant.MustFromContext(p.ctx)

	asOf := time.Now().Add(-grace)
	trips, err := GetOverdueScheduledTripsProvider(p.db, p.log)(asOf, t.Id())()
	if err != nil {
		return err
	}

	if len(trips) == 0 {
		return nil
	}

	p.log.WithField("count", len(trips)).Debug("Detected overdue scheduled trips")

	detectedAt := time.Now()
	return message.Emit(p.producer)(func(buf *message.Buffer) error {
		for _, overdue := range trips {
			if err := buf.Put(msgTrip.EnvEventTopicStatus, TripDelayedEventProvider(overdue.Id(), overdue.DepartureTime(), detectedAt)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetById retrieves a trip by ID
func (p *ProcessorImpl) GetById(tripId uint32) model.Provider[Model] {
	return func() (Model, error) {
		t := tenant.MustFromContext(p.ctx)
		return GetTripByIdProvider(p.db, p.log)(tripId, t.Id())()
	}
}

// JourneySnapshot retrieves the journey sub-state, trail, and derived progress
// for a trip. Read-only; no side effects.
func (p *ProcessorImpl) JourneySnapshot(tripId uint32) model.Provider[Snapshot] {
	return func() (Snapshot, error) {
		t := tenant.MustFromContext(p.ctx)

		trip, err := GetTripByIdProvider(p.db, p.log)(tripId, t.Id())()
		if err != nil {
			return Snapshot{}, err
		}

		r, err := p.routeProcessor.GetById(trip.RouteId())
		if err != nil {
			return Snapshot{}, err
		}

		journey, err := GetJourneyByTripProvider(p.db, p.log)(tripId, t.Id())()
		if err != nil {
			return Snapshot{}, err
		}

		history, err := GetHistoryByTripProvider(p.db, p.log)(tripId, t.Id())()
		if err != nil {
			return Snapshot{}, err
		}

		return Snapshot{
			journey:    journey,
			history:    history,
			progress:   JourneyProgress(journey, r.TotalStops()),
			totalStops: r.TotalStops(),
		}, nil
	}
}

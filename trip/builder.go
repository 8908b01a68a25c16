package trip

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Builder provides fluent construction of trip lifecycle models
type Builder struct {
	id                  uint32
	routeId             uint32
	status              Status
	departureTime       time.Time
	arrivalTime         time.Time
	actualDepartureTime *time.Time
	actualArrivalTime   *time.Time
	cancelReason        string
	cancelledAt         *time.Time
	tenantId            uuid.UUID
	createdAt           time.Time
	updatedAt           time.Time
}

// NewBuilder creates a new builder with required parameters
func NewBuilder(routeId uint32, departureTime time.Time, arrivalTime time.Time, tenantId uuid.UUID) *Builder {
	now := time.Now()
	return &Builder{
		routeId:       routeId,
		status:        StatusScheduled,
		departureTime: departureTime,
		arrivalTime:   arrivalTime,
		tenantId:      tenantId,
		createdAt:     now,
		updatedAt:     now,
	}
}

// SetId sets the trip ID
func (b *Builder) SetId(id uint32) *Builder {
	b.id = id
	return b
}

// SetStatus sets the lifecycle status
func (b *Builder) SetStatus(status Status) *Builder {
	b.status = status
	return b
}

// SetDepartureTime sets the scheduled departure time
func (b *Builder) SetDepartureTime(departureTime time.Time) *Builder {
	b.departureTime = departureTime
	return b
}

// SetArrivalTime sets the scheduled arrival time
func (b *Builder) SetArrivalTime(arrivalTime time.Time) *Builder {
	b.arrivalTime = arrivalTime
	return b
}

// SetActualDepartureTime sets the actual departure timestamp
func (b *Builder) SetActualDepartureTime(actualDepartureTime *time.Time) *Builder {
	b.actualDepartureTime = actualDepartureTime
	return b
}

// SetActualArrivalTime sets the actual arrival timestamp
func (b *Builder) SetActualArrivalTime(actualArrivalTime *time.Time) *Builder {
	b.actualArrivalTime = actualArrivalTime
	return b
}

// SetCancelReason sets the cancellation reason
func (b *Builder) SetCancelReason(cancelReason string) *Builder {
	b.cancelReason = cancelReason
	return b
}

// SetCancelledAt sets the cancellation timestamp
func (b *Builder) SetCancelledAt(cancelledAt *time.Time) *Builder {
	b.cancelledAt = cancelledAt
	return b
}

// SetCreatedAt sets the creation timestamp
func (b *Builder) SetCreatedAt(createdAt time.Time) *Builder {
	b.createdAt = createdAt
	return b
}

// SetUpdatedAt sets the last update timestamp
func (b *Builder) SetUpdatedAt(updatedAt time.Time) *Builder {
	b.updatedAt = updatedAt
	return b
}

// Build validates and constructs the final trip model
func (b *Builder) Build() (Model, error) {
	if b.routeId == 0 {
		return Model{}, errors.New("route ID is required")
	}

	if b.status == StatusCancelled && b.cancelReason == "" {
		return Model{}, ErrMissingCancelReason
	}

	return Model{
		id:                  b.id,
		routeId:             b.routeId,
		status:              b.status,
		departureTime:       b.departureTime,
		arrivalTime:         b.arrivalTime,
		actualDepartureTime: b.actualDepartureTime,
		actualArrivalTime:   b.actualArrivalTime,
		cancelReason:        b.cancelReason,
		cancelledAt:         b.cancelledAt,
		tenantId:            b.tenantId,
		createdAt:           b.createdAt,
		updatedAt:           b.updatedAt,
	}, nil
}

// JourneyBuilder provides fluent construction of journey models
type JourneyBuilder struct {
	tripId           uint32
	status           JourneyStatus
	currentStopIndex int
	stoppedAt        []int
	tenantId         uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
}

// NewJourneyBuilder creates a new builder for a journey at its initial state
func NewJourneyBuilder(tripId uint32, tenantId uuid.UUID) *JourneyBuilder {
	now := time.Now()
	return &JourneyBuilder{
		tripId:           tripId,
		status:           JourneyPreparing,
		currentStopIndex: -1,
		stoppedAt:        []int{},
		tenantId:         tenantId,
		createdAt:        now,
		updatedAt:        now,
	}
}

// SetStatus sets the journey status
func (b *JourneyBuilder) SetStatus(status JourneyStatus) *JourneyBuilder {
	b.status = status
	return b
}

// SetCurrentStopIndex sets the current stop index
func (b *JourneyBuilder) SetCurrentStopIndex(currentStopIndex int) *JourneyBuilder {
	b.currentStopIndex = currentStopIndex
	return b
}

// SetStoppedAt sets the visited stop indices
func (b *JourneyBuilder) SetStoppedAt(stoppedAt []int) *JourneyBuilder {
	b.stoppedAt = stoppedAt
	return b
}

// AddStoppedAt appends a visited stop index
func (b *JourneyBuilder) AddStoppedAt(stopIndex int) *JourneyBuilder {
	b.stoppedAt = append(b.stoppedAt, stopIndex)
	return b
}

// SetCreatedAt sets the creation timestamp
func (b *JourneyBuilder) SetCreatedAt(createdAt time.Time) *JourneyBuilder {
	b.createdAt = createdAt
	return b
}

// SetUpdatedAt sets the last update timestamp
func (b *JourneyBuilder) SetUpdatedAt(updatedAt time.Time) *JourneyBuilder {
	b.updatedAt = updatedAt
	return b
}

// Build validates and constructs the final journey model
func (b *JourneyBuilder) Build() (Journey, error) {
	if b.tripId == 0 {
		return Journey{}, errors.New("trip ID is required")
	}

	if b.currentStopIndex < -1 {
		return Journey{}, errors.New("current stop index below lower bound")
	}

	if b.status == JourneyAtStop && b.currentStopIndex < 0 {
		return Journey{}, errors.New("at_stop requires a reached stop")
	}

	if b.status.AtOrigin() && b.currentStopIndex != -1 {
		return Journey{}, errors.New("origin status requires no reached stop")
	}

	stoppedAt := make([]int, len(b.stoppedAt))
	copy(stoppedAt, b.stoppedAt)

	return Journey{
		tripId:           b.tripId,
		status:           b.status,
		currentStopIndex: b.currentStopIndex,
		stoppedAt:        stoppedAt,
		tenantId:         b.tenantId,
		createdAt:        b.createdAt,
		updatedAt:        b.updatedAt,
	}, nil
}

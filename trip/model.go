package trip

import (
	"time"

	"github.com/google/uuid"
)

// Model represents an immutable trip lifecycle domain object
type Model struct {
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

// Id returns the trip ID
func (m Model) Id() uint32 {
	return m.id
}

// RouteId returns the route the trip runs on
func (m Model) RouteId() uint32 {
	return m.routeId
}

// Status returns the lifecycle status
func (m Model) Status() Status {
	return m.status
}

// DepartureTime returns the scheduled departure time
func (m Model) DepartureTime() time.Time {
	return m.departureTime
}

// ArrivalTime returns the scheduled arrival time
func (m Model) ArrivalTime() time.Time {
	return m.arrivalTime
}

// ActualDepartureTime returns the moment the trip entered ongoing, if it did
func (m Model) ActualDepartureTime() *time.Time {
	return m.actualDepartureTime
}

// ActualArrivalTime returns the moment the trip completed, if it did
func (m Model) ActualArrivalTime() *time.Time {
	return m.actualArrivalTime
}

// CancelReason returns the reason the trip was cancelled, empty otherwise
func (m Model) CancelReason() string {
	return m.cancelReason
}

// CancelledAt returns the moment the trip was cancelled, if it was
func (m Model) CancelledAt() *time.Time {
	return m.cancelledAt
}

// TenantId returns the tenant ID
func (m Model) TenantId() uuid.UUID {
	return m.tenantId
}

// CreatedAt returns the creation timestamp
func (m Model) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns the last update timestamp
func (m Model) UpdatedAt() time.Time {
	return m.updatedAt
}

// IsActive returns true while the trip has not reached a terminal status
func (m Model) IsActive() bool {
	return !m.status.IsTerminal()
}

// Builder returns a new builder seeded from the trip
func (m Model) Builder() *Builder {
	return &Builder{
		id:                  m.id,
		routeId:             m.routeId,
		status:              m.status,
		departureTime:       m.departureTime,
		arrivalTime:         m.arrivalTime,
		actualDepartureTime: m.actualDepartureTime,
		actualArrivalTime:   m.actualArrivalTime,
		cancelReason:        m.cancelReason,
		cancelledAt:         m.cancelledAt,
		tenantId:            m.tenantId,
		createdAt:           m.createdAt,
		updatedAt:           m.updatedAt,
	}
}

// Start creates a new trip model in ongoing status with the departure stamped
func (m Model) Start() (Model, error) {
	now := time.Now()
	return m.Builder().
		SetStatus(StatusOngoing).
		SetActualDepartureTime(&now).
		SetUpdatedAt(now).
		Build()
}

// Complete creates a new trip model in completed status with the arrival stamped
func (m Model) Complete() (Model, error) {
	now := time.Now()
	return m.Builder().
		SetStatus(StatusCompleted).
		SetActualArrivalTime(&now).
		SetUpdatedAt(now).
		Build()
}

// Cancel creates a new trip model in cancelled status carrying the reason
func (m Model) Cancel(reason string) (Model, error) {
	now := time.Now()
	return m.Builder().
		SetStatus(StatusCancelled).
		SetCancelReason(reason).
		SetCancelledAt(&now).
		SetUpdatedAt(now).
		Build()
}

package trip

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents the GORM-compatible database representation of a trip lifecycle state
type Entity struct {
	ID                  uint32     `gorm:"primaryKey;autoIncrement"`
	RouteId             uint32     `gorm:"index;not null"`
	Status              Status     `gorm:"index;not null"`
	DepartureTime       time.Time  `gorm:"index;not null"`
	ArrivalTime         time.Time  `gorm:"not null"`
	ActualDepartureTime *time.Time `gorm:"index"`
	ActualArrivalTime   *time.Time `gorm:"index"`
	CancelReason        string     `gorm:"type:text"`
	CancelledAt         *time.Time `gorm:"index"`
	TenantId            uuid.UUID  `gorm:"type:uuid;index;not null"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null"`
}

// TableName returns the table name for the trip entity
func (Entity) TableName() string {
	return "trips"
}

// JourneyEntity represents the GORM-compatible database representation of a journey sub-state
type JourneyEntity struct {
	ID               uint32        `gorm:"primaryKey;autoIncrement"`
	TripId           uint32        `gorm:"uniqueIndex:idx_journey_trip_tenant;not null"`
	Status           JourneyStatus `gorm:"index;not null"`
	CurrentStopIndex int           `gorm:"not null;default:-1"`
	StoppedAt        string        `gorm:"type:text"` // JSON array of visited stop indices
	TenantId         uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_journey_trip_tenant;not null"`
	CreatedAt        time.Time     `gorm:"not null"`
	UpdatedAt        time.Time     `gorm:"not null"`
}

// TableName returns the table name for the journey entity
func (JourneyEntity) TableName() string {
	return "journeys"
}

// HistoryEntity represents one row of the append-only journey transition trail
type HistoryEntity struct {
	ID         uint32        `gorm:"primaryKey;autoIncrement"`
	TripId     uint32        `gorm:"index;not null"`
	FromStatus JourneyStatus `gorm:"not null"`
	ToStatus   JourneyStatus `gorm:"not null"`
	StopIndex  int           `gorm:"not null"`
	Actor      string        `gorm:"index;not null"`
	Notes      string        `gorm:"type:text"`
	Latitude   *float64
	Longitude  *float64
	TenantId   uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `gorm:"index;not null"`
}

// TableName returns the table name for the history entity
func (HistoryEntity) TableName() string {
	return "journey_history"
}

// Migration performs the database migration for the trip, journey, and history entities
func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entity{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&JourneyEntity{}); err != nil {
		return err
	}
	return db.AutoMigrate(&HistoryEntity{})
}

// Make transforms a trip entity to a domain model
func Make(entity Entity) (Model, error) {
	return NewBuilder(entity.RouteId, entity.DepartureTime, entity.ArrivalTime, entity.TenantId).
		SetId(entity.ID).
		SetStatus(entity.Status).
		SetActualDepartureTime(entity.ActualDepartureTime).
		SetActualArrivalTime(entity.ActualArrivalTime).
		SetCancelReason(entity.CancelReason).
		SetCancelledAt(entity.CancelledAt).
		SetCreatedAt(entity.CreatedAt).
		SetUpdatedAt(entity.UpdatedAt).
		Build()
}

// ToEntity converts a trip domain model to a database entity
func (m Model) ToEntity() Entity {
	return Entity{
		ID:                  m.id,
		RouteId:             m.routeId,
		Status:              m.status,
		DepartureTime:       m.departureTime,
		ArrivalTime:         m.arrivalTime,
		ActualDepartureTime: m.actualDepartureTime,
		ActualArrivalTime:   m.actualArrivalTime,
		CancelReason:        m.cancelReason,
		CancelledAt:         m.cancelledAt,
		TenantId:            m.tenantId,
		CreatedAt:           m.createdAt,
		UpdatedAt:           m.updatedAt,
	}
}

// MakeJourney transforms a journey entity to a domain model
func MakeJourney(entity JourneyEntity) (Journey, error) {
	stoppedAt, err := parseStoppedAt(entity.StoppedAt)
	if err != nil {
		return Journey{}, err
	}

	return NewJourneyBuilder(entity.TripId, entity.TenantId).
		SetStatus(entity.Status).
		SetCurrentStopIndex(entity.CurrentStopIndex).
		SetStoppedAt(stoppedAt).
		SetCreatedAt(entity.CreatedAt).
		SetUpdatedAt(entity.UpdatedAt).
		Build()
}

// ToJourneyEntity converts a journey domain model to a database entity
func (j Journey) ToJourneyEntity() (JourneyEntity, error) {
	stoppedAtJSON, err := stoppedAtToJSON(j.stoppedAt)
	if err != nil {
		return JourneyEntity{}, err
	}

	return JourneyEntity{
		TripId:           j.tripId,
		Status:           j.status,
		CurrentStopIndex: j.currentStopIndex,
		StoppedAt:        stoppedAtJSON,
		TenantId:         j.tenantId,
		CreatedAt:        j.createdAt,
		UpdatedAt:        j.updatedAt,
	}, nil
}

// MakeHistoryEntry transforms a history entity to a domain value
func MakeHistoryEntry(entity HistoryEntity) HistoryEntry {
	var location *Location
	if entity.Latitude != nil && entity.Longitude != nil {
		location = &Location{Latitude: *entity.Latitude, Longitude: *entity.Longitude}
	}

	return HistoryEntry{
		fromStatus: entity.FromStatus,
		toStatus:   entity.ToStatus,
		stopIndex:  entity.StopIndex,
		actor:      entity.Actor,
		notes:      entity.Notes,
		location:   location,
		at:         entity.CreatedAt,
	}
}

// ToHistoryEntity converts a history entry to a database entity for the given trip
func (e HistoryEntry) ToHistoryEntity(tripId uint32, tenantId uuid.UUID) HistoryEntity {
	var latitude, longitude *float64
	if e.location != nil {
		lat := e.location.Latitude
		lng := e.location.Longitude
		latitude = &lat
		longitude = &lng
	}

	return HistoryEntity{
		TripId:     tripId,
		FromStatus: e.fromStatus,
		ToStatus:   e.toStatus,
		StopIndex:  e.stopIndex,
		Actor:      e.actor,
		Notes:      e.notes,
		Latitude:   latitude,
		Longitude:  longitude,
		TenantId:   tenantId,
		CreatedAt:  e.at,
	}
}

// parseStoppedAt converts a JSON string to a slice of stop indices
func parseStoppedAt(stoppedAtJSON string) ([]int, error) {
	if stoppedAtJSON == "" {
		return []int{}, nil
	}

	var stoppedAt []int
	if err := json.Unmarshal([]byte(stoppedAtJSON), &stoppedAt); err != nil {
		return nil, err
	}

	return stoppedAt, nil
}

// stoppedAtToJSON converts a slice of stop indices to a JSON string
func stoppedAtToJSON(stoppedAt []int) (string, error) {
	if len(stoppedAt) == 0 {
		return "[]", nil
	}

	data, err := json.Marshal(stoppedAt)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

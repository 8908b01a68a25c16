package trip

import (
	"errors"
	"time"

	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GetTripByIdProvider retrieves a trip by ID
func GetTripByIdProvider(db *gorm.DB, log logrus.FieldLogger) func(tripId uint32, tenantId uuid.UUID) model.Provider[Model] {
	return func(tripId uint32, tenantId uuid.UUID) model.Provider[Model] {
		return func() (Model, error) {
			log.WithFields(logrus.Fields{
				"tripId":   tripId,
				"tenantId": tenantId,
			}).Debug("Retrieving trip by ID")

			var entity Entity
			err := db.Where("id = ? AND tenant_id = ?", tripId, tenantId).First(&entity).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return Model{}, ErrTripNotFound
				}
				return Model{}, err
			}

			return Make(entity)
		}
	}
}

// GetTripsByStatusProvider retrieves all trips in the given lifecycle status
func GetTripsByStatusProvider(db *gorm.DB, log logrus.FieldLogger) func(status Status, tenantId uuid.UUID) model.Provider[[]Model] {
	return func(status Status, tenantId uuid.UUID) model.Provider[[]Model] {
		return func() ([]Model, error) {
			log.WithFields(logrus.Fields{
				"status":   status.String(),
				"tenantId": tenantId,
			}).Debug("Retrieving trips by status")

			var entities []Entity
			err := db.Where("status = ? AND tenant_id = ?", status, tenantId).
				Order("departure_time ASC").
				Find(&entities).Error
			if err != nil {
				return nil, err
			}

			trips := make([]Model, 0, len(entities))
			for _, entity := range entities {
				trip, err := Make(entity)
				if err != nil {
					return nil, err
				}
				trips = append(trips, trip)
			}

			return trips, nil
		}
	}
}

// GetOverdueScheduledTripsProvider retrieves trips still scheduled past their
// planned departure time
func GetOverdueScheduledTripsProvider(db *gorm.DB, log logrus.FieldLogger) func(asOf time.Time, tenantId uuid.UUID) model.Provider[[]Model] {
	return func(asOf time.Time, tenantId uuid.UUID) model.Provider[[]Model] {
		return func() ([]Model, error) {
			log.WithFields(logrus.Fields{
				"asOf":     asOf,
				"tenantId": tenantId,
			}).Debug("Retrieving overdue scheduled trips")

			var entities []Entity
			err := db.Where("status = ? AND departure_time < ? AND tenant_id = ?", StatusScheduled, asOf, tenantId).
				Order("departure_time ASC").
				Find(&entities).Error
			if err != nil {
				return nil, err
			}

			trips := make([]Model, 0, len(entities))
			for _, entity := range entities {
				trip, err := Make(entity)
				if err != nil {
					return nil, err
				}
				trips = append(trips, trip)
			}

			return trips, nil
		}
	}
}

// GetJourneyByTripProvider retrieves the journey sub-state for a trip
func GetJourneyByTripProvider(db *gorm.DB, log logrus.FieldLogger) func(tripId uint32, tenantId uuid.UUID) model.Provider[Journey] {
	return func(tripId uint32, tenantId uuid.UUID) model.Provider[Journey] {
		return func() (Journey, error) {
			log.WithFields(logrus.Fields{
				"tripId":   tripId,
				"tenantId": tenantId,
			}).Debug("Retrieving journey by trip ID")

			var entity JourneyEntity
			err := db.Where("trip_id = ? AND tenant_id = ?", tripId, tenantId).First(&entity).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return Journey{}, ErrJourneyNotFound
				}
				return Journey{}, err
			}

			return MakeJourney(entity)
		}
	}
}

// GetHistoryByTripProvider retrieves the journey transition trail for a trip in append order
func GetHistoryByTripProvider(db *gorm.DB, log logrus.FieldLogger) func(tripId uint32, tenantId uuid.UUID) model.Provider[[]HistoryEntry] {
	return func(tripId uint32, tenantId uuid.UUID) model.Provider[[]HistoryEntry] {
		return func() ([]HistoryEntry, error) {
			log.WithFields(logrus.Fields{
				"tripId":   tripId,
				"tenantId": tenantId,
			}).Debug("Retrieving journey history")

			var entities []HistoryEntity
			err := db.Where("trip_id = ? AND tenant_id = ?", tripId, tenantId).
				Order("id ASC").
				Find(&entities).Error
			if err != nil {
				return nil, err
			}

			entries := make([]HistoryEntry, 0, len(entities))
			for _, entity := range entities {
				entries = append(entries, MakeHistoryEntry(entity))
			}

			return entries, nil
		}
	}
}

package trip

import (
	"time"

	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateTrip creates a new trip in the database
func CreateTrip(db *gorm.DB, log logrus.FieldLogger) func(routeId uint32, departureTime time.Time, arrivalTime time.Time, tenantId uuid.UUID) model.Provider[Entity] {
	return func(routeId uint32, departureTime time.Time, arrivalTime time.Time, tenantId uuid.UUID) model.Provider[Entity] {
		return func() (Entity, error) {
			log.WithFields(logrus.Fields{
				"routeId":  routeId,
				"tenantId": tenantId,
			}).Debug("Creating trip entity")

			now := time.Now()
			entity := Entity{
				RouteId:       routeId,
				Status:        StatusScheduled,
				DepartureTime: departureTime,
				ArrivalTime:   arrivalTime,
				TenantId:      tenantId,
				CreatedAt:     now,
				UpdatedAt:     now,
			}

			if err := db.Create(&entity).Error; err != nil {
				return Entity{}, err
			}

			return entity, nil
		}
	}
}

// UpdateTrip updates an existing trip in the database
func UpdateTrip(db *gorm.DB, log logrus.FieldLogger) func(trip Model) model.Provider[Entity] {
	return func(trip Model) model.Provider[Entity] {
		return func() (Entity, error) {
			log.WithField("tripId", trip.Id()).Debug("Updating trip entity")

			entity := trip.ToEntity()
			if err := db.Save(&entity).Error; err != nil {
				return Entity{}, err
			}

			return entity, nil
		}
	}
}

// CreateJourney creates the journey record accompanying a newly scheduled trip
func CreateJourney(db *gorm.DB, log logrus.FieldLogger) func(tripId uint32, tenantId uuid.UUID) model.Provider[JourneyEntity] {
	return func(tripId uint32, tenantId uuid.UUID) model.Provider[JourneyEntity] {
		return func() (JourneyEntity, error) {
			log.WithFields(logrus.Fields{
				"tripId":   tripId,
				"tenantId": tenantId,
			}).Debug("Creating journey entity")

			now := time.Now()
			entity := JourneyEntity{
				TripId:           tripId,
				Status:           JourneyPreparing,
				CurrentStopIndex: -1,
				StoppedAt:        "[]",
				TenantId:         tenantId,
				CreatedAt:        now,
				UpdatedAt:        now,
			}

			if err := db.Create(&entity).Error; err != nil {
				return JourneyEntity{}, err
			}

			return entity, nil
		}
	}
}

// UpdateJourney persists the mutated journey sub-state keyed by trip
func UpdateJourney(db *gorm.DB, log logrus.FieldLogger) func(journey Journey) model.Provider[JourneyEntity] {
	return func(journey Journey) model.Provider[JourneyEntity] {
		return func() (JourneyEntity, error) {
			log.WithField("tripId", journey.TripId()).Debug("Updating journey entity")

			entity, err := journey.ToJourneyEntity()
			if err != nil {
				return JourneyEntity{}, err
			}

			result := db.Model(&JourneyEntity{}).
				Where("trip_id = ? AND tenant_id = ?", journey.TripId(), journey.TenantId()).
				Updates(map[string]interface{}{
					"status":             entity.Status,
					"current_stop_index": entity.CurrentStopIndex,
					"stopped_at":         entity.StoppedAt,
					"updated_at":         entity.UpdatedAt,
				})
			if result.Error != nil {
				return JourneyEntity{}, result.Error
			}
			if result.RowsAffected == 0 {
				return JourneyEntity{}, ErrJourneyNotFound
			}

			return entity, nil
		}
	}
}

// AppendHistory appends one row to the journey transition trail. Rows are
// never updated or deleted afterwards.
func AppendHistory(db *gorm.DB, log logrus.FieldLogger) func(tripId uint32, entry HistoryEntry, tenantId uuid.UUID) model.Provider[HistoryEntity] {
	return func(tripId uint32, entry HistoryEntry, tenantId uuid.UUID) model.Provider[HistoryEntity] {
		return func() (HistoryEntity, error) {
			log.WithFields(logrus.Fields{
				"tripId": tripId,
				"from":   entry.FromStatus().String(),
				"to":     entry.ToStatus().String(),
			}).Debug("Appending journey history entry")

			entity := entry.ToHistoryEntity(tripId, tenantId)
			if err := db.Create(&entity).Error; err != nil {
				return HistoryEntity{}, err
			}

			return entity, nil
		}
	}
}

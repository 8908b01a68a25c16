package scheduler

import (
	"context"
	"testing"
	"time"

	"atlas-trips/trip"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.New(
			logrus.StandardLogger(),
			logger.Config{
				SlowThreshold: time.Second,
				LogLevel:      logger.Silent,
				Colorful:      false,
			},
		),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&trip.Entity{}, &trip.JourneyEntity{}, &trip.HistoryEntity{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestNewDepartureOverdueScheduler(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	ctx := context.Background()

	scheduler := NewDepartureOverdueScheduler(log, ctx, db)

	if scheduler == nil {
		t.Error("Expected scheduler to be created, got nil")
	}
}

func TestDepartureOverdueScheduler_WithInterval(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	ctx := context.Background()

	scheduler := NewDepartureOverdueScheduler(log, ctx, db)

	updatedScheduler := scheduler.WithInterval(30 * time.Second).WithGrace(time.Minute)

	if updatedScheduler == nil {
		t.Error("Expected scheduler to be returned, got nil")
	}
}

func TestDepartureOverdueScheduler_StartStop(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	ctx := context.Background()

	scheduler := NewDepartureOverdueScheduler(log, ctx, db).WithInterval(50 * time.Millisecond)

	// Start the scheduler
	scheduler.Start()

	// Let it run for a short time
	time.Sleep(200 * time.Millisecond)

	// Stop the scheduler
	scheduler.Stop()

	// Test should complete without hanging
}

func TestDepartureOverdueScheduler_Run(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	scheduler := NewDepartureOverdueScheduler(log, ctx, db).WithInterval(50 * time.Millisecond)

	// This should run for the timeout duration and then stop
	scheduler.run()
}

func TestDepartureOverdueScheduler_ProcessOverdueDepartures(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	ctx := context.Background()

	scheduler := NewDepartureOverdueScheduler(log, ctx, db)

	// No scheduled trips exist, so this is a no-op
	scheduler.processOverdueDepartures()
}

func TestDepartureOverdueScheduler_GetTenantsWithScheduledTrips(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	ctx := context.Background()

	scheduler := NewDepartureOverdueScheduler(log, ctx, db)

	tenants, err := scheduler.getTenantsWithScheduledTrips()
	if err != nil {
		t.Fatalf("Failed to get tenants with scheduled trips: %v", err)
	}
	if len(tenants) != 0 {
		t.Errorf("Expected empty tenants list, got %d", len(tenants))
	}

	// Seed a scheduled trip and expect its tenant to be found
	tenantId := uuid.New()
	entity := trip.Entity{
		RouteId:       1,
		Status:        trip.StatusScheduled,
		DepartureTime: time.Now().Add(time.Hour),
		ArrivalTime:   time.Now().Add(5 * time.Hour),
		TenantId:      tenantId,
	}
	if err := db.Create(&entity).Error; err != nil {
		t.Fatalf("Failed to seed trip: %v", err)
	}

	tenants, err = scheduler.getTenantsWithScheduledTrips()
	if err != nil {
		t.Fatalf("Failed to get tenants with scheduled trips: %v", err)
	}
	if len(tenants) != 1 || tenants[0] != tenantId {
		t.Errorf("Expected tenant %s, got %v", tenantId, tenants)
	}
}

func TestDepartureOverdueScheduler_ProcessOverdueDeparturesForTenant(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	ctx := context.Background()

	scheduler := NewDepartureOverdueScheduler(log, ctx, db)

	// No trips for this tenant, processing is a no-op
	scheduler.processOverdueDeparturesForTenant(uuid.New())
}

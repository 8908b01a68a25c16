package scheduler

import (
	"context"
	"time"

	"atlas-trips/retry"
	"atlas-trips/trip"
	"github.com/Chronicle20/atlas-tenant"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DepartureOverdueScheduler periodically detects trips still scheduled past
// their planned departure time and emits delayed events for them. It never
// changes trip state.
type DepartureOverdueScheduler struct {
	log      logrus.FieldLogger
	ctx      context.Context
	db       *gorm.DB
	interval time.Duration
	grace    time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewDepartureOverdueScheduler creates a new departure overdue scheduler
func NewDepartureOverdueScheduler(log logrus.FieldLogger, ctx context.Context, db *gorm.DB) *DepartureOverdueScheduler {
	return &DepartureOverdueScheduler{
		log:      log.WithField("component", "departure-overdue-scheduler"),
		ctx:      ctx,
		db:       db,
		interval: 1 * time.Minute,
		grace:    5 * time.Minute,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// WithInterval sets the check interval
func (s *DepartureOverdueScheduler) WithInterval(interval time.Duration) *DepartureOverdueScheduler {
	s.interval = interval
	return s
}

// WithGrace sets how far past the planned departure a trip may be before it
// counts as delayed
func (s *DepartureOverdueScheduler) WithGrace(grace time.Duration) *DepartureOverdueScheduler {
	s.grace = grace
	return s
}

// Start begins the background overdue departure checking
func (s *DepartureOverdueScheduler) Start() {
	s.log.WithFields(logrus.Fields{
		"interval": s.interval,
		"grace":    s.grace,
	}).Info("Starting departure overdue scheduler")

	go s.run()
}

// Stop gracefully stops the scheduler
func (s *DepartureOverdueScheduler) Stop() {
	s.log.Info("Stopping departure overdue scheduler")
	close(s.stop)
	<-s.done
	s.log.Info("Departure overdue scheduler stopped")
}

func (s *DepartureOverdueScheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.processOverdueDepartures()

	for {
		select {
		case <-ticker.C:
			s.processOverdueDepartures()
		case <-s.stop:
			return
		case <-s.ctx.Done():
			s.log.Info("Context cancelled, stopping departure overdue scheduler")
			return
		}
	}
}

// processOverdueDepartures checks every tenant with scheduled trips
func (s *DepartureOverdueScheduler) processOverdueDepartures() {
	s.log.Debug("Checking overdue departures for all tenants")

	tenantIds, err := s.getTenantsWithScheduledTrips()
	if err != nil {
		s.log.WithError(err).Error("Failed to get tenants with scheduled trips")
		return
	}

	if len(tenantIds) == 0 {
		s.log.Debug("No tenants with scheduled trips found")
		return
	}

	s.log.WithField("tenantCount", len(tenantIds)).Debug("Checking overdue departures for tenants")

	for _, tenantId := range tenantIds {
		s.processOverdueDeparturesForTenant(tenantId)
	}
}

// getTenantsWithScheduledTrips retrieves all tenant IDs that have scheduled trips
func (s *DepartureOverdueScheduler) getTenantsWithScheduledTrips() ([]uuid.UUID, error) {
	var tenantIds []uuid.UUID

	retryConfig := retry.DefaultRetryConfig().
		WithLogger(s.log.WithField("operation", "get-tenants-with-scheduled-trips")).
		WithContext(s.ctx).
		WithMaxRetries(2).
		WithInitialDelay(500 * time.Millisecond)

	err := retry.ExecuteWithRetry(retryConfig, func() error {
		return s.db.Model(&trip.Entity{}).
			Where("status = ?", trip.StatusScheduled).
			Distinct("tenant_id").
			Pluck("tenant_id", &tenantIds).Error
	})

	return tenantIds, err
}

// processOverdueDeparturesForTenant checks overdue departures for a specific tenant
func (s *DepartureOverdueScheduler) processOverdueDeparturesForTenant(tenantId uuid.UUID) {
	retryConfig := retry.DefaultRetryConfig().
		WithLogger(s.log.WithFields(logrus.Fields{
			"operation": "process-overdue-departures",
			"tenantId":  tenantId,
		})).
		WithContext(s.ctx).
		WithMaxRetries(3).
		WithInitialDelay(1 * time.Second).
		WithMaxDelay(10 * time.Second)

	err := retry.ExecuteWithRetry(retryConfig, func() error {
		tenantModel, err := tenant.Create(tenantId, "background-scheduler", 1, 0)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"tenantId": tenantId,
				"error":    err,
			}).Error("Failed to create tenant model")
			return err
		}

		tenantCtx := tenant.WithContext(s.ctx, tenantModel)

		processor := trip.NewProcessor(s.log, tenantCtx, s.db)
		return processor.ProcessOverdueDepartures(s.grace)
	})

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"tenantId": tenantId,
			"error":    err,
		}).Error("Failed to process overdue departures for tenant after retries")
		return
	}

	s.log.WithField("tenantId", tenantId).Debug("Checked overdue departures for tenant")
}

package main

import (
	"atlas-trips/database"
	tripConsumer "atlas-trips/kafka/consumer/trip"
	"atlas-trips/logger"
	"atlas-trips/scheduler"
	"atlas-trips/service"
	"atlas-trips/tracing"
	tripService "atlas-trips/trip"
	"os"

	"github.com/Chronicle20/atlas-kafka/consumer"
	"github.com/Chronicle20/atlas-rest/server"
)

const serviceName = "atlas-trips"

type Server struct {
	baseUrl string
	prefix  string
}

func (s Server) GetBaseURL() string {
	return s.baseUrl
}

func (s Server) GetPrefix() string {
	return s.prefix
}

func GetServer() Server {
	return Server{
		baseUrl: "",
		prefix:  "/api/trs/",
	}
}

func main() {
	l := logger.CreateLogger(serviceName)
	l.Infoln("Starting main service.")

	tdm := service.GetTeardownManager()

	tc, err := tracing.InitTracer(l)(serviceName)
	if err != nil {
		l.WithError(err).Fatal("Unable to initialize tracer.")
	}

	db := database.Connect(l, database.SetMigrations(tripService.Migration))

	// Initialize departure overdue scheduler
	departureOverdueScheduler := scheduler.NewDepartureOverdueScheduler(l, tdm.Context(), db)
	departureOverdueScheduler.Start()

	// Register scheduler teardown
	tdm.TeardownFunc(func() {
		departureOverdueScheduler.Stop()
	})

	// Initialize Kafka consumers
	consumerManager := consumer.GetManager()
	tripConsumer.InitConsumers(l, tdm.Context(), db)(
		consumerManager.AddConsumer(l, tdm.Context(), tdm.WaitGroup()),
	)("trip-service")

	server.New(l).
		WithContext(tdm.Context()).
		WithWaitGroup(tdm.WaitGroup()).
		SetBasePath(GetServer().GetPrefix()).
		AddRouteInitializer(tripService.InitializeRoutes(db)(GetServer())).
		SetPort(os.Getenv("REST_PORT")).
		Run()

	tdm.TeardownFunc(tracing.Teardown(l)(tc))

	tdm.Wait()
	l.Infoln("Service shutdown.")
}

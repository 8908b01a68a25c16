package route

import (
	"context"
	"fmt"
	"os"

	"atlas-trips/rest"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/sirupsen/logrus"
)

// Processor interface defines read-only access to the route registry
type Processor interface {
	GetById(routeId uint32) (Model, error)
	ByIdProvider(routeId uint32) model.Provider[Model]
}

// ProcessorImpl implements the Processor interface against the route service
type ProcessorImpl struct {
	l   logrus.FieldLogger
	ctx context.Context
}

// NewProcessor creates a new processor instance
func NewProcessor(l logrus.FieldLogger, ctx context.Context) Processor {
	return &ProcessorImpl{
		l:   l,
		ctx: ctx,
	}
}

// GetById retrieves a route with its ordered stops from the route service
func (p *ProcessorImpl) GetById(routeId uint32) (Model, error) {
	return p.ByIdProvider(routeId)()
}

// ByIdProvider returns a provider retrieving the route by ID
func (p *ProcessorImpl) ByIdProvider(routeId uint32) model.Provider[Model] {
	return func() (Model, error) {
		rm, err := requestById(routeId)(p.l, p.ctx)
		if err != nil {
			p.l.WithError(err).WithField("routeId", routeId).Error("Failed to retrieve route")
			return Model{}, err
		}
		return Extract(rm), nil
	}
}

// RestStop is the wire representation of a route stop
type RestStop struct {
	Id    uint32 `json:"id"`
	Name  string `json:"name"`
	Order uint32 `json:"order"`
}

// RestModel is the wire representation of a route
type RestModel struct {
	Id          uint32     `json:"id"`
	Name        string     `json:"name"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Stops       []RestStop `json:"stops"`
}

// Extract converts the wire representation to the domain model
func Extract(rm RestModel) Model {
	stops := make([]Stop, 0, len(rm.Stops))
	for _, rs := range rm.Stops {
		stops = append(stops, NewStop(rs.Id, rs.Name, rs.Order))
	}
	return NewModel(rm.Id, rm.Name, rm.Origin, rm.Destination, stops)
}

func getBaseRequest() string {
	return os.Getenv("ROUTES")
}

func requestById(routeId uint32) rest.Request[RestModel] {
	return rest.MakeGetRequest[RestModel](fmt.Sprintf("%sroutes/%d", getBaseRequest(), routeId))
}

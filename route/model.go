package route

import "sort"

// Stop represents one intermediate stop on a route
type Stop struct {
	id    uint32
	name  string
	order uint32
}

// Id returns the stop ID
func (s Stop) Id() uint32 {
	return s.id
}

// Name returns the stop name
func (s Stop) Name() string {
	return s.name
}

// Order returns the position of the stop in the route sequence
func (s Stop) Order() uint32 {
	return s.order
}

// NewStop creates a new stop model
func NewStop(id uint32, name string, order uint32) Stop {
	return Stop{
		id:    id,
		name:  name,
		order: order,
	}
}

// Model represents a route with its ordered stop sequence. Routes are owned by
// the route service; this service only ever reads them.
type Model struct {
	id          uint32
	name        string
	origin      string
	destination string
	stops       []Stop
}

// Id returns the route ID
func (m Model) Id() uint32 {
	return m.id
}

// Name returns the route name
func (m Model) Name() string {
	return m.name
}

// Origin returns the origin city
func (m Model) Origin() string {
	return m.origin
}

// Destination returns the destination city
func (m Model) Destination() string {
	return m.destination
}

// Stops returns the intermediate stops ordered by route sequence
func (m Model) Stops() []Stop {
	out := make([]Stop, len(m.stops))
	copy(out, m.stops)
	return out
}

// TotalStops returns the number of intermediate stops
func (m Model) TotalStops() int {
	return len(m.stops)
}

// NewModel creates a new route model with stops sorted by their order field
func NewModel(id uint32, name string, origin string, destination string, stops []Stop) Model {
	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].order < sorted[j].order
	})

	return Model{
		id:          id,
		name:        name,
		origin:      origin,
		destination: destination,
		stops:       sorted,
	}
}

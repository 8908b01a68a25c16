package trip

// ComputeProgress derives a completion percentage in [0,100] from the journey
// sub-state and the number of intermediate stops on the route. The route is
// modelled as totalStops+1 equal segments (origin->stop1, ..., lastStop->destination).
// Rounding for display is left to the REST boundary.
func ComputeProgress(status JourneyStatus, currentStopIndex int, totalStops int) float64 {
	if status == JourneyCompleted {
		return 100
	}

	if status.AtOrigin() {
		return 0
	}

	if totalStops > 0 {
		progress := float64(currentStopIndex+1) / float64(totalStops+1) * 100
		if progress < 0 {
			return 0
		}
		if progress > 100 {
			return 100
		}
		return progress
	}

	// No intermediate stops: the only meaningful midpoint is the transit leg.
	if status == JourneyInTransit {
		return 50
	}
	return 0
}

// JourneyProgress derives the completion percentage for a journey model
func JourneyProgress(journey Journey, totalStops int) float64 {
	return ComputeProgress(journey.Status(), journey.CurrentStopIndex(), totalStops)
}

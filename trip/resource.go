package trip

import (
	"encoding/json"
	"errors"
	"net/http"

	"atlas-trips/rest"
	"github.com/Chronicle20/atlas-rest/server"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jtumidanski/api2go/jsonapi"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InitializeRoutes initializes trip-related REST routes
func InitializeRoutes(db *gorm.DB) func(serverInfo jsonapi.ServerInformation) func(router *mux.Router, logger logrus.FieldLogger) {
	return func(serverInfo jsonapi.ServerInformation) func(router *mux.Router, logger logrus.FieldLogger) {
		return func(router *mux.Router, logger logrus.FieldLogger) {
			// POST /api/trips
			router.HandleFunc("/trips",
				rest.RegisterInputHandler[RestScheduleInput](logger)(serverInfo)("schedule_trip", scheduleTripHandler(db))).
				Methods(http.MethodPost)

			// GET /api/trips/{tripId}
			router.HandleFunc("/trips/{tripId}",
				rest.RegisterHandler(logger)(serverInfo)("get_trip", getTripHandler(db))).
				Methods(http.MethodGet)

			// PUT /api/trips/{tripId}/status
			router.HandleFunc("/trips/{tripId}/status",
				rest.RegisterInputHandler[RestStatusInput](logger)(serverInfo)("update_trip_status", updateStatusHandler(db))).
				Methods(http.MethodPut)

			// GET /api/trips/{tripId}/journey
			router.HandleFunc("/trips/{tripId}/journey",
				rest.RegisterHandler(logger)(serverInfo)("get_trip_journey", getJourneyHandler(db))).
				Methods(http.MethodGet)

			// PUT /api/trips/{tripId}/journey/status
			router.HandleFunc("/trips/{tripId}/journey/status",
				rest.RegisterInputHandler[RestJourneyInput](logger)(serverInfo)("update_journey_status", updateJourneyStatusHandler(db))).
				Methods(http.MethodPut)
		}
	}
}

// scheduleTripHandler creates a trip with its journey sub-state
func scheduleTripHandler(db *gorm.DB) rest.InputHandler[RestScheduleInput] {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext, input RestScheduleInput) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if input.RouteId == 0 {
				writeErrorResponse(w, http.StatusBadRequest, "routeId is required")
				return
			}
			if !input.ArrivalTime.After(input.DepartureTime) {
				writeErrorResponse(w, http.StatusBadRequest, "arrivalTime must be after departureTime")
				return
			}

			processor := NewProcessor(d.Logger(), d.Context(), db)
			trip, err := processor.ScheduleAndEmit(uuid.New(), input.RouteId, input.DepartureTime, input.ArrivalTime)
			if err != nil {
				writeDomainError(w, err)
				return
			}

			restTrip, err := TransformTrip(trip)
			if err != nil {
				writeErrorResponse(w, http.StatusInternalServerError, "Failed to transform trip data")
				return
			}

			query := r.URL.Query()
			queryParams := jsonapi.ParseQueryFields(&query)
			server.MarshalResponse[RestTrip](d.Logger())(w)(c.ServerInformation())(queryParams)(restTrip)
		}
	}
}

// getTripHandler returns a trip by ID
func getTripHandler(db *gorm.DB) rest.GetHandler {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext) http.HandlerFunc {
		return rest.ParseTripId(d.Logger(), func(tripId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				processor := NewProcessor(d.Logger(), d.Context(), db)
				trip, err := processor.GetById(tripId)()
				if err != nil {
					writeDomainError(w, err)
					return
				}

				restTrip, err := TransformTrip(trip)
				if err != nil {
					writeErrorResponse(w, http.StatusInternalServerError, "Failed to transform trip data")
					return
				}

				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[RestTrip](d.Logger())(w)(c.ServerInformation())(queryParams)(restTrip)
			}
		})
	}
}

// updateStatusHandler applies a lifecycle transition to a trip
func updateStatusHandler(db *gorm.DB) rest.InputHandler[RestStatusInput] {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext, input RestStatusInput) http.HandlerFunc {
		return rest.ParseTripId(d.Logger(), func(tripId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				requested, ok := StatusFromString(input.Status)
				if !ok {
					writeErrorResponse(w, http.StatusBadRequest, "unknown status: "+input.Status)
					return
				}

				processor := NewProcessor(d.Logger(), d.Context(), db)
				change, err := processor.UpdateStatusAndEmit(uuid.New(), tripId, requested, input.Reason, input.Actor)
				if err != nil {
					writeDomainError(w, err)
					return
				}

				restTrip, err := TransformTrip(change.Trip())
				if err != nil {
					writeErrorResponse(w, http.StatusInternalServerError, "Failed to transform trip data")
					return
				}

				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[RestTrip](d.Logger())(w)(c.ServerInformation())(queryParams)(restTrip)
			}
		})
	}
}

// getJourneyHandler returns the journey sub-state with its trail and progress
func getJourneyHandler(db *gorm.DB) rest.GetHandler {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext) http.HandlerFunc {
		return rest.ParseTripId(d.Logger(), func(tripId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				processor := NewProcessor(d.Logger(), d.Context(), db)
				snapshot, err := processor.JourneySnapshot(tripId)()
				if err != nil {
					writeDomainError(w, err)
					return
				}

				restJourney, err := TransformSnapshot(snapshot)
				if err != nil {
					writeErrorResponse(w, http.StatusInternalServerError, "Failed to transform journey data")
					return
				}

				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[RestJourney](d.Logger())(w)(c.ServerInformation())(queryParams)(restJourney)
			}
		})
	}
}

// updateJourneyStatusHandler applies a journey transition to a trip
func updateJourneyStatusHandler(db *gorm.DB) rest.InputHandler[RestJourneyInput] {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext, input RestJourneyInput) http.HandlerFunc {
		return rest.ParseTripId(d.Logger(), func(tripId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				target, ok := JourneyStatusFromString(input.Status)
				if !ok {
					writeErrorResponse(w, http.StatusBadRequest, ErrInvalidJourneyStatus.Error())
					return
				}

				request := TransitionRequest{
					Target: target,
					Notes:  input.Notes,
					Actor:  input.Actor,
				}
				if input.Stop != nil {
					idx := internalStopIndex(*input.Stop)
					request.StopIndex = &idx
				}
				if input.Location != nil {
					request.Location = &Location{
						Latitude:  input.Location.Latitude,
						Longitude: input.Location.Longitude,
					}
				}

				processor := NewProcessor(d.Logger(), d.Context(), db)
				update, err := processor.UpdateJourneyStatusAndEmit(uuid.New(), tripId, request)
				if err != nil {
					writeDomainError(w, err)
					return
				}

				restJourney, err := TransformJourneyUpdate(update)
				if err != nil {
					writeErrorResponse(w, http.StatusInternalServerError, "Failed to transform journey data")
					return
				}

				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[RestJourney](d.Logger())(w)(c.ServerInformation())(queryParams)(restJourney)
			}
		})
	}
}

// writeDomainError maps domain errors to HTTP status codes
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTripNotFound), errors.Is(err, ErrJourneyNotFound):
		writeErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrBusy):
		writeErrorResponse(w, http.StatusConflict, err.Error())
	case IsIllegalTransition(err),
		errors.Is(err, ErrInvalidJourneyStatus),
		errors.Is(err, ErrTerminalJourney),
		errors.Is(err, ErrStopAlreadyVisited),
		errors.Is(err, ErrStopIndexRequired),
		errors.Is(err, ErrStopIndexOutOfRange),
		errors.Is(err, ErrJourneyRewind),
		errors.Is(err, ErrMissingCancelReason):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// writeErrorResponse writes a JSON error response
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"status": statusCode,
			"title":  http.StatusText(statusCode),
			"detail": message,
		},
	}

	_ = json.NewEncoder(w).Encode(errorResponse)
}

package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Chronicle20/atlas-tenant"
	"github.com/gorilla/mux"
	"github.com/jtumidanski/api2go/jsonapi"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// HandlerDependency carries the logger and request context into handlers
type HandlerDependency struct {
	l   logrus.FieldLogger
	ctx context.Context
}

// Logger returns the logger
func (h HandlerDependency) Logger() logrus.FieldLogger {
	return h.l
}

// Context returns the request context
func (h HandlerDependency) Context() context.Context {
	return h.ctx
}

// HandlerContext carries server information into handlers
type HandlerContext struct {
	si jsonapi.ServerInformation
}

// ServerInformation returns the JSON:API server information
func (h HandlerContext) ServerInformation() jsonapi.ServerInformation {
	return h.si
}

// GetHandler produces a http.HandlerFunc from handler dependencies
type GetHandler func(d *HandlerDependency, c *HandlerContext) http.HandlerFunc

// InputHandler produces a http.HandlerFunc from handler dependencies and a parsed request body
type InputHandler[M any] func(d *HandlerDependency, c *HandlerContext, model M) http.HandlerFunc

// RegisterHandler wraps a handler with span creation, tenant resolution from
// headers, and a named logger.
func RegisterHandler(l logrus.FieldLogger) func(si jsonapi.ServerInformation) func(handlerName string, handler GetHandler) http.HandlerFunc {
	return func(si jsonapi.ServerInformation) func(handlerName string, handler GetHandler) http.HandlerFunc {
		return func(handlerName string, handler GetHandler) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				fl := l.WithField("handler", handlerName)

				span := opentracing.StartSpan(handlerName)
				defer span.Finish()

				ctx := opentracing.ContextWithSpan(r.Context(), span)
				ctx = tenantContext(fl, ctx, r)

				d := &HandlerDependency{l: fl, ctx: ctx}
				c := &HandlerContext{si: si}
				handler(d, c)(w, r)
			}
		}
	}
}

// RegisterInputHandler wraps a handler like RegisterHandler and additionally parses the request body
func RegisterInputHandler[M any](l logrus.FieldLogger) func(si jsonapi.ServerInformation) func(handlerName string, handler InputHandler[M]) http.HandlerFunc {
	return func(si jsonapi.ServerInformation) func(handlerName string, handler InputHandler[M]) http.HandlerFunc {
		return func(handlerName string, handler InputHandler[M]) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				fl := l.WithField("handler", handlerName)

				span := opentracing.StartSpan(handlerName)
				defer span.Finish()

				ctx := opentracing.ContextWithSpan(r.Context(), span)
				ctx = tenantContext(fl, ctx, r)

				d := &HandlerDependency{l: fl, ctx: ctx}
				c := &HandlerContext{si: si}
				ParseInput[M](d, c, handler)(w, r)
			}
		}
	}
}

// tenantContext resolves the tenant from request headers. Requests without
// tenant headers keep the bare context; downstream lookups then scope to the
// zero tenant.
func tenantContext(l logrus.FieldLogger, ctx context.Context, r *http.Request) context.Context {
	id := r.Header.Get("TENANT_ID")
	if id == "" {
		return ctx
	}

	region := r.Header.Get("REGION")
	majorVersion, _ := strconv.Atoi(r.Header.Get("MAJOR_VERSION"))
	minorVersion, _ := strconv.Atoi(r.Header.Get("MINOR_VERSION"))

	tid, err := uuidParse(id)
	if err != nil {
		l.WithError(err).Warn("Unable to parse tenant ID header.")
		return ctx
	}

	t, err := tenant.Create(tid, region, uint16(majorVersion), uint16(minorVersion))
	if err != nil {
		l.WithError(err).Warn("Unable to resolve tenant from headers.")
		return ctx
	}

	return tenant.WithContext(ctx, t)
}

// ParseInput decodes the JSON request body into M before invoking the handler
func ParseInput[M any](d *HandlerDependency, c *HandlerContext, next InputHandler[M]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var model M

		if err := jsonDecode(r, &model); err != nil {
			d.Logger().WithError(err).Error("Unable to decode request body.")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		next(d, c, model)(w, r)
	}
}

// ParseTripId extracts the tripId path variable before invoking the handler
func ParseTripId(l logrus.FieldLogger, next func(tripId uint32) http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value, err := strconv.ParseUint(mux.Vars(r)["tripId"], 10, 32)
		if err != nil {
			l.WithError(err).Error("Unable to parse tripId from path.")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		next(uint32(value))(w, r)
	}
}

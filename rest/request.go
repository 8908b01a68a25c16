package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Chronicle20/atlas-tenant"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// Request performs a HTTP call against a collaborating service and decodes the response into T
type Request[T any] func(l logrus.FieldLogger, ctx context.Context) (T, error)

// MakeGetRequest creates a GET request against the given URL
func MakeGetRequest[T any](url string) Request[T] {
	return func(l logrus.FieldLogger, ctx context.Context) (T, error) {
		return call[T](l, ctx, http.MethodGet, url, nil)
	}
}

// MakePostRequest creates a POST request against the given URL with the given body
func MakePostRequest[T any](url string, input interface{}) Request[T] {
	return func(l logrus.FieldLogger, ctx context.Context) (T, error) {
		return call[T](l, ctx, http.MethodPost, url, input)
	}
}

func call[T any](l logrus.FieldLogger, ctx context.Context, method string, url string, input interface{}) (T, error) {
	var result T

	var body io.Reader
	if input != nil {
		data, err := json.Marshal(input)
		if err != nil {
			return result, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")
	decorateTenantHeaders(ctx, req)

	l.WithFields(logrus.Fields{
		"method": method,
		"url":    url,
	}).Debug("Issuing request to collaborating service")

	res, err := httpClient.Do(req)
	if err != nil {
		return result, err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return result, fmt.Errorf("unexpected status code %d from %s", res.StatusCode, url)
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return result, err
	}

	return result, nil
}

func decorateTenantHeaders(ctx context.Context, req *http.Request) {
	// Requests without a tenant in context go out undecorated.
	defer func() { _ = recover() }()

	t := tenant.MustFromContext(ctx)
	req.Header.Set("TENANT_ID", t.Id().String())
	req.Header.Set("REGION", t.Region())
	req.Header.Set("MAJOR_VERSION", strconv.Itoa(int(t.MajorVersion())))
	req.Header.Set("MINOR_VERSION", strconv.Itoa(int(t.MinorVersion())))
}

func uuidParse(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

func jsonDecode(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

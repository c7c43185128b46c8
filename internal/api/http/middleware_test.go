package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hostel-complaint-service/internal/observability"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*fiber.App, *observability.Metrics) {
	t.Helper()
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	return app, metrics
}

func performRequest(t *testing.T, app *fiber.App, method, path string) (*http.Response, errorEnvelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope errorEnvelope
	if len(body) > 0 {
		_ = json.Unmarshal(body, &envelope)
	}
	return resp, envelope
}

func TestErrorMiddlewareMapsDomainErrors(t *testing.T) {
	app, _ := newTestApp(t)
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("bad input", map[string]any{"field": "rating"})
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidTransition("illegal status transition", nil)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("complaint", nil)
	})

	resp, envelope := performRequest(t, app, http.MethodGet, "/validation")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
	assert.Equal(t, "rating", envelope.Error.Details["field"])

	resp, envelope = performRequest(t, app, http.MethodGet, "/conflict")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", envelope.Error.Code)

	resp, envelope = performRequest(t, app, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestErrorMiddlewareTranslatesFiberErrors(t *testing.T) {
	app, _ := newTestApp(t)
	app.Get("/guarded", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusForbidden, "admin role required")
	})

	resp, envelope := performRequest(t, app, http.MethodGet, "/guarded")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
	assert.Equal(t, "admin role required", envelope.Error.Message)
}

func TestErrorMiddlewareWrapsUnknownErrors(t *testing.T) {
	app, _ := newTestApp(t)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	resp, envelope := performRequest(t, app, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}

func TestErrorMiddlewareRecoversFromPanic(t *testing.T) {
	app, _ := newTestApp(t)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, envelope := performRequest(t, app, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}

func TestErrorMiddlewareRecordsErrorMetrics(t *testing.T) {
	app, metrics := newTestApp(t)
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("complaint", nil)
	})

	_, _ = performRequest(t, app, http.MethodGet, "/missing")

	_, errCounts := metrics.Snapshot()
	assert.NotEmpty(t, errCounts)
}

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	app, metrics := newTestApp(t)
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("complaint", nil)
	})

	resp, _ := performRequest(t, app, http.MethodGet, "/missing")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	requests, _ := metrics.Snapshot()
	assert.Contains(t, requests, "/missing|GET|404")
	assert.NotContains(t, requests, "/missing|GET|200")
}

func TestRequestTimeoutReachesHandlerContext(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 250*time.Millisecond)

	var hasDeadline bool
	app.Get("/deadline", func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusOK)
	})

	resp, _ := performRequest(t, app, http.MethodGet, "/deadline")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, hasDeadline)
}

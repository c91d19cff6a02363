package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

func serve(t *testing.T, handler echo.HandlerFunc) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	e := echo.New()
	e.Use(echomiddleware.RequestID())
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.POST("/users", handler)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"password":"Str0ng!Pass"}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", buf.String(), err)
	}
	if bytes.Contains(buf.Bytes(), []byte("Str0ng!Pass")) {
		t.Fatalf("request body must not be logged")
	}
	return line
}

func TestRequestLogger_Success(t *testing.T) {
	line := serve(t, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if line["level"] != "info" {
		t.Fatalf("expected info level, got %v", line["level"])
	}
	if line["status"] != float64(http.StatusOK) {
		t.Fatalf("expected status 200, got %v", line["status"])
	}
	if line["method"] != http.MethodPost || line["uri"] != "/users" {
		t.Fatalf("unexpected method/uri: %v %v", line["method"], line["uri"])
	}
	if id, _ := line["request_id"].(string); id == "" {
		t.Fatalf("expected a request id")
	}
}

func TestRequestLogger_ClientError(t *testing.T) {
	line := serve(t, func(c echo.Context) error {
		return c.NoContent(http.StatusBadRequest)
	})

	if line["level"] != "warn" {
		t.Fatalf("expected warn level, got %v", line["level"])
	}
}

func TestRequestLogger_HandlerError(t *testing.T) {
	line := serve(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "down")
	})

	if line["level"] != "error" {
		t.Fatalf("expected error level, got %v", line["level"])
	}
	if line["status"] != float64(http.StatusServiceUnavailable) {
		t.Fatalf("expected status 503, got %v", line["status"])
	}
}

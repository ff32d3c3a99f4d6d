package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mrops-br/product-inventory/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

func TestSession_IssuesCookieWhenMissing(t *testing.T) {
	var seen string
	h := Session("sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sid", cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, seen, cookies[0].Value)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
}

func TestSession_ReusesValidCookie(t *testing.T) {
	id := uuid.NewString()
	var seen string
	h := Session("sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: id})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, id, seen)
	require.Empty(t, w.Result().Cookies())
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	var seen string
	h := Session("sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "not-a-uuid"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.NotEqual(t, "not-a-uuid", seen)
	require.Len(t, w.Result().Cookies(), 1)
	require.Equal(t, seen, w.Result().Cookies()[0].Value)
}

func TestStructuredLogger_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(StructuredLogger(logger))
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "WARN", entry["level"])
	require.Equal(t, "HTTP request completed", entry["msg"])
	require.Equal(t, "/missing", entry["http.route"])
	require.Equal(t, float64(http.StatusNotFound), entry["http.response.status_code"])
}

func TestHTTPRouteContext_UsesMatchedPattern(t *testing.T) {
	var route string
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(HTTPRouteContext())
		r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			route = telemetry.HTTPRouteFromContext(r.Context())
		})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	require.Equal(t, "/items/{id}", route)
}

func TestHTTPRouteContext_FallsBackToPath(t *testing.T) {
	var route string
	h := HTTPRouteContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route = telemetry.HTTPRouteFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.Equal(t, "/plain", route)
}

func TestMetricsMiddlewarePassThrough(t *testing.T) {
	meter := metricnoop.NewMeterProvider().Meter("test")
	called := false
	h := ActiveRequestsMiddleware(meter)(DurationMillisecondsMiddleware(meter)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusTeapot)
		}),
	))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
	require.Equal(t, http.StatusTeapot, w.Code)
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VoteCompass/VC-Backend/internal/middleware"
)

// callWithOrigin wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting an Origin header, and returns the recorded response.
func callWithOrigin(t *testing.T, mw func(http.Handler) http.Handler, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestCORSMiddleware_AllowedOrigin verifies that an allow-listed origin is
// echoed back with credentials enabled.
func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	rec := callWithOrigin(t, mw, http.MethodGet, "http://localhost:5173")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials header, got %q", got)
	}
}

// TestCORSMiddleware_DisallowedOrigin verifies that an unknown origin gets no
// CORS grant but the request still goes through.
func TestCORSMiddleware_DisallowedOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	rec := callWithOrigin(t, mw, http.MethodGet, "https://evil.example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS grant, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected request to pass through, got %d", rec.Code)
	}
}

// TestCORSMiddleware_Preflight verifies that OPTIONS requests short-circuit
// with 204.
func TestCORSMiddleware_Preflight(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	rec := callWithOrigin(t, mw, http.MethodOptions, "http://localhost:5173")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

// TestRateLimitMiddleware_Burst verifies that requests beyond the burst get
// 429 with a Retry-After header.
func TestRateLimitMiddleware_Burst(t *testing.T) {
	// 1 request per minute with a burst of 2.
	rl := middleware.NewRateLimiter(1, 2)
	mw := middleware.RateLimitMiddleware(rl)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw(inner)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/compass/answers", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected burst requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request limited, got %d", codes[2])
	}
}

// TestRateLimitMiddleware_PerClient verifies that limits are tracked per
// client address.
func TestRateLimitMiddleware_PerClient(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	mw := middleware.RateLimitMiddleware(rl)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw(inner)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/compass/answers", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := call("203.0.113.7:1234"); got != http.StatusOK {
		t.Errorf("first client: expected 200, got %d", got)
	}
	if got := call("203.0.113.8:1234"); got != http.StatusOK {
		t.Errorf("second client must have its own bucket, got %d", got)
	}
	if got := call("203.0.113.7:9999"); got != http.StatusTooManyRequests {
		t.Errorf("same client, new port: expected shared bucket and 429, got %d", got)
	}
}

// TestMetricsMiddleware_PassesThrough verifies the wrapped handler's status
// is preserved.
func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := middleware.MetricsMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418 passed through, got %d", rec.Code)
	}
}

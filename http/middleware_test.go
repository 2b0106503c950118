package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fullChain(timeout time.Duration) Middleware {
	return Chain(
		RecoveryMiddleware,
		LoggerMiddleware,
		SecurityHeadersMiddleware,
		CORSMiddleware([]string{"*"}),
		TimeoutMiddleware(timeout),
		GzipMiddleware,
		RequestSizeMiddleware(1<<20),
	)
}

// A handler panic anywhere behind the full middleware chain must surface
// as a 500, not kill the process.
func TestPanicBehindFullChainReturns500(t *testing.T) {
	handler := fullChain(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after handler panic, got %d", w.Code)
	}
}

func TestTimeoutMiddlewareFires(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	handler := fullChain(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("too late"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", w.Code)
	}
	// The handler's buffered response is discarded, so the 504 body goes
	// out uncompressed even though the client accepts gzip.
	if enc := w.Header().Get("Content-Encoding"); enc != "" {
		t.Fatalf("timeout response must not carry Content-Encoding, got %q", enc)
	}
}

func TestTimeoutMiddlewarePreservesResponse(t *testing.T) {
	handler := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "kept")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("payload"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if w.Header().Get("X-Custom") != "kept" {
		t.Fatalf("header lost: %v", w.Header())
	}
	if w.Body.String() != "payload" {
		t.Fatalf("body lost: %q", w.Body.String())
	}
}

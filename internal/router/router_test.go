package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rootv890/discovery-5/internal/auth"
	"github.com/rootv890/discovery-5/internal/handlers"
)

func testRouter() http.Handler {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return New(issuer, nil, Handlers{
		Waitlist:    handlers.NewWaitlist(nil),
		Auth:        handlers.NewAuth(nil, issuer),
		Platforms:   handlers.NewPlatforms(nil, nil),
		Categories:  handlers.NewCategories(nil, nil, nil),
		Tools:       handlers.NewTools(nil, nil, nil, nil, nil),
		Comments:    handlers.NewComments(nil),
		Collections: handlers.NewCollections(nil, nil),
	})
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != `{"status":"ok"}` {
		t.Errorf("body = %s", body)
	}
}

// Every write route under /api/v1 must reject anonymous callers before
// any handler logic runs.
func TestWriteRoutesRequireAuth(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/platforms"},
		{"PATCH", "/api/v1/platforms/x"},
		{"DELETE", "/api/v1/platforms/x"},
		{"POST", "/api/v1/categories"},
		{"POST", "/api/v1/categories/x/platforms"},
		{"DELETE", "/api/v1/categories/x/platforms"},
		{"DELETE", "/api/v1/categories/x"},
		{"POST", "/api/v1/tools"},
		{"PATCH", "/api/v1/tools/x"},
		{"DELETE", "/api/v1/tools/x"},
		{"POST", "/api/v1/tools/x/tags"},
		{"PUT", "/api/v1/tools/x/vote"},
		{"POST", "/api/v1/tools/x/comments"},
		{"DELETE", "/api/v1/comments/x"},
		{"GET", "/api/v1/collections"},
		{"POST", "/api/v1/collections"},
	}

	r := testRouter()
	for _, route := range routes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", route.method, route.path, rec.Code)
		}
	}
}

package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		*capture = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDGeneratesUUID(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected request id in handler context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a UUID: %v", seen, err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("response header = %q, want %q", got, seen)
	}
}

func TestRequestIDPreservesExistingHeader(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if seen != "client-supplied-id" {
		t.Fatalf("request id = %q, want client-supplied-id", seen)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "client-supplied-id" {
		t.Fatalf("response header = %q, want client-supplied-id", got)
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	ids := make(map[string]bool)
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
		if ids[seen] {
			t.Fatalf("duplicate request id %q", seen)
		}
		ids[seen] = true
	}
}

func TestGetRequestIDOnBareContext(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("GetRequestID on bare context = %q, want empty", got)
	}
}

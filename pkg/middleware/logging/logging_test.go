package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/middleware/requestid"
	"github.com/cliptube/cliptube/pkg/observability/logger"
)

type entry struct {
	level  string
	msg    string
	fields map[string]any
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recordingLogger) record(level, msg string, args []any) {
	fields := map[string]any{}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{level: level, msg: msg, fields: fields})
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }
func (r *recordingLogger) With(args ...any) logger.Logger {
	return r
}
func (r *recordingLogger) WithContext(ctx context.Context) logger.Logger {
	return r
}

func (r *recordingLogger) last(t *testing.T) entry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		t.Fatal("no log entries recorded")
	}
	return r.entries[len(r.entries)-1]
}

func serve(t *testing.T, status int) (*recordingLogger, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := &recordingLogger{}
	router := gin.New()
	router.Use(requestid.RequestID(), RequestLogger(log))
	router.GET("/videos", func(c *gin.Context) {
		c.Status(status)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))
	return log, rec
}

func TestRequestLoggerLogsCompletedRequest(t *testing.T) {
	log, _ := serve(t, http.StatusOK)

	got := log.last(t)
	if got.level != "info" {
		t.Fatalf("level = %q, want info", got.level)
	}
	if got.fields["method"] != http.MethodGet || got.fields["path"] != "/videos" {
		t.Fatalf("unexpected fields: %+v", got.fields)
	}
	if got.fields["status"] != http.StatusOK {
		t.Fatalf("status field = %v, want 200", got.fields["status"])
	}
	if id, ok := got.fields["request_id"].(string); !ok || id == "" {
		t.Fatalf("request_id field missing: %+v", got.fields)
	}
}

func TestRequestLoggerWarnsOnClientError(t *testing.T) {
	log, _ := serve(t, http.StatusNotFound)
	if got := log.last(t); got.level != "warn" {
		t.Fatalf("level = %q, want warn", got.level)
	}
}

func TestRequestLoggerErrorsOnServerError(t *testing.T) {
	log, _ := serve(t, http.StatusInternalServerError)
	if got := log.last(t); got.level != "error" {
		t.Fatalf("level = %q, want error", got.level)
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/observability/logger"
)

func newProtectedRouter(t *testing.T) (*gin.Engine, *primitive.ObjectID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	validator, err := NewHMACValidator(testSecret, "", logger.Noop())
	if err != nil {
		t.Fatalf("creating validator: %v", err)
	}

	var seen primitive.ObjectID
	router := gin.New()
	router.GET("/protected", Middleware(validator), func(c *gin.Context) {
		requester, ok := Requester(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		seen = requester
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestMiddlewareAcceptsBearerToken(t *testing.T) {
	router, seen := newProtectedRouter(t)

	subject := primitive.NewObjectID()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": subject.Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if *seen != subject {
		t.Fatalf("requester = %s, want %s", seen.Hex(), subject.Hex())
	}
}

func TestMiddlewareAcceptsCookieToken(t *testing.T) {
	router, seen := newProtectedRouter(t)

	subject := primitive.NewObjectID()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": subject.Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if *seen != subject {
		t.Fatalf("requester = %s, want %s", seen.Hex(), subject.Hex())
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMiddlewareRejectsNonObjectIDSubject(t *testing.T) {
	router, _ := newProtectedRouter(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "not-an-object-id",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequesterAbsentWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())

	if _, ok := Requester(c); ok {
		t.Fatal("expected no requester on bare context")
	}
}

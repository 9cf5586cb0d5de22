package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/apperr"
)

// requesterKey is the gin context key carrying the authenticated requester.
const requesterKey = "requester_id"

// Middleware authenticates the request from its bearer token and stores the
// requester id in the request context. Requests without a valid identity
// are rejected with auth.unauthenticated.
func Middleware(validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthenticated(c, "authentication required")
			return
		}

		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			abortUnauthenticated(c, "invalid or expired token")
			return
		}

		requester, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			abortUnauthenticated(c, "token subject is not a valid user id")
			return
		}

		c.Set(requesterKey, requester)
		c.Next()
	}
}

// WithRequester stores a requester id on the context the way Middleware
// does. Handler tests use it to act as an authenticated caller.
func WithRequester(c *gin.Context, id primitive.ObjectID) {
	c.Set(requesterKey, id)
}

// Requester returns the authenticated requester id stored by Middleware.
func Requester(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(requesterKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	// Cookie fallback for browser clients.
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthenticated(c *gin.Context, message string) {
	appErr := apperr.NewUnauthenticated(message)
	c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
		"error":   "unauthorized",
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

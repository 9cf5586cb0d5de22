package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/auth"
	"github.com/cliptube/cliptube/pkg/middleware/requestid"
)

// SuccessResponse represents a successful response with data
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success sends a successful JSON response with HTTP 200 OK
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: requestid.GetRequestID(c.Request.Context()),
	})
}

// Created sends a successful JSON response with HTTP 201 Created
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: requestid.GetRequestID(c.Request.Context()),
	})
}

// Error sends an error response with the appropriate HTTP status code
func Error(c *gin.Context, err error) {
	status, body := MapError(c.Request.Context(), err)
	c.JSON(status, body)
}

// requester resolves the authenticated requester set by the auth middleware.
// A missing identity on a protected route means the route was wired without
// the middleware; it is reported as unauthenticated rather than panicking.
func requester(c *gin.Context) (primitive.ObjectID, error) {
	id, ok := auth.Requester(c)
	if !ok {
		return primitive.NilObjectID, apperr.NewUnauthenticated("authentication required")
	}
	return id, nil
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", handler.Health)
	r.POST("/import", requireAccessKey(apiAccessKey), handler.Import)

	return r
}

// requireAccessKey guards the import endpoint. With no key configured
// the endpoint is open, which is only sensible for local use.
func requireAccessKey(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiAccessKey == "" {
			c.Next()
			return
		}

		if c.GetHeader("X-Api-Key") != apiAccessKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or missing API key"})
			return
		}

		c.Next()
	}
}

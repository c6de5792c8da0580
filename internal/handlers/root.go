package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/stwalsh4118/seattle-energy/internal/errors"
)

// Welcome handles GET /.
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: MessageWelcome})
}

// NoRoute answers unknown paths with the failure envelope.
func NoRoute(c *gin.Context) {
	apierrors.NotFound(c, "route not found")
}

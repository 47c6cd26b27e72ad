// Package controller holds the response helpers shared by the route
// packages below it.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gtdagent/storage"
)

// StoreError maps a storage failure to a status code. Unexpected failures
// answer with msg instead of the raw error.
func StoreError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, storage.ErrExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func InvalidBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

func NotFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

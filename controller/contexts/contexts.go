package contexts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gtdagent/controller"
	"gtdagent/dto"
	"gtdagent/model"
	"gtdagent/store"
)

func ContextController(api *gin.RouterGroup, s *store.Store) {
	api.GET("/contexts", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Contexts())
	})
	api.POST("/contexts", func(c *gin.Context) {
		CreateContext(c, s)
	})
	api.GET("/contexts/:id", func(c *gin.Context) {
		if found, ok := s.Context(c.Param("id")); ok {
			c.JSON(http.StatusOK, found)
			return
		}
		controller.NotFound(c, "Context")
	})
	api.PUT("/contexts/:id", func(c *gin.Context) {
		UpdateContext(c, s)
	})
	api.DELETE("/contexts/:id", func(c *gin.Context) {
		DeleteContext(c, s)
	})
}

func CreateContext(c *gin.Context, s *store.Store) {
	var req dto.ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	created, err := s.AddContext(c.Request.Context(), req.Apply(model.Context{ID: req.ID}))
	if err != nil {
		controller.StoreError(c, err, "Failed to create context")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func UpdateContext(c *gin.Context, s *store.Store) {
	existing, ok := s.Context(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Context")
		return
	}
	var req dto.ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	updated, err := s.UpdateContext(c.Request.Context(), req.Apply(existing))
	if err != nil {
		controller.StoreError(c, err, "Failed to update context")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteContext does not untag tasks; stale ids are ignored by the views.
func DeleteContext(c *gin.Context, s *store.Store) {
	id := c.Param("id")
	if _, ok := s.Context(id); !ok {
		controller.NotFound(c, "Context")
		return
	}
	if err := s.DeleteContext(c.Request.Context(), id); err != nil {
		controller.StoreError(c, err, "Failed to delete context")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Context deleted successfully"})
}

package reference

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gtdagent/controller"
	"gtdagent/dto"
	"gtdagent/model"
	"gtdagent/store"
)

func ReferenceController(api *gin.RouterGroup, s *store.Store) {
	api.GET("/references", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.References())
	})
	api.POST("/references", func(c *gin.Context) {
		CreateReference(c, s)
	})
	api.GET("/references/:id", func(c *gin.Context) {
		GetReference(c, s)
	})
	api.PUT("/references/:id", func(c *gin.Context) {
		UpdateReference(c, s)
	})
	api.DELETE("/references/:id", func(c *gin.Context) {
		DeleteReference(c, s)
	})
}

func CreateReference(c *gin.Context, s *store.Store) {
	var req dto.ReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Type != "" && !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reference type"})
		return
	}
	created, err := s.AddReference(c.Request.Context(), req.Apply(model.Reference{ID: req.ID}))
	if err != nil {
		controller.StoreError(c, err, "Failed to create reference")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func GetReference(c *gin.Context, s *store.Store) {
	ref, ok := s.Reference(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Reference")
		return
	}
	c.JSON(http.StatusOK, ref)
}

func UpdateReference(c *gin.Context, s *store.Store) {
	existing, ok := s.Reference(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Reference")
		return
	}
	var req dto.ReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Type != "" && !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reference type"})
		return
	}
	updated, err := s.UpdateReference(c.Request.Context(), req.Apply(existing))
	if err != nil {
		controller.StoreError(c, err, "Failed to update reference")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeleteReference(c *gin.Context, s *store.Store) {
	id := c.Param("id")
	if _, ok := s.Reference(id); !ok {
		controller.NotFound(c, "Reference")
		return
	}
	if err := s.DeleteReference(c.Request.Context(), id); err != nil {
		controller.StoreError(c, err, "Failed to delete reference")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reference deleted successfully"})
}

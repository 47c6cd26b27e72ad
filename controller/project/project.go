package project

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gtdagent/controller"
	"gtdagent/dto"
	"gtdagent/model"
	"gtdagent/store"
)

func ProjectController(api *gin.RouterGroup, s *store.Store) {
	api.GET("/projects", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Projects())
	})
	api.POST("/projects", func(c *gin.Context) {
		CreateProject(c, s)
	})
	api.GET("/projects/:id", func(c *gin.Context) {
		GetProject(c, s)
	})
	api.PUT("/projects/:id", func(c *gin.Context) {
		UpdateProject(c, s)
	})
	api.DELETE("/projects/:id", func(c *gin.Context) {
		DeleteProject(c, s)
	})
	api.GET("/projects/:id/tasks", func(c *gin.Context) {
		ProjectTasks(c, s)
	})
}

func CreateProject(c *gin.Context, s *store.Store) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	created, err := s.AddProject(c.Request.Context(), req.Apply(model.Project{ID: req.ID}))
	if err != nil {
		controller.StoreError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func GetProject(c *gin.Context, s *store.Store) {
	p, ok := s.Project(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Project")
		return
	}
	c.JSON(http.StatusOK, p)
}

func UpdateProject(c *gin.Context, s *store.Store) {
	existing, ok := s.Project(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Project")
		return
	}

	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	updated, err := s.UpdateProject(c.Request.Context(), req.Apply(existing))
	if err != nil {
		controller.StoreError(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProject leaves the project's tasks where they are.
func DeleteProject(c *gin.Context, s *store.Store) {
	id := c.Param("id")
	if _, ok := s.Project(id); !ok {
		controller.NotFound(c, "Project")
		return
	}
	if err := s.DeleteProject(c.Request.Context(), id); err != nil {
		controller.StoreError(c, err, "Failed to delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func ProjectTasks(c *gin.Context, s *store.Store) {
	id := c.Param("id")
	if _, ok := s.Project(id); !ok {
		controller.NotFound(c, "Project")
		return
	}
	c.JSON(http.StatusOK, s.TasksByProject(id))
}

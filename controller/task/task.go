package task

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gtdagent/controller"
	"gtdagent/dto"
	"gtdagent/model"
	"gtdagent/store"
)

// TaskController registers the task routes on the api group.
func TaskController(api *gin.RouterGroup, s *store.Store) {
	api.GET("/tasks", func(c *gin.Context) {
		ListTasks(c, s)
	})
	api.POST("/tasks", func(c *gin.Context) {
		CreateTask(c, s)
	})
	api.GET("/tasks/due", func(c *gin.Context) {
		DueTasks(c, s)
	})
	api.GET("/tasks/:id", func(c *gin.Context) {
		GetTask(c, s)
	})
	api.PUT("/tasks/:id", func(c *gin.Context) {
		UpdateTask(c, s)
	})
	api.PATCH("/tasks/:id/status", func(c *gin.Context) {
		MoveTask(c, s)
	})
	api.DELETE("/tasks/:id", func(c *gin.Context) {
		DeleteTask(c, s)
	})
	api.GET("/tasks/:id/advice", func(c *gin.Context) {
		TaskAdvice(c, s)
	})
}

// ListTasks filters by status, projectId, contextId and a free-text q, in
// that order.
func ListTasks(c *gin.Context, s *store.Store) {
	tasks := s.Tasks()

	if status := c.Query("status"); status != "" {
		st := model.TaskStatus(status)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		tasks = s.TasksByStatus(st)
	}

	if projectID := c.Query("projectId"); projectID != "" {
		filtered := []model.Task{}
		for _, t := range tasks {
			if t.ProjectID == projectID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	if contextID := c.Query("contextId"); contextID != "" {
		filtered := []model.Task{}
		for _, t := range tasks {
			if t.HasContext(contextID) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	c.JSON(http.StatusOK, store.Search(tasks, c.Query("q")))
}

func CreateTask(c *gin.Context, s *store.Store) {
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	created, err := s.AddTask(c.Request.Context(), req.Apply(model.Task{ID: req.ID}))
	if err != nil {
		controller.StoreError(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func GetTask(c *gin.Context, s *store.Store) {
	t, ok := s.Task(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Task")
		return
	}
	c.JSON(http.StatusOK, t)
}

func UpdateTask(c *gin.Context, s *store.Store) {
	existing, ok := s.Task(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Task")
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	updated, err := s.UpdateTask(c.Request.Context(), req.Apply(existing))
	if err != nil {
		controller.StoreError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MoveTask changes only the status, the usual step when clarifying the inbox.
func MoveTask(c *gin.Context, s *store.Store) {
	existing, ok := s.Task(c.Param("id"))
	if !ok {
		controller.NotFound(c, "Task")
		return
	}

	var req dto.TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	existing.Status = req.Status
	if req.Status != model.StatusCompleted {
		existing.CompletedAt = nil
	}
	updated, err := s.UpdateTask(c.Request.Context(), existing)
	if err != nil {
		controller.StoreError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeleteTask(c *gin.Context, s *store.Store) {
	id := c.Param("id")
	if _, ok := s.Task(id); !ok {
		controller.NotFound(c, "Task")
		return
	}
	if err := s.DeleteTask(c.Request.Context(), id); err != nil {
		controller.StoreError(c, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// DueTasks lists tasks whose due date falls in [from, to). Both bounds take
// RFC 3339 timestamps or plain dates.
func DueTasks(c *gin.Context, s *store.Store) {
	from, errFrom := parseBound(c.Query("from"))
	to, errTo := parseBound(c.Query("to"))
	if errFrom != nil || errTo != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to must be RFC 3339 timestamps or YYYY-MM-DD dates"})
		return
	}
	if !to.After(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be after from"})
		return
	}

	tasks, err := s.TasksDueBetween(c.Request.Context(), from, to)
	if err != nil {
		controller.StoreError(c, err, "Failed to load tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func TaskAdvice(c *gin.Context, s *store.Store) {
	id := c.Param("id")
	if _, ok := s.Task(id); !ok {
		controller.NotFound(c, "Task")
		return
	}
	advice, err := s.AdviceForTask(c.Request.Context(), id)
	if err != nil {
		controller.StoreError(c, err, "Failed to load advice")
		return
	}
	c.JSON(http.StatusOK, advice)
}

func parseBound(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

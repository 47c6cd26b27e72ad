package ai

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gtdagent/controller"
	"gtdagent/dto"
	"gtdagent/services"
)

func Chat(c *gin.Context, advisor *services.Advisor) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidBody(c)
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message required"})
		return
	}

	var cc *services.ChatContext
	if req.Context != nil {
		cc = &services.ChatContext{
			Tasks:    dto.PromptTasks(req.Context.Tasks),
			Projects: dto.PromptProjects(req.Context.Projects),
		}
		if req.Context.CurrentTask != nil {
			current := req.Context.CurrentTask.Task()
			cc.CurrentTask = &current
		}
	}

	reply, err := advisor.Chat(c.Request.Context(), req.Message, cc)
	if err != nil {
		log.Printf("AI chat failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ChatResponse{Response: reply})
}

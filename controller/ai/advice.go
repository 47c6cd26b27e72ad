package ai

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gtdagent/controller"
	"gtdagent/dto"
	"gtdagent/model"
	"gtdagent/services"
	"gtdagent/store"
)

// AIController registers the advice and chat routes. s may be nil, in which
// case advice is not logged.
func AIController(api *gin.RouterGroup, advisor *services.Advisor, s *store.Store) {
	api.POST("/ai/advice", func(c *gin.Context) {
		Advice(c, advisor, s)
	})
	api.POST("/ai/chat", func(c *gin.Context) {
		Chat(c, advisor)
	})
}

func Advice(c *gin.Context, advisor *services.Advisor, s *store.Store) {
	var req dto.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidBody(c)
		return
	}

	ctx := c.Request.Context()
	var (
		advice string
		err    error
	)

	switch req.Type {
	case dto.AdviceOrganization:
		if req.Task == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task is required"})
			return
		}
		tasks, _, derr := dto.DecodeList[dto.PromptTask](req.Tasks)
		projects, _, perr := dto.DecodeList[dto.PromptProject](req.Projects)
		contexts, _, cerr := dto.DecodeList[model.Context](req.Contexts)
		if derr != nil || perr != nil || cerr != nil {
			controller.InvalidBody(c)
			return
		}
		advice, err = advisor.OrganizationAdvice(ctx, req.Task.Task(), dto.PromptTasks(tasks), dto.PromptProjects(projects), contexts)

	case dto.AdviceScheduling:
		tasks, isArray, derr := dto.DecodeList[dto.PromptTask](req.Tasks)
		if !isArray {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tasks array is required"})
			return
		}
		if derr != nil {
			controller.InvalidBody(c)
			return
		}
		advice, err = advisor.SchedulingAdvice(ctx, dto.PromptTasks(tasks), time.Now())

	case dto.AdviceWhatToDoNow:
		tasks, _, derr := dto.DecodeList[dto.PromptTask](req.Tasks)
		contexts, _, cerr := dto.DecodeList[model.Context](req.Contexts)
		if derr != nil || cerr != nil {
			controller.InvalidBody(c)
			return
		}
		advice, err = advisor.WhatToDoNowAdvice(ctx, dto.PromptTasks(tasks), contexts, req.CurrentContext())

	case dto.AdviceImplementation:
		if req.Task == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task is required"})
			return
		}
		advice, err = advisor.ImplementationGuidance(ctx, req.Task.Task())

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advice type"})
		return
	}

	if err != nil {
		log.Printf("AI advice (%s) failed: %v", req.Type, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s != nil && req.Task != nil && req.Task.ID != "" &&
		(req.Type == dto.AdviceOrganization || req.Type == dto.AdviceImplementation) {
		// Logging failures are not surfaced to the caller.
		if _, lerr := s.RecordAdvice(ctx, model.AIAdvice{
			TaskID: req.Task.ID,
			Advice: advice,
			Type:   model.AdviceType(req.Type),
		}); lerr != nil {
			log.Printf("Failed to log advice for task %s: %v", req.Task.ID, lerr)
		}
	}

	c.JSON(http.StatusOK, dto.AdviceResponse{Advice: advice})
}

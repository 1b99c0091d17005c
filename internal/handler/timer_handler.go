package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tempo/backend/internal/model"
	"tempo/backend/internal/service"
	"tempo/backend/internal/timer"
)

type TimerHandler struct {
	engine       *timer.Engine
	labelService *service.LabelService
}

type selectLabelRequest struct {
	LabelID *int64 `json:"labelId"`
}

func NewTimerHandler(engine *timer.Engine, labelService *service.LabelService) *TimerHandler {
	return &TimerHandler{engine: engine, labelService: labelService}
}

func (h *TimerHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.engine.State()})
}

func (h *TimerHandler) Start(c *gin.Context) {
	h.run(c, h.engine.Start)
}

func (h *TimerHandler) Pause(c *gin.Context) {
	h.run(c, h.engine.Pause)
}

func (h *TimerHandler) Reset(c *gin.Context) {
	h.run(c, h.engine.Reset)
}

func (h *TimerHandler) Skip(c *gin.Context) {
	h.run(c, h.engine.SkipToNextSession)
}

func (h *TimerHandler) Tick(c *gin.Context) {
	h.run(c, h.engine.Tick)
}

func (h *TimerHandler) UpdateSettings(c *gin.Context) {
	var req model.TimerSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	h.run(c, func(ctx context.Context) error {
		return h.engine.UpdateSettings(ctx, req)
	})
}

func (h *TimerHandler) SelectLabel(c *gin.Context) {
	var req selectLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.LabelID != nil {
		if _, apiErr := h.labelService.Get(c.Request.Context(), *req.LabelID); apiErr != nil {
			writeError(c, apiErr)
			return
		}
	}
	h.run(c, func(ctx context.Context) error {
		return h.engine.SelectLabel(ctx, req.LabelID)
	})
}

func (h *TimerHandler) run(c *gin.Context, command func(context.Context) error) {
	if err := command(c.Request.Context()); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.engine.State()})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tempo/backend/internal/review"
)

type ReviewHandler struct {
	scheduler *review.Scheduler
}

type createReviewRequest struct {
	Title        string `json:"title"`
	Schedule     []int  `json:"schedule"`
	ReminderTime string `json:"reminderTime"`
}

func NewReviewHandler(scheduler *review.Scheduler) *ReviewHandler {
	return &ReviewHandler{scheduler: scheduler}
}

func (h *ReviewHandler) List(c *gin.Context) {
	if c.Query("due") == "true" {
		c.JSON(http.StatusOK, gin.H{"reviews": h.scheduler.DueToday()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": h.scheduler.List()})
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	item, err := h.scheduler.Add(c.Request.Context(), req.Title, req.Schedule, req.ReminderTime)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": item})
}

func (h *ReviewHandler) Get(c *gin.Context) {
	item, err := h.scheduler.Get(c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": item})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var req review.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	item, err := h.scheduler.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": item})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.scheduler.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) Complete(c *gin.Context) {
	item, retired, err := h.scheduler.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": item, "retired": retired})
}

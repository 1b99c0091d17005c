package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tempo/backend/internal/habit"
)

type HabitHandler struct {
	tracker *habit.Tracker
}

type habitValueRequest struct {
	Value string `json:"value"`
}

func NewHabitHandler(tracker *habit.Tracker) *HabitHandler {
	return &HabitHandler{tracker: tracker}
}

func (h *HabitHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"habits": h.tracker.List()})
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req habit.Draft
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	item, err := h.tracker.Add(c.Request.Context(), req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"habit": item})
}

func (h *HabitHandler) Get(c *gin.Context) {
	item, err := h.tracker.Get(c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": item})
}

func (h *HabitHandler) Update(c *gin.Context) {
	var req habit.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	item, err := h.tracker.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": item})
}

func (h *HabitHandler) Delete(c *gin.Context) {
	if err := h.tracker.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) ToggleCompletion(c *gin.Context) {
	item, err := h.tracker.ToggleCompletion(c.Request.Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": item})
}

func (h *HabitHandler) SetValue(c *gin.Context) {
	var req habitValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	item, err := h.tracker.SetValue(c.Request.Context(), c.Param("id"), c.Param("date"), req.Value)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": item})
}

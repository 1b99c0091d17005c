package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tempo/backend/internal/errors"
	"tempo/backend/internal/model"
	"tempo/backend/internal/service"
)

type HistoryHandler struct {
	historyService *service.HistoryService
	labelService   *service.LabelService
	location       *time.Location
}

type createLabelRequest struct {
	Name string `json:"name"`
}

func NewHistoryHandler(historyService *service.HistoryService, labelService *service.LabelService, location *time.Location) *HistoryHandler {
	if location == nil {
		location = time.Local
	}
	return &HistoryHandler{
		historyService: historyService,
		labelService:   labelService,
		location:       location,
	}
}

func (h *HistoryHandler) Sessions(c *gin.Context) {
	filter, apiErr := h.parseFilter(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	sessions, apiErr := h.historyService.History(c.Request.Context(), filter)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *HistoryHandler) Stats(c *gin.Context) {
	filter, apiErr := h.parseFilter(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	stats, apiErr := h.historyService.Stats(c.Request.Context(), filter)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *HistoryHandler) ListLabels(c *gin.Context) {
	labels, apiErr := h.labelService.List(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

func (h *HistoryHandler) CreateLabel(c *gin.Context) {
	var req createLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	label, apiErr := h.labelService.Create(c.Request.Context(), req.Name)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"label": label})
}

func (h *HistoryHandler) DeleteLabel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid_label_id", "label id must be an integer"))
		return
	}

	if apiErr := h.labelService.Delete(c.Request.Context(), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseFilter reads from, to and labelId. Dates are RFC 3339 timestamps or
// YYYY-MM-DD days; a bare "to" day includes the whole day.
func (h *HistoryHandler) parseFilter(c *gin.Context) (model.SessionFilter, *apperrors.APIError) {
	var filter model.SessionFilter

	if raw := c.Query("from"); raw != "" {
		from, _, err := h.parseDate(raw)
		if err != nil {
			return filter, apperrors.BadRequest("invalid_from", "from must be RFC 3339 or YYYY-MM-DD")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, dayOnly, err := h.parseDate(raw)
		if err != nil {
			return filter, apperrors.BadRequest("invalid_to", "to must be RFC 3339 or YYYY-MM-DD")
		}
		if dayOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.To = &to
	}
	if raw := c.Query("labelId"); raw != "" {
		labelID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, apperrors.BadRequest("invalid_label_id", "labelId must be an integer")
		}
		filter.LabelID = &labelID
	}
	return filter, nil
}

func (h *HistoryHandler) parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, h.location)
	return t, true, err
}

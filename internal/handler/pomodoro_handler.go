package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/service"
)

type PomodoroHandler struct {
	pomodoroService *service.PomodoroService
}

func NewPomodoroHandler(pomodoroService *service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroService: pomodoroService}
}

func (h *PomodoroHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.pomodoroService.Snapshot()})
}

func (h *PomodoroHandler) Start(c *gin.Context) {
	h.timerAction(c, h.pomodoroService.Start)
}

func (h *PomodoroHandler) Pause(c *gin.Context) {
	h.timerAction(c, h.pomodoroService.Pause)
}

func (h *PomodoroHandler) Toggle(c *gin.Context) {
	h.timerAction(c, h.pomodoroService.Toggle)
}

func (h *PomodoroHandler) Reset(c *gin.Context) {
	h.timerAction(c, h.pomodoroService.Reset)
}

func (h *PomodoroHandler) timerAction(c *gin.Context, action func(ctx context.Context) (service.StateView, error)) {
	state, err := action(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *PomodoroHandler) UpdateSettings(c *gin.Context) {
	var req service.SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.WorkDuration == nil && req.BreakDuration == nil &&
		req.LongBreakDuration == nil && req.SessionsBeforeLongBreak == nil {
		writeError(c, apperrors.InvalidArgument("no settings given"))
		return
	}

	state, err := h.pomodoroService.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *PomodoroHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.pomodoroService.Stats()})
}

func (h *PomodoroHandler) GetHistory(c *gin.Context) {
	limit := 50
	rawLimit := c.Query("limit")
	if rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	sessions, err := h.pomodoroService.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/worktrack-dev/worktrack/internal/lock"
	"github.com/worktrack-dev/worktrack/internal/reminders"
)

const runLockKey = "worktrack:reminders:run"

// ReminderRunner is what the cron endpoint needs from the reminder engine.
type ReminderRunner interface {
	ProcessAll(ctx context.Context) reminders.Summary
}

type ReminderHandler struct {
	engine  ReminderRunner
	runLock *lock.RunLock
}

func NewReminderHandler(engine ReminderRunner, runLock *lock.RunLock) *ReminderHandler {
	return &ReminderHandler{engine: engine, runLock: runLock}
}

// ProcessReminders runs the full reminder batch. Invoked by the external
// scheduler; the bearer-token middleware has already vetted the caller.
func (h *ReminderHandler) ProcessReminders(ctx *gin.Context) {
	token, acquired, err := h.runLock.Acquire(ctx.Request.Context(), runLockKey)

	if err != nil {
		log.Printf("Failed to acquire reminder run lock: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to acquire run lock"})
		return
	}

	if !acquired {
		ctx.JSON(http.StatusConflict, gin.H{"success": false, "error": "A reminder run is already in progress"})
		return
	}

	defer h.runLock.Release(ctx.Request.Context(), runLockKey, token)

	summary := h.engine.ProcessAll(ctx.Request.Context())

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": summary,
	})
}

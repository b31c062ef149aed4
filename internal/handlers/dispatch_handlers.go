package handlers

import (
	"net/http"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/worker"

	"github.com/gin-gonic/gin"
)

// DispatchHandler exposes the background feedback dispatcher over HTTP.
type DispatchHandler struct {
	dispatcher *worker.Dispatcher
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(d *worker.Dispatcher) *DispatchHandler {
	return &DispatchHandler{dispatcher: d}
}

// RunNow triggers an immediate checker pass instead of waiting for the next
// tick. Returns 409 when a pass is already in flight.
func (h *DispatchHandler) RunNow(c *gin.Context) {
	result := h.dispatcher.RunOnce(time.Now())
	if result == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "A dispatch pass is already running or the pass failed. Check the logs."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status reports whether a pass is in flight and when the last one finished.
func (h *DispatchHandler) Status(c *gin.Context) {
	running, lastRun := h.dispatcher.Status()

	resp := gin.H{"running": running}
	if !lastRun.IsZero() {
		resp["last_run"] = lastRun.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
)

// pendingHandler handles HTTP requests for deferred submissions.
type pendingHandler struct {
	syncService portssvc.SyncSvcFacade
}

func newPendingHandler(syncService portssvc.SyncSvcFacade) *pendingHandler {
	return &pendingHandler{syncService: syncService}
}

func registerPendingRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newPendingHandler(syncService)
	pending := rg.Group("/pending")
	{
		pending.GET("", h.listPending)
		pending.POST("/:masterID/resume", h.resume)
	}
}

func (h *pendingHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pendings, err := h.syncService.ListPending(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list pending submissions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": pendings})
}

func (h *pendingHandler) resume(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	masterID, err := strconv.ParseInt(c.Param("masterID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid master ID"})
		return
	}

	pending, err := h.syncService.FindPending(c.Request.Context(), masterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending submission for this master ID"})
			return
		}
		logger.Error("Failed to look up pending submission", slog.String("error", err.Error()), slog.Int64("master_id", masterID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up pending submission"})
		return
	}

	result, err := h.syncService.ResumeSubmission(c.Request.Context(), *pending)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "A submission for this group is already in progress"})
			return
		}
		logger.Error("Failed to resume submission", slog.String("error", err.Error()), slog.Int64("master_id", masterID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resume submission"})
		return
	}
	logger.Info("Pending submission resumed",
		slog.Int64("master_id", masterID),
		slog.String("status", string(result.Status)))
	c.JSON(http.StatusOK, result)
}

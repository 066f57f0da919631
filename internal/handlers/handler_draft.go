package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
	"github.com/pocketledger/pocket_ledger_sync/internal/utils"
)

// draftHandler handles HTTP requests for the offline staging area.
type draftHandler struct {
	draftService portssvc.DraftSvcFacade
	syncService  portssvc.SyncSvcFacade
}

func newDraftHandler(draftService portssvc.DraftSvcFacade, syncService portssvc.SyncSvcFacade) *draftHandler {
	return &draftHandler{draftService: draftService, syncService: syncService}
}

func registerDraftRoutes(rg *gin.RouterGroup, draftService portssvc.DraftSvcFacade, syncService portssvc.SyncSvcFacade) {
	h := newDraftHandler(draftService, syncService)
	drafts := rg.Group("/drafts")
	{
		drafts.POST("", h.openDraft)
		drafts.POST("/:masterID/legs", h.stageLeg)
		drafts.GET("/:masterID/legs", h.listLegs)
		drafts.DELETE("/:masterID", h.discard)
		drafts.POST("/:masterID/submit", h.submit)
	}
}

func masterIDParam(c *gin.Context) (int64, bool) {
	masterID, err := strconv.ParseInt(c.Param("masterID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid master ID"})
		return 0, false
	}
	return masterID, true
}

// openDraft allocates a fresh master id for a new draft group. No state is
// created until the first leg is staged under it.
func (h *draftHandler) openDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	masterID, err := utils.GenerateMasterID()
	if err != nil {
		logger.Error("Failed to generate master ID", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open draft"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"masterID": masterID})
}

func (h *draftHandler) stageLeg(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	masterID, ok := masterIDParam(c)
	if !ok {
		return
	}

	req := dto.StageLegRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for StageLeg", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	leg, err := h.draftService.StageLeg(c.Request.Context(), masterID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error staging leg", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to stage leg in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage leg"})
		return
	}

	logger.Info("Leg staged successfully",
		slog.Int64("master_id", masterID),
		slog.Int64("journal_id", leg.JournalID))
	c.JSON(http.StatusCreated, leg)
}

func (h *draftHandler) listLegs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	masterID, ok := masterIDParam(c)
	if !ok {
		return
	}

	legs, err := h.draftService.LegsForMaster(c.Request.Context(), masterID)
	if err != nil {
		logger.Error("Failed to list draft legs", slog.String("error", err.Error()), slog.Int64("master_id", masterID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list draft legs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"legs": legs})
}

func (h *draftHandler) discard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	masterID, ok := masterIDParam(c)
	if !ok {
		return
	}

	if err := h.draftService.DiscardMaster(c.Request.Context(), masterID); err != nil {
		logger.Error("Failed to discard draft group", slog.String("error", err.Error()), slog.Int64("master_id", masterID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discard draft group"})
		return
	}

	logger.Info("Draft group discarded", slog.Int64("master_id", masterID))
	c.Status(http.StatusNoContent)
}

func (h *draftHandler) submit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	masterID, ok := masterIDParam(c)
	if !ok {
		return
	}

	req := dto.SubmitGroupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for SubmitGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.syncService.SubmitGroup(c.Request.Context(), masterID, req.GroupTitle)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmptyGroup):
			logger.Warn("Submission of empty group", slog.Int64("master_id", masterID))
			c.JSON(http.StatusBadRequest, gin.H{"error": "No staged legs for this group"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Submission already in flight", slog.Int64("master_id", masterID))
			c.JSON(http.StatusConflict, gin.H{"error": "A submission for this group is already in progress"})
		default:
			logger.Error("Failed to submit group", slog.String("error", err.Error()), slog.Int64("master_id", masterID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit group"})
		}
		return
	}

	logger.Info("Group submission finished",
		slog.Int64("master_id", masterID),
		slog.String("status", string(result.Status)))

	// A rejection is a terminal answer for this attempt, not a server fault.
	if result.Status == dto.SubmitRejected {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

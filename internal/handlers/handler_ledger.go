package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
)

const windowDateLayout = "2006-01-02"

// ledgerHandler handles HTTP requests over the local ledger mirror.
type ledgerHandler struct {
	mirrorService portssvc.MirrorSvcFacade
	searchService portssvc.SearchSvcFacade
}

func newLedgerHandler(mirrorService portssvc.MirrorSvcFacade, searchService portssvc.SearchSvcFacade) *ledgerHandler {
	return &ledgerHandler{mirrorService: mirrorService, searchService: searchService}
}

func registerLedgerRoutes(rg *gin.RouterGroup, mirrorService portssvc.MirrorSvcFacade, searchService portssvc.SearchSvcFacade) {
	h := newLedgerHandler(mirrorService, searchService)
	transactions := rg.Group("/transactions")
	{
		transactions.POST("/refresh", h.refreshWindow)
		transactions.GET("/summary", h.summary)
		transactions.GET("/summary/tags/:tag", h.sumByTag)
		transactions.GET("/search", h.search)
		transactions.GET("/groups/:groupID", h.groupDetail)
		transactions.DELETE("/:journalID", h.deleteByID)
	}
}

// windowFromQuery builds the mirror window from start/end/kind query params.
// Absent dates mean an unscoped window; an absent kind means all kinds.
func windowFromQuery(c *gin.Context) (domain.MirrorWindow, bool) {
	window := domain.MirrorWindow{Kind: domain.KindAll}

	if kindParam := c.Query("kind"); kindParam != "" {
		kind, err := domain.ParseTransactionKind(kindParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction kind"})
			return domain.MirrorWindow{}, false
		}
		window.Kind = kind
	}

	startParam, endParam := c.Query("start"), c.Query("end")
	if (startParam == "") != (endParam == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be provided together"})
		return domain.MirrorWindow{}, false
	}
	if startParam != "" {
		start, err := time.Parse(windowDateLayout, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, want YYYY-MM-DD"})
			return domain.MirrorWindow{}, false
		}
		end, err := time.Parse(windowDateLayout, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date, want YYYY-MM-DD"})
			return domain.MirrorWindow{}, false
		}
		if end.Before(start) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
			return domain.MirrorWindow{}, false
		}
		window.Range = domain.DateRange{Start: start, End: end}
	}

	return window, true
}

func (h *ledgerHandler) refreshWindow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	window, ok := windowFromQuery(c)
	if !ok {
		return
	}

	result := h.mirrorService.RefreshWindow(c.Request.Context(), window)
	if result.Status == dto.RefreshStale {
		logger.Warn("Window refresh fell back to cached data",
			slog.String("window", window.Key()),
			slog.Any("error", result.Err))
	}
	c.JSON(http.StatusOK, gin.H{"status": result.Status})
}

func (h *ledgerHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	window, ok := windowFromQuery(c)
	if !ok {
		return
	}

	summary, err := h.mirrorService.Summary(c.Request.Context(), window)
	if err != nil {
		logger.Error("Failed to build window summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ledgerHandler) sumByTag(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	window, ok := windowFromQuery(c)
	if !ok {
		return
	}
	tag := c.Param("tag")

	sums, err := h.mirrorService.SumByTag(c.Request.Context(), window, tag)
	if err != nil {
		logger.Error("Failed to sum by tag", slog.String("error", err.Error()), slog.String("tag", tag))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum by tag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag, "sumByCurrency": sums})
}

func (h *ledgerHandler) search(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing q parameter"})
		return
	}

	result, err := h.searchService.SearchByText(c.Request.Context(), query)
	if err != nil {
		logger.Error("Failed to search transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search transactions"})
		return
	}

	// The merged slice supersedes the local one when the remote round-trip
	// finishes in time; past the deadline the local match is the answer.
	legs := result.Local
	merged := false
	select {
	case refreshed, open := <-result.Merged:
		if open {
			legs = refreshed
			merged = true
		}
	case <-time.After(5 * time.Second):
	case <-c.Request.Context().Done():
	}

	c.JSON(http.StatusOK, gin.H{"legs": legs, "remoteMerged": merged})
}

func (h *ledgerHandler) groupDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	groupID, err := strconv.ParseInt(c.Param("groupID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	legs, err := h.mirrorService.GroupLegs(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown transaction group"})
			return
		}
		logger.Error("Failed to read transaction group", slog.String("error", err.Error()), slog.Int64("group_id", groupID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read transaction group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groupID": groupID, "legs": legs})
}

func (h *ledgerHandler) deleteByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	journalID, err := strconv.ParseInt(c.Param("journalID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	if err := h.mirrorService.DeleteByID(c.Request.Context(), journalID); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Remote refused delete, local copy preserved", slog.Int64("journal_id", journalID))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Remote session expired, transaction preserved"})
			return
		}
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.Int64("journal_id", journalID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}

	logger.Info("Transaction deleted", slog.Int64("journal_id", journalID))
	c.Status(http.StatusNoContent)
}

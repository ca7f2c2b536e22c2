package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbook/finbook_backend/internal/core/domain"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler handles HTTP requests for AR/AP ledger entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to ledger entries.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/ledger-entries", h.createEntry)
	rg.GET("/ledger-entries/:transactionID", h.getEntry)
	rg.GET("/parties/:partyName/open-entries", h.listOpenEntries)
	rg.GET("/parties/:partyName/allocation-preview", h.previewAllocation)
}

// createEntry godoc
// @Summary Record a new outstanding balance
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateLedgerEntryRequest true "Ledger entry details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Transaction ID already recorded"
// @Router /ledger-entries [post]
func (h *ledgerHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLedgerEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, err, "Failed to create ledger entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a ledger entry by transaction ID
// @Tags ledger
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /ledger-entries/{transactionID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	entry, err := h.ledgerService.GetEntryByTransactionID(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve ledger entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// listOpenEntries godoc
// @Summary List a party's open ledger entries
// @Description Returns the party's UNPAID and PARTIAL entries oldest-due-first
// @Tags ledger
// @Produce  json
// @Param   partyName path string true "Party name"
// @Param   entryType query string true "RECEIVABLE or PAYABLE"
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid entry type"
// @Router /parties/{partyName}/open-entries [get]
func (h *ledgerHandler) listOpenEntries(c *gin.Context) {
	entryType, ok := parseEntryType(c)
	if !ok {
		return
	}

	entries, err := h.ledgerService.GetOpenEntriesByParty(c.Request.Context(), c.Param("partyName"), entryType)
	if err != nil {
		respondServiceError(c, err, "Failed to list open entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}

// previewAllocation godoc
// @Summary Preview a FIFO allocation
// @Description Distributes an amount over the party's open entries without writing anything
// @Tags ledger
// @Produce  json
// @Param   partyName path string true "Party name"
// @Param   entryType query string true "RECEIVABLE or PAYABLE"
// @Param   amount query string true "Amount to distribute"
// @Success 200 {array} dto.AllocationPlanResponse
// @Failure 400 {object} map[string]string "Invalid entry type or amount"
// @Router /parties/{partyName}/allocation-preview [get]
func (h *ledgerHandler) previewAllocation(c *gin.Context) {
	entryType, ok := parseEntryType(c)
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + err.Error()})
		return
	}

	plans, err := h.ledgerService.PreviewAllocation(c.Request.Context(), c.Param("partyName"), entryType, amount)
	if err != nil {
		respondServiceError(c, err, "Failed to preview allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationPlanResponses(plans))
}

func parseEntryType(c *gin.Context) (domain.LedgerEntryType, bool) {
	switch c.Query("entryType") {
	case string(domain.Receivable):
		return domain.Receivable, true
	case string(domain.Payable):
		return domain.Payable, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "entryType must be RECEIVABLE or PAYABLE"})
		return "", false
	}
}

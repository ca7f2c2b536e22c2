package handlers

import (
	"net/http"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for the double-entry journal.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	rg.GET("/journal-entries", h.listEntriesByPayment)
	rg.GET("/journal-entries/:entryID", h.getEntry)
}

// listEntriesByPayment godoc
// @Summary List journal entries for a payment
// @Tags journal
// @Produce  json
// @Param   paymentID query string true "Payment ID"
// @Success 200 {array} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Missing payment ID"
// @Router /journal-entries [get]
func (h *journalHandler) listEntriesByPayment(c *gin.Context) {
	paymentID := c.Query("paymentID")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentID query parameter is required"})
		return
	}

	entries, err := h.journalService.GetEntriesByPaymentID(c.Request.Context(), paymentID)
	if err != nil {
		respondServiceError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponses(entries))
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

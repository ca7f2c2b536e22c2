package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chequeHandler handles HTTP requests for the cheque lifecycle.
type chequeHandler struct {
	chequeService portssvc.ChequeSvcFacade
}

// newChequeHandler creates a new chequeHandler.
func newChequeHandler(cs portssvc.ChequeSvcFacade) *chequeHandler {
	return &chequeHandler{chequeService: cs}
}

// RegisterChequeRoutes registers routes related to cheques.
func RegisterChequeRoutes(rg *gin.RouterGroup, chequeService portssvc.ChequeSvcFacade) {
	h := newChequeHandler(chequeService)

	cheques := rg.Group("/cheques")
	{
		cheques.POST("", h.submitCheque)
		cheques.PUT("/:chequeID", h.editCheque)
		cheques.GET("/:chequeID", h.getCheque)
		cheques.GET("", h.listCheques)
		cheques.DELETE("/:chequeID", h.deleteCheque)
		cheques.POST("/:chequeID/cash", h.cashCheque)
		cheques.POST("/:chequeID/cash-with-allocation", h.cashChequeWithAllocation)
		cheques.POST("/:chequeID/bounce", h.bounceCheque)
		cheques.POST("/:chequeID/endorse", h.endorseCheque)
		cheques.POST("/:chequeID/cancel-endorsement", h.cancelEndorsement)
	}
}

// submitCheque godoc
// @Summary Create a new cheque
// @Description Registers a new cheque in PENDING status
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   cheque body dto.SubmitChequeRequest true "Cheque details"
// @Success 201 {object} dto.ChequeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create cheque"
// @Router /cheques [post]
func (h *chequeHandler) submitCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitCheque", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.ChequeID = "" // creation never carries an id

	actor := middleware.GetActorFromContext(c)
	cheque, err := h.chequeService.SubmitCheque(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, err, "Failed to create cheque")
		return
	}

	logger.Info("Cheque created", slog.String("cheque_id", cheque.ChequeID))
	c.JSON(http.StatusCreated, dto.ToChequeResponse(cheque))
}

// editCheque godoc
// @Summary Edit a cheque
// @Description Updates a cheque; a changed status routes through the matching lifecycle command
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Param   cheque body dto.SubmitChequeRequest true "Cheque details"
// @Success 200 {object} dto.ChequeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Cheque not found"
// @Failure 409 {object} map[string]string "Transition or idempotency conflict"
// @Router /cheques/{chequeID} [put]
func (h *chequeHandler) editCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EditCheque", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.ChequeID = c.Param("chequeID")

	actor := middleware.GetActorFromContext(c)
	cheque, err := h.chequeService.SubmitCheque(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, err, "Failed to update cheque")
		return
	}

	c.JSON(http.StatusOK, dto.ToChequeResponse(cheque))
}

// getCheque godoc
// @Summary Get a cheque by ID
// @Tags cheques
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Success 200 {object} dto.ChequeResponse
// @Failure 404 {object} map[string]string "Cheque not found"
// @Router /cheques/{chequeID} [get]
func (h *chequeHandler) getCheque(c *gin.Context) {
	cheque, err := h.chequeService.GetChequeByID(c.Request.Context(), c.Param("chequeID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve cheque")
		return
	}
	c.JSON(http.StatusOK, dto.ToChequeResponse(cheque))
}

// listCheques godoc
// @Summary List cheques
// @Description Lists cheques with optional status/direction/party filters, token-paginated
// @Tags cheques
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   direction query string false "Filter by direction"
// @Param   partyName query string false "Filter by party name"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListChequesResponse
// @Failure 400 {object} map[string]string "Invalid filter or token"
// @Router /cheques [get]
func (h *chequeHandler) listCheques(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListChequesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListCheques", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.chequeService.ListCheques(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list cheques")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// cashCheque godoc
// @Summary Cash a cheque
// @Description Moves the cheque to CASHED, creating its payment, settling the linked entry and posting the journal entry atomically
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Param   request body dto.CashChequeRequest false "Optional payment date"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Cheque not found"
// @Failure 409 {object} map[string]string "Transition or idempotency conflict"
// @Router /cheques/{chequeID}/cash [post]
func (h *chequeHandler) cashCheque(c *gin.Context) {
	var req dto.CashChequeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actor := middleware.GetActorFromContext(c)
	if err := h.chequeService.CashCheque(c.Request.Context(), c.Param("chequeID"), req, actor); err != nil {
		respondServiceError(c, err, "Failed to cash cheque")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "CASHED"})
}

// cashChequeWithAllocation godoc
// @Summary Cash a cheque against several open transactions
// @Description Distributes the cheque amount FIFO over the party's open entries, or applies the caller's clamped allocations
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Param   request body dto.CashWithAllocationRequest true "Allocation choices"
// @Success 200 {object} dto.CashWithAllocationResponse
// @Failure 400 {object} map[string]string "Invalid allocations"
// @Failure 409 {object} map[string]string "Transition or idempotency conflict"
// @Router /cheques/{chequeID}/cash-with-allocation [post]
func (h *chequeHandler) cashChequeWithAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CashWithAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CashChequeWithAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	resp, err := h.chequeService.CashChequeWithAllocation(c.Request.Context(), c.Param("chequeID"), req, actor)
	if err != nil {
		respondServiceError(c, err, "Failed to cash cheque")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bounceCheque godoc
// @Summary Bounce a cheque
// @Description Marks the cheque BOUNCED, first reversing its cash effects if it was CASHED
// @Tags cheques
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Cheque not found"
// @Failure 409 {object} map[string]string "Transition conflict"
// @Router /cheques/{chequeID}/bounce [post]
func (h *chequeHandler) bounceCheque(c *gin.Context) {
	actor := middleware.GetActorFromContext(c)
	if err := h.chequeService.BounceCheque(c.Request.Context(), c.Param("chequeID"), actor); err != nil {
		respondServiceError(c, err, "Failed to bounce cheque")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "BOUNCED"})
}

// endorseCheque godoc
// @Summary Endorse an incoming cheque to a supplier
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Param   request body dto.EndorseChequeRequest true "Endorsement details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Transition conflict"
// @Router /cheques/{chequeID}/endorse [post]
func (h *chequeHandler) endorseCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EndorseChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EndorseCheque", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	if err := h.chequeService.EndorseCheque(c.Request.Context(), c.Param("chequeID"), req, actor); err != nil {
		respondServiceError(c, err, "Failed to endorse cheque")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ENDORSED"})
}

// cancelEndorsement godoc
// @Summary Cancel an endorsement
// @Description Reverses both bookkeeping payments, removes the synthetic outgoing cheque and restores the cheque to PENDING
// @Tags cheques
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Endorsed-to cheque no longer PENDING"
// @Router /cheques/{chequeID}/cancel-endorsement [post]
func (h *chequeHandler) cancelEndorsement(c *gin.Context) {
	actor := middleware.GetActorFromContext(c)
	if err := h.chequeService.CancelEndorsement(c.Request.Context(), c.Param("chequeID"), actor); err != nil {
		respondServiceError(c, err, "Failed to cancel endorsement")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "PENDING"})
}

// deleteCheque godoc
// @Summary Delete a PENDING cheque
// @Tags cheques
// @Produce  json
// @Param   chequeID path string true "Cheque ID"
// @Success 204
// @Failure 404 {object} map[string]string "Cheque not found"
// @Failure 409 {object} map[string]string "Cheque has financial side effects"
// @Router /cheques/{chequeID} [delete]
func (h *chequeHandler) deleteCheque(c *gin.Context) {
	actor := middleware.GetActorFromContext(c)
	if err := h.chequeService.DeleteCheque(c.Request.Context(), c.Param("chequeID"), actor); err != nil {
		respondServiceError(c, err, "Failed to delete cheque")
		return
	}
	c.Status(http.StatusNoContent)
}

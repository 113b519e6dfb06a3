package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sdejesus/pos_register_app/internal/apperrors"
	portssvc "github.com/sdejesus/pos_register_app/internal/core/ports/services"
	"github.com/sdejesus/pos_register_app/internal/dto"
	"github.com/sdejesus/pos_register_app/internal/middleware"
)

// registerHandler handles HTTP requests for the register transaction lifecycle.
type registerHandler struct {
	registerService portssvc.RegisterSvcFacade
}

// newRegisterHandler creates a new registerHandler.
func newRegisterHandler(rs portssvc.RegisterSvcFacade) *registerHandler {
	return &registerHandler{
		registerService: rs,
	}
}

// registerRegisterRoutes registers the transaction lifecycle routes.
func registerRegisterRoutes(rg *gin.RouterGroup, registerService portssvc.RegisterSvcFacade) {
	h := newRegisterHandler(registerService)

	register := rg.Group("/register")
	{
		register.POST("/items", h.addItem)
		register.DELETE("/items/:index", h.voidItem)
		register.PUT("/items/:index", h.changeQuantity)
		register.GET("/totals", h.totals)
		register.POST("/suspend", h.suspend)
		register.POST("/resume", h.resume)
		register.POST("/void", h.void)
		register.POST("/complete", h.complete)
		register.GET("/suspended", h.listSuspended)
		register.GET("/history", h.history)
	}
}

// respondServiceError maps service errors onto HTTP statuses.
func respondServiceError(c *gin.Context, logger *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientPayment):
		logger.Warn("Insufficient payment", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid transaction state", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Service error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// addItem scans a product into the current transaction.
func (h *registerHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.registerService.AddItem(c.Request.Context(), req.Code, req.Quantity)
	if err != nil {
		respondServiceError(c, logger, "add item", err)
		return
	}

	logger.Info("Item added", slog.String("code", req.Code), slog.Int64("quantity", req.Quantity), slog.Int64("transaction_id", snapshot.TransactionID))
	c.JSON(http.StatusOK, dto.ToTotalsResponse(snapshot))
}

// voidItem removes one ledger line by its index.
func (h *registerHandler) voidItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index: " + c.Param("index")})
		return
	}

	snapshot, err := h.registerService.VoidItem(c.Request.Context(), index)
	if err != nil {
		respondServiceError(c, logger, "void item", err)
		return
	}

	logger.Info("Item voided", slog.Int("index", index))
	c.JSON(http.StatusOK, dto.ToTotalsResponse(snapshot))
}

// changeQuantity replaces the quantity of a ledger line.
func (h *registerHandler) changeQuantity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index: " + c.Param("index")})
		return
	}

	var req dto.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangeQuantity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.registerService.ChangeQuantity(c.Request.Context(), index, req.Quantity)
	if err != nil {
		respondServiceError(c, logger, "change quantity", err)
		return
	}

	logger.Info("Quantity changed", slog.Int("index", index), slog.Int64("quantity", req.Quantity))
	c.JSON(http.StatusOK, dto.ToTotalsResponse(snapshot))
}

// totals returns the current transaction's pricing state.
func (h *registerHandler) totals(c *gin.Context) {
	snapshot := h.registerService.Totals(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToTotalsResponse(snapshot))
}

// suspend parks the current transaction for later resumption.
func (h *registerHandler) suspend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.registerService.Suspend(c.Request.Context()); err != nil {
		respondServiceError(c, logger, "suspend transaction", err)
		return
	}

	logger.Info("Transaction suspended")
	c.Status(http.StatusNoContent)
}

// resume reactivates a suspended transaction.
func (h *registerHandler) resume(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Resume", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.registerService.Resume(c.Request.Context(), req.TransactionID)
	if err != nil {
		respondServiceError(c, logger, "resume transaction", err)
		return
	}

	logger.Info("Transaction resumed", slog.Int64("transaction_id", req.TransactionID))
	c.JSON(http.StatusOK, dto.ToTotalsResponse(snapshot))
}

// void cancels the current transaction.
func (h *registerHandler) void(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Body is optional for void
		req.Reason = ""
	}

	if err := h.registerService.Void(c.Request.Context(), req.Reason); err != nil {
		respondServiceError(c, logger, "void transaction", err)
		return
	}

	logger.Info("Transaction voided")
	c.Status(http.StatusNoContent)
}

// complete tenders payment and finishes the current transaction.
func (h *registerHandler) complete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Complete", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sale, err := h.registerService.Complete(c.Request.Context(), req.PaymentType, req.Tendered)
	if err != nil {
		respondServiceError(c, logger, "complete transaction", err)
		return
	}

	logger.Info("Transaction completed",
		slog.Int64("transaction_id", sale.TransactionID),
		slog.String("payment_type", sale.PaymentType),
		slog.String("total", sale.Total.StringFixed(2)),
	)
	c.JSON(http.StatusOK, dto.ToCompletedSaleResponse(sale))
}

// listSuspended lists transactions eligible for resumption.
func (h *registerHandler) listSuspended(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ids, err := h.registerService.ListSuspended(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, "list suspended transactions", err)
		return
	}

	c.JSON(http.StatusOK, dto.SuspendedListResponse{TransactionIDs: ids})
}

// history lists past transactions, newest first.
func (h *registerHandler) history(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeVoided := c.DefaultQuery("includeVoided", "false") == "true"
	includeSuspended := c.DefaultQuery("includeSuspended", "false") == "true"

	txns, err := h.registerService.History(c.Request.Context(), includeVoided, includeSuspended)
	if err != nil {
		respondServiceError(c, logger, "list transaction history", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoryResponse(txns))
}

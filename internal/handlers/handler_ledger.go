package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/retailbank/banking_ledger/internal/core/ports/services"
	"github.com/retailbank/banking_ledger/internal/dto"
	"github.com/retailbank/banking_ledger/internal/middleware"
)

// ledgerHandler handles balance-mutating ledger operations.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers deposit, withdraw and transfer routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ls)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/deposit", h.deposit)
		ledger.POST("/withdraw", h.withdraw)
		ledger.POST("/transfer", h.transfer)
	}
}

// deposit godoc
// @Summary Deposit funds
// @Description Credits an amount to an active account and appends the entry to the transaction log
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount or request format"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account is closed"
// @Failure 503 {object} map[string]string "Timed out waiting for the account lock"
// @Router /ledger/deposit [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Deposit(c.Request.Context(), req.AccountID, req.Amount, req.Description)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(entry))
}

// withdraw godoc
// @Summary Withdraw funds
// @Description Debits an amount from an active account with sufficient funds
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   withdrawal body dto.WithdrawRequest true "Withdrawal details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount or request format"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account is closed"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 503 {object} map[string]string "Timed out waiting for the account lock"
// @Router /ledger/withdraw [post]
func (h *ledgerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Withdraw(c.Request.Context(), req.AccountID, req.Amount, req.Description)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(entry))
}

// transfer godoc
// @Summary Transfer funds between accounts
// @Description Atomically debits the source account and credits the destination. Both entries are written together or not at all.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid amount or request format"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account closed or source equals destination"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 503 {object} map[string]string "Timed out waiting for the account locks"
// @Router /ledger/transfer [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debit, credit, err := h.ledgerService.Transfer(c.Request.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TransferResponse{
		Debit:  dto.ToTransactionResponse(debit),
		Credit: dto.ToTransactionResponse(credit),
	})
}

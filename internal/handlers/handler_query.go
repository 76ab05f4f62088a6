package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/retailbank/banking_ledger/internal/core/ports/services"
	"github.com/retailbank/banking_ledger/internal/dto"
	"github.com/retailbank/banking_ledger/internal/middleware"
)

const dateLayout = "2006-01-02"

// queryHandler serves the read-only balance and history endpoints.
type queryHandler struct {
	queryService portssvc.QuerySvcFacade
}

func newQueryHandler(qs portssvc.QuerySvcFacade) *queryHandler {
	return &queryHandler{queryService: qs}
}

// getBalance godoc
// @Summary Check account balance
// @Description Returns the current balance of an account. Closed accounts remain readable.
// @Tags queries
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{id}/balance [get]
func (h *queryHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	balance, err := h.queryService.CheckBalance(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Balance:   balance.StringFixed(2),
	})
}

// getHistory godoc
// @Summary Get transaction history
// @Description Returns the account's transaction log in sequence order, optionally filtered by an inclusive calendar-day range (UTC)
// @Tags queries
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} map[string]string "Malformed date parameter"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{id}/transactions [get]
func (h *queryHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var params dto.HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetHistory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date parameters: " + err.Error()})
		return
	}

	var startDate, endDate *time.Time
	if params.StartDate != "" {
		t, _ := time.ParseInLocation(dateLayout, params.StartDate, time.UTC)
		startDate = &t
	}
	if params.EndDate != "" {
		t, _ := time.ParseInLocation(dateLayout, params.EndDate, time.UTC)
		endDate = &t
	}

	entries, err := h.queryService.GetHistory(c.Request.Context(), accountID, startDate, endDate)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		AccountID:    accountID,
		Transactions: dto.ToTransactionResponses(entries),
	})
}

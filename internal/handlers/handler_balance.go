package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/middleware"
)

// balanceHandler handles HTTP requests for the ledger's read side.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(balanceService portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{
		balanceService: balanceService,
	}
}

// getBalance godoc
// @Summary Get an account's current balance
// @Description Returns the base-currency balance plus the tenant's display rendering
// @Tags balances
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse "Balance"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /tenants/{tenantID}/accounts/{accountID}/balance [get]
func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	accountID := c.Param("accountID")

	balance, err := h.balanceService.GetBalance(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getStatement godoc
// @Summary Get a paginated account statement
// @Description Returns ledger entries involving the account, newest first
// @Tags balances
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   accountID path string true "Account ID"
// @Param   from query string false "Range start (RFC3339)"
// @Param   to query string false "Range end (RFC3339)"
// @Param   type query []string false "Transaction type filter"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.StatementResponse "Statement page"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /tenants/{tenantID}/accounts/{accountID}/statement [get]
func (h *balanceHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	accountID := c.Param("accountID")

	params := dto.StatementParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for getStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	statement, err := h.balanceService.GetStatement(c.Request.Context(), tenantID, accountID, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// getTenantStats godoc
// @Summary Get tenant-wide ledger aggregates
// @Description Returns lifetime volumes, the pool balance and a per-department breakdown
// @Tags balances
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TenantStatsResponse "Tenant stats"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{tenantID}/stats [get]
func (h *balanceHandler) getTenantStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	stats, err := h.balanceService.GetTenantStats(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// registerBalanceRoutes registers read-side routes under one tenant.
func registerBalanceRoutes(group *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	group.GET("/accounts/:accountID/balance", h.getBalance)
	group.GET("/accounts/:accountID/statement", h.getStatement)
	group.GET("/stats", h.getTenantStats)
}

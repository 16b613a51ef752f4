package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/middleware"
)

// allocationHandler handles HTTP requests for ledger write operations.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
	reversalService   portssvc.ReversalSvcFacade
}

// newAllocationHandler creates a new allocationHandler.
func newAllocationHandler(allocationService portssvc.AllocationSvcFacade, reversalService portssvc.ReversalSvcFacade) *allocationHandler {
	return &allocationHandler{
		allocationService: allocationService,
		reversalService:   reversalService,
	}
}

// allocate godoc
// @Summary Grant platform budget to a tenant pool
// @Description Credits the tenant pool account from the Platform root
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   allocation body dto.AllocateRequest true "Allocation"
// @Success 200 {object} dto.ReceiptResponse "Receipt"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{tenantID}/allocations [post]
func (h *allocationHandler) allocate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.AllocateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for allocate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.allocationService.Allocate(c.Request.Context(), actor, tenantID, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// distribute godoc
// @Summary Move tenant pool budget into a department pool
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   distribution body dto.DistributeRequest true "Distribution"
// @Success 200 {object} dto.ReceiptResponse "Receipt"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /tenants/{tenantID}/distributions [post]
func (h *allocationHandler) distribute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.DistributeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for distribute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.allocationService.Distribute(c.Request.Context(), actor, tenantID, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// allocateToEmployee godoc
// @Summary Move department budget into an employee wallet
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   allocation body dto.AllocateToEmployeeRequest true "Employee allocation"
// @Success 200 {object} dto.ReceiptResponse "Receipt"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /tenants/{tenantID}/employee-allocations [post]
func (h *allocationHandler) allocateToEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.AllocateToEmployeeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for allocateToEmployee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.allocationService.AllocateToEmployee(c.Request.Context(), actor, tenantID, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// spend godoc
// @Summary Debit an employee wallet terminally
// @Description Records a redemption; a replayed reference returns the prior receipt
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   spend body dto.SpendRequest true "Spend"
// @Success 200 {object} dto.ReceiptResponse "Receipt"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /tenants/{tenantID}/spends [post]
func (h *allocationHandler) spend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.SpendRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for spend", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.allocationService.Spend(c.Request.Context(), actor, tenantID, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// clawback godoc
// @Summary Reclaim budget from a child account back to its parent
// @Description The amount may not exceed the net value historically sent down this path
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   clawback body dto.ClawbackRequest true "Clawback"
// @Success 200 {object} dto.ReceiptResponse "Receipt"
// @Failure 422 {object} map[string]string "Amount exceeds path history or balance"
// @Router /tenants/{tenantID}/clawbacks [post]
func (h *allocationHandler) clawback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.ClawbackRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for clawback", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.reversalService.Clawback(c.Request.Context(), actor, tenantID, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// reverseEntry godoc
// @Summary Reverse one prior ALLOCATE or DISTRIBUTE entry
// @Description Appends a compensating REVERSAL entry; reversing twice returns the first receipt
// @Tags ledger
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.ReceiptResponse "Receipt"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 422 {object} map[string]string "Entry cannot be reversed"
// @Router /tenants/{tenantID}/entries/{entryID}/reverse [post]
func (h *allocationHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	entryID := c.Param("entryID")

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.reversalService.ReverseEntry(c.Request.Context(), actor, tenantID, entryID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// adjust godoc
// @Summary Apply a platform-initiated manual correction
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   adjustment body dto.AdjustRequest true "Adjustment"
// @Success 200 {object} dto.ReceiptResponse "Receipt"
// @Failure 403 {object} map[string]string "Requires a system actor"
// @Router /tenants/{tenantID}/adjustments [post]
func (h *allocationHandler) adjust(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.AdjustRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for adjust", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.allocationService.Adjust(c.Request.Context(), actor, tenantID, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// registerAllocationRoutes registers ledger write routes under one tenant.
func registerAllocationRoutes(group *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade, reversalService portssvc.ReversalSvcFacade) {
	h := newAllocationHandler(allocationService, reversalService)

	group.POST("/allocations", h.allocate)
	group.POST("/distributions", h.distribute)
	group.POST("/employee-allocations", h.allocateToEmployee)
	group.POST("/spends", h.spend)
	group.POST("/clawbacks", h.clawback)
	group.POST("/adjustments", h.adjust)
	group.POST("/entries/:entryID/reverse", h.reverseEntry)
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/recognizely/points_ledger_backend/internal/core/ports/services"
	"github.com/recognizely/points_ledger_backend/internal/dto"
	"github.com/recognizely/points_ledger_backend/internal/middleware"
)

// tenantHandler handles HTTP requests for the tenant directory.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

// newTenantHandler creates a new tenantHandler.
func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{
		tenantService: tenantService,
	}
}

// createTenant godoc
// @Summary Onboard a tenant
// @Description Creates the tenant, its currency config and its zero-balance pool account
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant body dto.CreateTenantRequest true "Tenant"
// @Success 201 {object} dto.TenantResponse "Created tenant"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateTenantRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, actor.ActorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, tenant)
}

// getTenant godoc
// @Summary Get a tenant by id
// @Tags tenants
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Success 200 {object} domain.Tenant "Tenant"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{tenantID} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// listTenants godoc
// @Summary List tenants
// @Tags tenants
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Success 200 {array} domain.Tenant "Tenants"
// @Router /tenants [get]
func (h *tenantHandler) listTenants(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tenants, err := h.tenantService.ListTenants(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

// createDepartment godoc
// @Summary Create a department under a tenant
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   department body dto.CreateDepartmentRequest true "Department"
// @Success 201 {object} dto.DepartmentResponse "Created department"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{tenantID}/departments [post]
func (h *tenantHandler) createDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.CreateDepartmentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDepartment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	department, err := h.tenantService.CreateDepartment(c.Request.Context(), tenantID, req, actor.ActorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, department)
}

// listDepartments godoc
// @Summary List a tenant's departments
// @Tags tenants
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Success 200 {array} domain.Department "Departments"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{tenantID}/departments [get]
func (h *tenantHandler) listDepartments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	departments, err := h.tenantService.ListDepartments(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// enrollEmployee godoc
// @Summary Enroll an employee and provision their wallet
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   employee body dto.EnrollEmployeeRequest true "Employee"
// @Success 201 {object} dto.EmployeeResponse "Enrolled employee"
// @Failure 404 {object} map[string]string "Department not found"
// @Router /tenants/{tenantID}/employees [post]
func (h *tenantHandler) enrollEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.EnrollEmployeeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for enrollEmployee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	employee, err := h.tenantService.EnrollEmployee(c.Request.Context(), tenantID, req, actor.ActorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// getCurrencyConfig godoc
// @Summary Get a tenant's currency configuration
// @Tags tenants
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Success 200 {object} dto.CurrencyConfigResponse "Currency config"
// @Failure 404 {object} map[string]string "Config not found"
// @Router /tenants/{tenantID}/currency-config [get]
func (h *tenantHandler) getCurrencyConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	config, err := h.tenantService.GetCurrencyConfig(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// updateCurrencyConfig godoc
// @Summary Update a tenant's display currency and/or rate
// @Description The base currency is immutable; stored amounts are denominated in it
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   config body dto.UpdateCurrencyConfigRequest true "Changes"
// @Success 200 {object} dto.CurrencyConfigResponse "Updated config"
// @Failure 404 {object} map[string]string "Config not found"
// @Router /tenants/{tenantID}/currency-config [put]
func (h *tenantHandler) updateCurrencyConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.UpdateCurrencyConfigRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateCurrencyConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	config, err := h.tenantService.UpdateCurrencyConfig(c.Request.Context(), tenantID, req, actor.ActorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// registerTenantRoutes registers tenant directory routes and nests the ledger
// and balance routes under each tenant.
func registerTenantRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTenantHandler(services.Tenant)

	tenants := group.Group("/tenants")
	{
		tenants.POST("", h.createTenant)
		tenants.GET("", h.listTenants)
		tenants.GET("/:tenantID", h.getTenant)
		tenants.POST("/:tenantID/departments", h.createDepartment)
		tenants.GET("/:tenantID/departments", h.listDepartments)
		tenants.POST("/:tenantID/employees", h.enrollEmployee)
		tenants.GET("/:tenantID/currency-config", h.getCurrencyConfig)
		tenants.PUT("/:tenantID/currency-config", h.updateCurrencyConfig)
	}

	perTenant := tenants.Group("/:tenantID")
	registerAllocationRoutes(perTenant, services.Allocation, services.Reversal)
	registerBalanceRoutes(perTenant, services.Balance)
}

package handler

import (
	"net/http"

	"github.com/Asamaludi26/inventory-be/internal/middleware"
	"github.com/Asamaludi26/inventory-be/internal/service"
	"github.com/Asamaludi26/inventory-be/internal/workflow"
	"github.com/Asamaludi26/inventory-be/pkg/pagination"
	"github.com/Asamaludi26/inventory-be/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/audit-logs", middleware.RequireRole(workflow.RoleAdminLogistik, workflow.RoleAdminPurchase, workflow.RoleSuperAdmin))
	{
		audit.GET("", h.GetAuditLogs)
		audit.GET("/entity/:entityId", h.GetEntityTrail)
	}
}

// GetAuditLogs handles GET /audit-logs
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action  query     string  false  "Filter by action"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)
	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), c.Query("action"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch audit logs"))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, params.Page, params.Limit))
}

// GetEntityTrail handles GET /audit-logs/entity/:entityId
// @Summary      Get the audit trail of one request or asset
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        entityId  path      string  true  "Request or asset code"
// @Success      200       {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /audit-logs/entity/{entityId} [get]
func (h *AuditHandler) GetEntityTrail(c *gin.Context) {
	logs, err := h.auditService.GetEntityTrail(c.Request.Context(), c.Param("entityId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch audit trail"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

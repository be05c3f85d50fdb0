package handler

import (
	"net/http"

	"salespoint/internal/middleware"
	"salespoint/internal/model"
	"salespoint/internal/service"
	"salespoint/pkg/pagination"
	"salespoint/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit")
	{
		audit.GET("", middleware.RequireRole(model.RoleAdmin), h.ListEntries)
	}
}

// ListEntries returns paginated audit entries, newest first
// @Summary      List audit entries
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 50)"
// @Param        action  query     string  false  "Filter by action code"
// @Success      200     {object}  response.Response
// @Router       /api/audit [get]
func (h *AuditHandler) ListEntries(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.auditService.ListEntries(c.Request.Context(), c.Query("action"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, params.Page, params.Limit, total))
}

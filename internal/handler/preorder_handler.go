package handler

import (
	"net/http"

	"salespoint/internal/middleware"
	"salespoint/internal/model"
	"salespoint/internal/repository"
	"salespoint/internal/service"
	"salespoint/pkg/pagination"
	"salespoint/pkg/response"

	"github.com/gin-gonic/gin"
)

type PreorderHandler struct {
	preorderService service.PreorderService
}

func NewPreorderHandler(preorderService service.PreorderService) *PreorderHandler {
	return &PreorderHandler{preorderService: preorderService}
}

func (h *PreorderHandler) RegisterRoutes(router *gin.RouterGroup) {
	preorders := router.Group("/api/preorders")
	{
		preorders.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.ListPreorders)
		preorders.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.GetPreorder)
		preorders.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.CreatePreorder)
		preorders.POST("/:id/payments", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.RecordPayment)
	}
}

// ListPreorders returns paginated preorders with product details merged in
// @Summary      List preorders
// @Description  Line items are enriched with product records via a batch lookup; missing products fall back to a placeholder label
// @Tags         preorders
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        unpaid  query     bool    false  "Only preorders with an outstanding balance"
// @Param        sort    query     string  false  "Sort column: created_at, total_amount, client"
// @Param        desc    query     bool    false  "Sort descending"
// @Success      200     {object}  response.Response
// @Router       /api/preorders [get]
func (h *PreorderHandler) ListPreorders(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.PreorderListFilter{
		UnpaidOnly: c.Query("unpaid") == "true",
		SortColumn: c.Query("sort"),
		SortDesc:   c.Query("desc") == "true",
		Page:       params.Page,
		Limit:      params.Limit,
	}

	preorders, total, err := h.preorderService.ListPreorders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, preorders, params.Page, params.Limit, total))
}

// GetPreorder returns one preorder with enriched line items
// @Summary      Get preorder
// @Tags         preorders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Preorder ID"
// @Success      200  {object}  response.Response{data=service.PreorderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/preorders/{id} [get]
func (h *PreorderHandler) GetPreorder(c *gin.Context) {
	preorder, err := h.preorderService.GetPreorder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, preorder))
}

// CreatePreorder creates a preorder from a cart
// @Summary      Create preorder
// @Tags         preorders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePreorderRequest  true  "Preorder payload"
// @Success      201  {object}  response.Response{data=service.PreorderResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/preorders [post]
func (h *PreorderHandler) CreatePreorder(c *gin.Context) {
	var req service.CreatePreorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	preorder, err := h.preorderService.CreatePreorder(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, preorder))
}

// RecordPayment applies a payment against a preorder balance
// @Summary      Record preorder payment
// @Description  Rejected when the amount exceeds the remaining balance
// @Tags         preorders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Preorder ID"
// @Param        payload  body  service.RecordPaymentRequest   true  "Payment payload"
// @Success      200  {object}  response.Response{data=service.PreorderResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/preorders/{id}/payments [post]
func (h *PreorderHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	preorder, err := h.preorderService.RecordPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, preorder))
}

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
	"github.com/google/uuid"
)

type POSHandler struct {
	posService     service.POSService
	paymentService service.PaymentService
}

func NewPOSHandler(posService service.POSService, paymentService service.PaymentService) *POSHandler {
	return &POSHandler{posService: posService, paymentService: paymentService}
}

func (h *POSHandler) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/api/pos")
	{
		pos.POST("/checkout", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.Checkout)
	}

	orders := router.Group("/api/orders")
	{
		orders.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.ListOrders)
		orders.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.GetOrder)
		orders.GET("/:id/payments", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.ListPayments)
		orders.POST("/:id/payments", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.RecordPayment)
	}
}

// Checkout processes a cart into a persisted order, payment and stock moves
// @Summary      POS checkout
// @Description  Persists the order, line items, initial payment and stock deductions in one transaction, then returns the invoice view
// @Tags         pos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CheckoutRequest  true  "Checkout payload"
// @Success      201  {object}  response.Response{data=service.OrderResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/pos/checkout [post]
func (h *POSHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.posService.Checkout(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListOrders returns paginated orders with optional filters
// @Summary      List orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        page             query     int     false  "Page number (default: 1)"
// @Param        limit            query     int     false  "Items per page (default: 20)"
// @Param        payment_status   query     string  false  "Filter: pending, partial, paid"
// @Param        delivery_status  query     string  false  "Filter: pending, awaiting, partial, delivered"
// @Param        code             query     string  false  "Partial order code match"
// @Param        pos_location_id  query     string  false  "Filter by POS location"
// @Success      200              {object}  response.Response
// @Router       /api/orders [get]
func (h *POSHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.OrderListFilter{
		PaymentStatus:  c.Query("payment_status"),
		DeliveryStatus: c.Query("delivery_status"),
		OrderCode:      c.Query("code"),
		Page:           params.Page,
		Limit:          params.Limit,
	}
	if raw := c.Query("pos_location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid pos_location_id"))
			return
		}
		filter.POSLocationID = &id
	}

	orders, total, err := h.posService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, params.Page, params.Limit, total))
}

// GetOrder returns one order with its items, payments and invoice totals
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *POSHandler) GetOrder(c *gin.Context) {
	order, err := h.posService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListPayments returns the payment history of one order
// @Summary      List order payments
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/payments [get]
func (h *POSHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payments))
}

// RecordPayment applies a payment against the order's remaining balance
// @Summary      Record payment
// @Description  Amount must be positive and no greater than the remaining balance; the check runs under a row lock
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Order ID"
// @Param        payload  body  service.RecordPaymentRequest   true  "Payment payload"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/orders/{id}/payments [post]
func (h *POSHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.paymentService.RecordPayment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

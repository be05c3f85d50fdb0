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

type TransferHandler struct {
	transferService service.TransferService
}

func NewTransferHandler(transferService service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	transfers := router.Group("/api/transfers")
	{
		transfers.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ListTransfers)
		transfers.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.GetTransfer)
		transfers.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.CreateTransfer)
	}
}

// ListTransfers returns paginated transfers with optional type filter
// @Summary      List transfers
// @Tags         transfers
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int     false  "Page number (default: 1)"
// @Param        limit  query     int     false  "Items per page (default: 20)"
// @Param        type   query     string  false  "Filter: depot_to_pos, pos_to_depot, depot_to_depot"
// @Success      200    {object}  response.Response
// @Router       /api/transfers [get]
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	params := pagination.Parse(c)

	transfers, total, err := h.transferService.ListTransfers(c.Request.Context(), c.Query("type"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, transfers, params.Page, params.Limit, total))
}

// GetTransfer returns one transfer with its lines
// @Summary      Get transfer
// @Tags         transfers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transfer ID"
// @Success      200  {object}  response.Response{data=service.TransferResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	transfer, err := h.transferService.GetTransfer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transfer))
}

// CreateTransfer executes a stock transfer between two locations
// @Summary      Create transfer
// @Description  Decrements source stock, increments destination stock and adjusts occupancy counters in one transaction
// @Tags         transfers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateTransferRequest  true  "Transfer payload"
// @Success      201  {object}  response.Response{data=service.TransferResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/transfers [post]
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req service.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transfer, err := h.transferService.CreateTransfer(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, transfer))
}

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

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.ListProducts)
		products.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.GetProduct)
		products.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.CreateProduct)
		products.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdateProduct)
		products.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteProduct)
	}

	stock := router.Group("/api/stock")
	{
		stock.GET("/location/:kind/:locationId", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.ListStock)
		stock.GET("/alerts", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ListLowStock)
		stock.POST("/receive", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ReceiveStock)
	}
}

// ListProducts returns paginated products with optional search/category filter
// @Summary      List products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default: 1)"
// @Param        limit     query     int     false  "Items per page (default: 20)"
// @Param        search    query     string  false  "Search by name or reference"
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  response.Response
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := pagination.Parse(c)

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), c.Query("search"), c.Query("category"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, products, params.Page, params.Limit, total))
}

// GetProduct returns one product by id
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// CreateProduct creates a new catalog product
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateProductRequest  true  "Product payload"
// @Success      201  {object}  response.Response{data=service.ProductResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct updates an existing product
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Product ID"
// @Param        payload  body  service.UpdateProductRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct deletes a product (soft delete)
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Product deleted successfully"}))
}

// ListStock returns the stock held at one location
// @Summary      List stock at a location
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        kind        path      string  true  "Location kind: WAREHOUSE or POS"
// @Param        locationId  path      string  true  "Location ID"
// @Param        page        query     int     false  "Page number (default: 1)"
// @Param        limit       query     int     false  "Items per page (default: 50)"
// @Success      200         {object}  response.Response
// @Router       /api/stock/location/{kind}/{locationId} [get]
func (h *CatalogHandler) ListStock(c *gin.Context) {
	params := pagination.Parse(c)

	lines, total, err := h.catalogService.ListStock(c.Request.Context(), c.Param("kind"), c.Param("locationId"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, lines, params.Page, params.Limit, total))
}

// ListLowStock returns stock rows under their product's alert threshold
// @Summary      List low-stock alerts
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/stock/alerts [get]
func (h *CatalogHandler) ListLowStock(c *gin.Context) {
	lines, err := h.catalogService.ListLowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, lines))
}

// ReceiveStock books an inbound supply into a warehouse
// @Summary      Receive stock
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.ReceiveStockRequest  true  "Receipt payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/stock/receive [post]
func (h *CatalogHandler) ReceiveStock(c *gin.Context) {
	var req service.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.catalogService.ReceiveStock(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Stock received"}))
}

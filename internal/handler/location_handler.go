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

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	warehouses := router.Group("/api/warehouses")
	{
		warehouses.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ListWarehouses)
		warehouses.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.GetWarehouse)
		warehouses.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateWarehouse)
		warehouses.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdateWarehouse)
		warehouses.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteWarehouse)
	}

	pos := router.Group("/api/pos-locations")
	{
		pos.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.ListPOSLocations)
		pos.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSeller), h.GetPOSLocation)
		pos.POST("", middleware.RequireRole(model.RoleAdmin), h.CreatePOSLocation)
		pos.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdatePOSLocation)
		pos.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeletePOSLocation)
	}
}

// ListWarehouses returns paginated warehouses with occupancy rates
// @Summary      List warehouses
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20)"
// @Success      200    {object}  response.Response
// @Router       /api/warehouses [get]
func (h *LocationHandler) ListWarehouses(c *gin.Context) {
	params := pagination.Parse(c)

	warehouses, total, err := h.locationService.ListWarehouses(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, warehouses, params.Page, params.Limit, total))
}

// GetWarehouse returns one warehouse by id
// @Summary      Get warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Warehouse ID"
// @Success      200  {object}  response.Response{data=service.WarehouseResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/warehouses/{id} [get]
func (h *LocationHandler) GetWarehouse(c *gin.Context) {
	warehouse, err := h.locationService.GetWarehouseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, warehouse))
}

// CreateWarehouse creates a new warehouse
// @Summary      Create warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateWarehouseRequest  true  "Warehouse payload"
// @Success      201  {object}  response.Response{data=service.WarehouseResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/warehouses [post]
func (h *LocationHandler) CreateWarehouse(c *gin.Context) {
	var req service.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	warehouse, err := h.locationService.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, warehouse))
}

// UpdateWarehouse updates an existing warehouse
// @Summary      Update warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Warehouse ID"
// @Param        payload  body  service.UpdateWarehouseRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.WarehouseResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/warehouses/{id} [put]
func (h *LocationHandler) UpdateWarehouse(c *gin.Context) {
	var req service.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	warehouse, err := h.locationService.UpdateWarehouse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, warehouse))
}

// DeleteWarehouse deletes an empty warehouse
// @Summary      Delete warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Warehouse ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/warehouses/{id} [delete]
func (h *LocationHandler) DeleteWarehouse(c *gin.Context) {
	if err := h.locationService.DeleteWarehouse(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Warehouse deleted successfully"}))
}

// ListPOSLocations returns paginated points of sale with occupancy rates
// @Summary      List points of sale
// @Tags         pos-locations
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20)"
// @Success      200    {object}  response.Response
// @Router       /api/pos-locations [get]
func (h *LocationHandler) ListPOSLocations(c *gin.Context) {
	params := pagination.Parse(c)

	locations, total, err := h.locationService.ListPOSLocations(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, locations, params.Page, params.Limit, total))
}

// GetPOSLocation returns one point of sale by id
// @Summary      Get point of sale
// @Tags         pos-locations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "POS location ID"
// @Success      200  {object}  response.Response{data=service.POSLocationResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/pos-locations/{id} [get]
func (h *LocationHandler) GetPOSLocation(c *gin.Context) {
	location, err := h.locationService.GetPOSLocationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, location))
}

// CreatePOSLocation creates a new point of sale
// @Summary      Create point of sale
// @Tags         pos-locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePOSLocationRequest  true  "POS location payload"
// @Success      201  {object}  response.Response{data=service.POSLocationResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/pos-locations [post]
func (h *LocationHandler) CreatePOSLocation(c *gin.Context) {
	var req service.CreatePOSLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	location, err := h.locationService.CreatePOSLocation(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, location))
}

// UpdatePOSLocation updates an existing point of sale
// @Summary      Update point of sale
// @Tags         pos-locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                            true  "POS location ID"
// @Param        payload  body  service.UpdatePOSLocationRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.POSLocationResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/pos-locations/{id} [put]
func (h *LocationHandler) UpdatePOSLocation(c *gin.Context) {
	var req service.UpdatePOSLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	location, err := h.locationService.UpdatePOSLocation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, location))
}

// DeletePOSLocation deletes an empty point of sale
// @Summary      Delete point of sale
// @Tags         pos-locations
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "POS location ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/pos-locations/{id} [delete]
func (h *LocationHandler) DeletePOSLocation(c *gin.Context) {
	if err := h.locationService.DeletePOSLocation(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Point of sale deleted successfully"}))
}

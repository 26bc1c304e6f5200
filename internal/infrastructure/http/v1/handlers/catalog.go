package handlers

import (
	"github.com/gin-gonic/gin"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
	"stockgap/internal/domain/catalogs/salespoint"
	"stockgap/internal/domain/catalogs/warehouse"
	"stockgap/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves the catalog reads the analysis wizard needs:
// warehouses for the dropdown and their sales points.
type CatalogHandler struct {
	*BaseHandler
	warehouses  *warehouse.Service
	salesPoints salespoint.Repository
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, warehouses *warehouse.Service, salesPoints salespoint.Repository) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		warehouses:  warehouses,
		salesPoints: salesPoints,
	}
}

// RegisterRoutes registers catalog routes.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/warehouses", h.ListWarehouses)
		catalog.GET("/warehouses/:id", h.GetWarehouse)
		catalog.GET("/warehouses/:id/sales-points", h.ListSalesPoints)
	}
}

// ListWarehouses handles GET /catalog/warehouses
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	items, err := h.warehouses.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarehouses(items))
}

// GetWarehouse handles GET /catalog/warehouses/:id
func (h *CatalogHandler) GetWarehouse(c *gin.Context) {
	whID, ok := h.parseWarehouseID(c)
	if !ok {
		return
	}

	wh, err := h.warehouses.Get(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarehouse(wh))
}

// ListSalesPoints handles GET /catalog/warehouses/:id/sales-points
func (h *CatalogHandler) ListSalesPoints(c *gin.Context) {
	whID, ok := h.parseWarehouseID(c)
	if !ok {
		return
	}

	items, err := h.salesPoints.ListByWarehouse(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSalesPoints(items))
}

func (h *CatalogHandler) parseWarehouseID(c *gin.Context) (id.ID, bool) {
	whID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouse id").WithDetail("id", c.Param("id")))
		return id.Nil(), false
	}
	return whID, true
}

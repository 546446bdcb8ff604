package handler

import (
	"errors"
	"net/http"

	"github.com/Asamaludi26/inventory-be/internal/middleware"
	"github.com/Asamaludi26/inventory-be/internal/service"
	"github.com/Asamaludi26/inventory-be/pkg/pagination"
	"github.com/Asamaludi26/inventory-be/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AssetHandler struct {
	assetService service.AssetService
}

func NewAssetHandler(assetService service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/assets", middleware.RequireAuth())
	{
		assets.GET("", h.List)
		assets.GET("/:id", h.Get)
	}
}

// List handles GET /assets
// @Summary      List registered assets
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        category  query     string  false  "Filter by category"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=object}
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	assets, total, err := h.assetService.List(c.Request.Context(), service.AssetFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch assets"))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, assets, total, params.Page, params.Limit))
}

// Get handles GET /assets/:id
// @Summary      Get an asset
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Asset code (AST-001)"
// @Success      200  {object}  response.Response{data=model.Asset}
// @Failure      404  {object}  response.Response
// @Router       /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	asset, err := h.assetService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Asset not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch asset"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

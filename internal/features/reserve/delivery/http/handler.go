package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/features/reserve/service"
)

type ReserveHandler struct {
	service service.ReserveService
}

func NewReserveHandler(service service.ReserveService) *ReserveHandler {
	return &ReserveHandler{service: service}
}

func (h *ReserveHandler) RegisterRoutes(router *gin.RouterGroup) {
	super := router.Group("/reserves")
	super.Use(middleware.RequireRole(middleware.RoleSuperAdmin))
	{
		super.POST("", middleware.Wrap(h.Create))
		super.GET("", middleware.Wrap(h.List))
	}

	reserve := router.Group("/reserves/:reserveId")
	reserve.Use(middleware.RequireReserveAccess())
	{
		reserve.GET("", middleware.Wrap(h.Get))
		reserve.GET("/settings", middleware.Wrap(h.GetSettings))
		reserve.GET("/zones", middleware.Wrap(h.ListZones))
		reserve.PUT("/settings", middleware.RequireAdmin(), middleware.Wrap(h.UpdateSettings))
		reserve.POST("/zones", middleware.RequireAdmin(), middleware.Wrap(h.CreateZone))
	}

	router.PUT("/zones/:id/active", middleware.RequireAdmin(), middleware.Wrap(h.SetZoneActive))
}

// @Summary Create reserve
// @Description Provision a new hunting reserve with default settings (superadmin only)
// @Tags reserves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reserve body models.CreateReserveRequest true "Reserve data"
// @Success 201 {object} models.Reserve
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /reserves [post]
func (h *ReserveHandler) Create(c *gin.Context) {
	var req models.CreateReserveRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	reserve, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, reserve)
}

// @Summary List reserves
// @Tags reserves
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Reserve
// @Router /reserves [get]
func (h *ReserveHandler) List(c *gin.Context) {
	reserves, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reserves)
}

// @Summary Get reserve
// @Tags reserves
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Success 200 {object} models.Reserve
// @Failure 404 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId} [get]
func (h *ReserveHandler) Get(c *gin.Context) {
	reserve, err := h.service.Get(c.Request.Context(), c.Param("reserveId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reserve)
}

// @Summary Get reserve settings
// @Description Silence days, booking window, season bounds and management type
// @Tags reserves
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Success 200 {object} models.Settings
// @Failure 404 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId}/settings [get]
func (h *ReserveHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context(), c.Param("reserveId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// @Summary Update reserve settings
// @Tags reserves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param settings body models.UpdateSettingsRequest true "Fields to change"
// @Success 200 {object} models.Settings
// @Failure 400 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId}/settings [put]
func (h *ReserveHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), c.Param("reserveId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// @Summary List zones
// @Tags zones
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Success 200 {array} models.Zone
// @Router /reserves/{reserveId}/zones [get]
func (h *ReserveHandler) ListZones(c *gin.Context) {
	zones, err := h.service.ListZones(c.Request.Context(), c.Param("reserveId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

// @Summary Create zone
// @Tags zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param zone body models.CreateZoneRequest true "Zone"
// @Success 201 {object} models.Zone
// @Router /reserves/{reserveId}/zones [post]
func (h *ReserveHandler) CreateZone(c *gin.Context) {
	var req models.CreateZoneRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	zone, err := h.service.CreateZone(c.Request.Context(), c.Param("reserveId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

// @Summary Activate or deactivate zone
// @Tags zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Zone ID"
// @Param body body models.ActiveUpdate true "Active flag"
// @Success 200 {object} models.Zone
// @Router /zones/{id}/active [put]
func (h *ReserveHandler) SetZoneActive(c *gin.Context) {
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.ActiveUpdate
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	zone, err := h.service.GetZone(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := middleware.CheckReserve(c, zone.ReserveID); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.SetZoneActive(ctx, id, *req.IsActive); err != nil {
		_ = c.Error(err)
		return
	}

	zone.IsActive = *req.IsActive
	c.JSON(http.StatusOK, zone)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/hunter/mapper"
	"hunting-reserve-backend/internal/features/hunter/models"
	"hunting-reserve-backend/internal/features/hunter/service"
)

type HunterHandler struct {
	service service.HunterService
}

func NewHunterHandler(service service.HunterService) *HunterHandler {
	return &HunterHandler{service: service}
}

func (h *HunterHandler) RegisterRoutes(router *gin.RouterGroup) {
	hunters := router.Group("/hunters")
	{
		hunters.GET("/me", middleware.Wrap(h.GetMe))
	}

	// Admin routes
	admin := router.Group("/hunters")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/:id", middleware.Wrap(h.GetHunter))
		admin.PUT("/:id/lottery-profile", middleware.Wrap(h.UpdateLotteryProfile))
		admin.PUT("/:id/active", middleware.Wrap(h.SetActive))
	}

	router.GET("/reserves/:reserveId/hunters",
		middleware.RequireReserveAccess(), middleware.RequireAdmin(), middleware.Wrap(h.ListByReserve))
}

// @Summary Get current hunter
// @Description Profile of the hunter identified by the bearer token
// @Tags hunters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.HunterResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /hunters/me [get]
func (h *HunterHandler) GetMe(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	hunter, err := h.service.Get(c.Request.Context(), auth.HunterID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToHunterResponse(hunter))
}

// @Summary Get hunter by ID
// @Tags hunters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hunter ID"
// @Success 200 {object} models.HunterResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /hunters/{id} [get]
func (h *HunterHandler) GetHunter(c *gin.Context) {
	hunter, ok := h.loadInReserve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapper.ToHunterResponse(hunter))
}

// @Summary List hunters of a reserve
// @Tags hunters
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Success 200 {array} models.HunterResponse
// @Router /reserves/{reserveId}/hunters [get]
func (h *HunterHandler) ListByReserve(c *gin.Context) {
	hunters, err := h.service.ListByReserve(c.Request.Context(), c.Param("reserveId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToHunterResponses(hunters))
}

// @Summary Update lottery profile
// @Description Set the attributes used for lottery tiering and the quota group
// @Tags hunters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hunter ID"
// @Param profile body models.LotteryProfileUpdate true "Profile fields"
// @Success 200 {object} models.HunterResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /hunters/{id}/lottery-profile [put]
func (h *HunterHandler) UpdateLotteryProfile(c *gin.Context) {
	hunter, ok := h.loadInReserve(c)
	if !ok {
		return
	}

	var req models.LotteryProfileUpdate
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	updated, err := h.service.UpdateLotteryProfile(c.Request.Context(), hunter.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToHunterResponse(updated))
}

// @Summary Activate or deactivate hunter
// @Tags hunters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hunter ID"
// @Param body body models.ActiveUpdate true "Active flag"
// @Success 200 {object} models.HunterResponse
// @Router /hunters/{id}/active [put]
func (h *HunterHandler) SetActive(c *gin.Context) {
	hunter, ok := h.loadInReserve(c)
	if !ok {
		return
	}

	var req models.ActiveUpdate
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.SetActive(c.Request.Context(), hunter.ID, *req.IsActive); err != nil {
		_ = c.Error(err)
		return
	}
	hunter.IsActive = *req.IsActive
	c.JSON(http.StatusOK, mapper.ToHunterResponse(hunter))
}

// loadInReserve fetches the :id hunter and checks the caller administers its
// reserve.
func (h *HunterHandler) loadInReserve(c *gin.Context) (*models.Hunter, bool) {
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}

	hunter, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	if err := middleware.CheckReserve(c, hunter.ReserveID); err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return hunter, true
}

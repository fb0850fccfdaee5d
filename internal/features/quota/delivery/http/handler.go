package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/quota/models"
	"hunting-reserve-backend/internal/features/quota/service"
)

const maxImportSize = 1 << 20

type QuotaHandler struct {
	service service.QuotaService
}

func NewQuotaHandler(service service.QuotaService) *QuotaHandler {
	return &QuotaHandler{service: service}
}

func (h *QuotaHandler) RegisterRoutes(router *gin.RouterGroup) {
	reserve := router.Group("/reserves/:reserveId")
	reserve.Use(middleware.RequireReserveAccess())
	{
		reserve.GET("/quotas", middleware.Wrap(h.List))
		reserve.GET("/quotas/available", middleware.Wrap(h.Available))
		reserve.GET("/group-quotas", middleware.Wrap(h.ListGroup))
	}

	admin := router.Group("/reserves/:reserveId")
	admin.Use(middleware.RequireReserveAccess(), middleware.RequireAdmin())
	{
		admin.POST("/quotas/replace", middleware.Wrap(h.Replace))
		admin.POST("/quotas/import", middleware.Wrap(h.Import))
		admin.POST("/group-quotas/replace", middleware.Wrap(h.ReplaceGroup))
	}

	router.PUT("/quotas/:id/active", middleware.RequireAdmin(), middleware.Wrap(h.SetActive))
	router.PUT("/group-quotas/:id/active", middleware.RequireAdmin(), middleware.Wrap(h.SetGroupActive))
}

// @Summary List regional quotas
// @Tags quotas
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param season query string false "Season filter, e.g. 2024/2025"
// @Success 200 {array} models.QuotaResponse
// @Router /reserves/{reserveId}/quotas [get]
func (h *QuotaHandler) List(c *gin.Context) {
	h.list(c, false)
}

// @Summary List group quotas
// @Tags quotas
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param season query string false "Season filter"
// @Success 200 {array} models.QuotaResponse
// @Router /reserves/{reserveId}/group-quotas [get]
func (h *QuotaHandler) ListGroup(c *gin.Context) {
	h.list(c, true)
}

func (h *QuotaHandler) list(c *gin.Context, group bool) {
	var q models.ListQuery
	if err := middleware.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}

	quotas, err := h.service.List(c.Request.Context(), c.Param("reserveId"), q.Season, group)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, quotas)
}

// @Summary Available quota
// @Description max(0, total - harvested) for a species and category
// @Tags quotas
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param species query string true "Species code"
// @Param category query string true "Category code"
// @Param hunter_group query string false "Hunter group for group quotas"
// @Success 200 {object} models.Availability
// @Failure 404 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId}/quotas/available [get]
func (h *QuotaHandler) Available(c *gin.Context) {
	var q models.AvailabilityQuery
	if err := middleware.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}

	key := models.Key{ReserveID: c.Param("reserveId"), HunterGroup: q.HunterGroup, Species: q.Species, Category: q.Category}
	available, err := h.service.GetAvailable(c.Request.Context(), key)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.Availability{
		ReserveID:   key.ReserveID,
		HunterGroup: key.HunterGroup,
		Species:     key.Species,
		Category:    key.Category,
		Available:   available,
	})
}

// @Summary Replace regional quotas of a species
// @Description Deletes the active rows of the species and inserts the given ones
// @Tags quotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param body body models.ReplaceRequest true "New quotas"
// @Success 200 {array} models.QuotaResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId}/quotas/replace [post]
func (h *QuotaHandler) Replace(c *gin.Context) {
	h.replace(c, false)
}

// @Summary Replace group quotas of a species
// @Tags quotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param body body models.ReplaceRequest true "New quotas, hunter_group required"
// @Success 200 {array} models.QuotaResponse
// @Router /reserves/{reserveId}/group-quotas/replace [post]
func (h *QuotaHandler) ReplaceGroup(c *gin.Context) {
	h.replace(c, true)
}

func (h *QuotaHandler) replace(c *gin.Context, group bool) {
	var req models.ReplaceRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if group && req.HunterGroup == "" {
		_ = c.Error(errors.NewValidationError("hunter_group", "is required for group quotas"))
		return
	}
	if !group {
		req.HunterGroup = ""
	}

	quotas, err := h.service.BulkReplace(c.Request.Context(), c.Param("reserveId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, quotas)
}

// @Summary Import quotas from CSV
// @Description Body is text/csv with rows species,category,total[,notes]. Misspelled species are corrected.
// @Tags quotas
// @Accept plain
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param season query string true "Season the rows belong to"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId}/quotas/import [post]
func (h *QuotaHandler) Import(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	result, err := h.service.ImportCSV(c.Request.Context(), c.Param("reserveId"), c.Query("season"), body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Activate or deactivate a regional quota row
// @Tags quotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quota ID"
// @Param body body models.ActiveUpdate true "Active flag"
// @Success 204
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quotas/{id}/active [put]
func (h *QuotaHandler) SetActive(c *gin.Context) {
	h.setActive(c, false)
}

// @Summary Activate or deactivate a group quota row
// @Tags quotas
// @Accept json
// @Security BearerAuth
// @Param id path int true "Group quota ID"
// @Param body body models.ActiveUpdate true "Active flag"
// @Success 204
// @Router /group-quotas/{id}/active [put]
func (h *QuotaHandler) SetGroupActive(c *gin.Context) {
	h.setActive(c, true)
}

func (h *QuotaHandler) setActive(c *gin.Context, group bool) {
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
	quota, err := h.service.Get(ctx, id, group)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := middleware.CheckReserve(c, quota.ReserveID); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.SetActive(ctx, id, group, *req.IsActive); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/lottery/models"
	"hunting-reserve-backend/internal/features/lottery/service"
)

type LotteryHandler struct {
	service service.LotteryService
}

func NewLotteryHandler(service service.LotteryService) *LotteryHandler {
	return &LotteryHandler{service: service}
}

func (h *LotteryHandler) RegisterRoutes(router *gin.RouterGroup) {
	reserve := router.Group("/reserves/:reserveId/lotteries")
	reserve.Use(middleware.RequireReserveAccess())
	{
		reserve.GET("", middleware.Wrap(h.List))
		reserve.POST("", middleware.RequireAdmin(), middleware.Wrap(h.Create))
	}

	lotteries := router.Group("/lotteries")
	{
		lotteries.GET("/:id", middleware.Wrap(h.Get))
		lotteries.GET("/:id/winners", middleware.Wrap(h.Winners))
		lotteries.POST("/:id/join", middleware.RequireRole(middleware.RoleHunter), middleware.Wrap(h.Join))
		lotteries.DELETE("/:id/join", middleware.RequireRole(middleware.RoleHunter), middleware.Wrap(h.Leave))
		lotteries.POST("/:id/activate", middleware.RequireAdmin(), middleware.Wrap(h.Activate))
		lotteries.GET("/:id/participants", middleware.RequireAdmin(), middleware.Wrap(h.Participants))
		lotteries.POST("/:id/draw", middleware.RequireAdmin(), middleware.Wrap(h.Draw))
	}
}

// @Summary List lotteries
// @Tags lotteries
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param status query string false "Status filter"
// @Success 200 {array} models.Lottery
// @Router /reserves/{reserveId}/lotteries [get]
func (h *LotteryHandler) List(c *gin.Context) {
	var q models.ListQuery
	if err := middleware.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}

	list, err := h.service.ListByReserve(c.Request.Context(), c.Param("reserveId"), models.Status(q.Status))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create lottery
// @Description New lotteries start as draft and must be activated before hunters can join.
// @Tags lotteries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param lottery body models.CreateLotteryRequest true "Lottery"
// @Success 201 {object} models.Lottery
// @Failure 400 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId}/lotteries [post]
func (h *LotteryHandler) Create(c *gin.Context) {
	var req models.CreateLotteryRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	l, err := h.service.Create(c.Request.Context(), c.Param("reserveId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// @Summary Get lottery
// @Tags lotteries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lottery ID"
// @Success 200 {object} models.Lottery
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lotteries/{id} [get]
func (h *LotteryHandler) Get(c *gin.Context) {
	l, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary Activate lottery
// @Tags lotteries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lottery ID"
// @Success 200 {object} models.Lottery
// @Failure 409 {object} middleware.ErrorResponse
// @Router /lotteries/{id}/activate [post]
func (h *LotteryHandler) Activate(c *gin.Context) {
	l, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	activated, err := h.service.Activate(c.Request.Context(), l.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, activated)
}

// @Summary Join lottery
// @Tags lotteries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lottery ID"
// @Success 201 {object} models.Participant
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /lotteries/{id}/join [post]
func (h *LotteryHandler) Join(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.service.Join(c.Request.Context(), id, auth.HunterID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Leave lottery
// @Tags lotteries
// @Security BearerAuth
// @Param id path int true "Lottery ID"
// @Success 204
// @Failure 422 {object} middleware.ErrorResponse
// @Router /lotteries/{id}/join [delete]
func (h *LotteryHandler) Leave(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Leave(c.Request.Context(), id, auth.HunterID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List participants
// @Tags lotteries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lottery ID"
// @Success 200 {array} models.Participant
// @Router /lotteries/{id}/participants [get]
func (h *LotteryHandler) Participants(c *gin.Context) {
	l, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	list, err := h.service.Participants(c.Request.Context(), l.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Draw winners
// @Description Ranks participants by tier, shuffles each tier and assigns the available spots. Runs once per lottery.
// @Tags lotteries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lottery ID"
// @Success 200 {object} models.DrawResult
// @Failure 409 {object} middleware.ErrorResponse
// @Router /lotteries/{id}/draw [post]
func (h *LotteryHandler) Draw(c *gin.Context) {
	l, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.service.Draw(c.Request.Context(), l.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary List winners
// @Tags lotteries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lottery ID"
// @Success 200 {array} models.Participant
// @Router /lotteries/{id}/winners [get]
func (h *LotteryHandler) Winners(c *gin.Context) {
	l, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	list, err := h.service.Winners(c.Request.Context(), l.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *LotteryHandler) load(c *gin.Context) (*models.Lottery, error) {
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		return nil, err
	}
	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := middleware.CheckReserve(c, l.ReserveID); err != nil {
		return nil, err
	}
	return l, nil
}

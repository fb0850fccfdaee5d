package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/i18n"
	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/reservation/models"
	"hunting-reserve-backend/internal/features/reservation/service"
)

type ReservationHandler struct {
	service service.ReservationService
}

func NewReservationHandler(service service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) RegisterRoutes(router *gin.RouterGroup) {
	reservations := router.Group("/reservations")
	{
		reservations.POST("/check", middleware.Wrap(h.Check))
		reservations.POST("", middleware.Wrap(h.Create))
		reservations.GET("/mine", middleware.Wrap(h.ListMine))
		reservations.POST("/holds", middleware.Wrap(h.Hold))
		reservations.DELETE("/holds", middleware.Wrap(h.Release))
		reservations.GET("/:id", middleware.Wrap(h.Get))
		reservations.POST("/:id/cancel", middleware.Wrap(h.Cancel))
		reservations.POST("/:id/report", middleware.Wrap(h.SubmitReport))
	}

	router.GET("/reserves/:reserveId/reservations",
		middleware.RequireReserveAccess(), middleware.RequireAdmin(), middleware.Wrap(h.ListByReserve))

	reports := router.Group("/reports")
	reports.Use(middleware.RequireAdmin())
	{
		reports.GET("/:id", middleware.Wrap(h.GetReport))
		reports.DELETE("/:id", middleware.Wrap(h.DeleteReport))
	}
}

// @Summary Check booking eligibility
// @Description Runs every booking check without reserving anything. Denials are returned as a decision, not an error.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Accept-Language header string false "Language of the denial message"
// @Param reservation body models.ReservationRequest true "Booking to check"
// @Success 200 {object} models.Decision
// @Failure 400 {object} middleware.ErrorResponse
// @Router /reservations/check [post]
func (h *ReservationHandler) Check(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.ReservationRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	decision, err := h.service.Check(c.Request.Context(), auth.HunterID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !decision.Allowed {
		if msg := i18n.Message(i18n.Resolve(c.GetHeader("Accept-Language")), decision.Code); msg != "" {
			decision.Message = msg
		}
	}
	c.JSON(http.StatusOK, decision)
}

// @Summary Book a zone
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reservation body models.ReservationRequest true "Booking"
// @Success 201 {object} models.Reservation
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.ReservationRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), auth.HunterID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary List my reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param date query string false "Hunt date (YYYY-MM-DD)"
// @Param status query string false "Status filter"
// @Success 200 {array} models.Reservation
// @Router /reservations/mine [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var q models.ListQuery
	if err := middleware.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}

	list, err := h.service.ListMine(c.Request.Context(), auth.HunterID, &q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary List reserve reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param date query string false "Hunt date (YYYY-MM-DD)"
// @Param status query string false "Status filter"
// @Success 200 {array} models.Reservation
// @Router /reserves/{reserveId}/reservations [get]
func (h *ReservationHandler) ListByReserve(c *gin.Context) {
	var q models.ListQuery
	if err := middleware.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}

	list, err := h.service.ListByReserve(c.Request.Context(), c.Param("reserveId"), &q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} models.Reservation
// @Failure 404 {object} middleware.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	res, _, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Cancel reservation
// @Description Owners cancel their own bookings; reserve admins may cancel any.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} models.Reservation
// @Failure 409 {object} middleware.ErrorResponse
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	res, auth, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), res.ID, auth.HunterID, auth.IsAdmin())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// @Summary Report hunt outcome
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Param report body models.ReportRequest true "Outcome"
// @Success 201 {object} models.HuntReport
// @Failure 409 {object} middleware.ErrorResponse
// @Router /reservations/{id}/report [post]
func (h *ReservationHandler) SubmitReport(c *gin.Context) {
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
	var req models.ReportRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	report, err := h.service.SubmitReport(c.Request.Context(), id, auth.HunterID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// @Summary Get hunt report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} models.HuntReport
// @Router /reports/{id} [get]
func (h *ReservationHandler) GetReport(c *gin.Context) {
	report, err := h.loadReport(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Delete hunt report
// @Description Reopens the reservation and gives a harvest back to the quota ledgers.
// @Tags reports
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 204
// @Router /reports/{id} [delete]
func (h *ReservationHandler) DeleteReport(c *gin.Context) {
	report, err := h.loadReport(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.DeleteReport(c.Request.Context(), report.ID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Hold a zone slot or a quota category
// @Description Short-lived hold while the hunter completes a booking.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param hold body models.HoldRequest true "Hold"
// @Success 201 {object} models.Hold
// @Failure 409 {object} middleware.ErrorResponse
// @Router /reservations/holds [post]
func (h *ReservationHandler) Hold(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.HoldRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	hold, err := h.service.Hold(c.Request.Context(), auth.HunterID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, hold)
}

// @Summary Release a hold
// @Tags reservations
// @Accept json
// @Security BearerAuth
// @Param hold body models.HoldRequest true "Hold"
// @Success 204
// @Router /reservations/holds [delete]
func (h *ReservationHandler) Release(c *gin.Context) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.HoldRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Release(c.Request.Context(), auth.HunterID, &req); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// load fetches the reservation named by :id. Hunters only see their own,
// admins every reservation of their reserve.
func (h *ReservationHandler) load(c *gin.Context) (*models.Reservation, middleware.AuthContext, error) {
	auth, err := middleware.MustAuth(c)
	if err != nil {
		return nil, auth, err
	}
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		return nil, auth, err
	}
	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		return nil, auth, err
	}
	if err := middleware.CheckReserve(c, res.ReserveID); err != nil {
		return nil, auth, err
	}
	if !auth.IsAdmin() && res.HunterID != auth.HunterID {
		return nil, auth, errors.NewForbiddenError("reservation belongs to another hunter")
	}
	return res, auth, nil
}

func (h *ReservationHandler) loadReport(c *gin.Context) (*models.HuntReport, error) {
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		return nil, err
	}
	report, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := middleware.CheckReserve(c, report.ReserveID); err != nil {
		return nil, err
	}
	return report, nil
}

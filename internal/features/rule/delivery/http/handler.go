package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/features/rule/service"
)

type RuleHandler struct {
	service service.RuleService
}

func NewRuleHandler(service service.RuleService) *RuleHandler {
	return &RuleHandler{service: service}
}

func (h *RuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	reserve := router.Group("/reserves/:reserveId/rules")
	reserve.Use(middleware.RequireReserveAccess())
	{
		reserve.GET("", middleware.Wrap(h.List))
		reserve.POST("", middleware.RequireAdmin(), middleware.Wrap(h.Create))
	}

	rules := router.Group("/rules")
	rules.Use(middleware.RequireAdmin())
	{
		rules.GET("/:id", middleware.Wrap(h.Get))
		rules.PUT("/:id", middleware.Wrap(h.Update))
		rules.PUT("/:id/active", middleware.Wrap(h.SetActive))
		rules.DELETE("/:id", middleware.Wrap(h.Delete))
	}
}

// @Summary List reserve rules
// @Description All rules of a reserve, or only active ones in evaluation order
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param active query bool false "Only active rules"
// @Param type query string false "Rule type filter"
// @Success 200 {array} models.Rule
// @Router /reserves/{reserveId}/rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	var q models.ListQuery
	if err := middleware.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	reserveID := c.Param("reserveId")
	ruleType := models.RuleType(q.RuleType)

	var (
		rules []*models.Rule
		err   error
	)
	if q.ActiveOnly {
		rules, err = h.service.ListActiveRules(ctx, reserveID, ruleType)
	} else {
		rules, err = h.service.List(ctx, reserveID)
		rules = filterType(rules, ruleType)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	if rules == nil {
		rules = []*models.Rule{}
	}
	c.JSON(http.StatusOK, rules)
}

// @Summary Create rule
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reserveId path string true "Reserve ID"
// @Param rule body models.RuleRequest true "Rule"
// @Success 201 {object} models.Rule
// @Failure 400 {object} middleware.ErrorResponse
// @Router /reserves/{reserveId}/rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	var req models.RuleRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	rule, err := h.service.Create(c.Request.Context(), c.Param("reserveId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// @Summary Get rule
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 200 {object} models.Rule
// @Failure 404 {object} middleware.ErrorResponse
// @Router /rules/{id} [get]
func (h *RuleHandler) Get(c *gin.Context) {
	rule, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// @Summary Replace rule
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Param rule body models.RuleRequest true "Rule"
// @Success 200 {object} models.Rule
// @Failure 400 {object} middleware.ErrorResponse
// @Router /rules/{id} [put]
func (h *RuleHandler) Update(c *gin.Context) {
	rule, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.RuleRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), rule.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Activate or deactivate rule
// @Tags rules
// @Accept json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Param body body models.ActiveUpdate true "Active flag"
// @Success 204
// @Router /rules/{id}/active [put]
func (h *RuleHandler) SetActive(c *gin.Context) {
	rule, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.ActiveUpdate
	if err := middleware.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.SetActive(c.Request.Context(), rule.ID, *req.IsActive); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete rule
// @Tags rules
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 204
// @Router /rules/{id} [delete]
func (h *RuleHandler) Delete(c *gin.Context) {
	rule, err := h.load(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), rule.ID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// load fetches the rule named by :id and checks it belongs to the caller's reserve.
func (h *RuleHandler) load(c *gin.Context) (*models.Rule, error) {
	id, err := middleware.ParamInt64(c, "id")
	if err != nil {
		return nil, err
	}
	rule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := middleware.CheckReserve(c, rule.ReserveID); err != nil {
		return nil, err
	}
	return rule, nil
}

func filterType(rules []*models.Rule, ruleType models.RuleType) []*models.Rule {
	if ruleType == "" {
		return rules
	}
	out := rules[:0:0]
	for _, r := range rules {
		if r.RuleType == ruleType {
			out = append(out, r)
		}
	}
	return out
}

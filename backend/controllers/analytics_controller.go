package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"university/backend/models"
	"university/backend/utils"
)

type AnalyticsController struct {
	Deps
}

func NewAnalyticsController(deps Deps) *AnalyticsController {
	return &AnalyticsController{Deps: deps}
}

// GetOverview godoc
// @Summary Platform overview
// @Description Student, course, enrollment and payment totals with per-course seat and fee figures
// @Tags analytics
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /analytics/overview [get]
func (ac *AnalyticsController) GetOverview(c *fiber.Ctx) error {
	overview, err := ac.Svc.Overview()
	if err != nil {
		return ac.fail(c, err, "Failed to build overview")
	}
	return utils.OK(c, "", overview)
}

// GetRevenue godoc
// @Summary Revenue report
// @Description Completed payments per day and per method; defaults to the last month
// @Tags analytics
// @Produce json
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /analytics/revenue [get]
func (ac *AnalyticsController) GetRevenue(c *fiber.Ctx) error {
	now := time.Now().UTC()

	// Последний месяц по умолчанию
	start := now.AddDate(0, -1, 0)
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return utils.BadRequest(c, "Invalid start_date format. Use YYYY-MM-DD")
		}
		start = t
	}

	end := now
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return utils.BadRequest(c, "Invalid end_date format. Use YYYY-MM-DD")
		}
		end = t
	}

	report, err := ac.Svc.Revenue(start, end)
	if err != nil {
		return ac.fail(c, err, "Failed to build revenue report")
	}
	return utils.OK(c, "", report)
}

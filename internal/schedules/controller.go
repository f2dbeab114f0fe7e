package schedules

import (
	"net/http"
	"time"

	"busly/internal/shared/apperror"
	"busly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

type searchParams struct {
	Source      string `form:"source"`
	Destination string `form:"destination"`
	Date        string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// SearchSchedules godoc
// @Summary      Search schedules
// @Tags         schedules
// @Produce      json
// @Param        source       query string false "Origin city"
// @Param        destination  query string false "Destination city"
// @Param        date         query string false "Travel date (YYYY-MM-DD)"
// @Success      200 {object} response.StandardApiResponse
// @Router       /schedules [get]
func (c *Controller) SearchSchedules(ctx *gin.Context) {
	var params searchParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.RespondBindError(ctx, "Invalid search parameters", err)
		return
	}

	q := SearchQuery{
		Source:      params.Source,
		Destination: params.Destination,
		Limit:       params.Limit,
	}
	if params.Date != "" {
		day, _ := time.Parse("2006-01-02", params.Date)
		q.From = day
		q.To = day.Add(24 * time.Hour)
	}

	result, err := c.service.SearchSchedules(ctx.Request.Context(), q)
	if err != nil {
		response.RespondError(ctx, err, "Failed to search schedules")
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Schedules retrieved successfully", result)
}

// GetSchedule godoc
// @Summary      Get a schedule with route and bus
// @Tags         schedules
// @Produce      json
// @Param        id  path string true "Schedule ID"
// @Success      200 {object} response.StandardApiResponse
// @Failure      404 {object} response.StandardApiResponse
// @Router       /schedules/{id} [get]
func (c *Controller) GetSchedule(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	schedule, err := c.service.GetSchedule(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err, "Failed to load schedule")
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// GetSeatAvailability godoc
// @Summary      Seats already taken on a schedule
// @Tags         schedules
// @Produce      json
// @Param        id  path string true "Schedule ID"
// @Success      200 {object} response.StandardApiResponse
// @Router       /schedules/{id}/seats [get]
func (c *Controller) GetSeatAvailability(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	availability, err := c.service.GetSeatAvailability(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err, "Failed to load seat availability")
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Seat availability retrieved successfully", availability)
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("Invalid schedule ID"), "Invalid schedule ID")
		return uuid.Nil, false
	}
	return id, true
}

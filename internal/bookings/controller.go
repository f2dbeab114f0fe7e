package bookings

import (
	"errors"
	"io"
	"net/http"

	"busly/internal/shared/apperror"
	"busly/internal/shared/middleware"
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

// CreateBooking godoc
// @Summary      Book seats on a schedule
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body CreateBookingRequest true "Booking request"
// @Success      201 {object} response.StandardApiResponse{data=BookingResponse}
// @Failure      400 {object} response.StandardApiResponse
// @Failure      404 {object} response.StandardApiResponse
// @Router       /bookings [post]
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.RespondError(ctx, apperror.Validation(msgFieldsRequired), msgFieldsRequired)
			return
		}
		response.RespondBindError(ctx, "Invalid request body", err)
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, &req)
	if err != nil {
		response.RespondError(ctx, err, "Failed to create booking")
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Booking created successfully", ToBookingResponse(booking))
}

// GetUserBookings godoc
// @Summary      List a user's bookings, newest first
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        userId path  string true  "User ID"
// @Param        status query string false "confirmed or cancelled"
// @Param        limit  query int    false "Page size (max 100); omit to return every booking"
// @Param        offset query int    false "Rows to skip"
// @Success      200 {object} response.StandardApiResponse{data=[]BookingResponse}
// @Failure      403 {object} response.StandardApiResponse
// @Router       /bookings/user/{userId} [get]
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	callerID, ok := currentUser(ctx)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("Invalid user ID"), "Invalid user ID")
		return
	}

	var params ListBookingsParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.RespondBindError(ctx, "Invalid query parameters", err)
		return
	}

	list, err := c.service.GetUserBookings(ctx.Request.Context(), callerID, targetID, ListQuery{
		Status: Status(params.Status),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		response.RespondError(ctx, err, "Failed to get user bookings")
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Bookings retrieved successfully", ToBookingResponses(list))
}

// GetBooking godoc
// @Summary      Get one booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} response.StandardApiResponse{data=BookingResponse}
// @Failure      403 {object} response.StandardApiResponse
// @Failure      404 {object} response.StandardApiResponse
// @Router       /bookings/{id} [get]
func (c *Controller) GetBooking(ctx *gin.Context) {
	callerID, bookingID, ok := bookingParams(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), callerID, bookingID)
	if err != nil {
		response.RespondError(ctx, err, "Failed to get booking")
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Booking retrieved successfully", ToBookingResponse(booking))
}

// CancelBooking godoc
// @Summary      Cancel a booking and quote the refund
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true  "Booking ID"
// @Param        body body CancelBookingRequest false "Cancellation reason"
// @Success      200 {object} response.StandardApiResponse{data=CancelBookingResponse}
// @Failure      400 {object} response.StandardApiResponse
// @Failure      403 {object} response.StandardApiResponse
// @Failure      404 {object} response.StandardApiResponse
// @Router       /bookings/{id}/cancel [post]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	callerID, bookingID, ok := bookingParams(ctx)
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondBindError(ctx, "Invalid request body", err)
		return
	}

	booking, refund, err := c.service.CancelBooking(ctx.Request.Context(), callerID, bookingID, req.Reason)
	if err != nil {
		response.RespondError(ctx, err, "Failed to cancel booking")
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Booking cancelled successfully", CancelBookingResponse{
		Booking: ToBookingResponse(booking),
		Refund:  *refund,
	})
}

// DownloadTicket godoc
// @Summary      Download the PDF e-ticket of a confirmed booking
// @Tags         bookings
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {file} binary
// @Failure      400 {object} response.StandardApiResponse
// @Router       /bookings/{id}/ticket [get]
func (c *Controller) DownloadTicket(ctx *gin.Context) {
	callerID, bookingID, ok := bookingParams(ctx)
	if !ok {
		return
	}

	pdf, filename, err := c.service.RenderTicket(ctx.Request.Context(), callerID, bookingID)
	if err != nil {
		response.RespondError(ctx, err, "Failed to render ticket")
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}

func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, apperror.Unauthorized("User not authenticated"), "User not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func bookingParams(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	callerID, ok := currentUser(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("Invalid booking ID"), "Invalid booking ID")
		return uuid.Nil, uuid.Nil, false
	}
	return callerID, bookingID, true
}

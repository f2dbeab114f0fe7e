package auth

import (
	"errors"
	"net/http"

	"busly/internal/shared/middleware"
	"busly/internal/shared/utils/response"
	"busly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
	logger    *logger.Logger
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
		logger:    logger.GetDefault(),
	}
}

// bind decodes and validates a JSON body, writing the 400 itself on failure
func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondBindError(ctx, "Invalid request body", err)
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondBindError(ctx, "Validation failed", err)
		return false
	}
	return true
}

func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserAlreadyExists):
			response.RespondFailure(ctx, http.StatusConflict, "User with this email already exists")
		default:
			c.logger.LogHTTPError(ctx, err, http.StatusInternalServerError)
			response.RespondFailure(ctx, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "User registered successfully", resp)
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.logger.LogAuthFailure(ctx.Request.Context(), "invalid credentials", ctx.ClientIP())
			response.RespondFailure(ctx, http.StatusUnauthorized, "Invalid email or password")
		default:
			c.logger.LogHTTPError(ctx, err, http.StatusInternalServerError)
			response.RespondFailure(ctx, http.StatusInternalServerError, "Failed to login")
		}
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Login successful", resp)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}

	tokenPair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUserNotFound):
			response.RespondFailure(ctx, http.StatusUnauthorized, "Invalid or expired refresh token")
		default:
			c.logger.LogHTTPError(ctx, err, http.StatusInternalServerError)
			response.RespondFailure(ctx, http.StatusInternalServerError, "Failed to refresh token")
		}
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Token refreshed successfully", tokenPair)
}

func (c *Controller) ChangePassword(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondFailure(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req ChangePasswordRequest
	if !c.bind(ctx, &req) {
		return
	}

	err := c.service.ChangePassword(ctx.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.RespondFailure(ctx, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, ErrUserNotFound):
			response.RespondFailure(ctx, http.StatusNotFound, "User not found")
		default:
			c.logger.LogHTTPError(ctx, err, http.StatusInternalServerError)
			response.RespondFailure(ctx, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Password changed successfully", nil)
}

func (c *Controller) GetMe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondFailure(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := c.service.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.RespondFailure(ctx, http.StatusNotFound, "User not found")
			return
		}
		c.logger.LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondFailure(ctx, http.StatusInternalServerError, "Failed to load user")
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "User data retrieved successfully", profile)
}

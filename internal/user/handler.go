package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CeliaIneza/celebstash-back/internal/api"
	"github.com/CeliaIneza/celebstash-back/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Register new user
// @Description  Creates a pending account and emails a verification code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.RegisterRequest true "Registration payload"
// @Success      201 {object} user.AuthResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{User: u})
}

// @Summary      Verify signup OTP
// @Description  Verifies the emailed code, activates the account and returns tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.VerifyOTPRequest true "Verification payload"
// @Success      200 {object} user.AuthResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/verify-otp [post]
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	u, accessToken, refreshToken, err := h.service.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrOTPInvalid):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid or expired code"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unknown account"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to verify code"})
		}
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: u, AccessToken: accessToken, RefreshToken: refreshToken})
}

// @Summary      Resend signup OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.ResendOTPRequest true "Resend payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      429 {object} api.ErrorResponse
// @Router       /auth/resend-otp [post]
func (h *Handler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.ResendOTP(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, auth.ErrOTPRateLimited):
			c.JSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "Too many codes requested, try again later"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Unknown account"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to resend code"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Verification code sent"})
}

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.LoginRequest true "Login payload"
// @Success      200 {object} user.AuthResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	u, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountNotVerified):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Verify your email before logging in"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid email or password"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to login"})
		}
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: u, AccessToken: accessToken, RefreshToken: refreshToken})
}

// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.RefreshRequest true "Refresh payload"
// @Success      200 {object} user.AuthResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	accessToken, u, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: u, AccessToken: accessToken})
}

// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} user.User
// @Failure      401 {object} api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, u)
}

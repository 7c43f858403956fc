package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/services"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Email and password required")
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerLogin):
			utils.SendForbidden(c, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrPasswordNotSet):
			utils.SendUnauthorized(c, err.Error())
		default:
			utils.SendInternalError(c, "Login failed", err)
		}
		return
	}

	utils.SendSuccess(c, "Logged in", result)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		Token    string                   `json:"token"`
		UserInfo *services.GoogleUserInfo `json:"user_info"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Token == "" && req.UserInfo == nil) {
		utils.SendValidationError(c, "Token required")
		return
	}

	result, err := h.authService.GoogleLogin(req.Token, req.UserInfo)
	if err != nil {
		if errors.Is(err, services.ErrGoogleAuthFailed) {
			utils.SendUnauthorized(c, err.Error())
			return
		}
		utils.SendInternalError(c, "Google auth failed", err)
		return
	}

	utils.SendSuccess(c, "Logged in", result)
}

func (h *AuthHandler) GoogleIDTokenLogin(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "id_token required")
		return
	}

	result, err := h.authService.GoogleIDTokenLogin(req.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrGoogleAuthFailed) {
			utils.SendUnauthorized(c, err.Error())
			return
		}
		utils.SendInternalError(c, "Google auth failed", err)
		return
	}

	utils.SendSuccess(c, "Logged in", result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		utils.SendUnauthorized(c, "User not found")
		return
	}

	utils.SendSuccess(c, "Profile", user)
}

func (h *AuthHandler) RegisterBrandOwner(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		BrandID  string `json:"brand_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "name, email, password required")
		return
	}
	if !utils.IsValidEmail(req.Email) {
		utils.SendValidationError(c, "Invalid email")
		return
	}
	if !utils.IsValidPassword(req.Password) {
		utils.SendValidationError(c, "Password must be at least 8 characters")
		return
	}

	var brandID *uuid.UUID
	if req.BrandID != "" {
		parsed, err := uuid.Parse(req.BrandID)
		if err != nil {
			utils.SendValidationError(c, "Invalid brand_id")
			return
		}
		brandID = &parsed
	}

	user, err := h.authService.RegisterBrandOwner(req.Name, req.Email, req.Password, brandID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to register brand owner", err)
		return
	}

	utils.SendCreated(c, "Brand owner registered", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

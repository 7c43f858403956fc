package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewrise/reviewrise-backend/internal/services"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

type VerifyHandler struct {
	verificationService *services.VerificationService
}

func NewVerifyHandler(verificationService *services.VerificationService) *VerifyHandler {
	return &VerifyHandler{verificationService: verificationService}
}

func (h *VerifyHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "brand_id required")
		return
	}

	result, err := h.verificationService.CreateSession(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIneligibleRating):
			utils.SendError(c, http.StatusBadRequest, "Only 4-5 star reviews qualify for rewards", nil)
		case errors.Is(err, services.ErrBrandNotFound):
			utils.SendNotFound(c, "Brand not found")
		case errors.Is(err, services.ErrBrandNotConfigured):
			utils.SendError(c, http.StatusBadRequest, "Brand is not set up for review verification", nil)
		case errors.Is(err, services.ErrUserNotFound):
			utils.SendUnauthorized(c, "User not found")
		default:
			utils.SendInternalError(c, "Failed to create session", err)
		}
		return
	}

	utils.SendSuccess(c, "Verification session created", result)
}

func (h *VerifyHandler) PollSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathUUID(c, "session_id")
	if !ok {
		return
	}

	result, err := h.verificationService.PollSession(c.Request.Context(), sessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			utils.SendNotFound(c, "Session not found")
		case errors.Is(err, services.ErrForbidden):
			utils.SendForbidden(c, "Forbidden")
		default:
			utils.SendInternalError(c, "Failed to poll session", err)
		}
		return
	}

	utils.SendSuccess(c, "Session status", result)
}

func (h *VerifyHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.PrivateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "brand_id and stars required")
		return
	}

	feedback, err := h.verificationService.SubmitPrivateFeedback(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIneligibleRating):
			utils.SendError(c, http.StatusBadRequest, "Private feedback is for 1-3 star ratings", nil)
		case errors.Is(err, services.ErrBrandNotFound):
			utils.SendNotFound(c, "Brand not found")
		default:
			utils.SendInternalError(c, "Failed to save feedback", err)
		}
		return
	}

	utils.SendSuccess(c, "Feedback received", feedback)
}

func (h *VerifyHandler) GetBrandReviews(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}
	reviews, err := h.verificationService.ListBrandReviews(brandID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch reviews", err)
		return
	}
	utils.SendSuccess(c, "Reviews retrieved", reviews)
}

func (h *VerifyHandler) MarkReviewReplied(c *gin.Context) {
	reviewID, ok := pathUUID(c, "review_id")
	if !ok {
		return
	}
	if err := h.verificationService.MarkReviewReplied(reviewID); err != nil {
		utils.SendInternalError(c, "Failed to update review", err)
		return
	}
	utils.SendSuccess(c, "Review marked as replied", nil)
}

func (h *VerifyHandler) GetBrandFeedback(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}
	feedback, err := h.verificationService.ListBrandFeedback(brandID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch feedback", err)
		return
	}
	utils.SendSuccess(c, "Feedback retrieved", feedback)
}

func (h *VerifyHandler) MarkFeedbackRead(c *gin.Context) {
	feedbackID, ok := pathUUID(c, "feedback_id")
	if !ok {
		return
	}
	if err := h.verificationService.MarkFeedbackRead(feedbackID); err != nil {
		utils.SendInternalError(c, "Failed to update feedback", err)
		return
	}
	utils.SendSuccess(c, "Feedback marked as read", nil)
}

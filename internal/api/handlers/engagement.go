package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/services"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

type EngagementHandler struct {
	engagementService *services.EngagementService
}

func NewEngagementHandler(engagementService *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

// Ads

func (h *EngagementHandler) ListActiveAds(c *gin.Context) {
	ads, err := h.engagementService.ListActiveAds()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch ads", err)
		return
	}
	utils.SendSuccess(c, "Ads retrieved", ads)
}

func (h *EngagementHandler) ListAllAds(c *gin.Context) {
	ads, err := h.engagementService.ListAllAds()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch ads", err)
		return
	}
	utils.SendSuccess(c, "Ads retrieved", ads)
}

func (h *EngagementHandler) CreateAd(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "brand_id and title required")
		return
	}

	ad, err := h.engagementService.CreateAd(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrBrandNotFound) {
			utils.SendNotFound(c, "Brand not found")
			return
		}
		utils.SendInternalError(c, "Failed to create ad", err)
		return
	}
	utils.SendCreated(c, "Ad created", ad)
}

func (h *EngagementHandler) ToggleAd(c *gin.Context) {
	adID, ok := pathUUID(c, "ad_id")
	if !ok {
		return
	}
	ad, err := h.engagementService.ToggleAd(adID)
	if err != nil {
		if errors.Is(err, services.ErrAdNotFound) {
			utils.SendNotFound(c, "Ad not found")
			return
		}
		utils.SendInternalError(c, "Failed to toggle ad", err)
		return
	}
	utils.SendSuccess(c, "Ad updated", ad)
}

func (h *EngagementHandler) RecordAdView(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	adID, ok := pathUUID(c, "ad_id")
	if !ok {
		return
	}

	result, err := h.engagementService.RecordAdView(userID, c.GetString("user_name"), adID)
	if err != nil {
		if errors.Is(err, services.ErrAdNotFound) {
			utils.SendNotFound(c, "Ad not found")
			return
		}
		utils.SendInternalError(c, "Failed to record ad view", err)
		return
	}
	utils.SendSuccess(c, "Ad view recorded", result)
}

// Banners

func (h *EngagementHandler) ListActiveBanners(c *gin.Context) {
	banners, err := h.engagementService.ListActiveBanners()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch banners", err)
		return
	}
	utils.SendSuccess(c, "Banners retrieved", banners)
}

func (h *EngagementHandler) ListAllBanners(c *gin.Context) {
	banners, err := h.engagementService.ListAllBanners()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch banners", err)
		return
	}
	utils.SendSuccess(c, "Banners retrieved", banners)
}

func (h *EngagementHandler) CreateBanner(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "brand_id and title required")
		return
	}

	banner, err := h.engagementService.CreateBanner(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrBrandNotFound) {
			utils.SendNotFound(c, "Brand not found")
			return
		}
		utils.SendInternalError(c, "Failed to create banner", err)
		return
	}
	utils.SendCreated(c, "Banner created", banner)
}

func (h *EngagementHandler) ToggleBanner(c *gin.Context) {
	bannerID, ok := pathUUID(c, "banner_id")
	if !ok {
		return
	}
	banner, err := h.engagementService.ToggleBanner(bannerID)
	if err != nil {
		if errors.Is(err, services.ErrBannerNotFound) {
			utils.SendNotFound(c, "Banner not found")
			return
		}
		utils.SendInternalError(c, "Failed to toggle banner", err)
		return
	}
	utils.SendSuccess(c, "Banner updated", banner)
}

// QR codes

func (h *EngagementHandler) ListQRCodes(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}
	codes, err := h.engagementService.ListQRCodes(brandID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch QR codes", err)
		return
	}
	utils.SendSuccess(c, "QR codes retrieved", codes)
}

func (h *EngagementHandler) CreateQRCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		BrandID    string `json:"brand_id" binding:"required"`
		TableLabel string `json:"table_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "brand_id required")
		return
	}
	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		utils.SendValidationError(c, "Invalid brand_id")
		return
	}

	qr, createErr := h.engagementService.CreateQRCode(userID, brandID, req.TableLabel)
	if createErr != nil {
		if errors.Is(createErr, services.ErrBrandNotFound) {
			utils.SendNotFound(c, "Brand not found")
			return
		}
		utils.SendInternalError(c, "Failed to create QR code", createErr)
		return
	}
	utils.SendCreated(c, "QR code created", qr)
}

// UploadMedia pushes an ad/banner creative to S3.
func (h *EngagementHandler) UploadMedia(c *gin.Context) {
	media := h.engagementService.Media()
	if media == nil {
		utils.SendError(c, http.StatusServiceUnavailable, "Media uploads are not configured", nil)
		return
	}

	folder := c.DefaultPostForm("folder", "ads")
	if folder != "ads" && folder != "banners" {
		utils.SendValidationError(c, "folder must be 'ads' or 'banners'")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.SendValidationError(c, "image file required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.SendInternalError(c, "Failed to read upload", err)
		return
	}
	defer file.Close()

	result, err := media.UploadImage(folder, file, fileHeader)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Upload failed", err)
		return
	}
	utils.SendCreated(c, "Image uploaded", result)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"github.com/reviewrise/reviewrise-backend/internal/services"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

type BrandHandler struct {
	brandService *services.BrandService
	statsService *services.StatsService
}

func NewBrandHandler(brandService *services.BrandService, statsService *services.StatsService) *BrandHandler {
	return &BrandHandler{brandService: brandService, statsService: statsService}
}

func (h *BrandHandler) ListPublic(c *gin.Context) {
	brands, err := h.brandService.ListPublic()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch brands", err)
		return
	}
	utils.SendSuccess(c, "Brands retrieved", brands)
}

func (h *BrandHandler) ListAll(c *gin.Context) {
	brands, err := h.brandService.ListAll()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch brands", err)
		return
	}
	utils.SendSuccess(c, "Brands retrieved", brands)
}

func (h *BrandHandler) Get(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}
	brand, err := h.brandService.Get(brandID)
	if err != nil {
		utils.SendNotFound(c, "Brand not found")
		return
	}
	utils.SendSuccess(c, "Brand retrieved", brand)
}

func (h *BrandHandler) Create(c *gin.Context) {
	var req models.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Brand name and owner email are required")
		return
	}
	if !utils.IsValidEmail(req.OwnerEmail) {
		utils.SendValidationError(c, "Invalid owner email")
		return
	}

	result, err := h.brandService.Create(req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create brand", err)
		return
	}

	utils.SendCreated(c, "Brand created", result)
}

func (h *BrandHandler) Update(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}

	var req models.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	brand, err := h.brandService.Update(brandID, req)
	if err != nil {
		if errors.Is(err, services.ErrBrandNotFound) {
			utils.SendNotFound(c, "Brand not found")
			return
		}
		utils.SendInternalError(c, "Failed to update brand", err)
		return
	}

	utils.SendSuccess(c, "Brand updated", brand)
}

func (h *BrandHandler) Delete(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}
	if err := h.brandService.Delete(brandID); err != nil {
		utils.SendInternalError(c, "Failed to delete brand", err)
		return
	}
	utils.SendSuccess(c, "Brand deleted", nil)
}

func (h *BrandHandler) Stats(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}
	stats, err := h.brandService.Stats(brandID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch brand stats", err)
		return
	}
	utils.SendSuccess(c, "Brand stats", stats)
}

func (h *BrandHandler) Trend(c *gin.Context) {
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}
	trend, err := h.statsService.BrandTrend(brandID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch trend", err)
		return
	}
	utils.SendSuccess(c, "Review trend", trend)
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/reviewrise/reviewrise-backend/internal/services"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

type AdminHandler struct {
	statsService *services.StatsService
}

func NewAdminHandler(statsService *services.StatsService) *AdminHandler {
	return &AdminHandler{statsService: statsService}
}

func (h *AdminHandler) PlatformStats(c *gin.Context) {
	stats, err := h.statsService.Platform()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch platform stats", err)
		return
	}
	utils.SendSuccess(c, "Platform stats", stats)
}

func (h *AdminHandler) Customers(c *gin.Context) {
	customers, err := h.statsService.Customers()
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch customers", err)
		return
	}
	utils.SendSuccess(c, "Customers retrieved", customers)
}

func (h *AdminHandler) CleanupDuplicateBrands(c *gin.Context) {
	if err := h.statsService.CleanupDuplicateBrands(); err != nil {
		utils.SendInternalError(c, "Cleanup failed", err)
		return
	}
	utils.SendSuccess(c, "Duplicates removed", nil)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/services"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

type CouponHandler struct {
	couponService *services.CouponService
}

func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func (h *CouponHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	coupons, err := h.couponService.ListAll(limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch coupons", err)
		return
	}
	utils.SendSuccess(c, "Coupons retrieved", coupons)
}

func (h *CouponHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	coupons, err := h.couponService.ListForUser(userID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch coupons", err)
		return
	}
	utils.SendSuccess(c, "Coupons retrieved", coupons)
}

func (h *CouponHandler) ListForBrand(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	brandID, ok := pathUUID(c, "brand_id")
	if !ok {
		return
	}

	coupons, err := h.couponService.ListForBrand(userID, c.GetString("user_role"), brandID)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			utils.SendForbidden(c, "Not your brand")
			return
		}
		utils.SendInternalError(c, "Failed to fetch coupons", err)
		return
	}
	utils.SendSuccess(c, "Coupons retrieved", coupons)
}

// VerifyCode checks a coupon code at the cashier; the brand is read from
// the coupon itself, not the request.
func (h *CouponHandler) VerifyCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Coupon code required")
		return
	}

	result, err := h.couponService.VerifyCode(userID, c.GetString("user_role"), req.Code)
	if err != nil {
		utils.SendInternalError(c, "Failed to verify coupon", err)
		return
	}
	utils.SendSuccess(c, "Coupon checked", result)
}

func (h *CouponHandler) Redeem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		CouponID    string `json:"coupon_id" binding:"required"`
		CashierName string `json:"cashier_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "coupon_id required")
		return
	}
	couponID, err := uuid.Parse(req.CouponID)
	if err != nil {
		utils.SendValidationError(c, "Invalid coupon_id")
		return
	}

	coupon, redeemErr := h.couponService.Redeem(userID, c.GetString("user_role"), c.GetString("user_name"), couponID, req.CashierName)
	if redeemErr != nil {
		switch {
		case errors.Is(redeemErr, services.ErrForbidden):
			utils.SendForbidden(c, "Not your brand coupon")
		case errors.Is(redeemErr, services.ErrCouponNotActive):
			utils.SendError(c, http.StatusBadRequest, "Coupon already redeemed or not found", nil)
		default:
			utils.SendInternalError(c, "Failed to redeem coupon", redeemErr)
		}
		return
	}

	utils.SendSuccess(c, "Coupon redeemed", coupon)
}

func (h *CouponHandler) GenerateManual(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ManualCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "brand_id and discount required")
		return
	}

	coupon, err := h.couponService.GenerateManual(userID, c.GetString("user_role"), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			utils.SendForbidden(c, "Not your brand")
		case errors.Is(err, services.ErrBrandNotFound):
			utils.SendNotFound(c, "Brand not found")
		default:
			utils.SendInternalError(c, "Failed to generate coupon", err)
		}
		return
	}

	utils.SendCreated(c, "Coupon generated", coupon)
}

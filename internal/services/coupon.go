package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"github.com/reviewrise/reviewrise-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultCooldownDays: one review-sourced coupon per (user, brand)
	// inside this rolling window.
	DefaultCooldownDays = 30

	defaultValidityDays = 30
	defaultCodePrefix   = "RRW"
	adsCodePrefix       = "ADS"
	codeSuffixLength    = 6
	codeAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type CouponService struct {
	db           *gorm.DB
	email        *EmailService // optional; nil disables notifications
	cooldownDays int
}

func NewCouponService(db *gorm.DB, email *EmailService, cooldownDays int) *CouponService {
	if cooldownDays <= 0 {
		cooldownDays = DefaultCooldownDays
	}
	return &CouponService{db: db, email: email, cooldownDays: cooldownDays}
}

type IssueResult struct {
	Coupon        *models.Coupon `json:"coupon"`
	AlreadyIssued bool           `json:"already_issued"`
}

// IssueForVerifiedSession mints the reward coupon for a verified session.
// A review-sourced coupon already issued to the same (user, brand) within
// the cooldown window is returned unchanged instead of minting a second
// one. The lookup and the insert run in one transaction holding a lock on
// the user row, so two sessions verifying concurrently cannot both pass
// the cooldown check; the unique index on code plus the retry below keep
// codes unique under collision.
func (s *CouponService) IssueForVerifiedSession(sessionID, userID, brandID uuid.UUID, stars int) (*IssueResult, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", brandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}

	validityDays := brand.CouponValidityDays
	if validityDays <= 0 {
		validityDays = defaultValidityDays
	}

	var user models.User
	var result IssueResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			// Issue anyway; the coupon row carries its own name/email copy.
			user = models.User{Name: "Customer"}
		}

		cutoff := time.Now().AddDate(0, 0, -s.cooldownDays)
		var existing models.Coupon
		err := tx.Where("user_id = ? AND brand_id = ? AND source = ? AND issued_at > ?",
			userID, brandID, models.CouponSourceReview, cutoff).
			Order("issued_at DESC").First(&existing).Error
		if err == nil {
			result = IssueResult{Coupon: &existing, AlreadyIssued: true}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cooldown lookup failed: %w", err)
		}

		coupon := models.Coupon{
			Code:      couponCode(brand.Name),
			BrandID:   brandID,
			UserID:    &userID,
			UserName:  user.Name,
			UserEmail: user.Email,
			Discount:  brand.RewardOffer,
			MinOrder:  brand.RewardMinOrder,
			Source:    models.CouponSourceReview,
			Status:    models.CouponActive,
			SessionID: &sessionID,
			ExpiresAt: time.Now().AddDate(0, 0, validityDays),
		}
		if err := s.createWithRetry(tx, &coupon, brand.Name); err != nil {
			return err
		}
		result = IssueResult{Coupon: &coupon}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyIssued && s.email != nil && user.Email != "" {
		if err := s.email.SendCouponEmail(user.Email, user.Name, result.Coupon, brand.Name); err != nil {
			logger.Warn("coupon email failed: ", err)
		}
	}

	return &result, nil
}

// createWithRetry inserts the coupon, regenerating the code once if the
// unique index reports a collision. Each attempt runs in its own
// (sub)transaction so a failed insert does not poison an enclosing
// transaction.
func (s *CouponService) createWithRetry(db *gorm.DB, coupon *models.Coupon, brandName string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(coupon).Error
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	coupon.ID = uuid.Nil
	coupon.Code = couponCode(brandName)
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(coupon).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCodeCollision
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// couponCode builds a human-readable code: a 3-letter prefix derived from
// the brand name plus a 6-character random alphanumeric suffix.
func couponCode(brandName string) string {
	return codePrefix(brandName) + randomCodeSuffix()
}

func codePrefix(brandName string) string {
	var letters []rune
	for _, r := range brandName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters = append(letters, r)
		}
		if len(letters) == 3 {
			break
		}
	}
	if len(letters) == 0 {
		return defaultCodePrefix
	}
	return strings.ToUpper(string(letters))
}

func randomCodeSuffix() string {
	suffix := make([]byte, codeSuffixLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is in real trouble;
			// fall back to a time-derived byte rather than panicking.
			suffix[i] = codeAlphabet[time.Now().UnixNano()%int64(len(codeAlphabet))]
			continue
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}
	return string(suffix)
}

// IssueAdsReward mints an ads-watching reward coupon against a random
// active brand.
func (s *CouponService) IssueAdsReward(userID uuid.UUID, userName string) (*models.Coupon, error) {
	var brand models.Brand
	if err := s.db.Where("active = ?", true).Order("RANDOM()").First(&brand).Error; err != nil {
		return nil, ErrBrandNotFound
	}

	coupon := models.Coupon{
		Code:      adsCodePrefix + randomCodeSuffix(),
		BrandID:   brand.ID,
		UserID:    &userID,
		UserName:  userName,
		Discount:  "₹50 OFF",
		MinOrder:  200,
		Source:    models.CouponSourceAds,
		Status:    models.CouponActive,
		ExpiresAt: time.Now().AddDate(0, 0, defaultValidityDays),
	}
	if err := s.createWithRetry(s.db, &coupon, adsCodePrefix); err != nil {
		return nil, err
	}
	return &coupon, nil
}

type ManualCouponRequest struct {
	BrandID      uuid.UUID `json:"brand_id" binding:"required"`
	Discount     string    `json:"discount" binding:"required"`
	MinOrder     int       `json:"min_order"`
	ValidityDays int       `json:"validity_days"`
	ForUserName  string    `json:"for_user_name"`
	ForUserEmail string    `json:"for_user_email"`
}

// GenerateManual lets a brand owner mint a coupon at the counter.
func (s *CouponService) GenerateManual(requesterID uuid.UUID, requesterRole string, req ManualCouponRequest) (*models.Coupon, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", req.BrandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}
	if requesterRole == models.RoleBrandOwner && (brand.OwnerID == nil || *brand.OwnerID != requesterID) {
		return nil, ErrForbidden
	}

	days := req.ValidityDays
	if days <= 0 {
		days = defaultValidityDays
	}
	userName := req.ForUserName
	if userName == "" {
		userName = "Manual Coupon"
	}

	coupon := models.Coupon{
		Code:      couponCode(brand.Name),
		BrandID:   req.BrandID,
		UserName:  userName,
		UserEmail: req.ForUserEmail,
		Discount:  req.Discount,
		MinOrder:  req.MinOrder,
		Source:    models.CouponSourceManual,
		Status:    models.CouponActive,
		ExpiresAt: time.Now().AddDate(0, 0, days),
	}
	if err := s.createWithRetry(s.db, &coupon, brand.Name); err != nil {
		return nil, err
	}
	return &coupon, nil
}

type CouponVerification struct {
	Valid  bool           `json:"valid"`
	Reason string         `json:"reason,omitempty"`
	Coupon *models.Coupon `json:"coupon,omitempty"`
}

// VerifyCode checks a coupon code at the cashier. Expiry is swept lazily
// here, so a stale active coupon reads as expired without a background
// job.
func (s *CouponService) VerifyCode(requesterID uuid.UUID, requesterRole, code string) (*CouponVerification, error) {
	s.sweepExpired()

	normalized := strings.ToUpper(strings.TrimSpace(code))
	var coupon models.Coupon
	err := s.db.Where("UPPER(TRIM(code)) = ?", normalized).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CouponVerification{Valid: false, Reason: "Coupon code not found"}, nil
	}
	if err != nil {
		return nil, err
	}

	if requesterRole == models.RoleBrandOwner {
		var brand models.Brand
		if err := s.db.First(&brand, "id = ?", coupon.BrandID).Error; err != nil {
			return nil, ErrBrandNotFound
		}
		if brand.OwnerID == nil || *brand.OwnerID != requesterID {
			return &CouponVerification{Valid: false, Reason: "This coupon belongs to a different brand"}, nil
		}
	}

	switch coupon.Status {
	case models.CouponRedeemed:
		reason := "Already redeemed"
		if coupon.RedeemedAt != nil {
			reason = "Already redeemed on " + coupon.RedeemedAt.Format("02/01/2006")
		}
		return &CouponVerification{Valid: false, Reason: reason, Coupon: &coupon}, nil
	case models.CouponExpired:
		return &CouponVerification{Valid: false, Reason: "Coupon has expired", Coupon: &coupon}, nil
	}

	return &CouponVerification{Valid: true, Coupon: &coupon}, nil
}

func (s *CouponService) sweepExpired() {
	if err := s.db.Model(&models.Coupon{}).
		Where("expires_at < ? AND status = ?", time.Now(), models.CouponActive).
		Update("status", models.CouponExpired).Error; err != nil {
		logger.Warn("coupon expiry sweep failed: ", err)
	}
}

// Redeem marks an active coupon redeemed. The conditional update makes a
// double redeem impossible: only one request flips active to redeemed.
func (s *CouponService) Redeem(requesterID uuid.UUID, requesterRole, requesterName string, couponID uuid.UUID, cashierName string) (*models.Coupon, error) {
	if requesterRole == models.RoleBrandOwner {
		var count int64
		s.db.Model(&models.Coupon{}).
			Joins("JOIN brands ON brands.id = coupons.brand_id").
			Where("coupons.id = ? AND brands.owner_id = ?", couponID, requesterID).
			Count(&count)
		if count == 0 {
			return nil, ErrForbidden
		}
	}

	redeemedBy := cashierName
	if redeemedBy == "" {
		redeemedBy = requesterName
	}
	if redeemedBy == "" {
		redeemedBy = "Cashier"
	}

	now := time.Now()
	res := s.db.Model(&models.Coupon{}).
		Where("id = ? AND status = ?", couponID, models.CouponActive).
		Updates(map[string]interface{}{
			"status":      models.CouponRedeemed,
			"redeemed_at": now,
			"redeemed_by": redeemedBy,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCouponNotActive
	}

	var coupon models.Coupon
	if err := s.db.First(&coupon, "id = ?", couponID).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

type CouponWithBrand struct {
	models.Coupon
	BrandName  string `json:"brand_name"`
	BrandEmoji string `json:"brand_emoji"`
}

func (s *CouponService) listQuery() *gorm.DB {
	return s.db.Model(&models.Coupon{}).
		Select("coupons.*, brands.name AS brand_name, brands.emoji AS brand_emoji").
		Joins("JOIN brands ON coupons.brand_id = brands.id").
		Order("coupons.issued_at DESC")
}

func (s *CouponService) ListAll(limit int) ([]CouponWithBrand, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	var coupons []CouponWithBrand
	err := s.listQuery().Limit(limit).Scan(&coupons).Error
	return coupons, err
}

func (s *CouponService) ListForUser(userID uuid.UUID) ([]CouponWithBrand, error) {
	var coupons []CouponWithBrand
	err := s.listQuery().Where("coupons.user_id = ?", userID).Scan(&coupons).Error
	return coupons, err
}

// ListForBrand returns a brand's coupons; brand owners only see their own
// brand.
func (s *CouponService) ListForBrand(requesterID uuid.UUID, requesterRole string, brandID uuid.UUID) ([]CouponWithBrand, error) {
	if requesterRole == models.RoleBrandOwner {
		var count int64
		s.db.Model(&models.Brand{}).Where("id = ? AND owner_id = ?", brandID, requesterID).Count(&count)
		if count == 0 {
			return nil, ErrForbidden
		}
	}
	var coupons []CouponWithBrand
	err := s.listQuery().Where("coupons.brand_id = ?", brandID).Limit(100).Scan(&coupons).Error
	return coupons, err
}

package services

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"github.com/reviewrise/reviewrise-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// adsRewardThreshold: watching this many ads within a day earns a coupon.
const adsRewardThreshold = 3

type EngagementService struct {
	db      *gorm.DB
	coupons *CouponService
	media   *MediaService // optional; nil disables uploads
	baseURL string
}

func NewEngagementService(db *gorm.DB, coupons *CouponService, media *MediaService, baseURL string) *EngagementService {
	return &EngagementService{db: db, coupons: coupons, media: media, baseURL: baseURL}
}

// Ads

type AdWithBrand struct {
	models.Ad
	BrandName  string `json:"brand_name"`
	BrandEmoji string `json:"brand_emoji"`
}

func (s *EngagementService) ListActiveAds() ([]AdWithBrand, error) {
	var ads []AdWithBrand
	err := s.db.Model(&models.Ad{}).
		Select("ads.*, brands.name AS brand_name, brands.emoji AS brand_emoji").
		Joins("JOIN brands ON ads.brand_id = brands.id").
		Where("ads.active = ? AND brands.active = ?", true, true).
		Order("ads.created_at DESC").
		Scan(&ads).Error
	return ads, err
}

func (s *EngagementService) ListAllAds() ([]AdWithBrand, error) {
	var ads []AdWithBrand
	err := s.db.Model(&models.Ad{}).
		Select("ads.*, brands.name AS brand_name, brands.emoji AS brand_emoji").
		Joins("JOIN brands ON ads.brand_id = brands.id").
		Order("ads.created_at DESC").
		Scan(&ads).Error
	return ads, err
}

type CreateAdRequest struct {
	BrandID     uuid.UUID `json:"brand_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
}

func (s *EngagementService) CreateAd(createdBy uuid.UUID, req CreateAdRequest) (*models.Ad, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", req.BrandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}
	ad := models.Ad{
		BrandID:     req.BrandID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      true,
		CreatedBy:   &createdBy,
	}
	if err := s.db.Create(&ad).Error; err != nil {
		return nil, fmt.Errorf("failed to create ad: %w", err)
	}
	return &ad, nil
}

func (s *EngagementService) ToggleAd(id uuid.UUID) (*models.Ad, error) {
	var ad models.Ad
	if err := s.db.First(&ad, "id = ?", id).Error; err != nil {
		return nil, ErrAdNotFound
	}
	if err := s.db.Model(&ad).Update("active", !ad.Active).Error; err != nil {
		return nil, err
	}
	ad.Active = !ad.Active
	return &ad, nil
}

type AdViewResult struct {
	Watched int            `json:"watched"`
	Reward  *models.Coupon `json:"reward,omitempty"`
}

// RecordAdView bumps the ad's view counter, records who watched, and
// issues the ads reward once the viewer crosses the daily threshold.
func (s *EngagementService) RecordAdView(userID uuid.UUID, userName string, adID uuid.UUID) (*AdViewResult, error) {
	var ad models.Ad
	if err := s.db.First(&ad, "id = ?", adID).Error; err != nil {
		return nil, ErrAdNotFound
	}

	s.db.Model(&ad).UpdateColumn("views", gorm.Expr("views + 1"))

	// Rewatches hit the (ad, user) unique index and are ignored.
	view := models.AdView{AdID: adID, UserID: userID}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&view).Error; err != nil {
		logger.Warn("failed to record ad view: ", err)
	}

	var watched int64
	since := time.Now().Add(-24 * time.Hour)
	if err := s.db.Model(&models.AdView{}).
		Where("user_id = ? AND watched_at > ?", userID, since).
		Count(&watched).Error; err != nil {
		return nil, err
	}

	result := &AdViewResult{Watched: int(watched)}
	if watched >= adsRewardThreshold {
		coupon, err := s.coupons.IssueAdsReward(userID, userName)
		if err != nil {
			logger.Warn("ads reward issuance failed: ", err)
		} else {
			result.Reward = coupon
		}
	}
	return result, nil
}

// Banners

type BannerWithBrand struct {
	models.Banner
	BrandName  string `json:"brand_name"`
	BrandEmoji string `json:"brand_emoji"`
}

func (s *EngagementService) ListActiveBanners() ([]BannerWithBrand, error) {
	var banners []BannerWithBrand
	err := s.db.Model(&models.Banner{}).
		Select("banners.*, brands.name AS brand_name, brands.emoji AS brand_emoji").
		Joins("JOIN brands ON banners.brand_id = brands.id").
		Where("banners.active = ?", true).
		Order("banners.created_at DESC").
		Scan(&banners).Error
	return banners, err
}

func (s *EngagementService) ListAllBanners() ([]BannerWithBrand, error) {
	var banners []BannerWithBrand
	err := s.db.Model(&models.Banner{}).
		Select("banners.*, brands.name AS brand_name, brands.emoji AS brand_emoji").
		Joins("JOIN brands ON banners.brand_id = brands.id").
		Order("banners.created_at DESC").
		Scan(&banners).Error
	return banners, err
}

type CreateBannerRequest struct {
	BrandID  uuid.UUID `json:"brand_id" binding:"required"`
	Title    string    `json:"title" binding:"required"`
	ImageURL string    `json:"image_url"`
}

func (s *EngagementService) CreateBanner(createdBy uuid.UUID, req CreateBannerRequest) (*models.Banner, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", req.BrandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}
	banner := models.Banner{
		BrandID:   req.BrandID,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		Active:    true,
		CreatedBy: &createdBy,
	}
	if err := s.db.Create(&banner).Error; err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return &banner, nil
}

func (s *EngagementService) ToggleBanner(id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := s.db.First(&banner, "id = ?", id).Error; err != nil {
		return nil, ErrBannerNotFound
	}
	if err := s.db.Model(&banner).Update("active", !banner.Active).Error; err != nil {
		return nil, err
	}
	banner.Active = !banner.Active
	return &banner, nil
}

// QR codes

func (s *EngagementService) ListQRCodes(brandID uuid.UUID) ([]models.QRCode, error) {
	var codes []models.QRCode
	err := s.db.Where("brand_id = ?", brandID).Order("created_at DESC").Find(&codes).Error
	return codes, err
}

// CreateQRCode mints a table QR pointing at the review flow for a brand.
func (s *EngagementService) CreateQRCode(createdBy, brandID uuid.UUID, tableLabel string) (*models.QRCode, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", brandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}
	if tableLabel == "" {
		tableLabel = "Main"
	}

	qr := models.QRCode{
		BrandID:    brandID,
		TableLabel: tableLabel,
		URL: fmt.Sprintf("%s/review?brand=%s&t=%s",
			s.baseURL, brandID, url.QueryEscape(tableLabel)),
		CreatedBy: &createdBy,
	}
	if err := s.db.Create(&qr).Error; err != nil {
		return nil, fmt.Errorf("failed to create qr code: %w", err)
	}
	return &qr, nil
}

// Media returns the upload service, nil when S3 is not configured.
func (s *EngagementService) Media() *MediaService {
	return s.media
}

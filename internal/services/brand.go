package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"github.com/reviewrise/reviewrise-backend/pkg/logger"
	"gorm.io/gorm"
)

type BrandService struct {
	db      *gorm.DB
	email   *EmailService // optional
	baseURL string
}

func NewBrandService(db *gorm.DB, email *EmailService, baseURL string) *BrandService {
	return &BrandService{db: db, email: email, baseURL: baseURL}
}

func (s *BrandService) ListPublic() ([]models.Brand, error) {
	var brands []models.Brand
	err := s.db.Where("active = ?", true).Order("joined_at DESC").Find(&brands).Error
	return brands, err
}

type BrandWithOwner struct {
	models.Brand
	OwnerLoginEmail string `json:"owner_login_email"`
}

func (s *BrandService) ListAll() ([]BrandWithOwner, error) {
	var brands []BrandWithOwner
	err := s.db.Model(&models.Brand{}).
		Select("brands.*, users.email AS owner_login_email").
		Joins("LEFT JOIN users ON brands.owner_id = users.id").
		Order("brands.joined_at DESC").
		Scan(&brands).Error
	return brands, err
}

func (s *BrandService) Get(id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", id).Error; err != nil {
		return nil, ErrBrandNotFound
	}
	return &brand, nil
}

type ProvisionedBrand struct {
	Brand            *models.Brand `json:"brand"`
	OwnerCredentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		LoginURL string `json:"login_url"`
	} `json:"owner_credentials"`
}

// Create provisions a brand together with its owner login. An existing
// user with the owner email is promoted to brand_owner and re-keyed.
func (s *BrandService) Create(req models.CreateBrandRequest) (*ProvisionedBrand, error) {
	password := req.OwnerPassword
	if password == "" {
		password = "Brand@123"
	}

	ownerEmail := strings.ToLower(strings.TrimSpace(req.OwnerEmail))
	ownerName := req.OwnerName
	if ownerName == "" {
		ownerName = "Brand Owner"
	}

	var owner models.User
	err := s.db.Where("LOWER(email) = ?", ownerEmail).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		owner = models.User{Name: ownerName, Email: ownerEmail, Role: models.RoleBrandOwner}
		if err := owner.SetPassword(password); err != nil {
			return nil, err
		}
		if err := s.db.Create(&owner).Error; err != nil {
			return nil, fmt.Errorf("failed to create owner login: %w", err)
		}
	} else if err != nil {
		return nil, err
	} else {
		owner.Name = ownerName
		owner.Role = models.RoleBrandOwner
		if err := owner.SetPassword(password); err != nil {
			return nil, err
		}
		if err := s.db.Save(&owner).Error; err != nil {
			return nil, err
		}
	}

	brand := models.Brand{
		OwnerID:            &owner.ID,
		Name:               req.Name,
		Category:           defaultString(req.Category, "General"),
		Emoji:              defaultString(req.Emoji, "🏪"),
		Location:           req.Location,
		Plan:               defaultString(req.Plan, "Starter"),
		GooglePlaceID:      req.GooglePlaceID,
		RewardOffer:        defaultString(req.RewardOffer, "20% OFF"),
		RewardMinOrder:     defaultInt(req.RewardMinOrder, 500),
		CouponValidityDays: defaultInt(req.CouponValidityDays, 30),
		OwnerName:          req.OwnerName,
		OwnerEmail:         ownerEmail,
		OwnerPhone:         req.OwnerPhone,
		Active:             true,
	}
	if err := s.db.Create(&brand).Error; err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	if s.email != nil {
		if err := s.email.SendOwnerCredentialsEmail(ownerEmail, brand.Name, ownerEmail, password, s.baseURL); err != nil {
			logger.Warn("owner credentials email failed: ", err)
		}
	}

	result := &ProvisionedBrand{Brand: &brand}
	result.OwnerCredentials.Email = ownerEmail
	result.OwnerCredentials.Password = password
	result.OwnerCredentials.LoginURL = "/brand"
	return result, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

// Update applies only the provided fields.
func (s *BrandService) Update(id uuid.UUID, req models.UpdateBrandRequest) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", id).Error; err != nil {
		return nil, ErrBrandNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Emoji != nil {
		updates["emoji"] = *req.Emoji
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Plan != nil {
		updates["plan"] = *req.Plan
	}
	if req.GooglePlaceID != nil {
		updates["google_place_id"] = *req.GooglePlaceID
	}
	if req.RewardOffer != nil {
		updates["reward_offer"] = *req.RewardOffer
	}
	if req.RewardMinOrder != nil {
		updates["reward_min_order"] = *req.RewardMinOrder
	}
	if req.CouponValidityDays != nil {
		updates["coupon_validity_days"] = *req.CouponValidityDays
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.db.Model(&brand).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// Delete removes a brand and everything hanging off it. Operational
// cleanup for the platform scope only.
func (s *BrandService) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ad_id IN (?)", tx.Model(&models.Ad{}).Select("id").Where("brand_id = ?", id)).
			Delete(&models.AdView{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.QRScan{}, &models.VerificationSession{}, &models.Coupon{},
			&models.PrivateFeedback{}, &models.Review{}, &models.QRCode{},
			&models.Banner{}, &models.Ad{},
		} {
			if err := tx.Where("brand_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Brand{}, "id = ?", id).Error
	})
}

type BrandStats struct {
	Reviews struct {
		Total     int64   `json:"total"`
		AvgRating float64 `json:"avg_rating"`
	} `json:"reviews"`
	Feedback struct {
		Total  int64 `json:"total"`
		Unread int64 `json:"unread"`
	} `json:"feedback"`
	Coupons struct {
		Total    int64 `json:"total"`
		Active   int64 `json:"active"`
		Redeemed int64 `json:"redeemed"`
	} `json:"coupons"`
}

func (s *BrandService) Stats(id uuid.UUID) (*BrandStats, error) {
	stats := &BrandStats{}

	if err := s.db.Model(&models.Review{}).Where("brand_id = ?", id).Count(&stats.Reviews.Total).Error; err != nil {
		return nil, err
	}
	var avg *float64
	s.db.Model(&models.Review{}).Where("brand_id = ?", id).Select("AVG(stars)").Scan(&avg)
	if avg != nil {
		stats.Reviews.AvgRating = *avg
	}

	s.db.Model(&models.PrivateFeedback{}).Where("brand_id = ?", id).Count(&stats.Feedback.Total)
	s.db.Model(&models.PrivateFeedback{}).Where("brand_id = ? AND is_read = ?", id, false).Count(&stats.Feedback.Unread)

	s.db.Model(&models.Coupon{}).Where("brand_id = ?", id).Count(&stats.Coupons.Total)
	s.db.Model(&models.Coupon{}).Where("brand_id = ? AND status = ?", id, models.CouponActive).Count(&stats.Coupons.Active)
	s.db.Model(&models.Coupon{}).Where("brand_id = ? AND status = ?", id, models.CouponRedeemed).Count(&stats.Coupons.Redeemed)

	return stats, nil
}

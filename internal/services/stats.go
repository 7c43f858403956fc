package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"gorm.io/gorm"
)

// perBrandMRR is the monthly subscription price used for the MRR figure
// on the platform dashboard.
const perBrandMRR = 1999

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type PlatformStats struct {
	Brands struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
	} `json:"brands"`
	Customers struct {
		Total int64 `json:"total"`
	} `json:"customers"`
	Reviews struct {
		Total int64 `json:"total"`
	} `json:"reviews"`
	Coupons struct {
		Total    int64 `json:"total"`
		Redeemed int64 `json:"redeemed"`
	} `json:"coupons"`
	MRR int64 `json:"mrr"`
}

func (s *StatsService) Platform() (*PlatformStats, error) {
	stats := &PlatformStats{}

	if err := s.db.Model(&models.Brand{}).Count(&stats.Brands.Total).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.Brand{}).Where("active = ?", true).Count(&stats.Brands.Active)
	s.db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&stats.Customers.Total)
	s.db.Model(&models.Review{}).Where("verified = ?", true).Count(&stats.Reviews.Total)
	s.db.Model(&models.Coupon{}).Count(&stats.Coupons.Total)
	s.db.Model(&models.Coupon{}).Where("status = ?", models.CouponRedeemed).Count(&stats.Coupons.Redeemed)

	stats.MRR = stats.Brands.Active * perBrandMRR
	return stats, nil
}

type CustomerSummary struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Points        int        `json:"points"`
	CreatedAt     time.Time  `json:"created_at"`
	BrandsVisited int64      `json:"brands_visited"`
	TotalVisits   int64      `json:"total_visits"`
	TotalReviews  int64      `json:"total_reviews"`
	TotalCoupons  int64      `json:"total_coupons"`
	LastVisit     *time.Time `json:"last_visit"`
}

// Customers builds the superadmin customer roster with per-user
// engagement aggregates.
func (s *StatsService) Customers() ([]CustomerSummary, error) {
	var customers []CustomerSummary
	err := s.db.Model(&models.User{}).
		Select(`users.id, users.name, users.email, users.points, users.created_at,
			COUNT(DISTINCT qr_scans.brand_id) AS brands_visited,
			COUNT(DISTINCT qr_scans.id)      AS total_visits,
			COUNT(DISTINCT reviews.id)       AS total_reviews,
			COUNT(DISTINCT coupons.id)       AS total_coupons,
			MAX(qr_scans.scanned_at)         AS last_visit`).
		Joins("LEFT JOIN qr_scans ON users.id = qr_scans.user_id").
		Joins("LEFT JOIN reviews ON users.id = reviews.user_id").
		Joins("LEFT JOIN coupons ON users.id = coupons.user_id").
		Where("users.role = ?", models.RoleCustomer).
		Group("users.id, users.name, users.email, users.points, users.created_at").
		Order("last_visit DESC").
		Scan(&customers).Error
	return customers, err
}

type TrendPoint struct {
	Day       time.Time `json:"day"`
	Reviews   int64     `json:"reviews"`
	AvgRating float64   `json:"avg_rating"`
}

// BrandTrend returns the last 30 days of review volume and average
// rating for one brand, bucketed by day.
func (s *StatsService) BrandTrend(brandID uuid.UUID) ([]TrendPoint, error) {
	var points []TrendPoint
	since := time.Now().AddDate(0, 0, -30)
	err := s.db.Model(&models.Review{}).
		Select("DATE(created_at) AS day, COUNT(*) AS reviews, AVG(stars) AS avg_rating").
		Where("brand_id = ? AND created_at > ?", brandID, since).
		Group("DATE(created_at)").
		Order("day").
		Scan(&points).Error
	return points, err
}

// CleanupDuplicateBrands deletes duplicate brands, keeping the oldest
// row per lowercased name.
func (s *StatsService) CleanupDuplicateBrands() error {
	return s.db.Exec(`
		DELETE FROM brands WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY LOWER(name) ORDER BY joined_at ASC) AS rn
				FROM brands
			) t WHERE rn > 1
		)
	`).Error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CouponSourceReview = "review"
	CouponSourceAds    = "ads"
	CouponSourceManual = "manual"

	CouponActive   = "active"
	CouponRedeemed = "redeemed"
	CouponExpired  = "expired"
)

type Coupon struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Code       string     `json:"code" gorm:"size:20;uniqueIndex;not null"`
	BrandID    uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	UserID     *uuid.UUID `json:"user_id" gorm:"type:uuid;index"` // nil for manual/anonymous issues
	UserName   string     `json:"user_name"`
	UserEmail  string     `json:"user_email"`
	Discount   string     `json:"discount" gorm:"not null"`
	MinOrder   int        `json:"min_order" gorm:"default:0"`
	Source     string     `json:"source" gorm:"default:review"`
	Status     string     `json:"status" gorm:"default:active"`
	RedeemedAt *time.Time `json:"redeemed_at"`
	RedeemedBy string     `json:"redeemed_by"` // cashier name
	IssuedAt   time.Time  `json:"issued_at" gorm:"autoCreateTime;index"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	SessionID  *uuid.UUID `json:"session_id" gorm:"type:uuid"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

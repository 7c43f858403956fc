package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Brand struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID            *uuid.UUID `json:"owner_id" gorm:"type:uuid"`
	Name               string     `json:"name" gorm:"not null"`
	Category           string     `json:"category" gorm:"default:General"`
	Emoji              string     `json:"emoji" gorm:"default:🏪"`
	Location           string     `json:"location"`
	Plan               string     `json:"plan" gorm:"default:Starter"` // 'Starter' | 'Pro'
	Active             bool       `json:"active" gorm:"default:true"`
	GooglePlaceID      string     `json:"google_place_id"`
	GoogleRating       float64    `json:"google_rating" gorm:"default:0"`
	TotalReviews       int        `json:"total_reviews" gorm:"default:0"`
	TotalScans         int        `json:"total_scans" gorm:"default:0"`
	RewardOffer        string     `json:"reward_offer" gorm:"default:20% OFF"`
	RewardMinOrder     int        `json:"reward_min_order" gorm:"default:500"`
	CouponValidityDays int        `json:"coupon_validity_days" gorm:"default:30"`
	OwnerName          string     `json:"owner_name"`
	OwnerEmail         string     `json:"owner_email"`
	OwnerPhone         string     `json:"owner_phone"`
	JoinedAt           time.Time  `json:"joined_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type UpdateBrandRequest struct {
	Name               *string `json:"name,omitempty"`
	Category           *string `json:"category,omitempty"`
	Emoji              *string `json:"emoji,omitempty"`
	Location           *string `json:"location,omitempty"`
	Plan               *string `json:"plan,omitempty"`
	GooglePlaceID      *string `json:"google_place_id,omitempty"`
	RewardOffer        *string `json:"reward_offer,omitempty"`
	RewardMinOrder     *int    `json:"reward_min_order,omitempty"`
	CouponValidityDays *int    `json:"coupon_validity_days,omitempty"`
	Active             *bool   `json:"active,omitempty"`
}

type CreateBrandRequest struct {
	Name               string `json:"name" binding:"required"`
	Category           string `json:"category"`
	Emoji              string `json:"emoji"`
	Location           string `json:"location"`
	Plan               string `json:"plan"`
	GooglePlaceID      string `json:"google_place_id"`
	RewardOffer        string `json:"reward_offer"`
	RewardMinOrder     int    `json:"reward_min_order"`
	CouponValidityDays int    `json:"coupon_validity_days"`
	OwnerName          string `json:"owner_name"`
	OwnerEmail         string `json:"owner_email" binding:"required"`
	OwnerPhone         string `json:"owner_phone"`
	OwnerPassword      string `json:"owner_password"`
}

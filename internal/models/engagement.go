package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ad struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BrandID     uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Active      bool       `json:"active" gorm:"default:true"`
	Views       int        `json:"views" gorm:"default:0"`
	Clicks      int        `json:"clicks" gorm:"default:0"`
	CreatedBy   *uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AdView records one user watching one ad; the composite unique index
// keeps rewatches from inflating the daily reward count.
type AdView struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AdID      uuid.UUID `json:"ad_id" gorm:"type:uuid;not null;uniqueIndex:idx_ad_viewer"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ad_viewer;index"`
	WatchedAt time.Time `json:"watched_at" gorm:"autoCreateTime"`
}

func (v *AdView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type Banner struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BrandID   uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	Title     string     `json:"title" gorm:"not null"`
	ImageURL  string     `json:"image_url"`
	Active    bool       `json:"active" gorm:"default:true"`
	CreatedBy *uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type QRCode struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BrandID    uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	TableLabel string     `json:"table_label"`
	URL        string     `json:"url" gorm:"not null"`
	ScanCount  int        `json:"scan_count" gorm:"default:0"`
	CreatedBy  *uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (q *QRCode) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type QRScan struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	QRID      *uuid.UUID `json:"qr_id" gorm:"type:uuid"`
	BrandID   uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	ScannedAt time.Time  `json:"scanned_at" gorm:"autoCreateTime"`
}

func (s *QRScan) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

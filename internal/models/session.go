package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification session statuses. Transitions are monotonic: a pending
// session moves to verified, expired or failed and never back.
const (
	SessionPending  = "pending"
	SessionVerified = "verified"
	SessionExpired  = "expired"
	SessionFailed   = "failed"
)

// VerificationSession is a time-boxed record of a customer's intent to
// post a public review, awaiting confirmation on the external platform.
// Sessions are never deleted; they remain as an audit trail.
type VerificationSession struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BrandID       uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	UserName      string     `json:"user_name" gorm:"not null"`
	ReviewText    string     `json:"review_text"`
	Status        string     `json:"status" gorm:"default:pending"`
	PollCount     int        `json:"poll_count" gorm:"default:0"`
	StarsDetected *int       `json:"stars_detected"`
	CreatedAt     time.Time  `json:"created_at"`
	VerifiedAt    *time.Time `json:"verified_at"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"not null"`
}

func (s *VerificationSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Review is the internal copy of a confirmed external review. The unique
// index on SessionID enforces at most one review per session even under
// racing polls.
type Review struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BrandID      uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	SessionID    uuid.UUID  `json:"session_id" gorm:"type:uuid;uniqueIndex;not null"`
	ReviewerName string     `json:"reviewer_name"`
	Stars        int        `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	ReviewText   string     `json:"review_text"`
	Verified     bool       `json:"verified" gorm:"default:true"`
	Replied      bool       `json:"replied" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PrivateFeedback holds 1-3 star feedback routed away from the public
// review pipeline. Never published.
type PrivateFeedback struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BrandID   uuid.UUID  `json:"brand_id" gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	Stars     int        `json:"stars" gorm:"check:stars >= 1 AND stars <= 3"`
	Chips     []string   `json:"chips" gorm:"serializer:json"` // complaint tags
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time  `json:"created_at"`
}

func (f *PrivateFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

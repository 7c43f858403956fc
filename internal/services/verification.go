package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"github.com/reviewrise/reviewrise-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// verifiedPointBonus is credited to the customer once their review is
// confirmed on the external platform.
const verifiedPointBonus = 50

// DefaultSessionTTL bounds how long a session waits for the external
// review before expiring.
const DefaultSessionTTL = 15 * time.Minute

type VerificationService struct {
	db         *gorm.DB
	source     ReviewSource
	coupons    *CouponService
	sessionTTL time.Duration
}

func NewVerificationService(db *gorm.DB, source ReviewSource, coupons *CouponService, sessionTTL time.Duration) *VerificationService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &VerificationService{db: db, source: source, coupons: coupons, sessionTTL: sessionTTL}
}

type CreateSessionRequest struct {
	BrandID    uuid.UUID `json:"brand_id" binding:"required"`
	ReviewText string    `json:"review_text"`
	Stars      int       `json:"stars"`
}

type CreateSessionResult struct {
	SessionID       uuid.UUID `json:"session_id"`
	ExpiresAt       time.Time `json:"expires_at"`
	GoogleReviewURL string    `json:"google_review_url"`
	PlaceID         string    `json:"place_id"`
}

// CreateSession opens a verification session for (user, brand). Any prior
// pending session for the pair is expired first, so exactly one pending
// session per pair survives.
func (s *VerificationService) CreateSession(userID uuid.UUID, req CreateSessionRequest) (*CreateSessionResult, error) {
	if req.Stars != 0 && req.Stars < MinRewardStars {
		return nil, ErrIneligibleRating
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", req.BrandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}
	if brand.GooglePlaceID == "" {
		return nil, ErrBrandNotConfigured
	}

	if err := s.db.Model(&models.VerificationSession{}).
		Where("user_id = ? AND brand_id = ? AND status = ?", userID, req.BrandID, models.SessionPending).
		Update("status", models.SessionExpired).Error; err != nil {
		return nil, fmt.Errorf("failed to expire prior sessions: %w", err)
	}

	session := models.VerificationSession{
		BrandID:    req.BrandID,
		UserID:     userID,
		UserName:   user.Name,
		ReviewText: req.ReviewText,
		Status:     models.SessionPending,
		ExpiresAt:  time.Now().Add(s.sessionTTL),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Visit bookkeeping; a failed scan row must not fail the session.
	if err := s.db.Create(&models.QRScan{BrandID: req.BrandID, UserID: &userID}).Error; err != nil {
		logger.Warn("failed to record qr scan: ", err)
	}
	s.db.Model(&models.Brand{}).Where("id = ?", req.BrandID).
		UpdateColumn("total_scans", gorm.Expr("total_scans + 1"))

	return &CreateSessionResult{
		SessionID:       session.ID,
		ExpiresAt:       session.ExpiresAt,
		GoogleReviewURL: reviewPostingURL(&brand),
		PlaceID:         brand.GooglePlaceID,
	}, nil
}

func reviewPostingURL(brand *models.Brand) string {
	if brand.GooglePlaceID != "" {
		return "https://search.google.com/local/writereview?placeid=" + url.QueryEscape(brand.GooglePlaceID)
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(brand.Name)
}

type PollResult struct {
	Status        string         `json:"status"`
	Poll          int            `json:"poll,omitempty"`
	Stars         int            `json:"stars,omitempty"`
	Coupon        *models.Coupon `json:"coupon,omitempty"`
	AlreadyIssued bool           `json:"already_issued,omitempty"`
}

// PollSession re-evaluates a pending session against the external review
// source. Safe to call repeatedly: a verified session keeps returning the
// same coupon, an expired one keeps returning expired.
func (s *VerificationService) PollSession(ctx context.Context, sessionID, userID uuid.UUID) (*PollResult, error) {
	var session models.VerificationSession
	if err := s.db.First(&session, "id = ?", sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}

	if session.Status == models.SessionVerified {
		return s.verifiedResult(&session)
	}
	if session.Status == models.SessionFailed {
		return &PollResult{Status: models.SessionFailed}, nil
	}

	if session.Status == models.SessionExpired || time.Now().After(session.ExpiresAt) {
		if session.Status != models.SessionExpired {
			s.db.Model(&session).Update("status", models.SessionExpired)
		}
		return &PollResult{Status: models.SessionExpired}, nil
	}

	s.db.Model(&session).UpdateColumn("poll_count", gorm.Expr("poll_count + 1"))
	session.PollCount++

	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", session.BrandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}

	candidates, err := s.source.ListRecentReviews(ctx, brand.GooglePlaceID)
	if err != nil {
		// Transient or credential trouble with the platform is never a
		// verification failure; the client just polls again later.
		logger.WithFields(map[string]interface{}{
			"session_id": session.ID,
			"brand_id":   brand.ID,
		}).Warn("review source error: ", err)
		return &PollResult{Status: models.SessionPending, Poll: session.PollCount}, nil
	}

	matched, stars, ok := MatchReview(&session, candidates)
	if !ok {
		return &PollResult{Status: models.SessionPending, Poll: session.PollCount}, nil
	}

	return s.verify(&session, &brand, matched, stars)
}

// verify performs the one-shot verification transition. The conditional
// update guarantees a single winner when two polls race; the loser falls
// back to the already-verified read path.
func (s *VerificationService) verify(session *models.VerificationSession, brand *models.Brand, matched *CandidateReview, stars int) (*PollResult, error) {
	now := time.Now()
	res := s.db.Model(&models.VerificationSession{}).
		Where("id = ? AND status = ?", session.ID, models.SessionPending).
		Updates(map[string]interface{}{
			"status":         models.SessionVerified,
			"verified_at":    now,
			"stars_detected": stars,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to verify session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// A concurrent poll won the transition.
		var fresh models.VerificationSession
		if err := s.db.First(&fresh, "id = ?", session.ID).Error; err != nil {
			return nil, ErrSessionNotFound
		}
		if fresh.Status == models.SessionVerified {
			return s.verifiedResult(&fresh)
		}
		return &PollResult{Status: fresh.Status}, nil
	}

	review := models.Review{
		BrandID:      session.BrandID,
		UserID:       &session.UserID,
		SessionID:    session.ID,
		ReviewerName: session.UserName,
		Stars:        stars,
		ReviewText:   matched.Text,
		Verified:     true,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(&review).Error; err != nil {
		logger.Error("failed to persist matched review: ", err)
	}

	s.db.Model(&models.Brand{}).Where("id = ?", brand.ID).
		UpdateColumn("total_reviews", gorm.Expr("total_reviews + 1"))

	issue, err := s.coupons.IssueForVerifiedSession(session.ID, session.UserID, brand.ID, stars)
	if err != nil {
		// The session has consumed its one verification; mark it failed so
		// later polls report the hard failure instead of a couponless
		// verified state.
		s.db.Model(&models.VerificationSession{}).Where("id = ?", session.ID).
			Update("status", models.SessionFailed)
		logger.WithFields(map[string]interface{}{
			"session_id": session.ID,
			"brand_id":   brand.ID,
		}).Error("coupon issuance failed after verification: ", err)
		return nil, err
	}

	s.db.Model(&models.User{}).Where("id = ?", session.UserID).
		UpdateColumn("points", gorm.Expr("points + ?", verifiedPointBonus))

	logger.WithFields(map[string]interface{}{
		"session_id": session.ID,
		"brand_id":   brand.ID,
		"stars":      stars,
	}).Info("review verified, coupon issued")

	return &PollResult{
		Status:        models.SessionVerified,
		Stars:         stars,
		Coupon:        issue.Coupon,
		AlreadyIssued: issue.AlreadyIssued,
	}, nil
}

func (s *VerificationService) verifiedResult(session *models.VerificationSession) (*PollResult, error) {
	result := &PollResult{Status: models.SessionVerified}
	if session.StarsDetected != nil {
		result.Stars = *session.StarsDetected
	}
	var coupon models.Coupon
	if err := s.db.First(&coupon, "session_id = ?", session.ID).Error; err == nil {
		result.Coupon = &coupon
	}
	return result, nil
}

type PrivateFeedbackRequest struct {
	BrandID uuid.UUID `json:"brand_id" binding:"required"`
	Stars   int       `json:"stars" binding:"required"`
	Chips   []string  `json:"chips"`
	Message string    `json:"message"`
}

// SubmitPrivateFeedback records 1-3 star feedback. Ratings of 4+ belong
// in the verification pipeline and are rejected here.
func (s *VerificationService) SubmitPrivateFeedback(userID uuid.UUID, req PrivateFeedbackRequest) (*models.PrivateFeedback, error) {
	if req.Stars < 1 || req.Stars >= MinRewardStars {
		return nil, ErrIneligibleRating
	}
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", req.BrandID).Error; err != nil {
		return nil, ErrBrandNotFound
	}
	feedback := models.PrivateFeedback{
		BrandID: req.BrandID,
		UserID:  &userID,
		Stars:   req.Stars,
		Chips:   req.Chips,
		Message: req.Message,
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return &feedback, nil
}

func (s *VerificationService) ListBrandFeedback(brandID uuid.UUID) ([]models.PrivateFeedback, error) {
	var feedback []models.PrivateFeedback
	err := s.db.Where("brand_id = ?", brandID).Order("created_at DESC").Find(&feedback).Error
	return feedback, err
}

func (s *VerificationService) MarkFeedbackRead(id uuid.UUID) error {
	return s.db.Model(&models.PrivateFeedback{}).Where("id = ?", id).Update("is_read", true).Error
}

func (s *VerificationService) ListBrandReviews(brandID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("brand_id = ?", brandID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *VerificationService) MarkReviewReplied(id uuid.UUID) error {
	return s.db.Model(&models.Review{}).Where("id = ?", id).Update("replied", true).Error
}

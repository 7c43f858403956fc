package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// statuses; everything else surfaces as an internal error.
var (
	ErrBrandNotFound      = errors.New("brand not found")
	ErrBrandNotConfigured = errors.New("brand has no Google Place ID configured")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("forbidden")
	ErrIneligibleRating   = errors.New("only 4-5 star reviews qualify for rewards")
	ErrUserNotFound       = errors.New("user not found")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponNotActive    = errors.New("coupon already redeemed or not found")
	ErrCodeCollision      = errors.New("coupon code collision")
	ErrAdNotFound         = errors.New("ad not found")
	ErrBannerNotFound     = errors.New("banner not found")
)

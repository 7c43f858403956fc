package services

import (
	"strings"
	"testing"

	"github.com/reviewrise/reviewrise-backend/internal/models"
	"gorm.io/gorm"
)

func newTestEngagementService(db *gorm.DB) *EngagementService {
	coupons := NewCouponService(db, nil, DefaultCooldownDays)
	return NewEngagementService(db, coupons, nil, "http://localhost:3000")
}

func TestRecordAdViewThresholdReward(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "viewer@test.com")
	brand := createTestBrand(t, db, "Ad Cafe")
	svc := newTestEngagementService(db)

	var ads []*models.Ad
	for _, title := range []string{"One", "Two", "Three"} {
		ad, err := svc.CreateAd(user.ID, CreateAdRequest{BrandID: brand.ID, Title: title})
		if err != nil {
			t.Fatalf("CreateAd failed: %v", err)
		}
		ads = append(ads, ad)
	}

	first, err := svc.RecordAdView(user.ID, user.Name, ads[0].ID)
	if err != nil {
		t.Fatalf("RecordAdView failed: %v", err)
	}
	if first.Watched != 1 || first.Reward != nil {
		t.Errorf("one view should not earn a reward: watched=%d reward=%v", first.Watched, first.Reward)
	}

	// Rewatching the same ad must not advance the count.
	again, err := svc.RecordAdView(user.ID, user.Name, ads[0].ID)
	if err != nil {
		t.Fatalf("RecordAdView failed: %v", err)
	}
	if again.Watched != 1 {
		t.Errorf("rewatch should not count twice, got %d", again.Watched)
	}

	if _, err := svc.RecordAdView(user.ID, user.Name, ads[1].ID); err != nil {
		t.Fatalf("RecordAdView failed: %v", err)
	}
	third, err := svc.RecordAdView(user.ID, user.Name, ads[2].ID)
	if err != nil {
		t.Fatalf("RecordAdView failed: %v", err)
	}
	if third.Watched != 3 {
		t.Fatalf("expected 3 distinct views, got %d", third.Watched)
	}
	if third.Reward == nil {
		t.Fatal("the third distinct view should earn the ads reward")
	}
	if !strings.HasPrefix(third.Reward.Code, "ADS") {
		t.Errorf("expected ADS coupon, got %q", third.Reward.Code)
	}

	var fresh models.Ad
	db.First(&fresh, "id = ?", ads[0].ID)
	if fresh.Views != 2 {
		t.Errorf("view counter should count rewatches, got %d", fresh.Views)
	}
}

func TestToggleAd(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "toggler@test.com")
	brand := createTestBrand(t, db, "Toggle Cafe")
	svc := newTestEngagementService(db)

	ad, err := svc.CreateAd(user.ID, CreateAdRequest{BrandID: brand.ID, Title: "Switch"})
	if err != nil {
		t.Fatalf("CreateAd failed: %v", err)
	}

	toggled, err := svc.ToggleAd(ad.ID)
	if err != nil {
		t.Fatalf("ToggleAd failed: %v", err)
	}
	if toggled.Active {
		t.Error("expected the ad to be deactivated")
	}

	active, err := svc.ListActiveAds()
	if err != nil {
		t.Fatalf("ListActiveAds failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("deactivated ads should not list, got %d", len(active))
	}
}

func TestCreateQRCodeBuildsReviewURL(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "qr@test.com")
	brand := createTestBrand(t, db, "QR Cafe")
	svc := newTestEngagementService(db)

	qr, err := svc.CreateQRCode(user.ID, brand.ID, "Table 4")
	if err != nil {
		t.Fatalf("CreateQRCode failed: %v", err)
	}
	if !strings.Contains(qr.URL, "brand="+brand.ID.String()) {
		t.Errorf("QR URL should carry the brand id: %s", qr.URL)
	}
	if !strings.Contains(qr.URL, "t=Table+4") && !strings.Contains(qr.URL, "t=Table%204") {
		t.Errorf("QR URL should carry the table label: %s", qr.URL)
	}

	defaulted, err := svc.CreateQRCode(user.ID, brand.ID, "")
	if err != nil {
		t.Fatalf("CreateQRCode failed: %v", err)
	}
	if defaulted.TableLabel != "Main" {
		t.Errorf("empty label should default to Main, got %q", defaulted.TableLabel)
	}
}

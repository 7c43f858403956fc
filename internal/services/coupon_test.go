package services

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/models"
)

func TestCodePrefix(t *testing.T) {
	tests := []struct {
		brandName string
		want      string
	}{
		{"Blue Tokai", "BLU"},
		{"cafe", "CAF"},
		{"A1 Snacks", "ASN"},
		{"K2", "K"},
		{"123!", "RRW"},
		{"", "RRW"},
	}
	for _, tt := range tests {
		if got := codePrefix(tt.brandName); got != tt.want {
			t.Errorf("codePrefix(%q) = %q, want %q", tt.brandName, got, tt.want)
		}
	}
}

func TestCouponCodeShape(t *testing.T) {
	code := couponCode("Blue Tokai")
	if len(code) != 9 {
		t.Fatalf("expected 3+6 characters, got %q", code)
	}
	if !strings.HasPrefix(code, "BLU") {
		t.Errorf("expected BLU prefix, got %q", code)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Errorf("unexpected character %q in code %q", r, code)
		}
	}
}

func TestIssueForVerifiedSessionCooldown(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "cooldown@test.com")
	brand := createTestBrand(t, db, "Cafe Uno")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	first, err := svc.IssueForVerifiedSession(uuid.New(), user.ID, brand.ID, 5)
	if err != nil {
		t.Fatalf("first issuance failed: %v", err)
	}
	if first.AlreadyIssued {
		t.Fatal("first issuance should mint a new coupon")
	}

	// A second verified session inside the window returns the same coupon.
	second, err := svc.IssueForVerifiedSession(uuid.New(), user.ID, brand.ID, 4)
	if err != nil {
		t.Fatalf("second issuance failed: %v", err)
	}
	if !second.AlreadyIssued {
		t.Error("second issuance within the cooldown should not mint")
	}
	if first.Coupon.Code != second.Coupon.Code {
		t.Errorf("expected the existing coupon back, got %q vs %q", first.Coupon.Code, second.Coupon.Code)
	}

	var count int64
	db.Model(&models.Coupon{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one coupon row, got %d", count)
	}

	// A different brand is outside the cooldown scope.
	other := createTestBrand(t, db, "Cafe Dos")
	third, err := svc.IssueForVerifiedSession(uuid.New(), user.ID, other.ID, 5)
	if err != nil {
		t.Fatalf("issuance for another brand failed: %v", err)
	}
	if third.AlreadyIssued {
		t.Error("the cooldown is per brand, a new brand should mint")
	}
}

func TestIssueForVerifiedSessionConcurrentMintsOnce(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A single pooled connection keeps every goroutine on the same
	// in-memory database.
	sqlDB.SetMaxOpenConns(1)

	user := createTestUser(t, db, "race@test.com")
	brand := createTestBrand(t, db, "Race Cafe")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	// Distinct verified sessions racing to issue for one (user, brand):
	// the transactional guard must let exactly one mint.
	const workers = 4
	results := make([]*IssueResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.IssueForVerifiedSession(uuid.New(), user.ID, brand.ID, 5)
		}(i)
	}
	wg.Wait()

	minted := 0
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("issuance %d failed: %v", i, errs[i])
		}
		if !results[i].AlreadyIssued {
			minted++
		}
		if results[i].Coupon.Code != results[0].Coupon.Code {
			t.Errorf("all callers must see the same coupon: %q vs %q",
				results[i].Coupon.Code, results[0].Coupon.Code)
		}
	}
	if minted != 1 {
		t.Errorf("expected exactly one mint, got %d", minted)
	}

	var count int64
	db.Model(&models.Coupon{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one coupon row, got %d", count)
	}
}

func TestIssueForVerifiedSessionOutsideCooldown(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "comeback@test.com")
	brand := createTestBrand(t, db, "Cafe Tres")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	old := models.Coupon{
		Code:      "OLDAAAAAA",
		BrandID:   brand.ID,
		UserID:    &user.ID,
		Source:    models.CouponSourceReview,
		Status:    models.CouponRedeemed,
		ExpiresAt: time.Now().AddDate(0, 0, -10),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("failed to seed old coupon: %v", err)
	}
	db.Model(&old).UpdateColumn("issued_at", time.Now().AddDate(0, 0, -40))

	result, err := svc.IssueForVerifiedSession(uuid.New(), user.ID, brand.ID, 5)
	if err != nil {
		t.Fatalf("issuance failed: %v", err)
	}
	if result.AlreadyIssued {
		t.Error("a coupon older than the cooldown window should not block minting")
	}
}

func TestCreateWithRetryRegeneratesOnCollision(t *testing.T) {
	db := setupTestDB(t)
	brand := createTestBrand(t, db, "Collide")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	taken := models.Coupon{
		Code:      "COLAAAAAA",
		BrandID:   brand.ID,
		Source:    models.CouponSourceManual,
		Status:    models.CouponActive,
		ExpiresAt: time.Now().AddDate(0, 0, 30),
	}
	if err := db.Create(&taken).Error; err != nil {
		t.Fatalf("failed to seed coupon: %v", err)
	}

	dup := models.Coupon{
		Code:      "COLAAAAAA",
		BrandID:   brand.ID,
		Source:    models.CouponSourceManual,
		Status:    models.CouponActive,
		ExpiresAt: time.Now().AddDate(0, 0, 30),
	}
	if err := svc.createWithRetry(db, &dup, brand.Name); err != nil {
		t.Fatalf("retry should recover from a code collision: %v", err)
	}
	if dup.Code == taken.Code {
		t.Errorf("retry must regenerate the code, still %q", dup.Code)
	}
}

func TestGenerateManualOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "theowner@test.com")
	stranger := createTestUser(t, db, "stranger@test.com")
	brand := createTestBrand(t, db, "Owned Cafe")
	db.Model(brand).Update("owner_id", owner.ID)
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	req := ManualCouponRequest{BrandID: brand.ID, Discount: "10% OFF", MinOrder: 300}

	_, err := svc.GenerateManual(stranger.ID, models.RoleBrandOwner, req)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("a brand owner cannot mint for someone else's brand, got %v", err)
	}

	coupon, err := svc.GenerateManual(owner.ID, models.RoleBrandOwner, req)
	if err != nil {
		t.Fatalf("GenerateManual failed: %v", err)
	}
	if coupon.Source != models.CouponSourceManual {
		t.Errorf("expected manual source, got %q", coupon.Source)
	}
	if coupon.UserName != "Manual Coupon" {
		t.Errorf("expected placeholder holder name, got %q", coupon.UserName)
	}

	// Superadmins bypass the ownership check.
	if _, err := svc.GenerateManual(stranger.ID, models.RoleSuperAdmin, req); err != nil {
		t.Errorf("superadmin minting failed: %v", err)
	}
}

func TestVerifyCodeNormalizesAndReports(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "cashier@test.com")
	brand := createTestBrand(t, db, "Verify Cafe")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	issue, err := svc.IssueForVerifiedSession(uuid.New(), user.ID, brand.ID, 5)
	if err != nil {
		t.Fatalf("issuance failed: %v", err)
	}

	result, err := svc.VerifyCode(user.ID, models.RoleSuperAdmin, "  "+strings.ToLower(issue.Coupon.Code)+" ")
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got reason %q", result.Reason)
	}

	missing, err := svc.VerifyCode(user.ID, models.RoleSuperAdmin, "NOPE12345")
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if missing.Valid || missing.Reason == "" {
		t.Error("unknown codes should report invalid with a reason")
	}
}

func TestVerifyCodeSweepsExpired(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "late@test.com")
	brand := createTestBrand(t, db, "Expired Cafe")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	stale := models.Coupon{
		Code:      "EXPAAAAAA",
		BrandID:   brand.ID,
		UserID:    &user.ID,
		Source:    models.CouponSourceReview,
		Status:    models.CouponActive,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed coupon: %v", err)
	}

	result, err := svc.VerifyCode(user.ID, models.RoleSuperAdmin, "EXPAAAAAA")
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if result.Valid {
		t.Error("an expired coupon must not verify")
	}

	var fresh models.Coupon
	db.First(&fresh, "id = ?", stale.ID)
	if fresh.Status != models.CouponExpired {
		t.Errorf("lazy sweep should flip status to expired, got %q", fresh.Status)
	}
}

func TestRedeemOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "redeem@test.com")
	brand := createTestBrand(t, db, "Redeem Cafe")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	issue, err := svc.IssueForVerifiedSession(uuid.New(), user.ID, brand.ID, 5)
	if err != nil {
		t.Fatalf("issuance failed: %v", err)
	}

	redeemed, err := svc.Redeem(user.ID, models.RoleSuperAdmin, "Admin", issue.Coupon.ID, "Ravi")
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if redeemed.Status != models.CouponRedeemed {
		t.Errorf("expected redeemed status, got %q", redeemed.Status)
	}
	if redeemed.RedeemedBy != "Ravi" {
		t.Errorf("expected cashier name, got %q", redeemed.RedeemedBy)
	}
	if redeemed.RedeemedAt == nil {
		t.Error("redeemed_at should be set")
	}

	if _, err := svc.Redeem(user.ID, models.RoleSuperAdmin, "Admin", issue.Coupon.ID, ""); !errors.Is(err, ErrCouponNotActive) {
		t.Errorf("double redeem must fail with ErrCouponNotActive, got %v", err)
	}
}

func TestRedeemOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "rown@test.com")
	other := createTestUser(t, db, "roth@test.com")
	brand := createTestBrand(t, db, "Guarded Cafe")
	db.Model(brand).Update("owner_id", owner.ID)
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	issue, err := svc.IssueForVerifiedSession(uuid.New(), other.ID, brand.ID, 5)
	if err != nil {
		t.Fatalf("issuance failed: %v", err)
	}

	if _, err := svc.Redeem(other.ID, models.RoleBrandOwner, "", issue.Coupon.ID, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("a non-owner brand account must not redeem, got %v", err)
	}
	if _, err := svc.Redeem(owner.ID, models.RoleBrandOwner, "Owner", issue.Coupon.ID, ""); err != nil {
		t.Errorf("owner redeem failed: %v", err)
	}
}

func TestCouponListsCarryBrandInfo(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "lister@test.com")
	brand := createTestBrand(t, db, "Listing Cafe")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	if _, err := svc.IssueForVerifiedSession(uuid.New(), user.ID, brand.ID, 5); err != nil {
		t.Fatalf("issuance failed: %v", err)
	}

	mine, err := svc.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected one coupon, got %d", len(mine))
	}
	if mine[0].BrandName != "Listing Cafe" {
		t.Errorf("expected brand name on the row, got %q", mine[0].BrandName)
	}

	all, err := svc.ListAll(0)
	if err != nil || len(all) != 1 || all[0].BrandName != "Listing Cafe" {
		t.Errorf("ListAll should carry brand info: %v %+v", err, all)
	}

	forBrand, err := svc.ListForBrand(user.ID, models.RoleSuperAdmin, brand.ID)
	if err != nil || len(forBrand) != 1 || forBrand[0].BrandName != "Listing Cafe" {
		t.Errorf("ListForBrand should carry brand info: %v %+v", err, forBrand)
	}
}

func TestIssueAdsReward(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "watcher@test.com")
	createTestBrand(t, db, "Ads Cafe")
	svc := NewCouponService(db, nil, DefaultCooldownDays)

	coupon, err := svc.IssueAdsReward(user.ID, "Watcher")
	if err != nil {
		t.Fatalf("IssueAdsReward failed: %v", err)
	}
	if !strings.HasPrefix(coupon.Code, "ADS") {
		t.Errorf("expected ADS prefix, got %q", coupon.Code)
	}
	if coupon.Source != models.CouponSourceAds {
		t.Errorf("expected ads source, got %q", coupon.Source)
	}
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCustomerLogin      = errors.New("customers use Google login (scan QR code)")
	ErrPasswordNotSet     = errors.New("password not set, contact admin")
	ErrGoogleAuthFailed   = errors.New("google authentication failed")
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	client    *http.Client
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type AuthResult struct {
	Token string        `json:"token"`
	User  *models.User  `json:"user"`
	Brand *models.Brand `json:"brand,omitempty"`
}

// Login authenticates brand owners and superadmins with a password.
// Customers are rejected toward the Google flow.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleCustomer {
		return nil, ErrCustomerLogin
	}
	if user.PasswordHash == "" {
		return nil, ErrPasswordNotSet
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, user.Name, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	result := &AuthResult{Token: token, User: &user}
	if user.Role == models.RoleBrandOwner {
		var brand models.Brand
		if err := s.db.Where("owner_id = ?", user.ID).First(&brand).Error; err == nil {
			result.Brand = &brand
		}
	}
	return result, nil
}

type GoogleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Error   string `json:"error"`
}

// GoogleLogin exchanges an OAuth2 access token (or pre-fetched user info)
// for a session, upserting the customer record.
func (s *AuthService) GoogleLogin(accessToken string, userInfo *GoogleUserInfo) (*AuthResult, error) {
	info := userInfo
	if info == nil {
		fetched, err := s.fetchGoogleJSON("https://www.googleapis.com/oauth2/v3/userinfo", accessToken)
		if err != nil {
			return nil, err
		}
		info = fetched
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: no email in profile", ErrGoogleAuthFailed)
	}
	return s.sessionForGoogleUser(info)
}

// GoogleIDTokenLogin handles the One Tap flow: Google sends a signed JWT
// which is verified against Google's tokeninfo endpoint.
func (s *AuthService) GoogleIDTokenLogin(idToken string) (*AuthResult, error) {
	if strings.Count(idToken, ".") != 2 {
		return nil, fmt.Errorf("%w: malformed id_token", ErrGoogleAuthFailed)
	}

	endpoint := "https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(idToken)
	resp, err := s.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleAuthFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleAuthFailed, err)
	}

	var info GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleAuthFailed, err)
	}
	if info.Error != "" || resp.StatusCode != http.StatusOK || info.Email == "" {
		return nil, fmt.Errorf("%w: token rejected", ErrGoogleAuthFailed)
	}
	return s.sessionForGoogleUser(&info)
}

func (s *AuthService) fetchGoogleJSON(endpoint, bearer string) (*GoogleUserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleAuthFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGoogleAuthFailed, resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleAuthFailed, err)
	}
	return &info, nil
}

func (s *AuthService) sessionForGoogleUser(info *GoogleUserInfo) (*AuthResult, error) {
	name := info.Name
	if name == "" {
		name = strings.Split(info.Email, "@")[0]
	}

	user := models.User{
		Name:      name,
		Email:     strings.ToLower(info.Email),
		AvatarURL: info.Picture,
		Role:      models.RoleCustomer,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "avatar_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	// Re-read to pick up the persisted row on the upsert path.
	var persisted models.User
	if err := s.db.Where("email = ?", user.Email).First(&persisted).Error; err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(persisted.ID, persisted.Email, persisted.Role, persisted.Name, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: &persisted}, nil
}

// Me returns the caller's profile.
func (s *AuthService) Me(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// RegisterBrandOwner provisions (or re-keys) a brand owner login and
// optionally attaches them to a brand. Superadmin only; enforced at the
// route layer.
func (s *AuthService) RegisterBrandOwner(name, email, password string, brandID *uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Name:  name,
			Email: strings.ToLower(strings.TrimSpace(email)),
			Role:  models.RoleBrandOwner,
		}
		if err := user.SetPassword(password); err != nil {
			return nil, err
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		if err := user.SetPassword(password); err != nil {
			return nil, err
		}
		user.Role = models.RoleBrandOwner
		if err := s.db.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	if brandID != nil {
		if err := s.db.Model(&models.Brand{}).Where("id = ?", *brandID).Update("owner_id", user.ID).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

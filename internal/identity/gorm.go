package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credential is one principal's login row. ID is the principal id shared with
// the accounts collection.
type Credential struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Email        string  `gorm:"not null;uniqueIndex:idx_credentials_email"`
	PasswordHash *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_credentials_google_sub"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResetToken is a single-use password reset token, valid for one hour.
type ResetToken struct {
	ID          uint   `gorm:"primaryKey"`
	PrincipalID string `gorm:"size:36;index"`
	Token       string `gorm:"uniqueIndex"`
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

type GormService struct {
	db *gorm.DB
}

func NewGormService(db *gorm.DB) *GormService {
	return &GormService{db: db}
}

func (s *GormService) SignUp(ctx context.Context, email, password string) (Principal, error) {
	if err := validateSignUp(email, password); err != nil {
		return Principal{}, err
	}

	var existing Credential
	if err := s.db.WithContext(ctx).First(&existing, "email = ?", email).Error; err == nil {
		return Principal{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Principal{}, err
	}
	hash := string(hashed)

	cred := Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: &hash,
		AuthProvider: "local",
	}
	if err := s.db.WithContext(ctx).Create(&cred).Error; err != nil {
		// Unique index race on email.
		return Principal{}, ErrEmailTaken
	}
	return Principal{ID: cred.ID, Email: cred.Email}, nil
}

func (s *GormService) SignIn(ctx context.Context, email, password string) (Principal, error) {
	var cred Credential
	if err := s.db.WithContext(ctx).First(&cred, "email = ?", email).Error; err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	if cred.PasswordHash == nil || *cred.PasswordHash == "" {
		// Google-linked principal without a password.
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*cred.PasswordHash), []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{ID: cred.ID, Email: cred.Email}, nil
}

func (s *GormService) SignOut(ctx context.Context, principalID string) error {
	return nil
}

func (s *GormService) SendPasswordReset(ctx context.Context, email string) (string, error) {
	var cred Credential
	if err := s.db.WithContext(ctx).First(&cred, "email = ?", email).Error; err != nil {
		return "", ErrNotFound
	}

	// One outstanding token per principal.
	s.db.WithContext(ctx).Where("principal_id = ?", cred.ID).Delete(&ResetToken{})

	token := newResetToken()
	reset := ResetToken{
		PrincipalID: cred.ID,
		Token:       token,
		ExpiresAt:   time.Now().Add(1 * time.Hour),
	}
	if err := s.db.WithContext(ctx).Create(&reset).Error; err != nil {
		return "", err
	}
	return token, nil
}

func (s *GormService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !isPasswordStrong(newPassword) {
		return ErrWeakPassword
	}

	var reset ResetToken
	err := s.db.WithContext(ctx).First(&reset, "token = ?", token).Error
	if err != nil || reset.ExpiresAt.Before(time.Now()) {
		return ErrBadResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&Credential{}).
		Where("id = ?", reset.PrincipalID).
		Update("password_hash", string(hashed)).Error; err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&reset).Error
}

func (s *GormService) FindOrCreateGoogle(ctx context.Context, googleSub, email string) (Principal, bool, error) {
	var cred Credential

	if err := s.db.WithContext(ctx).First(&cred, "google_sub = ?", googleSub).Error; err == nil {
		return Principal{ID: cred.ID, Email: cred.Email}, false, nil
	}

	// Link an existing local principal with the same email.
	if err := s.db.WithContext(ctx).First(&cred, "email = ?", email).Error; err == nil {
		if cred.GoogleSub == nil {
			sub := googleSub
			cred.GoogleSub = &sub
			cred.AuthProvider = "google"
			if err := s.db.WithContext(ctx).Save(&cred).Error; err != nil {
				return Principal{}, false, err
			}
		}
		return Principal{ID: cred.ID, Email: cred.Email}, false, nil
	}

	sub := googleSub
	cred = Credential{
		ID:           uuid.NewString(),
		Email:        email,
		AuthProvider: "google",
		GoogleSub:    &sub,
	}
	if err := s.db.WithContext(ctx).Create(&cred).Error; err != nil {
		return Principal{}, false, err
	}
	return Principal{ID: cred.ID, Email: cred.Email}, true, nil
}

func newResetToken() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

var _ Service = (*GormService)(nil)

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/models"
)

// profileService handles anonymous guest profiles: accounts identified only
// by a chosen username, with no password and a synthetic email.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// CreateOrGetGuest returns the existing profile for the username, or creates
// a new one. The second return value reports whether a row was created.
func (s *profileService) CreateOrGetGuest(username string) (*models.User, bool, error) {
	if username == "" {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Username is required")
	}

	var existing models.User
	err := s.db.Where("name = ?", username).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Synthetic unique address keeps the email uniqueness constraint happy
	// without asking the guest for one.
	slug := strings.ReplaceAll(strings.ToLower(username), " ", "")
	email := fmt.Sprintf("%s_%s@guest.local", slug, uuid.New().String()[:8])

	user := &models.User{
		Name:  username,
		Email: email,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, true, nil
}

// GetGuestByUsername looks up a profile by username.
func (s *profileService) GetGuestByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("name = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

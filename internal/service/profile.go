package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/templui/dailybible/internal/model"
	"github.com/templui/dailybible/internal/repository"
	"github.com/templui/dailybible/internal/validation"
)

var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the editable part of a signed-in user's profile.
type Settings struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	AgeRange     string `json:"ageRange"`
	Denomination string `json:"denomination"`
	Church       string `json:"church"`
	Goal         string `json:"goal,omitempty"`
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(userID)
}

func (s *ProfileService) Settings(userID string) (*Settings, error) {
	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile, err := s.profileOrEmpty(userID)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Email:        user.Email,
		Name:         profile.Name,
		AgeRange:     profile.AgeRange,
		Denomination: profile.Denomination,
		Church:       profile.Church,
		Goal:         profile.Goal,
	}, nil
}

// UpdateSettings saves name, age range, denomination and church. Email is not editable here.
func (s *ProfileService) UpdateSettings(userID string, in Settings) (*Settings, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Church = strings.TrimSpace(in.Church)

	err := validation.ValidateName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSetting, err.Error())
	}
	err = validation.ValidateChurch(in.Church)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSetting, err.Error())
	}
	if in.AgeRange != "" && !validation.OneOf(in.AgeRange, model.AgeRanges) {
		return nil, fmt.Errorf("%w: age range %q", ErrInvalidSetting, in.AgeRange)
	}
	if in.Denomination != "" && !validation.OneOf(in.Denomination, model.Denominations) {
		return nil, fmt.Errorf("%w: denomination %q", ErrInvalidSetting, in.Denomination)
	}

	profile, err := s.profileOrEmpty(userID)
	if err != nil {
		return nil, err
	}

	profile.Name = in.Name
	profile.AgeRange = in.AgeRange
	profile.Denomination = in.Denomination
	profile.Church = in.Church

	if profile.ID == "" {
		err = s.profileRepo.Create(profile)
	} else {
		err = s.profileRepo.Update(profile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return s.Settings(userID)
}

func (s *ProfileService) profileOrEmpty(userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return &model.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

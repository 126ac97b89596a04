package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/dailybible/internal/kv"
	"github.com/templui/dailybible/internal/model"
	"github.com/templui/dailybible/internal/repository"
	"github.com/templui/dailybible/internal/validation"
)

var ErrInvalidAnswer = errors.New("invalid onboarding answer")

type OnboardingStatus struct {
	Completed bool                     `json:"completed"`
	Answers   *model.OnboardingAnswers `json:"answers,omitempty"`
}

type OnboardingService struct {
	stores      *DeviceStores
	profileRepo repository.ProfileRepository
}

func NewOnboardingService(stores *DeviceStores, profileRepo repository.ProfileRepository) *OnboardingService {
	return &OnboardingService{stores: stores, profileRepo: profileRepo}
}

// Status reports whether the device finished onboarding. Unreadable values count as not done.
func (s *OnboardingService) Status(deviceID string) *OnboardingStatus {
	store := s.stores.Open(deviceID)
	status := &OnboardingStatus{}

	_, err := kv.GetJSON(store, KeyHasCompletedOnboarding, &status.Completed)
	if err != nil {
		slog.Warn("failed to read onboarding flag", "error", err, "device_id", deviceID)
		status.Completed = false
	}

	var answers model.OnboardingAnswers
	ok, err := kv.GetJSON(store, KeyOnboardingAnswers, &answers)
	if err != nil {
		slog.Warn("failed to read onboarding answers", "error", err, "device_id", deviceID)
	}
	if ok && err == nil {
		status.Answers = &answers
	}

	return status
}

// Complete stores the answers on the device and, for a signed-in user, in the profile.
func (s *OnboardingService) Complete(deviceID, userID string, answers model.OnboardingAnswers) error {
	err := validateAnswers(answers)
	if err != nil {
		return err
	}

	store := s.stores.Open(deviceID)
	err = kv.SetJSON(store, KeyOnboardingAnswers, answers)
	if err != nil {
		return fmt.Errorf("failed to save onboarding answers: %w", err)
	}
	err = kv.SetJSON(store, KeyHasCompletedOnboarding, true)
	if err != nil {
		return fmt.Errorf("failed to save onboarding flag: %w", err)
	}

	if userID == "" {
		return nil
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		profile = &model.Profile{UserID: userID}
		applyAnswers(profile, answers)
		return s.profileRepo.Create(profile)
	}
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	applyAnswers(profile, answers)
	err = s.profileRepo.Update(profile)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

func validateAnswers(a model.OnboardingAnswers) error {
	if a.Denomination != "" && !validation.OneOf(a.Denomination, model.Denominations) {
		return fmt.Errorf("%w: denomination %q", ErrInvalidAnswer, a.Denomination)
	}
	if a.AgeGroup != "" && !validation.OneOf(a.AgeGroup, model.AgeRanges) {
		return fmt.Errorf("%w: age group %q", ErrInvalidAnswer, a.AgeGroup)
	}
	if a.Goal != "" && !validation.OneOf(a.Goal, model.Goals) {
		return fmt.Errorf("%w: goal %q", ErrInvalidAnswer, a.Goal)
	}
	return nil
}

func applyAnswers(p *model.Profile, a model.OnboardingAnswers) {
	if a.Denomination != "" {
		p.Denomination = a.Denomination
	}
	if a.AgeGroup != "" {
		p.AgeRange = a.AgeGroup
	}
	if a.Goal != "" {
		p.Goal = a.Goal
	}
}

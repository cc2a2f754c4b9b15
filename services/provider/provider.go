package provider

import (
	"context"
	"math"
	"strings"
	"time"

	"servicehub/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

func validateRegistration(reg models.ProviderRegistration) error {
	switch {
	case strings.TrimSpace(reg.BusinessName) == "":
		return errors.NotValidf("empty business name")
	case !reg.Category.Valid():
		return errors.NotValidf("category %q", reg.Category)
	case math.IsNaN(reg.HourlyRate) || math.IsInf(reg.HourlyRate, 0) || reg.HourlyRate < 0:
		return errors.NotValidf("hourly rate %v", reg.HourlyRate)
	case reg.ExperienceYears < 0:
		return errors.NotValidf("experience %d", reg.ExperienceYears)
	case reg.Location != nil && !reg.Location.Valid():
		return errors.NotValidf("location")
	}
	return nil
}

func formatAddress(a models.Address) string {
	var parts []string
	for _, p := range []string{a.Street, a.City, a.State, a.ZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// RegisterProvider creates an unverified provider profile. When no
// coordinates are given the address is geocoded; a failed lookup leaves the
// profile without a location, which keeps it out of nearby searches.
func (s *DefaultProviderService) RegisterProvider(ctx context.Context, userID string, reg models.ProviderRegistration) (*models.Provider, error) {
	if userID == "" {
		return nil, errors.NotValidf("empty account id")
	}
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetByUserID(ctx, userID); err == nil {
		return nil, errors.AlreadyExistsf("provider for account %q", userID)
	} else if !errors.Is(err, errors.NotFound) {
		return nil, errors.Trace(err)
	}

	location := reg.Location
	if location == nil && s.Geocoder != nil {
		if addr := formatAddress(reg.Address); addr != "" {
			if p, ok := s.Geocoder.Geocode(ctx, addr); ok {
				location = p
			} else {
				s.Logger.Info("Address not geocoded; provider has no location", zap.String("userId", userID))
			}
		}
	}

	now := time.Now().UTC()
	provider := &models.Provider{
		ID:              uuid.New().String(),
		UserID:          userID,
		BusinessName:    strings.TrimSpace(reg.BusinessName),
		Tagline:         reg.Tagline,
		Description:     reg.Description,
		Category:        reg.Category,
		ExperienceYears: reg.ExperienceYears,
		HourlyRate:      reg.HourlyRate,
		Location:        location,
		Address:         reg.Address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, provider); err != nil {
		return nil, err
	}
	s.Logger.Info("Provider registered", zap.String("providerId", provider.ID), zap.String("userId", userID))
	return provider, nil
}

func validateProfileUpdate(u models.ProviderProfileUpdate) error {
	switch {
	case u.Empty():
		return errors.NotValidf("empty profile update")
	case u.BusinessName != nil && strings.TrimSpace(*u.BusinessName) == "":
		return errors.NotValidf("empty business name")
	case u.Category != nil && !u.Category.Valid():
		return errors.NotValidf("category %q", *u.Category)
	case u.HourlyRate != nil && (math.IsNaN(*u.HourlyRate) || math.IsInf(*u.HourlyRate, 0) || *u.HourlyRate < 0):
		return errors.NotValidf("hourly rate %v", *u.HourlyRate)
	case u.ExperienceYears != nil && *u.ExperienceYears < 0:
		return errors.NotValidf("experience %d", *u.ExperienceYears)
	case u.Location != nil && !u.Location.Valid():
		return errors.NotValidf("location")
	}
	return nil
}

// UpdateProfile edits the caller's own provider profile. A new address
// without coordinates is geocoded; when the lookup fails the previous
// location is kept.
func (s *DefaultProviderService) UpdateProfile(ctx context.Context, accountID string, update models.ProviderProfileUpdate) (*models.Provider, error) {
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}
	current, err := s.Repo.GetByUserID(ctx, accountID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if update.BusinessName != nil {
		name := strings.TrimSpace(*update.BusinessName)
		update.BusinessName = &name
	}
	if update.Location == nil && update.Address != nil && s.Geocoder != nil {
		if addr := formatAddress(*update.Address); addr != "" {
			if p, ok := s.Geocoder.Geocode(ctx, addr); ok {
				update.Location = p
			}
		}
	}

	p, err := s.Repo.UpdateProfile(ctx, current.ID, update)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.Logger.Info("Provider profile updated", zap.String("providerId", p.ID))
	return p, nil
}

func (s *DefaultProviderService) ListProviders(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, errors.NotValidf("category %q", filter.Category)
	}
	if filter.MinRating < 0 || filter.MaxPrice < 0 {
		return nil, errors.NotValidf("negative filter")
	}
	return s.Repo.List(ctx, filter)
}

func (s *DefaultProviderService) GetProvider(ctx context.Context, providerID string) (*models.ProviderDetail, error) {
	p, err := s.Repo.GetByID(ctx, providerID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	services, err := s.Services.ListActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &models.ProviderDetail{Provider: *p, Services: services}, nil
}

func (s *DefaultProviderService) VerifyProvider(ctx context.Context, providerID string) (*models.Provider, error) {
	p, err := s.Repo.SetVerified(ctx, providerID, true)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.Logger.Info("Provider verified", zap.String("providerId", providerID))
	return p, nil
}

func (s *DefaultProviderService) GetDashboardStats(ctx context.Context, accountID string) (*models.ProviderStatsView, error) {
	p, err := s.Repo.GetByUserID(ctx, accountID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return s.Stats.GetProviderStats(ctx, p.ID)
}

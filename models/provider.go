package models

import (
	"math"
	"time"
)

// ProviderCategory is the trade a provider offers.
type ProviderCategory string

const (
	CategoryPlumber         ProviderCategory = "Plumber"
	CategoryElectrician     ProviderCategory = "Electrician"
	CategoryPainter         ProviderCategory = "Painter"
	CategoryCleaner         ProviderCategory = "Cleaner"
	CategoryMechanic        ProviderCategory = "Mechanic"
	CategorySalon           ProviderCategory = "Salon"
	CategoryCarpenter       ProviderCategory = "Carpenter"
	CategoryGardener        ProviderCategory = "Gardener"
	CategoryACRepair        ProviderCategory = "AC Repair"
	CategoryApplianceRepair ProviderCategory = "Appliance Repair"
	CategoryPestControl     ProviderCategory = "Pest Control"
	CategoryMoving          ProviderCategory = "Moving"
)

var providerCategories = map[ProviderCategory]bool{
	CategoryPlumber: true, CategoryElectrician: true, CategoryPainter: true,
	CategoryCleaner: true, CategoryMechanic: true, CategorySalon: true,
	CategoryCarpenter: true, CategoryGardener: true, CategoryACRepair: true,
	CategoryApplianceRepair: true, CategoryPestControl: true, CategoryMoving: true,
}

// Valid reports whether c is one of the known trades.
func (c ProviderCategory) Valid() bool {
	return providerCategories[c]
}

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
}

// Rating is derived from every review of the provider.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// ProviderStats are maintained incrementally by booking events.
type ProviderStats struct {
	TotalBookings     int     `bson:"totalBookings" json:"totalBookings"`
	CompletedBookings int     `bson:"completedBookings" json:"completedBookings"`
	CompletionRate    int     `bson:"completionRate" json:"completionRate"`
	TotalEarnings     float64 `bson:"totalEarnings" json:"totalEarnings"`
}

type Provider struct {
	ID              string           `bson:"id" json:"id"`
	UserID          string           `bson:"userId" json:"userId"`
	BusinessName    string           `bson:"businessName" json:"businessName"`
	Tagline         string           `bson:"tagline" json:"tagline,omitempty"`
	Description     string           `bson:"description" json:"description,omitempty"`
	Category        ProviderCategory `bson:"category" json:"category"`
	ExperienceYears int              `bson:"experienceYears" json:"experienceYears"`
	HourlyRate      float64          `bson:"hourlyRate" json:"hourlyRate"`
	Location        *GeoPoint        `bson:"location,omitempty" json:"location,omitempty"`
	Address         Address          `bson:"address" json:"address"`
	Verified        bool             `bson:"verified" json:"verified"`
	Rating          Rating           `bson:"rating" json:"rating"`
	Stats           ProviderStats    `bson:"stats" json:"stats"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// ProviderStatsView is the dashboard projection of a provider's aggregates.
type ProviderStatsView struct {
	TotalBookings     int     `json:"totalBookings"`
	CompletedBookings int     `json:"completedBookings"`
	CompletionRate    int     `json:"completionRate"`
	TotalEarnings     float64 `json:"totalEarnings"`
	Rating            Rating  `json:"rating"`
}

// NearbyProvider is a search hit. DistanceKm is rounded for display and never persisted.
type NearbyProvider struct {
	Provider   Provider `json:"provider"`
	DistanceKm float64  `json:"distanceKm"`
}

// ProviderRegistration is the input for creating a provider profile.
type ProviderRegistration struct {
	BusinessName    string           `json:"businessName"`
	Tagline         string           `json:"tagline"`
	Description     string           `json:"description"`
	Category        ProviderCategory `json:"category"`
	ExperienceYears int              `json:"experienceYears"`
	HourlyRate      float64          `json:"hourlyRate"`
	Location        *GeoPoint        `json:"location"`
	Address         Address          `json:"address"`
}

// ProviderProfileUpdate carries the profile fields an owner may edit. Nil
// fields are left unchanged; stats, rating and verification are never edited
// through it.
type ProviderProfileUpdate struct {
	BusinessName    *string           `json:"businessName"`
	Tagline         *string           `json:"tagline"`
	Description     *string           `json:"description"`
	Category        *ProviderCategory `json:"category"`
	ExperienceYears *int              `json:"experienceYears"`
	HourlyRate      *float64          `json:"hourlyRate"`
	Location        *GeoPoint         `json:"location"`
	Address         *Address          `json:"address"`
}

// Empty reports whether the update changes nothing.
func (u ProviderProfileUpdate) Empty() bool {
	return u.BusinessName == nil && u.Tagline == nil && u.Description == nil && u.Category == nil &&
		u.ExperienceYears == nil && u.HourlyRate == nil && u.Location == nil && u.Address == nil
}

// Apply copies the set fields onto p.
func (u ProviderProfileUpdate) Apply(p *Provider) {
	if u.BusinessName != nil {
		p.BusinessName = *u.BusinessName
	}
	if u.Tagline != nil {
		p.Tagline = *u.Tagline
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.ExperienceYears != nil {
		p.ExperienceYears = *u.ExperienceYears
	}
	if u.HourlyRate != nil {
		p.HourlyRate = *u.HourlyRate
	}
	if u.Location != nil {
		loc := *u.Location
		p.Location = &loc
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
}

// ProviderFilter narrows provider listings. Zero values disable a filter.
type ProviderFilter struct {
	Category  ProviderCategory
	MinRating float64
	MaxPrice  float64
	Verified  *bool
}

// CompletionRate returns round(completed/total*100), rounding halves up, or 0
// when there are no bookings.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(completed)/float64(total)*100 + 0.5))
}

// RoundRating rounds a mean rating to one decimal place, halves up.
func RoundRating(avg float64) float64 {
	return math.Floor(avg*10+0.5) / 10
}

package repository

import (
	bookingRepo "servicehub/database/repository/booking"
	providerRepo "servicehub/database/repository/provider"
	reviewRepo "servicehub/database/repository/review"
	serviceRepo "servicehub/database/repository/service"
	userRepo "servicehub/database/repository/user"
)

// Re-export the repository interfaces so wiring code imports one package.
type (
	ProviderRepository = providerRepo.ProviderRepository
	BookingRepository  = bookingRepo.BookingRepository
	ReviewRepository   = reviewRepo.ReviewRepository
	ServiceRepository  = serviceRepo.ServiceRepository
	UserRepository     = userRepo.UserRepository
	NearbyCriteria     = providerRepo.NearbyCriteria
)

var (
	NewMongoProviderRepo = providerRepo.NewMongoProviderRepo
	NewMongoBookingRepo  = bookingRepo.NewMongoBookingRepo
	NewMongoReviewRepo   = reviewRepo.NewMongoReviewRepo
	NewMongoServiceRepo  = serviceRepo.NewMongoServiceRepo
	NewMongoUserRepo     = userRepo.NewMongoUserRepo
)

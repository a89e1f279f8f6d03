package repository

import (
	listingRepo "courtside/database/repository/listing"
	partnerRepo "courtside/database/repository/partner"
	userRepo "courtside/database/repository/user"
)

// Re-export the ListingRepository interface and constructor.
type ListingRepository = listingRepo.ListingRepository

var NewMongoListingRepo = listingRepo.NewMongoListingRepo

// Re-export the PartnerRepository interface and constructor.
type PartnerRepository = partnerRepo.PartnerRepository

var NewMongoPartnerRepo = partnerRepo.NewMongoPartnerRepo

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepo = userRepo.NewMongoUserRepo

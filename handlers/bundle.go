package handlers

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	Listing *ListingHandler
	Booking *BookingHandler
	Partner *PartnerHandler
	User    *UserHandler
	Auth    *AuthHandler
	Admin   *AdminHandler
	Storage *StorageHandler
	Mail    *MailHandler
	Health  HealthReporter
}

package handlers

import (
	blogRepo "soothe/database/repository/blog"
	userRepo "soothe/database/repository/user"
	"soothe/services/auth"
	"soothe/services/booking"
	"soothe/services/catalog"
	"soothe/services/payment"
	"soothe/services/realtime"
	"soothe/services/review"
	"soothe/services/storage"
)

// HandlerBundle groups all endpoint handlers and the services they dispatch
// to into one struct.
type HandlerBundle struct {
	Auth    *auth.AuthService
	Catalog *catalog.CatalogService
	Booking *booking.BookingService
	Review  *review.ReviewService
	Payment *payment.PaymentService

	Users   userRepo.UserRepository
	Blog    blogRepo.BlogRepository
	Storage storage.MediaStorage
	Hub     *realtime.Hub
}

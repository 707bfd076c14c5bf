package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	bookingRepo "soothe/database/repository/booking"
	"soothe/config"
	"soothe/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

var (
	ErrMissingMetadata = errors.New("missing required metadata")
	ErrBadSignature    = errors.New("webhook signature verification failed")
)

// Notifier mirrors the booking component's notification hook so paid bookings
// reach the therapist the same way direct ones do.
type Notifier interface {
	EnqueueBookingNotify(ctx context.Context, bookingID string) error
}

// PaymentService creates Stripe checkout sessions and turns completed
// checkouts into paid bookings.
type PaymentService struct {
	Bookings bookingRepo.BookingRepository
	Notifier Notifier
}

func NewPaymentService(bookings bookingRepo.BookingRepository, notifier Notifier) *PaymentService {
	return &PaymentService{Bookings: bookings, Notifier: notifier}
}

// CheckoutInput carries everything needed to rebuild the booking once the
// payment completes. It rides along as session metadata.
type CheckoutInput struct {
	Price     float64 `json:"price" binding:"required"`
	ServiceID string  `json:"serviceId" binding:"required"`
	ClientID  string  `json:"clientId"`
	Therapist string  `json:"therapistId" binding:"required"`
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Address   string  `json:"address" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	TimeSlot  string  `json:"timeSlot" binding:"required"`
	Duration  int     `json:"duration" binding:"required"`
	Notes     string  `json:"notes"`
}

// CreateCheckoutSession opens a Stripe checkout for the requested slot and
// returns the hosted payment URL.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (string, error) {
	metadata := map[string]string{
		"therapistId": in.Therapist,
		"serviceId":   in.ServiceID,
		"firstName":   in.FirstName,
		"lastName":    in.LastName,
		"phone":       in.Phone,
		"email":       in.Email,
		"address":     in.Address,
		"date":        in.Date,
		"timeSlot":    in.TimeSlot,
		"duration":    strconv.Itoa(in.Duration),
		"notes":       in.Notes,
	}
	if in.ClientID != "" {
		metadata["clientId"] = in.ClientID
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Service ID: %s", in.ServiceID)),
						Description: stripe.String(fmt.Sprintf("Date: %s, Time: %s, Duration: %dmin",
							in.Date, in.TimeSlot, in.Duration)),
					},
					UnitAmount: stripe.Int64(int64(in.Price*100 + 0.5)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(in.Email),
		SuccessURL:    stripe.String(config.AppConfig.FrontendURL + "/thank-you"),
		CancelURL:     stripe.String(config.AppConfig.FrontendURL + "/cancel"),
	}
	params.Metadata = metadata

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies the Stripe signature and processes the event.
// Only checkout.session.completed carries work; everything else is
// acknowledged and dropped.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, config.AppConfig.StripeWebhookSecret)
	if err != nil {
		return ErrBadSignature
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return s.processCheckoutSession(ctx, &sess)
}

// processCheckoutSession turns a completed checkout into a paid pending
// booking. Replayed events are detected by the payment intent id and
// acknowledged without a second insert.
func (s *PaymentService) processCheckoutSession(ctx context.Context, sess *stripe.CheckoutSession) error {
	meta := sess.Metadata
	if meta == nil {
		return ErrMissingMetadata
	}
	for _, key := range []string{"therapistId", "serviceId", "firstName", "lastName", "phone", "email", "address", "date", "timeSlot", "duration"} {
		if meta[key] == "" {
			return ErrMissingMetadata
		}
	}

	paymentID := ""
	if sess.PaymentIntent != nil {
		paymentID = sess.PaymentIntent.ID
	}
	if paymentID == "" {
		return ErrMissingMetadata
	}

	existing, err := s.Bookings.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to check payment idempotency: %w", err)
	}
	if existing != nil {
		zap.L().Info("Booking already exists for payment",
			zap.String("paymentID", paymentID))
		return nil
	}

	duration, err := strconv.Atoi(meta["duration"])
	if err != nil {
		return fmt.Errorf("invalid duration in metadata: %w", err)
	}

	now := time.Now()
	booking := &models.Booking{
		ID:              uuid.NewString(),
		ClientID:        meta["clientId"],
		TherapistID:     meta["therapistId"],
		ServiceID:       meta["serviceId"],
		Date:            meta["date"],
		TimeSlot:        meta["timeSlot"],
		Duration:        duration,
		Price:           float64(sess.AmountTotal) / 100,
		FirstName:       meta["firstName"],
		LastName:        meta["lastName"],
		Phone:           meta["phone"],
		Email:           meta["email"],
		Address:         meta["address"],
		Notes:           meta["notes"],
		Status:          models.BookingStatusPending,
		Active:          true,
		Messages:        []models.Message{},
		LastReadAt:      map[string]time.Time{},
		PaymentStatus:   models.PaymentStatusPaid,
		StripePaymentID: paymentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		if !errors.Is(err, bookingRepo.ErrSlotTaken) {
			return fmt.Errorf("failed to save booking from webhook: %w", err)
		}
		// The slot was claimed between checkout and completion. The payment
		// is real, so keep the booking rather than dropping a paid
		// engagement on the floor: store it without claiming the slot and
		// let staff resolve the overlap.
		booking.Active = false
		if err := s.Bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("failed to save collided paid booking: %w", err)
		}
		zap.L().Warn("Paid booking collides with an existing slot",
			zap.String("paymentID", paymentID),
			zap.String("serviceID", booking.ServiceID),
			zap.String("date", booking.Date),
			zap.String("timeSlot", booking.TimeSlot))
	}

	zap.L().Info("Booking saved from checkout webhook",
		zap.String("bookingID", booking.ID), zap.String("sessionID", sess.ID))

	if s.Notifier != nil {
		if err := s.Notifier.EnqueueBookingNotify(ctx, booking.ID); err != nil {
			zap.L().Warn("Failed to enqueue booking notification",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
	return nil
}

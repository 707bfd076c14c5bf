package handlers

import (
	"errors"
	"net/http"

	"soothe/middleware"
	"soothe/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateCheckoutSessionHandler opens a Stripe checkout for a slot and
// returns the hosted payment URL.
func (hb *HandlerBundle) CreateCheckoutSessionHandler(c *gin.Context) {
	var input payment.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	// Never trust a client-supplied clientId; bind the authenticated
	// identity if there is one.
	input.ClientID = middleware.UserID(c)

	url, err := hb.Payment.CreateCheckoutSession(c.Request.Context(), input)
	if err != nil {
		getLogger(c).Error("Failed to create checkout session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// StripeWebhookHandler receives payment events. The raw body is required for
// signature verification. Stripe expects 200 once the event is durably
// handled; anything else triggers a retry.
func (hb *HandlerBundle) StripeWebhookHandler(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe-signature header"})
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if err := hb.Payment.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, payment.ErrBadSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
			return
		}
		if errors.Is(err, payment.ErrMissingMetadata) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required metadata"})
			return
		}
		getLogger(c).Error("Failed to process webhook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

package api

import (
	"context"  // Context for cache operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Timestamps in logs

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/cache"  // Cache layer
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain" // Importing domain models
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/ledger" // Donation validator and processor
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/notify" // Notification dispatcher

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreatePaymentRequest represents a donation request
type CreatePaymentRequest struct {
	CollectID uint   `json:"collect_id" binding:"required"`  // Target collect
	Amount    int64  `json:"amount" binding:"required,gt=0"` // Donation amount
	Comment   string `json:"comment"`                        // Optional comment
}

// ListPaymentsHandler returns all payments, read-through cached
func ListPaymentsHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for cache operations
		key := cache.ListKey("payment")
		var cached []PaymentResponse
		// If cached data found, return it
		if found, err := store.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"payments": cached, "cached": true})
			return
		}
		var payments []domain.Payment // Slice to hold payments
		if err := db.Preload("User").Preload("Collect").
			Order("amount").Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
		// Map payments to their representation
		resp := make([]PaymentResponse, len(payments))
		for i := range payments {
			resp[i] = newPaymentResponse(&payments[i])
		}
		_ = store.Set(ctx, key, resp, cache.DefaultTTL) // Cache the response
		c.JSON(http.StatusOK, gin.H{"payments": resp, "cached": false})
	}
}

// GetPaymentHandler returns one payment by ID, read-through cached
func GetPaymentHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
			return
		}
		ctx := context.Background() // Context for cache operations
		key := cache.DetailKey("payment", uint(id))
		var cached PaymentResponse
		// If cached data found, return it
		if found, err := store.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"payment": cached, "cached": true})
			return
		}
		var payment domain.Payment
		if err := db.Preload("User").Preload("Collect").
			First(&payment, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		resp := newPaymentResponse(&payment)
		_ = store.Set(ctx, key, resp, cache.DefaultTTL) // Cache the response
		c.JSON(http.StatusOK, gin.H{"payment": resp, "cached": false})
	}
}

// CreatePaymentHandler accepts a donation from the authenticated user:
// validate, process atomically, invalidate both the payment and the collect
// cache scopes, then dispatch the donor notification.
func CreatePaymentHandler(db *gorm.DB, store cache.Store, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req CreatePaymentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var collect domain.Collect // Fetch the target collect
		if err := db.First(&collect, req.CollectID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collect not found"})
			return
		}
		// Cheap precheck against the fetched state, the processor re-runs
		// it under the row lock
		if err := ledger.CheckDonation(&collect, req.Amount); err != nil {
			writeDonationRejection(c, err)
			return
		}
		// Apply the donation atomically
		payment, err := ledger.ProcessDonation(db, user.ID, req.CollectID, req.Amount, req.Comment)
		if err != nil {
			// A lost race surfaces as the regular rejection
			if writeDonationRejection(c, err) {
				return
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Collect not found"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":    user.ID,
				"collect_id": req.CollectID,
				"amount":     req.Amount,
				"error":      err.Error(),
			}).Error("Donation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Donation failed"})
			return
		}
		// Log successful donation
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"collect_id": payment.CollectID,
			"payment_id": payment.ID,
			"amount":     payment.Amount,
			"timestamp":  time.Now().Format(time.RFC3339),
		}).Info("Donation processed")
		ctx := context.Background()
		// The donation mutated the parent collect's aggregates, so both
		// resource scopes go stale, not just the payment's own
		cache.Invalidate(ctx, store, "payment", payment.ID)
		cache.Invalidate(ctx, store, "collect", payment.CollectID)
		// Fire-and-forget donor notification
		notifier.PaymentCreated(payment.Amount, user.Email)
		c.JSON(http.StatusCreated, gin.H{"payment": newPaymentResponse(payment)})
	}
}

// writeDonationRejection maps the validator's typed rejections to their
// field-scoped 400 payloads. Reports whether err was one of them.
func writeDonationRejection(c *gin.Context, err error) bool {
	var closed *ledger.ClosedCollectError
	if errors.As(err, &closed) {
		c.JSON(http.StatusBadRequest, gin.H{"message": closed.Error()})
		return true
	}
	var overfund *ledger.OverfundError
	if errors.As(err, &overfund) {
		c.JSON(http.StatusBadRequest, gin.H{"amount": overfund.Error()})
		return true
	}
	return false
}

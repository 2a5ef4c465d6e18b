package api

import (
	"bytes"         // Null detection in PATCH bodies
	"context"       // Context for cache operations
	"encoding/json" // Optional field decoding
	"net/http"      // HTTP status codes
	"strconv"       // String conversion
	"time"          // Timestamps in logs

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/cache"  // Cache layer
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain" // Importing domain models
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/notify" // Notification dispatcher

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Row-level locking clause
)

// CreateCollectRequest represents a collect creation request
type CreateCollectRequest struct {
	Title        string `json:"title" binding:"required,max=128"` // Unique title
	Reason       string `json:"reason" binding:"required"`        // birthday, wedding or charity
	Description  string `json:"description"`                      // Free-form description
	TargetAmount *int64 `json:"target_amount"`                    // Optional target, nil means unbounded
	Image        string `json:"image"`                            // Optional image reference
}

// OptionalInt64 separates an absent PATCH field from an explicit null.
// UnmarshalJSON only runs when the key is present, which sets Set; a JSON
// null leaves Value nil.
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt64) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(bytes.TrimSpace(b)) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// UpdateCollectRequest represents a partial collect update. Absent fields
// are left untouched; aggregate fields and the owner are never patchable.
// A null target_amount clears the target, making the collect unbounded.
type UpdateCollectRequest struct {
	Title        *string       `json:"title"`
	Reason       *string       `json:"reason"`
	Description  *string       `json:"description"`
	TargetAmount OptionalInt64 `json:"target_amount"`
	Image        *string       `json:"image"`
}

// ListCollectsHandler returns all collects, read-through cached
func ListCollectsHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for cache operations
		key := cache.ListKey("collect")
		var cached []domain.Collect
		// If cached data found, return it
		if found, err := store.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"collects": cached, "cached": true})
			return
		}
		var collects []domain.Collect // Slice to hold collects
		if err := db.Order("title").Find(&collects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collects"})
			return
		}
		_ = store.Set(ctx, key, collects, cache.DefaultTTL) // Cache the response
		c.JSON(http.StatusOK, gin.H{"collects": collects, "cached": false})
	}
}

// GetCollectHandler returns one collect by ID, read-through cached
func GetCollectHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collect ID"})
			return
		}
		ctx := context.Background() // Context for cache operations
		key := cache.DetailKey("collect", uint(id))
		var cached domain.Collect
		// If cached data found, return it
		if found, err := store.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"collect": cached, "cached": true})
			return
		}
		var collect domain.Collect
		if err := db.First(&collect, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collect not found"})
			return
		}
		_ = store.Set(ctx, key, collect, cache.DefaultTTL) // Cache the response
		c.JSON(http.StatusOK, gin.H{"collect": collect, "cached": false})
	}
}

// CreateCollectHandler creates a collect owned by the authenticated user
func CreateCollectHandler(db *gorm.DB, store cache.Store, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req CreateCollectRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Reason must be one of the allowed values
		reason := domain.Reason(req.Reason)
		if !reason.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reason must be birthday, wedding or charity"})
			return
		}
		// Target amount, when set, must be non-negative
		if req.TargetAmount != nil && *req.TargetAmount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target amount must be non-negative"})
			return
		}
		collect := domain.Collect{
			UserID:       user.ID,
			Title:        req.Title,
			Reason:       reason,
			Description:  req.Description,
			TargetAmount: req.TargetAmount,
			Image:        req.Image,
			// A zero target is met immediately by the empty collect
			IsFinished: req.TargetAmount != nil && *req.TargetAmount == 0,
		}
		// Attempt to create the collect in the database
		if err := db.Create(&collect).Error; err != nil {
			// Creation fails on duplicate title
			c.JSON(http.StatusBadRequest, gin.H{"error": "Collect title already exists"})
			return
		}
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"collect_id": collect.ID,
			"title":      collect.Title,
			"timestamp":  time.Now().Format(time.RFC3339),
		}).Info("Collect created")
		// Invalidate the collect cache scope
		cache.Invalidate(context.Background(), store, "collect", collect.ID)
		// Fire-and-forget owner notification
		notifier.CollectCreated(collect.Title, user.Email)
		c.JSON(http.StatusCreated, gin.H{"collect": collect})
	}
}

// UpdateCollectHandler applies a partial update, owner or superuser only.
// The target amount may not drop below the raised amount; matching it
// exactly finishes the collect in the same update.
func UpdateCollectHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collect ID"})
			return
		}
		var collect domain.Collect
		if err := db.First(&collect, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collect not found"})
			return
		}
		// Authorship rule: owner or superuser
		if !canModify(user, collect.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this collect"})
			return
		}
		var req UpdateCollectRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Title != nil && (*req.Title == "" || len(*req.Title) > 128) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be non-empty and at most 128 characters"})
			return
		}
		if req.Reason != nil && !domain.Reason(*req.Reason).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reason must be birthday, wedding or charity"})
			return
		}
		if req.TargetAmount.Set && req.TargetAmount.Value != nil && *req.TargetAmount.Value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target amount must be non-negative"})
			return
		}
		// Apply the edit under a row lock so the target check cannot race a
		// concurrent donation against the same collect
		err = db.Transaction(func(tx *gorm.DB) error {
			var fresh domain.Collect
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&fresh, collect.ID).Error; err != nil {
				return err
			}
			updates := map[string]any{}
			if req.Title != nil {
				updates["title"] = *req.Title
			}
			if req.Reason != nil {
				updates["reason"] = *req.Reason
			}
			if req.Description != nil {
				updates["description"] = *req.Description
			}
			if req.Image != nil {
				updates["image"] = *req.Image
			}
			if req.TargetAmount.Set {
				if req.TargetAmount.Value == nil {
					// Clearing the target makes the collect unbounded,
					// and an unbounded collect is never finished
					updates["target_amount"] = nil
					updates["is_finished"] = false
				} else {
					// Shrinking the target below the raised amount would
					// break the aggregate invariant, so it is rejected
					if *req.TargetAmount.Value < fresh.CurrentAmount {
						return &targetBelowCurrentError{}
					}
					updates["target_amount"] = *req.TargetAmount.Value
					updates["is_finished"] = *req.TargetAmount.Value == fresh.CurrentAmount
				}
			}
			if len(updates) == 0 {
				return nil // Nothing to change
			}
			return tx.Model(&fresh).Updates(updates).Error
		})
		if err != nil {
			if _, ok := err.(*targetBelowCurrentError); ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logrus.WithFields(logrus.Fields{
				"collect_id": collect.ID,
				"error":      err.Error(),
			}).Error("Collect update failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Collect update failed"})
			return
		}
		// Re-read the updated state for the response
		if err := db.First(&collect, collect.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collect"})
			return
		}
		// Invalidate the collect cache scope
		cache.Invalidate(context.Background(), store, "collect", collect.ID)
		c.JSON(http.StatusOK, gin.H{"collect": collect})
	}
}

// DeleteCollectHandler removes a collect and its payments, owner or
// superuser only
func DeleteCollectHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collect ID"})
			return
		}
		var collect domain.Collect
		if err := db.First(&collect, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collect not found"})
			return
		}
		// Authorship rule: owner or superuser
		if !canModify(user, collect.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this collect"})
			return
		}
		// Cascade the payments with the collect in one transaction. The
		// payment IDs are captured first so their detail cache entries can
		// be invalidated along with the list.
		var paymentIDs []uint
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&domain.Payment{}).Where("collect_id = ?", collect.ID).
				Pluck("id", &paymentIDs).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Where("collect_id = ?", collect.ID).
				Delete(&domain.Payment{}).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&collect).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"collect_id": collect.ID,
				"error":      err.Error(),
			}).Error("Collect deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Collect deletion failed"})
			return
		}
		ctx := context.Background()
		// Invalidate the collect scope, and the payment scope since the
		// cascade removed this collect's payments
		cache.Invalidate(ctx, store, "collect", collect.ID)
		cache.Invalidate(ctx, store, "payment", paymentIDs...)
		c.JSON(http.StatusOK, gin.H{"message": "Collect deleted"})
	}
}

// targetBelowCurrentError rejects target edits below the raised amount.
type targetBelowCurrentError struct{}

func (e *targetBelowCurrentError) Error() string {
	return "Target amount cannot be lower than the current amount"
}

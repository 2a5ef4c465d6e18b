package api

import (
	"context"  // Context for cache operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/cache"  // Cache layer
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ListUsersHandler returns all users, read-through cached
func ListUsersHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for cache operations
		key := cache.ListKey("user")
		var cached []UserResponse
		// If cached data found, return it
		if found, err := store.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"users": cached, "cached": true})
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Order("username").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		// Map users to their public representation
		resp := make([]UserResponse, len(users))
		for i := range users {
			resp[i] = newUserResponse(&users[i])
		}
		_ = store.Set(ctx, key, resp, cache.DefaultTTL) // Cache the response
		c.JSON(http.StatusOK, gin.H{"users": resp, "cached": false})
	}
}

// GetUserHandler returns one user by ID, read-through cached
func GetUserHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		ctx := context.Background() // Context for cache operations
		key := cache.DetailKey("user", uint(id))
		var cached UserResponse
		// If cached data found, return it
		if found, err := store.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"user": cached, "cached": true})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		resp := newUserResponse(&user)
		_ = store.Set(ctx, key, resp, cache.DefaultTTL) // Cache the response
		c.JSON(http.StatusOK, gin.H{"user": resp, "cached": false})
	}
}

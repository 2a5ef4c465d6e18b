package api

import (
	"context"  // Context for cache operations
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/cache"  // Cache layer
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain" // Importing domain models
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for signup
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email must be provided
	Username string `json:"username" binding:"required"`    // Username must be provided
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Request struct for credential issuance
type TokenRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for token refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"` // Refresh token must be provided
}

// TokenPairResponse carries the issued token pair
type TokenPairResponse struct {
	Access  string `json:"access"`  // Access token
	Refresh string `json:"refresh"` // Refresh token
}

// isValidUsername checks if the username contains only alphanumeric characters
func isValidUsername(username string) bool {
	matched, _ := regexp.MatchString(`^[A-Za-z0-9]+$`, username)
	return matched
}

// isValidPassword checks if the password length is between 8 and 15 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 15
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate username and password
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be alphanumeric only"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-15 characters"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Lowercase username to ensure uniqueness
		user := domain.User{
			Username: strings.ToLower(req.Username),
			Email:    strings.ToLower(req.Email),
			Password: string(hash),
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Creation fails on duplicate username or email
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		// Invalidate the user cache scope so the list reflects the signup
		cache.Invalidate(context.Background(), store, "user", user.ID)
		// Return the public representation, password is never echoed
		c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(&user)})
	}
}

// TokenHandler authenticates a user and returns an access/refresh token pair
func TokenHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate the token pair
		access, refresh, err := utils.GenerateTokenPair(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, TokenPairResponse{Access: access, Refresh: refresh})
	}
}

// RefreshTokenHandler exchanges a valid refresh token for a new access token
func RefreshTokenHandler(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The presented token must be a refresh token
		claims, err := utils.ParseJWT(req.Refresh, utils.TokenTypeRefresh, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		access, err := utils.GenerateAccessToken(claims.UserID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

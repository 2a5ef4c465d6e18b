package api

import (
	"net/http" // HTTP status codes

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain"     // Importing domain models
	"github.com/KonstantinPohodyaev/pronin-team-test/internal/middleware" // Context keys

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// canModify implements the authorship rule: write methods other than create
// require the requester to be the resource's owner or a superuser.
func canModify(user *domain.User, ownerID uint) bool {
	return user.Superuser || user.ID == ownerID
}

// currentUser resolves the authenticated user from the request context.
// Writes the error response itself and reports success via the boolean.
func currentUser(c *gin.Context, db *gorm.DB) (*domain.User, bool) {
	userID, exists := c.Get(middleware.UserIDKey) // Get userID from context
	if !exists {
		// If not, return unauthorized
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	var user domain.User // Fetch user from database
	if err := db.First(&user, userID).Error; err != nil {
		// Token refers to a user that no longer exists
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return &user, true
}

package auth

import (
	"bitwise74/roommate-api/internal"
	"bitwise74/roommate-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fetch returns the basic profile of the logged in user. The JWT
// middleware already checked that the account exists and is verified
func Fetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var user model.User

	if err := d.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":     user.Email,
		"name":      user.Name,
		"verified":  user.Verified,
		"createdAt": user.CreatedAt,
	})
}

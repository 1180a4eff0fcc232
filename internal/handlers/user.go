package handlers

import (
	"net/http"

	"forumlink/internal/db"
	"forumlink/internal/models"
	"forumlink/internal/services"
	"forumlink/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	badges *services.BadgeService
}

func NewUserHandler(badges *services.BadgeService) *UserHandler {
	return &UserHandler{badges: badges}
}

// Profile returns a user's public profile with badge-derived rank and
// verification, the same derivation the comment tree applies per node.
func (h *UserHandler) Profile(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "user not found")
		return
	}

	badges := h.badges.FetchBadges(user.ID)

	rank := services.DefaultRank
	if len(badges) > 0 {
		rank = badges[0].Name
	}
	verified := false
	for _, b := range badges {
		if b.Type == models.BadgeTypeAchievement {
			verified = true
			break
		}
	}

	var postCount, commentCount int64
	db.DB.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&postCount)
	db.DB.Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&commentCount)

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"badges":        badges,
		"rank":          rank,
		"is_verified":   verified,
		"post_count":    postCount,
		"comment_count": commentCount,
	})
}

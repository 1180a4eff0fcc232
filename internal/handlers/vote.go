package handlers

import (
	"fmt"
	"log"
	"net/http"

	"forumlink/internal/db"
	"forumlink/internal/models"
	"forumlink/internal/services"
	"forumlink/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct {
	badges *services.BadgeService
	cache  *utils.Cache
}

func NewVoteHandler(badges *services.BadgeService, cache *utils.Cache) *VoteHandler {
	return &VoteHandler{badges: badges, cache: cache}
}

// Upvote handles POST /api/vote/:type/:id
func (h *VoteHandler) Upvote(c *gin.Context) {
	h.vote(c, models.VoteTypeUp)
}

// Downvote handles POST /api/vote/:type/:id/down
func (h *VoteHandler) Downvote(c *gin.Context) {
	h.vote(c, models.VoteTypeDown)
}

func (h *VoteHandler) vote(c *gin.Context, voteType models.VoteType) {
	user, _ := CurrentUser(c)

	itemType := c.Param("type") // "post" or "comment"
	if itemType != "post" && itemType != "comment" {
		JSONError(c, http.StatusBadRequest, "vote target must be post or comment")
		return
	}
	id := utils.StringToUint(c.Param("id"))
	if id == 0 {
		JSONError(c, http.StatusBadRequest, "invalid id")
		return
	}

	tx := db.DB.Begin()

	query := tx.Where("user_id = ?", user.ID)
	if itemType == "post" {
		query = query.Where("post_id = ?", id)
	} else {
		query = query.Where("comment_id = ?", id)
	}

	// One vote per user per target; a second vote of either direction is a no-op.
	var existingVote models.Vote
	if err := query.First(&existingVote).Error; err == nil {
		tx.Rollback()
		h.respondTallies(c, itemType, id)
		return
	}

	newVote := models.Vote{
		UserID: user.ID,
		Type:   voteType,
	}
	if itemType == "post" {
		newVote.PostID = &id
	} else {
		newVote.CommentID = &id
	}

	if err := tx.Create(&newVote).Error; err != nil {
		tx.Rollback()
		JSONError(c, http.StatusInternalServerError, "could not record vote")
		return
	}

	delta := 1
	if voteType == models.VoteTypeDown {
		delta = -1
	}
	if itemType == "post" {
		if err := tx.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("score", gorm.Expr("score + ?", delta)).Error; err != nil {
			tx.Rollback()
			JSONError(c, http.StatusInternalServerError, "could not record vote")
			return
		}
	} else {
		if err := tx.Model(&models.Comment{}).Where("id = ?", id).UpdateColumn("score", gorm.Expr("score + ?", delta)).Error; err != nil {
			tx.Rollback()
			JSONError(c, http.StatusInternalServerError, "could not record vote")
			return
		}
	}

	tx.Commit()

	// Async follow-ups: hot score refresh and, for upvotes, a badge pass for
	// the content author (upvotes-received rules).
	go func() {
		var authorID uint
		var postID uint
		if itemType == "post" {
			var post models.Post
			if err := db.DB.First(&post, id).Error; err == nil {
				authorID = post.UserID
				postID = post.ID
			}
		} else {
			var comment models.Comment
			if err := db.DB.First(&comment, id).Error; err == nil {
				authorID = comment.UserID
				postID = comment.PostID
			}
		}
		if postID != 0 {
			refreshPostScore(postID)
			var post models.Post
			if err := db.DB.Select("pid").First(&post, postID).Error; err == nil {
				h.cache.Delete(fmt.Sprintf("post:detail:%s", post.Pid))
			}
		}
		if voteType == models.VoteTypeUp && authorID != 0 && authorID != user.ID {
			h.badges.ScheduleRecompute(authorID)
		}
	}()

	h.respondTallies(c, itemType, id)
}

func (h *VoteHandler) respondTallies(c *gin.Context, itemType string, id uint) {
	var upvotes, downvotes int64
	if itemType == "post" {
		db.DB.Model(&models.Vote{}).Where("post_id = ? AND type = ?", id, models.VoteTypeUp).Count(&upvotes)
		db.DB.Model(&models.Vote{}).Where("post_id = ? AND type = ?", id, models.VoteTypeDown).Count(&downvotes)
	} else {
		db.DB.Model(&models.Vote{}).Where("comment_id = ? AND type = ?", id, models.VoteTypeUp).Count(&upvotes)
		db.DB.Model(&models.Vote{}).Where("comment_id = ? AND type = ?", id, models.VoteTypeDown).Count(&downvotes)
	}
	c.JSON(http.StatusOK, gin.H{"upvotes": upvotes, "downvotes": downvotes})
}

// refreshPostScore recomputes a post's hot score from its current vote and
// comment counts.
func refreshPostScore(postID uint) {
	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		return
	}

	var upvotes, downvotes, comments int64
	db.DB.Model(&models.Vote{}).Where("post_id = ? AND type = ?", postID, models.VoteTypeUp).Count(&upvotes)
	db.DB.Model(&models.Vote{}).Where("post_id = ? AND type = ?", postID, models.VoteTypeDown).Count(&downvotes)
	db.DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments)

	score := int(utils.CalculateScore(post.CreatedAt, int(upvotes), int(downvotes), int(comments)))

	if err := db.DB.Model(&post).UpdateColumn("score", score).Error; err != nil {
		log.Printf("refreshing score of post %d failed: %v", postID, err)
	}
}

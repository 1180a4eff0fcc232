package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"forumlink/internal/db"
	"forumlink/internal/models"
	"forumlink/internal/services"
	"forumlink/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	badges   *services.BadgeService
	notifier *services.Notifier
	cache    *utils.Cache
}

func NewCommentHandler(badges *services.BadgeService, notifier *services.Notifier, cache *utils.Cache) *CommentHandler {
	return &CommentHandler{badges: badges, notifier: notifier, cache: cache}
}

// Tree returns the full comment tree for a post: newest threads first,
// replies in chronological order, with vote tallies, the viewer's own vote
// and badge-derived author metadata on every node.
func (h *CommentHandler) Tree(c *gin.Context) {
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "post not found")
		return
	}

	// Comments and votes are independent reads; fetch them concurrently.
	// The vote query selects by comment-id subquery so it does not wait on
	// the comment result.
	var comments []models.Comment
	var votes []models.Vote
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		db.DB.Preload("User").Where("post_id = ?", post.ID).Find(&comments)
	}()
	go func() {
		defer wg.Done()
		commentIDs := db.DB.Model(&models.Comment{}).Select("id").Where("post_id = ?", post.ID)
		db.DB.Where("comment_id IN (?)", commentIDs).Find(&votes)
	}()
	wg.Wait()

	// One badge lookup per distinct author, not one per comment.
	authorIDs := make([]uint, 0, len(comments))
	for _, com := range comments {
		authorIDs = append(authorIDs, com.UserID)
	}
	badgesByAuthor := h.badges.ForAuthors(authorIDs)

	tree := services.BuildCommentTree(comments, votes, ViewerID(c), badgesByAuthor)

	c.JSON(http.StatusOK, gin.H{
		"post_id":  post.Pid,
		"comments": tree,
	})
}

type createCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	user, _ := CurrentUser(c)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "post not found")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	// A reply must reference an existing comment on the same post. This is
	// what keeps dangling ParentID values out of healthy data; the tree
	// builder still tolerates them if they ever appear.
	if req.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *req.ParentID).Error; err != nil || parent.PostID != post.ID {
			JSONError(c, http.StatusBadRequest, "parent comment not found on this post")
			return
		}
	}

	comment := models.Comment{
		Cid:      utils.RandStringBytesMaskImpr(8),
		PostID:   post.ID,
		UserID:   user.ID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not create comment")
		return
	}

	h.cache.Delete(fmt.Sprintf("post:detail:%s", post.Pid))

	// Best-effort side effects; none of them block or fail the response.
	h.badges.ScheduleRecompute(user.ID)
	go h.notifier.CommentCreated(post, comment, *user)
	go refreshPostScore(post.ID)

	comment.User = *user
	c.JSON(http.StatusCreated, comment)
}

// Delete soft-deletes a comment: the content is replaced but the row stays so
// replies keep their place in the tree.
func (h *CommentHandler) Delete(c *gin.Context) {
	user, _ := CurrentUser(c)
	cid := c.Param("cid")

	var comment models.Comment
	if err := db.DB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		JSONError(c, http.StatusNotFound, "comment not found")
		return
	}

	if comment.UserID != user.ID && user.Role != "admin" {
		JSONError(c, http.StatusForbidden, "not your comment")
		return
	}

	comment.Content = "This comment has been deleted."
	db.DB.Save(&comment)

	var post models.Post
	if err := db.DB.First(&post, comment.PostID).Error; err == nil {
		h.cache.Delete(fmt.Sprintf("post:detail:%s", post.Pid))
	}

	c.Status(http.StatusNoContent)
}

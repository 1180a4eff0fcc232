package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"forumlink/internal/db"
	"forumlink/internal/models"
	"forumlink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type PostHandler struct {
	cache *utils.Cache
}

func NewPostHandler(cache *utils.Cache) *PostHandler {
	return &PostHandler{cache: cache}
}

// fillCommentCounts batch-fills the comment count for a page of posts.
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type CountResult struct {
		PostID uint
		Count  int
	}
	var results []CountResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// List returns a page of posts, sort=hot (default, cached briefly) or sort=new.
func (h *PostHandler) List(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	sortMode := c.DefaultQuery("sort", "hot")
	if sortMode != "hot" && sortMode != "new" {
		JSONError(c, http.StatusBadRequest, "sort must be hot or new")
		return
	}

	cacheKey := fmt.Sprintf("posts:%s:page:%d", sortMode, page)
	if sortMode == "hot" {
		if cached := h.cache.Get(cacheKey); cached != nil {
			if payload, ok := cached.(gin.H); ok {
				c.JSON(http.StatusOK, payload)
				return
			}
		}
	}

	perPage := 30
	offset := (page - 1) * perPage

	var total int64
	db.DB.Model(&models.Post{}).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	order := "created_at DESC"
	if sortMode == "hot" {
		order = "score DESC, created_at DESC"
	}

	var posts []models.Post
	db.DB.Preload("User").
		Order(order).
		Limit(perPage).
		Offset(offset).
		Find(&posts)

	fillCommentCounts(posts)

	payload := gin.H{
		"posts":       posts,
		"page":        page,
		"total_pages": totalPages,
	}

	if sortMode == "hot" {
		h.cache.Set(cacheKey, payload, 1*time.Minute)
	}

	c.JSON(http.StatusOK, payload)
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	post := models.Post{
		Pid:     utils.RandStringBytesMaskImpr(8),
		Slug:    slug.Make(req.Title),
		UserID:  user.ID,
		Title:   req.Title,
		URL:     req.URL,
		Content: req.Content, // raw markdown; rendered at read time
	}

	if err := db.DB.Create(&post).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not create post")
		return
	}

	h.cache.Delete("posts:hot:page:1")

	post.User = *user
	c.JSON(http.StatusCreated, post)
}

// Detail returns one post with rendered content, vote tallies and the
// viewer's own vote. The comment tree has its own endpoint.
//
// The shared part of the payload is cached for every viewer; the viewer's
// own vote varies per request and is filled in afterwards.
func (h *PostHandler) Detail(c *gin.Context) {
	pid := c.Param("pid")

	cacheKey := fmt.Sprintf("post:detail:%s", pid)
	if cached := h.cache.Get(cacheKey); cached != nil {
		if payload, ok := cached.(gin.H); ok {
			vote := ""
			if post, ok := payload["post"].(models.Post); ok {
				// Cached or not, a view is a view
				db.DB.Model(&models.Post{}).Where("id = ?", post.ID).UpdateColumn("views", gorm.Expr("views + 1"))
				vote = h.viewerVote(c, post.ID)
			}
			c.JSON(http.StatusOK, withViewerVote(payload, vote))
			return
		}
	}

	var post models.Post
	if err := db.DB.Preload("User").Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "post not found")
		return
	}

	db.DB.Model(&post).UpdateColumn("views", gorm.Expr("views + 1"))
	post.Views++

	var upvotes, downvotes, commentCount int64
	db.DB.Model(&models.Vote{}).Where("post_id = ? AND type = ?", post.ID, models.VoteTypeUp).Count(&upvotes)
	db.DB.Model(&models.Vote{}).Where("post_id = ? AND type = ?", post.ID, models.VoteTypeDown).Count(&downvotes)
	db.DB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	post.CommentCount = int(commentCount)

	payload := gin.H{
		"post":         post,
		"content_html": utils.RenderMarkdown(post.Content),
		"upvotes":      upvotes,
		"downvotes":    downvotes,
	}
	h.cache.Set(cacheKey, payload, 5*time.Minute)

	c.JSON(http.StatusOK, withViewerVote(payload, h.viewerVote(c, post.ID)))
}

// withViewerVote returns a copy of the shared detail payload with the
// per-request vote added. The cached map is served to concurrent requests
// and must never be written to.
func withViewerVote(shared gin.H, vote string) gin.H {
	out := make(gin.H, len(shared)+1)
	for k, v := range shared {
		out[k] = v
	}
	out["user_vote"] = vote
	return out
}

// viewerVote returns the requesting user's own vote on the post, lowercased,
// or an empty string.
func (h *PostHandler) viewerVote(c *gin.Context, postID uint) string {
	viewerID := ViewerID(c)
	if viewerID == 0 {
		return ""
	}
	var vote models.Vote
	if err := db.DB.Where("user_id = ? AND post_id = ?", viewerID, postID).First(&vote).Error; err != nil {
		return ""
	}
	return strings.ToLower(string(vote.Type))
}

func (h *PostHandler) Delete(c *gin.Context) {
	user, _ := CurrentUser(c)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "post not found")
		return
	}

	if post.UserID != user.ID && user.Role != "admin" {
		JSONError(c, http.StatusForbidden, "not your post")
		return
	}

	db.DB.Unscoped().Delete(&post)

	h.cache.Delete(fmt.Sprintf("post:detail:%s", post.Pid))
	h.cache.Delete("posts:hot:page:1")

	c.Status(http.StatusNoContent)
}

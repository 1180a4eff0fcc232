package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"forumlink/internal/db"
	"forumlink/internal/models"
	"forumlink/internal/utils"

	"gorm.io/gorm"
)

const badgeCacheTTL = 5 * time.Minute

// AuthorStats is the activity snapshot badge rules are evaluated against.
type AuthorStats struct {
	Posts           int64
	Comments        int64
	UpvotesReceived int64
	JoinedAt        time.Time
}

type badgeRule struct {
	Name  string
	Type  models.BadgeType
	Level int
	Met   func(stats AuthorStats, now time.Time) bool
}

var badgeRules = []badgeRule{
	{"First Post", models.BadgeTypeContribution, 1, func(s AuthorStats, _ time.Time) bool { return s.Posts >= 1 }},
	{"Author", models.BadgeTypeContribution, 2, func(s AuthorStats, _ time.Time) bool { return s.Posts >= 10 }},
	{"Commentator", models.BadgeTypeContribution, 1, func(s AuthorStats, _ time.Time) bool { return s.Comments >= 10 }},
	{"Conversationalist", models.BadgeTypeContribution, 2, func(s AuthorStats, _ time.Time) bool { return s.Comments >= 100 }},
	{"Rising Voice", models.BadgeTypeAchievement, 1, func(s AuthorStats, _ time.Time) bool { return s.UpvotesReceived >= 10 }},
	{"Crowd Favorite", models.BadgeTypeAchievement, 2, func(s AuthorStats, _ time.Time) bool { return s.UpvotesReceived >= 100 }},
	{"One Year In", models.BadgeTypeTenure, 1, func(s AuthorStats, now time.Time) bool { return now.Sub(s.JoinedAt) >= 365 * 24 * time.Hour }},
	{"Veteran", models.BadgeTypeTenure, 2, func(s AuthorStats, now time.Time) bool { return now.Sub(s.JoinedAt) >= 3 * 365 * 24 * time.Hour }},
}

// EvaluateBadges returns the badges stats qualify for. Pure so the rule set
// can be tested without a database.
func EvaluateBadges(stats AuthorStats, now time.Time) []models.Badge {
	var earned []models.Badge
	for _, rule := range badgeRules {
		if rule.Met(stats, now) {
			earned = append(earned, models.Badge{
				Name:  rule.Name,
				Type:  rule.Type,
				Level: rule.Level,
			})
		}
	}
	return earned
}

// BadgeService recomputes and serves user badges. Recomputation goes through
// an async dedup queue so a burst of comments from one user schedules a
// single pass.
type BadgeService struct {
	cache   *utils.Cache
	queue   chan uint // user IDs waiting for recompute
	pending map[uint]bool
	mu      sync.Mutex
}

func NewBadgeService(cache *utils.Cache) *BadgeService {
	s := &BadgeService{
		cache:   cache,
		queue:   make(chan uint, 1000), // buffered so callers never block
		pending: make(map[uint]bool),
	}
	go s.worker()
	return s
}

// ScheduleRecompute queues a badge recompute for the user. Best effort: a
// full queue drops the request and logs.
func (s *BadgeService) ScheduleRecompute(userID uint) {
	s.mu.Lock()
	if s.pending[userID] {
		s.mu.Unlock()
		return
	}
	s.pending[userID] = true
	s.mu.Unlock()

	select {
	case s.queue <- userID:
	default:
		s.mu.Lock()
		delete(s.pending, userID)
		s.mu.Unlock()
		log.Printf("badge recompute queue full, skipping user %d", userID)
	}
}

func (s *BadgeService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case userID := <-s.queue:
			batch = append(batch, userID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *BadgeService) processBatch(userIDs []uint) {
	for _, userID := range userIDs {
		if err := s.Recompute(userID); err != nil {
			log.Printf("badge recompute for user %d failed: %v", userID, err)
		}

		s.mu.Lock()
		delete(s.pending, userID)
		s.mu.Unlock()
	}
}

// Recompute evaluates the rule set against the user's current activity and
// awards anything newly earned. Awards are idempotent: (user_id, name) is
// unique and existing rows are left untouched.
func (s *BadgeService) Recompute(userID uint) error {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return err
	}

	stats, err := s.loadStats(userID)
	if err != nil {
		return err
	}
	stats.JoinedAt = user.CreatedAt

	awarded := false
	for _, badge := range EvaluateBadges(stats, time.Now()) {
		var existing models.Badge
		err := db.DB.Where("user_id = ? AND name = ?", userID, badge.Name).First(&existing).Error
		if err == nil {
			continue // already earned
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("looking up badge %q for user %d failed: %v", badge.Name, userID, err)
			continue
		}

		badge.UserID = userID
		badge.EarnedAt = time.Now()
		if err := db.DB.Create(&badge).Error; err != nil {
			log.Printf("awarding badge %q to user %d failed: %v", badge.Name, userID, err)
			continue
		}
		awarded = true
	}

	if awarded {
		s.cache.Delete(badgeCacheKey(userID))
	}
	return nil
}

func (s *BadgeService) loadStats(userID uint) (AuthorStats, error) {
	var stats AuthorStats

	if err := db.DB.Model(&models.Post{}).Where("user_id = ?", userID).Count(&stats.Posts).Error; err != nil {
		return stats, err
	}
	if err := db.DB.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&stats.Comments).Error; err != nil {
		return stats, err
	}

	// Upvotes received on the user's posts and comments
	var onPosts, onComments int64
	postIDs := db.DB.Model(&models.Post{}).Select("id").Where("user_id = ?", userID)
	commentIDs := db.DB.Model(&models.Comment{}).Select("id").Where("user_id = ?", userID)
	if err := db.DB.Model(&models.Vote{}).Where("type = ? AND post_id IN (?)", models.VoteTypeUp, postIDs).Count(&onPosts).Error; err != nil {
		return stats, err
	}
	if err := db.DB.Model(&models.Vote{}).Where("type = ? AND comment_id IN (?)", models.VoteTypeUp, commentIDs).Count(&onComments).Error; err != nil {
		return stats, err
	}
	stats.UpvotesReceived = onPosts + onComments

	return stats, nil
}

// FetchBadges returns up to MaxAuthorBadges most recently earned badges for
// the user, newest first, served from cache when possible.
func (s *BadgeService) FetchBadges(userID uint) []models.Badge {
	key := badgeCacheKey(userID)
	if cached := s.cache.Get(key); cached != nil {
		if badges, ok := cached.([]models.Badge); ok {
			return badges
		}
	}

	var badges []models.Badge
	db.DB.Where("user_id = ?", userID).
		Order("earned_at DESC, id DESC").
		Limit(MaxAuthorBadges).
		Find(&badges)

	s.cache.Set(key, badges, badgeCacheTTL)
	return badges
}

// ForAuthors fetches badges for a set of authors, one lookup per distinct id.
func (s *BadgeService) ForAuthors(userIDs []uint) map[uint][]models.Badge {
	byAuthor := make(map[uint][]models.Badge, len(userIDs))
	for _, id := range userIDs {
		if _, done := byAuthor[id]; done {
			continue
		}
		byAuthor[id] = s.FetchBadges(id)
	}
	return byAuthor
}

func badgeCacheKey(userID uint) string {
	return fmt.Sprintf("badges:user:%d", userID)
}

package services

import (
	"testing"
	"time"

	"forumlink/internal/models"
)

func badgeNames(badges []models.Badge) map[string]bool {
	names := make(map[string]bool, len(badges))
	for _, b := range badges {
		names[b.Name] = true
	}
	return names
}

func TestEvaluateBadgesNewUser(t *testing.T) {
	now := time.Now()
	earned := EvaluateBadges(AuthorStats{JoinedAt: now}, now)
	if len(earned) != 0 {
		t.Errorf("fresh account should earn nothing, got %v", earned)
	}
}

func TestEvaluateBadgesThresholds(t *testing.T) {
	now := time.Now()
	stats := AuthorStats{
		Posts:           10,
		Comments:        10,
		UpvotesReceived: 10,
		JoinedAt:        now.AddDate(-1, 0, -1),
	}

	names := badgeNames(EvaluateBadges(stats, now))

	for _, want := range []string{"First Post", "Author", "Commentator", "Rising Voice", "One Year In"} {
		if !names[want] {
			t.Errorf("expected badge %q to be earned", want)
		}
	}
	for _, tooHigh := range []string{"Conversationalist", "Crowd Favorite", "Veteran"} {
		if names[tooHigh] {
			t.Errorf("badge %q should not be earned yet", tooHigh)
		}
	}
}

func TestEvaluateBadgesAchievementType(t *testing.T) {
	now := time.Now()
	earned := EvaluateBadges(AuthorStats{UpvotesReceived: 100, JoinedAt: now}, now)

	achievements := 0
	for _, b := range earned {
		if b.Type == models.BadgeTypeAchievement {
			achievements++
		}
	}
	if achievements != 2 {
		t.Errorf("expected both upvote badges as ACHIEVEMENT, got %d", achievements)
	}
}

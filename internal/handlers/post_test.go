package handlers

import (
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWithViewerVoteLeavesSharedUntouched(t *testing.T) {
	shared := gin.H{"upvotes": int64(3), "downvotes": int64(1)}

	got := withViewerVote(shared, "up")

	if got["user_vote"] != "up" {
		t.Errorf("expected user_vote %q, got %v", "up", got["user_vote"])
	}
	if got["upvotes"] != int64(3) {
		t.Errorf("shared fields should carry over, got %v", got["upvotes"])
	}
	if _, leaked := shared["user_vote"]; leaked {
		t.Error("per-request vote must not be written into the shared payload")
	}
}

func TestWithViewerVoteConcurrentViewers(t *testing.T) {
	// One cached payload, many viewers at once. Each gets its own copy with
	// its own vote; nothing writes to the shared map.
	shared := gin.H{"upvotes": int64(1)}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vote := "up"
			if i%2 == 0 {
				vote = "down"
			}
			payload := withViewerVote(shared, vote)
			if payload["user_vote"] != vote {
				t.Errorf("viewer %d: expected vote %q, got %v", i, vote, payload["user_vote"])
			}
		}(i)
	}
	wg.Wait()

	if _, leaked := shared["user_vote"]; leaked {
		t.Error("per-request vote must not be written into the shared payload")
	}
}

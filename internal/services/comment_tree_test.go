package services

import (
	"reflect"
	"testing"
	"time"

	"forumlink/internal/models"
)

var treeBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testComment(id, parentID, userID uint, sec int) models.Comment {
	c := models.Comment{
		ID:        id,
		PostID:    1,
		UserID:    userID,
		Content:   "hello",
		CreatedAt: treeBase.Add(time.Duration(sec) * time.Second),
	}
	if parentID != 0 {
		p := parentID
		c.ParentID = &p
	}
	return c
}

func testVote(commentID, userID uint, voteType models.VoteType) models.Vote {
	cid := commentID
	return models.Vote{CommentID: &cid, UserID: userID, Type: voteType}
}

func rootIDs(nodes []*CommentNode) []uint {
	ids := make([]uint, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func collectIDs(nodes []*CommentNode) []uint {
	var ids []uint
	for _, n := range nodes {
		ids = append(ids, n.ID)
		ids = append(ids, collectIDs(n.Replies)...)
	}
	return ids
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	tree := BuildCommentTree(nil, nil, 0, nil)
	if len(tree) != 0 {
		t.Fatalf("expected empty tree, got %d nodes", len(tree))
	}
}

func TestBuildCommentTreeTopLevelNewestFirst(t *testing.T) {
	comments := []models.Comment{
		testComment(1, 0, 10, 1),
		testComment(2, 0, 10, 2),
		testComment(3, 0, 10, 3),
	}

	tree := BuildCommentTree(comments, nil, 0, nil)

	want := []uint{3, 2, 1}
	if got := rootIDs(tree); !reflect.DeepEqual(got, want) {
		t.Errorf("expected root order %v, got %v", want, got)
	}
}

func TestBuildCommentTreeRepliesOldestFirst(t *testing.T) {
	comments := []models.Comment{
		testComment(1, 0, 10, 1),
		testComment(2, 1, 10, 5),
		testComment(3, 1, 10, 3),
	}

	tree := BuildCommentTree(comments, nil, 0, nil)

	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	want := []uint{3, 2}
	if got := rootIDs(tree[0].Replies); !reflect.DeepEqual(got, want) {
		t.Errorf("expected reply order %v, got %v", want, got)
	}
}

func TestBuildCommentTreeVoteTallies(t *testing.T) {
	comments := []models.Comment{testComment(1, 0, 10, 1)}
	votes := []models.Vote{
		testVote(1, 20, models.VoteTypeUp),
		testVote(1, 21, models.VoteTypeUp),
		testVote(1, 22, models.VoteTypeDown),
	}

	tree := BuildCommentTree(comments, votes, 22, nil)

	node := tree[0]
	if node.Upvotes != 2 || node.Downvotes != 1 {
		t.Errorf("expected 2 up / 1 down, got %d / %d", node.Upvotes, node.Downvotes)
	}
	if node.UserVote != "down" {
		t.Errorf("expected viewer vote %q, got %q", "down", node.UserVote)
	}
}

func TestBuildCommentTreeAnonymousViewerHasNoVote(t *testing.T) {
	comments := []models.Comment{testComment(1, 0, 10, 1)}
	votes := []models.Vote{testVote(1, 20, models.VoteTypeUp)}

	tree := BuildCommentTree(comments, votes, 0, nil)

	if tree[0].UserVote != "" {
		t.Errorf("anonymous viewer should have no vote, got %q", tree[0].UserVote)
	}
}

func TestBuildCommentTreeDuplicateVotesCountRaw(t *testing.T) {
	// The builder does not deduplicate; uniqueness belongs to the vote store.
	comments := []models.Comment{testComment(1, 0, 10, 1)}
	votes := []models.Vote{
		testVote(1, 20, models.VoteTypeUp),
		testVote(1, 20, models.VoteTypeUp),
	}

	tree := BuildCommentTree(comments, votes, 0, nil)

	if tree[0].Upvotes != 2 {
		t.Errorf("expected raw count 2, got %d", tree[0].Upvotes)
	}
}

func TestBuildCommentTreeExcludesOrphans(t *testing.T) {
	comments := []models.Comment{
		testComment(1, 0, 10, 1),
		testComment(2, 99, 10, 2), // parent 99 does not exist
		testComment(3, 2, 10, 3),  // child of the orphan disappears with it
	}

	tree := BuildCommentTree(comments, nil, 0, nil)

	want := []uint{1}
	if got := collectIDs(tree); !reflect.DeepEqual(got, want) {
		t.Errorf("expected only %v in tree, got %v", want, got)
	}
}

func TestBuildCommentTreeBadgeDerivation(t *testing.T) {
	comments := []models.Comment{
		testComment(1, 0, 10, 2),
		testComment(2, 0, 11, 1),
	}
	badges := map[uint][]models.Badge{
		10: {
			{Name: "Gold", Type: models.BadgeTypeAchievement},
			{Name: "Silver", Type: models.BadgeTypeTenure},
		},
	}

	tree := BuildCommentTree(comments, nil, 0, badges)

	decorated := tree[0] // comment 1, newest root
	if decorated.AuthorRank != "Gold" {
		t.Errorf("expected rank Gold, got %q", decorated.AuthorRank)
	}
	if !decorated.AuthorIsVerified {
		t.Error("author with an ACHIEVEMENT badge should be verified")
	}
	if len(decorated.AuthorBadges) != 2 {
		t.Errorf("expected 2 badges, got %d", len(decorated.AuthorBadges))
	}

	plain := tree[1] // comment 2, no badges
	if plain.AuthorRank != DefaultRank {
		t.Errorf("expected default rank %q, got %q", DefaultRank, plain.AuthorRank)
	}
	if plain.AuthorIsVerified {
		t.Error("author without badges must not be verified")
	}
}

func TestBuildCommentTreeCapsAuthorBadges(t *testing.T) {
	comments := []models.Comment{testComment(1, 0, 10, 1)}
	badges := map[uint][]models.Badge{
		10: {
			{Name: "A", Type: models.BadgeTypeContribution},
			{Name: "B", Type: models.BadgeTypeContribution},
			{Name: "C", Type: models.BadgeTypeContribution},
			{Name: "D", Type: models.BadgeTypeAchievement},
		},
	}

	tree := BuildCommentTree(comments, nil, 0, badges)

	if len(tree[0].AuthorBadges) != MaxAuthorBadges {
		t.Errorf("expected badges capped at %d, got %d", MaxAuthorBadges, len(tree[0].AuthorBadges))
	}
	// The ACHIEVEMENT badge fell outside the cap, so no verification.
	if tree[0].AuthorIsVerified {
		t.Error("badge outside the cap must not verify the author")
	}
}

func TestBuildCommentTreeDeepChain(t *testing.T) {
	comments := []models.Comment{
		testComment(1, 0, 10, 1),
		testComment(2, 1, 10, 2),
		testComment(3, 2, 10, 3),
		testComment(4, 3, 10, 4),
		testComment(5, 4, 10, 5),
	}

	tree := BuildCommentTree(comments, nil, 0, nil)

	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	node := tree[0]
	for depth := 1; depth < 5; depth++ {
		if len(node.Replies) != 1 {
			t.Fatalf("depth %d: expected 1 reply, got %d", depth, len(node.Replies))
		}
		node = node.Replies[0]
	}
	if len(node.Replies) != 0 {
		t.Errorf("leaf should have no replies, got %d", len(node.Replies))
	}
}

func TestBuildCommentTreeDeterministicOrder(t *testing.T) {
	comments := []models.Comment{
		testComment(1, 0, 10, 1),
		testComment(2, 0, 10, 2),
		testComment(3, 1, 10, 4),
		testComment(4, 1, 10, 3),
	}
	votes := []models.Vote{
		testVote(1, 20, models.VoteTypeUp),
		testVote(3, 21, models.VoteTypeDown),
	}

	forward := BuildCommentTree(comments, votes, 20, nil)

	// Same input, reversed iteration order
	reversedComments := make([]models.Comment, len(comments))
	for i, c := range comments {
		reversedComments[len(comments)-1-i] = c
	}
	reversedVotes := make([]models.Vote, len(votes))
	for i, v := range votes {
		reversedVotes[len(votes)-1-i] = v
	}

	backward := BuildCommentTree(reversedComments, reversedVotes, 20, nil)

	if !reflect.DeepEqual(collectIDs(forward), collectIDs(backward)) {
		t.Errorf("order depends on input order: %v vs %v", collectIDs(forward), collectIDs(backward))
	}
}

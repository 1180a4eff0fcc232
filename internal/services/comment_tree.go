package services

import (
	"html/template"
	"sort"
	"strings"

	"forumlink/internal/models"
	"forumlink/internal/utils"
)

// DefaultRank is the display rank for authors with no badges yet.
const DefaultRank = "Member"

// MaxAuthorBadges caps how many badges a node carries per author.
const MaxAuthorBadges = 3

// CommentNode is the per-request view of a comment inside a reply tree.
// It is rebuilt on every read and never persisted.
type CommentNode struct {
	models.Comment
	ContentHTML      template.HTML  `json:"content_html"`
	Upvotes          int            `json:"upvotes"`
	Downvotes        int            `json:"downvotes"`
	UserVote         string         `json:"user_vote,omitempty"` // "up", "down" or empty
	AuthorRank       string         `json:"author_rank"`
	AuthorBadges     []models.Badge `json:"author_badges"`
	AuthorIsVerified bool           `json:"author_is_verified"`
	Replies          []*CommentNode `json:"replies"`
}

// BuildCommentTree assembles the ordered reply tree for one post out of
// already-fetched rows, so it stays a pure function the handlers can call
// after loading comments and votes however they like. Top-level comments come
// back newest first; replies at every deeper level are oldest first to keep
// thread chronology. viewerID 0 means anonymous.
//
// A comment whose ParentID points at a row missing from the input is an
// orphan: the root-down walk never reaches it and it drops out silently. The
// same holds for a hypothetical parent cycle, which can only exist inside an
// orphan cluster, since a comment reachable from a root has exactly one
// parent chain. Duplicate vote rows are counted as-is; uniqueness is the vote
// store's invariant, not this function's.
func BuildCommentTree(comments []models.Comment, votes []models.Vote, viewerID uint, badgesByAuthor map[uint][]models.Badge) []*CommentNode {
	votesByComment := make(map[uint][]models.Vote, len(comments))
	for _, v := range votes {
		if v.CommentID != nil {
			votesByComment[*v.CommentID] = append(votesByComment[*v.CommentID], v)
		}
	}

	children := make(map[uint][]int)
	rootIdx := make([]int, 0, len(comments))
	for i, com := range comments {
		if com.ParentID == nil {
			rootIdx = append(rootIdx, i)
		} else {
			children[*com.ParentID] = append(children[*com.ParentID], i)
		}
	}

	var build func(i int) *CommentNode
	build = func(i int) *CommentNode {
		com := comments[i]
		node := &CommentNode{
			Comment:     com,
			ContentHTML: utils.RenderMarkdown(com.Content),
			AuthorRank:  DefaultRank,
			Replies:     []*CommentNode{},
		}

		for _, v := range votesByComment[com.ID] {
			switch v.Type {
			case models.VoteTypeUp:
				node.Upvotes++
			case models.VoteTypeDown:
				node.Downvotes++
			}
			if viewerID != 0 && v.UserID == viewerID {
				node.UserVote = strings.ToLower(string(v.Type))
			}
		}

		badges := badgesByAuthor[com.UserID]
		if len(badges) > MaxAuthorBadges {
			badges = badges[:MaxAuthorBadges]
		}
		node.AuthorBadges = badges
		if len(badges) > 0 {
			node.AuthorRank = badges[0].Name
		}
		for _, b := range badges {
			if b.Type == models.BadgeTypeAchievement {
				node.AuthorIsVerified = true
				break
			}
		}

		for _, child := range children[com.ID] {
			node.Replies = append(node.Replies, build(child))
		}
		sortNodes(node.Replies, true)

		return node
	}

	roots := make([]*CommentNode, 0, len(rootIdx))
	for _, i := range rootIdx {
		roots = append(roots, build(i))
	}
	// The top level reads newest first, unlike the ascending order inside threads.
	sortNodes(roots, false)

	return roots
}

// sortNodes orders nodes by CreatedAt with the row id as tiebreaker, so the
// result does not depend on input iteration order.
func sortNodes(nodes []*CommentNode, asc bool) {
	sort.SliceStable(nodes, func(a, b int) bool {
		if nodes[a].CreatedAt.Equal(nodes[b].CreatedAt) {
			if asc {
				return nodes[a].ID < nodes[b].ID
			}
			return nodes[a].ID > nodes[b].ID
		}
		if asc {
			return nodes[a].CreatedAt.Before(nodes[b].CreatedAt)
		}
		return nodes[a].CreatedAt.After(nodes[b].CreatedAt)
	})
}

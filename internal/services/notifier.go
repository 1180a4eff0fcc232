package services

import (
	"fmt"
	"log"
	"os"

	"forumlink/internal/db"
	"forumlink/internal/models"
)

// Notifier fans out the best-effort side effects of a new comment. Nothing
// here may affect the success of the comment write that triggered it.
type Notifier struct {
	mail *MailService
}

func NewNotifier(mail *MailService) *Notifier {
	return &Notifier{mail: mail}
}

// CommentCreated notifies the post author, the parent-comment author (when
// replying), and every @mentioned user. Each recipient is handled
// independently: one failed notification is logged and the rest proceed.
// Callers run this in a goroutine.
func (n *Notifier) CommentCreated(post models.Post, comment models.Comment, actor models.User) {
	postLink := fmt.Sprintf("%s/p/%s#comment-%d", os.Getenv("SITE_URL"), post.Pid, comment.ID)
	notified := map[uint]bool{actor.ID: true} // never notify the commenter

	if post.UserID != actor.ID {
		var author models.User
		if err := db.DB.First(&author, post.UserID).Error; err != nil {
			log.Printf("notify post author %d: %v", post.UserID, err)
		} else {
			n.persist(author.ID, actor.ID, models.NotificationTypeCommentPost,
				fmt.Sprintf("%s commented on your post %q (/p/%s#comment-%d)", actor.Username, post.Title, post.Pid, comment.ID))
			n.mail.SendCommentNotification(author.Email, actor.Username, post.Title, comment.Content, postLink)
			notified[author.ID] = true
		}
	}

	if comment.ParentID != nil {
		var parent models.Comment
		if err := db.DB.Preload("User").First(&parent, *comment.ParentID).Error; err != nil {
			log.Printf("notify parent author of comment %d: %v", *comment.ParentID, err)
		} else if !notified[parent.UserID] {
			n.persist(parent.UserID, actor.ID, models.NotificationTypeReplyComment,
				fmt.Sprintf("%s replied to your comment on %q (/p/%s#comment-%d)", actor.Username, post.Title, post.Pid, comment.ID))
			n.mail.SendReplyNotification(parent.User.Email, actor.Username, post.Title, comment.Content, parent.Content, postLink)
			notified[parent.UserID] = true
		}
	}

	for _, username := range ExtractMentions(comment.Content) {
		var mentioned models.User
		if err := db.DB.Where("username = ?", username).First(&mentioned).Error; err != nil {
			continue // unknown names are not an error
		}
		if notified[mentioned.ID] {
			continue
		}
		n.persist(mentioned.ID, actor.ID, models.NotificationTypeMention,
			fmt.Sprintf("%s mentioned you on %q (/p/%s#comment-%d)", actor.Username, post.Title, post.Pid, comment.ID))
		n.mail.SendMentionNotification(mentioned.Email, actor.Username, post.Title, comment.Content, postLink)
		notified[mentioned.ID] = true
	}
}

func (n *Notifier) persist(userID, actorID uint, typ models.NotificationType, reason string) {
	notification := models.Notification{
		UserID:  userID,
		ActorID: &actorID,
		Type:    typ,
		Reason:  reason,
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("persist %s notification for user %d: %v", typ, userID, err)
	}
}

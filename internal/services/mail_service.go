package services

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: forumlink <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("failed to send email to %v: %v", to, err)
		} else {
			log.Printf("email sent to %v: %s", to, subject)
		}
	}()
}

func (s *MailService) SendCommentNotification(email, actorName, postTitle, commentContent, postLink string) {
	s.sendAsync([]string{email},
		fmt.Sprintf("New comment from %s on %q", actorName, postTitle),
		commentMailBody(actorName, postTitle, commentContent, postLink))
}

func (s *MailService) SendReplyNotification(email, actorName, postTitle, replyContent, originalContent, postLink string) {
	s.sendAsync([]string{email},
		fmt.Sprintf("%s replied to your comment on %q", actorName, postTitle),
		replyMailBody(actorName, postTitle, replyContent, originalContent, postLink))
}

func (s *MailService) SendMentionNotification(email, actorName, postTitle, commentContent, postLink string) {
	s.sendAsync([]string{email},
		fmt.Sprintf("%s mentioned you on %q", actorName, postTitle),
		mentionMailBody(actorName, postTitle, commentContent, postLink))
}

// Mail bodies are HTML; names, titles and comment text come from users and
// are escaped before interpolation. Links are server-built.

func commentMailBody(actorName, postTitle, commentContent, postLink string) string {
	return fmt.Sprintf(
		`<p><strong>%s</strong> commented on <em>%s</em>:</p><blockquote>%s</blockquote><p><a href="%s">View the thread</a></p>`,
		html.EscapeString(actorName), html.EscapeString(postTitle), html.EscapeString(commentContent), postLink)
}

func replyMailBody(actorName, postTitle, replyContent, originalContent, postLink string) string {
	return fmt.Sprintf(
		`<p><strong>%s</strong> replied to your comment on <em>%s</em>:</p><blockquote>%s</blockquote><p>Your comment:</p><blockquote>%s</blockquote><p><a href="%s">View the thread</a></p>`,
		html.EscapeString(actorName), html.EscapeString(postTitle), html.EscapeString(replyContent), html.EscapeString(originalContent), postLink)
}

func mentionMailBody(actorName, postTitle, commentContent, postLink string) string {
	return fmt.Sprintf(
		`<p><strong>%s</strong> mentioned you on <em>%s</em>:</p><blockquote>%s</blockquote><p><a href="%s">View the thread</a></p>`,
		html.EscapeString(actorName), html.EscapeString(postTitle), html.EscapeString(commentContent), postLink)
}

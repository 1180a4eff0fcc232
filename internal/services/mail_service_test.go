package services

import (
	"strings"
	"testing"
)

func TestMailBodiesEscapeUserContent(t *testing.T) {
	actor := `<b>eve</b>`
	title := `a "quoted" title`
	content := `<script>alert(1)</script>`
	link := "https://forum.example/p/abc123#comment-7"

	bodies := map[string]string{
		"comment": commentMailBody(actor, title, content, link),
		"reply":   replyMailBody(actor, title, content, "original <i>text</i>", link),
		"mention": mentionMailBody(actor, title, content, link),
	}

	for name, body := range bodies {
		if strings.Contains(body, "<script>") {
			t.Errorf("%s body contains unescaped comment content: %s", name, body)
		}
		if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
			t.Errorf("%s body should carry the escaped content: %s", name, body)
		}
		if !strings.Contains(body, "&lt;b&gt;eve&lt;/b&gt;") {
			t.Errorf("%s body contains unescaped actor name: %s", name, body)
		}
		if !strings.Contains(body, link) {
			t.Errorf("%s body should keep the server-built link intact: %s", name, body)
		}
	}

	if !strings.Contains(bodies["reply"], "original &lt;i&gt;text&lt;/i&gt;") {
		t.Errorf("reply body contains unescaped original comment: %s", bodies["reply"])
	}
}

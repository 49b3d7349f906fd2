package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pubfront/commentform"
)

var testSite = SiteConfig{Name: "Medium Blog", URL: "https://example.com", Description: "Stories"}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestPostPage(t *testing.T) {
	post := PostView{
		ID:             "p1",
		Slug:           "hello-world",
		Title:          "Hello <World>",
		Description:    "First post",
		MainImageURL:   "https://cdn.example.com/main.jpg",
		AuthorName:     "Ada",
		AuthorImageURL: "https://cdn.example.com/ada.jpg",
		CreatedAt:      time.Date(2022, 1, 26, 11, 23, 0, 0, time.UTC),
		Body:           templ.Raw("<p>body text</p>"),
		Comments:       []CommentView{{Name: "Bob", Text: "nice & short"}},
	}
	got := renderString(t, Post(testSite, PageMeta{Title: post.Title}, post))

	wants := []string{
		`<h1 class="mt-10 mb-3 text-3xl">Hello &lt;World&gt;</h1>`,
		`<span class="text-green-600">Ada</span>`,
		`Jan 26, 2022 11:23 AM`,
		`<p>body text</p>`,
		`hx-get="/post/hello-world/comment"`,
		`nice &amp; short`,
		`<title>Hello &lt;World&gt; | Medium Blog</title>`,
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("post page missing %q", want)
		}
	}
}

func TestCommentSectionForm(t *testing.T) {
	form := commentform.New("p1")
	form.Values.Name = "A"
	form.Errors = commentform.Errors{commentform.FieldEmail: "The Email Field is required"}
	got := renderString(t, CommentSectionView(CommentSection{Slug: "hello-world", Form: form, CSRFToken: "tok"}))

	if !strings.Contains(got, `id="comment-section"`) {
		t.Errorf("form should carry the swap target id: %s", got)
	}
	if !strings.Contains(got, `name="_id" value="p1"`) {
		t.Errorf("form should carry the post id: %s", got)
	}
	if !strings.Contains(got, `name="_csrf" value="tok"`) {
		t.Errorf("form should carry the csrf token: %s", got)
	}
	if !strings.Contains(got, "- The Email Field is required") {
		t.Errorf("form should show the email message: %s", got)
	}
	if strings.Contains(got, "The Name Field is required") || strings.Contains(got, "The Comment Field is required") {
		t.Errorf("form should only show the email message: %s", got)
	}
	if !strings.Contains(got, `name="name" value="A"`) {
		t.Errorf("form should keep entered values: %s", got)
	}
}

func TestCommentSectionFailed(t *testing.T) {
	form := commentform.New("p1")
	form.State = commentform.Failed
	form.Failure = commentform.FailureMessage
	got := renderString(t, CommentSectionView(CommentSection{Slug: "s", Form: form}))
	if !strings.Contains(got, "Please try again") {
		t.Errorf("failed form should show the retry message: %s", got)
	}
	if !strings.Contains(got, "<form") {
		t.Errorf("failed form should still render the form: %s", got)
	}
}

func TestCommentSectionSubmitted(t *testing.T) {
	form := commentform.New("p1")
	form.State = commentform.Submitted
	got := renderString(t, CommentSectionView(CommentSection{Slug: "s", Form: form}))
	if !strings.Contains(got, "Thank you for submitting your comment!") {
		t.Errorf("submitted section should thank the reader: %s", got)
	}
	if strings.Contains(got, "<form") {
		t.Errorf("submitted section should not render the form: %s", got)
	}
}

func TestHomeListsPosts(t *testing.T) {
	got := renderString(t, Home(testSite, PageMeta{}, []PostCard{
		{Slug: "a b", Title: "First"},
		{Slug: "second", Title: "Second"},
	}))
	if !strings.Contains(got, `href="/post/a%20b"`) {
		t.Errorf("home should escape slugs in links: %s", got)
	}
	if !strings.Contains(got, "Second") {
		t.Errorf("home should list every post: %s", got)
	}
}

func TestNotFound(t *testing.T) {
	got := renderString(t, NotFound(testSite))
	if !strings.Contains(got, "Page not found") {
		t.Errorf("NotFound = %s", got)
	}
}

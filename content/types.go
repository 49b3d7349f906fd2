package content

import (
	"time"

	"github.com/eringen/pubfront/portabletext"
)

// Slug is the store's slug object.
type Slug struct {
	Current string `json:"current"`
}

// Reference points at another document.
type Reference struct {
	Type string `json:"_type,omitempty"`
	Ref  string `json:"_ref"`
}

// Image is an image field; Asset references the uploaded file.
type Image struct {
	Asset Reference `json:"asset"`
	Alt   string    `json:"alt,omitempty"`
}

// Author is joined into a Post by PostBySlug.
type Author struct {
	Name  string `json:"name"`
	Image Image  `json:"image"`
}

// Post is a blog post document with its author resolved.
type Post struct {
	ID          string              `json:"_id"`
	CreatedAt   time.Time           `json:"_createdAt"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Slug        Slug                `json:"slug"`
	MainImage   Image               `json:"mainImage"`
	Body        portabletext.Blocks `json:"body"`
	Author      Author              `json:"author"`
	Comments    []Comment           `json:"comments"`
}

// PostSummary is the shape returned by path enumeration.
type PostSummary struct {
	ID          string    `json:"_id"`
	CreatedAt   time.Time `json:"_createdAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        Slug      `json:"slug"`
}

// Comment is a reader comment. Only approved comments are ever read back.
type Comment struct {
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"_createdAt"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	Post      Reference `json:"post"`
}

// NewComment is the input to CreateComment. It has no approval field: new
// comments always wait for a moderator.
type NewComment struct {
	PostID  string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

// commentDocument is the persisted shape of a new comment.
type commentDocument struct {
	ID      string    `json:"_id"`
	Type    string    `json:"_type"`
	Post    Reference `json:"post"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Comment string    `json:"comment"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

// BlogPost is an article on the marketing site. Category and tag names are
// denormalized copies; the taxonomy tables are the source of truth.
type BlogPost struct {
	ID         string         `db:"id" json:"id"`
	Slug       string         `db:"slug" json:"slug"`
	Title      string         `db:"title" json:"title"`
	Excerpt    string         `db:"excerpt" json:"excerpt"`
	Content    string         `db:"content" json:"content"`
	Author     string         `db:"author" json:"author"`
	Categories pq.StringArray `db:"categories" json:"categories"`
	Tags       pq.StringArray `db:"tags" json:"tags"`
	Published  bool           `db:"published" json:"published"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// BlogComment is a reader comment attached to a post.
type BlogComment struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	Name      string    `db:"name" json:"name"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BlogPostDetail bundles a post with its comments for the detail page.
type BlogPostDetail struct {
	BlogPost
	Comments []BlogComment `json:"comments"`
}

// BlogPostFilter provides filters for listing posts.
type BlogPostFilter struct {
	Search        string
	Category      string
	Tag           string
	PublishedOnly bool
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

package posts

import "time"

// DateLayout formats the creation date stored with each post.
const DateLayout = "January 2, 2006 3:04 PM"

// Post is the stored record. UserID is fixed at creation.
type Post struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Date   string `json:"date"`
}

// Author is the public part of the owning user shown with a post.
type Author struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PostView is a post joined with its author.
type PostView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Date  string `json:"date"`
	User  Author `json:"user"`
}

// NewPost carries the caller-supplied fields of a post.
type NewPost struct {
	Title string
	Body  string
}

// PostUpdate lists the fields an update may change. Nil fields are left
// untouched.
type PostUpdate struct {
	Title *string
	Body  *string
}

func creationDate(now time.Time) string {
	return now.Format(DateLayout)
}

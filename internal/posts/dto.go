package posts

// CreatePostRequest is the body accepted when creating a post.
type CreatePostRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// UpdatePostRequest is the body accepted when updating a post.
type UpdatePostRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1"`
	Body  *string `json:"body" validate:"omitempty,min=1"`
}

var postMessages = map[string]string{
	"title": "Title is required",
	"body":  "Please enter text into the body",
}

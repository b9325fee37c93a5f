package post

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("post not found")

type Post struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	FullDescription string    `json:"full_description"`
	ImageURL        *string   `json:"image_url"`
	OwnerName       string    `json:"owner_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Fields are the mutable columns of a post. Owner and id never change after create.
type Fields struct {
	Name            string
	Description     string
	FullDescription string
	ImageURL        *string
}

// ListFilter drives keyset pagination over (created_at DESC, id DESC).
// A zero AfterCreatedAt means "first page"; Limit <= 0 means no limit.
type ListFilter struct {
	Limit          int
	AfterCreatedAt time.Time
	AfterID        int64
}

func (f ListFilter) HasCursor() bool {
	return !f.AfterCreatedAt.IsZero()
}

// Both form and json tags are set so the same struct binds multipart uploads and JSON bodies.
type CreatePostRequest struct {
	Name            string `form:"name" json:"name" binding:"required,max=200"`
	Description     string `form:"description" json:"description" binding:"omitempty,max=1000"`
	FullDescription string `form:"full_description" json:"full_description" binding:"omitempty,max=20000"`
}

// a full update payload. ImageURL left nil keeps the current image, an empty string clears it.
type UpdatePostRequest struct {
	Name            string  `form:"name" json:"name" binding:"required,max=200"`
	Description     string  `form:"description" json:"description" binding:"omitempty,max=1000"`
	FullDescription string  `form:"full_description" json:"full_description" binding:"omitempty,max=20000"`
	ImageURL        *string `form:"image_url" json:"image_url" binding:"omitempty,max=2048"`
}

func (r CreatePostRequest) Fields(imageURL *string) Fields {
	return Fields{
		Name:            r.Name,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		ImageURL:        imageURL,
	}
}

func (r UpdatePostRequest) Fields(imageURL *string) Fields {
	return Fields{
		Name:            r.Name,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		ImageURL:        imageURL,
	}
}

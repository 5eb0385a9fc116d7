package post

import "time"

const (
	LikeablePost    = "post"
	LikeableProduct = "product"
)

type Post struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	AuthorName string `db:"author_name" json:"author_name,omitempty"`
	LikeCount  int    `db:"like_count" json:"like_count"`
}

type CreatePostRequest struct {
	Content  string `json:"content" binding:"required,notblank"`
	ImageURL string `json:"image_url"`
}

type LikeRequest struct {
	LikeableType string `json:"likeable_type" binding:"required,oneof=post product"`
	LikeableID   int    `json:"likeable_id" binding:"required"`
}

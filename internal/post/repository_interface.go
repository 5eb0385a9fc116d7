package post

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, content, imageURL string) (*Post, error)
	GetByID(ctx context.Context, id int) (*Post, error)
	GetAll(ctx context.Context, limit, offset int) ([]Post, error)
	Delete(ctx context.Context, id, userID int) error
	Like(ctx context.Context, userID int, likeableType string, likeableID int) error
	Unlike(ctx context.Context, userID int, likeableType string, likeableID int) error
	LikeCount(ctx context.Context, likeableType string, likeableID int) (int, error)
}

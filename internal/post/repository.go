package post

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrAlreadyLiked = errors.New("already liked")
	ErrLikeNotFound = errors.New("like not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, content, imageURL string) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO posts (user_id, content, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, content, image_url, created_at`,
		userID, content, imageURL)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p, `
		SELECT p.id, p.user_id, p.content, p.image_url, p.created_at,
		       u.name AS author_name,
		       COUNT(l.id) AS like_count
		FROM posts p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN likes l ON l.likeable_type = 'post' AND l.likeable_id = p.id
		WHERE p.id = $1
		GROUP BY p.id, u.name`,
		id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetAll(ctx context.Context, limit, offset int) ([]Post, error) {
	if limit <= 0 {
		limit = 20
	}

	var posts []Post
	err := r.db.SelectContext(ctx, &posts, `
		SELECT p.id, p.user_id, p.content, p.image_url, p.created_at,
		       u.name AS author_name,
		       COUNT(l.id) AS like_count
		FROM posts p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN likes l ON l.likeable_type = 'post' AND l.likeable_id = p.id
		GROUP BY p.id, u.name
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *repository) Delete(ctx context.Context, id, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *repository) Like(ctx context.Context, userID int, likeableType string, likeableID int) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO likes (user_id, likeable_type, likeable_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, likeable_type, likeable_id) DO NOTHING`,
		userID, likeableType, likeableID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyLiked
	}

	return nil
}

func (r *repository) Unlike(ctx context.Context, userID int, likeableType string, likeableID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND likeable_type = $2 AND likeable_id = $3`,
		userID, likeableType, likeableID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrLikeNotFound
	}

	return nil
}

func (r *repository) LikeCount(ctx context.Context, likeableType string, likeableID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM likes WHERE likeable_type = $1 AND likeable_id = $2`,
		likeableType, likeableID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devhive/internal/cache"
	"devhive/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post. Content defaults to the empty string when the
// client omits it; absent media URLs are stored as NULL, never "".
func (r *postRepository) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	content := ""
	if req.Content != nil {
		content = *req.Content
	}

	query := `
		INSERT INTO posts (user_id, type, content, image_url, video_url, gif_url, like_count, liked)
		VALUES ($1, $2, $3, $4, $5, $6, 0, FALSE)
		RETURNING id, user_id, type, content, image_url, video_url, gif_url, like_count, liked, created_at
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, req.Type, content, req.ImageURL, req.VideoURL, req.GifURL)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return &post, nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, type, content, image_url, video_url, gif_url, like_count, liked, created_at
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// GetByIDs retrieves multiple posts by their IDs.
// Used for hydrating feed from cache; output preserves input order.
func (r *postRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	if len(postIDs) == 0 {
		return []model.Post{}, nil
	}

	query := `
		SELECT id, user_id, type, content, image_url, video_url, gif_url, like_count, liked, created_at
		FROM posts
		WHERE id = ANY($1)
	`
	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("get posts by ids: %w", err)
	}

	postsMap := make(map[int64]model.Post, len(posts))
	for _, p := range posts {
		postsMap[p.ID] = p
	}
	ordered := make([]model.Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := postsMap[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

// Delete removes a post permanently. Comments referencing it are left in
// place, and deleting an already-deleted ID succeeds silently.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ToggleLike flips the liked flag and moves like_count with it under a row
// lock, so the two fields can never disagree under concurrent toggles.
// The counter floors at zero on unlike.
func (r *postRepository) ToggleLike(ctx context.Context, postID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cur struct {
		Liked     bool `db:"liked"`
		LikeCount int  `db:"like_count"`
	}
	err = tx.GetContext(ctx, &cur, `SELECT liked, like_count FROM posts WHERE id = $1 FOR UPDATE`, postID)
	if err == sql.ErrNoRows {
		return false, model.ErrPostNotFound
	}
	if err != nil {
		return false, fmt.Errorf("get like state: %w", err)
	}

	liked, count := model.NextLikeState(cur.Liked, cur.LikeCount)

	_, err = tx.ExecContext(ctx, `UPDATE posts SET liked = $1, like_count = $2 WHERE id = $3`, liked, count, postID)
	if err != nil {
		return false, fmt.Errorf("update like state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return liked, nil
}

// GetAuthorID returns the author of a post (for event publishing).
func (r *postRepository) GetAuthorID(ctx context.Context, postID int64) (int64, error) {
	var authorID int64
	err := r.db.GetContext(ctx, &authorID, `SELECT user_id FROM posts WHERE id = $1`, postID)
	if err == sql.ErrNoRows {
		return 0, model.ErrPostNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get author id: %w", err)
	}
	return authorID, nil
}

// GetRecentPostsByUser returns recent posts by a user (for friend backfill).
// Returns PostScore slice for cache warming.
func (r *postRepository) GetRecentPostsByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::bigint as timestamp
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	type row struct {
		ID        int64 `db:"id"`
		Timestamp int64 `db:"timestamp"`
	}
	var rows []row
	err := r.db.SelectContext(ctx, &rows, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent posts: %w", err)
	}

	posts := make([]cache.PostScore, len(rows))
	for i, r := range rows {
		posts[i] = cache.PostScore{PostID: r.ID, Timestamp: r.Timestamp}
	}
	return posts, nil
}

// GetFeedPostIDs returns post IDs from the given authors for cache warming.
// Fetches up to `limit` posts ordered by created_at DESC.
func (r *postRepository) GetFeedPostIDs(ctx context.Context, userIDs []int64, limit int) ([]cache.PostScore, error) {
	if len(userIDs) == 0 {
		return []cache.PostScore{}, nil
	}

	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::bigint as timestamp
		FROM posts
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	type row struct {
		ID        int64 `db:"id"`
		Timestamp int64 `db:"timestamp"`
	}
	var rows []row
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("get feed post ids: %w", err)
	}

	posts := make([]cache.PostScore, len(rows))
	for i, r := range rows {
		posts[i] = cache.PostScore{PostID: r.ID, Timestamp: r.Timestamp}
	}
	return posts, nil
}

// Exists checks if a post exists.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

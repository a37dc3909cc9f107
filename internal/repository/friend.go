package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devhive/internal/model"
)

type friendRepository struct {
	db *sqlx.DB
}

func NewFriendRepository(db *sqlx.DB) FriendRepository {
	return &friendRepository{db: db}
}

// CreateRequest inserts a pending friend request.
// Returns ErrRequestExists when a request between the pair is already open.
func (r *friendRepository) CreateRequest(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error) {
	query := `
		INSERT INTO friend_requests (sender_id, receiver_id)
		VALUES ($1, $2)
		RETURNING id, sender_id, receiver_id, created_at
	`
	var req model.FriendRequest
	err := r.db.GetContext(ctx, &req, query, senderID, receiverID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, model.ErrRequestExists
		}
		return nil, fmt.Errorf("insert friend request: %w", err)
	}
	return &req, nil
}

// GetRequestByID retrieves a single friend request.
func (r *friendRepository) GetRequestByID(ctx context.Context, requestID int64) (*model.FriendRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, created_at
		FROM friend_requests
		WHERE id = $1
	`
	var req model.FriendRequest
	err := r.db.GetContext(ctx, &req, query, requestID)
	if err == sql.ErrNoRows {
		return nil, model.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get friend request: %w", err)
	}
	return &req, nil
}

// DeleteRequest removes a friend request inside the accept/deny transaction.
func (r *friendRepository) DeleteRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM friend_requests WHERE id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrRequestNotFound
	}
	return nil
}

// ListIncoming returns pending requests addressed to the user, newest first,
// with sender summaries joined in.
func (r *friendRepository) ListIncoming(ctx context.Context, receiverID int64) ([]model.FriendRequest, error) {
	query := `
		SELECT fr.id, fr.sender_id, fr.receiver_id, fr.created_at,
		       u.id as "sender.id", u.username as "sender.username",
		       u.display_name as "sender.display_name", u.avatar_url as "sender.avatar_url"
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.receiver_id = $1
		ORDER BY fr.created_at DESC
	`

	type requestRow struct {
		model.FriendRequest
		SenderID2      int64   `db:"sender.id"`
		SenderUsername string  `db:"sender.username"`
		SenderDisplay  *string `db:"sender.display_name"`
		SenderAvatar   *string `db:"sender.avatar_url"`
	}

	var rows []requestRow
	err := r.db.SelectContext(ctx, &rows, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}

	requests := make([]model.FriendRequest, len(rows))
	for i, row := range rows {
		req := row.FriendRequest
		req.Sender = &model.UserSummary{
			ID:          row.SenderID2,
			Username:    row.SenderUsername,
			DisplayName: row.SenderDisplay,
			AvatarURL:   row.SenderAvatar,
		}
		requests[i] = req
	}

	return requests, nil
}

// CreateFriendship inserts the two mirrored rows for a new friendship.
func (r *friendRepository) CreateFriendship(ctx context.Context, tx *sqlx.Tx, userID, friendID int64) error {
	query := `INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2), ($2, $1)`
	_, err := tx.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyFriends
		}
		return fmt.Errorf("insert friendship: %w", err)
	}
	return nil
}

// DeleteFriendship removes both mirrored rows.
func (r *friendRepository) DeleteFriendship(ctx context.Context, tx *sqlx.Tx, userID, friendID int64) error {
	query := `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`
	result, err := tx.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFriends
	}
	return nil
}

// AreFriends checks whether a friendship exists between the two users.
func (r *friendRepository) AreFriends(ctx context.Context, userID, friendID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`,
		userID, friendID)
	if err != nil {
		return false, fmt.Errorf("check friendship exists: %w", err)
	}
	return exists, nil
}

// GetFriendIDs returns all friend IDs for a user (for feed fan-out).
func (r *friendRepository) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `SELECT friend_id FROM friendships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("get friend ids: %w", err)
	}
	return ids, nil
}

// GetFriends returns the user's friends as summaries, newest friendship first.
func (r *friendRepository) GetFriends(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	var friends []model.UserSummary
	err := r.db.SelectContext(ctx, &friends, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}
	return friends, nil
}

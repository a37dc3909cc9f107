package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"devhive/internal/cache"
	"devhive/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	IncrementFriendCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error)
	// Delete removes a post unconditionally. Deleting a missing ID is a no-op.
	Delete(ctx context.Context, postID int64) error
	// ToggleLike flips the post's liked flag and moves like_count with it in
	// a single transaction. Returns the new liked state.
	ToggleLike(ctx context.Context, postID int64) (bool, error)
	GetAuthorID(ctx context.Context, postID int64) (int64, error)
	GetRecentPostsByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)
	GetFeedPostIDs(ctx context.Context, userIDs []int64, limit int) ([]cache.PostScore, error)
	Exists(ctx context.Context, postID int64) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// Delete removes a comment. Authorization is the service's concern.
	Delete(ctx context.Context, commentID int64) error
	GetByPostID(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error)
}

type FriendRepository interface {
	CreateRequest(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error)
	GetRequestByID(ctx context.Context, requestID int64) (*model.FriendRequest, error)
	DeleteRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) error
	ListIncoming(ctx context.Context, receiverID int64) ([]model.FriendRequest, error)
	// CreateFriendship inserts the two mirrored friendship rows.
	CreateFriendship(ctx context.Context, tx *sqlx.Tx, userID, friendID int64) error
	// DeleteFriendship removes both mirrored rows. Returns ErrNotFriends when
	// no friendship exists.
	DeleteFriendship(ctx context.Context, tx *sqlx.Tx, userID, friendID int64) error
	AreFriends(ctx context.Context, userID, friendID int64) (bool, error)
	GetFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	GetFriends(ctx context.Context, userID int64) ([]model.UserSummary, error)
}

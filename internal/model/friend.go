package model

import (
	"errors"
	"time"
)

// FriendRequest is a pending invitation from Sender to Receiver.
// Accepting it deletes the request and creates the friendship.
type FriendRequest struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"-"`
	ReceiverID int64     `db:"receiver_id" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	Sender *UserSummary `json:"sender,omitempty"` // Joined field
}

// Friendship is stored as two mirrored rows (user_id, friend_id) so that
// "friends of X" is a single indexed lookup in either direction.
type Friendship struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	FriendID  int64     `db:"friend_id" json:"friend_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SendFriendRequest is the request body for sending a friend request.
type SendFriendRequest struct {
	Username string `json:"username"`
}

// FriendRequestListResponse lists incoming requests for the caller.
type FriendRequestListResponse struct {
	Requests []FriendRequest `json:"requests"`
}

// FriendListResponse lists the caller's friends.
type FriendListResponse struct {
	Friends []UserSummary `json:"friends"`
}

// Friend errors
var (
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrRequestExists      = errors.New("friend request already sent")
	ErrAlreadyFriends     = errors.New("already friends with this user")
	ErrNotFriends         = errors.New("not friends with this user")
	ErrCannotFriendSelf   = errors.New("cannot send a friend request to yourself")
	ErrNotRequestReceiver = errors.New("not the receiver of this request")
)

package model

import (
	"errors"
	"time"
)

// Post types. The type describes what the author intended to share; media
// fields are stored independently and are not cross-validated against it.
const (
	PostTypeText  = "text"
	PostTypeImage = "image"
	PostTypeVideo = "video"
	PostTypeGif   = "gif"
)

// Post represents a feed entry with optional media and a denormalized
// like counter. Liked is a single per-post flag, not a per-user relation:
// the toggle endpoint flips it for whoever calls it.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	VideoURL  *string   `db:"video_url" json:"video_url,omitempty"`
	GifURL    *string   `db:"gif_url" json:"gif_url,omitempty"`
	LikeCount int       `db:"like_count" json:"like_count"`
	Liked     bool      `db:"liked" json:"liked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined field (not in posts table)
	Author *UserSummary `json:"author,omitempty"`
}

// FeedPost is an enriched post for feed display.
type FeedPost struct {
	Post
	Author UserSummary `json:"author"`
}

// FeedResponse is the paginated feed response.
type FeedResponse struct {
	Posts      []FeedPost `json:"posts"`
	NextCursor *string    `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// CreatePostRequest is the request body for creating a post.
// Media URLs are pointers so that "not provided" is stored as NULL,
// never as an empty string.
type CreatePostRequest struct {
	Type     string  `json:"type"`
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	VideoURL *string `json:"video_url,omitempty"`
	GifURL   *string `json:"gif_url,omitempty"`
}

// ToggleLikeResult is returned by the like toggle endpoint.
type ToggleLikeResult struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

// Like toggle messages, surfaced verbatim to the client.
const (
	MsgPostLiked   = "You have liked the post."
	MsgPostUnliked = "You have unliked the post."
)

// Post constraints
const (
	MaxPostContentLength = 5000
)

// Post errors
var (
	ErrPostNotFound   = errors.New("post not found")
	ErrInvalidType    = errors.New("invalid post type")
	ErrContentTooLong = errors.New("content too long")
)

// IsValidPostType reports whether t is one of the supported post types.
func IsValidPostType(t string) bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeVideo, PostTypeGif:
		return true
	}
	return false
}

// NextLikeState computes the toggle transition for a post's like state.
// Unliking floors the counter at zero so a drifted counter can never go
// negative.
func NextLikeState(liked bool, likeCount int) (bool, int) {
	if liked {
		likeCount--
		if likeCount < 0 {
			likeCount = 0
		}
		return false, likeCount
	}
	return true, likeCount + 1
}

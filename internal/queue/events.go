package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// FeedStream is the Redis Stream key for feed events
	FeedStream = "stream:feed"

	// FeedGroup is the consumer group name for feed workers
	FeedGroup = "feed_workers"
)

// Event types
const (
	EventPostCreated   = "post_created"
	EventPostDeleted   = "post_deleted"
	EventFriendAdded   = "friend_added"
	EventFriendRemoved = "friend_removed"
)

// FeedEvent represents an event published to the feed stream.
// Fields are used depending on Type:
//   - post_created / post_deleted: PostID, AuthorID, Timestamp
//   - friend_added / friend_removed: UserID, FriendID
type FeedEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
	PostID    int64  `json:"post_id,omitempty"`
	AuthorID  int64  `json:"author_id,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
	FriendID  int64  `json:"friend_id,omitempty"`
}

// NewPostCreatedEvent builds a post_created event.
func NewPostCreatedEvent(postID, authorID int64, createdAt time.Time) FeedEvent {
	return FeedEvent{
		Type:      EventPostCreated,
		Timestamp: createdAt.Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

// NewPostDeletedEvent builds a post_deleted event.
func NewPostDeletedEvent(postID, authorID int64) FeedEvent {
	return FeedEvent{
		Type:     EventPostDeleted,
		PostID:   postID,
		AuthorID: authorID,
	}
}

// NewFriendAddedEvent builds a friend_added event.
func NewFriendAddedEvent(userID, friendID int64) FeedEvent {
	return FeedEvent{
		Type:     EventFriendAdded,
		UserID:   userID,
		FriendID: friendID,
	}
}

// NewFriendRemovedEvent builds a friend_removed event.
func NewFriendRemovedEvent(userID, friendID int64) FeedEvent {
	return FeedEvent{
		Type:     EventFriendRemoved,
		UserID:   userID,
		FriendID: friendID,
	}
}

// ToMap serializes the event for XADD. The whole event is carried as a
// single JSON blob under "data" so the schema can evolve without changing
// the stream field layout.
func (e FeedEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{"data": string(data)}, nil
}

// ParseFeedEvent deserializes an event from stream message values.
func ParseFeedEvent(values map[string]interface{}) (FeedEvent, error) {
	var event FeedEvent

	raw, ok := values["data"]
	if !ok {
		return event, fmt.Errorf("missing data field in stream message")
	}

	data, ok := raw.(string)
	if !ok {
		return event, fmt.Errorf("data field is not a string")
	}

	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return event, fmt.Errorf("unmarshal event: %w", err)
	}

	return event, nil
}

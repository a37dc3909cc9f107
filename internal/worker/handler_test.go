package worker

import (
	"context"
	"errors"
	"testing"

	"devhive/internal/cache"
	"devhive/internal/queue"
)

type feedWrite struct {
	userID int64
	postID int64
}

type mockFeedCache struct {
	addPostFn func(ctx context.Context, userID, postID, timestamp int64) error

	added   []feedWrite
	removed []feedWrite
}

func (m *mockFeedCache) AddPost(ctx context.Context, userID, postID int64, timestamp int64) error {
	m.added = append(m.added, feedWrite{userID: userID, postID: postID})
	if m.addPostFn != nil {
		return m.addPostFn(ctx, userID, postID, timestamp)
	}
	return nil
}

func (m *mockFeedCache) RemovePost(ctx context.Context, userID, postID int64) error {
	m.removed = append(m.removed, feedWrite{userID: userID, postID: postID})
	return nil
}

func (m *mockFeedCache) GetFeed(ctx context.Context, userID int64, cursorScore *float64, limit int) ([]int64, []float64, error) {
	return nil, nil, nil
}

func (m *mockFeedCache) WarmCache(ctx context.Context, userID int64, posts []cache.PostScore) error {
	return nil
}

func (m *mockFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	return true, nil
}

type mockFriendProvider struct {
	friends map[int64][]int64
}

func (m *mockFriendProvider) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return m.friends[userID], nil
}

type mockPostsProvider struct {
	posts map[int64][]cache.PostScore
}

func (m *mockPostsProvider) GetRecentPostsByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	return m.posts[userID], nil
}

func containsWrite(writes []feedWrite, userID, postID int64) bool {
	for _, w := range writes {
		if w.userID == userID && w.postID == postID {
			return true
		}
	}
	return false
}

func TestHandler_PostCreated_FansOutToFriendsAndAuthor(t *testing.T) {
	feed := &mockFeedCache{}
	handler := NewHandler(feed, &mockFriendProvider{
		friends: map[int64][]int64{7: {8, 9}},
	}, &mockPostsProvider{})

	err := handler.HandleEvent(context.Background(), queue.FeedEvent{
		Type:      queue.EventPostCreated,
		PostID:    42,
		AuthorID:  7,
		Timestamp: 1700000000,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.added) != 3 {
		t.Fatalf("added %d entries, want 3", len(feed.added))
	}
	for _, userID := range []int64{7, 8, 9} {
		if !containsWrite(feed.added, userID, 42) {
			t.Errorf("post 42 missing from user %d's feed", userID)
		}
	}
}

func TestHandler_PostCreated_ContinuesPastFailures(t *testing.T) {
	feed := &mockFeedCache{
		addPostFn: func(ctx context.Context, userID, postID, timestamp int64) error {
			if userID == 8 {
				return errors.New("redis down for this shard")
			}
			return nil
		},
	}
	handler := NewHandler(feed, &mockFriendProvider{
		friends: map[int64][]int64{7: {8, 9}},
	}, &mockPostsProvider{})

	err := handler.HandleEvent(context.Background(), queue.FeedEvent{
		Type:     queue.EventPostCreated,
		PostID:   42,
		AuthorID: 7,
	})

	if err != nil {
		t.Fatalf("partial fan-out failure should not fail the event: %v", err)
	}
	// All three writes must still be attempted
	if len(feed.added) != 3 {
		t.Errorf("attempted %d writes, want 3", len(feed.added))
	}
}

func TestHandler_PostDeleted_RemovesFromFriendsAndAuthor(t *testing.T) {
	feed := &mockFeedCache{}
	handler := NewHandler(feed, &mockFriendProvider{
		friends: map[int64][]int64{7: {8}},
	}, &mockPostsProvider{})

	err := handler.HandleEvent(context.Background(), queue.FeedEvent{
		Type:     queue.EventPostDeleted,
		PostID:   42,
		AuthorID: 7,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsWrite(feed.removed, 8, 42) || !containsWrite(feed.removed, 7, 42) {
		t.Errorf("removals = %+v, want post 42 gone from users 7 and 8", feed.removed)
	}
}

func TestHandler_FriendAdded_BackfillsBothDirections(t *testing.T) {
	feed := &mockFeedCache{}
	handler := NewHandler(feed, &mockFriendProvider{}, &mockPostsProvider{
		posts: map[int64][]cache.PostScore{
			7: {{PostID: 100, Timestamp: 1700000000}},
			8: {{PostID: 200, Timestamp: 1700000100}},
		},
	})

	err := handler.HandleEvent(context.Background(), queue.FeedEvent{
		Type:     queue.EventFriendAdded,
		UserID:   7,
		FriendID: 8,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsWrite(feed.added, 7, 200) {
		t.Error("friend's post 200 should land in user 7's feed")
	}
	if !containsWrite(feed.added, 8, 100) {
		t.Error("user's post 100 should land in friend 8's feed")
	}
}

func TestHandler_FriendRemoved_RemovesBothDirections(t *testing.T) {
	feed := &mockFeedCache{}
	handler := NewHandler(feed, &mockFriendProvider{}, &mockPostsProvider{
		posts: map[int64][]cache.PostScore{
			7: {{PostID: 100}},
			8: {{PostID: 200}},
		},
	})

	err := handler.HandleEvent(context.Background(), queue.FeedEvent{
		Type:     queue.EventFriendRemoved,
		UserID:   7,
		FriendID: 8,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsWrite(feed.removed, 7, 200) {
		t.Error("friend's post 200 should be removed from user 7's feed")
	}
	if !containsWrite(feed.removed, 8, 100) {
		t.Error("user's post 100 should be removed from friend 8's feed")
	}
}

func TestHandler_UnknownEventType(t *testing.T) {
	handler := NewHandler(&mockFeedCache{}, &mockFriendProvider{}, &mockPostsProvider{})

	err := handler.HandleEvent(context.Background(), queue.FeedEvent{Type: "mystery"})

	if err == nil {
		t.Error("unknown event type should be an error")
	}
}

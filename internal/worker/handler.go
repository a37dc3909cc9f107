package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"devhive/internal/cache"
	"devhive/internal/queue"
)

// FriendProvider defines the interface for fetching a user's friends.
// This abstracts the repository layer so workers don't depend on DB directly.
type FriendProvider interface {
	// GetFriendIDs returns all friend IDs for a given user.
	GetFriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

// RecentPostsProvider defines the interface for fetching recent posts.
// Used for backfilling feeds when a friendship forms.
type RecentPostsProvider interface {
	// GetRecentPostsByUser returns recent posts by a user as
	// (postID, timestamp) pairs.
	GetRecentPostsByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)
}

// Handler processes feed events from the queue.
type Handler struct {
	feedCache      cache.FeedCache
	friendProvider FriendProvider
	postsProvider  RecentPostsProvider
}

// NewHandler creates a new event handler.
func NewHandler(
	feedCache cache.FeedCache,
	friendProvider FriendProvider,
	postsProvider RecentPostsProvider,
) *Handler {
	return &Handler{
		feedCache:      feedCache,
		friendProvider: friendProvider,
		postsProvider:  postsProvider,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.FeedEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventPostCreated:
		err = h.handlePostCreated(ctx, event)
	case queue.EventPostDeleted:
		err = h.handlePostDeleted(ctx, event)
	case queue.EventFriendAdded:
		err = h.handleFriendAdded(ctx, event)
	case queue.EventFriendRemoved:
		err = h.handleFriendRemoved(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handlePostCreated fans out a new post to all friends' feed caches.
func (h *Handler) handlePostCreated(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] PostCreated: post=%d author=%d", event.PostID, event.AuthorID)

	friends, err := h.friendProvider.GetFriendIDs(ctx, event.AuthorID)
	if err != nil {
		return fmt.Errorf("get friends: %w", err)
	}

	log.Printf("[Worker] PostCreated: fanning out to %d friends", len(friends))

	var failCount int
	for _, friendID := range friends {
		err := h.feedCache.AddPost(ctx, friendID, event.PostID, event.Timestamp)
		if err != nil {
			log.Printf("[Worker] PostCreated: failed to add to user=%d err=%v", friendID, err)
			failCount++
			// Continue with other friends - don't fail entire fan-out
		}
	}

	// Also add to author's own feed (they see their own posts)
	if err := h.feedCache.AddPost(ctx, event.AuthorID, event.PostID, event.Timestamp); err != nil {
		log.Printf("[Worker] PostCreated: failed to add to author's own feed err=%v", err)
	}

	log.Printf("[Worker] PostCreated DONE: post=%d fanout=%d failed=%d",
		event.PostID, len(friends)+1, failCount)

	return nil
}

// handlePostDeleted removes a post from all friends' feed caches.
func (h *Handler) handlePostDeleted(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] PostDeleted: post=%d author=%d", event.PostID, event.AuthorID)

	friends, err := h.friendProvider.GetFriendIDs(ctx, event.AuthorID)
	if err != nil {
		return fmt.Errorf("get friends: %w", err)
	}

	var failCount int
	for _, friendID := range friends {
		err := h.feedCache.RemovePost(ctx, friendID, event.PostID)
		if err != nil {
			log.Printf("[Worker] PostDeleted: failed to remove from user=%d err=%v", friendID, err)
			failCount++
		}
	}

	// Also remove from author's own feed
	if err := h.feedCache.RemovePost(ctx, event.AuthorID, event.PostID); err != nil {
		log.Printf("[Worker] PostDeleted: failed to remove from author's own feed err=%v", err)
	}

	log.Printf("[Worker] PostDeleted DONE: post=%d fanout=%d failed=%d",
		event.PostID, len(friends)+1, failCount)

	return nil
}

// handleFriendAdded backfills both users' feeds with each other's recent
// posts. Friendship is symmetric, so the backfill runs in both directions.
func (h *Handler) handleFriendAdded(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] FriendAdded: user=%d friend=%d", event.UserID, event.FriendID)

	if err := h.backfillFeed(ctx, event.UserID, event.FriendID); err != nil {
		return err
	}
	return h.backfillFeed(ctx, event.FriendID, event.UserID)
}

// backfillFeed adds authorID's recent posts to userID's feed cache.
func (h *Handler) backfillFeed(ctx context.Context, userID, authorID int64) error {
	const backfillLimit = 20 // How many recent posts to backfill
	posts, err := h.postsProvider.GetRecentPostsByUser(ctx, authorID, backfillLimit)
	if err != nil {
		return fmt.Errorf("get recent posts: %w", err)
	}

	if len(posts) == 0 {
		return nil
	}

	var failCount int
	for _, p := range posts {
		err := h.feedCache.AddPost(ctx, userID, p.PostID, p.Timestamp)
		if err != nil {
			log.Printf("[Worker] FriendAdded: failed to add post=%d err=%v", p.PostID, err)
			failCount++
		}
	}

	log.Printf("[Worker] FriendAdded: user=%d backfilled=%d failed=%d",
		userID, len(posts), failCount)
	return nil
}

// handleFriendRemoved removes each user's posts from the other's feed cache.
func (h *Handler) handleFriendRemoved(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] FriendRemoved: user=%d friend=%d", event.UserID, event.FriendID)

	if err := h.removeAuthorPosts(ctx, event.UserID, event.FriendID); err != nil {
		return err
	}
	return h.removeAuthorPosts(ctx, event.FriendID, event.UserID)
}

// removeAuthorPosts removes authorID's posts from userID's feed cache.
// Uses a higher limit than backfill since all cached posts should go.
func (h *Handler) removeAuthorPosts(ctx context.Context, userID, authorID int64) error {
	const removeLimit = 100
	posts, err := h.postsProvider.GetRecentPostsByUser(ctx, authorID, removeLimit)
	if err != nil {
		return fmt.Errorf("get posts to remove: %w", err)
	}

	if len(posts) == 0 {
		return nil
	}

	var failCount int
	for _, p := range posts {
		err := h.feedCache.RemovePost(ctx, userID, p.PostID)
		if err != nil {
			log.Printf("[Worker] FriendRemoved: failed to remove post=%d err=%v", p.PostID, err)
			failCount++
		}
	}

	log.Printf("[Worker] FriendRemoved: user=%d removed=%d failed=%d",
		userID, len(posts), failCount)
	return nil
}

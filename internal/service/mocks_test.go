package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"devhive/internal/cache"
	"devhive/internal/model"
	"devhive/internal/queue"
)

// Function-field mocks for the repository interfaces. Each test overrides
// only the calls it cares about; everything else falls back to a not-found
// or zero-value default. Shared across the service tests in this package.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByExternalIDFn  func(ctx context.Context, externalID string) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)

	createCalls int
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	if m.getByExternalIDFn != nil {
		return m.getByExternalIDFn(ctx, externalID)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) IncrementFriendCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	return nil
}

type mockPostRepository struct {
	createFn     func(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error)
	getByIDFn    func(ctx context.Context, postID int64) (*model.Post, error)
	toggleLikeFn func(ctx context.Context, postID int64) (bool, error)
	getAuthorFn  func(ctx context.Context, postID int64) (int64, error)

	createCalls     int
	deleteCalls     []int64
	toggleLikeCalls int
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	return nil, nil
}

func (m *mockPostRepository) Delete(ctx context.Context, postID int64) error {
	m.deleteCalls = append(m.deleteCalls, postID)
	return nil
}

func (m *mockPostRepository) ToggleLike(ctx context.Context, postID int64) (bool, error) {
	m.toggleLikeCalls++
	if m.toggleLikeFn != nil {
		return m.toggleLikeFn(ctx, postID)
	}
	return false, model.ErrPostNotFound
}

func (m *mockPostRepository) GetAuthorID(ctx context.Context, postID int64) (int64, error) {
	if m.getAuthorFn != nil {
		return m.getAuthorFn(ctx, postID)
	}
	return 0, model.ErrPostNotFound
}

func (m *mockPostRepository) GetRecentPostsByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	return nil, nil
}

func (m *mockPostRepository) GetFeedPostIDs(ctx context.Context, userIDs []int64, limit int) ([]cache.PostScore, error) {
	return nil, nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	return false, nil
}

type mockCommentRepository struct {
	createFn  func(ctx context.Context, postID, userID int64, content string) (*model.Comment, error)
	getByIDFn func(ctx context.Context, commentID int64) (*model.Comment, error)

	createCalls int
	deleteCalls []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, content)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Content: content}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID int64) error {
	m.deleteCalls = append(m.deleteCalls, commentID)
	return nil
}

func (m *mockCommentRepository) GetByPostID(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error) {
	return nil, nil, nil
}

type mockFriendRepository struct {
	createRequestFn func(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error)
	areFriendsFn    func(ctx context.Context, userID, friendID int64) (bool, error)
	listIncomingFn  func(ctx context.Context, receiverID int64) ([]model.FriendRequest, error)
	getFriendsFn    func(ctx context.Context, userID int64) ([]model.UserSummary, error)

	createRequestCalls int
}

func (m *mockFriendRepository) CreateRequest(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error) {
	m.createRequestCalls++
	if m.createRequestFn != nil {
		return m.createRequestFn(ctx, senderID, receiverID)
	}
	return &model.FriendRequest{ID: 1, SenderID: senderID, ReceiverID: receiverID}, nil
}

func (m *mockFriendRepository) GetRequestByID(ctx context.Context, requestID int64) (*model.FriendRequest, error) {
	return nil, model.ErrRequestNotFound
}

func (m *mockFriendRepository) DeleteRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) error {
	return nil
}

func (m *mockFriendRepository) ListIncoming(ctx context.Context, receiverID int64) ([]model.FriendRequest, error) {
	if m.listIncomingFn != nil {
		return m.listIncomingFn(ctx, receiverID)
	}
	return nil, nil
}

func (m *mockFriendRepository) CreateFriendship(ctx context.Context, tx *sqlx.Tx, userID, friendID int64) error {
	return nil
}

func (m *mockFriendRepository) DeleteFriendship(ctx context.Context, tx *sqlx.Tx, userID, friendID int64) error {
	return model.ErrNotFriends
}

func (m *mockFriendRepository) AreFriends(ctx context.Context, userID, friendID int64) (bool, error) {
	if m.areFriendsFn != nil {
		return m.areFriendsFn(ctx, userID, friendID)
	}
	return false, nil
}

func (m *mockFriendRepository) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return nil, nil
}

func (m *mockFriendRepository) GetFriends(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	if m.getFriendsFn != nil {
		return m.getFriendsFn(ctx, userID)
	}
	return nil, nil
}

type mockPublisher struct {
	publishFn func(ctx context.Context, event queue.FeedEvent) error

	events []queue.FeedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event queue.FeedEvent) error {
	m.events = append(m.events, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

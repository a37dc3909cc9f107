package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"devhive/internal/model"
	"devhive/internal/queue"
)

const testSubject = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

func knownSubjectRepo(userID int64) *mockUserRepository {
	return &mockUserRepository{
		getByExternalIDFn: func(ctx context.Context, externalID string) (*model.User, error) {
			if externalID == testSubject {
				return &model.User{ID: userID, ExternalID: externalID, Username: "author"}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
}

func strPtr(s string) *string { return &s }

func TestPostService_Create_Defaults(t *testing.T) {
	var gotReq model.CreatePostRequest
	mockPosts := &mockPostRepository{
		createFn: func(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
			gotReq = req
			// Mirror what the insert produces for an omitted content field
			return &model.Post{
				ID:        42,
				UserID:    userID,
				Type:      req.Type,
				Content:   "",
				LikeCount: 0,
				Liked:     false,
				CreatedAt: time.Now(),
			}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewPostService(mockPosts, knownSubjectRepo(7), pub)

	post, err := svc.Create(context.Background(), testSubject, model.CreatePostRequest{
		Type: model.PostTypeText,
		// Content and media URLs omitted
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.Content != nil {
		t.Error("content should stay nil on the way to the repository")
	}
	if post.Content != "" {
		t.Errorf("content = %q, want empty string", post.Content)
	}
	if post.LikeCount != 0 || post.Liked {
		t.Errorf("new post should start unliked with zero count, got liked=%v count=%d", post.Liked, post.LikeCount)
	}
	if post.ImageURL != nil || post.VideoURL != nil || post.GifURL != nil {
		t.Error("absent media URLs should stay nil")
	}
	if post.Author == nil || post.Author.ID != 7 {
		t.Errorf("author should be attached, got %+v", post.Author)
	}

	if len(pub.events) != 1 || pub.events[0].Type != queue.EventPostCreated {
		t.Errorf("expected one post_created event, got %+v", pub.events)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	long := make([]byte, model.MaxPostContentLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name    string
		req     model.CreatePostRequest
		wantErr error
	}{
		{"missing type", model.CreatePostRequest{}, model.ErrInvalidType},
		{"unknown type", model.CreatePostRequest{Type: "poll"}, model.ErrInvalidType},
		{"content too long", model.CreatePostRequest{Type: model.PostTypeText, Content: strPtr(string(long))}, model.ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPosts := &mockPostRepository{}
			svc := NewPostService(mockPosts, knownSubjectRepo(7), &mockPublisher{})

			_, err := svc.Create(context.Background(), testSubject, tt.req)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if mockPosts.createCalls != 0 {
				t.Error("Create should not reach the repository for invalid input")
			}
		})
	}
}

func TestPostService_Create_UnknownSubject(t *testing.T) {
	mockPosts := &mockPostRepository{}
	svc := NewPostService(mockPosts, knownSubjectRepo(7), &mockPublisher{})

	_, err := svc.Create(context.Background(), "unknown-subject", model.CreatePostRequest{
		Type: model.PostTypeText,
	})

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
	if mockPosts.createCalls != 0 {
		t.Error("nothing should be written for an unknown subject")
	}
}

func TestPostService_Create_PublishFailureDoesNotFail(t *testing.T) {
	mockPosts := &mockPostRepository{
		createFn: func(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
			return &model.Post{ID: 42, UserID: userID, Type: req.Type, CreatedAt: time.Now()}, nil
		},
	}
	pub := &mockPublisher{
		publishFn: func(ctx context.Context, event queue.FeedEvent) error {
			return errors.New("stream unavailable")
		},
	}
	svc := NewPostService(mockPosts, knownSubjectRepo(7), pub)

	post, err := svc.Create(context.Background(), testSubject, model.CreatePostRequest{Type: model.PostTypeText})

	// The post is committed; fan-out is best-effort
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post == nil {
		t.Fatal("expected post, got nil")
	}
}

func TestPostService_Delete_AnyCallerAnyPost(t *testing.T) {
	mockPosts := &mockPostRepository{
		getAuthorFn: func(ctx context.Context, postID int64) (int64, error) {
			return 99, nil // Owned by someone else
		},
	}
	pub := &mockPublisher{}
	svc := NewPostService(mockPosts, knownSubjectRepo(7), pub)

	err := svc.Delete(context.Background(), testSubject, 42)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mockPosts.deleteCalls) != 1 || mockPosts.deleteCalls[0] != 42 {
		t.Errorf("delete calls = %v, want [42]", mockPosts.deleteCalls)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventPostDeleted || pub.events[0].AuthorID != 99 {
		t.Errorf("expected post_deleted event for author 99, got %+v", pub.events)
	}
}

func TestPostService_Delete_MissingPostIsNoop(t *testing.T) {
	mockPosts := &mockPostRepository{
		getAuthorFn: func(ctx context.Context, postID int64) (int64, error) {
			return 0, model.ErrPostNotFound
		},
	}
	pub := &mockPublisher{}
	svc := NewPostService(mockPosts, knownSubjectRepo(7), pub)

	err := svc.Delete(context.Background(), testSubject, 404)

	if err != nil {
		t.Fatalf("deleting a missing post should succeed, got: %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("no event should be published for a missing post, got %+v", pub.events)
	}
}

func TestPostService_Delete_UnknownSubject(t *testing.T) {
	mockPosts := &mockPostRepository{}
	svc := NewPostService(mockPosts, knownSubjectRepo(7), &mockPublisher{})

	err := svc.Delete(context.Background(), "unknown-subject", 42)

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
	if len(mockPosts.deleteCalls) != 0 {
		t.Error("nothing should be deleted for an unknown subject")
	}
}

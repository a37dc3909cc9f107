package service

import (
	"context"
	"errors"
	"testing"

	"devhive/internal/model"
)

func TestLikeService_Toggle(t *testing.T) {
	tests := []struct {
		name        string
		newLiked    bool
		wantMessage string
	}{
		{"like", true, model.MsgPostLiked},
		{"unlike", false, model.MsgPostUnliked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPosts := &mockPostRepository{
				toggleLikeFn: func(ctx context.Context, postID int64) (bool, error) {
					return tt.newLiked, nil
				},
			}
			svc := NewLikeService(mockPosts, knownSubjectRepo(7))

			result, err := svc.Toggle(context.Background(), testSubject, 42)

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Liked != tt.newLiked {
				t.Errorf("liked = %v, want %v", result.Liked, tt.newLiked)
			}
			if result.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", result.Message, tt.wantMessage)
			}
		})
	}
}

func TestLikeService_Toggle_RoundTrip(t *testing.T) {
	// Stateful mock: toggling twice must return the post to its start state
	liked := false
	count := 0
	mockPosts := &mockPostRepository{
		toggleLikeFn: func(ctx context.Context, postID int64) (bool, error) {
			liked, count = model.NextLikeState(liked, count)
			return liked, nil
		},
	}
	svc := NewLikeService(mockPosts, knownSubjectRepo(7))

	first, err := svc.Toggle(context.Background(), testSubject, 42)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Liked || count != 1 {
		t.Errorf("after first toggle: liked=%v count=%d, want true/1", first.Liked, count)
	}

	second, err := svc.Toggle(context.Background(), testSubject, 42)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Liked || count != 0 {
		t.Errorf("after second toggle: liked=%v count=%d, want false/0", second.Liked, count)
	}
}

func TestLikeService_Toggle_PostNotFound(t *testing.T) {
	mockPosts := &mockPostRepository{
		toggleLikeFn: func(ctx context.Context, postID int64) (bool, error) {
			return false, model.ErrPostNotFound
		},
	}
	svc := NewLikeService(mockPosts, knownSubjectRepo(7))

	_, err := svc.Toggle(context.Background(), testSubject, 404)

	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestLikeService_Toggle_UnknownSubject(t *testing.T) {
	mockPosts := &mockPostRepository{}
	svc := NewLikeService(mockPosts, knownSubjectRepo(7))

	_, err := svc.Toggle(context.Background(), "unknown-subject", 42)

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
	if mockPosts.toggleLikeCalls != 0 {
		t.Error("toggle should not run for an unknown subject")
	}
}

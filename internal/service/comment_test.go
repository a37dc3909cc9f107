package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"devhive/internal/model"
)

func TestCommentService_Create_Success(t *testing.T) {
	mockComments := &mockCommentRepository{}
	// Post lookup is deliberately absent from the create path, so the post
	// repository returning not-found must not matter here.
	mockPosts := &mockPostRepository{}
	svc := NewCommentService(mockComments, mockPosts, knownSubjectRepo(7))

	comment, err := svc.Create(context.Background(), testSubject, 42, model.CreateCommentRequest{
		Content: "nice post",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.PostID != 42 || comment.Content != "nice post" {
		t.Errorf("comment = %+v", comment)
	}
	if comment.Author == nil || comment.Author.ID != 7 {
		t.Errorf("author should be attached, got %+v", comment.Author)
	}
}

func TestCommentService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty content", "", model.ErrContentRequired},
		{"whitespace only", "   \n\t", model.ErrContentRequired},
		{"too long", strings.Repeat("a", model.MaxCommentLength+1), model.ErrCommentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockComments := &mockCommentRepository{}
			svc := NewCommentService(mockComments, &mockPostRepository{}, knownSubjectRepo(7))

			_, err := svc.Create(context.Background(), testSubject, 42, model.CreateCommentRequest{
				Content: tt.content,
			})

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if mockComments.createCalls != 0 {
				t.Error("Create should not reach the repository for invalid input")
			}
		})
	}
}

func TestCommentService_Create_UnknownSubject(t *testing.T) {
	mockComments := &mockCommentRepository{}
	svc := NewCommentService(mockComments, &mockPostRepository{}, knownSubjectRepo(7))

	_, err := svc.Create(context.Background(), "unknown-subject", 42, model.CreateCommentRequest{
		Content: "hello",
	})

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
	if mockComments.createCalls != 0 {
		t.Error("nothing should be written for an unknown subject")
	}
}

func TestCommentService_Delete(t *testing.T) {
	const (
		callerID       = 7
		postOwnerID    = 7 // Same as caller in the post-owner cases
		otherUserID    = 99
		commentID      = 5
		commentsPostID = 42
	)

	tests := []struct {
		name           string
		commentOwnerID int64
		postOwnerID    int64
		commentErr     error
		postErr        error
		wantErr        error
		wantDeleted    bool
	}{
		{
			name:           "comment owner deletes own comment",
			commentOwnerID: callerID,
			postOwnerID:    otherUserID,
			wantDeleted:    true,
		},
		{
			name:           "post owner deletes someone else's comment",
			commentOwnerID: otherUserID,
			postOwnerID:    callerID,
			wantDeleted:    true,
		},
		{
			name:           "third party is rejected",
			commentOwnerID: otherUserID,
			postOwnerID:    otherUserID,
			wantErr:        model.ErrNotAuthorized,
		},
		{
			name:       "missing comment reported before authorization",
			commentErr: model.ErrCommentNotFound,
			wantErr:    model.ErrCommentNotFound,
		},
		{
			name:           "missing post reported before authorization",
			commentOwnerID: otherUserID,
			postErr:        model.ErrPostNotFound,
			wantErr:        model.ErrPostNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockComments := &mockCommentRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.Comment, error) {
					if tt.commentErr != nil {
						return nil, tt.commentErr
					}
					return &model.Comment{ID: id, PostID: commentsPostID, UserID: tt.commentOwnerID}, nil
				},
			}
			mockPosts := &mockPostRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.Post, error) {
					if tt.postErr != nil {
						return nil, tt.postErr
					}
					return &model.Post{ID: id, UserID: tt.postOwnerID}, nil
				},
			}
			svc := NewCommentService(mockComments, mockPosts, knownSubjectRepo(callerID))

			err := svc.Delete(context.Background(), testSubject, commentID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			deleted := len(mockComments.deleteCalls) > 0
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDeleted)
			}
		})
	}
}

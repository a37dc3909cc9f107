package service

import (
	"context"
	"fmt"
	"strings"

	"devhive/internal/model"
	"devhive/internal/repository"
)

const (
	// CommentDefaultLimit is the default number of comments per page
	CommentDefaultLimit = 20

	// CommentMaxLimit is the maximum number of comments per page
	CommentMaxLimit = 50
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// Create adds a comment to a post. The post's existence is deliberately not
// re-checked: a comment may land on a post deleted moments earlier, and the
// write still succeeds.
func (s *CommentService) Create(ctx context.Context, subject string, postID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, model.ErrContentRequired
	}
	if len(req.Content) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	comment, err := s.commentRepo.Create(ctx, postID, user.ID, req.Content)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	comment.Author = &model.UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}

	return comment, nil
}

// Delete removes a comment. Allowed for the comment author or the owner of
// the post the comment sits on. Existence checks run before authorization:
// a missing comment or post reports not-found even to callers who would
// have been denied anyway.
func (s *CommentService) Delete(ctx context.Context, subject string, commentID int64) error {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, comment.PostID)
	if err != nil {
		return err
	}

	isPostOwner := post.UserID == user.ID
	isCommentOwner := comment.UserID == user.ID
	if !isPostOwner && !isCommentOwner {
		return model.ErrNotAuthorized
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// ListByPost returns paginated comments for a post, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, cursor *string, limit int) (*model.CommentListResponse, error) {
	if limit <= 0 {
		limit = CommentDefaultLimit
	}
	if limit > CommentMaxLimit {
		limit = CommentMaxLimit
	}

	comments, nextCursor, err := s.commentRepo.GetByPostID(ctx, postID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &model.CommentListResponse{
		Comments:   comments,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"devhive/internal/model"
	"devhive/internal/queue"
	"devhive/internal/repository"
)

type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Create creates a new post for the authenticated subject and publishes an
// event for feed fan-out. The type field is required but informational: it
// doesn't constrain which media fields may be set.
func (s *PostService) Create(ctx context.Context, subject string, req model.CreatePostRequest) (*model.Post, error) {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return nil, err
	}

	if !model.IsValidPostType(req.Type) {
		return nil, model.ErrInvalidType
	}
	if req.Content != nil && len(*req.Content) > model.MaxPostContentLength {
		return nil, model.ErrContentTooLong
	}

	post, err := s.postRepo.Create(ctx, user.ID, req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	// Publish event for async fan-out
	event := queue.NewPostCreatedEvent(post.ID, user.ID, post.CreatedAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Log but don't fail - post is created, fan-out can be retried
		log.Printf("[PostService] Failed to publish PostCreated event: post=%d err=%v", post.ID, err)
	}

	post.Author = &model.UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}

	return post, nil
}

// GetByID retrieves a single post with author info.
func (s *PostService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, post.UserID)
	if err == nil {
		post.Author = &model.UserSummary{
			ID:          author.ID,
			Username:    author.Username,
			DisplayName: author.DisplayName,
			AvatarURL:   author.AvatarURL,
		}
	}

	return post, nil
}

// Delete removes a post permanently. Any authenticated user may delete any
// post, and deleting a missing post succeeds silently. Comments on the post
// are left in place.
func (s *PostService) Delete(ctx context.Context, subject string, postID int64) error {
	if _, err := s.userRepo.GetByExternalID(ctx, subject); err != nil {
		return err
	}

	// Capture the author before the row disappears so the removal event can
	// still be fanned out. Best-effort: a missing post just skips the event.
	authorID, err := s.postRepo.GetAuthorID(ctx, postID)
	if err != nil && !errors.Is(err, model.ErrPostNotFound) {
		log.Printf("[PostService] Failed to get author for post=%d: %v", postID, err)
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if authorID != 0 {
		event := queue.NewPostDeletedEvent(postID, authorID)
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("[PostService] Failed to publish PostDeleted event: post=%d err=%v", postID, err)
		}
	}

	return nil
}

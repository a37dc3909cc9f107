package service

import (
	"context"
	"log"

	"devhive/internal/model"
	"devhive/internal/repository"
)

// LikeService handles the per-post like toggle.
type LikeService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewLikeService(postRepo repository.PostRepository, userRepo repository.UserRepository) *LikeService {
	return &LikeService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// Toggle flips the post's like state. The flag lives on the post itself,
// not per user, so any caller's toggle inverts whatever the current state
// is. Calling twice returns the post to its starting state.
func (s *LikeService) Toggle(ctx context.Context, subject string, postID int64) (*model.ToggleLikeResult, error) {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return nil, err
	}

	liked, err := s.postRepo.ToggleLike(ctx, postID)
	if err != nil {
		return nil, err
	}

	log.Printf("[LikeService] User %d toggled post %d liked=%v", user.ID, postID, liked)

	message := model.MsgPostUnliked
	if liked {
		message = model.MsgPostLiked
	}

	return &model.ToggleLikeResult{
		Liked:   liked,
		Message: message,
	}, nil
}

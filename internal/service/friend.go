package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"devhive/internal/model"
	"devhive/internal/queue"
	"devhive/internal/repository"
)

// FriendService handles friend requests and friendships.
// Friendship is symmetric: accepting a request creates mirrored rows for
// both users in one transaction.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	publisher  queue.Publisher
	db         *sqlx.DB
}

func NewFriendService(
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
	db *sqlx.DB,
) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		db:         db,
	}
}

// SendRequest sends a friend request addressed by username.
func (s *FriendService) SendRequest(ctx context.Context, subject string, username string) (*model.FriendRequest, error) {
	sender, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return nil, err
	}

	receiver, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if receiver.ID == sender.ID {
		return nil, model.ErrCannotFriendSelf
	}

	friends, err := s.friendRepo.AreFriends(ctx, sender.ID, receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return nil, model.ErrAlreadyFriends
	}

	req, err := s.friendRepo.CreateRequest(ctx, sender.ID, receiver.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("[FriendService] Request sent: sender=%d receiver=%d", sender.ID, receiver.ID)
	return req, nil
}

// Accept turns a pending request into a friendship. Only the receiver may
// accept. Runs in a transaction: delete request, insert mirrored friendship
// rows, bump both friend counters.
func (s *FriendService) Accept(ctx context.Context, subject string, requestID int64) error {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return err
	}

	req, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != user.ID {
		return model.ErrNotRequestReceiver
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.friendRepo.DeleteRequest(ctx, tx, requestID); err != nil {
		return err
	}
	if err := s.friendRepo.CreateFriendship(ctx, tx, req.SenderID, req.ReceiverID); err != nil {
		return err
	}
	if err := s.userRepo.IncrementFriendCount(ctx, tx, req.SenderID, 1); err != nil {
		return err
	}
	if err := s.userRepo.IncrementFriendCount(ctx, tx, req.ReceiverID, 1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[FriendService] Request accepted: sender=%d receiver=%d", req.SenderID, req.ReceiverID)

	// Publish event for feed backfill (after commit, best-effort)
	event := queue.NewFriendAddedEvent(req.SenderID, req.ReceiverID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[FriendService] Failed to publish FriendAdded event: %v", err)
	}

	return nil
}

// Deny removes a pending request without creating a friendship. Only the
// receiver may deny.
func (s *FriendService) Deny(ctx context.Context, subject string, requestID int64) error {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return err
	}

	req, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != user.ID {
		return model.ErrNotRequestReceiver
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.friendRepo.DeleteRequest(ctx, tx, requestID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListRequests returns pending requests addressed to the subject.
func (s *FriendService) ListRequests(ctx context.Context, subject string) (*model.FriendRequestListResponse, error) {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return nil, err
	}

	requests, err := s.friendRepo.ListIncoming(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.FriendRequestListResponse{Requests: requests}, nil
}

// ListFriends returns the subject's friends.
func (s *FriendService) ListFriends(ctx context.Context, subject string) (*model.FriendListResponse, error) {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return nil, err
	}

	friends, err := s.friendRepo.GetFriends(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.FriendListResponse{Friends: friends}, nil
}

// Unfriend dissolves a friendship. Runs in a transaction: remove mirrored
// rows, drop both friend counters.
func (s *FriendService) Unfriend(ctx context.Context, subject string, friendID int64) error {
	user, err := s.userRepo.GetByExternalID(ctx, subject)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.friendRepo.DeleteFriendship(ctx, tx, user.ID, friendID); err != nil {
		return err
	}
	if err := s.userRepo.IncrementFriendCount(ctx, tx, user.ID, -1); err != nil {
		return err
	}
	if err := s.userRepo.IncrementFriendCount(ctx, tx, friendID, -1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[FriendService] Unfriended: user=%d friend=%d", user.ID, friendID)

	event := queue.NewFriendRemovedEvent(user.ID, friendID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[FriendService] Failed to publish FriendRemoved event: %v", err)
	}

	return nil
}

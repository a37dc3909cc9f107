package service

import (
	"context"
	"errors"
	"testing"

	"devhive/internal/model"
)

func friendTestUserRepo() *mockUserRepository {
	return &mockUserRepository{
		getByExternalIDFn: func(ctx context.Context, externalID string) (*model.User, error) {
			if externalID == testSubject {
				return &model.User{ID: 7, ExternalID: externalID, Username: "sender"}, nil
			}
			return nil, model.ErrUserNotFound
		},
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			switch username {
			case "sender":
				return &model.User{ID: 7, Username: "sender"}, nil
			case "receiver":
				return &model.User{ID: 8, Username: "receiver"}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
}

func TestFriendService_SendRequest(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		areFriends bool
		requestErr error
		wantErr    error
		wantSent   bool
	}{
		{
			name:     "success",
			username: "receiver",
			wantSent: true,
		},
		{
			name:     "unknown username",
			username: "nobody",
			wantErr:  model.ErrUserNotFound,
		},
		{
			name:     "self friending rejected",
			username: "sender",
			wantErr:  model.ErrCannotFriendSelf,
		},
		{
			name:       "already friends",
			username:   "receiver",
			areFriends: true,
			wantErr:    model.ErrAlreadyFriends,
		},
		{
			name:       "duplicate request",
			username:   "receiver",
			requestErr: model.ErrRequestExists,
			wantErr:    model.ErrRequestExists,
			wantSent:   true, // reaches the repository, which rejects it
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFriends := &mockFriendRepository{
				areFriendsFn: func(ctx context.Context, userID, friendID int64) (bool, error) {
					return tt.areFriends, nil
				},
			}
			if tt.requestErr != nil {
				mockFriends.createRequestFn = func(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error) {
					return nil, tt.requestErr
				}
			}
			svc := NewFriendService(mockFriends, friendTestUserRepo(), &mockPublisher{}, nil)

			req, err := svc.SendRequest(context.Background(), testSubject, tt.username)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if req.SenderID != 7 || req.ReceiverID != 8 {
					t.Errorf("request = %+v, want sender=7 receiver=8", req)
				}
			}

			sent := mockFriends.createRequestCalls > 0
			if sent != tt.wantSent {
				t.Errorf("request reached repository = %v, want %v", sent, tt.wantSent)
			}
		})
	}
}

func TestFriendService_ListFriends(t *testing.T) {
	display := "Receiver"
	mockFriends := &mockFriendRepository{
		getFriendsFn: func(ctx context.Context, userID int64) ([]model.UserSummary, error) {
			return []model.UserSummary{
				{ID: 8, Username: "receiver", DisplayName: &display},
			}, nil
		},
	}
	svc := NewFriendService(mockFriends, friendTestUserRepo(), &mockPublisher{}, nil)

	resp, err := svc.ListFriends(context.Background(), testSubject)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Friends) != 1 || resp.Friends[0].Username != "receiver" {
		t.Errorf("friends = %+v", resp.Friends)
	}
}

func TestFriendService_ListRequests_UnknownSubject(t *testing.T) {
	svc := NewFriendService(&mockFriendRepository{}, friendTestUserRepo(), &mockPublisher{}, nil)

	_, err := svc.ListRequests(context.Background(), "unknown-subject")

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

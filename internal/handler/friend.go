package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"devhive/internal/httputil"
	"devhive/internal/model"
	"devhive/internal/service"
	"devhive/internal/transport/http/middleware"
)

type FriendHandler struct {
	friendService *service.FriendService
}

func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
	}
}

// SendRequest handles POST /friends/requests
// The target is addressed by username, not ID.
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SendFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	request, err := h.friendService.SendRequest(r.Context(), subject, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrCannotFriendSelf):
			httputil.WriteBadRequest(w, "Cannot send a friend request to yourself")
		case errors.Is(err, model.ErrAlreadyFriends):
			httputil.WriteConflict(w, "Already friends with this user")
		case errors.Is(err, model.ErrRequestExists):
			httputil.WriteConflict(w, "Friend request already exists")
		default:
			log.Printf("[ERROR] Send friend request handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to send friend request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, request)
}

// Accept handles POST /friends/requests/{id}/accept
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.friendService.Accept, "Friend request accepted")
}

// Deny handles POST /friends/requests/{id}/deny
func (h *FriendHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.friendService.Deny, "Friend request denied")
}

// resolveRequest shares the accept/deny plumbing; both take a request ID and
// are restricted to the receiver.
func (h *FriendHandler) resolveRequest(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, subject string, requestID int64) error,
	successMessage string,
) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	requestID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid request ID")
		return
	}

	err = fn(r.Context(), subject, requestID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteUnauthorizedWithCode(w, httputil.ErrCodeUserNotFound, "User not found")
		case errors.Is(err, model.ErrRequestNotFound):
			httputil.WriteNotFound(w, "Friend request not found")
		case errors.Is(err, model.ErrNotRequestReceiver):
			httputil.WriteForbidden(w, "Only the receiver can resolve this request")
		case errors.Is(err, model.ErrAlreadyFriends):
			httputil.WriteConflict(w, "Already friends with this user")
		default:
			log.Printf("[ERROR] Resolve friend request handler: request=%d err=%v", requestID, err)
			httputil.WriteInternalError(w, "Failed to resolve friend request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": successMessage,
	})
}

// ListRequests handles GET /friends/requests
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	requests, err := h.friendService.ListRequests(r.Context(), subject)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteUnauthorizedWithCode(w, httputil.ErrCodeUserNotFound, "User not found")
			return
		}
		log.Printf("[ERROR] List friend requests handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list friend requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, requests)
}

// ListFriends handles GET /friends
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), subject)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteUnauthorizedWithCode(w, httputil.ErrCodeUserNotFound, "User not found")
			return
		}
		log.Printf("[ERROR] List friends handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list friends")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, friends)
}

// Unfriend handles DELETE /friends/{id}
func (h *FriendHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	friendID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid friend ID")
		return
	}

	err = h.friendService.Unfriend(r.Context(), subject, friendID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteUnauthorizedWithCode(w, httputil.ErrCodeUserNotFound, "User not found")
		case errors.Is(err, model.ErrNotFriends):
			httputil.WriteNotFound(w, "Not friends with this user")
		default:
			log.Printf("[ERROR] Unfriend handler: friend=%d err=%v", friendID, err)
			httputil.WriteInternalError(w, "Failed to unfriend")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Unfriended successfully",
	})
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"devhive/internal/handler"
	"devhive/internal/httputil"
	authmw "devhive/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	FriendHandler  *handler.FriendHandler
	FeedHandler    *handler.FeedHandler
	MediaHandler   *handler.MediaHandler
	VideoHandler   *handler.VideoHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)

		// Post endpoints
		r.Post("/posts", cfg.PostHandler.Create)
		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
		r.Post("/posts/{id}/like", cfg.PostHandler.ToggleLike)

		// Comment endpoints
		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
		r.Get("/posts/{id}/comments", cfg.CommentHandler.List)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		// Friend endpoints
		r.Get("/friends", cfg.FriendHandler.ListFriends)
		r.Delete("/friends/{id}", cfg.FriendHandler.Unfriend)
		r.Post("/friends/requests", cfg.FriendHandler.SendRequest)
		r.Get("/friends/requests", cfg.FriendHandler.ListRequests)
		r.Post("/friends/requests/{id}/accept", cfg.FriendHandler.Accept)
		r.Post("/friends/requests/{id}/deny", cfg.FriendHandler.Deny)

		// Feed endpoint
		r.Get("/feed", cfg.FeedHandler.GetFeed)

		// Media endpoints
		if cfg.MediaHandler != nil {
			r.Post("/media/avatar", cfg.MediaHandler.UploadAvatar)
			r.Post("/media/images", cfg.MediaHandler.UploadImage)
		}

		// Video search proxy
		r.Get("/videos/search", cfg.VideoHandler.Search)
	})

	return r
}

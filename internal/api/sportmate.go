package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/ballerhq/sportmate/internal/config"
	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/moderation"
	"github.com/ballerhq/sportmate/internal/server"
)

type SportMateApp struct {
	log            *log.Logger
	db             database.SportMateRepository
	mux            *http.Server
	cs             *server.ChatServer
	filter         *moderation.Filter
	signingKey     []byte
	allowedOrigins []string
	uploadDir      string
}

func NewSportMateApp(mux *http.ServeMux, logger *log.Logger, cs *server.ChatServer, db database.SportMateRepository, filter *moderation.Filter, cfg *config.Config) *SportMateApp {
	s := &SportMateApp{
		log:            logger,
		db:             db,
		cs:             cs,
		filter:         filter,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
		uploadDir:      cfg.UploadDir,
	}

	mux.HandleFunc("GET /api/auth/user", s.authMiddleware(s.authUser))
	mux.HandleFunc("PUT /api/user/preferences", s.authMiddleware(s.updatePreferences))
	mux.HandleFunc("GET /api/user/stats", s.authMiddleware(s.userStats))
	mux.HandleFunc("GET /api/user/rep-points", s.authMiddleware(s.repPoints))
	mux.HandleFunc("GET /api/user/premium-access/{feature}", s.authMiddleware(s.premiumAccess))
	mux.HandleFunc("GET /api/user/rsvps", s.authMiddleware(s.userRsvps))
	mux.HandleFunc("GET /api/user/swipes", s.authMiddleware(s.userSwipes))
	mux.HandleFunc("GET /api/users/{hostId}/events", s.authMiddleware(s.hostEvents))

	mux.HandleFunc("GET /api/events", s.authMiddleware(s.listEvents))
	mux.HandleFunc("POST /api/events", s.authMiddleware(s.createEvent))
	mux.HandleFunc("GET /api/events/{id}", s.authMiddleware(s.getEvent))
	mux.HandleFunc("PUT /api/events/{id}", s.authMiddleware(s.updateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", s.authMiddleware(s.cancelEvent))
	mux.HandleFunc("POST /api/events/{id}/rsvp", s.authMiddleware(s.createRsvp))
	mux.HandleFunc("DELETE /api/events/{id}/rsvp", s.authMiddleware(s.deleteRsvp))
	mux.HandleFunc("GET /api/events/{id}/rsvps", s.authMiddleware(s.eventRsvps))
	mux.HandleFunc("POST /api/events/{id}/swipe", s.authMiddleware(s.recordSwipe))
	mux.HandleFunc("GET /api/events/{id}/messages", s.authMiddleware(s.eventMessages))
	mux.HandleFunc("POST /api/events/{id}/messages", s.authMiddleware(s.postEventMessage))

	mux.HandleFunc("POST /api/verification/upload", s.authMiddleware(s.uploadVerificationDocuments))
	mux.HandleFunc("GET /api/verification/documents", s.authMiddleware(s.verificationDocuments))
	mux.HandleFunc("PATCH /api/verification/status", s.authMiddleware(s.requestVerificationReview))

	mux.HandleFunc("POST /api/locations", s.authMiddleware(s.submitLocation))
	mux.HandleFunc("GET /api/locations", s.authMiddleware(s.listLocations))

	mux.HandleFunc("GET /api/admin/locations", s.authMiddleware(s.adminMiddleware(s.adminLocations)))
	mux.HandleFunc("POST /api/admin/locations/{id}/review", s.authMiddleware(s.adminMiddleware(s.reviewLocation)))
	mux.HandleFunc("GET /api/admin/verification-documents", s.authMiddleware(s.adminMiddleware(s.pendingVerificationDocuments)))
	mux.HandleFunc("POST /api/admin/users/{userId}/verification", s.authMiddleware(s.adminMiddleware(s.reviewVerification)))

	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *SportMateApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *SportMateApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

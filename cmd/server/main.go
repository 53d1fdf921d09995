package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/seatforge/seatforge/internal/auth"
	"github.com/seatforge/seatforge/internal/config"
	"github.com/seatforge/seatforge/internal/db"
	"github.com/seatforge/seatforge/internal/layout"
	mw "github.com/seatforge/seatforge/internal/middleware"
	"github.com/seatforge/seatforge/internal/session"
	"github.com/seatforge/seatforge/internal/venue"
)

// The playground venue is not persisted. Anyone can join it and it always
// starts from the sample seat map.
const playgroundVenueID = "venue_playground"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := db.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	venueService := venue.NewService(queries)
	venueHandler := venue.NewHandler(venueService)

	// Document loader for the live-session hub. Runs in the hub goroutine,
	// hence the background context.
	docLoader := func(venueID string) ([]byte, error) {
		if venueID == playgroundVenueID {
			sample := layout.NewSampleDocument()
			return json.Marshal(layout.PersistedDocument{
				Sections: sample.Sections,
				Stage:    sample.Stage,
				Aisles:   sample.Aisles,
			})
		}
		return venueService.LoadDocument(context.Background(), venueID)
	}

	// Document saver for the hub.
	docSaver := func(venueID string, doc []byte) error {
		if venueID == playgroundVenueID {
			return nil
		}
		return venueService.SaveDocument(context.Background(), venueID, doc)
	}

	hub := session.NewHub(docLoader, docSaver, time.Duration(cfg.SaveInterval)*time.Second)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/venues", venueHandler.List).Methods("GET")
	api.HandleFunc("/venues", venueHandler.Create).Methods("POST")
	api.HandleFunc("/venues/{venueId}", venueHandler.Get).Methods("GET")
	api.HandleFunc("/venues/{venueId}", venueHandler.Delete).Methods("DELETE")
	api.HandleFunc("/venues/{venueId}/invite", venueHandler.Invite).Methods("POST")
	api.HandleFunc("/venues/{venueId}/members", venueHandler.ListMembers).Methods("GET")
	api.HandleFunc("/venues/{venueId}/members/{userId}", venueHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/venues/{venueId}/layout", venueHandler.GetLayout).Methods("GET")
	api.HandleFunc("/venues/{venueId}/import", venueHandler.ImportSections).Methods("POST")

	// WebSocket endpoint
	r.HandleFunc("/ws/venue/{venueId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, venueService, cfg.AllowedOrigins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty documents
		slog.Info("saving all documents...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, venueSvc *venue.Service, allowedOrigins string) {
	vars := mux.Vars(r)
	venueID := vars["venueId"]

	var userID string
	var displayName string

	if venueID == playgroundVenueID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Real venues authenticate via the token query param (the browser
		// cannot set headers on a websocket upgrade).
		token := auth.RequestToken(r)
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		userID = claims.UserID
		displayName = claims.DisplayName

		if err := venueSvc.CheckAccess(r.Context(), venueID, userID); err != nil {
			http.Error(w, "not a venue member", http.StatusForbidden)
			return
		}

		// Tokens issued before the name claim existed need a lookup.
		if displayName == "" {
			user, err := authSvc.GetUser(r.Context(), userID)
			if err != nil {
				http.Error(w, "user not found", http.StatusInternalServerError)
				return
			}
			displayName = user.DisplayName
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(allowedOrigins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := session.NewClient(hub, conn, userID, displayName, venueID, clientID)

	hub.Register(client)
	client.Run(r.Context())
}

// originPatterns strips schemes from the configured origins; the websocket
// library matches host patterns.
func originPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}

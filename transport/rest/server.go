package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

func New(logger *slog.Logger, port string, game gameUseCase) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      NewRouter(logger, game),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// NewRouter - registers the game and health routes.
func NewRouter(logger *slog.Logger, game gameUseCase) *mux.Router {
	router := mux.NewRouter()
	handlers := NewGameHandlers(logger, game)

	router.HandleFunc("/ping", handlers.Ping).Methods(http.MethodGet)

	api := router.PathPrefix("/game").Subrouter()
	api.HandleFunc("/", handlers.Redirect).Methods(http.MethodGet)
	api.HandleFunc("/move", handlers.MakeMove).Methods(http.MethodPost)
	api.HandleFunc("/board", handlers.GetBoard).Methods(http.MethodGet)
	api.HandleFunc("/state", handlers.GetState).Methods(http.MethodGet)
	api.HandleFunc("/reset", handlers.Reset).Methods(http.MethodPost)
	api.HandleFunc("/stats", handlers.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/history", handlers.GetHistory).Methods(http.MethodGet)

	return router
}

// Start - serves until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := that.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}

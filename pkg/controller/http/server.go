package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/pulseboard/pkg/service/hub"
	"github.com/secmon-lab/pulseboard/pkg/usecase"
	"github.com/secmon-lab/pulseboard/pkg/utils/errutil"
	"github.com/secmon-lab/pulseboard/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	hub    *hub.Hub
}

type Options func(*Server)

// WithHub enables the /ws realtime endpoint.
func WithHub(h *hub.Hub) Options {
	return func(s *Server) {
		s.hub = h
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.listTasks)
		r.Post("/tasks", s.createTask)
		r.Patch("/tasks/{id}", s.updateTask)

		r.Get("/blockers", s.listBlockers)
		r.Post("/blockers", s.createBlocker)
		r.Post("/blockers/{id}/resolve", s.resolveBlocker)

		r.Get("/activity", s.listActivity)

		r.Get("/settings", s.listSettings)
		r.Post("/settings", s.putSetting)

		r.Get("/github/stats", s.githubStats)
		r.Get("/summary", s.summary)
	})

	if s.hub != nil {
		r.Get("/ws", s.handleWS)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(ctx).Error("failed to write response", "error", err.Error())
	}
}

// respondError maps use case sentinels to HTTP status codes and writes a
// JSON error body. Known sentinels surface their own message rather than
// the full wrap chain.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	status := http.StatusInternalServerError
	message := err.Error()

	if errors.Is(err, usecase.ErrInvalidInput) {
		errutil.Handle(ctx, err, "request rejected")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	for sentinel, code := range map[error]int{
		usecase.ErrRepoNotConfigured: http.StatusBadRequest,
		usecase.ErrInvalidRepoURL:    http.StatusBadRequest,
		usecase.ErrTaskNotFound:      http.StatusNotFound,
		usecase.ErrBlockerNotFound:   http.StatusNotFound,
		usecase.ErrGitHubUpstream:    http.StatusInternalServerError,
	} {
		if errors.Is(err, sentinel) {
			status = code
			message = sentinel.Error()
			break
		}
	}

	errutil.Handle(ctx, err, "request failed")
	respondJSON(ctx, w, status, map[string]string{"error": message})
}

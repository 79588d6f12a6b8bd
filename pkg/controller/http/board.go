package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/types"
	"github.com/secmon-lab/pulseboard/pkg/usecase"
)

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "invalid ID", goerr.V("id", raw))
	}
	return id, nil
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.uc.Board.ListTasks(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Owner       string         `json:"owner"`
		Priority    types.Priority `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}

	task, err := s.uc.Board.CreateTask(r.Context(), &usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Owner:       req.Owner,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Title       *string           `json:"title"`
		Description *string           `json:"description"`
		Owner       *string           `json:"owner"`
		Status      *types.TaskStatus `json:"status"`
		Priority    *types.Priority   `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}

	task, err := s.uc.Board.UpdateTask(r.Context(), id, &usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Owner:       req.Owner,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, task)
}

func (s *Server) listBlockers(w http.ResponseWriter, r *http.Request) {
	blockers, err := s.uc.Board.ListActiveBlockers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, blockers)
}

func (s *Server) createBlocker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID      *int64 `json:"task_id"`
		Description string `json:"description"`
		Reporter    string `json:"reporter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}

	blocker, err := s.uc.Board.CreateBlocker(r.Context(), &usecase.CreateBlockerInput{
		TaskID:      req.TaskID,
		Description: req.Description,
		Reporter:    req.Reporter,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, blocker)
}

func (s *Server) resolveBlocker(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		User string `json:"user"`
	}
	// The body is optional for resolve.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := s.uc.Board.ResolveBlocker(r.Context(), id, req.User); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	records, err := s.uc.Board.ListRecentActivity(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, records)
}

func (s *Server) listSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.uc.Board.ListSettings(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, settings)
}

func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}

	if err := s.uc.Board.PutSetting(r.Context(), req.Key, req.Value); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) githubStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Stats.FetchRepoStats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, stats)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	// Summary generation never fails; LLM errors degrade to a fixed
	// fallback string.
	summary := s.uc.Insight.Summarize(r.Context())
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"summary": summary})
}

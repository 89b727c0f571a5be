package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/repository"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/escalation"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/resolution"
	"github.com/frontdesk-dev/frontdesk/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps carries the dependencies of the HTTP handler
type Deps struct {
	Repo       repository.Repository
	Escalation *escalation.UseCase
	Resolution *resolution.UseCase
	Token      *TokenIssuer // optional; /token returns 503 when nil
}

// New builds the HTTP handler exposing the escalation workflow API
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth())
	r.Get("/knowledge_base", handleListKnowledge(deps))
	r.Post("/knowledge_base", handleAddKnowledge(deps))
	r.Get("/help_requests", handleListHelpRequests(deps))
	r.Post("/help_requests", handleCreateHelpRequest(deps))
	r.Get("/help_request_history", handleListHistory(deps))
	r.Post("/supervisor_response", handleSupervisorResponse(deps))
	r.Get("/reconciliation", handleReconciliation(deps))
	r.Get("/token", handleToken(deps))

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf(format, args...),
	})
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func handleListKnowledge(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.Repo.ListKnowledge(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to list knowledge base: %v", err)
			return
		}
		if entries == nil {
			entries = []*model.KnowledgeEntry{}
		}
		writeJSON(w, entries)
	}
}

type addKnowledgeRequest struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	LearnedDate string `json:"learnedDate"`
}

func handleAddKnowledge(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req addKnowledgeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if req.Question == "" || req.Answer == "" {
			httpError(w, http.StatusBadRequest, "question and answer are required")
			return
		}

		learned := time.Now()
		if req.LearnedDate != "" {
			parsed, err := time.Parse(time.RFC3339, req.LearnedDate)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid learnedDate, expected RFC3339: %v", err)
				return
			}
			learned = parsed
		}

		entry := &model.KnowledgeEntry{
			ID:          model.NewEntryID(),
			Question:    req.Question,
			Answer:      req.Answer,
			LearnedDate: learned,
		}
		if err := deps.Repo.PutKnowledge(r.Context(), entry); err != nil {
			httpError(w, http.StatusInternalServerError, "failed to add knowledge entry: %v", err)
			return
		}

		writeJSON(w, map[string]any{
			"msg": "Knowledge base entry added",
			"id":  entry.ID,
		})
	}
}

func handleListHelpRequests(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqs, err := deps.Repo.ListHelpRequests(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to list help requests: %v", err)
			return
		}
		if reqs == nil {
			reqs = []*model.HelpRequest{}
		}
		writeJSON(w, reqs)
	}
}

type createHelpRequestRequest struct {
	Question  string          `json:"question"`
	RequestID model.RequestID `json:"request_id"`
}

func handleCreateHelpRequest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req createHelpRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if req.Question == "" {
			httpError(w, http.StatusBadRequest, "question is required")
			return
		}

		// Agents usually supply their own ID; generate one otherwise.
		id := req.RequestID
		if id == "" {
			id = model.NewRequestID()
		}

		if err := deps.Escalation.Create(r.Context(), id, req.Question); err != nil {
			httpError(w, http.StatusInternalServerError, "failed to create help request: %v", err)
			return
		}

		writeJSON(w, map[string]any{
			"msg": "Help request created",
			"id":  id,
		})
	}
}

func handleListHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hists, err := deps.Repo.ListHistory(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to list request history: %v", err)
			return
		}
		if hists == nil {
			hists = []*model.HelpRequestHistory{}
		}
		writeJSON(w, hists)
	}
}

type supervisorResponseRequest struct {
	Answer    string          `json:"answer"`
	ID        model.EntryID   `json:"id"`
	Question  string          `json:"question"`
	RequestID model.RequestID `json:"request_id"`
}

func handleSupervisorResponse(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req supervisorResponseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if req.Answer == "" || req.ID == "" || req.Question == "" || req.RequestID == "" {
			httpError(w, http.StatusBadRequest, "answer, id, question and request_id are required")
			return
		}

		err := deps.Resolution.Resolve(r.Context(), resolution.Input{
			RequestID:  req.RequestID,
			ResponseID: req.ID,
			Question:   req.Question,
			Answer:     req.Answer,
		})
		if err != nil {
			logging.From(r.Context()).Error("resolution failed, records may be inconsistent",
				"request_id", req.RequestID, "error", err)
			httpError(w, http.StatusInternalServerError, "failed to apply supervisor response: %v", err)
			return
		}

		writeJSON(w, map[string]string{
			"msg": "Supervisor response, knowledge base, and history updated",
		})
	}
}

func handleReconciliation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := deps.Resolution.Reconcile(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "reconciliation failed: %v", err)
			return
		}
		if found == nil {
			found = []resolution.Inconsistency{}
		}
		writeJSON(w, found)
	}
}

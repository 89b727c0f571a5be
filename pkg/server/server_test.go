package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/repository"
	"github.com/frontdesk-dev/frontdesk/pkg/server"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/escalation"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/resolution"
	"github.com/m-mizutani/gt"
)

func setupHandler(t *testing.T) (http.Handler, *repository.Memory) {
	t.Helper()
	repo := repository.NewMemory()
	handler := server.New(server.Deps{
		Repo:       repo,
		Escalation: escalation.New(repo),
		Resolution: resolution.New(repo),
		Token: &server.TokenIssuer{
			URL:       "wss://voice.example.com",
			APIKey:    "test-key",
			APISecret: "test-secret",
		},
	})
	return handler, repo
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := setupHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/health", "")
	gt.Equal(t, rec.Code, http.StatusOK)
}

func TestKnowledgeBaseEndpoints(t *testing.T) {
	h, _ := setupHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/knowledge_base", "")
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, strings.TrimSpace(rec.Body.String()), "[]")

	rec = doRequest(t, h, http.MethodPost, "/knowledge_base",
		`{"question":"What are your hours?","answer":"9-5 Mon-Fri","learnedDate":"2025-03-14T09:26:53Z"}`)
	gt.Equal(t, rec.Code, http.StatusOK)

	var created struct {
		Msg string `json:"msg"`
		ID  string `json:"id"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	gt.Equal(t, created.Msg, "Knowledge base entry added")
	gt.NotEqual(t, created.ID, "")

	rec = doRequest(t, h, http.MethodGet, "/knowledge_base", "")
	var entries []*model.KnowledgeEntry
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	gt.A(t, entries).Length(1)
	gt.Equal(t, entries[0].Question, "What are your hours?")
}

func TestAddKnowledgeValidation(t *testing.T) {
	h, _ := setupHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/knowledge_base", `{"answer":"a"}`)
	gt.Equal(t, rec.Code, http.StatusBadRequest)

	rec = doRequest(t, h, http.MethodPost, "/knowledge_base", `{"question":"q","answer":"a","learnedDate":"yesterday"}`)
	gt.Equal(t, rec.Code, http.StatusBadRequest)

	rec = doRequest(t, h, http.MethodPost, "/knowledge_base", `not json`)
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestCreateHelpRequest(t *testing.T) {
	h, repo := setupHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/help_requests",
		`{"question":"Do you have parking?","request_id":"req_test_1"}`)
	gt.Equal(t, rec.Code, http.StatusOK)

	req, err := repo.GetHelpRequest(t.Context(), model.RequestID("req_test_1"))
	gt.NoError(t, err)
	gt.Equal(t, req.Status, model.RequestStatusPending)

	hist, err := repo.GetHistory(t.Context(), model.RequestID("req_test_1"))
	gt.NoError(t, err)
	gt.Equal(t, hist.Status, model.HistoryStatusUnresolved)
	gt.Equal(t, hist.Answer, "")

	rec = doRequest(t, h, http.MethodGet, "/help_requests", "")
	var reqs []*model.HelpRequest
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reqs))
	gt.A(t, reqs).Length(1)
}

func TestCreateHelpRequestGeneratesID(t *testing.T) {
	h, _ := setupHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/help_requests", `{"question":"Do you have parking?"}`)
	gt.Equal(t, rec.Code, http.StatusOK)

	var created struct {
		ID string `json:"id"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	gt.True(t, strings.HasPrefix(created.ID, "req_"))
}

func TestCreateHelpRequestValidation(t *testing.T) {
	h, _ := setupHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/help_requests", `{"request_id":"req_x"}`)
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestSupervisorResponseFlow(t *testing.T) {
	h, repo := setupHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/help_requests",
		`{"question":"What are your hours?","request_id":"req_test_2"}`)
	gt.Equal(t, rec.Code, http.StatusOK)

	rec = doRequest(t, h, http.MethodPost, "/supervisor_response",
		`{"answer":"9-5 Mon-Fri","id":"resp_1","question":"What are your hours?","request_id":"req_test_2"}`)
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains("Supervisor response, knowledge base, and history updated")

	req, err := repo.GetHelpRequest(t.Context(), model.RequestID("req_test_2"))
	gt.NoError(t, err)
	gt.Equal(t, req.Status, model.RequestStatusResolved)

	rec = doRequest(t, h, http.MethodGet, "/help_request_history", "")
	var hists []*model.HelpRequestHistory
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hists))
	gt.A(t, hists).Length(1)
	gt.Equal(t, hists[0].Status, model.HistoryStatusResolved)
	gt.Equal(t, hists[0].Answer, "9-5 Mon-Fri")

	rec = doRequest(t, h, http.MethodGet, "/knowledge_base", "")
	var entries []*model.KnowledgeEntry
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	gt.A(t, entries).Length(1)
	gt.Equal(t, entries[0].Answer, "9-5 Mon-Fri")
}

func TestSupervisorResponseValidation(t *testing.T) {
	h, _ := setupHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/supervisor_response",
		`{"answer":"a","question":"q","request_id":"req_x"}`)
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestSupervisorResponseUnknownRequest(t *testing.T) {
	h, _ := setupHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/supervisor_response",
		`{"answer":"a","id":"resp_2","question":"q","request_id":"req_unknown"}`)
	gt.Equal(t, rec.Code, http.StatusInternalServerError)

	// The failed resolution left an orphaned supervisor response behind;
	// the reconciliation endpoint reports it.
	rec = doRequest(t, h, http.MethodGet, "/reconciliation", "")
	gt.Equal(t, rec.Code, http.StatusOK)

	var found []resolution.Inconsistency
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	gt.A(t, found).Length(1)
	gt.Equal(t, found[0].RequestID, model.RequestID("req_unknown"))
}

func TestReconciliationEmpty(t *testing.T) {
	h, _ := setupHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/reconciliation", "")
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, strings.TrimSpace(rec.Body.String()), "[]")
}

func TestKnowledgeLearnedDateDefaults(t *testing.T) {
	h, repo := setupHandler(t)

	before := time.Now()
	rec := doRequest(t, h, http.MethodPost, "/knowledge_base", `{"question":"q","answer":"a"}`)
	gt.Equal(t, rec.Code, http.StatusOK)

	entries, err := repo.ListKnowledge(t.Context())
	gt.NoError(t, err)
	gt.A(t, entries).Length(1)
	gt.True(t, !entries[0].LearnedDate.Before(before))
}

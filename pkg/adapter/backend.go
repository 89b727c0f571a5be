package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Backend is the HTTP client of the escalation API, used on the agent side.
// It implements the knowledge source and escalator contracts of the
// orchestrator over the wire, the same way the voice agent process talks to
// the backend in production.
type Backend struct {
	baseURL string
	client  *http.Client
	newID   func() model.RequestID
}

// BackendOption is a functional option for Backend
type BackendOption func(*Backend)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) BackendOption {
	return func(b *Backend) {
		b.client = client
	}
}

// WithRequestIDFunc overrides the request ID generator
func WithRequestIDFunc(fn func() model.RequestID) BackendOption {
	return func(b *Backend) {
		b.newID = fn
	}
}

// NewBackend creates a Backend client for the given base URL
func NewBackend(baseURL string, opts ...BackendOption) *Backend {
	b := &Backend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		newID:   model.NewRequestID,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// ListKnowledge fetches every knowledge entry via GET /knowledge_base
func (b *Backend) ListKnowledge(ctx context.Context) ([]*model.KnowledgeEntry, error) {
	endpoint, err := url.JoinPath(b.baseURL, "knowledge_base")
	if err != nil {
		return nil, goerr.Wrap(err, "invalid backend URL", goerr.V("base", b.baseURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build knowledge request")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch knowledge base")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status from knowledge base",
			goerr.V("status", resp.StatusCode))
	}

	var entries []*model.KnowledgeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, goerr.Wrap(err, "failed to decode knowledge base response")
	}

	return entries, nil
}

type createHelpRequestBody struct {
	Question  string          `json:"question"`
	RequestID model.RequestID `json:"request_id"`
}

// Escalate generates a request ID and creates a help request via
// POST /help_requests. The backend writes both the ledger record and the
// history record under that ID.
func (b *Backend) Escalate(ctx context.Context, question string) (model.RequestID, error) {
	endpoint, err := url.JoinPath(b.baseURL, "help_requests")
	if err != nil {
		return "", goerr.Wrap(err, "invalid backend URL", goerr.V("base", b.baseURL))
	}

	id := b.newID()
	body, err := json.Marshal(createHelpRequestBody{
		Question:  question,
		RequestID: id,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode help request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build help request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create help request", goerr.V("request_id", id))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", goerr.New("unexpected status from help request creation",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(msg)))
	}

	return id, nil
}

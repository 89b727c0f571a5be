package repository

import (
	"context"
	"sync"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements Repository with in-process maps. It backs tests and
// local runs without a Firestore project. Writes are last-write-wins per
// record, matching the consistency level of the Firestore implementation.
type Memory struct {
	mu        sync.RWMutex
	knowledge []*model.KnowledgeEntry
	requests  map[model.RequestID]*model.HelpRequest
	histories map[model.RequestID]*model.HelpRequestHistory
	responses []*model.SupervisorResponse
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		requests:  make(map[model.RequestID]*model.HelpRequest),
		histories: make(map[model.RequestID]*model.HelpRequestHistory),
	}
}

func (r *Memory) PutKnowledge(_ context.Context, entry *model.KnowledgeEntry) error {
	if entry.ID == "" {
		entry.ID = model.NewEntryID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	r.knowledge = append(r.knowledge, &copied)
	return nil
}

func (r *Memory) ListKnowledge(_ context.Context) ([]*model.KnowledgeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*model.KnowledgeEntry, 0, len(r.knowledge))
	for _, e := range r.knowledge {
		copied := *e
		entries = append(entries, &copied)
	}
	return entries, nil
}

func (r *Memory) PutHelpRequest(_ context.Context, req *model.HelpRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *Memory) GetHelpRequest(_ context.Context, id model.RequestID) (*model.HelpRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrRequestNotFound, "help request", goerr.V("request_id", id))
	}
	copied := *req
	return &copied, nil
}

func (r *Memory) ListHelpRequests(_ context.Context) ([]*model.HelpRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reqs := make([]*model.HelpRequest, 0, len(r.requests))
	for _, req := range r.requests {
		copied := *req
		reqs = append(reqs, &copied)
	}
	return reqs, nil
}

func (r *Memory) UpdateHelpRequestStatus(_ context.Context, id model.RequestID, status model.RequestStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return goerr.Wrap(model.ErrRequestNotFound, "help request", goerr.V("request_id", id))
	}
	req.Status = status
	return nil
}

func (r *Memory) PutHistory(_ context.Context, hist *model.HelpRequestHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *hist
	r.histories[hist.ID] = &copied
	return nil
}

func (r *Memory) GetHistory(_ context.Context, id model.RequestID) (*model.HelpRequestHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hist, ok := r.histories[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrRequestNotFound, "request history", goerr.V("request_id", id))
	}
	copied := *hist
	return &copied, nil
}

func (r *Memory) ListHistory(_ context.Context) ([]*model.HelpRequestHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hists := make([]*model.HelpRequestHistory, 0, len(r.histories))
	for _, hist := range r.histories {
		copied := *hist
		hists = append(hists, &copied)
	}
	return hists, nil
}

func (r *Memory) PutSupervisorResponse(_ context.Context, resp *model.SupervisorResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *resp
	r.responses = append(r.responses, &copied)
	return nil
}

func (r *Memory) ListSupervisorResponses(_ context.Context) ([]*model.SupervisorResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resps := make([]*model.SupervisorResponse, 0, len(r.responses))
	for _, resp := range r.responses {
		copied := *resp
		resps = append(resps, &copied)
	}
	return resps, nil
}

package repository

import (
	"context"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
)

// Repository defines the persistence operations for the escalation workflow.
// Each operation is atomic at the single-record level only; there are no
// cross-record transactions. Callers that need multiple records to agree
// must reconcile after the fact.
type Repository interface {
	// PutKnowledge appends a knowledge entry. Entries are immutable once
	// written; callers must not reuse IDs.
	PutKnowledge(ctx context.Context, entry *model.KnowledgeEntry) error

	// ListKnowledge returns every knowledge entry.
	ListKnowledge(ctx context.Context) ([]*model.KnowledgeEntry, error)

	// PutHelpRequest writes a ledger record under its request ID.
	PutHelpRequest(ctx context.Context, req *model.HelpRequest) error

	// GetHelpRequest retrieves a ledger record by request ID. Returns an
	// error wrapping model.ErrRequestNotFound if absent.
	GetHelpRequest(ctx context.Context, id model.RequestID) (*model.HelpRequest, error)

	// ListHelpRequests returns every ledger record.
	ListHelpRequests(ctx context.Context) ([]*model.HelpRequest, error)

	// UpdateHelpRequestStatus updates only the status field of a ledger
	// record, leaving question and created_at untouched. Returns an error
	// wrapping model.ErrRequestNotFound if the record does not exist.
	UpdateHelpRequestStatus(ctx context.Context, id model.RequestID, status model.RequestStatus) error

	// PutHistory overwrites the full history record for a request.
	PutHistory(ctx context.Context, hist *model.HelpRequestHistory) error

	// GetHistory retrieves a history record by request ID.
	GetHistory(ctx context.Context, id model.RequestID) (*model.HelpRequestHistory, error)

	// ListHistory returns every history record.
	ListHistory(ctx context.Context) ([]*model.HelpRequestHistory, error)

	// PutSupervisorResponse appends a supervisor response record.
	PutSupervisorResponse(ctx context.Context, resp *model.SupervisorResponse) error

	// ListSupervisorResponses returns every supervisor response.
	ListSupervisorResponses(ctx context.Context) ([]*model.SupervisorResponse, error)
}

package escalation

import (
	"context"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// UseCase creates pending help requests from unanswered questions
type UseCase struct {
	repo  repository.Repository
	newID func() model.RequestID
	now   func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithIDFunc overrides the request ID generator
func WithIDFunc(fn func() model.RequestID) Option {
	return func(u *UseCase) {
		u.newID = fn
	}
}

// WithClock overrides the time source
func WithClock(fn func() time.Time) Option {
	return func(u *UseCase) {
		u.now = fn
	}
}

// New creates a new escalation UseCase
func New(repo repository.Repository, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:  repo,
		newID: model.NewRequestID,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Escalate generates a request ID and records the question for human review.
// It returns the ID so the caller can track the escalation out-of-band.
func (u *UseCase) Escalate(ctx context.Context, question string) (model.RequestID, error) {
	id := u.newID()
	if err := u.Create(ctx, id, question); err != nil {
		return "", err
	}
	return id, nil
}

// Create writes the pending ledger record and the matching unresolved
// history record under the given request ID. The two writes are committed
// independently; a failure between them leaves a ledger record with no
// history row, which the reconciliation pass reports.
func (u *UseCase) Create(ctx context.Context, id model.RequestID, question string) error {
	if question == "" {
		return goerr.New("question is empty", goerr.V("request_id", id))
	}

	now := u.now()

	req := &model.HelpRequest{
		ID:        id,
		Question:  question,
		CreatedAt: now,
		Status:    model.RequestStatusPending,
	}
	if err := u.repo.PutHelpRequest(ctx, req); err != nil {
		return goerr.Wrap(err, "failed to write help request", goerr.V("request_id", id))
	}

	hist := &model.HelpRequestHistory{
		ID:        id,
		Question:  question,
		Answer:    "",
		Status:    model.HistoryStatusUnresolved,
		Timestamp: now,
	}
	if err := u.repo.PutHistory(ctx, hist); err != nil {
		return goerr.Wrap(err, "failed to write request history", goerr.V("request_id", id))
	}

	return nil
}

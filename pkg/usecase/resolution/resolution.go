package resolution

import (
	"context"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// UseCase applies supervisor answers to pending help requests
type UseCase struct {
	repo repository.Repository
	now  func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithClock overrides the time source
func WithClock(fn func() time.Time) Option {
	return func(u *UseCase) {
		u.now = fn
	}
}

// New creates a new resolution UseCase
func New(repo repository.Repository, opts ...Option) *UseCase {
	uc := &UseCase{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Input carries one supervisor answer. ResponseID keys both the supervisor
// response record and the knowledge entry derived from it.
type Input struct {
	RequestID  model.RequestID
	ResponseID model.EntryID
	Question   string
	Answer     string
}

func (in *Input) validate() error {
	if in.RequestID == "" {
		return goerr.New("request_id is required")
	}
	if in.ResponseID == "" {
		return goerr.New("response id is required")
	}
	if in.Question == "" {
		return goerr.New("question is required")
	}
	if in.Answer == "" {
		return goerr.New("answer is required")
	}
	return nil
}

// Resolve records a supervisor answer in four independently committed
// writes: append the supervisor response, flip the ledger status to
// resolved, append the knowledge entry, and overwrite the history record.
// There is no cross-record transaction; a failure partway through leaves
// the earlier writes in place. Reconcile detects that state.
func (u *UseCase) Resolve(ctx context.Context, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}

	now := u.now()

	resp := &model.SupervisorResponse{
		ID:          in.ResponseID,
		Question:    in.Question,
		Answer:      in.Answer,
		RequestID:   in.RequestID,
		RespondedAt: now,
	}
	if err := u.repo.PutSupervisorResponse(ctx, resp); err != nil {
		return goerr.Wrap(err, "failed to record supervisor response",
			goerr.V("request_id", in.RequestID))
	}

	if err := u.repo.UpdateHelpRequestStatus(ctx, in.RequestID, model.RequestStatusResolved); err != nil {
		return goerr.Wrap(err, "failed to mark help request resolved; supervisor response already recorded",
			goerr.V("request_id", in.RequestID), goerr.V("response_id", in.ResponseID))
	}

	entry := &model.KnowledgeEntry{
		ID:          in.ResponseID,
		Question:    in.Question,
		Answer:      in.Answer,
		LearnedDate: now,
	}
	if err := u.repo.PutKnowledge(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to write knowledge entry; ledger already resolved",
			goerr.V("request_id", in.RequestID), goerr.V("response_id", in.ResponseID))
	}

	hist := &model.HelpRequestHistory{
		ID:        in.RequestID,
		Question:  in.Question,
		Answer:    in.Answer,
		Status:    model.HistoryStatusResolved,
		Timestamp: now,
	}
	if err := u.repo.PutHistory(ctx, hist); err != nil {
		return goerr.Wrap(err, "failed to overwrite request history; knowledge entry already written",
			goerr.V("request_id", in.RequestID))
	}

	return nil
}

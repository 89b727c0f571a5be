package resolution_test

import (
	"context"
	"testing"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/repository"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/escalation"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/lookup"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/resolution"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func escalate(t *testing.T, repo repository.Repository, question string) model.RequestID {
	t.Helper()
	id, err := escalation.New(repo).Escalate(context.Background(), question)
	gt.NoError(t, err)
	return id
}

func TestResolve(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	reqID := escalate(t, repo, "What are your hours?")

	uc := resolution.New(repo)
	respID := model.NewEntryID()
	gt.NoError(t, uc.Resolve(ctx, resolution.Input{
		RequestID:  reqID,
		ResponseID: respID,
		Question:   "What are your hours?",
		Answer:     "9-5 Mon-Fri",
	}))

	// Ledger flipped to resolved, question untouched.
	req, err := repo.GetHelpRequest(ctx, reqID)
	gt.NoError(t, err)
	gt.Equal(t, req.Status, model.RequestStatusResolved)
	gt.Equal(t, req.Question, "What are your hours?")

	// History overwritten with the answer.
	hist, err := repo.GetHistory(ctx, reqID)
	gt.NoError(t, err)
	gt.Equal(t, hist.Status, model.HistoryStatusResolved)
	gt.Equal(t, hist.Answer, "9-5 Mon-Fri")

	// Knowledge entry keyed by the response ID.
	answer, ok := lookup.New(repo).FindAnswer(ctx, "What are your hours?")
	gt.True(t, ok)
	gt.Equal(t, answer, "9-5 Mon-Fri")

	resps, err := repo.ListSupervisorResponses(ctx)
	gt.NoError(t, err)
	gt.A(t, resps).Length(1)
	gt.Equal(t, resps[0].ID, respID)
	gt.Equal(t, resps[0].RequestID, reqID)
}

// Resolving twice is not an error: it appends a second supervisor response
// while ledger and history stay resolved (last write wins).
func TestResolveTwice(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	reqID := escalate(t, repo, "Do you ship overseas?")

	uc := resolution.New(repo)
	for i := 0; i < 2; i++ {
		gt.NoError(t, uc.Resolve(ctx, resolution.Input{
			RequestID:  reqID,
			ResponseID: model.NewEntryID(),
			Question:   "Do you ship overseas?",
			Answer:     "Yes, to most countries",
		}))
	}

	resps, err := repo.ListSupervisorResponses(ctx)
	gt.NoError(t, err)
	gt.A(t, resps).Length(2)

	req, err := repo.GetHelpRequest(ctx, reqID)
	gt.NoError(t, err)
	gt.Equal(t, req.Status, model.RequestStatusResolved)

	hist, err := repo.GetHistory(ctx, reqID)
	gt.NoError(t, err)
	gt.Equal(t, hist.Status, model.HistoryStatusResolved)
}

func TestResolveValidation(t *testing.T) {
	uc := resolution.New(repository.NewMemory())
	ctx := context.Background()

	base := resolution.Input{
		RequestID:  model.NewRequestID(),
		ResponseID: model.NewEntryID(),
		Question:   "q",
		Answer:     "a",
	}

	missing := []func(in *resolution.Input){
		func(in *resolution.Input) { in.RequestID = "" },
		func(in *resolution.Input) { in.ResponseID = "" },
		func(in *resolution.Input) { in.Question = "" },
		func(in *resolution.Input) { in.Answer = "" },
	}
	for _, clear := range missing {
		in := base
		clear(&in)
		gt.Error(t, uc.Resolve(ctx, in))
	}
}

func TestResolveUnknownRequest(t *testing.T) {
	repo := repository.NewMemory()
	uc := resolution.New(repo)
	ctx := context.Background()

	err := uc.Resolve(ctx, resolution.Input{
		RequestID:  model.RequestID("req_missing"),
		ResponseID: model.NewEntryID(),
		Question:   "q",
		Answer:     "a",
	})
	gt.Error(t, err)

	// The supervisor response was committed before the failure; the
	// reconciliation pass must surface the orphan.
	found, err := uc.Reconcile(ctx)
	gt.NoError(t, err)
	gt.A(t, found).Length(1)
	gt.Equal(t, found[0].RequestID, model.RequestID("req_missing"))
}

// ledgerFailRepo fails the status update, simulating a crash between the
// first and second write of Resolve.
type ledgerFailRepo struct {
	repository.Repository
}

func (r *ledgerFailRepo) UpdateHelpRequestStatus(ctx context.Context, id model.RequestID, status model.RequestStatus) error {
	return goerr.New("store unavailable")
}

func TestResolvePartialFailureIsDetectable(t *testing.T) {
	mem := repository.NewMemory()
	ctx := context.Background()

	reqID := escalate(t, mem, "Can I return opened items?")

	failing := &ledgerFailRepo{Repository: mem}
	err := resolution.New(failing).Resolve(ctx, resolution.Input{
		RequestID:  reqID,
		ResponseID: model.NewEntryID(),
		Question:   "Can I return opened items?",
		Answer:     "Within 14 days, yes",
	})
	gt.Error(t, err)

	// Ledger still pending, but the supervisor response is committed.
	req, err := mem.GetHelpRequest(ctx, reqID)
	gt.NoError(t, err)
	gt.Equal(t, req.Status, model.RequestStatusPending)

	found, err := resolution.New(mem).Reconcile(ctx)
	gt.NoError(t, err)
	gt.A(t, found).Length(1)
	gt.Equal(t, found[0].RequestID, reqID)
	gt.S(t, found[0].Reason).Contains("still pending")
}

func TestReconcileCleanState(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	reqID := escalate(t, repo, "What are your hours?")
	uc := resolution.New(repo)
	gt.NoError(t, uc.Resolve(ctx, resolution.Input{
		RequestID:  reqID,
		ResponseID: model.NewEntryID(),
		Question:   "What are your hours?",
		Answer:     "9-5 Mon-Fri",
	}))

	found, err := uc.Reconcile(ctx)
	gt.NoError(t, err)
	gt.A(t, found).Length(0)
}

func TestReconcileHistoryLag(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	reqID := escalate(t, repo, "q")
	gt.NoError(t, repo.UpdateHelpRequestStatus(ctx, reqID, model.RequestStatusResolved))

	found, err := resolution.New(repo).Reconcile(ctx)
	gt.NoError(t, err)
	gt.A(t, found).Length(1)
	gt.S(t, found[0].Reason).Contains("history")
}

func TestReconcileMissingHistory(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	// A crash between escalation's two writes leaves the ledger record
	// without its history record.
	reqID := model.NewRequestID()
	gt.NoError(t, repo.PutHelpRequest(ctx, &model.HelpRequest{
		ID:        reqID,
		Question:  "Do you ship overseas?",
		CreatedAt: time.Now(),
		Status:    model.RequestStatusPending,
	}))

	found, err := resolution.New(repo).Reconcile(ctx)
	gt.NoError(t, err)
	gt.A(t, found).Length(1)
	gt.Equal(t, found[0].RequestID, reqID)
	gt.S(t, found[0].Reason).Contains("no history record")
}

func TestResolveClock(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	reqID := escalate(t, repo, "q")
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := resolution.New(repo, resolution.WithClock(func() time.Time { return at }))

	gt.NoError(t, uc.Resolve(ctx, resolution.Input{
		RequestID:  reqID,
		ResponseID: model.NewEntryID(),
		Question:   "q",
		Answer:     "a",
	}))

	hist, err := repo.GetHistory(ctx, reqID)
	gt.NoError(t, err)
	gt.True(t, hist.Timestamp.Equal(at))

	entries, err := repo.ListKnowledge(ctx)
	gt.NoError(t, err)
	gt.A(t, entries).Length(1)
	gt.True(t, entries[0].LearnedDate.Equal(at))
}

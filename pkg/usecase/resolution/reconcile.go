package resolution

import (
	"context"
	"errors"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Inconsistency describes one request whose records disagree, typically
// because a resolution failed after some of its writes had committed.
type Inconsistency struct {
	RequestID  model.RequestID `json:"request_id"`
	ResponseID model.EntryID   `json:"response_id,omitempty"`
	Reason     string          `json:"reason"`
}

// Reconcile cross-checks the ledger against supervisor responses and the
// history log. It reports requests that a supervisor answered but whose
// ledger never flipped to resolved, answered requests missing from the
// ledger entirely, ledger records with no history record at all, and
// resolved ledger records whose history record still says unresolved.
func (u *UseCase) Reconcile(ctx context.Context) ([]Inconsistency, error) {
	resps, err := u.repo.ListSupervisorResponses(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list supervisor responses")
	}

	var found []Inconsistency
	for _, resp := range resps {
		req, err := u.repo.GetHelpRequest(ctx, resp.RequestID)
		if errors.Is(err, model.ErrRequestNotFound) {
			found = append(found, Inconsistency{
				RequestID:  resp.RequestID,
				ResponseID: resp.ID,
				Reason:     "supervisor response exists but help request is missing",
			})
			continue
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get help request",
				goerr.V("request_id", resp.RequestID))
		}

		if req.Status == model.RequestStatusPending {
			found = append(found, Inconsistency{
				RequestID:  resp.RequestID,
				ResponseID: resp.ID,
				Reason:     "supervisor response exists but help request is still pending",
			})
		}
	}

	reqs, err := u.repo.ListHelpRequests(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list help requests")
	}

	for _, req := range reqs {
		hist, err := u.repo.GetHistory(ctx, req.ID)
		if errors.Is(err, model.ErrRequestNotFound) {
			// Escalation writes the ledger record first, so a crash
			// between its two writes leaves the history record missing.
			found = append(found, Inconsistency{
				RequestID: req.ID,
				Reason:    "help request has no history record",
			})
			continue
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get request history",
				goerr.V("request_id", req.ID))
		}

		if req.Status == model.RequestStatusResolved && hist.Status != model.HistoryStatusResolved {
			found = append(found, Inconsistency{
				RequestID: req.ID,
				Reason:    "help request is resolved but history record is still unresolved",
			})
		}
	}

	return found, nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrRequestNotFound = goerr.New("help request not found")
	ErrInvalidStatus   = goerr.New("invalid status")
)

type RequestID string

// NewRequestID generates a new unique RequestID
func NewRequestID() RequestID {
	return RequestID("req_" + uuid.New().String())
}

// TimestampRequestID derives a RequestID from wall-clock time at one-second
// granularity. Two calls within the same second return the same ID, so the
// later escalation silently overwrites the earlier one. Kept only for
// compatibility with deployments that key on this format; new code should
// use NewRequestID.
func TimestampRequestID(t time.Time) RequestID {
	return RequestID("req_" + t.Format("20060102_150405"))
}

// RequestStatus is the ledger-side lifecycle of a help request. The only
// legal transition is pending to resolved, exactly once.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusResolved RequestStatus = "resolved"
)

func (s RequestStatus) Validate() error {
	switch s {
	case RequestStatusPending, RequestStatusResolved:
		return nil
	default:
		return goerr.Wrap(ErrInvalidStatus, "request status", goerr.V("status", s))
	}
}

// HistoryStatus mirrors RequestStatus on the history record, with the
// historical "unresolved" naming instead of "pending".
type HistoryStatus string

const (
	HistoryStatusUnresolved HistoryStatus = "unresolved"
	HistoryStatusResolved   HistoryStatus = "resolved"
)

func (s HistoryStatus) Validate() error {
	switch s {
	case HistoryStatusUnresolved, HistoryStatusResolved:
		return nil
	default:
		return goerr.Wrap(ErrInvalidStatus, "history status", goerr.V("status", s))
	}
}

// HelpRequest is the live ledger record of an escalated question.
type HelpRequest struct {
	ID        RequestID     `json:"id" firestore:"request_id"`
	Question  string        `json:"question" firestore:"question"`
	CreatedAt time.Time     `json:"created_at" firestore:"created_at"`
	Status    RequestStatus `json:"status" firestore:"status"`
}

// HelpRequestHistory is the audit record of an escalated question. It shares
// its key with the ledger record, holds the question from escalation on, and
// carries an answer only once resolved. Resolution overwrites the whole
// record.
type HelpRequestHistory struct {
	ID        RequestID     `json:"id" firestore:"id"`
	Question  string        `json:"question" firestore:"question"`
	Answer    string        `json:"answer" firestore:"answer"`
	Status    HistoryStatus `json:"status" firestore:"status"`
	Timestamp time.Time     `json:"timestamp" firestore:"timestamp"`
}

// SupervisorResponse records one supervisor answer. Append-only: resolving
// the same request twice produces two responses.
type SupervisorResponse struct {
	ID          EntryID   `json:"id" firestore:"id"`
	Question    string    `json:"question" firestore:"question"`
	Answer      string    `json:"answer" firestore:"answer"`
	RequestID   RequestID `json:"request_id" firestore:"request_id"`
	RespondedAt time.Time `json:"responded_at" firestore:"responded_at"`
}

package conversation

import (
	"context"
	"fmt"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/utils/logging"
)

// Caller-facing phrasings. The voice path never exposes raw errors: every
// turn ends in one of these two shapes.
const (
	answerFormat = "Here is the verified answer from our knowledge base: %s"

	// EscalationMessage is returned whenever the knowledge base has no
	// exact match, including when the escalation write itself failed.
	EscalationMessage = "I don't have that information in my knowledge base. " +
		"I'm escalating your question to a human supervisor who will assist you shortly."
)

// Lookup answers a question from verified knowledge, or reports not-found
type Lookup interface {
	FindAnswer(ctx context.Context, question string) (string, bool)
}

// Escalator records an unanswered question for human review
type Escalator interface {
	Escalate(ctx context.Context, question string) (model.RequestID, error)
}

// UseCase orchestrates one caller turn: a single lookup, and on miss a
// single escalation.
type UseCase struct {
	lookup    Lookup
	escalator Escalator
}

// New creates a new conversation UseCase
func New(lookup Lookup, escalator Escalator) *UseCase {
	return &UseCase{
		lookup:    lookup,
		escalator: escalator,
	}
}

// HandleQuestion processes one completed caller utterance. On a knowledge
// base hit it returns the verified answer; otherwise it escalates and
// returns the fixed escalation message. The request ID is not surfaced to
// the caller, and internal failures never are either: an escalation write
// failure is logged and the caller still hears the escalation message.
func (u *UseCase) HandleQuestion(ctx context.Context, question string) string {
	logger := logging.From(ctx)

	if answer, ok := u.lookup.FindAnswer(ctx, question); ok {
		logger.Info("answered from knowledge base", "question", question)
		return fmt.Sprintf(answerFormat, answer)
	}

	id, err := u.escalator.Escalate(ctx, question)
	if err != nil {
		logger.Error("failed to escalate question", "question", question, "error", err)
	} else {
		logger.Info("escalated question to supervisor", "question", question, "request_id", id)
	}

	return EscalationMessage
}

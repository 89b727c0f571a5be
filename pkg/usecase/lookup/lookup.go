package lookup

import (
	"context"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/utils/logging"
)

// KnowledgeSource provides the full set of knowledge entries. Satisfied by
// the repository directly and by the HTTP backend adapter on the agent side.
type KnowledgeSource interface {
	ListKnowledge(ctx context.Context) ([]*model.KnowledgeEntry, error)
}

// UseCase answers questions from the knowledge store
type UseCase struct {
	source KnowledgeSource
}

// New creates a new lookup UseCase
func New(source KnowledgeSource) *UseCase {
	return &UseCase{source: source}
}

// FindAnswer scans all knowledge entries for one whose question exactly
// equals the input (case- and whitespace-sensitive) and returns its answer.
// The entry set is re-read on every call. Any store failure degrades to
// not-found so that the caller's turn proceeds to escalation instead of
// aborting.
func (u *UseCase) FindAnswer(ctx context.Context, question string) (string, bool) {
	entries, err := u.source.ListKnowledge(ctx)
	if err != nil {
		logging.From(ctx).Warn("knowledge lookup failed, treating as not found",
			"question", question, "error", err)
		return "", false
	}

	for _, entry := range entries {
		if entry.Question == question {
			return entry.Answer, true
		}
	}

	return "", false
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type EntryID string

// NewEntryID generates a new unique EntryID
func NewEntryID() EntryID {
	return EntryID(uuid.New().String())
}

// KnowledgeEntry is a verified question/answer pair. Entries are created by
// resolution or manual seeding and never updated afterwards.
type KnowledgeEntry struct {
	ID          EntryID   `json:"id" firestore:"id"`
	Question    string    `json:"question" firestore:"question"`
	Answer      string    `json:"answer" firestore:"answer"`
	LearnedDate time.Time `json:"learnedDate" firestore:"learnedDate"`
}

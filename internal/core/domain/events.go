package domain

import "time"

// JournalEventType names a committed journal entry transition.
type JournalEventType string

const (
	EventJournalCreated  JournalEventType = "journal.created"
	EventJournalUpdated  JournalEventType = "journal.updated"
	EventJournalDeleted  JournalEventType = "journal.deleted"
	EventJournalApproved JournalEventType = "journal.approved"
	EventJournalRejected JournalEventType = "journal.rejected"
	EventJournalPosted   JournalEventType = "journal.posted"
	EventJournalReversed JournalEventType = "journal.reversed"
)

// JournalEvent is published after a transition has been durably committed.
type JournalEvent struct {
	EventID        string           `json:"eventID"`
	Type           JournalEventType `json:"type"`
	EntryID        string           `json:"entryID"`
	RelatedEntryID string           `json:"relatedEntryID,omitempty"`
	Actor          string           `json:"actor"`
	OccurredAt     time.Time        `json:"occurredAt"`
}

package port

import "time"

// JournalEntry - запись о диспатче одного действия.
type JournalEntry struct {
	SessionID string    `json:"session_id"`
	Type      string    `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// ActionJournalPort принимает записи журнала. Record не должен блокировать диспатч.
type ActionJournalPort interface {
	Record(entry JournalEntry)
}

package models

import "time"

const (
	ReminderTypeInterview = "interview"
	ReminderTypeOffer     = "offer"
	ReminderTypeTask      = "task"
	ReminderTypeWeekly    = "weekly"
)

// Reminder is an append-only ledger entry recording that a notification was
// sent. A sent entry for (UserID, Type, EntityID) suppresses resending; for
// weekly digests suppression is by ScheduledFor falling inside the current
// week. The system never updates or deletes these.
type Reminder struct {
	UserID       string    `firestore:"userId"`
	Type         string    `firestore:"type"`
	EntityID     string    `firestore:"entityId"`
	ScheduledFor time.Time `firestore:"scheduledFor"`
	Sent         bool      `firestore:"sent"`
	SentAt       time.Time `firestore:"sentAt"`
}

// LedgerID is the deterministic document ID for a reminder, so that
// recording a send is an insert-if-absent rather than a blind append.
func (r Reminder) LedgerID() string {
	return r.UserID + "_" + r.Type + "_" + r.EntityID
}

package models

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"

	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Task belongs to exactly one Client and is optionally assigned to one
// Subcontractor.
type Task struct {
	ID              string     `firestore:"-"`
	UserID          string     `firestore:"userId"`
	ClientID        string     `firestore:"clientId"`
	SubcontractorID string     `firestore:"subcontractorId,omitempty"`
	Title           string     `firestore:"title"`
	Description     string     `firestore:"description,omitempty"`
	Status          string     `firestore:"status"`
	Priority        string     `firestore:"priority"`
	StartDate       *time.Time `firestore:"startDate,omitempty"`
	DueDate         *time.Time `firestore:"dueDate,omitempty"`
	CompletedDate   *time.Time `firestore:"completedDate,omitempty"`
	Budget          float64    `firestore:"budget,omitempty"`
	PaymentStatus   string     `firestore:"paymentStatus"`
	PaymentAmount   float64    `firestore:"paymentAmount,omitempty"`
	Notes           string     `firestore:"notes,omitempty"`
	CreatedAt       time.Time  `firestore:"createdAt"`
}

package models

import "time"

const (
	JobStatusApplied   = "applied"
	JobStatusInterview = "interview"
	JobStatusOffer     = "offer"
	JobStatusRejected  = "rejected"
	JobStatusWithdrawn = "withdrawn"
)

type Job struct {
	ID            string     `firestore:"-"`
	UserID        string     `firestore:"userId"`
	Company       string     `firestore:"company"`
	Position      string     `firestore:"position"`
	Location      string     `firestore:"location"`
	Status        string     `firestore:"status"`
	URL           string     `firestore:"url,omitempty"`
	Salary        string     `firestore:"salary,omitempty"`
	Notes         string     `firestore:"notes,omitempty"`
	AppliedDate   time.Time  `firestore:"appliedDate"`
	InterviewDate *time.Time `firestore:"interviewDate,omitempty"`
	StartDate     *time.Time `firestore:"startDate,omitempty"`
	CreatedAt     time.Time  `firestore:"createdAt"`
}

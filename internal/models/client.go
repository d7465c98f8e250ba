package models

import "time"

const (
	ClientStatusColdPitch   = "cold-pitch"
	ClientStatusProposal    = "proposal"
	ClientStatusNegotiation = "negotiation"
	ClientStatusTargeting   = "targeting"
	ClientStatusActive      = "active"
	ClientStatusDelivered   = "delivered"
	ClientStatusOnHold      = "on-hold"
	ClientStatusCompleted   = "completed"
	ClientStatusPaid        = "paid"
	ClientStatusCancelled   = "cancelled"
	ClientStatusLost        = "lost"
)

// Client is a freelancer's customer together with the engagement being
// tracked for them. Which date and contact fields are populated depends on
// the status, enforced at input time only.
type Client struct {
	ID           string     `firestore:"-"`
	UserID       string     `firestore:"userId"`
	Name         string     `firestore:"name"`
	Company      string     `firestore:"company,omitempty"`
	Project      string     `firestore:"project"`
	Status       string     `firestore:"status"`
	SentDate     *time.Time `firestore:"sentDate,omitempty"`
	StartDate    *time.Time `firestore:"startDate,omitempty"`
	EndDate      *time.Time `firestore:"endDate,omitempty"`
	Budget       float64    `firestore:"budget,omitempty"`
	Rate         float64    `firestore:"rate,omitempty"`
	ContactEmail string     `firestore:"contactEmail,omitempty"`
	ContactPhone string     `firestore:"contactPhone,omitempty"`
	Notes        string     `firestore:"notes,omitempty"`
	CreatedAt    time.Time  `firestore:"createdAt"`
}

package models

import "time"

type Subcontractor struct {
	ID        string    `firestore:"-"`
	UserID    string    `firestore:"userId"`
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email,omitempty"`
	Phone     string    `firestore:"phone,omitempty"`
	Expertise string    `firestore:"expertise"`
	Rate      float64   `firestore:"rate,omitempty"`
	Notes     string    `firestore:"notes,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"`
}

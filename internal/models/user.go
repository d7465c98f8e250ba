package models

type User struct {
	ID          string `firestore:"-"`
	Email       string `firestore:"email"`
	DisplayName string `firestore:"displayName,omitempty"`
}

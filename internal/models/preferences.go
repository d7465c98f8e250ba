package models

const (
	UserTypeJobSeeker  = "jobSeeker"
	UserTypeFreelancer = "freelancer"
)

// NotificationSettings are the per-user opt-in flags consulted by the
// reminder processors. A zero value means "never notify"; use
// DefaultNotificationSettings for newly created preference documents.
type NotificationSettings struct {
	EmailNotifications     bool `firestore:"emailNotifications"`
	WeeklyDigest           bool `firestore:"weeklyDigest"`
	ApplicationReminders   bool `firestore:"applicationReminders"`
	DeadlineReminders      bool `firestore:"deadlineReminders"`
	ClientUpdates          bool `firestore:"clientUpdates"`
	PaymentReminders       bool `firestore:"paymentReminders"`
	InterviewReminders     bool `firestore:"interviewReminders"`
	OfferDeadlineReminders bool `firestore:"offerDeadlineReminders"`
}

// UserPreferences is stored one-per-user, keyed by the user's ID.
type UserPreferences struct {
	UserID           string               `firestore:"-"`
	UserType         string               `firestore:"userType"`
	Theme            string               `firestore:"theme,omitempty"`
	RememberUserType bool                 `firestore:"rememberUserType"`
	Notifications    NotificationSettings `firestore:"notifications"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailNotifications:     true,
		WeeklyDigest:           true,
		ApplicationReminders:   true,
		DeadlineReminders:      true,
		ClientUpdates:          true,
		PaymentReminders:       true,
		InterviewReminders:     true,
		OfferDeadlineReminders: true,
	}
}

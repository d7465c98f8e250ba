package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/worktrack-dev/worktrack/internal/mailer"
	"github.com/worktrack-dev/worktrack/internal/models"
	"github.com/worktrack-dev/worktrack/internal/store"
)

// Wednesday. Tomorrow is the 27th, the containing week is Sun Aug 23 to
// Sat Aug 29.
var testNow = time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

type fakeStore struct {
	mu        sync.Mutex
	jobs      []models.Job
	tasks     []models.Task
	clients   map[string]models.Client
	subs      map[string]models.Subcontractor
	users     map[string]models.User
	prefs     map[string]models.UserPreferences
	reminders map[string]models.Reminder
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients:   make(map[string]models.Client),
		subs:      make(map[string]models.Subcontractor),
		users:     make(map[string]models.User),
		prefs:     make(map[string]models.UserPreferences),
		reminders: make(map[string]models.Reminder),
	}
}

func (s *fakeStore) addUser(id, email, userType string, notifications models.NotificationSettings) {
	s.users[id] = models.User{ID: id, Email: email, DisplayName: "User " + id}
	s.prefs[id] = models.UserPreferences{UserID: id, UserType: userType, Notifications: notifications}
}

func (s *fakeStore) JobsByStatus(ctx context.Context, status string) ([]models.Job, error) {
	var out []models.Job
	for _, job := range s.jobs {
		if job.Status == status {
			out = append(out, job)
		}
	}
	return out, nil
}

func (s *fakeStore) JobsByUser(ctx context.Context, userID string) ([]models.Job, error) {
	var out []models.Job
	for _, job := range s.jobs {
		if job.UserID == userID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (s *fakeStore) AllTasks(ctx context.Context) ([]models.Task, error) {
	return s.tasks, nil
}

func (s *fakeStore) TasksByUser(ctx context.Context, userID string) ([]models.Task, error) {
	var out []models.Task
	for _, task := range s.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *fakeStore) Client(ctx context.Context, id string) (models.Client, error) {
	client, ok := s.clients[id]
	if !ok {
		return models.Client{}, store.ErrNotFound
	}
	return client, nil
}

func (s *fakeStore) ClientsByUser(ctx context.Context, userID string) ([]models.Client, error) {
	var out []models.Client
	for _, client := range s.clients {
		if client.UserID == userID {
			out = append(out, client)
		}
	}
	return out, nil
}

func (s *fakeStore) Subcontractor(ctx context.Context, id string) (models.Subcontractor, error) {
	sub, ok := s.subs[id]
	if !ok {
		return models.Subcontractor{}, store.ErrNotFound
	}
	return sub, nil
}

func (s *fakeStore) User(ctx context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *fakeStore) Preferences(ctx context.Context, userID string) (models.UserPreferences, error) {
	prefs, ok := s.prefs[userID]
	if !ok {
		return models.UserPreferences{}, store.ErrNotFound
	}
	return prefs, nil
}

func (s *fakeStore) AllPreferences(ctx context.Context) ([]models.UserPreferences, error) {
	var out []models.UserPreferences
	for _, prefs := range s.prefs {
		out = append(out, prefs)
	}
	return out, nil
}

func (s *fakeStore) ReminderExists(ctx context.Context, userID, reminderType, entityID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reminder, ok := s.reminders[userID+"_"+reminderType+"_"+entityID]
	return ok && reminder.Sent, nil
}

func (s *fakeStore) WeeklyReminderExists(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reminder := range s.reminders {
		if reminder.UserID != userID || reminder.Type != models.ReminderTypeWeekly {
			continue
		}
		if !reminder.ScheduledFor.Before(from) && reminder.ScheduledFor.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateReminder(ctx context.Context, reminder models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[reminder.LedgerID()]; ok {
		return store.ErrReminderExists
	}
	s.reminders[reminder.LedgerID()] = reminder
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	failAll  bool
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return "", errors.New("provider unavailable")
	}
	f.messages = append(f.messages, msg)
	return fmt.Sprintf("msg-%d", len(f.messages)), nil
}

func newTestEngine(st *fakeStore, sender *fakeSender) *Engine {
	engine := New(st, sender, "https://worktrack.app/dashboard")
	engine.now = func() time.Time { return testNow }
	return engine
}

func TestInterviewReminderSentOnce(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeJobSeeker, models.DefaultNotificationSettings())
	st.jobs = append(st.jobs, models.Job{
		ID:            "job1",
		UserID:        "u1",
		Company:       "Acme",
		Position:      "Engineer",
		Status:        models.JobStatusInterview,
		InterviewDate: datePtr(testNow.AddDate(0, 0, 1)),
	})

	engine := newTestEngine(st, sender)

	count, err := engine.ProcessInterviewReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reminder sent, got %d", count)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.messages))
	}
	if sender.messages[0].To != "u1@example.com" {
		t.Errorf("email sent to %s, want u1@example.com", sender.messages[0].To)
	}
	if len(st.reminders) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(st.reminders))
	}

	reminder, ok := st.reminders["u1_interview_job1"]
	if !ok {
		t.Fatal("ledger entry u1_interview_job1 not found")
	}
	if !reminder.Sent {
		t.Error("ledger entry not marked sent")
	}

	// Second run on the same day must find the ledger entry and skip.
	count, err = engine.ProcessInterviewReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if count != 0 {
		t.Errorf("second run sent %d reminders, want 0", count)
	}
	if len(sender.messages) != 1 {
		t.Errorf("second run produced extra emails: %d total", len(sender.messages))
	}
}

func TestInterviewReminderExactTomorrowOnly(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeJobSeeker, models.DefaultNotificationSettings())
	st.jobs = append(st.jobs,
		models.Job{ID: "today", UserID: "u1", Status: models.JobStatusInterview, InterviewDate: datePtr(testNow)},
		models.Job{ID: "dayafter", UserID: "u1", Status: models.JobStatusInterview, InterviewDate: datePtr(testNow.AddDate(0, 0, 2))},
		models.Job{ID: "nodate", UserID: "u1", Status: models.JobStatusInterview},
	)

	engine := newTestEngine(st, sender)

	count, err := engine.ProcessInterviewReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 reminders, got %d", count)
	}
	if len(sender.messages) != 0 {
		t.Errorf("expected no emails, got %d", len(sender.messages))
	}
}

func TestInterviewReminderRespectsOptOut(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}

	settings := models.DefaultNotificationSettings()
	settings.InterviewReminders = false
	st.addUser("u1", "u1@example.com", models.UserTypeJobSeeker, settings)
	st.jobs = append(st.jobs, models.Job{
		ID: "job1", UserID: "u1", Status: models.JobStatusInterview,
		InterviewDate: datePtr(testNow.AddDate(0, 0, 1)),
	})

	engine := newTestEngine(st, sender)

	count, _ := engine.ProcessInterviewReminders(context.Background())
	if count != 0 || len(sender.messages) != 0 {
		t.Errorf("opted-out user received a reminder: count=%d emails=%d", count, len(sender.messages))
	}
}

func TestOfferReminderUsesStartDate(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeJobSeeker, models.DefaultNotificationSettings())
	st.jobs = append(st.jobs,
		models.Job{
			ID: "offer1", UserID: "u1", Company: "Acme", Position: "Engineer",
			Status: models.JobStatusOffer, StartDate: datePtr(testNow.AddDate(0, 0, 1)),
			// Stale interview date must not matter for offer reminders.
			InterviewDate: datePtr(testNow.AddDate(0, 0, 1)),
		},
		models.Job{
			ID: "offer2", UserID: "u1", Status: models.JobStatusOffer,
			StartDate: datePtr(testNow.AddDate(0, 0, 5)),
		},
	)

	engine := newTestEngine(st, sender)

	count, err := engine.ProcessOfferReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 offer reminder, got %d", count)
	}
	if _, ok := st.reminders["u1_offer_offer1"]; !ok {
		t.Error("ledger entry u1_offer_offer1 not found")
	}
}

func TestTaskReminderSkipsDeletedClient(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeFreelancer, models.DefaultNotificationSettings())
	st.clients["c1"] = models.Client{ID: "c1", UserID: "u1", Name: "Globex", Project: "Site"}
	st.tasks = append(st.tasks,
		models.Task{
			ID: "t1", UserID: "u1", ClientID: "gone", Title: "Orphaned",
			Status: models.TaskStatusPending, DueDate: datePtr(testNow.AddDate(0, 0, 1)),
		},
		models.Task{
			ID: "t2", UserID: "u1", ClientID: "c1", Title: "Deliver mockups",
			Status: models.TaskStatusPending, DueDate: datePtr(testNow.AddDate(0, 0, 1)),
		},
	)

	engine := newTestEngine(st, sender)

	count, err := engine.ProcessTaskReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 task reminder, got %d", count)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0].Subject, "Deliver mockups") {
		t.Errorf("unexpected subject %q", sender.messages[0].Subject)
	}
}

func TestTaskReminderNamesAssignee(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeFreelancer, models.DefaultNotificationSettings())
	st.clients["c1"] = models.Client{ID: "c1", UserID: "u1", Name: "Globex", Project: "Site"}
	st.subs["s1"] = models.Subcontractor{ID: "s1", UserID: "u1", Name: "Sam", Expertise: "design"}
	st.tasks = append(st.tasks, models.Task{
		ID: "t1", UserID: "u1", ClientID: "c1", SubcontractorID: "s1", Title: "Design pass",
		Status: models.TaskStatusPending, DueDate: datePtr(testNow.AddDate(0, 0, 1)),
	})

	engine := newTestEngine(st, sender)

	count, _ := engine.ProcessTaskReminders(context.Background())
	if count != 1 {
		t.Fatalf("expected 1 task reminder, got %d", count)
	}
	if !strings.Contains(sender.messages[0].HTML, "Assigned to: Sam") {
		t.Errorf("task reminder missing assignee: %s", sender.messages[0].HTML)
	}
}

func TestTaskReminderIgnoresStatus(t *testing.T) {
	// The deadline scan considers every task; a completed task due tomorrow
	// still triggers a reminder.
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeFreelancer, models.DefaultNotificationSettings())
	st.clients["c1"] = models.Client{ID: "c1", UserID: "u1", Name: "Globex", Project: "Site"}
	st.tasks = append(st.tasks, models.Task{
		ID: "t1", UserID: "u1", ClientID: "c1", Title: "Wrapped up early",
		Status: models.TaskStatusCompleted, DueDate: datePtr(testNow.AddDate(0, 0, 1)),
	})

	engine := newTestEngine(st, sender)

	count, _ := engine.ProcessTaskReminders(context.Background())
	if count != 1 {
		t.Errorf("completed task due tomorrow was not selected: count=%d", count)
	}
}

func TestFailedSendStaysEligible(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{failAll: true}
	st.addUser("u1", "u1@example.com", models.UserTypeJobSeeker, models.DefaultNotificationSettings())
	st.jobs = append(st.jobs, models.Job{
		ID: "job1", UserID: "u1", Status: models.JobStatusInterview,
		InterviewDate: datePtr(testNow.AddDate(0, 0, 1)),
	})

	engine := newTestEngine(st, sender)

	count, err := engine.ProcessInterviewReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("failed send was counted: %d", count)
	}
	if len(st.reminders) != 0 {
		t.Fatalf("ledger written despite failed send: %d entries", len(st.reminders))
	}

	// Provider recovers; the next run retries the same entity.
	sender.failAll = false

	count, _ = engine.ProcessInterviewReminders(context.Background())
	if count != 1 {
		t.Errorf("expected retry to send 1 reminder, got %d", count)
	}
}

func TestWeeklyDigestOncePerWeek(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeJobSeeker, models.DefaultNotificationSettings())
	st.jobs = append(st.jobs,
		models.Job{ID: "j1", UserID: "u1", Status: models.JobStatusApplied, AppliedDate: testNow.AddDate(0, 0, -1)},
		models.Job{ID: "j2", UserID: "u1", Status: models.JobStatusApplied, AppliedDate: testNow.AddDate(0, 0, -20)},
	)

	engine := newTestEngine(st, sender)

	count, err := engine.ProcessWeeklyDigests(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 digest, got %d", count)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0].HTML, "Applications submitted: <strong>1</strong>") {
		t.Errorf("digest body missing weekly application count: %s", sender.messages[0].HTML)
	}

	expectedEntity := "weekly-digest-" + testNow.Format("2006-01-02")
	if _, ok := st.reminders["u1_weekly_"+expectedEntity]; !ok {
		t.Errorf("ledger entry for %s not found", expectedEntity)
	}

	// Same week, next day: the window check suppresses a second digest.
	engine.now = func() time.Time { return testNow.AddDate(0, 0, 1) }

	count, _ = engine.ProcessWeeklyDigests(context.Background())
	if count != 0 {
		t.Errorf("second digest sent within the same week: count=%d", count)
	}
}

func TestWeeklyDigestSkipsOptOut(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}

	settings := models.DefaultNotificationSettings()
	settings.WeeklyDigest = false
	st.addUser("u1", "u1@example.com", models.UserTypeJobSeeker, settings)

	engine := newTestEngine(st, sender)

	count, _ := engine.ProcessWeeklyDigests(context.Background())
	if count != 0 || len(sender.messages) != 0 {
		t.Errorf("digest sent to opted-out user: count=%d emails=%d", count, len(sender.messages))
	}
}

func TestFreelancerDigestStats(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}
	st.addUser("u1", "u1@example.com", models.UserTypeFreelancer, models.DefaultNotificationSettings())

	st.clients["c1"] = models.Client{
		ID: "c1", UserID: "u1", Name: "Globex", Project: "Site",
		Status: models.ClientStatusPaid, Budget: 500, EndDate: datePtr(testNow.AddDate(0, 0, -3)),
	}
	st.tasks = append(st.tasks,
		models.Task{
			ID: "done", UserID: "u1", ClientID: "c1", Status: models.TaskStatusCompleted,
			CompletedDate: datePtr(testNow.AddDate(0, 0, -1)),
			PaymentStatus: models.PaymentStatusPaid, PaymentAmount: 1250,
		},
		models.Task{
			ID: "open", UserID: "u1", ClientID: "c1", Status: models.TaskStatusInProgress,
			DueDate: datePtr(testNow.AddDate(0, 0, 10)),
		},
		models.Task{
			ID: "cancelled", UserID: "u1", ClientID: "c1", Status: models.TaskStatusCancelled,
			DueDate: datePtr(testNow.AddDate(0, 0, 10)),
		},
	)

	engine := newTestEngine(st, sender)

	count, err := engine.ProcessWeeklyDigests(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 digest, got %d", count)
	}

	body := sender.messages[0].HTML

	if !strings.Contains(body, "Tasks completed this week: <strong>1</strong>") {
		t.Errorf("digest missing completed count: %s", body)
	}
	if !strings.Contains(body, "Upcoming tasks: <strong>1</strong>") {
		t.Errorf("digest missing upcoming count: %s", body)
	}
	if !strings.Contains(body, "$1750.00") {
		t.Errorf("digest revenue not derived from payment fields: %s", body)
	}
}

func TestProcessAllAggregates(t *testing.T) {
	st := newFakeStore()
	sender := &fakeSender{}

	st.addUser("seeker", "seeker@example.com", models.UserTypeJobSeeker, models.DefaultNotificationSettings())
	st.addUser("lancer", "lancer@example.com", models.UserTypeFreelancer, models.DefaultNotificationSettings())

	tomorrow := datePtr(testNow.AddDate(0, 0, 1))

	st.jobs = append(st.jobs,
		models.Job{ID: "i1", UserID: "seeker", Status: models.JobStatusInterview, InterviewDate: tomorrow},
		models.Job{ID: "i2", UserID: "seeker", Status: models.JobStatusInterview, InterviewDate: tomorrow},
		models.Job{ID: "o1", UserID: "seeker", Status: models.JobStatusOffer, StartDate: tomorrow},
	)

	st.clients["c1"] = models.Client{ID: "c1", UserID: "lancer", Name: "Globex", Project: "Site"}
	st.tasks = append(st.tasks, models.Task{
		ID: "t1", UserID: "lancer", ClientID: "c1", Title: "Ship it",
		Status: models.TaskStatusPending, DueDate: tomorrow,
	})

	engine := newTestEngine(st, sender)

	summary := engine.ProcessAll(context.Background())

	if summary.Interviews != 2 {
		t.Errorf("interviews = %d, want 2", summary.Interviews)
	}
	if summary.Offers != 1 {
		t.Errorf("offers = %d, want 1", summary.Offers)
	}
	if summary.Tasks != 1 {
		t.Errorf("tasks = %d, want 1", summary.Tasks)
	}
	if summary.Digests != 2 {
		t.Errorf("digests = %d, want 2", summary.Digests)
	}
	if len(sender.messages) != 6 {
		t.Errorf("expected 6 emails total, got %d", len(sender.messages))
	}
}

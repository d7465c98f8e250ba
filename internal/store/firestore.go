package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/worktrack-dev/worktrack/internal/models"
)

const (
	jobsCollection          = "jobs"
	clientsCollection       = "clients"
	tasksCollection         = "tasks"
	usersCollection         = "users"
	preferencesCollection   = "userPreferences"
	remindersCollection     = "reminders"
	subcontractorCollection = "subcontractors"
)

var (
	// ErrNotFound is returned when a referenced document does not exist,
	// e.g. a task whose client has been deleted.
	ErrNotFound = errors.New("store: document not found")

	// ErrReminderExists is returned by CreateReminder when a ledger entry
	// with the same (userId, type, entityId) was already recorded.
	ErrReminderExists = errors.New("store: reminder already recorded")
)

// Store wraps the Firestore client with the typed queries the reminder
// subsystem needs. Construct once per process and inject.
type Store struct {
	client *firestore.Client
}

func New(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) JobsByStatus(ctx context.Context, stat string) ([]models.Job, error) {
	docs, err := s.client.Collection(jobsCollection).Where("status", "==", stat).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs by status %q: %w", stat, err)
	}

	jobs := make([]models.Job, 0, len(docs))

	for _, doc := range docs {
		var job models.Job
		if err := doc.DataTo(&job); err != nil {
			return nil, fmt.Errorf("failed to decode job %s: %w", doc.Ref.ID, err)
		}
		job.ID = doc.Ref.ID
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (s *Store) JobsByUser(ctx context.Context, userID string) ([]models.Job, error) {
	docs, err := s.client.Collection(jobsCollection).Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs for user %s: %w", userID, err)
	}

	jobs := make([]models.Job, 0, len(docs))

	for _, doc := range docs {
		var job models.Job
		if err := doc.DataTo(&job); err != nil {
			return nil, fmt.Errorf("failed to decode job %s: %w", doc.Ref.ID, err)
		}
		job.ID = doc.Ref.ID
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// AllTasks scans the full tasks collection. Deadline reminders intentionally
// consider every task, regardless of status.
func (s *Store) AllTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task

	iter := s.client.Collection(tasksCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan tasks: %w", err)
		}

		var task models.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task %s: %w", doc.Ref.ID, err)
		}
		task.ID = doc.Ref.ID
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (s *Store) TasksByUser(ctx context.Context, userID string) ([]models.Task, error) {
	docs, err := s.client.Collection(tasksCollection).Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for user %s: %w", userID, err)
	}

	tasks := make([]models.Task, 0, len(docs))

	for _, doc := range docs {
		var task models.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task %s: %w", doc.Ref.ID, err)
		}
		task.ID = doc.Ref.ID
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (s *Store) Client(ctx context.Context, id string) (models.Client, error) {
	doc, err := s.client.Collection(clientsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Client{}, ErrNotFound
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to load client %s: %w", id, err)
	}

	var client models.Client
	if err := doc.DataTo(&client); err != nil {
		return models.Client{}, fmt.Errorf("failed to decode client %s: %w", id, err)
	}
	client.ID = doc.Ref.ID

	return client, nil
}

func (s *Store) ClientsByUser(ctx context.Context, userID string) ([]models.Client, error) {
	docs, err := s.client.Collection(clientsCollection).Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query clients for user %s: %w", userID, err)
	}

	clients := make([]models.Client, 0, len(docs))

	for _, doc := range docs {
		var client models.Client
		if err := doc.DataTo(&client); err != nil {
			return nil, fmt.Errorf("failed to decode client %s: %w", doc.Ref.ID, err)
		}
		client.ID = doc.Ref.ID
		clients = append(clients, client)
	}

	return clients, nil
}

func (s *Store) Subcontractor(ctx context.Context, id string) (models.Subcontractor, error) {
	doc, err := s.client.Collection(subcontractorCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Subcontractor{}, ErrNotFound
	}
	if err != nil {
		return models.Subcontractor{}, fmt.Errorf("failed to load subcontractor %s: %w", id, err)
	}

	var sub models.Subcontractor
	if err := doc.DataTo(&sub); err != nil {
		return models.Subcontractor{}, fmt.Errorf("failed to decode subcontractor %s: %w", id, err)
	}
	sub.ID = doc.Ref.ID

	return sub, nil
}

func (s *Store) User(ctx context.Context, id string) (models.User, error) {
	doc, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user %s: %w", id, err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return models.User{}, fmt.Errorf("failed to decode user %s: %w", id, err)
	}
	user.ID = doc.Ref.ID

	return user, nil
}

func (s *Store) Preferences(ctx context.Context, userID string) (models.UserPreferences, error) {
	doc, err := s.client.Collection(preferencesCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.UserPreferences{}, ErrNotFound
	}
	if err != nil {
		return models.UserPreferences{}, fmt.Errorf("failed to load preferences for user %s: %w", userID, err)
	}

	var prefs models.UserPreferences
	if err := doc.DataTo(&prefs); err != nil {
		return models.UserPreferences{}, fmt.Errorf("failed to decode preferences for user %s: %w", userID, err)
	}
	prefs.UserID = doc.Ref.ID

	return prefs, nil
}

// AllPreferences scans every preference document, active user or not. The
// weekly digest derives its audience from this collection alone.
func (s *Store) AllPreferences(ctx context.Context) ([]models.UserPreferences, error) {
	var all []models.UserPreferences

	iter := s.client.Collection(preferencesCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan preferences: %w", err)
		}

		var prefs models.UserPreferences
		if err := doc.DataTo(&prefs); err != nil {
			return nil, fmt.Errorf("failed to decode preferences %s: %w", doc.Ref.ID, err)
		}
		prefs.UserID = doc.Ref.ID
		all = append(all, prefs)
	}

	return all, nil
}

// ReminderExists reports whether a sent ledger entry is already recorded for
// this (user, type, entity) triple.
func (s *Store) ReminderExists(ctx context.Context, userID, reminderType, entityID string) (bool, error) {
	id := models.Reminder{UserID: userID, Type: reminderType, EntityID: entityID}.LedgerID()

	doc, err := s.client.Collection(remindersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check reminder ledger for %s: %w", id, err)
	}

	var reminder models.Reminder
	if err := doc.DataTo(&reminder); err != nil {
		return false, fmt.Errorf("failed to decode reminder %s: %w", id, err)
	}

	return reminder.Sent, nil
}

// WeeklyReminderExists reports whether a weekly-type ledger entry was
// recorded with scheduledFor inside [from, to).
func (s *Store) WeeklyReminderExists(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	docs, err := s.client.Collection(remindersCollection).
		Where("userId", "==", userID).
		Where("type", "==", models.ReminderTypeWeekly).
		Where("scheduledFor", ">=", from).
		Where("scheduledFor", "<", to).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return false, fmt.Errorf("failed to check weekly reminder for user %s: %w", userID, err)
	}

	return len(docs) > 0, nil
}

// CreateReminder appends a ledger entry using Create on the deterministic
// document ID, so two concurrent runs cannot both record the same send.
func (s *Store) CreateReminder(ctx context.Context, reminder models.Reminder) error {
	_, err := s.client.Collection(remindersCollection).Doc(reminder.LedgerID()).Create(ctx, reminder)
	if status.Code(err) == codes.AlreadyExists {
		return ErrReminderExists
	}
	if err != nil {
		return fmt.Errorf("failed to record reminder %s: %w", reminder.LedgerID(), err)
	}

	return nil
}

package reminders

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/worktrack-dev/worktrack/internal/mailer"
	"github.com/worktrack-dev/worktrack/internal/models"
	"github.com/worktrack-dev/worktrack/internal/store"
	"github.com/worktrack-dev/worktrack/internal/templates"
)

// Store is the slice of the record store the reminder engine needs.
// *store.Store satisfies it; tests use an in-memory fake.
type Store interface {
	JobsByStatus(ctx context.Context, status string) ([]models.Job, error)
	JobsByUser(ctx context.Context, userID string) ([]models.Job, error)
	AllTasks(ctx context.Context) ([]models.Task, error)
	TasksByUser(ctx context.Context, userID string) ([]models.Task, error)
	Client(ctx context.Context, id string) (models.Client, error)
	ClientsByUser(ctx context.Context, userID string) ([]models.Client, error)
	Subcontractor(ctx context.Context, id string) (models.Subcontractor, error)
	User(ctx context.Context, id string) (models.User, error)
	Preferences(ctx context.Context, userID string) (models.UserPreferences, error)
	AllPreferences(ctx context.Context) ([]models.UserPreferences, error)
	ReminderExists(ctx context.Context, userID, reminderType, entityID string) (bool, error)
	WeeklyReminderExists(ctx context.Context, userID string, from, to time.Time) (bool, error)
	CreateReminder(ctx context.Context, reminder models.Reminder) error
}

// Summary is the aggregate result of one full reminder run.
type Summary struct {
	Interviews int `json:"interviewReminders"`
	Offers     int `json:"offerReminders"`
	Tasks      int `json:"taskReminders"`
	Digests    int `json:"weeklyDigests"`
}

// Engine runs the four reminder processors against the record store.
type Engine struct {
	store        Store
	sender       mailer.Sender
	dashboardURL string
	now          func() time.Time
}

func New(st Store, sender mailer.Sender, dashboardURL string) *Engine {
	return &Engine{
		store:        st,
		sender:       sender,
		dashboardURL: dashboardURL,
		now:          time.Now,
	}
}

// ProcessAll runs the interview, offer, task and weekly-digest processors
// sequentially. A failing processor keeps whatever count it accumulated and
// never prevents its siblings from running.
func (e *Engine) ProcessAll(ctx context.Context) Summary {
	runID := uuid.NewString()
	log.Printf("Reminder run %s started", runID)

	var summary Summary
	var err error

	if summary.Interviews, err = e.ProcessInterviewReminders(ctx); err != nil {
		log.Printf("Reminder run %s: interview processor failed: %v", runID, err)
	}

	if summary.Offers, err = e.ProcessOfferReminders(ctx); err != nil {
		log.Printf("Reminder run %s: offer processor failed: %v", runID, err)
	}

	if summary.Tasks, err = e.ProcessTaskReminders(ctx); err != nil {
		log.Printf("Reminder run %s: task processor failed: %v", runID, err)
	}

	if summary.Digests, err = e.ProcessWeeklyDigests(ctx); err != nil {
		log.Printf("Reminder run %s: weekly digest processor failed: %v", runID, err)
	}

	log.Printf("Reminder run %s finished: %d interview, %d offer, %d task, %d digest",
		runID, summary.Interviews, summary.Offers, summary.Tasks, summary.Digests)

	return summary
}

// ProcessInterviewReminders scans jobs in interview status and notifies
// owners whose interview is tomorrow.
func (e *Engine) ProcessInterviewReminders(ctx context.Context) (int, error) {
	now := e.now()

	jobs, err := e.store.JobsByStatus(ctx, models.JobStatusInterview)
	if err != nil {
		return 0, err
	}

	sent := 0

	for _, job := range jobs {
		if job.InterviewDate == nil || !IsTomorrow(*job.InterviewDate, now) {
			continue
		}

		if e.sendJobReminder(ctx, job, models.ReminderTypeInterview, *job.InterviewDate, now) {
			sent++
		}
	}

	return sent, nil
}

// ProcessOfferReminders scans jobs in offer status and notifies owners
// whose start date is tomorrow.
func (e *Engine) ProcessOfferReminders(ctx context.Context) (int, error) {
	now := e.now()

	jobs, err := e.store.JobsByStatus(ctx, models.JobStatusOffer)
	if err != nil {
		return 0, err
	}

	sent := 0

	for _, job := range jobs {
		if job.StartDate == nil || !IsTomorrow(*job.StartDate, now) {
			continue
		}

		if e.sendJobReminder(ctx, job, models.ReminderTypeOffer, *job.StartDate, now) {
			sent++
		}
	}

	return sent, nil
}

func (e *Engine) sendJobReminder(ctx context.Context, job models.Job, reminderType string, scheduledFor, now time.Time) bool {
	prefs, err := e.store.Preferences(ctx, job.UserID)
	if err != nil {
		return false
	}

	switch reminderType {
	case models.ReminderTypeInterview:
		if !prefs.Notifications.InterviewReminders {
			return false
		}
	case models.ReminderTypeOffer:
		if !prefs.Notifications.OfferDeadlineReminders {
			return false
		}
	}

	user, err := e.store.User(ctx, job.UserID)
	if err != nil {
		return false
	}

	exists, err := e.store.ReminderExists(ctx, job.UserID, reminderType, job.ID)
	if err != nil || exists {
		return false
	}

	var subject, body string
	if reminderType == models.ReminderTypeInterview {
		subject, body = templates.InterviewReminder(user, job, e.dashboardURL)
	} else {
		subject, body = templates.OfferReminder(user, job, e.dashboardURL)
	}

	if !e.deliver(ctx, user, subject, body) {
		return false
	}

	e.record(ctx, models.Reminder{
		UserID:       job.UserID,
		Type:         reminderType,
		EntityID:     job.ID,
		ScheduledFor: scheduledFor,
		Sent:         true,
		SentAt:       now,
	})

	return true
}

// ProcessTaskReminders scans every task, regardless of status, and notifies
// owners whose task is due tomorrow. Tasks whose client has been deleted
// are skipped.
func (e *Engine) ProcessTaskReminders(ctx context.Context) (int, error) {
	now := e.now()

	tasks, err := e.store.AllTasks(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0

	for _, task := range tasks {
		if task.DueDate == nil || !IsTomorrow(*task.DueDate, now) {
			continue
		}

		prefs, err := e.store.Preferences(ctx, task.UserID)
		if err != nil || !prefs.Notifications.DeadlineReminders {
			continue
		}

		client, err := e.store.Client(ctx, task.ClientID)
		if err != nil {
			continue
		}

		user, err := e.store.User(ctx, task.UserID)
		if err != nil {
			continue
		}

		exists, err := e.store.ReminderExists(ctx, task.UserID, models.ReminderTypeTask, task.ID)
		if err != nil || exists {
			continue
		}

		// The assignee is informational only; a missing subcontractor
		// record never blocks the reminder.
		var assignee *models.Subcontractor
		if task.SubcontractorID != "" {
			if sub, err := e.store.Subcontractor(ctx, task.SubcontractorID); err == nil {
				assignee = &sub
			}
		}

		subject, body := templates.TaskReminder(user, task, client, assignee, e.dashboardURL)

		if !e.deliver(ctx, user, subject, body) {
			continue
		}

		e.record(ctx, models.Reminder{
			UserID:       task.UserID,
			Type:         models.ReminderTypeTask,
			EntityID:     task.ID,
			ScheduledFor: *task.DueDate,
			Sent:         true,
			SentAt:       now,
		})

		sent++
	}

	return sent, nil
}

// ProcessWeeklyDigests walks every preference document and sends at most
// one digest per user per week.
func (e *Engine) ProcessWeeklyDigests(ctx context.Context) (int, error) {
	now := e.now()
	weekStart, weekEnd := WeekBounds(now)

	prefsList, err := e.store.AllPreferences(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0

	for _, prefs := range prefsList {
		if !prefs.Notifications.WeeklyDigest {
			continue
		}

		exists, err := e.store.WeeklyReminderExists(ctx, prefs.UserID, weekStart, weekEnd)
		if err != nil || exists {
			continue
		}

		user, err := e.store.User(ctx, prefs.UserID)
		if err != nil {
			continue
		}

		var subject, body string

		switch prefs.UserType {
		case models.UserTypeJobSeeker:
			subject, body, err = e.jobSeekerDigest(ctx, user, weekStart, weekEnd)
		case models.UserTypeFreelancer:
			subject, body, err = e.freelancerDigest(ctx, user, weekStart, weekEnd, now)
		default:
			continue
		}

		if err != nil {
			continue
		}

		if !e.deliver(ctx, user, subject, body) {
			continue
		}

		e.record(ctx, models.Reminder{
			UserID:       prefs.UserID,
			Type:         models.ReminderTypeWeekly,
			EntityID:     "weekly-digest-" + now.UTC().Format("2006-01-02"),
			ScheduledFor: now,
			Sent:         true,
			SentAt:       now,
		})

		sent++
	}

	return sent, nil
}

func (e *Engine) jobSeekerDigest(ctx context.Context, user models.User, weekStart, weekEnd time.Time) (string, string, error) {
	jobs, err := e.store.JobsByUser(ctx, user.ID)
	if err != nil {
		return "", "", err
	}

	var stats templates.JobSeekerDigestStats

	for _, job := range jobs {
		if inWindow(job.AppliedDate, weekStart, weekEnd) {
			stats.ApplicationsSubmitted++
		}
		if job.InterviewDate != nil && inWindow(*job.InterviewDate, weekStart, weekEnd) {
			stats.InterviewsScheduled++
		}
		if job.Status == models.JobStatusOffer && job.StartDate != nil && inWindow(*job.StartDate, weekStart, weekEnd) {
			stats.OffersStarting++
		}
	}

	subject, body := templates.JobSeekerDigest(user, stats, weekStart, e.dashboardURL)
	return subject, body, nil
}

func (e *Engine) freelancerDigest(ctx context.Context, user models.User, weekStart, weekEnd, now time.Time) (string, string, error) {
	var tasks []models.Task
	var clients []models.Client

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		tasks, err = e.store.TasksByUser(gctx, user.ID)
		return err
	})

	g.Go(func() error {
		var err error
		clients, err = e.store.ClientsByUser(gctx, user.ID)
		return err
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}

	var stats templates.FreelancerDigestStats

	for _, task := range tasks {
		if task.Status == models.TaskStatusCompleted && task.CompletedDate != nil && inWindow(*task.CompletedDate, weekStart, weekEnd) {
			stats.TasksCompleted++
		}

		if task.Status != models.TaskStatusCompleted && task.Status != models.TaskStatusCancelled &&
			task.DueDate != nil && task.DueDate.After(now) {
			stats.TasksUpcoming++
		}

		if task.PaymentStatus == models.PaymentStatusPaid && task.CompletedDate != nil && SameMonth(*task.CompletedDate, now) {
			stats.RevenueThisMonth += task.PaymentAmount
		}
	}

	for _, client := range clients {
		if client.Status == models.ClientStatusPaid && client.EndDate != nil && SameMonth(*client.EndDate, now) {
			stats.RevenueThisMonth += client.Budget
		}
	}

	subject, body := templates.FreelancerDigest(user, stats, weekStart, e.dashboardURL)
	return subject, body, nil
}

// deliver sends one email. A failed send is logged and left unrecorded so
// the entity stays eligible on the next run.
func (e *Engine) deliver(ctx context.Context, user models.User, subject, body string) bool {
	msg := mailer.Message{
		To:      user.Email,
		ToName:  user.DisplayName,
		Subject: subject,
		HTML:    body,
	}

	if _, err := e.sender.Send(ctx, msg); err != nil {
		log.Printf("Failed to send %q to %s, will retry next run: %v", subject, user.Email, err)
		return false
	}

	return true
}

// record appends the ledger entry for a successful send. Losing the
// insert-if-absent race to a concurrent run is not an error worth surfacing;
// the email already went out either way.
func (e *Engine) record(ctx context.Context, reminder models.Reminder) {
	if err := e.store.CreateReminder(ctx, reminder); err != nil && !errors.Is(err, store.ErrReminderExists) {
		log.Printf("Failed to record reminder %s: %v", reminder.LedgerID(), err)
	}
}

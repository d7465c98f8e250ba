// Package templates renders the notification emails. Rendering is plain
// string interpolation over escaped entity fields.
package templates

import (
	"fmt"
	"html"
	"time"

	"github.com/worktrack-dev/worktrack/internal/models"
)

const dateLayout = "Monday, January 2, 2006"

type JobSeekerDigestStats struct {
	ApplicationsSubmitted int
	InterviewsScheduled   int
	OffersStarting        int
}

type FreelancerDigestStats struct {
	TasksCompleted   int
	TasksUpcoming    int
	RevenueThisMonth float64
}

func greeting(user models.User) string {
	if user.DisplayName != "" {
		return html.EscapeString(user.DisplayName)
	}
	return "there"
}

func footer(dashboardURL string) string {
	return fmt.Sprintf(`<p><a href="%s">Open your dashboard</a> to see the details.</p>
<p style="color:#888;font-size:12px">You are receiving this because of your notification preferences in Worktrack.</p>`, dashboardURL)
}

// InterviewReminder renders the "interview tomorrow" email for a job whose
// interview date is the next calendar day.
func InterviewReminder(user models.User, job models.Job, dashboardURL string) (subject, body string) {
	subject = fmt.Sprintf("Interview tomorrow: %s at %s", job.Position, job.Company)

	when := ""
	if job.InterviewDate != nil {
		when = job.InterviewDate.Format(dateLayout)
	}

	body = fmt.Sprintf(`<h2>Your interview is tomorrow</h2>
<p>Hi %s,</p>
<p>You have an interview for <strong>%s</strong> at <strong>%s</strong> on %s.</p>
<p>Location: %s</p>
%s`,
		greeting(user),
		html.EscapeString(job.Position),
		html.EscapeString(job.Company),
		when,
		html.EscapeString(job.Location),
		footer(dashboardURL))

	return subject, body
}

// OfferReminder renders the "offer starts tomorrow" email.
func OfferReminder(user models.User, job models.Job, dashboardURL string) (subject, body string) {
	subject = fmt.Sprintf("You start tomorrow: %s at %s", job.Position, job.Company)

	when := ""
	if job.StartDate != nil {
		when = job.StartDate.Format(dateLayout)
	}

	body = fmt.Sprintf(`<h2>Your new role starts tomorrow</h2>
<p>Hi %s,</p>
<p>Your start date for <strong>%s</strong> at <strong>%s</strong> is %s. Good luck!</p>
%s`,
		greeting(user),
		html.EscapeString(job.Position),
		html.EscapeString(job.Company),
		when,
		footer(dashboardURL))

	return subject, body
}

// TaskReminder renders the "task due tomorrow" email. The owning client is
// required to name the project the task belongs to; the assignee line is
// only rendered when the task has a resolvable subcontractor.
func TaskReminder(user models.User, task models.Task, client models.Client, assignee *models.Subcontractor, dashboardURL string) (subject, body string) {
	subject = fmt.Sprintf("Due tomorrow: %s (%s)", task.Title, client.Name)

	when := ""
	if task.DueDate != nil {
		when = task.DueDate.Format(dateLayout)
	}

	assigneeLine := ""
	if assignee != nil {
		assigneeLine = fmt.Sprintf("<p>Assigned to: %s</p>\n", html.EscapeString(assignee.Name))
	}

	body = fmt.Sprintf(`<h2>A task is due tomorrow</h2>
<p>Hi %s,</p>
<p><strong>%s</strong> for client <strong>%s</strong> (project %s) is due on %s.</p>
<p>Priority: %s</p>
%s%s`,
		greeting(user),
		html.EscapeString(task.Title),
		html.EscapeString(client.Name),
		html.EscapeString(client.Project),
		when,
		html.EscapeString(task.Priority),
		assigneeLine,
		footer(dashboardURL))

	return subject, body
}

// JobSeekerDigest renders the weekly summary for job seekers.
func JobSeekerDigest(user models.User, stats JobSeekerDigestStats, weekStart time.Time, dashboardURL string) (subject, body string) {
	subject = fmt.Sprintf("Your job search this week (%s)", weekStart.Format("Jan 2"))

	body = fmt.Sprintf(`<h2>Your week in review</h2>
<p>Hi %s,</p>
<ul>
<li>Applications submitted: <strong>%d</strong></li>
<li>Interviews scheduled: <strong>%d</strong></li>
<li>Offers starting this week: <strong>%d</strong></li>
</ul>
%s`,
		greeting(user),
		stats.ApplicationsSubmitted,
		stats.InterviewsScheduled,
		stats.OffersStarting,
		footer(dashboardURL))

	return subject, body
}

// FreelancerDigest renders the weekly summary for freelancers.
func FreelancerDigest(user models.User, stats FreelancerDigestStats, weekStart time.Time, dashboardURL string) (subject, body string) {
	subject = fmt.Sprintf("Your freelance week (%s)", weekStart.Format("Jan 2"))

	body = fmt.Sprintf(`<h2>Your week in review</h2>
<p>Hi %s,</p>
<ul>
<li>Tasks completed this week: <strong>%d</strong></li>
<li>Upcoming tasks: <strong>%d</strong></li>
<li>Revenue this month: <strong>$%.2f</strong></li>
</ul>
%s`,
		greeting(user),
		stats.TasksCompleted,
		stats.TasksUpcoming,
		stats.RevenueThisMonth,
		footer(dashboardURL))

	return subject, body
}

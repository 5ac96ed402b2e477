package api

import "fmt"

// These constants refer to the task statuses the service accepts for updates.
const (
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// contentPreviewLen is how much report content the table view shows before cutting off.
const contentPreviewLen = 50

// Task is a task record as served by the backend. The backend owns these; the
// client only ever changes Status, and only through Client.UpdateStatus.
type Task struct {
	ID          int    `json:"id"`
	NameOfStaff string `json:"name_of_staff"`
	Title       string `json:"title"`
	Content     string `json:"content_of_task"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

// Report is a submitted staff report. Read-only once submitted.
type Report struct {
	AuthorName     string `json:"author_name"`
	ReportTitle    string `json:"report_title"`
	ReportContent  string `json:"report_content"`
	SubmissionDate string `json:"submission_date"`
}

// ValidStatus reports whether s is a status the service accepts as an update target.
func ValidStatus(s string) bool {
	return s == StatusInProgress || s == StatusDone
}

// UpdateStatuses lists the status values offered in the task detail dropdown.
func UpdateStatuses() []string {
	return []string{StatusInProgress, StatusDone}
}

// validate rejects task records the backend should never send; anything that
// gets through here is safe to render and to key updates by.
func (t Task) validate() error {
	if t.ID == 0 {
		return fmt.Errorf("task missing id: %+v", t)
	}

	if t.NameOfStaff == "" {
		return fmt.Errorf("task %d missing name_of_staff", t.ID)
	}

	return nil
}

func (r Report) validate() error {
	if r.AuthorName == "" {
		return fmt.Errorf("report %q missing author_name", r.ReportTitle)
	}

	return nil
}

// PreviewContent returns the report content cut to the table display length,
// with a trailing ellipsis when anything was cut. The cut counts characters,
// not bytes, so multi-byte content is never split mid-rune. The full content
// stays on the record for the detail dialog.
func (r Report) PreviewContent() string {
	runes := []rune(r.ReportContent)
	if len(runes) <= contentPreviewLen {
		return r.ReportContent
	}

	return string(runes[:contentPreviewLen]) + "..."
}

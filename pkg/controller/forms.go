package controller

import (
	"time"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	titleMax   = 50
	contentMax = 500
	dateMax    = 20
	nameMax    = 50
)

func today() string {
	return time.Now().Format("2006-01-02")
}

// getReportFormGrid builds the submit-report form. Write-only: a successful
// submission just returns to the originating table and refreshes it.
func (c *Controller) getReportFormGrid() *tview.Grid {
	c.reportFormStatus = tview.NewTextView().SetDynamicColors(true)

	c.reportForm = tview.NewForm().
		AddInputField("Author Name", "", nameMax, nil, nil).
		AddInputField("Report Title", "", titleMax, nil, nil).
		AddInputField("Report Content", "", contentMax, nil, nil).
		AddInputField("Submission Date", "", dateMax, nil, nil)

	c.reportAuthorField, _ = c.reportForm.GetFormItemByLabel("Author Name").(*tview.InputField)
	c.reportTitleField, _ = c.reportForm.GetFormItemByLabel("Report Title").(*tview.InputField)
	c.reportContentField, _ = c.reportForm.GetFormItemByLabel("Report Content").(*tview.InputField)
	c.reportDateField, _ = c.reportForm.GetFormItemByLabel("Submission Date").(*tview.InputField)

	c.reportForm.AddButton("Submit", c.submitReport)
	c.reportForm.AddButton("Cancel", c.closeForm)
	c.reportForm.SetCancelFunc(c.closeForm)
	c.reportForm.SetBorder(true).SetTitle(" Submit Report ")

	grid := tview.NewGrid().SetRows(0, 1).SetColumns(0)

	grid.AddItem(c.reportForm, 0, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.reportFormStatus, 1, 0, 1, 1, 0, 0, false)

	return grid
}

// getTaskFormGrid builds the add-task form (administrator only).
func (c *Controller) getTaskFormGrid() *tview.Grid {
	c.taskFormStatus = tview.NewTextView().SetDynamicColors(true)

	c.taskForm = tview.NewForm().
		AddInputField("Name of Staff", "", nameMax, nil, nil).
		AddInputField("Title", "", titleMax, nil, nil).
		AddInputField("Content of Task", "", contentMax, nil, nil).
		AddInputField("Date", "", dateMax, nil, nil)

	c.taskStaffField, _ = c.taskForm.GetFormItemByLabel("Name of Staff").(*tview.InputField)
	c.taskTitleField, _ = c.taskForm.GetFormItemByLabel("Title").(*tview.InputField)
	c.taskContentField, _ = c.taskForm.GetFormItemByLabel("Content of Task").(*tview.InputField)
	c.taskDateField, _ = c.taskForm.GetFormItemByLabel("Date").(*tview.InputField)

	c.taskForm.AddButton("Submit", c.submitTask)
	c.taskForm.AddButton("Cancel", c.closeForm)
	c.taskForm.SetCancelFunc(c.closeForm)
	c.taskForm.SetBorder(true).SetTitle(" Add Task ")

	grid := tview.NewGrid().SetRows(0, 1).SetColumns(0)

	grid.AddItem(c.taskForm, 0, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.taskFormStatus, 1, 0, 1, 1, 0, 0, false)

	return grid
}

// switchToReportForm opens the report form pre-filled with the viewer's name
// and today's date, remembering which table to come back to.
func (c *Controller) switchToReportForm() {
	c.formOrigin, _ = c.pages.GetFrontPage()

	c.reportAuthorField.SetText(c.viewer().Name)
	c.reportTitleField.SetText("")
	c.reportContentField.SetText("")
	c.reportDateField.SetText(today())
	c.reportFormStatus.SetText("")
	c.reportForm.SetFocus(1)

	c.app.SetInputCapture(nil)
	c.pages.SwitchToPage(pageReportForm)
	c.app.SetFocus(c.reportForm)
}

func (c *Controller) switchToTaskForm() {
	c.formOrigin, _ = c.pages.GetFrontPage()

	c.taskStaffField.SetText("")
	c.taskTitleField.SetText("")
	c.taskContentField.SetText("")
	c.taskDateField.SetText(today())
	c.taskFormStatus.SetText("")
	c.taskForm.SetFocus(0)

	c.app.SetInputCapture(nil)
	c.pages.SwitchToPage(pageTaskForm)
	c.app.SetFocus(c.taskForm)
}

// closeForm returns to whichever table the form was opened from.
func (c *Controller) closeForm() {
	if c.formOrigin == pageReports {
		c.showReports()

		return
	}

	c.showTasks()
}

func (c *Controller) submitReport() {
	report := api.Report{
		AuthorName:     c.reportAuthorField.GetText(),
		ReportTitle:    c.reportTitleField.GetText(),
		ReportContent:  c.reportContentField.GetText(),
		SubmissionDate: c.reportDateField.GetText(),
	}

	if report.AuthorName == "" || report.ReportTitle == "" {
		c.reportFormStatus.SetText("[red]Author name and report title are required.")

		return
	}

	c.reportFormStatus.SetText("Submitting report...")
	c.reportForm.GetButton(0).SetDisabled(true)

	go func() {
		err := c.client.SubmitReport(c.ctx, report)

		c.app.QueueUpdateDraw(func() {
			c.reportForm.GetButton(0).SetDisabled(false)

			if err != nil {
				log.Error().Err(err).Msg("report submission failed")
				c.reportFormStatus.SetText("[red]Submission failed. You can retry.")

				return
			}

			c.closeForm()
		})
	}()
}

func (c *Controller) submitTask() {
	task := api.Task{
		NameOfStaff: c.taskStaffField.GetText(),
		Title:       c.taskTitleField.GetText(),
		Content:     c.taskContentField.GetText(),
		Date:        c.taskDateField.GetText(),
		Status:      api.StatusInProgress,
	}

	if task.NameOfStaff == "" || task.Title == "" {
		c.taskFormStatus.SetText("[red]Staff name and title are required.")

		return
	}

	c.taskFormStatus.SetText("Submitting task...")
	c.taskForm.GetButton(0).SetDisabled(true)

	go func() {
		err := c.client.SubmitTask(c.ctx, task)

		c.app.QueueUpdateDraw(func() {
			c.taskForm.GetButton(0).SetDisabled(false)

			if err != nil {
				log.Error().Err(err).Msg("task submission failed")
				c.taskFormStatus.SetText("[red]Submission failed. You can retry.")

				return
			}

			c.closeForm()
		})
	}()
}

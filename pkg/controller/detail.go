package controller

import (
	"errors"
	"fmt"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/kempshot/rmes-client/pkg/workflow"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// getTaskDetailGrid builds the task detail dialog: the full record, the
// status dropdown, and the update/close buttons.
func (c *Controller) getTaskDetailGrid() *tview.Grid {
	c.taskDetailText = tview.NewTextView().SetDynamicColors(true)
	c.taskDetailText.SetBorder(true)

	c.taskDetailStatus = tview.NewTextView().SetDynamicColors(true)

	c.taskDetailForm = tview.NewForm().
		AddDropDown("Status", api.UpdateStatuses(), -1, nil)

	c.statusDropDown, _ = c.taskDetailForm.GetFormItemByLabel("Status").(*tview.DropDown)
	c.statusDropDown.SetSelectedFunc(func(option string, index int) {
		if index < 0 {
			return
		}

		if err := c.flow.ChooseStatus(option); err != nil {
			// rejected values leave the workflow untouched
			log.Warn().Err(err).Str("status", option).Msg("status choice rejected")
			c.taskDetailStatus.SetText("[red]That status cannot be chosen.")

			return
		}

		c.taskDetailStatus.SetText("")
	})

	c.taskDetailForm.AddButton("Update Status", c.submitStatus)
	c.taskDetailForm.AddButton("Close", c.closeTaskDetail)
	c.taskDetailForm.SetCancelFunc(c.closeTaskDetail)

	grid := tview.NewGrid().SetRows(0, 7, 1).SetColumns(0)

	grid.AddItem(c.taskDetailText, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.taskDetailForm, 1, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.taskDetailStatus, 2, 0, 1, 1, 0, 0, false)

	return grid
}

// openTaskDetail shows the dialog for the given task. The workflow selection
// was already recorded by viewTaskDetail.
func (c *Controller) openTaskDetail(task api.Task) {
	c.taskDetailText.SetTitle(fmt.Sprintf(" Task %d ", task.ID))
	c.taskDetailText.SetText(fmt.Sprintf(
		"[yellow]Name of Staff:[white] %s\n[yellow]Title:[white] %s\n\n[yellow]Content of Task:[white] %s\n\n[yellow]Date:[white] %s\n[yellow]Status:[white] %s",
		task.NameOfStaff, task.Title, task.Content, task.Date, task.Status,
	))

	c.statusDropDown.SetCurrentOption(-1)
	c.taskDetailStatus.SetText("")
	c.taskDetailForm.SetFocus(0)

	c.app.SetInputCapture(nil)
	c.pages.SwitchToPage(pageTaskDetail)
	c.app.SetFocus(c.taskDetailForm)
}

// closeTaskDetail discards the pending selection and returns to the tasks
// table with no side effects.
func (c *Controller) closeTaskDetail() {
	c.flow.Close()
	c.showTasks()
}

// submitStatus drives the workflow submit off the UI goroutine. The button is
// disabled while the round-trip is outstanding; the workflow itself also
// refuses re-entrant submits, so a double press can never produce two
// requests. Success closes the dialog (the cache was already reconciled from
// the server); failure keeps the selection so the user can retry.
func (c *Controller) submitStatus() {
	if c.flow.State() != workflow.StatusChosen {
		c.taskDetailStatus.SetText("[red]Choose a status before updating.")

		return
	}

	c.taskDetailStatus.SetText("Updating status...")
	c.taskDetailForm.GetButton(0).SetDisabled(true)

	go func() {
		err := c.flow.Submit(c.ctx)

		c.app.QueueUpdateDraw(func() {
			c.taskDetailForm.GetButton(0).SetDisabled(false)

			switch {
			case errors.Is(err, workflow.ErrSubmitInFlight):
				return
			case errors.Is(err, workflow.ErrPrecondition):
				c.taskDetailStatus.SetText("[red]Select a task and a status first.")
			case err != nil:
				c.taskDetailStatus.SetText("[red]Update failed. You can retry.")
			default:
				c.taskDetailStatus.SetText("")
				c.showTasks()
			}
		})
	}()
}

// getReportDetailGrid builds the report detail dialog: full, untruncated
// content and a close button.
func (c *Controller) getReportDetailGrid() *tview.Grid {
	c.reportDetailText = tview.NewTextView().SetDynamicColors(true)
	c.reportDetailText.SetBorder(true)

	c.reportDetailForm = tview.NewForm()
	c.reportDetailForm.AddButton("Close", c.closeReportDetail)
	c.reportDetailForm.SetCancelFunc(c.closeReportDetail)

	grid := tview.NewGrid().SetRows(0, 3).SetColumns(0)

	grid.AddItem(c.reportDetailText, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.reportDetailForm, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func (c *Controller) openReportDetail(report api.Report) {
	c.reportDetailText.SetTitle(fmt.Sprintf(" %s ", report.ReportTitle))
	c.reportDetailText.SetText(fmt.Sprintf(
		"[yellow]Author:[white] %s\n[yellow]Submitted:[white] %s\n\n%s",
		report.AuthorName, report.SubmissionDate, report.ReportContent,
	))

	c.app.SetInputCapture(nil)
	c.pages.SwitchToPage(pageReportDetail)
	c.app.SetFocus(c.reportDetailForm)
}

func (c *Controller) closeReportDetail() {
	c.showReports()
}

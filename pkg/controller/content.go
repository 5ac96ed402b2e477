package controller

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/kempshot/rmes-client/pkg/cache"
	"github.com/rivo/tview"
)

const contentRatio = 2

// taskContent implements tview.TableContent over the scoped, filtered task
// rows. It shows a loading row while the first fetch for an identity is
// outstanding.
type taskContent struct {
	tview.TableContentReadOnly
	rows  []api.Task
	state cache.State
}

func (tc *taskContent) update(rows []api.Task, state cache.State) {
	tc.rows = rows
	tc.state = state
}

func (tc *taskContent) loading() bool {
	return tc.state == cache.Loading && len(tc.rows) == 0
}

// GetCell returns the cell at the given position or nil if no cell.
func (tc *taskContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		headers := []string{"id", "name of staff", "title", "content of task", "date", "status"}
		if col >= len(headers) {
			return nil
		}

		expansion := 1
		if col == 3 {
			expansion = contentRatio
		}

		return tview.NewTableCell(headers[col]).SetExpansion(expansion).
			SetTextColor(tcell.ColorYellow).SetSelectable(false)
	}

	if tc.loading() {
		if col == 0 {
			return tview.NewTableCell("loading tasks...").SetSelectable(false)
		}

		return nil
	}

	if row-1 >= len(tc.rows) {
		return nil
	}

	task := tc.rows[row-1]

	switch col {
	case 0:
		return tview.NewTableCell(strconv.Itoa(task.ID)).SetReference(task)
	case 1:
		return tview.NewTableCell(task.NameOfStaff).SetExpansion(1)
	case 2:
		return tview.NewTableCell(task.Title).SetExpansion(1)
	case 3:
		return tview.NewTableCell(task.Content).SetExpansion(contentRatio)
	case 4:
		return tview.NewTableCell(task.Date).SetExpansion(1)
	case 5:
		return tview.NewTableCell(task.Status).SetTextColor(tcell.ColorGreen).SetExpansion(1)
	}

	return nil
}

// GetRowCount returns the number of rows in the table.
func (tc *taskContent) GetRowCount() int {
	if tc.loading() {
		return 2
	}

	return len(tc.rows) + 1
}

// GetColumnCount returns the number of columns in the table.
func (tc *taskContent) GetColumnCount() int {
	return 6
}

// task returns the record behind a table row, accounting for the header.
func (tc *taskContent) task(row int) (api.Task, bool) {
	if idx := row - 1; idx >= 0 && idx < len(tc.rows) && !tc.loading() {
		return tc.rows[idx], true
	}

	return api.Task{}, false
}

// reportContent implements tview.TableContent over the scoped, filtered
// report rows. The content column shows the truncated preview; the full text
// stays on the record for the detail dialog.
type reportContent struct {
	tview.TableContentReadOnly
	rows  []api.Report
	state cache.State
}

func (rc *reportContent) update(rows []api.Report, state cache.State) {
	rc.rows = rows
	rc.state = state
}

func (rc *reportContent) loading() bool {
	return rc.state == cache.Loading && len(rc.rows) == 0
}

// GetCell returns the cell at the given position or nil if no cell.
func (rc *reportContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		headers := []string{"author name", "report title", "report content", "submission date"}
		if col >= len(headers) {
			return nil
		}

		expansion := 1
		if col == 2 {
			expansion = contentRatio
		}

		return tview.NewTableCell(headers[col]).SetExpansion(expansion).
			SetTextColor(tcell.ColorYellow).SetSelectable(false)
	}

	if rc.loading() {
		if col == 0 {
			return tview.NewTableCell("loading reports...").SetSelectable(false)
		}

		return nil
	}

	if row-1 >= len(rc.rows) {
		return nil
	}

	report := rc.rows[row-1]

	switch col {
	case 0:
		return tview.NewTableCell(report.AuthorName).SetExpansion(1).SetReference(report)
	case 1:
		return tview.NewTableCell(report.ReportTitle).SetExpansion(1)
	case 2:
		return tview.NewTableCell(report.PreviewContent()).SetExpansion(contentRatio)
	case 3:
		return tview.NewTableCell(report.SubmissionDate).SetExpansion(1)
	}

	return nil
}

// GetRowCount returns the number of rows in the table.
func (rc *reportContent) GetRowCount() int {
	if rc.loading() {
		return 2
	}

	return len(rc.rows) + 1
}

// GetColumnCount returns the number of columns in the table.
func (rc *reportContent) GetColumnCount() int {
	return 4
}

func (rc *reportContent) report(row int) (api.Report, bool) {
	if idx := row - 1; idx >= 0 && idx < len(rc.rows) && !rc.loading() {
		return rc.rows[idx], true
	}

	return api.Report{}, false
}

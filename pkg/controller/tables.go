package controller

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/kempshot/rmes-client/pkg/scope"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// adminOnlyKeys are the shortcuts hidden from scoped viewers: the reports
// view, task creation, and the owner filter belong to the administrator.
func adminOnlyKeys() map[tcell.Key]bool {
	return map[tcell.Key]bool{
		KeyR: true,
		KeyA: true,
		KeyF: true,
	}
}

func (c *Controller) getTasksGrid() *tview.Grid {
	c.taskHeader = tview.NewTable().SetBorders(false).SetSelectable(false, false)
	c.taskContent = &taskContent{}

	c.taskTable = tview.NewTable().SetBorders(false)
	c.taskTable.SetContent(c.taskContent)
	c.taskTable.SetSelectable(true, false)
	c.taskTable.SetFixed(1, 0)
	c.taskTable.SetSelectedFunc(c.viewTaskDetail)

	grid := tview.NewGrid().SetBorders(true).SetRows(headerRows, 0)

	grid.AddItem(c.taskHeader, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.taskTable, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func (c *Controller) getReportsGrid() *tview.Grid {
	c.reportHeader = tview.NewTable().SetBorders(false).SetSelectable(false, false)
	c.reportContent = &reportContent{}

	c.reportTable = tview.NewTable().SetBorders(false)
	c.reportTable.SetContent(c.reportContent)
	c.reportTable.SetSelectable(true, false)
	c.reportTable.SetFixed(1, 0)
	c.reportTable.SetSelectedFunc(c.viewReportDetail)

	grid := tview.NewGrid().SetBorders(true).SetRows(headerRows, 0)

	grid.AddItem(c.reportHeader, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.reportTable, 1, 0, 1, 1, 0, 0, true)

	return grid
}

const headerRows = 5

// updateTasksHeader rebuilds the tasks header: view title, viewer, the active
// owner filter, and the keyboard shortcuts available to this viewer.
func (c *Controller) updateTasksHeader() {
	c.fillHeader(c.taskHeader, "Task Table", c.taskFilter)
}

func (c *Controller) updateReportsHeader() {
	c.fillHeader(c.reportHeader, "Report Table", c.reportFilter)
}

// fillHeader renders the header used above each table: the view title and
// viewer on the first row, then sorted shortcut columns (misc, view
// switching, actions).
func (c *Controller) fillHeader(header *tview.Table, title, filter string) {
	header.Clear()

	viewer := c.viewer()

	filterText := ""
	if viewer.Privileged {
		name := filter
		if filter == scope.AllOwners {
			name = "All Names"
		}

		filterText = fmt.Sprintf("  [white]filter: [green]%s", name)
	}

	row := 0
	header.SetCell(row, 0,
		tview.NewTableCell(fmt.Sprintf("[yellow]%s  [white]viewer: [green]%s%s", title, viewer.Name, filterText)))
	row++

	shortcuts := map[int][]string{
		0: {},
		1: {},
		2: {},
	}

	adminOnly := adminOnlyKeys()

	for key, event := range c.events {
		if adminOnly[key] && !viewer.Privileged {
			continue
		}

		text := fmt.Sprintf("[orange]<%c>[white] %s", rune(key), event.Description)

		switch event.Description[:4] {
		case "View":
			shortcuts[1] = append(shortcuts[1], text)
		case "New ", "Add ", "Filt":
			shortcuts[2] = append(shortcuts[2], text)
		default:
			shortcuts[0] = append(shortcuts[0], text)
		}
	}

	for col := 0; col < 3; col++ {
		sort.Strings(shortcuts[col])
	}

	for row-1 < len(shortcuts[0]) || row-1 < len(shortcuts[1]) || row-1 < len(shortcuts[2]) {
		for col := 0; col < 3; col++ {
			if row-1 < len(shortcuts[col]) {
				header.SetCell(row, col, tview.NewTableCell(shortcuts[col][row-1]).SetExpansion(1))
			}
		}

		row++
	}
}

// viewTaskDetail opens the detail dialog for the task on the selected row and
// hands the selection to the status update workflow.
func (c *Controller) viewTaskDetail(row, col int) {
	task, ok := c.taskContent.task(row)
	if !ok {
		return
	}

	if err := c.flow.SelectTask(task); err != nil {
		log.Warn().Err(err).Int("task", task.ID).Msg("could not select task")

		return
	}

	c.openTaskDetail(task)
}

func (c *Controller) viewReportDetail(row, col int) {
	report, ok := c.reportContent.report(row)
	if !ok {
		return
	}

	c.openReportDetail(report)
}

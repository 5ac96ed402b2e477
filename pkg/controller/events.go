package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
)

func (c *Controller) initEvents() {
	c.events = map[tcell.Key]KeyEvent{}

	c.events[KeyQ] = KeyEvent{
		Description: "Quit",
		Action:      c.getQuitAction(),
	}

	c.events[KeyL] = KeyEvent{
		Description: "Logout",
		Action:      c.getLogoutAction(),
	}

	c.events[KeyT] = KeyEvent{
		Description: "View Tasks",
		Action:      c.getShowTasksAction(),
	}

	c.events[KeyR] = KeyEvent{
		Description: "View Reports",
		Action:      c.getShowReportsAction(),
	}

	c.events[KeyN] = KeyEvent{
		Description: "New Report",
		Action:      c.getNewReportAction(),
	}

	c.events[KeyA] = KeyEvent{
		Description: "Add Task",
		Action:      c.getNewTaskAction(),
	}

	c.events[KeyF] = KeyEvent{
		Description: "Filter by Name",
		Action:      c.getCycleFilterAction(),
	}
}

func (c *Controller) getQuitAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		log.Info().Msg("terminating application")

		c.app.Stop()

		return nil
	}
}

func (c *Controller) getLogoutAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		c.logout()

		return nil
	}
}

func (c *Controller) getShowTasksAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		c.showTasks()

		return nil
	}
}

// getShowReportsAction guards the reports view behind the administrator
// identity; for everyone else the key does nothing.
func (c *Controller) getShowReportsAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		if !c.viewer().Privileged {
			return nil
		}

		c.showReports()

		return nil
	}
}

func (c *Controller) getNewReportAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		c.switchToReportForm()

		return nil
	}
}

func (c *Controller) getNewTaskAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		if !c.viewer().Privileged {
			return nil
		}

		c.switchToTaskForm()

		return nil
	}
}

// getCycleFilterAction cycles the owner filter on the current table. Only the
// administrator has distinct owners to cycle through; scoped viewers have no
// filter control at all.
func (c *Controller) getCycleFilterAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		if !c.viewer().Privileged {
			return nil
		}

		name, _ := c.pages.GetFrontPage()

		switch name {
		case pageTasks:
			c.taskFilter = cycleFilter(c.taskFilter, c.taskOwners)
			c.refreshTasksView()
		case pageReports:
			c.reportFilter = cycleFilter(c.reportFilter, c.reportOwners)
			c.refreshReportsView()
		}

		return nil
	}
}

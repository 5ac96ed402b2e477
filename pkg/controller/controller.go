package controller

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/kempshot/rmes-client/pkg/cache"
	"github.com/kempshot/rmes-client/pkg/scope"
	"github.com/kempshot/rmes-client/pkg/session"
	"github.com/kempshot/rmes-client/pkg/workflow"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// page names for the tview.Pages stack.
const (
	pageLogin        = "login"
	pageReports      = "reports"
	pageTasks        = "tasks"
	pageTaskDetail   = "taskDetail"
	pageReportDetail = "reportDetail"
	pageReportForm   = "reportForm"
	pageTaskForm     = "taskForm"
)

// Controller mediates between the backend client, the session, the caches,
// and the tview views. All of its fields are touched only from the tview
// event goroutine; network round-trips run in spawned goroutines and re-enter
// through app.QueueUpdateDraw.
type Controller struct {
	ctx     context.Context
	app     *tview.Application
	pages   *tview.Pages
	client  *api.Client
	session *session.Session

	tasks   *cache.Store[api.Task]
	reports *cache.Store[api.Report]
	flow    *workflow.Workflow

	events map[tcell.Key]KeyEvent

	taskContent   *taskContent
	reportContent *reportContent
	taskTable     *tview.Table
	reportTable   *tview.Table
	taskHeader    *tview.Table
	reportHeader  *tview.Table

	// owner refinement, admin only; scope.AllOwners means no filter
	taskFilter   string
	reportFilter string
	taskOwners   []string
	reportOwners []string

	loginForm     *tview.Form
	loginStatus   *tview.TextView
	usernameField *tview.InputField
	passwordField *tview.InputField

	taskDetailText   *tview.TextView
	taskDetailStatus *tview.TextView
	taskDetailForm   *tview.Form
	statusDropDown   *tview.DropDown

	reportDetailText *tview.TextView
	reportDetailForm *tview.Form

	reportForm         *tview.Form
	taskForm           *tview.Form
	reportFormStatus   *tview.TextView
	taskFormStatus     *tview.TextView
	reportAuthorField  *tview.InputField
	reportTitleField   *tview.InputField
	reportContentField *tview.InputField
	reportDateField    *tview.InputField
	taskStaffField     *tview.InputField
	taskTitleField     *tview.InputField
	taskContentField   *tview.InputField
	taskDateField      *tview.InputField
	formOrigin         string
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func(*tcell.EventKey) *tcell.EventKey
}

// NewController creates the Controller and its caches around the given client
// and session.
func NewController(ctx context.Context, client *api.Client, sess *session.Session) (*Controller, error) {
	c := Controller{
		ctx:     ctx,
		app:     tview.NewApplication(),
		pages:   tview.NewPages(),
		client:  client,
		session: sess,
		tasks:   cache.NewStore("tasks", client.FetchTasks),
		reports: cache.NewStore("reports", client.FetchReports),
	}

	c.flow = workflow.New(client, c.reloadTasks)

	c.initEvents()

	return &c, nil
}

// reloadTasks is the workflow's post-update refresh; a load already in flight
// counts as done since its result will be at least as fresh.
func (c *Controller) reloadTasks(ctx context.Context) error {
	err := c.tasks.Load(ctx)
	if errors.Is(err, cache.ErrLoadInFlight) {
		return nil
	}

	return err
}

// Go builds the pages and runs the application until quit.
func (c *Controller) Go() {
	c.pages.AddPage(pageLogin, c.getLoginGrid(), true, true)
	c.pages.AddPage(pageReports, c.getReportsGrid(), true, false)
	c.pages.AddPage(pageTasks, c.getTasksGrid(), true, false)
	c.pages.AddPage(pageTaskDetail, c.getTaskDetailGrid(), true, false)
	c.pages.AddPage(pageReportDetail, c.getReportDetailGrid(), true, false)
	c.pages.AddPage(pageReportForm, c.getReportFormGrid(), true, false)
	c.pages.AddPage(pageTaskForm, c.getTaskFormGrid(), true, false)

	if err := c.app.SetRoot(c.pages, true).SetFocus(c.pages).Run(); err != nil {
		panic(err)
	}
}

// viewer resolves who is looking at the screen; the zero Identity (never
// privileged, owns nothing) stands in when nobody is logged in.
func (c *Controller) viewer() session.Identity {
	identity, ok := c.session.Current()
	if !ok {
		return session.Identity{}
	}

	return identity
}

// routeAfterLogin binds the caches to the new identity and lands it on its
// view: the administrator on the full reports table, everyone else on their
// own tasks. Two-way branch, nothing in between.
func (c *Controller) routeAfterLogin(identity session.Identity) {
	c.tasks.Bind(identity.Name)
	c.reports.Bind(identity.Name)
	c.taskFilter = scope.AllOwners
	c.reportFilter = scope.AllOwners

	if identity.Privileged {
		c.showReports()

		return
	}

	c.showTasks()
}

// logout tears down everything keyed to the identity before the login form
// comes back: session slot, remembered name, both caches, any pending status
// update. The next login starts from nothing.
func (c *Controller) logout() {
	c.session.Logout()
	c.tasks.Bind("")
	c.reports.Bind("")
	c.flow.Close()
	c.taskFilter = scope.AllOwners
	c.reportFilter = scope.AllOwners
	c.refreshTasksView()
	c.refreshReportsView()

	c.app.SetInputCapture(nil)
	c.pages.SwitchToPage(pageLogin)
}

func (c *Controller) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	key := AsKey(evt)
	if k, ok := c.events[key]; ok {
		return k.Action(evt)
	}

	return evt
}

// showTasks switches to the tasks table, re-applying the identity scope and
// kicking off a refresh.
func (c *Controller) showTasks() {
	c.app.SetInputCapture(c.keyboard)
	c.refreshTasksView()
	c.pages.SwitchToPage(pageTasks)
	c.app.SetFocus(c.taskTable)
	c.loadTasks()
}

// showReports switches to the reports table (administrator landing view).
func (c *Controller) showReports() {
	c.app.SetInputCapture(c.keyboard)
	c.refreshReportsView()
	c.pages.SwitchToPage(pageReports)
	c.app.SetFocus(c.reportTable)
	c.loadReports()
}

// loadTasks refreshes the task cache off the UI goroutine and redraws when
// the result lands. A load already in flight is left alone; a superseded
// result was dropped by the cache and there is nothing to draw.
func (c *Controller) loadTasks() {
	go func() {
		err := c.tasks.Load(c.ctx)
		if errors.Is(err, cache.ErrLoadInFlight) || errors.Is(err, cache.ErrSuperseded) ||
			errors.Is(err, cache.ErrNoIdentity) {
			return
		}

		c.app.QueueUpdateDraw(func() {
			c.refreshTasksView()
		})
	}()
}

func (c *Controller) loadReports() {
	go func() {
		err := c.reports.Load(c.ctx)
		if errors.Is(err, cache.ErrLoadInFlight) || errors.Is(err, cache.ErrSuperseded) ||
			errors.Is(err, cache.ErrNoIdentity) {
			return
		}

		c.app.QueueUpdateDraw(func() {
			c.refreshReportsView()
		})
	}()
}

func taskOwner(t api.Task) string { return t.NameOfStaff }

func reportOwner(r api.Report) string { return r.AuthorName }

// refreshTasksView re-applies the identity scope and the admin owner filter
// to the cached tasks and pushes the result into the table content.
func (c *Controller) refreshTasksView() {
	viewer := c.viewer()
	scoped := scope.Scope(c.tasks.Records(), viewer.Name, viewer.Privileged, taskOwner)
	c.taskOwners = scoped.DistinctOwners

	rows := scope.Refine(scoped.Visible, c.taskFilter, taskOwner)
	c.taskContent.update(rows, c.tasks.State())
	c.updateTasksHeader()

	if err := c.tasks.LastErr(); err != nil {
		log.Error().Err(err).Msg("tasks view rendering stale data")
	}
}

func (c *Controller) refreshReportsView() {
	viewer := c.viewer()
	scoped := scope.Scope(c.reports.Records(), viewer.Name, viewer.Privileged, reportOwner)
	c.reportOwners = scoped.DistinctOwners

	rows := scope.Refine(scoped.Visible, c.reportFilter, reportOwner)
	c.reportContent.update(rows, c.reports.State())
	c.updateReportsHeader()

	if err := c.reports.LastErr(); err != nil {
		log.Error().Err(err).Msg("reports view rendering stale data")
	}
}

// cycleFilter advances an owner filter through All -> owner1 -> ... -> All.
func cycleFilter(current string, owners []string) string {
	if len(owners) == 0 {
		return scope.AllOwners
	}

	if current == scope.AllOwners {
		return owners[0]
	}

	for i, owner := range owners {
		if owner == current {
			if i+1 < len(owners) {
				return owners[i+1]
			}

			return scope.AllOwners
		}
	}

	return scope.AllOwners
}

// Package workflow coordinates the task status update: select a task, choose
// a target status, submit, and reconcile the task cache with server truth.
//
// The machine is deliberately small:
//
//	Idle -> TaskSelected -> StatusChosen -> Submitting -> Idle      (success)
//	                                  ^---- Submitting -> StatusChosen (failure, retry)
//
// A failed submit keeps the selection so the user retries without re-picking
// anything; a successful submit never trusts its own guess and always
// re-fetches the tasks collection.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/rs/zerolog/log"
)

// State is the workflow position.
type State int

// Workflow states.
const (
	Idle State = iota
	TaskSelected
	StatusChosen
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TaskSelected:
		return "task_selected"
	case StatusChosen:
		return "status_chosen"
	case Submitting:
		return "submitting"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrPrecondition means submit was attempted without a selected task and
	// chosen status; no network call was made.
	ErrPrecondition = errors.New("no task selected or no status chosen")

	// ErrInvalidStatus means the chosen value is not an accepted status;
	// the workflow state is unchanged.
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrSubmitInFlight means a submit is already outstanding; the duplicate
	// call did nothing.
	ErrSubmitInFlight = errors.New("submit already in flight")
)

// Updater issues the status mutation. *api.Client satisfies it.
type Updater interface {
	UpdateStatus(ctx context.Context, taskID int, status string) error
}

// Reload refreshes the tasks cache after a successful update.
type Reload func(ctx context.Context) error

// Workflow is the status update state machine. One instance serves the task
// detail dialog; methods are safe for the UI goroutine plus the submit
// goroutine.
type Workflow struct {
	mu      sync.Mutex
	state   State
	updater Updater
	reload  Reload
	task    api.Task
	hasTask bool
	status  string
}

// New returns an Idle workflow.
func New(updater Updater, reload Reload) *Workflow {
	return &Workflow{updater: updater, reload: reload}
}

// SelectTask records the task whose detail dialog is being opened and enters
// TaskSelected, dropping any previous selection. Rejected while a submit is
// outstanding.
func (w *Workflow) SelectTask(task api.Task) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == Submitting {
		return ErrSubmitInFlight
	}

	w.task = task
	w.hasTask = true
	w.status = ""
	w.state = TaskSelected

	log.Debug().Int("task", task.ID).Msg("task selected")

	return nil
}

// ChooseStatus records the target status. Valid only from TaskSelected or
// StatusChosen; values outside the accepted set are rejected with no state
// change.
func (w *Workflow) ChooseStatus(status string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != TaskSelected && w.state != StatusChosen {
		return ErrPrecondition
	}

	if !api.ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	w.status = status
	w.state = StatusChosen

	return nil
}

// Submit sends the update and reconciles. With no selection it fails locally
// with ErrPrecondition and performs zero network calls. While Submitting it
// is a guarded no-op, so a double press cannot issue duplicate requests. On
// success the tasks collection is re-fetched (server truth wins over the
// local guess) and the workflow returns to Idle; on failure it stays in
// StatusChosen for a retry.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()

	if w.state == Submitting {
		w.mu.Unlock()

		return ErrSubmitInFlight
	}

	if w.state != StatusChosen || !w.hasTask || w.status == "" {
		w.mu.Unlock()

		return ErrPrecondition
	}

	taskID := w.task.ID
	status := w.status
	w.state = Submitting
	w.mu.Unlock()

	if err := w.updater.UpdateStatus(ctx, taskID, status); err != nil {
		w.mu.Lock()
		w.state = StatusChosen
		w.mu.Unlock()

		log.Error().Err(err).Int("task", taskID).Str("status", status).Msg("status update failed")

		return err
	}

	if err := w.reload(ctx); err != nil {
		// the update itself succeeded; the stale cache is surfaced by the
		// cache state, not by failing the workflow
		log.Warn().Err(err).Msg("tasks refresh after update failed")
	}

	w.mu.Lock()
	w.state = Idle
	w.hasTask = false
	w.status = ""
	w.mu.Unlock()

	log.Info().Int("task", taskID).Str("status", status).Msg("status updated")

	return nil
}

// Close abandons the pending selection and returns to Idle with no side
// effects. A no-op while a submit is outstanding.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == Submitting {
		return
	}

	w.state = Idle
	w.hasTask = false
	w.status = ""
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// Selected returns the task under selection, if any.
func (w *Workflow) Selected() (api.Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.task, w.hasTask
}

// ChosenStatus returns the pending target status, or "".
func (w *Workflow) ChosenStatus() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.status
}

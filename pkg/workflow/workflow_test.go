package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/kempshot/rmes-client/pkg/workflow"
	"github.com/stretchr/testify/assert"
)

// fakeUpdater records update calls and can be told to fail or block.
type fakeUpdater struct {
	mu      sync.Mutex
	calls   int
	lastID  int
	lastVal string
	err     error
	started chan struct{}
	block   chan struct{}
}

func (f *fakeUpdater) UpdateStatus(ctx context.Context, taskID int, status string) error {
	f.mu.Lock()
	f.calls++
	f.lastID = taskID
	f.lastVal = status

	if f.started != nil {
		close(f.started)
		f.started = nil
	}

	block := f.block
	err := f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	return err
}

func (f *fakeUpdater) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

type fakeReloader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeReloader) reload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	return f.err
}

func getTask() api.Task {
	return api.Task{ID: 7, NameOfStaff: "Amy", Title: "inventory", Status: api.StatusInProgress}
}

func TestSubmitWithoutSelectionMakesNoNetworkCall(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	updater := &fakeUpdater{}
	reloader := &fakeReloader{}
	flow := workflow.New(updater, reloader.reload)

	err := flow.Submit(context.Background())
	assert.ErrorIs(err, workflow.ErrPrecondition)
	assert.Equal(0, updater.callCount())
	assert.Equal(0, reloader.calls)
	assert.Equal(workflow.Idle, flow.State())
}

func TestSubmitWithoutStatusMakesNoNetworkCall(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	updater := &fakeUpdater{}
	reloader := &fakeReloader{}
	flow := workflow.New(updater, reloader.reload)

	assert.Nil(flow.SelectTask(getTask()))

	err := flow.Submit(context.Background())
	assert.ErrorIs(err, workflow.ErrPrecondition)
	assert.Equal(0, updater.callCount())
	assert.Equal(workflow.TaskSelected, flow.State())
}

func TestChooseStatusRejectsUnknownValue(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	flow := workflow.New(&fakeUpdater{}, (&fakeReloader{}).reload)

	assert.Nil(flow.SelectTask(getTask()))

	err := flow.ChooseStatus("Half Done")
	assert.ErrorIs(err, workflow.ErrInvalidStatus)
	assert.Equal(workflow.TaskSelected, flow.State())
	assert.Equal("", flow.ChosenStatus())
}

func TestChooseStatusRequiresSelection(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	flow := workflow.New(&fakeUpdater{}, (&fakeReloader{}).reload)

	err := flow.ChooseStatus(api.StatusDone)
	assert.ErrorIs(err, workflow.ErrPrecondition)
	assert.Equal(workflow.Idle, flow.State())
}

func TestSubmitSuccessReloadsAndReturnsToIdle(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	updater := &fakeUpdater{}
	reloader := &fakeReloader{}
	flow := workflow.New(updater, reloader.reload)

	assert.Nil(flow.SelectTask(getTask()))
	assert.Nil(flow.ChooseStatus(api.StatusDone))
	assert.Equal(workflow.StatusChosen, flow.State())

	assert.Nil(flow.Submit(context.Background()))

	assert.Equal(1, updater.callCount())
	assert.Equal(7, updater.lastID)
	assert.Equal(api.StatusDone, updater.lastVal)

	// the workflow never trusts its own guess; it always re-reads
	assert.Equal(1, reloader.calls)
	assert.Equal(workflow.Idle, flow.State())

	_, selected := flow.Selected()
	assert.False(selected)
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	updater := &fakeUpdater{err: errors.New("connection reset")}
	reloader := &fakeReloader{}
	flow := workflow.New(updater, reloader.reload)

	assert.Nil(flow.SelectTask(getTask()))
	assert.Nil(flow.ChooseStatus(api.StatusDone))

	err := flow.Submit(context.Background())
	assert.NotNil(err)

	// selection and status survive for the retry; the cache was not touched
	assert.Equal(workflow.StatusChosen, flow.State())
	assert.Equal(api.StatusDone, flow.ChosenStatus())
	assert.Equal(0, reloader.calls)

	updater.err = nil

	assert.Nil(flow.Submit(context.Background()))
	assert.Equal(2, updater.callCount())
	assert.Equal(1, reloader.calls)
	assert.Equal(workflow.Idle, flow.State())
}

func TestReentrantSubmitIsNoOp(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	started := make(chan struct{})
	block := make(chan struct{})
	updater := &fakeUpdater{started: started, block: block}
	reloader := &fakeReloader{}
	flow := workflow.New(updater, reloader.reload)

	assert.Nil(flow.SelectTask(getTask()))
	assert.Nil(flow.ChooseStatus(api.StatusDone))

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		_ = flow.Submit(context.Background())
	}()

	// wait until the first submit is holding the round-trip open
	<-started

	err := flow.Submit(context.Background())
	assert.ErrorIs(err, workflow.ErrSubmitInFlight)

	close(block)
	wg.Wait()

	// exactly one request went out
	assert.Equal(1, updater.callCount())
}

func TestCloseDiscardsSelection(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	updater := &fakeUpdater{}
	flow := workflow.New(updater, (&fakeReloader{}).reload)

	assert.Nil(flow.SelectTask(getTask()))
	assert.Nil(flow.ChooseStatus(api.StatusDone))

	flow.Close()

	assert.Equal(workflow.Idle, flow.State())
	assert.Equal(0, updater.callCount())

	err := flow.Submit(context.Background())
	assert.ErrorIs(err, workflow.ErrPrecondition)
}

func TestReloadFailureDoesNotFailTheUpdate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	updater := &fakeUpdater{}
	reloader := &fakeReloader{err: errors.New("fetch failed")}
	flow := workflow.New(updater, reloader.reload)

	assert.Nil(flow.SelectTask(getTask()))
	assert.Nil(flow.ChooseStatus(api.StatusDone))

	assert.Nil(flow.Submit(context.Background()))
	assert.Equal(workflow.Idle, flow.State())
}
